package handler

import (
	"net/http"

	"garrison/internal/middleware"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

type pageData struct {
	Page  string
	Title string
	User  *model.AccountView
}

type PageHandler struct {
	members *service.MemberService
}

func NewPageHandler(members *service.MemberService) *PageHandler {
	return &PageHandler{members: members}
}

// Static returns a handler rendering the shell page for name.
func (h *PageHandler) Static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "page.html", pageData{Page: name, Title: title})
	}
}

// GET /user
func (h *PageHandler) Member(c *gin.Context) {
	uid, _ := middleware.MemberID(c)
	a, err := h.members.Get(c.Request.Context(), uid)
	if err != nil {
		// Account deleted under a live session.
		c.Redirect(http.StatusFound, "/logout")
		return
	}
	v := service.AccountView(a)
	c.HTML(http.StatusOK, "page.html", pageData{Page: "user", Title: "Личный кабинет", User: &v})
}
