package handler

import (
	"net/http"

	"garrison/internal/logger"
	"garrison/internal/middleware"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler serves /api/user/*. Every route sits behind MemberRequired,
// so the member id is always present.
type MemberHandler struct {
	members *service.MemberService
}

func NewMemberHandler(members *service.MemberService) *MemberHandler {
	return &MemberHandler{members: members}
}

func memberID(c *gin.Context) int {
	uid, _ := middleware.MemberID(c)
	return uid
}

// GET /api/user/me
func (h *MemberHandler) Me(c *gin.Context) {
	a, err := h.members.Get(c.Request.Context(), memberID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.AccountView(a))
}

// GET /api/user/tasks
func (h *MemberHandler) Tasks(c *gin.Context) {
	rows, err := h.members.Tasks(c.Request.Context(), memberID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /api/user/assignments
func (h *MemberHandler) Assignments(c *gin.Context) {
	rows, err := h.members.Assignments(c.Request.Context(), memberID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /api/user/notifications
func (h *MemberHandler) Notifications(c *gin.Context) {
	rows, err := h.members.Notifications(c.Request.Context(), memberID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// PUT /api/user/notifications/:id/read
func (h *MemberHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.members.MarkNotificationRead(c.Request.Context(), memberID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Envelope{Success: true})
}

// GET /api/user/schedule
func (h *MemberHandler) Schedule(c *gin.Context) {
	rows, err := h.members.Schedule(c.Request.Context(), memberID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GET /api/admin/users
func (h *MemberHandler) List(c *gin.Context) {
	accts, err := h.members.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accts)
}

// PUT /api/admin/users/:id  body: {"rank":"..."}
func (h *MemberHandler) UpdateRank(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.AccountUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.members.UpdateRank(c.Request.Context(), id, req.Rank); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("account.rank", "id", id)
	c.JSON(http.StatusOK, model.Envelope{Success: true})
}
