package handler

import (
	"net/http"

	"garrison/internal/logger"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

type NewsHandler struct {
	news *service.NewsService
}

func NewNewsHandler(news *service.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// GET /api/news
func (h *NewsHandler) List(c *gin.Context) {
	items, err := h.news.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.NewsView, 0, len(items))
	for i := range items {
		out = append(out, h.news.View(&items[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/news/:id
func (h *NewsHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := h.news.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.news.View(n))
}

// POST /api/news  body: {"title","content","category","author"}
func (h *NewsHandler) Create(c *gin.Context) {
	var req model.NewsCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.news.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("news.created", "id", n.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Новость создана", "id": n.ID})
}

// PUT /api/news/:id
func (h *NewsHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.NewsUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.news.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	succeed(c, "Новость обновлена")
}

// DELETE /api/news/:id
func (h *NewsHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.news.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("news.deleted", "id", id)
	succeed(c, "Новость удалена")
}
