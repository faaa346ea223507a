package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"garrison/internal/logger"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ApplicationHandler struct {
	apps *service.ApplicationService
}

func NewApplicationHandler(apps *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// GET /api/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.apps.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.ApplicationView, 0, len(apps))
	for i := range apps {
		out = append(out, model.NewApplicationView(&apps[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	app, err := h.apps.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewApplicationView(app))
}

// PUT /api/applications/:id/status  body: {"status":"..."}
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	var status *string
	if req.Status.Set {
		status = req.Status.Value
	}
	if err := h.apps.UpdateStatus(c.Request.Context(), id, status); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("application.status", "id", id, "status", status)
	succeed(c, "Статус обновлен")
}

// GET /api/admin/applications/export
func (h *ApplicationHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.apps.Export(c.Request.Context(), &buf); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("applications-%s.xlsx", time.Now().Format(model.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
