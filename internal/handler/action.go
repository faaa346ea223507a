package handler

import (
	"context"
	"net/http"

	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

// ActionHandler fans admin actions out to a member or a whole group.
type ActionHandler struct {
	actions *service.ActionService
}

func NewActionHandler(actions *service.ActionService) *ActionHandler {
	return &ActionHandler{actions: actions}
}

func broadcastRoute[R any](create func(context.Context, R) (int, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if !bindJSON(c, &req) {
			return
		}
		n, err := create(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, model.BroadcastResult{Success: true, CreatedFor: n})
	}
}

// POST /api/admin/actions/task
func (h *ActionHandler) Task() gin.HandlerFunc { return broadcastRoute(h.actions.CreateTasks) }

// POST /api/admin/actions/assignment
func (h *ActionHandler) Assignment() gin.HandlerFunc {
	return broadcastRoute(h.actions.CreateAssignments)
}

// POST /api/admin/actions/schedule
func (h *ActionHandler) Schedule() gin.HandlerFunc { return broadcastRoute(h.actions.CreateSchedules) }

// POST /api/admin/actions/notification
func (h *ActionHandler) Notification() gin.HandlerFunc {
	return broadcastRoute(h.actions.CreateNotifications)
}
