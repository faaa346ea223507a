package handler

import (
	"net/http"

	"garrison/internal/logger"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups *service.GroupService
}

func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// GET /api/admin/groups
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// POST /api/admin/groups  body: {"name","description"}
func (h *GroupHandler) Create(c *gin.Context) {
	var req model.GroupCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("group.created", "id", id, "name", req.Name)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// PUT /api/admin/groups/:id
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.GroupUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.groups.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Envelope{Success: true})
}

// DELETE /api/admin/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("group.deleted", "id", id)
	c.JSON(http.StatusOK, model.Envelope{Success: true})
}

// GET /api/admin/groups/:id/members
func (h *GroupHandler) Members(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	members, err := h.groups.Members(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// POST /api/admin/groups/:id/members  body: {"username"}
func (h *GroupHandler) AddMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.groups.AddMember(c.Request.Context(), id, req.Username); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Envelope{Success: true})
}

// DELETE /api/admin/groups/:id/members/:user_id
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	uid, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	if err := h.groups.RemoveMember(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Envelope{Success: true})
}
