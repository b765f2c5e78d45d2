package api

import (
	"net/http"
	"strconv"

	"github.com/ecarponi/obsbook/internal/service/scheduler"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service scheduler.SchedulerUseCase
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type blockRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

func NewUserHandler(service scheduler.SchedulerUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.PUT("/:id/role", h.updateRole)
	router.PUT("/:id/block", h.block)
	router.DELETE("/:id", h.delete)
}

func (h *UserHandler) updateRole(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateUserRole(c.Request.Context(), id, req.Role); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) block(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.BlockUser(c.Request.Context(), id, *req.Blocked); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}
