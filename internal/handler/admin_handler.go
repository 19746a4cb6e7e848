package handler

import (
	"net/http"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input dto.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.adminService.CreateUser(c.Request.Context(), actor, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	users, err := h.adminService.GetAllUsers(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input dto.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input dto.AdjustPointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	entry, balance, err := h.adminService.AdjustPoints(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": entry, "balance": balance})
}

func (h *AdminHandler) ListAuditLog(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	limit, offset := paginationParams(c, 50)

	logs, err := h.adminService.ListAuditLog(c.Request.Context(), actor, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
