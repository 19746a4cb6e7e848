package handler

import (
	"net/http"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementService: announcementService}
}

func (h *AnnouncementHandler) ListActive(c *gin.Context) {
	announcements, err := h.announcementService.ListActive(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": announcements})
}

// Admin endpoints

func (h *AnnouncementHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input dto.CreateAnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	announcement, err := h.announcementService.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	var input dto.UpdateAnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	announcement, err := h.announcementService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, announcement)
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	if err := h.announcementService.Delete(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "announcement deleted"})
}

func (h *AnnouncementHandler) ListAll(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	announcements, err := h.announcementService.ListAll(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": announcements})
}
