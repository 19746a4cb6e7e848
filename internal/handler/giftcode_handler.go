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

type GiftCodeHandler struct {
	giftCodeService service.GiftCodeService
}

func NewGiftCodeHandler(giftCodeService service.GiftCodeService) *GiftCodeHandler {
	return &GiftCodeHandler{giftCodeService: giftCodeService}
}

func (h *GiftCodeHandler) Redeem(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.giftCodeService.Redeem(c.Request.Context(), userID, input.Code)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Admin endpoints

func (h *GiftCodeHandler) Issue(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var input dto.IssueGiftCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	code, err := h.giftCodeService.AdminIssue(c.Request.Context(), actor, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, code)
}

func (h *GiftCodeHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	codes, err := h.giftCodeService.List(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": codes})
}

func (h *GiftCodeHandler) SetActive(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	var input struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	if err := h.giftCodeService.SetActive(c.Request.Context(), actor, id, *input.Active); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "gift code updated"})
}

func (h *GiftCodeHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	if err := h.giftCodeService.Delete(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "gift code deleted"})
}
