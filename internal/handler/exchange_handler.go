package handler

import (
	"context"
	"net/http"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/dto"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExchangeHandler struct {
	exchangeService service.ExchangeService
}

func NewExchangeHandler(exchangeService service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

func (h *ExchangeHandler) Create(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateExchangeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.exchangeService.Create(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ExchangeHandler) ListMine(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit, offset := paginationParams(c, 20)

	exchanges, err := h.exchangeService.ListMine(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exchanges})
}

// Admin endpoints

func (h *ExchangeHandler) ListAll(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	limit, offset := paginationParams(c, 20)

	exchanges, err := h.exchangeService.ListAll(c.Request.Context(), actor, c.Query("status"), limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exchanges})
}

func (h *ExchangeHandler) Approve(c *gin.Context) {
	h.transition(c, "approved", h.exchangeService.Approve)
}

func (h *ExchangeHandler) Reject(c *gin.Context) {
	h.transition(c, "rejected", h.exchangeService.Reject)
}

func (h *ExchangeHandler) Complete(c *gin.Context) {
	h.transition(c, "completed", h.exchangeService.Complete)
}

func (h *ExchangeHandler) transition(c *gin.Context, status string, fn func(context.Context, *model.User, uuid.UUID) error) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	if err := fn(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "exchange " + status})
}
