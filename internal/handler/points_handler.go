package handler

import (
	"net/http"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type PointsHandler struct {
	ledgerService service.LedgerService
}

func NewPointsHandler(ledgerService service.LedgerService) *PointsHandler {
	return &PointsHandler{ledgerService: ledgerService}
}

func (h *PointsHandler) GetBalance(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit, offset := paginationParams(c, 20)

	balance, err := h.ledgerService.Balance(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

func (h *PointsHandler) GameReward(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	game := c.Param("game")
	if game == "" {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	res, err := h.ledgerService.GameReward(c.Request.Context(), userID, game)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
