package handler

import (
	"net/http"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/service"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type CheckinHandler struct {
	checkinService service.CheckinService
}

func NewCheckinHandler(checkinService service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

func (h *CheckinHandler) CheckIn(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.checkinService.CheckIn(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *CheckinHandler) Status(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.checkinService.Status(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
