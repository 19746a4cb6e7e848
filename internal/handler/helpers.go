package handler

import (
	"net/http"
	"strconv"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/model"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/apperror"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/response"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/validator"
	"github.com/gin-gonic/gin"
)

func formatValidationError(err error) string {
	return validator.FormatValidationError(err)
}

// actorFromContext returns the admin user the RequireAdmin middleware
// resolved. Privileged handlers fail closed when it is missing.
func actorFromContext(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return nil, false
	}

	actor, ok := value.(*model.User)
	if !ok {
		response.ResponseError(c, apperror.ErrUnauthorized)
		return nil, false
	}

	return actor, true
}

func paginationParams(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	offset := 0

	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	return limit, offset
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
}
