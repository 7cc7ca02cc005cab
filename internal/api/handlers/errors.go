package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/pga-pick-tracker/internal/filter"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/pkg/utils"
)

// respondError maps service errors onto API responses. Anything unrecognised is a 500 and
// is attached to the context so the request logger records it.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPlayerAlreadyUsed):
		utils.SendConflict(c, utils.ErrCodePlayerAlreadyUsed, err.Error())
	case errors.Is(err, services.ErrPickLimitReached):
		utils.SendConflict(c, utils.ErrCodePickLimitReached, err.Error())
	case errors.Is(err, services.ErrPickNotFound), errors.Is(err, services.ErrPlayerNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, filter.ErrInvalidExpression):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidFilter, "Invalid filter expression", err.Error()))
	case errors.Is(err, predictor.ErrUnknownFieldStrength):
		utils.SendValidationError(c, "Invalid field strength", err.Error())
	case errors.Is(err, services.ErrMissingColumns):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeImportFailed, "Import file is missing required columns", err.Error()))
	default:
		_ = c.Error(err)
		utils.SendInternalError(c, "Internal server error")
	}
}
