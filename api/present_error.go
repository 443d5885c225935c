package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/getplenum/plenum-backend/dto"
	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/utils"
)

func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, models.ErrUnsupportedProvider):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.UnsupportedProvider,
		})
	case errors.Is(err, models.ErrCapabilityMismatch):
		c.JSON(http.StatusUnprocessableEntity, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.CapabilityMismatch,
		})
	case errors.Is(err, models.ErrConnectorFailure):
		c.JSON(http.StatusBadGateway, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.ModelCallFailed,
		})
	case errors.Is(err, models.ErrNoModels),
		errors.Is(err, models.ErrWeightOutOfRange),
		errors.Is(err, models.ErrWeightSumOutOfRange),
		errors.Is(err, models.ErrInvalidSampleCount):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.InvalidModelRoster,
		})
	case errors.Is(err, models.BadParameterError):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.UnAuthorizedError):
		c.JSON(http.StatusUnauthorized, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ForbiddenError):
		c.JSON(http.StatusForbidden, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.NotFoundError):
		c.JSON(http.StatusNotFound, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.UnprocessableEntityError):
		c.JSON(http.StatusUnprocessableEntity, dto.APIErrorResponse{Message: err.Error()})
	case errors.Is(err, models.BadGatewayError):
		response := dto.APIErrorResponse{Message: err.Error()}
		// vote parse failures end up here; the raw model response stays
		// server-side, only the reason is surfaced
		var parseErr models.VoteParseError
		if errors.As(err, &parseErr) {
			response.ErrorCode = dto.UnparsableVote
		}
		c.JSON(http.StatusBadGateway, response)
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, dto.APIErrorResponse{Message: "request timed out"})
	default:
		utils.LogAndReportSentryError(ctx, err)
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{Message: "internal error"})
	}
	return true
}
