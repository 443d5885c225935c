package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getplenum/plenum-backend/dto"
	"github.com/getplenum/plenum-backend/models"
)

func TestPresentErrorStatusAndCodeMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{
			name:       "unsupported provider",
			err:        errors.Wrap(models.ErrUnsupportedProvider, "no such provider anthropic"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.UnsupportedProvider,
		},
		{
			name:       "capability mismatch",
			err:        errors.Wrap(models.ErrCapabilityMismatch, "text-only roster"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.CapabilityMismatch,
		},
		{
			name: "connector failure keeps its code through a joined cause",
			err: errors.Wrapf(
				errors.Join(models.ErrConnectorFailure, errors.New("upstream unavailable")),
				"openai/gpt-4o failed in round 0, sample 0"),
			wantStatus: http.StatusBadGateway,
			wantCode:   dto.ModelCallFailed,
		},
		{
			name:       "empty roster",
			err:        models.ErrNoModels,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.InvalidModelRoster,
		},
		{
			name:       "weight out of range",
			err:        errors.Wrap(models.ErrWeightOutOfRange, "model openai/gpt-4o"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.InvalidModelRoster,
		},
		{
			name:       "weight sum out of range",
			err:        models.ErrWeightSumOutOfRange,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.InvalidModelRoster,
		},
		{
			name:       "sample count below one",
			err:        models.ErrInvalidSampleCount,
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.InvalidModelRoster,
		},
		{
			name:       "plain bad parameter has no code",
			err:        errors.Wrap(models.BadParameterError, "deliberation prompt is empty"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "",
		},
		{
			name: "vote parse failure",
			err: models.VoteParseError{
				Provider:    "openai",
				Model:       "gpt-4o",
				Round:       1,
				Reason:      "scores do not sum to 1000000",
				RawResponse: "the raw rambling",
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   dto.UnparsableVote,
		},
		{
			name:       "not found",
			err:        errors.Wrap(models.NotFoundError, "no deliberation with this id"),
			wantStatus: http.StatusNotFound,
			wantCode:   "",
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusRequestTimeout,
			wantCode:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			handled := presentError(c.Request.Context(), c, tt.err)
			require.True(t, handled)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			var body dto.APIErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.ErrorCode)
		})
	}
}

func TestPresentErrorNilIsNotHandled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	assert.False(t, presentError(context.Background(), c, nil))
}

func TestPresentErrorHidesRawModelResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/deliberations", nil)

	parseErr := models.VoteParseError{
		Provider:    "openai",
		Model:       "gpt-4o",
		Round:       0,
		Reason:      "no vote found",
		RawResponse: "here is my secret chain of thought",
	}
	require.True(t, presentError(c.Request.Context(), c, parseErr))

	assert.NotContains(t, recorder.Body.String(), parseErr.RawResponse)
}
