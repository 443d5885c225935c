package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// UnprocessableEntityError is rendered with the http status code 422
	UnprocessableEntityError = errors.New("unprocessable entity")

	// BadGatewayError is rendered with the http status code 502
	BadGatewayError = errors.New("upstream failure")
)

// Deliberation request validation errors
var (
	ErrMissingPrompt       = errors.Wrap(BadParameterError, "deliberation prompt is empty")
	ErrNoModels            = errors.Wrap(BadParameterError, "deliberation request has no models")
	ErrWeightOutOfRange    = errors.Wrap(BadParameterError, "model weight must be in [0,1]")
	ErrWeightSumOutOfRange = errors.Wrap(BadParameterError,
		"sum of model weights must be > 0 and at most the number of models")
	ErrInvalidSampleCount    = errors.Wrap(BadParameterError, "model sample count must be at least 1")
	ErrInvalidIterationCount = errors.Wrap(BadParameterError, "iteration count must be at least 1")
	ErrInvalidAttachmentKind = errors.Wrap(BadParameterError, "attachment kind must be image or text")
)

// Deliberation execution errors
var (
	ErrUnsupportedProvider = errors.Wrap(BadParameterError, "unknown connector provider")
	ErrCapabilityMismatch  = errors.Wrap(UnprocessableEntityError,
		"no connector in the request supports the provided attachments")
	ErrConnectorFailure = errors.Wrap(BadGatewayError, "connector call failed")
)

// VoteParseError is returned when a model response could not be reduced to a
// valid vote. It keeps the full raw response so the offending model output can
// be inspected, without leaking it into the error message itself.
type VoteParseError struct {
	Provider    string
	Model       string
	Round       int
	Reason      string
	RawResponse string
}

func (e VoteParseError) Error() string {
	return fmt.Sprintf("could not parse vote from %s/%s (round %d): %s",
		e.Provider, e.Model, e.Round, e.Reason)
}

func (e VoteParseError) Unwrap() error {
	return BadGatewayError
}
