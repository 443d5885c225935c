package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code,omitempty"`
}

type ErrorCode string

const (
	// request validation related
	InvalidModelRoster ErrorCode = "invalid_model_roster"

	// execution related
	UnsupportedProvider ErrorCode = "unsupported_provider"
	CapabilityMismatch  ErrorCode = "capability_mismatch"
	ModelCallFailed     ErrorCode = "model_call_failed"
	UnparsableVote      ErrorCode = "unparsable_vote"
)
