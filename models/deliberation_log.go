package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliberationLog is the persisted record of one completed deliberation. The
// engine itself owns no state; the log is written best-effort after the result
// has been produced and is only read back through the API.
type DeliberationLog struct {
	Id             uuid.UUID
	Prompt         string
	Outcomes       []string
	ModelCount     int
	IterationCount int
	Scores         []OutcomeScore
	Justification  string
	CreatedAt      time.Time
}
