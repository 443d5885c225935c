package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// DecisionVectorScale is the fixed-point denominator of a decision vector: a
// vote distributes exactly one million parts over the outcomes, so models only
// ever have to produce integers.
const DecisionVectorScale = 1_000_000

// DecisionVector is a probability distribution over the request's outcomes,
// expressed in parts per million.
type DecisionVector []int64

func (v DecisionVector) Sum() int64 {
	var sum int64
	for _, part := range v {
		sum += part
	}
	return sum
}

// Validate checks the simplex invariant. A vector that does not hold it is
// rejected outright, never renormalized: a renormalized vector would
// misrepresent the confidence distribution the model actually produced.
// expectedLen 0 means the request addresses outcomes positionally and any
// non-empty length is accepted.
func (v DecisionVector) Validate(expectedLen int) error {
	if len(v) == 0 {
		return errors.New("decision vector is empty")
	}
	if expectedLen > 0 && len(v) != expectedLen {
		return errors.Newf("decision vector has %d entries, expected %d", len(v), expectedLen)
	}
	for i, part := range v {
		if part < 0 {
			return errors.Newf("decision vector entry %d is negative", i)
		}
	}
	if sum := v.Sum(); sum != DecisionVectorScale {
		return errors.Newf("decision vector sums to %d, expected %d", sum, DecisionVectorScale)
	}
	return nil
}

func (v DecisionVector) String() string {
	parts := make([]string, len(v))
	for i, part := range v {
		parts[i] = strconv.FormatInt(part, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Vote is the canonical form of one model response. The json tags define the
// exact schema models are instructed to reply with.
type Vote struct {
	Scores        DecisionVector `json:"score"`
	Justification string         `json:"justification"`
}

// ModelSpec identifies one voting connector for the lifetime of a request.
type ModelSpec struct {
	Provider    string
	Model       string
	Weight      float64
	SampleCount int
}

func (spec ModelSpec) Name() string {
	return spec.Provider + "/" + spec.Model
}

type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindText  AttachmentKind = "text"
)

type Attachment struct {
	Kind      AttachmentKind
	Payload   []byte
	MediaType string
}

type DeliberationRequest struct {
	Prompt         string
	Outcomes       []string
	Models         []ModelSpec
	IterationCount int
	Attachments    []Attachment
}

// Validate rejects malformed requests before any connector is resolved or any
// network call is made. The weight-sum upper bound of len(models) reproduces
// the historical behavior of the deliberation API; see DESIGN.md.
func (r DeliberationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrMissingPrompt
	}
	if len(r.Models) == 0 {
		return ErrNoModels
	}
	if r.IterationCount < 1 {
		return ErrInvalidIterationCount
	}
	var weightSum float64
	for _, spec := range r.Models {
		if spec.Weight < 0 || spec.Weight > 1 {
			return errors.Wrapf(ErrWeightOutOfRange, "model %s has weight %f", spec.Name(), spec.Weight)
		}
		if spec.SampleCount < 1 {
			return errors.Wrapf(ErrInvalidSampleCount, "model %s", spec.Name())
		}
		weightSum += spec.Weight
	}
	if weightSum <= 0 || weightSum > float64(len(r.Models)) {
		return errors.Wrapf(ErrWeightSumOutOfRange, "sum is %f", weightSum)
	}
	for i, attachment := range r.Attachments {
		switch attachment.Kind {
		case AttachmentKindImage, AttachmentKindText:
		default:
			return errors.Wrapf(ErrInvalidAttachmentKind, "attachment %d has kind %q", i, attachment.Kind)
		}
	}
	return nil
}

// OutcomeCount returns the dimensionality every vote must match, or 0 when
// outcomes are unnamed and the dimensionality is fixed by the first vote.
func (r DeliberationRequest) OutcomeCount() int {
	return len(r.Outcomes)
}

// OutcomeLabels returns the outcome names for a vector of length n, falling
// back to positional labels when the request did not name its outcomes.
func (r DeliberationRequest) OutcomeLabels(n int) []string {
	if len(r.Outcomes) > 0 {
		return r.Outcomes
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("outcome%d", i+1)
	}
	return labels
}

// RoundState is what one deliberation round hands to the next: the composite
// vote of the round just completed and the per-sample summaries injected as
// peer feedback into the next round's prompts. It is owned by the round loop
// and replaced wholesale at every round transition.
type RoundState struct {
	Composite DecisionVector
	Summaries []string
}

type OutcomeScore struct {
	Outcome string
	Score   int64
}

// DeliberationResult is the terminal artifact of a deliberation. Scores are
// the floored components of the final composite vector; their sum may drift a
// few parts per million below the scale because the composite is deliberately
// not renormalized.
type DeliberationResult struct {
	Id            uuid.UUID
	Scores        []OutcomeScore
	Justification string
}
