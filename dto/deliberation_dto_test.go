package dto

import (
	"encoding/json"
	"testing"

	"github.com/getplenum/plenum-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptDeliberationRequest(t *testing.T) {
	body := CreateDeliberationBody{
		Prompt:   "approve this?",
		Outcomes: []string{"yes", "no"},
		Models: []ModelSpecDto{
			{Provider: "openai", Model: "gpt-4o", Weight: 0.8, SampleCount: 3},
		},
		IterationCount: 2,
	}

	request := AdaptDeliberationRequest(body)

	assert.Equal(t, "approve this?", request.Prompt)
	assert.Equal(t, []string{"yes", "no"}, request.Outcomes)
	assert.Equal(t, 2, request.IterationCount)
	require.Len(t, request.Models, 1)
	assert.Equal(t, models.ModelSpec{
		Provider: "openai", Model: "gpt-4o", Weight: 0.8, SampleCount: 3,
	}, request.Models[0])
}

// Omitted counts default to a single round and a single sample per model.
func TestAdaptDeliberationRequestDefaults(t *testing.T) {
	body := CreateDeliberationBody{
		Prompt: "q",
		Models: []ModelSpecDto{{Provider: "openai", Model: "gpt-4o", Weight: 1}},
	}

	request := AdaptDeliberationRequest(body)

	assert.Equal(t, 1, request.IterationCount)
	assert.Equal(t, 1, request.Models[0].SampleCount)
}

func TestAdaptAttachmentPayloadIsBase64InJson(t *testing.T) {
	raw := `{"kind": "image", "media_type": "image/png", "payload": "aGVsbG8="}`

	var dto AttachmentDto
	require.NoError(t, json.Unmarshal([]byte(raw), &dto))

	attachment := AdaptAttachment(dto)
	assert.Equal(t, models.AttachmentKindImage, attachment.Kind)
	assert.Equal(t, "image/png", attachment.MediaType)
	assert.Equal(t, []byte("hello"), attachment.Payload)
}

func TestAdaptDeliberationResultDto(t *testing.T) {
	id := uuid.New()
	result := models.DeliberationResult{
		Id: id,
		Scores: []models.OutcomeScore{
			{Outcome: "yes", Score: 700000},
			{Outcome: "no", Score: 300000},
		},
		Justification: "clear majority",
	}

	dto := AdaptDeliberationResultDto(result)

	assert.Equal(t, id.String(), dto.Id)
	assert.Equal(t, []OutcomeScoreDto{
		{Outcome: "yes", Score: 700000},
		{Outcome: "no", Score: 300000},
	}, dto.Scores)
	assert.Equal(t, "clear majority", dto.Justification)
}
