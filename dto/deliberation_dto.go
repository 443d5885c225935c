package dto

import (
	"time"

	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/pure_utils"
)

type ModelSpecDto struct {
	Provider    string  `json:"provider" binding:"required"`
	Model       string  `json:"model" binding:"required"`
	Weight      float64 `json:"weight"`
	SampleCount int     `json:"sample_count"`
}

func AdaptModelSpec(dto ModelSpecDto) models.ModelSpec {
	sampleCount := dto.SampleCount
	if sampleCount == 0 {
		sampleCount = 1
	}
	return models.ModelSpec{
		Provider:    dto.Provider,
		Model:       dto.Model,
		Weight:      dto.Weight,
		SampleCount: sampleCount,
	}
}

type AttachmentDto struct {
	Kind      string `json:"kind" binding:"required"`
	MediaType string `json:"media_type"`
	// Payload is base64 in the JSON body, decoded by encoding/json.
	Payload []byte `json:"payload" binding:"required"`
}

func AdaptAttachment(dto AttachmentDto) models.Attachment {
	return models.Attachment{
		Kind:      models.AttachmentKind(dto.Kind),
		Payload:   dto.Payload,
		MediaType: dto.MediaType,
	}
}

type CreateDeliberationBody struct {
	Prompt         string          `json:"prompt" binding:"required"`
	Outcomes       []string        `json:"outcomes"`
	Models         []ModelSpecDto  `json:"models" binding:"required"`
	IterationCount int             `json:"iteration_count"`
	Attachments    []AttachmentDto `json:"attachments"`
}

func AdaptDeliberationRequest(body CreateDeliberationBody) models.DeliberationRequest {
	iterationCount := body.IterationCount
	if iterationCount == 0 {
		iterationCount = 1
	}
	return models.DeliberationRequest{
		Prompt:         body.Prompt,
		Outcomes:       body.Outcomes,
		Models:         pure_utils.Map(body.Models, AdaptModelSpec),
		IterationCount: iterationCount,
		Attachments:    pure_utils.Map(body.Attachments, AdaptAttachment),
	}
}

type OutcomeScoreDto struct {
	Outcome string `json:"outcome"`
	Score   int64  `json:"score"`
}

func AdaptOutcomeScoreDto(score models.OutcomeScore) OutcomeScoreDto {
	return OutcomeScoreDto{
		Outcome: score.Outcome,
		Score:   score.Score,
	}
}

type DeliberationResultDto struct {
	Id            string            `json:"id"`
	Scores        []OutcomeScoreDto `json:"scores"`
	Justification string            `json:"justification"`
}

func AdaptDeliberationResultDto(result models.DeliberationResult) DeliberationResultDto {
	return DeliberationResultDto{
		Id:            result.Id.String(),
		Scores:        pure_utils.Map(result.Scores, AdaptOutcomeScoreDto),
		Justification: result.Justification,
	}
}

type DeliberationLogDto struct {
	Id             string            `json:"id"`
	Prompt         string            `json:"prompt"`
	Outcomes       []string          `json:"outcomes"`
	ModelCount     int               `json:"model_count"`
	IterationCount int               `json:"iteration_count"`
	Scores         []OutcomeScoreDto `json:"scores"`
	Justification  string            `json:"justification"`
	CreatedAt      time.Time         `json:"created_at"`
}

func AdaptDeliberationLogDto(log models.DeliberationLog) DeliberationLogDto {
	return DeliberationLogDto{
		Id:             log.Id.String(),
		Prompt:         log.Prompt,
		Outcomes:       log.Outcomes,
		ModelCount:     log.ModelCount,
		IterationCount: log.IterationCount,
		Scores:         pure_utils.Map(log.Scores, AdaptOutcomeScoreDto),
		Justification:  log.Justification,
		CreatedAt:      log.CreatedAt,
	}
}
