package deliberation

import (
	"context"
	"fmt"
	"strings"

	"github.com/getplenum/plenum-backend/infra"
	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DEFAULT_MAX_CONCURRENT_MODEL_CALLS = 5

type DeliberationLogRepository interface {
	CreateDeliberationLog(ctx context.Context, log models.DeliberationLog) error
	GetDeliberationLogById(ctx context.Context, id uuid.UUID) (models.DeliberationLog, error)
}

type DeliberationUsecase struct {
	connectorRepository ConnectorRepository
	promptRenderer      PromptRenderer
	logRepository       DeliberationLogRepository
	config              infra.DeliberationConfiguration
}

func NewDeliberationUsecase(
	connectorRepository ConnectorRepository,
	promptRenderer PromptRenderer,
	logRepository DeliberationLogRepository,
	config infra.DeliberationConfiguration,
) DeliberationUsecase {
	return DeliberationUsecase{
		connectorRepository: connectorRepository,
		promptRenderer:      promptRenderer,
		logRepository:       logRepository,
		config:              config,
	}
}

// modelRoundResult is the reduced contribution of one model to one round: the
// sample-averaged vector plus every sample's vote, kept for peer feedback and
// final synthesis.
type modelRoundResult struct {
	spec    models.ModelSpec
	vector  models.DecisionVector
	samples []models.Vote
}

// Deliberate runs the full deliberation protocol: it asks every model of the
// request for a scored vote over the outcomes, sampleCount times per model per
// round, lets models revise their opinion against their peers' reasoning in
// later rounds, and reduces the last round to a single weighted verdict with a
// synthesized justification.
//
// Any single failure aborts the whole request. A model silently dropping out
// would bias the weighted aggregate without the caller's knowledge, so there
// is deliberately no partial-quorum mode.
func (uc DeliberationUsecase) Deliberate(
	ctx context.Context,
	request models.DeliberationRequest,
) (models.DeliberationResult, error) {
	logger := utils.LoggerFromContext(ctx)

	if err := request.Validate(); err != nil {
		return models.DeliberationResult{}, err
	}

	// Resolve every connector up front: an unknown provider or a capability
	// mismatch must be rejected before any network call is spent.
	connectors := make([]Connector, len(request.Models))
	for i, spec := range request.Models {
		connector, err := uc.connectorRepository.GetConnector(ctx, spec.Provider)
		if err != nil {
			return models.DeliberationResult{}, err
		}
		connectors[i] = connector
	}

	if len(request.Attachments) > 0 {
		anySupports := false
		for _, connector := range connectors {
			if supportsAttachments(connector, request.Attachments) {
				anySupports = true
				break
			}
		}
		if !anySupports {
			return models.DeliberationResult{}, models.ErrCapabilityMismatch
		}
	}

	instruction := uc.promptRenderer.Instruction()
	initialPrompt, err := uc.promptRenderer.RenderInitial(request.Outcomes)
	if err != nil {
		return models.DeliberationResult{}, errors.Wrap(err, "could not render initial prompt")
	}

	var state models.RoundState
	var lastRound []modelRoundResult

	for round := 0; round < request.IterationCount; round++ {
		prompt, err := uc.composeRoundPrompt(initialPrompt, request.Prompt, state, round)
		if err != nil {
			return models.DeliberationResult{}, err
		}

		results, err := uc.runRound(ctx, request, connectors, round, instruction, prompt)
		if err != nil {
			return models.DeliberationResult{}, err
		}

		state, err = nextRoundState(results)
		if err != nil {
			return models.DeliberationResult{}, err
		}
		lastRound = results

		logger.DebugContext(ctx, "deliberation round completed",
			"round", round, "composite", state.Composite.String())
	}

	justification, err := uc.synthesize(ctx, instruction, state.Composite, lastRound)
	if err != nil {
		return models.DeliberationResult{}, err
	}

	labels := request.OutcomeLabels(len(state.Composite))
	scores := make([]models.OutcomeScore, len(state.Composite))
	for k, score := range state.Composite {
		scores[k] = models.OutcomeScore{Outcome: labels[k], Score: score}
	}

	result := models.DeliberationResult{
		Id:            uuid.New(),
		Scores:        scores,
		Justification: justification,
	}

	uc.notifyLog(ctx, request, result)

	return result, nil
}

// GetDeliberation reads back the persisted record of a past deliberation.
func (uc DeliberationUsecase) GetDeliberation(ctx context.Context, id uuid.UUID) (models.DeliberationLog, error) {
	if uc.logRepository == nil {
		return models.DeliberationLog{}, errors.Wrap(models.NotFoundError, "deliberation logging is disabled")
	}
	return uc.logRepository.GetDeliberationLogById(ctx, id)
}

// composeRoundPrompt builds the full prompt of one round. Every round repeats
// the voting instructions and the caller's question; rounds after the first
// append every peer's previous vote and reasoning, which is the mechanism that
// turns repeated rounds into convergence instead of independent resampling.
func (uc DeliberationUsecase) composeRoundPrompt(
	initialPrompt, userPrompt string,
	state models.RoundState,
	round int,
) (string, error) {
	prompt := initialPrompt + "\n\n" + userPrompt
	if round == 0 {
		return prompt, nil
	}

	feedback, err := uc.promptRenderer.RenderFeedback(strings.Join(state.Summaries, "\n"))
	if err != nil {
		return "", errors.Wrapf(err, "could not render feedback prompt for round %d", round)
	}
	return prompt + "\n\n" + feedback, nil
}

// runRound gathers every model's vote for one round. Model and sample calls
// have no data dependency on each other, so both axes fan out concurrently
// under one bounded group; the round itself completes only when every call has
// been parsed, because the next round's prompts need all of them.
func (uc DeliberationUsecase) runRound(
	ctx context.Context,
	request models.DeliberationRequest,
	connectors []Connector,
	round int,
	instruction, prompt string,
) ([]modelRoundResult, error) {
	votes := make([][]models.Vote, len(request.Models))
	for i, spec := range request.Models {
		votes[i] = make([]models.Vote, spec.SampleCount)
	}

	limit := uc.config.MaxConcurrentModelCalls
	if limit <= 0 {
		limit = DEFAULT_MAX_CONCURRENT_MODEL_CALLS
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for i, spec := range request.Models {
		connector := connectors[i]
		for j := 0; j < spec.SampleCount; j++ {
			group.Go(func() error {
				select {
				case <-groupCtx.Done():
					return errors.Wrapf(groupCtx.Err(),
						"context cancelled before calling %s (round %d)", spec.Name(), round)
				default:
				}

				raw, err := invokeConnector(groupCtx, connector, spec.Model, instruction,
					prompt, request.Attachments)
				if err != nil {
					return errors.Wrapf(
						errors.Join(models.ErrConnectorFailure, err),
						"%s failed in round %d, sample %d", spec.Name(), round, j)
				}

				vote, err := ParseVote(raw, request.OutcomeCount())
				if err != nil {
					return models.VoteParseError{
						Provider:    spec.Provider,
						Model:       spec.Model,
						Round:       round,
						Reason:      err.Error(),
						RawResponse: raw,
					}
				}

				votes[i][j] = vote
				return nil
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// With unnamed outcomes the first vote fixes the dimensionality; every
	// other vote of the round has to agree with it.
	width := request.OutcomeCount()
	if width == 0 {
		width = len(votes[0][0].Scores)
	}

	results := make([]modelRoundResult, len(request.Models))
	for i, spec := range request.Models {
		for j, vote := range votes[i] {
			if len(vote.Scores) != width {
				return nil, models.VoteParseError{
					Provider: spec.Provider,
					Model:    spec.Model,
					Round:    round,
					Reason: fmt.Sprintf("sample %d voted on %d outcomes while the panel voted on %d",
						j, len(vote.Scores), width),
				}
			}
		}

		vector, _, err := averageSamples(votes[i])
		if err != nil {
			return nil, errors.Wrapf(err, "could not average samples of %s", spec.Name())
		}
		results[i] = modelRoundResult{spec: spec, vector: vector, samples: votes[i]}
	}

	return results, nil
}

// nextRoundState is the round transition: it reduces one round's votes to the
// state consumed by the next round (or by the synthesizer after the last one).
func nextRoundState(results []modelRoundResult) (models.RoundState, error) {
	vectors := make([]models.DecisionVector, len(results))
	weights := make([]float64, len(results))
	var summaries []string

	for i, result := range results {
		vectors[i] = result.vector
		weights[i] = result.spec.Weight
		for _, sample := range result.samples {
			summaries = append(summaries, fmt.Sprintf("From %s: vector=%s, justification=%s",
				result.spec.Name(), sample.Scores.String(), sample.Justification))
		}
	}

	composite, err := aggregateVectors(vectors, weights)
	if err != nil {
		return models.RoundState{}, err
	}

	return models.RoundState{Composite: composite, Summaries: summaries}, nil
}

// synthesize makes the one final call to the justifier connector, asking it to
// reconcile the composite vote with every justification collected in the last
// round. Its answer is returned verbatim; no vote parsing applies to it.
func (uc DeliberationUsecase) synthesize(
	ctx context.Context,
	instruction string,
	composite models.DecisionVector,
	lastRound []modelRoundResult,
) (string, error) {
	connector, err := uc.connectorRepository.GetConnector(ctx, uc.config.JustifierProvider)
	if err != nil {
		return "", errors.Wrap(err, "could not resolve the justifier connector")
	}

	var justifications []string
	for _, result := range lastRound {
		for _, sample := range result.samples {
			justifications = append(justifications,
				fmt.Sprintf("%s: %s", result.spec.Name(), sample.Justification))
		}
	}

	prompt, err := uc.promptRenderer.RenderSynthesis(composite.String(), justifications)
	if err != nil {
		return "", errors.Wrap(err, "could not render synthesis prompt")
	}

	response, err := connector.GenerateResponse(ctx, uc.config.JustifierModel, instruction, prompt)
	if err != nil {
		return "", errors.Wrap(errors.Join(models.ErrConnectorFailure, err),
			"justifier call failed")
	}
	return response, nil
}

// notifyLog records the completed deliberation. Logging is an observer of the
// engine, not a dependency: a write failure is reported but never fails the
// request.
func (uc DeliberationUsecase) notifyLog(
	ctx context.Context,
	request models.DeliberationRequest,
	result models.DeliberationResult,
) {
	if uc.logRepository == nil {
		return
	}

	err := uc.logRepository.CreateDeliberationLog(ctx, models.DeliberationLog{
		Id:             result.Id,
		Prompt:         request.Prompt,
		Outcomes:       request.Outcomes,
		ModelCount:     len(request.Models),
		IterationCount: request.IterationCount,
		Scores:         result.Scores,
		Justification:  result.Justification,
	})
	if err != nil {
		logger := utils.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "could not persist deliberation log",
			"deliberation_id", result.Id.String(), "error", err)
	}
}
