package deliberation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/getplenum/plenum-backend/infra"
	"github.com/getplenum/plenum-backend/models"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConnector replays scripted responses. With a single response it answers
// every call identically; with several it pops them in call order.
type fakeConnector struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
	calls     int
}

func (c *fakeConnector) GenerateResponse(ctx context.Context, model, instruction, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 1 {
		return c.responses[0], nil
	}
	response := c.responses[0]
	c.responses = c.responses[1:]
	return response, nil
}

func (c *fakeConnector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *fakeConnector) recordedPrompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

type fakeAttachmentConnector struct {
	fakeConnector
	mu          sync.Mutex
	attachments [][]models.Attachment
}

func (c *fakeAttachmentConnector) GenerateResponseWithAttachments(ctx context.Context,
	model, instruction, prompt string, attachments []models.Attachment,
) (string, error) {
	c.mu.Lock()
	c.attachments = append(c.attachments, attachments)
	c.mu.Unlock()
	return c.GenerateResponse(ctx, model, instruction, prompt)
}

type fakeImageConnector struct {
	fakeConnector
	mu     sync.Mutex
	images []models.Attachment
}

func (c *fakeImageConnector) GenerateResponseWithImage(ctx context.Context,
	model, instruction, prompt string, image models.Attachment,
) (string, error) {
	c.mu.Lock()
	c.images = append(c.images, image)
	c.mu.Unlock()
	return c.GenerateResponse(ctx, model, instruction, prompt)
}

type fakeConnectorRepository struct {
	connectors map[string]Connector
}

func (r fakeConnectorRepository) GetConnector(ctx context.Context, provider string) (Connector, error) {
	connector, ok := r.connectors[provider]
	if !ok {
		return nil, errors.Wrapf(models.ErrUnsupportedProvider, "provider %s", provider)
	}
	return connector, nil
}

type fakePromptRenderer struct{}

func (fakePromptRenderer) Instruction() string {
	return "vote honestly"
}

func (fakePromptRenderer) RenderInitial(outcomes []string) (string, error) {
	return fmt.Sprintf("INITIAL outcomes=%s", strings.Join(outcomes, "|")), nil
}

func (fakePromptRenderer) RenderFeedback(previousSummaries string) (string, error) {
	return "FEEDBACK\n" + previousSummaries, nil
}

func (fakePromptRenderer) RenderSynthesis(compositeVector string, justifications []string) (string, error) {
	return fmt.Sprintf("SYNTHESIS %s\n%s", compositeVector, strings.Join(justifications, "\n")), nil
}

type fakeLogRepository struct {
	mu      sync.Mutex
	created []models.DeliberationLog
	err     error
	stored  map[uuid.UUID]models.DeliberationLog
}

func (r *fakeLogRepository) CreateDeliberationLog(ctx context.Context, log models.DeliberationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, log)
	return nil
}

func (r *fakeLogRepository) GetDeliberationLogById(ctx context.Context, id uuid.UUID) (models.DeliberationLog, error) {
	log, ok := r.stored[id]
	if !ok {
		return models.DeliberationLog{}, errors.Wrap(models.NotFoundError, "deliberation not found")
	}
	return log, nil
}

func voteJson(scores string, justification string) string {
	return fmt.Sprintf(`{"score": [%s], "justification": %q}`, scores, justification)
}

func testConfig() infra.DeliberationConfiguration {
	return infra.DeliberationConfiguration{
		JustifierProvider: "openai",
		JustifierModel:    "gpt-4o",
	}
}

func TestDeliberateSingleRound(t *testing.T) {
	ctx := context.Background()

	first := &fakeConnector{responses: []string{voteJson("600000, 400000", "approve looks right")}}
	second := &fakeConnector{responses: []string{voteJson("200000, 800000", "reject looks right")}}
	justifier := &fakeConnector{responses: []string{"the panel leans toward rejection"}}
	logs := &fakeLogRepository{}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"first":  first,
			"second": second,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		logs,
		testConfig(),
	)

	result, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "should we approve this transaction?",
		Outcomes: []string{"approve", "reject"},
		Models: []models.ModelSpec{
			{Provider: "first", Model: "m1", Weight: 1, SampleCount: 1},
			{Provider: "second", Model: "m2", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.Id)
	assert.Equal(t, []models.OutcomeScore{
		{Outcome: "approve", Score: 400000},
		{Outcome: "reject", Score: 600000},
	}, result.Scores)
	assert.Equal(t, "the panel leans toward rejection", result.Justification)

	assert.Equal(t, 1, first.callCount())
	assert.Equal(t, 1, second.callCount())
	assert.Equal(t, 1, justifier.callCount())

	require.Len(t, logs.created, 1)
	assert.Equal(t, result.Id, logs.created[0].Id)
	assert.Equal(t, 2, logs.created[0].ModelCount)
	assert.Equal(t, result.Scores, logs.created[0].Scores)
}

func TestDeliberateWeightedComposite(t *testing.T) {
	ctx := context.Background()

	strong := &fakeConnector{responses: []string{voteJson("1000000, 0", "certain")}}
	weak := &fakeConnector{responses: []string{voteJson("0, 1000000", "also certain")}}
	justifier := &fakeConnector{responses: []string{"split"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"strong": strong,
			"weak":   weak,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	result, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "which way?",
		Outcomes: []string{"a", "b"},
		Models: []models.ModelSpec{
			{Provider: "strong", Model: "m1", Weight: 0.75, SampleCount: 1},
			{Provider: "weak", Model: "m2", Weight: 0.25, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(750000), result.Scores[0].Score)
	assert.Equal(t, int64(250000), result.Scores[1].Score)
}

func TestDeliberateSampleAveraging(t *testing.T) {
	ctx := context.Background()

	sampler := &fakeConnector{responses: []string{
		voteJson("400000, 600000", "first opinion"),
		voteJson("420000, 580000", "second opinion"),
	}}
	justifier := &fakeConnector{responses: []string{"averaged"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"sampler": sampler,
			"openai":  justifier,
		}},
		fakePromptRenderer{},
		nil,
		infra.DeliberationConfiguration{
			JustifierProvider: "openai",
			JustifierModel:    "gpt-4o",
			// sequential samples, so the scripted responses pop in order
			MaxConcurrentModelCalls: 1,
		},
	)

	result, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "how confident are we?",
		Outcomes: []string{"yes", "no"},
		Models: []models.ModelSpec{
			{Provider: "sampler", Model: "m1", Weight: 1, SampleCount: 2},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(410000), result.Scores[0].Score)
	assert.Equal(t, int64(590000), result.Scores[1].Score)
	assert.Equal(t, 2, sampler.callCount())
}

func TestDeliberateSampledAndWeightedEndToEnd(t *testing.T) {
	ctx := context.Background()

	sampled := &fakeConnector{responses: []string{
		voteJson("400000, 600000", "leaning no"),
		voteJson("420000, 580000", "still leaning no"),
	}}
	single := &fakeConnector{responses: []string{voteJson("300000, 700000", "clearly no")}}
	justifier := &fakeConnector{responses: []string{"the panel says no"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"sampled": sampled,
			"single":  single,
			"openai":  justifier,
		}},
		fakePromptRenderer{},
		nil,
		infra.DeliberationConfiguration{
			JustifierProvider:       "openai",
			JustifierModel:          "gpt-4o",
			MaxConcurrentModelCalls: 1,
		},
	)

	result, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "approve the application?",
		Outcomes: []string{"yes", "no"},
		Models: []models.ModelSpec{
			{Provider: "sampled", Model: "m1", Weight: 0.5, SampleCount: 2},
			{Provider: "single", Model: "m2", Weight: 0.5, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)

	// samples average to [410000,590000], then the equal-weight mean with
	// [300000,700000] floors to [355000,645000]
	assert.Equal(t, []models.OutcomeScore{
		{Outcome: "yes", Score: 355000},
		{Outcome: "no", Score: 645000},
	}, result.Scores)
}

func TestDeliberateSecondRoundSeesPeerFeedback(t *testing.T) {
	ctx := context.Background()

	first := &fakeConnector{responses: []string{voteJson("700000, 300000", "strong precedent for approval")}}
	second := &fakeConnector{responses: []string{voteJson("500000, 500000", "could go either way")}}
	justifier := &fakeConnector{responses: []string{"done"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"first":  first,
			"second": second,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "approve?",
		Outcomes: []string{"yes", "no"},
		Models: []models.ModelSpec{
			{Provider: "first", Model: "m1", Weight: 1, SampleCount: 1},
			{Provider: "second", Model: "m2", Weight: 1, SampleCount: 1},
		},
		IterationCount: 2,
	})
	require.NoError(t, err)

	prompts := first.recordedPrompts()
	require.Len(t, prompts, 2)

	assert.NotContains(t, prompts[0], "FEEDBACK")

	assert.Contains(t, prompts[1], "FEEDBACK")
	assert.Contains(t, prompts[1], "From first/m1: vector=[700000,300000], justification=strong precedent for approval")
	assert.Contains(t, prompts[1], "From second/m2: vector=[500000,500000], justification=could go either way")
	// every round repeats the question and the voting instructions
	assert.Contains(t, prompts[1], "approve?")
	assert.Contains(t, prompts[1], "INITIAL")
}

func TestDeliberateSynthesisPromptContents(t *testing.T) {
	ctx := context.Background()

	voter := &fakeConnector{responses: []string{voteJson("250000, 750000", "the metrics say no")}}
	justifier := &fakeConnector{responses: []string{"summary"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"voter":  voter,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "go ahead?",
		Outcomes: []string{"yes", "no"},
		Models: []models.ModelSpec{
			{Provider: "voter", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)

	prompts := justifier.recordedPrompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "SYNTHESIS [250000,750000]")
	assert.Contains(t, prompts[0], "voter/m1: the metrics say no")
}

func TestDeliberateConnectorFailureAborts(t *testing.T) {
	ctx := context.Background()

	healthy := &fakeConnector{responses: []string{voteJson("1000000, 0", "fine")}}
	broken := &fakeConnector{err: errors.New("upstream unavailable")}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"healthy": healthy,
			"broken":  broken,
			"openai":  healthy,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "q",
		Outcomes: []string{"a", "b"},
		Models: []models.ModelSpec{
			{Provider: "healthy", Model: "m1", Weight: 1, SampleCount: 1},
			{Provider: "broken", Model: "m2", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConnectorFailure)
	assert.ErrorIs(t, err, models.BadGatewayError)
}

func TestDeliberateJustifierFailureAborts(t *testing.T) {
	ctx := context.Background()

	voter := &fakeConnector{responses: []string{voteJson("1000000, 0", "fine")}}
	brokenJustifier := &fakeConnector{err: errors.New("upstream unavailable")}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"voter":  voter,
			"openai": brokenJustifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "q",
		Outcomes: []string{"a", "b"},
		Models: []models.ModelSpec{
			{Provider: "voter", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrConnectorFailure)
	assert.ErrorIs(t, err, models.BadGatewayError)
}

func TestDeliberateParseFailureCarriesRawResponse(t *testing.T) {
	ctx := context.Background()

	rambler := &fakeConnector{responses: []string{"I cannot commit to numbers on this one."}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"rambler": rambler,
			"openai":  rambler,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "q",
		Outcomes: []string{"a", "b"},
		Models: []models.ModelSpec{
			{Provider: "rambler", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.Error(t, err)

	var parseErr models.VoteParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "rambler", parseErr.Provider)
	assert.Equal(t, "m1", parseErr.Model)
	assert.Equal(t, 0, parseErr.Round)
	assert.Equal(t, "I cannot commit to numbers on this one.", parseErr.RawResponse)
	assert.ErrorIs(t, err, models.BadGatewayError)
}

func TestDeliberateUnsupportedProvider(t *testing.T) {
	ctx := context.Background()

	connector := &fakeConnector{responses: []string{voteJson("1000000", "x")}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{"known": connector}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "q",
		Outcomes: []string{"a"},
		Models: []models.ModelSpec{
			{Provider: "unknown", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnsupportedProvider)
	assert.Equal(t, 0, connector.callCount())
}

func TestDeliberateCapabilityMismatch(t *testing.T) {
	ctx := context.Background()

	textOnly := &fakeConnector{responses: []string{voteJson("1000000", "x")}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"text":   textOnly,
			"openai": textOnly,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "what is in this image?",
		Outcomes: []string{"a"},
		Models: []models.ModelSpec{
			{Provider: "text", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
		Attachments: []models.Attachment{
			{Kind: models.AttachmentKindImage, Payload: []byte{0xff}, MediaType: "image/png"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCapabilityMismatch)
	// rejected before any network call
	assert.Equal(t, 0, textOnly.callCount())
}

func TestDeliberateAttachmentDispatch(t *testing.T) {
	ctx := context.Background()

	capable := &fakeAttachmentConnector{
		fakeConnector: fakeConnector{responses: []string{voteJson("600000, 400000", "saw the file")}},
	}
	textOnly := &fakeConnector{responses: []string{voteJson("400000, 600000", "text only")}}
	justifier := &fakeConnector{responses: []string{"done"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"capable": capable,
			"text":    textOnly,
			"openai":  justifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	attachments := []models.Attachment{
		{Kind: models.AttachmentKindText, Payload: []byte("contract body"), MediaType: "text/plain"},
		{Kind: models.AttachmentKindImage, Payload: []byte{0x1}, MediaType: "image/png"},
	}

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "is this contract acceptable?",
		Outcomes: []string{"yes", "no"},
		Models: []models.ModelSpec{
			{Provider: "capable", Model: "m1", Weight: 1, SampleCount: 1},
			{Provider: "text", Model: "m2", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
		Attachments:    attachments,
	})
	require.NoError(t, err)

	// the capable connector saw the attachments, the text-only peer still voted
	require.Len(t, capable.attachments, 1)
	assert.Equal(t, attachments, capable.attachments[0])
	assert.Equal(t, 1, textOnly.callCount())
}

func TestDeliberateSingleImageDispatch(t *testing.T) {
	ctx := context.Background()

	imageCapable := &fakeImageConnector{
		fakeConnector: fakeConnector{responses: []string{voteJson("1000000", "saw the image")}},
	}
	justifier := &fakeConnector{responses: []string{"done"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"vision": imageCapable,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	image := models.Attachment{Kind: models.AttachmentKindImage, Payload: []byte{0x2}, MediaType: "image/jpeg"}

	_, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "what does the chart show?",
		Outcomes: []string{"up"},
		Models: []models.ModelSpec{
			{Provider: "vision", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
		Attachments:    []models.Attachment{image},
	})
	require.NoError(t, err)

	require.Len(t, imageCapable.images, 1)
	assert.Equal(t, image, imageCapable.images[0])
}

func TestDeliberatePositionalOutcomeLabels(t *testing.T) {
	ctx := context.Background()

	voter := &fakeConnector{responses: []string{voteJson("200000, 300000, 500000", "three ways")}}
	justifier := &fakeConnector{responses: []string{"done"}}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"voter":  voter,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	result, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt: "rank the options",
		Models: []models.ModelSpec{
			{Provider: "voter", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)

	require.Len(t, result.Scores, 3)
	assert.Equal(t, "outcome1", result.Scores[0].Outcome)
	assert.Equal(t, "outcome2", result.Scores[1].Outcome)
	assert.Equal(t, "outcome3", result.Scores[2].Outcome)
}

func TestDeliberateLogFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()

	voter := &fakeConnector{responses: []string{voteJson("1000000", "sure")}}
	justifier := &fakeConnector{responses: []string{"done"}}
	logs := &fakeLogRepository{err: errors.New("database down")}

	uc := NewDeliberationUsecase(
		fakeConnectorRepository{connectors: map[string]Connector{
			"voter":  voter,
			"openai": justifier,
		}},
		fakePromptRenderer{},
		logs,
		testConfig(),
	)

	result, err := uc.Deliberate(ctx, models.DeliberationRequest{
		Prompt:   "q",
		Outcomes: []string{"a"},
		Models: []models.ModelSpec{
			{Provider: "voter", Model: "m1", Weight: 1, SampleCount: 1},
		},
		IterationCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result.Justification)
}

func TestDeliberateRejectsInvalidRequests(t *testing.T) {
	uc := NewDeliberationUsecase(
		fakeConnectorRepository{},
		fakePromptRenderer{},
		nil,
		testConfig(),
	)

	tests := []struct {
		name    string
		request models.DeliberationRequest
		wantErr error
	}{
		{
			name: "missing prompt",
			request: models.DeliberationRequest{
				Models:         []models.ModelSpec{{Provider: "p", Model: "m", Weight: 1, SampleCount: 1}},
				IterationCount: 1,
			},
			wantErr: models.ErrMissingPrompt,
		},
		{
			name: "no models",
			request: models.DeliberationRequest{
				Prompt:         "q",
				IterationCount: 1,
			},
			wantErr: models.ErrNoModels,
		},
		{
			name: "zero iterations",
			request: models.DeliberationRequest{
				Prompt: "q",
				Models: []models.ModelSpec{{Provider: "p", Model: "m", Weight: 1, SampleCount: 1}},
			},
			wantErr: models.ErrInvalidIterationCount,
		},
		{
			name: "weight out of range",
			request: models.DeliberationRequest{
				Prompt:         "q",
				Models:         []models.ModelSpec{{Provider: "p", Model: "m", Weight: 1.5, SampleCount: 1}},
				IterationCount: 1,
			},
			wantErr: models.ErrWeightOutOfRange,
		},
		{
			name: "all weights zero",
			request: models.DeliberationRequest{
				Prompt: "q",
				Models: []models.ModelSpec{
					{Provider: "p", Model: "m1", Weight: 0, SampleCount: 1},
					{Provider: "p", Model: "m2", Weight: 0, SampleCount: 1},
				},
				IterationCount: 1,
			},
			wantErr: models.ErrWeightSumOutOfRange,
		},
		{
			name: "zero samples",
			request: models.DeliberationRequest{
				Prompt:         "q",
				Models:         []models.ModelSpec{{Provider: "p", Model: "m", Weight: 1, SampleCount: 0}},
				IterationCount: 1,
			},
			wantErr: models.ErrInvalidSampleCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Deliberate(context.Background(), tt.request)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, models.BadParameterError)
		})
	}
}

func TestGetDeliberation(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	logs := &fakeLogRepository{stored: map[uuid.UUID]models.DeliberationLog{
		id: {Id: id, Prompt: "past question", Justification: "past answer"},
	}}

	uc := NewDeliberationUsecase(fakeConnectorRepository{}, fakePromptRenderer{}, logs, testConfig())

	log, err := uc.GetDeliberation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "past question", log.Prompt)

	_, err = uc.GetDeliberation(ctx, uuid.New())
	assert.ErrorIs(t, err, models.NotFoundError)
}

func TestGetDeliberationWithoutLogRepository(t *testing.T) {
	uc := NewDeliberationUsecase(fakeConnectorRepository{}, fakePromptRenderer{}, nil, testConfig())

	_, err := uc.GetDeliberation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.NotFoundError)
}
