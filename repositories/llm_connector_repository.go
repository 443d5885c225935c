package repositories

import (
	"context"
	"sync"

	"github.com/getplenum/plenum-backend/infra"
	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/usecases/deliberation"

	"github.com/checkmarble/llmberjack"
	"github.com/checkmarble/llmberjack/llms/aistudio"
	"github.com/checkmarble/llmberjack/llms/openai"
	"github.com/checkmarble/llmberjack/llms/perplexity"
	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// Provider ids accepted in a ModelSpec.
const (
	ProviderOpenAI     = "openai"
	ProviderAIStudio   = "aistudio"
	ProviderPerplexity = "perplexity"
	ProviderGemini     = "gemini"
)

// LlmConnectorRepository resolves provider ids to connectors. Connectors are
// built lazily and cached: one underlying client per provider, shared by every
// deliberation.
type LlmConnectorRepository struct {
	config infra.LlmProviderConfiguration

	mu         sync.Mutex
	connectors map[string]deliberation.Connector
}

func NewLlmConnectorRepository(config infra.LlmProviderConfiguration) *LlmConnectorRepository {
	return &LlmConnectorRepository{
		config:     config,
		connectors: make(map[string]deliberation.Connector),
	}
}

func (r *LlmConnectorRepository) GetConnector(ctx context.Context, provider string) (deliberation.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if connector, ok := r.connectors[provider]; ok {
		return connector, nil
	}

	connector, err := r.buildConnector(ctx, provider)
	if err != nil {
		return nil, err
	}
	r.connectors[provider] = connector
	return connector, nil
}

func (r *LlmConnectorRepository) buildConnector(ctx context.Context, provider string) (deliberation.Connector, error) {
	switch provider {
	case ProviderOpenAI:
		return r.createOpenAIConnector()
	case ProviderAIStudio:
		return r.createAIStudioConnector()
	case ProviderPerplexity:
		return r.createPerplexityConnector()
	case ProviderGemini:
		return r.createGeminiConnector(ctx)
	default:
		return nil, errors.Wrapf(models.ErrUnsupportedProvider, "%q", provider)
	}
}

func (r *LlmConnectorRepository) createOpenAIConnector() (deliberation.Connector, error) {
	opts := []openai.Opt{}
	if r.config.OpenAIURL != "" {
		opts = append(opts, openai.WithBaseUrl(r.config.OpenAIURL))
	}
	if r.config.OpenAIKey != "" {
		opts = append(opts, openai.WithApiKey(r.config.OpenAIKey))
	}

	provider, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OpenAI provider")
	}
	return r.newLlmberjackConnector(ProviderOpenAI, provider)
}

func (r *LlmConnectorRepository) createAIStudioConnector() (deliberation.Connector, error) {
	opts := []aistudio.Opt{}
	if r.config.AIStudioKey != "" {
		opts = append(opts, aistudio.WithApiKey(r.config.AIStudioKey))
	}

	provider, err := aistudio.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AI Studio provider")
	}
	return r.newLlmberjackConnector(ProviderAIStudio, provider)
}

func (r *LlmConnectorRepository) createPerplexityConnector() (deliberation.Connector, error) {
	if r.config.PerplexityKey == "" {
		return nil, errors.Wrapf(models.ErrUnsupportedProvider, "Perplexity API key is not configured")
	}

	provider, err := perplexity.New(openai.WithApiKey(r.config.PerplexityKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Perplexity provider")
	}
	return r.newLlmberjackConnector(ProviderPerplexity, provider)
}

func (r *LlmConnectorRepository) newLlmberjackConnector(name string, provider llmberjack.Llm) (deliberation.Connector, error) {
	adapter, err := llmberjack.New(llmberjack.WithProvider(name, provider))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create LLM adapter")
	}
	return &llmberjackConnector{
		adapter: adapter,
		policy:  newCallPolicy(r.config),
	}, nil
}

func (r *LlmConnectorRepository) createGeminiConnector(ctx context.Context) (deliberation.Connector, error) {
	if r.config.GeminiKey == "" {
		return nil, errors.Wrapf(models.ErrUnsupportedProvider, "Gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  r.config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}
	return &geminiConnector{
		client: client,
		policy: newCallPolicy(r.config),
	}, nil
}
