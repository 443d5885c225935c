package repositories

import (
	"context"

	"github.com/getplenum/plenum-backend/infra"
	"github.com/getplenum/plenum-backend/models"

	"github.com/avast/retry-go/v4"
	"github.com/checkmarble/llmberjack"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// callPolicy applies the per-provider client policies the engine delegates to
// connectors: rate limiting against provider quotas and retries on transient
// failures.
type callPolicy struct {
	limiter  *rate.Limiter
	attempts uint
}

func newCallPolicy(config infra.LlmProviderConfiguration) callPolicy {
	policy := callPolicy{attempts: config.RetryAttempts}
	if policy.attempts == 0 {
		policy.attempts = 1
	}
	if config.RateLimitPerMinute > 0 {
		policy.limiter = rate.NewLimiter(
			rate.Limit(float64(config.RateLimitPerMinute)/60.0), config.RateLimitPerMinute)
	}
	return policy
}

func (p callPolicy) run(ctx context.Context, call func() (string, error)) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter wait interrupted")
		}
	}

	var out string
	err := retry.Do(
		func() error {
			var err error
			out, err = call()
			return err
		},
		retry.Attempts(p.attempts),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	return out, err
}

// llmberjackConnector is the text-only connector tier, backed by one
// llmberjack adapter with a single provider.
type llmberjackConnector struct {
	adapter *llmberjack.Llmberjack
	policy  callPolicy
}

func (c *llmberjackConnector) GenerateResponse(ctx context.Context, model, instruction, prompt string) (string, error) {
	return c.policy.run(ctx, func() (string, error) {
		response, err := llmberjack.NewUntypedRequest().
			WithModel(model).
			WithInstruction(instruction).
			WithText(llmberjack.RoleUser, prompt).
			Do(ctx, c.adapter)
		if err != nil {
			return "", errors.Wrap(err, "llm request failed")
		}
		return response.Get(0)
	})
}

// geminiConnector talks to the Gemini API directly. It is the one production
// connector supporting the image and attachment tiers.
type geminiConnector struct {
	client *genai.Client
	policy callPolicy
}

func (c *geminiConnector) generate(ctx context.Context, model, instruction string, parts []*genai.Part) (string, error) {
	return c.policy.run(ctx, func() (string, error) {
		contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

		var config *genai.GenerateContentConfig
		if instruction != "" {
			config = &genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
			}
		}

		response, err := c.client.Models.GenerateContent(ctx, model, contents, config)
		if err != nil {
			return "", errors.Wrap(err, "gemini request failed")
		}
		return response.Text(), nil
	})
}

func (c *geminiConnector) GenerateResponse(ctx context.Context, model, instruction, prompt string) (string, error) {
	return c.generate(ctx, model, instruction, []*genai.Part{genai.NewPartFromText(prompt)})
}

func (c *geminiConnector) GenerateResponseWithImage(ctx context.Context, model, instruction, prompt string,
	image models.Attachment,
) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image.Payload, image.MediaType),
	}
	return c.generate(ctx, model, instruction, parts)
}

func (c *geminiConnector) GenerateResponseWithAttachments(ctx context.Context, model, instruction, prompt string,
	attachments []models.Attachment,
) (string, error) {
	parts := make([]*genai.Part, 0, len(attachments)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, attachment := range attachments {
		switch attachment.Kind {
		case models.AttachmentKindImage:
			parts = append(parts, genai.NewPartFromBytes(attachment.Payload, attachment.MediaType))
		case models.AttachmentKindText:
			parts = append(parts, genai.NewPartFromText(string(attachment.Payload)))
		}
	}
	return c.generate(ctx, model, instruction, parts)
}
