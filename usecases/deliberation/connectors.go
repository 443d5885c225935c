package deliberation

import (
	"context"

	"github.com/getplenum/plenum-backend/models"
)

// Connector is the minimal contract every provider integration satisfies: one
// prompt in, raw model text out. Timeout and retry policy belong to the
// connector, never to the engine.
type Connector interface {
	GenerateResponse(ctx context.Context, model, instruction, prompt string) (string, error)
}

// ImageConnector is satisfied by connectors that can take a single image
// alongside the prompt.
type ImageConnector interface {
	Connector
	GenerateResponseWithImage(ctx context.Context, model, instruction, prompt string,
		image models.Attachment) (string, error)
}

// AttachmentConnector is satisfied by connectors that can take an arbitrary
// list of image and text attachments. When a connector supports both tiers,
// this one takes priority.
type AttachmentConnector interface {
	Connector
	GenerateResponseWithAttachments(ctx context.Context, model, instruction, prompt string,
		attachments []models.Attachment) (string, error)
}

type ConnectorRepository interface {
	GetConnector(ctx context.Context, provider string) (Connector, error)
}

// supportsAttachments reports whether the connector can see the given
// attachments in some form: either the general attachment tier, or the
// single-image tier when the attachments are exactly one image.
func supportsAttachments(connector Connector, attachments []models.Attachment) bool {
	if len(attachments) == 0 {
		return true
	}
	if _, ok := connector.(AttachmentConnector); ok {
		return true
	}
	if _, ok := connector.(ImageConnector); ok {
		return singleImage(attachments) != nil
	}
	return false
}

func singleImage(attachments []models.Attachment) *models.Attachment {
	if len(attachments) == 1 && attachments[0].Kind == models.AttachmentKindImage {
		return &attachments[0]
	}
	return nil
}

// invokeConnector picks the richest invocation form the connector supports.
// A text-only connector in a request with attachments still votes on the bare
// prompt; the request-level capability check guarantees at least one peer saw
// the attachments.
func invokeConnector(ctx context.Context, connector Connector, model, instruction, prompt string,
	attachments []models.Attachment,
) (string, error) {
	if len(attachments) > 0 {
		if ac, ok := connector.(AttachmentConnector); ok {
			return ac.GenerateResponseWithAttachments(ctx, model, instruction, prompt, attachments)
		}
		if ic, ok := connector.(ImageConnector); ok {
			if image := singleImage(attachments); image != nil {
				return ic.GenerateResponseWithImage(ctx, model, instruction, prompt, *image)
			}
		}
	}
	return connector.GenerateResponse(ctx, model, instruction, prompt)
}
