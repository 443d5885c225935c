package deliberation

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

// Constants for the deliberation prompt paths, relative to the prompt folder.
const (
	PROMPT_INITIAL_PATH   = "deliberation/initial.md"
	PROMPT_FEEDBACK_PATH  = "deliberation/feedback.md"
	PROMPT_SYNTHESIS_PATH = "deliberation/synthesis.md"
	SYSTEM_PROMPT_PATH    = "system.md"
)

const defaultInstruction = "You are one voter on a panel of independent models. " +
	"Follow the voting instructions exactly and reply with the requested JSON object only."

// PromptRenderer is the template collaborator of the deliberation engine:
// pure string producers, substituted verbatim into the composed prompts.
type PromptRenderer interface {
	Instruction() string
	RenderInitial(outcomes []string) (string, error)
	RenderFeedback(previousSummaries string) (string, error)
	RenderSynthesis(compositeVector string, justifications []string) (string, error)
}

// filePromptRenderer loads prompt templates from disk on every call, so
// prompts can be tuned without redeploying the service.
type filePromptRenderer struct {
	folder string
}

func NewFilePromptRenderer(folder string) PromptRenderer {
	return filePromptRenderer{folder: folder}
}

func readPrompt(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "could not open prompt file %s", path)
	}
	defer file.Close()

	promptBytes, err := io.ReadAll(file)
	if err != nil {
		return "", errors.Wrapf(err, "could not read prompt file %s", path)
	}
	return string(promptBytes), nil
}

// preparePrompt renders one prompt template. Values that are not plain
// strings are marshalled to JSON before substitution, so templates only ever
// interpolate strings.
func preparePrompt(promptPath string, data map[string]any) (string, error) {
	promptContent, err := readPrompt(promptPath)
	if err != nil {
		return "", err
	}

	marshalledMap := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			marshalledMap[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", errors.Wrapf(err, "could not marshal %s", k)
		}
		marshalledMap[k] = string(b)
	}

	t, err := template.New(filepath.Base(promptPath)).Parse(promptContent)
	if err != nil {
		return "", errors.Wrapf(err, "could not parse template %s", promptPath)
	}
	buf := bytes.Buffer{}
	if err := t.Execute(&buf, marshalledMap); err != nil {
		return "", errors.Wrap(err, "could not execute template")
	}

	return buf.String(), nil
}

func (r filePromptRenderer) Instruction() string {
	instruction, err := readPrompt(filepath.Join(r.folder, SYSTEM_PROMPT_PATH))
	if err != nil {
		return defaultInstruction
	}
	return instruction
}

func (r filePromptRenderer) RenderInitial(outcomes []string) (string, error) {
	schema, err := voteResponseSchema()
	if err != nil {
		return "", err
	}

	outcomeList := "The outcomes are unnamed: address them positionally, in a fixed order of your choosing kept identical across all score entries."
	if len(outcomes) > 0 {
		quoted := make([]string, len(outcomes))
		for i, outcome := range outcomes {
			quoted[i] = quoteJson(outcome)
		}
		outcomeList = strings.Join(quoted, ", ")
	}

	return preparePrompt(filepath.Join(r.folder, PROMPT_INITIAL_PATH), map[string]any{
		"outcomes":        outcomeList,
		"outcome_count":   len(outcomes),
		"response_schema": schema,
	})
}

func (r filePromptRenderer) RenderFeedback(previousSummaries string) (string, error) {
	return preparePrompt(filepath.Join(r.folder, PROMPT_FEEDBACK_PATH), map[string]any{
		"previous_summaries": previousSummaries,
	})
}

func (r filePromptRenderer) RenderSynthesis(compositeVector string, justifications []string) (string, error) {
	return preparePrompt(filepath.Join(r.folder, PROMPT_SYNTHESIS_PATH), map[string]any{
		"composite_vector": compositeVector,
		"justifications":   strings.Join(justifications, "\n\n"),
	})
}

func quoteJson(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// voteResponse mirrors models.Vote; it exists so the response schema shown to
// the models can be generated rather than maintained by hand.
type voteResponse struct {
	Score         []int64 `json:"score" jsonschema_description:"Non-negative integer weights over the outcomes, in order, summing to exactly 1000000"`
	Justification string  `json:"justification" jsonschema_description:"Your reasoning for this score distribution"`
}

func voteResponseSchema() (string, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&voteResponse{})
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "could not marshal vote response schema")
	}
	return string(b), nil
}
