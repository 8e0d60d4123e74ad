package openai

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/salescope/salescope/modules/assistant/domain/translation"
)

const systemPrompt = `You translate analytics questions about a sales team into a single PostgreSQL SELECT statement.

Schema:
  performance_facts(employee_id uuid, period varchar, sales_amount numeric, units_sold bigint, deals_closed bigint, quota_attainment numeric, base_salary numeric, commission numeric)
  employees(id uuid, display_name varchar, role varchar, region varchar, manager_id uuid, active bool)

Rules:
- Always select employee_id (or employees.id aliased as employee_id) so rows can be attributed.
- Periods are formatted YYYY-MM.
- Reply with the SQL statement only, no explanation.`

type Translator struct {
	client *openai.Client
	model  string
}

func NewTranslator(apiKey, model string) *Translator {
	return &Translator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (t *Translator) Translate(ctx context.Context, req translation.Request) (translation.Result, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: req.Question},
	}
	if req.PriorSQL != "" && req.Refinement != "" {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: req.PriorSQL},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: "Adjust the previous query: " + req.Refinement},
		)
	}

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    t.model,
		Messages: messages,
	})
	if err != nil {
		return translation.Result{}, errors.Wrap(err, "requesting SQL translation")
	}
	if len(resp.Choices) == 0 {
		return translation.Result{}, errors.New("translation returned no choices")
	}

	return translation.Result{SQL: stripFences(resp.Choices[0].Message.Content)}, nil
}

// stripFences removes markdown code fencing the model tends to wrap SQL in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```sql")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
