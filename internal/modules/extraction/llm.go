package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/lifelog-backend/internal/platform/openai"
	"github.com/yungbote/lifelog-backend/internal/platform/promptstyle"
)

// Hints steer the provider with what the user wants surfaced.
type Hints struct {
	ContextSummary  string
	SuggestionTypes []string
	PromptStyle     string
	Topics          []string
}

// Provider turns journal text into a raw, unvalidated extraction.
type Provider interface {
	Extract(ctx context.Context, content string, hints Hints) (RawExtraction, error)
}

type LLMExtractor struct {
	client openai.Client
}

func NewLLMExtractor(client openai.Client) *LLMExtractor {
	return &LLMExtractor{client: client}
}

const extractSystem = `Extract structured life-log items from one journal entry.
Items: the writer's overall mood, todos (things to do or already done), media (books, shows, games...), habits (done or missed).
Give every item a confidence in [0,1] and one short sentence of reasoning.
Leave a list empty when nothing fits.`

func nullable(t string) map[string]any { return map[string]any{"type": []any{t, "null"}} }

func enumNullable(values []string) map[string]any {
	enum := make([]any, 0, len(values)+1)
	for _, v := range values {
		enum = append(enum, v)
	}
	enum = append(enum, nil)
	return map[string]any{"type": []any{"string", "null"}, "enum": enum}
}

func object(props map[string]any) map[string]any {
	required := make([]any, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func arrayOf(item map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": item}
}

func extractionSchema() map[string]any {
	num := map[string]any{"type": "number"}
	str := map[string]any{"type": "string"}
	return object(map[string]any{
		"mood": object(map[string]any{
			"value":      str,
			"confidence": num,
			"reasoning":  str,
		}),
		"todos": arrayOf(object(map[string]any{
			"title":      str,
			"time":       enumNullable([]string{"past", "future"}),
			"priority":   enumNullable([]string{"low", "medium", "high"}),
			"dueDate":    nullable("string"),
			"confidence": num,
			"reasoning":  str,
		})),
		"media": arrayOf(object(map[string]any{
			"title":      str,
			"type":       enumNullable([]string{"movie", "show", "book", "game", "podcast", "music"}),
			"status":     enumNullable([]string{"planned", "watched", "playing", "completed", "reading", "read"}),
			"confidence": num,
			"reasoning":  str,
		})),
		"habits": arrayOf(object(map[string]any{
			"name":       str,
			"status":     enumNullable([]string{"done", "missed"}),
			"frequency":  enumNullable([]string{"daily", "weekly", "monthly"}),
			"confidence": num,
			"reasoning":  str,
		})),
		"confidence": num,
	})
}

func buildUserPrompt(content string, hints Hints) string {
	var b strings.Builder
	b.WriteString(promptstyle.Tone(hints.PromptStyle))
	if len(hints.SuggestionTypes) > 0 {
		b.WriteString("\nOnly these kinds interest the writer: " + strings.Join(hints.SuggestionTypes, ", ") + ".")
	}
	if len(hints.Topics) > 0 {
		b.WriteString("\nTopics they care about: " + strings.Join(hints.Topics, ", ") + ".")
	}
	if s := strings.TrimSpace(hints.ContextSummary); s != "" {
		b.WriteString("\n\nRecent context:\n" + s)
	}
	b.WriteString("\n\nJournal entry:\n" + content)
	return b.String()
}

func (e *LLMExtractor) Extract(ctx context.Context, content string, hints Hints) (RawExtraction, error) {
	if strings.TrimSpace(content) == "" {
		return RawExtraction{}, fmt.Errorf("empty journal content")
	}
	obj, err := e.client.GenerateJSON(ctx, extractSystem, buildUserPrompt(content, hints), "journal_extraction", extractionSchema())
	if err != nil {
		return RawExtraction{}, fmt.Errorf("llm extract: %w", err)
	}
	return DecodeRaw(obj)
}

// DecodeRaw reshapes a generic JSON object into a RawExtraction.
func DecodeRaw(obj map[string]any) (RawExtraction, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return RawExtraction{}, err
	}
	var raw RawExtraction
	if err := json.Unmarshal(b, &raw); err != nil {
		return RawExtraction{}, fmt.Errorf("decode extraction: %w", err)
	}
	return raw, nil
}
