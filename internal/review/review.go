// Package review asks Claude for a second opinion on whether a document
// reads as machine-written. It is only used with --deep.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/go-playground/validator/v10"
)

// DefaultModel is used when no model is configured.
const DefaultModel = string(anthropic.ModelClaude3_5Haiku20241022)

// maxContent bounds the document text sent in one request.
const maxContent = 8000

// Verdict is the model's judgement of a document.
type Verdict struct {
	LikelyAI   bool     `json:"likely_ai"`
	Confidence float64  `json:"confidence" validate:"gte=0,lte=1"`
	Reasons    []string `json:"reasons"`
	Model      string   `json:"model,omitempty"`
}

// Input is what gets reviewed: the document text plus a short description
// of each local finding.
type Input struct {
	Path     string
	Text     string
	Findings []string
}

// Completer sends a prompt and returns the text of the reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Reviewer builds prompts and parses verdicts.
type Reviewer struct {
	completer Completer
	model     string
	validate  *validator.Validate
}

// New returns a Reviewer backed by the Anthropic API, or nil when apiKey
// is empty. An empty model selects DefaultModel.
func New(apiKey, model string, opts ...option.RequestOption) *Reviewer {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return NewWithCompleter(&claude{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}, model)
}

// NewFromEnv reads ANTHROPIC_API_KEY
func NewFromEnv(model string) *Reviewer {
	return New(os.Getenv("ANTHROPIC_API_KEY"), model)
}

// NewWithCompleter wraps any Completer
func NewWithCompleter(c Completer, model string) *Reviewer {
	return &Reviewer{completer: c, model: model, validate: validator.New()}
}

// Review sends in to the model and parses its verdict
func (r *Reviewer) Review(ctx context.Context, in Input) (*Verdict, error) {
	if r == nil {
		return nil, fmt.Errorf("reviewer not initialized (missing ANTHROPIC_API_KEY)")
	}

	reply, err := r.completer.Complete(ctx, buildPrompt(in))
	if err != nil {
		return nil, err
	}

	var v Verdict
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &v); err != nil {
		return nil, fmt.Errorf("failed to parse review response: %w (response: %s)", err, TruncateForError(reply))
	}
	if err := r.validate.Struct(&v); err != nil {
		return nil, fmt.Errorf("invalid review response: %w", err)
	}
	v.Model = r.model
	return &v, nil
}

func buildPrompt(in Input) string {
	findings := "none"
	if len(in.Findings) > 0 {
		findings = "- " + strings.Join(in.Findings, "\n- ")
	}

	return fmt.Sprintf(`You are reviewing a piece of writing for signs that it was generated by a language model.

Document: %s

A pattern scanner already flagged these phrases:
%s

Text:
%s

Judge the writing as a whole: tone, structure, filler, hedging and stock phrasing.
The flagged phrases are hints, not proof.

Provide a JSON response with the following structure:
{
  "likely_ai": true|false,
  "confidence": 0.0-1.0,
  "reasons": ["short reason", "..."]
}

Return ONLY the JSON, no other text.`, in.Path, findings, truncateContent(in.Text, maxContent))
}

// claude is the Anthropic-backed Completer
type claude struct {
	client anthropic.Client
	model  anthropic.Model
}

func (c *claude) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("Claude API returned no text content")
}

// truncateContent truncates content to a maximum length
func truncateContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:maxLen] + "\n...[truncated]..."
}
