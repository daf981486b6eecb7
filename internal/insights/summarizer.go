package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"waba-admin/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	FailedSummary = "Failed to load summary."
	EmptySummary  = "No summary available."
)

var ErrDisabled = errors.New("summary generation is not configured")

type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// GeminiSummarizer sends the rendered prompt to a Gemini model.
type GeminiSummarizer struct {
	APIKey string
	Model  string
}

func NewGeminiSummarizer(apiKey, model string) *GeminiSummarizer {
	return &GeminiSummarizer{APIKey: apiKey, Model: model}
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, req Request) (string, error) {
	if s.APIKey == "" {
		return "", ErrDisabled
	}

	prompt, err := Prompt(req)
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.Model)
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return strings.TrimSpace(sb.String())
}

// Widget is what the analytics card displays.
type Widget struct {
	Metrics Metrics `json:"metrics"`
	Summary string  `json:"summary"`
	Failed  bool    `json:"failed"`
}

// Summarize asks for a summary once and falls back to fixed text.
func Summarize(ctx context.Context, s Summarizer, m Metrics) Widget {
	w := Widget{Metrics: m}
	if s == nil {
		w.Summary = FailedSummary
		w.Failed = true
		return w
	}

	summary, err := s.Summarize(ctx, NewRequest(m))
	if err != nil {
		logging.WithContext(ctx).Errorf("Failed to summarize insights: %v", err)
		w.Summary = FailedSummary
		w.Failed = true
		return w
	}
	if strings.TrimSpace(summary) == "" {
		w.Summary = EmptySummary
		return w
	}
	w.Summary = summary
	return w
}
