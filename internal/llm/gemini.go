package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"

	// Long ceiling: structured extraction over a full patent can run for
	// many minutes on large documents.
	DefaultRequestTimeout = 20 * time.Minute
)

// GeminiCaller invokes the Gemini API in plain-text mode at temperature 0.
type GeminiCaller struct {
	models  geminiGenerator
	model   string
	timeout time.Duration
}

type geminiGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiCallerFromEnv builds a caller from GEMINI_API_KEY. A missing
// key is a configuration error: the service stays up with analysis
// disabled rather than constructing a caller that cannot work.
func NewGeminiCallerFromEnv(ctx context.Context, model string) (*GeminiCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCaller{models: client.Models, model: model, timeout: DefaultRequestTimeout}, nil
}

func (g *GeminiCaller) Generate(ctx context.Context, promptText string) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(promptText), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return Reply{}, &InvocationError{Model: g.model, cause: err}
	}
	return replyFromResponse(g.model, resp)
}

func replyFromResponse(model string, resp *genai.GenerateContentResponse) (Reply, error) {
	empty := &EmptyReplyError{Model: model}
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil {
			empty.FinishReason = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
			empty.SafetyRatings = formatSafetyRatings(resp.PromptFeedback.SafetyRatings)
		}
		return Reply{}, empty
	}

	cand := resp.Candidates[0]
	reply := Reply{
		Model:         model,
		FinishReason:  string(cand.FinishReason),
		SafetyRatings: formatSafetyRatings(cand.SafetyRatings),
	}
	var sb strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part != nil {
				sb.WriteString(part.Text)
			}
		}
	}
	reply.Text = sb.String()
	if strings.TrimSpace(reply.Text) == "" {
		empty.FinishReason = reply.FinishReason
		empty.SafetyRatings = reply.SafetyRatings
		return Reply{}, empty
	}
	return reply, nil
}

func formatSafetyRatings(ratings []*genai.SafetyRating) []string {
	var out []string
	for _, r := range ratings {
		if r == nil {
			continue
		}
		out = append(out, fmt.Sprintf("%s=%s", r.Category, r.Probability))
	}
	return out
}
