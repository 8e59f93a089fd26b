package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"callscout/config"
	"callscout/core"
)

// Provider is the annotation oracle: given a statement and the conversation
// so far, it may return a short commentary. A nil insight with a nil error is
// the valid "nothing worth saying" outcome.
type Provider interface {
	GenerateInsight(ctx context.Context, req core.InsightRequest) (*core.Insight, error)
}

const analystPrompt = `You are a financial expert providing live, on-the-spot commentary during an earnings call. Each speaker line will come in as plain text.
Your job:
 Only respond if the line delivers new, concrete, and material insight in any of the following 6 areas:
Company Performance: Clear data or change in revenue, margins, costs, KPIs, or guidance
Strategic Vision: Specific shift in direction, product, business model, or market entry (not just ambition)
Execution Risk: Mention of delays, cost overruns, scaling issues, ops breakdowns
Macro Impact: Direct effects from rates, regulation, inflation, geopolitical tension
Competitive Landscape: Named rivals, pricing battles, market share, disruptive threat
Sentiment & Framing: Revealing tone shift (e.g. defensiveness, hype cycle, internal pressure)

Criteria for responding:
Only comment on meaningful insights that provide new, concrete, material information affecting the company's bottom line, strategy, or market position. Avoid repeating earlier points without new context.
Skip any motivational language, broad optimism, or statements with no clear financial, operational, or strategic impact.
Do not include category labels such as "Execution Risk" or "Sentiment & Framing" at the beginning of the annotation. Provide direct commentary without extra labels.
Skip entirely if the statement is a repetition of earlier points, overly vague, obvious or generic to any listener, or does not materially affect the company.

For each statement given, ask yourself: "Is it worth commenting on?" If yes, provide a short, punchy insight. If no, don't provide anything. Use prior context only if it clearly improves the interpretation. Max 1-2 sentences. Think like a fast analyst narrating what's really going on beneath the words.

Respond in JSON format:
{
  "hasInsight": boolean,
  "insight": "your analysis here or null if no insight"
}`

// modelResponse is the JSON contract the analyst prompt asks the model for.
type modelResponse struct {
	HasInsight bool   `json:"hasInsight"`
	Insight    string `json:"insight"`
}

// LLMProvider generates insights through an OpenAI-compatible chat API.
type LLMProvider struct {
	cli   *openai.Client
	model string
}

// MockProvider returns a canned commentary for every statement. Used when no
// API configuration is available, and by tests.
type MockProvider struct{}

func (m MockProvider) GenerateInsight(ctx context.Context, req core.InsightRequest) (*core.Insight, error) {
	words := strings.Fields(req.CurrentSentence)
	if len(words) < 8 {
		// Short statements rarely carry material information.
		return nil, nil
	}
	return NewInsight(req.SegmentID, fmt.Sprintf("[Mock] Notable statement at %s covering %d words.", req.Timestamp, len(words))), nil
}

func (l LLMProvider) GenerateInsight(ctx context.Context, req core.InsightRequest) (*core.Insight, error) {
	contextMessage := fmt.Sprintf(`Context from previous conversation:
%s

Current statement to analyze:
%q`, req.ConversationHistory, req.CurrentSentence)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := l.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analystPrompt},
			{Role: openai.ChatMessageRoleUser, Content: contextMessage},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("insight API call failed: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices from insight API")
	}

	return decodeModelResponse(resp.Choices[0].Message.Content, req.SegmentID)
}

// decodeModelResponse turns the model's JSON answer into an insight, or nil
// when the model declined to comment.
func decodeModelResponse(content, segmentID string) (*core.Insight, error) {
	var mr modelResponse
	if err := json.Unmarshal([]byte(content), &mr); err != nil {
		return nil, fmt.Errorf("parse insight response: %v", err)
	}
	if !mr.HasInsight || strings.TrimSpace(mr.Insight) == "" {
		return nil, nil
	}
	return NewInsight(segmentID, mr.Insight), nil
}

// NewInsight builds an insight object with a fresh id and creation timestamp.
func NewInsight(segmentID, text string) *core.Insight {
	return &core.Insight{
		ID:        "insight_" + uuid.NewString(),
		Text:      text,
		SegmentID: segmentID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// PickProvider selects the oracle implementation. INSIGHT_PROVIDER=mock
// forces the mock; otherwise the LLM provider is used when API configuration
// is present, with a mock fallback.
func PickProvider() Provider {
	if strings.ToLower(strings.TrimSpace(core.GetEnvOrDefault("INSIGHT_PROVIDER", ""))) == "mock" {
		return MockProvider{}
	}

	cfg, err := config.LoadConfig()
	if err != nil || !cfg.HasValidAPI() {
		log.Println("Warning: No valid API configuration found, using mock insight provider")
		return MockProvider{}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return LLMProvider{
		cli:   openai.NewClientWithConfig(clientConfig),
		model: cfg.InsightModel,
	}
}
