package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	openAIRequestTimeout = 60 * time.Second // Timeout for individual OpenAI API requests
	openAIMaxAttempts    = 3
	openAIRetryDelay     = 2 * time.Second
)

const summaryPrompt = `Summarize the product review you are given in one or two plain sentences.
- Mention what the reviewer liked and what they disliked.
- Keep product features named as the reviewer named them.
- No Markdown formatting, no quotes around the answer.`

// OpenAIClient summarizes review text through the chat completions API.
type OpenAIClient struct {
	Client     *openai.Client
	model      openai.ChatModel
	retryDelay time.Duration
}

func NewOpenAIClient(apiKey string, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY")
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: openAIRequestTimeout}),
	}, opts...)

	slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
		slog.Duration("timeout", openAIRequestTimeout))

	return &OpenAIClient{
		Client:     openai.NewClient(opts...),
		model:      openai.ChatModelGPT3_5Turbo,
		retryDelay: openAIRetryDelay,
	}, nil
}

// Summarize implements analysis.Summarizer. Empty completions are retried.
func (o *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= openAIMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(o.retryDelay):
			}
		}

		completion, err := o.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(summaryPrompt),
				openai.UserMessage(text),
			}),
			Model:       openai.F(o.model),
			Temperature: openai.Float(0.2),
		})
		if err != nil {
			slog.Warn("[OpenAIClient] Summary request failed, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			lastErr = err
			continue
		}

		if len(completion.Choices) == 0 || strings.TrimSpace(completion.Choices[0].Message.Content) == "" {
			slog.Warn("[OpenAIClient] OpenAI returned empty response, retrying",
				slog.Int("attempt", attempt))
			lastErr = fmt.Errorf("empty completion")
			continue
		}

		return cleanSummary(completion.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("openai summary failed after %d attempts: %w", openAIMaxAttempts, lastErr)
}

func cleanSummary(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.Trim(response, "\"“”")
	return strings.TrimSpace(response)
}
