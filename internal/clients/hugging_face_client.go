package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/sentiment"
)

// HuggingFaceClient talks to the hosted sentiment and summarizer services.
// It is safe for concurrent use.
type HuggingFaceClient struct {
	Client            *http.Client
	sentimentEndpoint string
	summaryEndpoint   string
	backoff           time.Duration
}

// NewHuggingFaceClient builds a client; a non-empty token is sent as a
// bearer token on every request.
func NewHuggingFaceClient(sentimentEndpoint, summaryEndpoint, token string, timeout time.Duration) *HuggingFaceClient {
	httpClient := &http.Client{}
	if token != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}))
	}
	httpClient.Timeout = timeout

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", timeout),
		slog.String("sentiment_endpoint", sentimentEndpoint),
		slog.String("summary_endpoint", summaryEndpoint),
		slog.Bool("authenticated", token != ""))

	return &HuggingFaceClient{
		Client:            httpClient,
		sentimentEndpoint: sentimentEndpoint,
		summaryEndpoint:   summaryEndpoint,
		backoff:           INITIAL_BACKOFF,
	}
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newReq is called per attempt so the body is never reused.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.backoff

	for attempt := 0; attempt < MAX_RETRIES; attempt++ {
		req, buildErr := newReq()
		if buildErr != nil {
			return nil, buildErr
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			err = fmt.Errorf("server error: status code %d", resp.StatusCode)
		}
		if attempt == MAX_RETRIES-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, err
}

func (h *HuggingFaceClient) ScoreBatch(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	var result models.SentimentAnalysisBatchResponse
	start := time.Now()

	if err := h.postJSON(ctx, h.sentimentEndpoint, input, &result); err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	slog.Debug("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Int("batch_size", len(input)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// Score implements sentiment.Scorer against the hosted classifier.
func (h *HuggingFaceClient) Score(ctx context.Context, text string) (models.Score, error) {
	const contentID = "0"
	out, err := h.ScoreBatch(ctx, models.SentimentAnalysisBatchRequest{
		{ContentID: contentID, Text: sentiment.Truncate(text)},
	})
	if err != nil {
		return models.Score{}, err
	}

	for _, r := range out {
		if r.ContentID != contentID {
			continue
		}
		raw := models.ProbabilitiesForScore(r.SentimentScore)
		if r.RawProbabilities != nil {
			raw = *r.RawProbabilities
		}
		return models.Score{
			Value:            max(-1.0, min(1.0, r.SentimentScore)),
			Confidence:       r.Confidence,
			RawProbabilities: raw,
		}, nil
	}
	return models.Score{}, fmt.Errorf("sentiment service returned no result for content %s", contentID)
}

// Summarize implements analysis.Summarizer.
func (h *HuggingFaceClient) Summarize(ctx context.Context, text string) (string, error) {
	var result models.SummaryResponse
	start := time.Now()

	if err := h.postJSON(ctx, h.summaryEndpoint, models.SummaryRequest{Inputs: text}, &result); err != nil {
		slog.Error("[HuggingFaceClient] Summary Request Failed",
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	slog.Debug("[HuggingFaceClient] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result.Summary, nil
}

func (h *HuggingFaceClient) SentimentHealthCheck(ctx context.Context) bool {
	return h.healthCheck(ctx, h.sentimentEndpoint)
}

func (h *HuggingFaceClient) SummarizerHealthCheck(ctx context.Context) bool {
	return h.healthCheck(ctx, h.summaryEndpoint)
}

// healthCheck probes GET /health on the endpoint's host.
func (h *HuggingFaceClient) healthCheck(ctx context.Context, endpoint string) bool {
	healthURL, err := healthURLFor(endpoint)
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func healthURLFor(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid endpoint %q", endpoint)
	}
	return u.Scheme + "://" + u.Host + "/health", nil
}

// helper function for posting data to the AI services
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint not configured")
	}

	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request rejected: status code %d: %s", resp.StatusCode, preview(respBody))
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			slog.String("raw_response", preview(respBody)),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func preview(respBody []byte) string {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return raw
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
