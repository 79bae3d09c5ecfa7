package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	VALKEY_RETRIES     = 3
	VALKEY_RETRY_DELAY = 250 * time.Millisecond
)

type ValkeyOptions struct {
	Address  string
	Password string
	TLS      bool
}

// ValkeyClient backs the score cache. The underlying client is recreated
// after connection errors.
type ValkeyClient struct {
	Client valkey.Client
	opts   ValkeyOptions
	mu     sync.RWMutex
}

func NewValkeyClient(ctx context.Context, opts ValkeyOptions) (*ValkeyClient, error) {
	client, err := connectValkey(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &ValkeyClient{Client: client, opts: opts}, nil
}

func connectValkey(ctx context.Context, opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress: []string{
			opts.Address,
		},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if opts.TLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address))
	return client, nil
}

func (vc *ValkeyClient) recreateClient(ctx context.Context) {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(ctx, vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Client
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

// GetScore implements sentiment.ScoreCache.
func (vc *ValkeyClient) GetScore(ctx context.Context, key string) (models.Score, bool, error) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, VALKEY_RETRIES)

	raw, err := res.ToString()
	if valkey.IsValkeyNil(err) {
		return models.Score{}, false, nil
	}
	if err != nil {
		return models.Score{}, false, fmt.Errorf("failed to read cached score: %w", err)
	}

	var score models.Score
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		return models.Score{}, false, fmt.Errorf("failed to decode cached score: %w", err)
	}
	return score, true, nil
}

// SetScore implements sentiment.ScoreCache. A non-positive ttl stores the
// entry without expiry.
func (vc *ValkeyClient) SetScore(ctx context.Context, key string, score models.Score, ttl time.Duration) error {
	payload, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}

	seconds := int64(ttl / time.Second)
	build := func(c valkey.Client) []valkey.Completed {
		completed := []valkey.Completed{
			c.B().Set().Key(key).Value(string(payload)).Build(),
		}
		if seconds > 0 {
			completed = append(completed, c.B().Expire().Key(key).Seconds(seconds).Build())
		}
		return completed
	}

	for _, res := range vc.DoMultiWithRetry(ctx, build, VALKEY_RETRIES) {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (vc *ValkeyClient) IsHealthy(ctx context.Context) bool {
	c := vc.client()
	return c.Do(ctx, c.B().Ping().Build()).Error() == nil
}

// DoMultiWithRetry rebuilds the commands on every attempt since valkey-go
// recycles a command once it has been sent.
func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, build func(valkey.Client) []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		c := vc.client()
		results = c.DoMulti(ctx, build(c)...)
		var failed error
		for _, r := range results {
			if r.Error() != nil {
				failed = r.Error()
				break
			}
		}
		if failed == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do Multi failed",
			slog.Int("attempt", i+1),
			slog.String("error", failed.Error()))
		if isConnectionError(failed) {
			vc.recreateClient(ctx)
		}
		if !sleepCtx(ctx, VALKEY_RETRY_DELAY) {
			break
		}
	}

	return results
}

// DoWithRetry does not retry a nil reply; a missing key is not a failure.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient(ctx)
		}
		if !sleepCtx(ctx, VALKEY_RETRY_DELAY) {
			break
		}
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
