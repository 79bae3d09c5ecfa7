package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"

	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	OPENSEARCH_REVIEW_INDEX = "review-analyses"
	OPENSEARCH_USERNAME     = "admin"
)

type OpensearchOptions struct {
	Endpoint string
	Password string
	// AWS, when set, signs requests with SigV4 for the managed service.
	AWS *aws.Config
}

type Opensearch struct {
	Client *opensearch.Client
	index  string
}

func NewOpensearchClient(opts OpensearchOptions) (*Opensearch, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("missing opensearch endpoint")
	}

	cfg := opensearch.Config{
		Addresses: []string{opts.Endpoint},
	}
	if opts.AWS != nil {
		cfg.Transport = NewSigV4Transport(opts.AWS.Credentials, v4.NewSigner(), opts.AWS.Region, "es")
	} else {
		if opts.Password == "" {
			return nil, fmt.Errorf("missing credentials for opensearch")
		}
		cfg.Username = OPENSEARCH_USERNAME
		cfg.Password = opts.Password
	}

	client, err := opensearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenSearch Client: %w", err)
	}

	slog.Info("[OpenSearchClient] Client initialized",
		slog.String("endpoint", opts.Endpoint),
		slog.Bool("sigv4", opts.AWS != nil))

	return &Opensearch{Client: client, index: OPENSEARCH_REVIEW_INDEX}, nil
}

type sigV4Transport struct {
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	region      string
	service     string
	next        http.RoundTripper
}

func NewSigV4Transport(creds aws.CredentialsProvider, signer *v4.Signer, region string, service string) http.RoundTripper {
	return &sigV4Transport{
		credentials: creds,
		signer:      signer,
		region:      region,
		service:     service,
		next:        http.DefaultTransport,
	}
}

func (t *sigV4Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	creds, err := t.credentials.Retrieve(ctx)
	if err != nil {
		return nil, err
	}

	signedReq := req.Clone(ctx)
	signedReq.Header.Del("Authorization")

	err = t.signer.SignHTTP(ctx, creds, signedReq, v4.GetPayloadHash(ctx), t.service, t.region, time.Now())
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(signedReq)
}

func (o *Opensearch) Name() string { return "opensearch" }

func (o *Opensearch) IsHealthy(ctx context.Context) bool {
	res, err := o.Client.Do(ctx, opensearchapi.ClusterHealthReq{}, nil)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		return false
	}
	return res.StatusCode == http.StatusOK
}

// IndexReviewAnalysis writes one analysis keyed by its review id, so
// re-analysing a review replaces the previous document.
func (o *Opensearch) IndexReviewAnalysis(ctx context.Context, analysis models.ReviewAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		slog.Error("[OpenSearchClient] failed to marshal review analysis",
			slog.String("review_id", analysis.ReviewID),
			slog.String("error", err.Error()))
		return err
	}

	req := opensearchapi.IndexReq{
		Index:      o.index,
		DocumentID: analysis.ReviewID,
		Body:       bytes.NewReader(payload),
	}

	res, err := o.Client.Do(ctx, req, nil)
	if err != nil {
		slog.Error("[OpenSearchClient] Failed to index review analysis",
			slog.String("review_id", analysis.ReviewID),
			slog.String("error", err.Error()))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		slog.Error("[OpenSearchClient] OpenSearch indexing error",
			slog.String("status", res.Status()))
		return fmt.Errorf("opensearch error: %s", res.Status())
	}

	return nil
}

// StoreAnalyses implements db.ResultStore. Failed analyses are skipped.
func (o *Opensearch) StoreAnalyses(ctx context.Context, analyses []models.ReviewAnalysis) error {
	var failed int
	var lastErr error
	for _, a := range analyses {
		if !a.OK {
			continue
		}
		if err := o.IndexReviewAnalysis(ctx, a); err != nil {
			failed++
			lastErr = err
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to index %d of %d analyses: %w", failed, len(analyses), lastErr)
	}

	slog.Info("[OpenSearchClient] Indexed review analyses",
		slog.Int("count", len(analyses)))
	return nil
}
