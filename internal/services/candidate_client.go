package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"trident/onboarding-portal/internal/metrics"
	"trident/onboarding-portal/internal/models"
)

type CandidateClient interface {
	FetchCandidates(ctx context.Context, page int) (*models.CandidateListPayload, error)
}

type candidateClient struct {
	endpoint   string
	httpClient *http.Client
	log        *zap.Logger
}

func NewCandidateClient(endpoint string, timeout time.Duration, log *zap.Logger) CandidateClient {
	return &candidateClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("candidate-client"),
	}
}

// FetchCandidates loads one page from the upstream candidate service. page
// values below 1 omit the query parameter and let upstream pick its default.
func (c *candidateClient) FetchCandidates(ctx context.Context, page int) (*models.CandidateListPayload, error) {
	start := time.Now()
	payload, err := c.fetch(ctx, page)
	metrics.UpstreamRequestDuration.WithLabelValues("candidates").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("candidates", "error").Inc()
		c.log.Warn("Failed to fetch candidates", zap.Int("page", page), zap.Error(err))
		return nil, err
	}

	metrics.UpstreamRequests.WithLabelValues("candidates", "success").Inc()
	c.log.Debug("Fetched candidates",
		zap.Int("page", page),
		zap.Int("count", len(payload.Candidates)),
	)
	return payload, nil
}

func (c *candidateClient) fetch(ctx context.Context, page int) (*models.CandidateListPayload, error) {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid candidate endpoint: %w", err)
	}
	if page > 0 {
		q := endpoint.Query()
		q.Set("page", strconv.Itoa(page))
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build candidate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{Service: "candidates", StatusCode: resp.StatusCode}
	}

	var payload models.CandidateListPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode candidates response: %w", err)
	}

	return &payload, nil
}
