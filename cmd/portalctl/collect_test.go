package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/services"
)

// pagedClient serves totalPages pages of one candidate each. When stuck is
// set it ignores the requested page and always answers page 1.
type pagedClient struct {
	totalPages int
	stuck      bool
	requested  []int
	err        error
}

func (c *pagedClient) FetchCandidates(_ context.Context, page int) (*models.CandidateListPayload, error) {
	c.requested = append(c.requested, page)
	if c.err != nil {
		return nil, c.err
	}
	current := max(page, 1)
	if c.stuck {
		current = 1
	}
	return &models.CandidateListPayload{
		Candidates: []models.RawCandidate{{ID: "c-" + string(rune('0'+current))}},
		Pagination: &models.Pagination{CurrentPage: current, TotalPages: c.totalPages, TotalEntries: c.totalPages},
	}, nil
}

func newPagedService(client *pagedClient) services.CandidateService {
	return services.NewCandidateService(client, "http://files.local/", zap.NewNop())
}

func recordIDs(records []models.CandidateRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestCollectCandidates_SinglePage(t *testing.T) {
	client := &pagedClient{totalPages: 3}

	records, err := collectCandidates(context.Background(), newPagedService(client), services.ListQuery{Page: 2}, false)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, client.requested)
	assert.Equal(t, []string{"c-2"}, recordIDs(records))
}

func TestCollectCandidates_AllPages(t *testing.T) {
	client := &pagedClient{totalPages: 3}

	records, err := collectCandidates(context.Background(), newPagedService(client), services.ListQuery{}, true)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3}, client.requested)
	assert.Equal(t, []string{"c-1", "c-2", "c-3"}, recordIDs(records))
}

func TestCollectCandidates_StopsWhenUpstreamIgnoresPage(t *testing.T) {
	client := &pagedClient{totalPages: 3, stuck: true}

	records, err := collectCandidates(context.Background(), newPagedService(client), services.ListQuery{}, true)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2}, client.requested)
	assert.Equal(t, []string{"c-1"}, recordIDs(records))
}

func TestCollectCandidates_Error(t *testing.T) {
	client := &pagedClient{err: errors.New("connection refused")}

	_, err := collectCandidates(context.Background(), newPagedService(client), services.ListQuery{}, true)
	assert.EqualError(t, err, "failed to list candidates: connection refused")
}
