package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"trident/onboarding-portal/internal/metrics"
	"trident/onboarding-portal/internal/models"
)

type ListQuery struct {
	Page   int
	Search string
}

type CandidatePage struct {
	Candidates []models.CandidateRecord
	Pagination models.Pagination
}

type CandidateService interface {
	ListCandidates(ctx context.Context, query ListQuery) (*CandidatePage, error)
	GetCandidate(ctx context.Context, id string, page int) (*models.CandidateRecord, error)
	Dashboard(ctx context.Context) (*models.DashboardSummary, error)
}

type candidateService struct {
	client      CandidateClient
	fileBaseURL string
	log         *zap.Logger
}

func NewCandidateService(client CandidateClient, fileBaseURL string, log *zap.Logger) CandidateService {
	return &candidateService{
		client:      client,
		fileBaseURL: fileBaseURL,
		log:         log.Named("candidates"),
	}
}

// ListCandidates fetches one upstream page and normalizes it. The returned
// page always replaces whatever the caller held before.
func (s *candidateService) ListCandidates(ctx context.Context, query ListQuery) (*CandidatePage, error) {
	if query.Page < 0 {
		return nil, ErrInvalidPage
	}

	page, err := s.fetchPage(ctx, query.Page)
	if err != nil {
		return nil, err
	}

	page.Candidates = FilterCandidates(page.Candidates, query.Search)
	return page, nil
}

func (s *candidateService) GetCandidate(ctx context.Context, id string, page int) (*models.CandidateRecord, error) {
	if page < 0 {
		return nil, ErrInvalidPage
	}

	result, err := s.fetchPage(ctx, page)
	if err != nil {
		return nil, err
	}

	for i := range result.Candidates {
		if result.Candidates[i].ID == id {
			return &result.Candidates[i], nil
		}
	}
	return nil, ErrCandidateNotFound
}

// Dashboard summarizes the statuses of the first upstream page.
func (s *candidateService) Dashboard(ctx context.Context) (*models.DashboardSummary, error) {
	page, err := s.fetchPage(ctx, 0)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{
		TotalCandidates: len(page.Candidates),
		TotalEntries:    page.Pagination.TotalEntries,
	}
	for _, c := range page.Candidates {
		switch c.Status {
		case models.StatusCompleted:
			summary.Clear++
		case models.StatusQueued:
			summary.Queued++
		case models.StatusPending:
			summary.Pending++
		case models.StatusDiscrepancy:
			summary.Discrepancy++
		}
	}
	return summary, nil
}

func (s *candidateService) fetchPage(ctx context.Context, page int) (*CandidatePage, error) {
	payload, err := s.client.FetchCandidates(ctx, page)
	if err != nil {
		return nil, err
	}

	records := NormalizeCandidates(payload.Candidates, s.fileBaseURL)
	for _, r := range records {
		metrics.CandidatesClassified.WithLabelValues(string(r.Status)).Inc()
	}

	return &CandidatePage{
		Candidates: records,
		Pagination: resolvePagination(payload.Pagination, page, len(records)),
	}, nil
}

func resolvePagination(p *models.Pagination, requested, count int) models.Pagination {
	var out models.Pagination
	if p != nil {
		out = *p
	}
	if out.CurrentPage < 1 {
		out.CurrentPage = max(requested, 1)
	}
	if out.TotalPages < 1 {
		out.TotalPages = 1
	}
	if out.TotalEntries < 1 {
		out.TotalEntries = count
	}
	return out
}

// FilterCandidates keeps records whose name, email, status, employer or city
// contains term, ignoring case. A blank term keeps everything.
func FilterCandidates(records []models.CandidateRecord, term string) []models.CandidateRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}

	filtered := make([]models.CandidateRecord, 0, len(records))
	for _, r := range records {
		fields := []string{r.CandidateName, r.Email, string(r.Status), r.Employer, r.City}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), term) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}
