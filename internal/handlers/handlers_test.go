package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/repositories"
	"trident/onboarding-portal/internal/services"
)

type stubCandidateClient struct {
	payload *models.CandidateListPayload
	err     error
	pages   []int
}

func (s *stubCandidateClient) FetchCandidates(_ context.Context, page int) (*models.CandidateListPayload, error) {
	s.pages = append(s.pages, page)
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

type memoryCheckRepo struct {
	mu     sync.Mutex
	checks map[uuid.UUID]*models.CheckRequest
}

func newMemoryCheckRepo() *memoryCheckRepo {
	return &memoryCheckRepo{checks: make(map[uuid.UUID]*models.CheckRequest)}
}

func (r *memoryCheckRepo) Create(check *models.CheckRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[check.ID] = check
	return nil
}

func (r *memoryCheckRepo) FindByID(id uuid.UUID) (*models.CheckRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[id]
	if !ok {
		return nil, repositories.ErrCheckNotFound
	}
	return c, nil
}

func (r *memoryCheckRepo) Claim(uuid.UUID) (bool, error) { return false, nil }

func (r *memoryCheckRepo) MarkDocumentUploaded(uuid.UUID, time.Time) error { return nil }

func (r *memoryCheckRepo) MarkCompleted(uuid.UUID) error { return nil }

func (r *memoryCheckRepo) MarkFailed(uuid.UUID, string) error { return nil }

func (r *memoryCheckRepo) Requeue(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[id]
	if !ok || c.Status != models.CheckFailed {
		return repositories.ErrCheckNotRetryable
	}
	c.Status = models.CheckQueued
	return nil
}

func (r *memoryCheckRepo) FindPendingJobs(int) ([]models.CheckRequest, error) { return nil, nil }

type recordingWorker struct {
	enqueued []uuid.UUID
}

func (w *recordingWorker) Start(context.Context) {}

func (w *recordingWorker) Stop() {}

func (w *recordingWorker) EnqueueJob(checkID uuid.UUID) {
	w.enqueued = append(w.enqueued, checkID)
}

type testEnv struct {
	app      *fiber.App
	client   *stubCandidateClient
	repo     *memoryCheckRepo
	worker   *recordingWorker
	uploadTo string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		client:   &stubCandidateClient{payload: &models.CandidateListPayload{}},
		repo:     newMemoryCheckRepo(),
		worker:   &recordingWorker{},
		uploadTo: t.TempDir(),
	}

	validator, err := services.NewMetadataValidator()
	require.NoError(t, err)

	log := zap.NewNop()
	candidateService := services.NewCandidateService(env.client, "http://files.local/", log)
	storage := services.NewStorageService(env.uploadTo, 5<<20)

	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(env.app,
		NewCandidateHandler(candidateService, log),
		NewCheckHandler(env.repo, storage, validator, env.worker, log),
	)
	return env
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}
