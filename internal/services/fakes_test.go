package services

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"

	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/repositories"
)

type memoryCheckRepo struct {
	mu       sync.Mutex
	checks   map[uuid.UUID]*models.CheckRequest
	uploaded map[uuid.UUID]time.Time
	claimErr error
}

func newMemoryCheckRepo(checks ...*models.CheckRequest) *memoryCheckRepo {
	repo := &memoryCheckRepo{
		checks:   make(map[uuid.UUID]*models.CheckRequest),
		uploaded: make(map[uuid.UUID]time.Time),
	}
	for _, c := range checks {
		repo.checks[c.ID] = c
	}
	return repo
}

func (r *memoryCheckRepo) Create(check *models.CheckRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if check.ID == uuid.Nil {
		check.ID = uuid.New()
	}
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
	clone := *c
	return &clone, nil
}

func (r *memoryCheckRepo) Claim(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.claimErr != nil {
		return false, r.claimErr
	}
	c, ok := r.checks[id]
	if !ok || c.Status != models.CheckQueued {
		return false, nil
	}
	c.Status = models.CheckProcessing
	return true, nil
}

func (r *memoryCheckRepo) MarkDocumentUploaded(docID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploaded[docID] = at
	return nil
}

func (r *memoryCheckRepo) MarkCompleted(id uuid.UUID) error {
	return r.set(id, models.CheckCompleted, nil)
}

func (r *memoryCheckRepo) MarkFailed(id uuid.UUID, errorMsg string) error {
	return r.set(id, models.CheckFailed, &errorMsg)
}

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

func (r *memoryCheckRepo) FindPendingJobs(limit int) ([]models.CheckRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CheckRequest
	for _, c := range r.checks {
		if c.Status == models.CheckQueued && len(out) < limit {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memoryCheckRepo) set(id uuid.UUID, status models.CheckStatus, msg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[id]
	if !ok {
		return repositories.ErrCheckNotFound
	}
	c.Status = status
	c.ErrorMessage = msg
	return nil
}

func (r *memoryCheckRepo) status(id uuid.UUID) models.CheckStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checks[id].Status
}

type recordingRegistrationClient struct {
	mu          sync.Mutex
	registered  []models.CheckMetadata
	uploads     []UploadRequest
	registerErr error
	failOn      string
}

func (c *recordingRegistrationClient) RegisterCandidate(_ context.Context, meta models.CheckMetadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.registerErr != nil {
		return c.registerErr
	}
	c.registered = append(c.registered, meta)
	return nil
}

func (c *recordingRegistrationClient) UploadFile(_ context.Context, upload UploadRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if upload.FieldName == c.failOn {
		return errors.New("failed to upload " + upload.FieldName)
	}
	c.uploads = append(c.uploads, upload)
	return nil
}

type recordingStorage struct {
	mu      sync.Mutex
	deleted []string
}

func (s *recordingStorage) ValidateFile(*multipart.FileHeader) error { return nil }

func (s *recordingStorage) SaveFile(file *multipart.FileHeader, fieldName string) (string, string, error) {
	return fieldName + "_" + file.Filename, "/tmp/" + fieldName + "_" + file.Filename, nil
}

func (s *recordingStorage) GetFilePath(filename string) string { return "/tmp/" + filename }

func (s *recordingStorage) DeleteFile(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *recordingStorage) EnsureUploadDir() error { return nil }
