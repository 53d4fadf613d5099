package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trident/onboarding-portal/internal/models"
)

var (
	ErrCheckNotFound     = errors.New("check request not found")
	ErrCheckNotRetryable = errors.New("check request is not failed or stuck in processing")
)

// StaleProcessingAfter is how long a request may sit in processing before a
// retry treats its worker as gone.
const StaleProcessingAfter = 15 * time.Minute

type CheckRequestRepository interface {
	Create(check *models.CheckRequest) error
	FindByID(id uuid.UUID) (*models.CheckRequest, error)
	Claim(id uuid.UUID) (bool, error)
	MarkDocumentUploaded(docID uuid.UUID, at time.Time) error
	MarkCompleted(id uuid.UUID) error
	MarkFailed(id uuid.UUID, errorMsg string) error
	Requeue(id uuid.UUID) error
	FindPendingJobs(limit int) ([]models.CheckRequest, error)
}

type checkRequestRepository struct {
	db *gorm.DB
}

func NewCheckRequestRepository(db *gorm.DB) CheckRequestRepository {
	return &checkRequestRepository{db: db}
}

// Create stores the request together with its documents.
func (r *checkRequestRepository) Create(check *models.CheckRequest) error {
	if err := r.db.Create(check).Error; err != nil {
		return fmt.Errorf("failed to create check request: %w", err)
	}
	return nil
}

func (r *checkRequestRepository) FindByID(id uuid.UUID) (*models.CheckRequest, error) {
	var check models.CheckRequest
	err := r.db.
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&check).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckNotFound
		}
		return nil, fmt.Errorf("failed to find check request: %w", err)
	}
	return &check, nil
}

// Claim moves a queued request to processing. It reports false when another
// worker already took it or it is no longer queued.
func (r *checkRequestRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.CheckRequest{}).
		Where("id = ? AND status = ?", id, models.CheckQueued).
		Updates(map[string]interface{}{
			"status":     models.CheckProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim check request: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *checkRequestRepository) MarkDocumentUploaded(docID uuid.UUID, at time.Time) error {
	result := r.db.Model(&models.CheckDocument{}).
		Where("id = ?", docID).
		Update("uploaded_at", at)

	if result.Error != nil {
		return fmt.Errorf("failed to mark document uploaded: %w", result.Error)
	}
	return nil
}

func (r *checkRequestRepository) MarkCompleted(id uuid.UUID) error {
	return r.setStatus(id, map[string]interface{}{
		"status":        models.CheckCompleted,
		"error_message": nil,
		"updated_at":    time.Now(),
	})
}

func (r *checkRequestRepository) MarkFailed(id uuid.UUID, errorMsg string) error {
	return r.setStatus(id, map[string]interface{}{
		"status":        models.CheckFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	})
}

// Requeue puts a failed request back in the queue. A request left in
// processing longer than StaleProcessingAfter is requeued too.
func (r *checkRequestRepository) Requeue(id uuid.UUID) error {
	staleBefore := time.Now().Add(-StaleProcessingAfter)
	result := r.db.Model(&models.CheckRequest{}).
		Where("id = ? AND (status = ? OR (status = ? AND updated_at < ?))",
			id, models.CheckFailed, models.CheckProcessing, staleBefore).
		Updates(map[string]interface{}{
			"status":     models.CheckQueued,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to requeue check request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCheckNotRetryable
	}
	return nil
}

func (r *checkRequestRepository) FindPendingJobs(limit int) ([]models.CheckRequest, error) {
	var checks []models.CheckRequest
	err := r.db.
		Where("status = ?", models.CheckQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&checks).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}
	return checks, nil
}

func (r *checkRequestRepository) setStatus(id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.CheckRequest{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update check request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCheckNotFound
	}
	return nil
}
