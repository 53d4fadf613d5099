package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/metrics"
	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/repositories"
)

// CheckForwarder pushes a queued check request to the registration service.
type CheckForwarder interface {
	ForwardCheck(ctx context.Context, checkID uuid.UUID) error
}

type checkForwarder struct {
	checkRepo repositories.CheckRequestRepository
	client    RegistrationClient
	storage   StorageService
	log       *zap.Logger
}

func NewCheckForwarder(
	checkRepo repositories.CheckRequestRepository,
	client RegistrationClient,
	storage StorageService,
	log *zap.Logger,
) CheckForwarder {
	return &checkForwarder{
		checkRepo: checkRepo,
		client:    client,
		storage:   storage,
		log:       log.Named("forwarder"),
	}
}

func (f *checkForwarder) ForwardCheck(ctx context.Context, checkID uuid.UUID) error {
	claimed, err := f.checkRepo.Claim(checkID)
	if err != nil {
		return fmt.Errorf("failed to claim check request: %w", err)
	}
	if !claimed {
		f.log.Debug("Check request already taken", zap.Stringer("check_id", checkID))
		return nil
	}
	metrics.CheckRequests.WithLabelValues(string(models.CheckProcessing)).Inc()

	log := f.log.With(zap.Stringer("check_id", checkID))
	log.Info("🔄 Forwarding check request")

	check, err := f.checkRepo.FindByID(checkID)
	if err != nil {
		return f.fail(checkID, fmt.Errorf("failed to load check request: %w", err))
	}

	// Step 1: candidate metadata
	if err := f.client.RegisterCandidate(ctx, check.Metadata()); err != nil {
		return f.fail(checkID, err)
	}
	log.Info("✅ Form data sent successfully")

	// Step 2: documents, in staging order
	for _, doc := range check.Documents {
		upload := UploadRequest{
			FieldName: doc.FieldName,
			Index:     doc.FileIndex,
			FileName:  doc.OriginalFileName,
			FilePath:  doc.FilePath,
		}
		if err := f.client.UploadFile(ctx, upload); err != nil {
			return f.fail(checkID, err)
		}
		if err := f.checkRepo.MarkDocumentUploaded(doc.ID, time.Now()); err != nil {
			log.Warn("Failed to record upload", zap.Stringer("document_id", doc.ID), zap.Error(err))
		}
		log.Info("📂 Uploaded successfully",
			zap.String("field", doc.FieldName),
			zap.String("file", doc.OriginalFileName),
		)
	}

	if err := f.checkRepo.MarkCompleted(checkID); err != nil {
		return fmt.Errorf("failed to complete check request: %w", err)
	}
	metrics.CheckRequests.WithLabelValues(string(models.CheckCompleted)).Inc()

	for _, doc := range check.Documents {
		if err := f.storage.DeleteFile(doc.Filename); err != nil {
			log.Warn("Failed to remove staged file", zap.String("file", doc.Filename), zap.Error(err))
		}
	}

	log.Info("✅ All uploads completed successfully", zap.Int("documents", len(check.Documents)))
	return nil
}

func (f *checkForwarder) fail(checkID uuid.UUID, cause error) error {
	if err := f.checkRepo.MarkFailed(checkID, cause.Error()); err != nil {
		f.log.Error("Failed to record failure", zap.Stringer("check_id", checkID), zap.Error(err))
	}
	metrics.CheckRequests.WithLabelValues(string(models.CheckFailed)).Inc()
	return cause
}
