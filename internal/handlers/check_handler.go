package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"trident/onboarding-portal/internal/metrics"
	"trident/onboarding-portal/internal/models"
	"trident/onboarding-portal/internal/repositories"
	"trident/onboarding-portal/internal/services"
)

type CheckHandler struct {
	checkRepo      repositories.CheckRequestRepository
	storageService services.StorageService
	validator      *services.MetadataValidator
	worker         services.Worker
	log            *zap.Logger
}

func NewCheckHandler(
	checkRepo repositories.CheckRequestRepository,
	storageService services.StorageService,
	validator *services.MetadataValidator,
	worker services.Worker,
	log *zap.Logger,
) *CheckHandler {
	return &CheckHandler{
		checkRepo:      checkRepo,
		storageService: storageService,
		validator:      validator,
		worker:         worker,
		log:            log.Named("check-handler"),
	}
}

// pendingUpload is a file that passed validation and waits to be staged.
type pendingUpload struct {
	fieldName string
	index     *int
	header    *multipart.FileHeader
}

// HandleCreate handles POST /checks
func (h *CheckHandler) HandleCreate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
			"code":  fiber.StatusBadRequest,
		})
	}

	meta := metadataFromForm(form)
	if err := h.validator.Validate(meta); err != nil {
		return respondError(c, err, fiber.StatusBadRequest)
	}

	uploads, skipped := h.selectUploads(form.File)

	checkID := uuid.New()
	now := time.Now()
	check := &models.CheckRequest{
		ID:               checkID,
		CandidateName:    meta.CandidateName,
		City:             meta.City,
		LocalAddress:     meta.LocalAddress,
		PermanentAddress: meta.PermanentAddress,
		PhoneNumber:      meta.PhoneNumber,
		Email:            meta.Email,
		Employer:         meta.Employer,
		PreviousHREmail:  meta.PreviousHREmail,
		Status:           models.CheckQueued,
		SubmittedAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for position, upload := range uploads {
		filename, filePath, err := h.storageService.SaveFile(upload.header, upload.fieldName)
		if err != nil {
			h.cleanup(check.Documents)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save %s: %v", upload.fieldName, err),
				"code":  fiber.StatusInternalServerError,
			})
		}

		check.Documents = append(check.Documents, models.CheckDocument{
			ID:               uuid.New(),
			CheckRequestID:   checkID,
			FieldName:        upload.fieldName,
			FileIndex:        upload.index,
			Position:         position,
			OriginalFileName: upload.header.Filename,
			Filename:         filename,
			FilePath:         filePath,
			Size:             upload.header.Size,
			CreatedAt:        now,
		})
	}

	if err := h.checkRepo.Create(check); err != nil {
		// Cleanup staged files if database insert fails
		h.cleanup(check.Documents)
		h.log.Error("Failed to create check request", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save check request",
			"code":  fiber.StatusInternalServerError,
		})
	}
	metrics.CheckRequests.WithLabelValues(string(models.CheckQueued)).Inc()

	h.worker.EnqueueJob(checkID)

	documents := check.Documents
	if documents == nil {
		documents = []models.CheckDocument{}
	}

	h.log.Info("📥 Check request accepted",
		zap.Stringer("check_id", checkID),
		zap.Int("documents", len(check.Documents)),
		zap.Int("skipped", len(skipped)),
	)

	return c.Status(fiber.StatusAccepted).JSON(models.CheckResponse{
		ID:        checkID.String(),
		Status:    string(check.Status),
		Metadata:  check.Metadata(),
		Documents: documents,
		Skipped:   skipped,
	})
}

// HandleGet handles GET /checks/:id
func (h *CheckHandler) HandleGet(c *fiber.Ctx) error {
	checkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid check request ID format",
			"code":  fiber.StatusBadRequest,
		})
	}

	check, err := h.checkRepo.FindByID(checkID)
	if err != nil {
		return respondError(c, err, fiber.StatusInternalServerError)
	}

	documents := check.Documents
	if documents == nil {
		documents = []models.CheckDocument{}
	}

	return c.JSON(models.CheckResponse{
		ID:           check.ID.String(),
		Status:       string(check.Status),
		Metadata:     check.Metadata(),
		Documents:    documents,
		ErrorMessage: check.ErrorMessage,
	})
}

// HandleRetry handles POST /checks/:id/retry
func (h *CheckHandler) HandleRetry(c *fiber.Ctx) error {
	checkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid check request ID format",
			"code":  fiber.StatusBadRequest,
		})
	}

	if err := h.checkRepo.Requeue(checkID); err != nil {
		if errors.Is(err, repositories.ErrCheckNotRetryable) {
			if _, findErr := h.checkRepo.FindByID(checkID); errors.Is(findErr, repositories.ErrCheckNotFound) {
				err = findErr
			}
		}
		return respondError(c, err, fiber.StatusInternalServerError)
	}
	metrics.CheckRequests.WithLabelValues(string(models.CheckQueued)).Inc()

	h.worker.EnqueueJob(checkID)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":     checkID.String(),
		"status": string(models.CheckQueued),
	})
}

// selectUploads walks single-file keys, then multi-file keys, and returns the
// accepted files in upload order. Everything else is reported as skipped.
func (h *CheckHandler) selectUploads(files map[string][]*multipart.FileHeader) ([]pendingUpload, []models.SkippedFile) {
	var uploads []pendingUpload
	var skipped []models.SkippedFile
	known := make(map[string]bool)

	for _, key := range models.SingleUploadKeys {
		known[key] = true
		headers := files[key]
		for i, header := range headers {
			if i > 0 {
				skipped = append(skipped, skip(key, header, "only one file accepted for this document"))
				continue
			}
			if err := h.storageService.ValidateFile(header); err != nil {
				skipped = append(skipped, skip(key, header, err.Error()))
				continue
			}
			uploads = append(uploads, pendingUpload{fieldName: key, header: header})
		}
	}

	for _, key := range models.MultiUploadKeys {
		known[key] = true
		for i, header := range files[key] {
			if err := h.storageService.ValidateFile(header); err != nil {
				skipped = append(skipped, skip(key, header, err.Error()))
				continue
			}
			index := i
			uploads = append(uploads, pendingUpload{fieldName: key, index: &index, header: header})
		}
	}

	unknown := make([]string, 0)
	for key := range files {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		for _, header := range files[key] {
			skipped = append(skipped, skip(key, header, "unknown document field"))
		}
	}

	return uploads, skipped
}

func (h *CheckHandler) cleanup(docs []models.CheckDocument) {
	for _, doc := range docs {
		if err := h.storageService.DeleteFile(doc.Filename); err != nil {
			h.log.Warn("Failed to remove staged file", zap.String("file", doc.Filename), zap.Error(err))
		}
	}
}

func skip(fieldName string, header *multipart.FileHeader, reason string) models.SkippedFile {
	return models.SkippedFile{FieldName: fieldName, FileName: header.Filename, Reason: reason}
}

func metadataFromForm(form *multipart.Form) models.CheckMetadata {
	value := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
		return ""
	}

	return models.CheckMetadata{
		CandidateName:    value("candidateName"),
		City:             value("city"),
		LocalAddress:     value("localAddress"),
		PermanentAddress: value("permanentAddress"),
		PhoneNumber:      value("phoneNumber"),
		Email:            value("email"),
		Employer:         value("employer"),
		PreviousHREmail:  value("previousHrEmail"),
	}
}
