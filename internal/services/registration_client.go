package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"trident/onboarding-portal/internal/metrics"
	"trident/onboarding-portal/internal/models"
)

type UploadRequest struct {
	FieldName string
	Index     *int
	FileName  string
	FilePath  string
}

type RegistrationClient interface {
	RegisterCandidate(ctx context.Context, meta models.CheckMetadata) error
	UploadFile(ctx context.Context, upload UploadRequest) error
}

type registrationClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewRegistrationClient(baseURL string, timeout time.Duration, log *zap.Logger) RegistrationClient {
	return &registrationClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("registration-client"),
	}
}

// RegisterCandidate posts the candidate metadata as JSON to /register-user.
func (c *registrationClient) RegisterCandidate(ctx context.Context, meta models.CheckMetadata) error {
	body, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register-user", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, "register-user"); err != nil {
		return fmt.Errorf("failed to send form data: %w", err)
	}
	return nil
}

// UploadFile sends one staged document to /upload-file as multipart with the
// fields file, fieldName and, for multi-file keys, index.
func (c *registrationClient) UploadFile(ctx context.Context, upload UploadRequest) error {
	f, err := os.Open(upload.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	name := upload.FileName
	if name == "" {
		name = filepath.Base(upload.FilePath)
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy staged file: %w", err)
	}
	if err := writer.WriteField("fieldName", upload.FieldName); err != nil {
		return fmt.Errorf("failed to write fieldName: %w", err)
	}
	if upload.Index != nil {
		if err := writer.WriteField("index", strconv.Itoa(*upload.Index)); err != nil {
			return fmt.Errorf("failed to write index: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-file", &buf)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if err := c.do(req, "upload-file"); err != nil {
		if upload.Index != nil {
			return fmt.Errorf("failed to upload %s[%d]: %w", upload.FieldName, *upload.Index, err)
		}
		return fmt.Errorf("failed to upload %s: %w", upload.FieldName, err)
	}

	c.log.Debug("Uploaded document",
		zap.String("field", upload.FieldName),
		zap.String("file", name),
	)
	return nil
}

func (c *registrationClient) do(req *http.Request, service string) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(service, "error").Inc()
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues(service, "error").Inc()
		return &UpstreamError{Service: service, StatusCode: resp.StatusCode}
	}

	metrics.UpstreamRequests.WithLabelValues(service, "success").Inc()
	return nil
}
