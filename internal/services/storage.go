package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedFileType = errors.New("only .pdf and .docx files are accepted")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

type StorageService interface {
	ValidateFile(file *multipart.FileHeader) error
	SaveFile(file *multipart.FileHeader, fieldName string) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath  string
	maxFileSize int64
}

func NewStorageService(uploadPath string, maxFileSize int64) StorageService {
	return &storageService{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) ValidateFile(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, file.Filename)
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, file.Size, s.maxFileSize)
	}
	return nil
}

// SaveFile stages an upload under a unique name and returns that name and the
// full path.
func (s *storageService) SaveFile(file *multipart.FileHeader, fieldName string) (string, string, error) {
	if err := s.ValidateFile(file); err != nil {
		return "", "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	uniqueFilename := fmt.Sprintf("%s_%s%s", fieldName, uuid.New().String(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := writeStagedFile(filePath, src); err != nil {
		return "", "", err
	}

	return uniqueFilename, filePath, nil
}

// writeStagedFile copies src to path and leaves nothing behind on failure.
func writeStagedFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		return fmt.Errorf("failed to save file: %w", copyErr)
	}
	return nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
