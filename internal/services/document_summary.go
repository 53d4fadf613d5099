package services

import (
	"strings"
	"unicode"

	"trident/onboarding-portal/internal/models"
)

// BuildDocumentSummary returns one entry per required document key, in the
// fixed key order, whatever the raw map contains. A nil map is treated as
// empty.
func BuildDocumentSummary(pendingFiles models.RawDocumentMap, fileBaseURL string) []models.DocumentSummaryEntry {
	entries := make([]models.DocumentSummaryEntry, 0, models.RequiredDocumentCount)

	for _, key := range models.RequiredDocumentKeys {
		raw := pendingFiles[key]

		files := make([]models.DocumentFile, 0)
		for _, p := range raw.Paths() {
			path := NormalizePath(p)
			if strings.TrimSpace(path) == "" {
				continue
			}
			files = append(files, models.DocumentFile{
				Name: DisplayFileName(path),
				URL:  JoinFileURL(fileBaseURL, path),
			})
		}

		entries = append(entries, models.DocumentSummaryEntry{
			Key:     key,
			Label:   DocumentLabel(key),
			Present: raw.Present(),
			Files:   files,
		})
	}

	return entries
}

func NormalizePath(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// DisplayFileName strips the upload prefix: "uploads/2024/john_resume.pdf"
// becomes "resume.pdf".
func DisplayFileName(path string) string {
	segment := path
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.LastIndex(segment, "_"); i >= 0 {
		return segment[i+1:]
	}
	return segment
}

// DocumentLabel turns "tenthMarksheet" into "tenth Marksheet".
func DocumentLabel(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func JoinFileURL(baseURL, path string) string {
	if baseURL == "" {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
