package services

import "trident/onboarding-portal/internal/models"

func NormalizeCandidate(raw models.RawCandidate, fileBaseURL string) models.CandidateRecord {
	summary := BuildDocumentSummary(raw.Documents.PendingFiles, fileBaseURL)
	submitted := CountSubmitted(summary)

	return models.CandidateRecord{
		ID:             raw.ID,
		CandidateName:  orPlaceholder(raw.Metadata.CandidateName),
		Employer:       orPlaceholder(raw.Metadata.Employer),
		PhoneNumber:    orPlaceholder(raw.Metadata.PhoneNumber),
		Email:          orPlaceholder(raw.Metadata.Email),
		City:           orPlaceholder(raw.Metadata.City),
		Status:         ComputeStatus(summary, raw.Status),
		SubmittedCount: submitted,
		MissingCount:   len(summary) - submitted,
		Documents:      summary,
	}
}

func NormalizeCandidates(raw []models.RawCandidate, fileBaseURL string) []models.CandidateRecord {
	records := make([]models.CandidateRecord, 0, len(raw))
	for _, c := range raw {
		records = append(records, NormalizeCandidate(c, fileBaseURL))
	}
	return records
}

func orPlaceholder(value string) string {
	if value == "" {
		return models.MissingPlaceholder
	}
	return value
}
