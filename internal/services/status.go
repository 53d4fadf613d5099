package services

import "trident/onboarding-portal/internal/models"

// ComputeStatus classifies a candidate from its document summary. A
// DISCREPANCY asserted upstream always wins; every other upstream value is
// discarded.
func ComputeStatus(summary []models.DocumentSummaryEntry, upstream string) models.CandidateStatus {
	if models.CandidateStatus(upstream) == models.StatusDiscrepancy {
		return models.StatusDiscrepancy
	}

	submitted := CountSubmitted(summary)
	switch {
	case submitted == 0:
		return models.StatusPending
	case submitted < models.RequiredDocumentCount:
		return models.StatusQueued
	default:
		return models.StatusCompleted
	}
}

func CountSubmitted(summary []models.DocumentSummaryEntry) int {
	n := 0
	for _, entry := range summary {
		if entry.Present {
			n++
		}
	}
	return n
}
