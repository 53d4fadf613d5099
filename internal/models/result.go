package models

type CandidateListResponse struct {
	Candidates []CandidateRecord `json:"candidates"`
	Pagination Pagination        `json:"pagination"`
}

type DashboardSummary struct {
	TotalCandidates int `json:"totalCandidates"`
	TotalEntries    int `json:"totalEntries"`
	Clear           int `json:"clear"`
	Queued          int `json:"queued"`
	Pending         int `json:"pending"`
	Discrepancy     int `json:"discrepancy"`
}

type SkippedFile struct {
	FieldName string `json:"fieldName"`
	FileName  string `json:"fileName"`
	Reason    string `json:"reason"`
}

type CheckResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Metadata     CheckMetadata   `json:"metadata"`
	Documents    []CheckDocument `json:"documents"`
	Skipped      []SkippedFile   `json:"skipped,omitempty"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
}
