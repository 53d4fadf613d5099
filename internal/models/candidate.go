package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type CandidateStatus string

const (
	StatusPending     CandidateStatus = "PENDING"
	StatusQueued      CandidateStatus = "QUEUED"
	StatusCompleted   CandidateStatus = "COMPLETED"
	StatusDiscrepancy CandidateStatus = "DISCREPANCY"
)

// RequiredDocumentKeys is the ordered set of documents every candidate must
// submit. Summaries are always emitted in this order.
var RequiredDocumentKeys = [...]string{
	"tenthMarksheet",
	"twelfthMarksheet",
	"bachelorsDegree",
	"bachelorsResult",
	"identityProof",
	"policeVerification",
	"aadhaarOrDomicile",
	"salarySlips",
	"relievingLetter",
	"resume",
	"bankDetails",
}

const RequiredDocumentCount = len(RequiredDocumentKeys)

// MissingPlaceholder replaces absent candidate metadata.
const MissingPlaceholder = "—"

// RawDocumentValue is one entry of the upstream pendingFiles map: absent, a
// single path or a list of paths. Unexpected JSON shapes decode as absent.
type RawDocumentValue struct {
	paths  []string
	single bool
}

func SingleDocument(path string) RawDocumentValue {
	return RawDocumentValue{paths: []string{path}, single: true}
}

func MultiDocument(paths ...string) RawDocumentValue {
	return RawDocumentValue{paths: append([]string{}, paths...)}
}

// Paths returns a copy of the raw paths.
func (v RawDocumentValue) Paths() []string {
	return append([]string(nil), v.paths...)
}

func (v RawDocumentValue) IsSingle() bool {
	return v.single
}

// Present reports a non-empty single string or a non-empty list.
func (v RawDocumentValue) Present() bool {
	if v.single {
		return len(v.paths) == 1 && v.paths[0] != ""
	}
	return len(v.paths) > 0
}

func (v *RawDocumentValue) UnmarshalJSON(data []byte) error {
	*v = RawDocumentValue{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		*v = SingleDocument(single)
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil
	}

	paths := make([]string, 0, len(items))
	for _, item := range items {
		var p string
		if err := json.Unmarshal(item, &p); err == nil {
			paths = append(paths, p)
		}
	}
	*v = RawDocumentValue{paths: paths}
	return nil
}

func (v RawDocumentValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.single && len(v.paths) == 1:
		return json.Marshal(v.paths[0])
	case v.paths == nil:
		return []byte("null"), nil
	default:
		return json.Marshal(v.paths)
	}
}

type RawDocumentMap map[string]RawDocumentValue

type RawCandidateMetadata struct {
	CandidateName string `json:"candidateName,omitempty"`
	Employer      string `json:"employer,omitempty"`
	PhoneNumber   string `json:"phonenumber,omitempty"`
	Email         string `json:"email,omitempty"`
	City          string `json:"city,omitempty"`
}

type RawCandidateDocuments struct {
	PendingFiles RawDocumentMap `json:"pendingFiles,omitempty"`
}

// RawCandidate is a candidate as returned by the upstream service. Decoding
// is lenient: fields with an unexpected type are left empty instead of
// failing the whole page.
type RawCandidate struct {
	ID        string                `json:"_id"`
	Status    string                `json:"status,omitempty"`
	Metadata  RawCandidateMetadata  `json:"metadata"`
	Documents RawCandidateDocuments `json:"documents"`
}

func (c *RawCandidate) UnmarshalJSON(data []byte) error {
	*c = RawCandidate{}

	fields := objectFields(data)
	if fields == nil {
		return nil
	}

	c.ID = identifier(fields["_id"])
	c.Status = lenientString(fields["status"])

	if meta := objectFields(fields["metadata"]); meta != nil {
		c.Metadata = RawCandidateMetadata{
			CandidateName: scalarString(meta["candidateName"]),
			Employer:      scalarString(meta["employer"]),
			PhoneNumber:   scalarString(meta["phonenumber"]),
			Email:         scalarString(meta["email"]),
			City:          scalarString(meta["city"]),
		}
	}

	if docs := objectFields(fields["documents"]); docs != nil {
		if pending := objectFields(docs["pendingFiles"]); pending != nil {
			c.Documents.PendingFiles = make(RawDocumentMap, len(pending))
			for key, raw := range pending {
				var value RawDocumentValue
				_ = value.UnmarshalJSON(raw)
				c.Documents.PendingFiles[key] = value
			}
		}
	}

	return nil
}

func objectFields(data json.RawMessage) map[string]json.RawMessage {
	if len(data) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

func lenientString(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}

// scalarString renders a metadata value as text. Numbers keep their JSON
// spelling and true becomes "true"; zero, false, null and non-scalars are
// treated as absent.
func scalarString(data json.RawMessage) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		return lenientString(trimmed)
	case 't':
		if bytes.Equal(trimmed, []byte("true")) {
			return "true"
		}
		return ""
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return ""
		}
		if f, err := n.Float64(); err == nil && f == 0 {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}

// lenientInt accepts a JSON number or a numeric string. Anything else, and
// fractional values, yield ok=false.
func lenientInt(data json.RawMessage) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, false
		}
		n = json.Number(strings.TrimSpace(s))
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, false
	}
	return i, true
}

// identifier accepts a plain string id or a Mongo extended-JSON {"$oid": "..."}.
func identifier(data json.RawMessage) string {
	if s := lenientString(data); s != "" {
		return s
	}
	if oid := objectFields(data); oid != nil {
		return lenientString(oid["$oid"])
	}
	return ""
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalEntries int `json:"totalEntries"`
}

// UnmarshalJSON drops pagination fields that are not integers so the caller
// falls back to its defaults instead of failing the page.
func (p *Pagination) UnmarshalJSON(data []byte) error {
	*p = Pagination{}

	fields := objectFields(data)
	if fields == nil {
		return nil
	}
	if v, ok := lenientInt(fields["currentPage"]); ok {
		p.CurrentPage = v
	}
	if v, ok := lenientInt(fields["totalPages"]); ok {
		p.TotalPages = v
	}
	if v, ok := lenientInt(fields["totalEntries"]); ok {
		p.TotalEntries = v
	}
	return nil
}

// CandidateListPayload is the upstream list response.
type CandidateListPayload struct {
	Candidates []RawCandidate `json:"candidates"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

type DocumentFile struct {
	Name string `json:"file_name"`
	URL  string `json:"file_api_url"`
}

type DocumentSummaryEntry struct {
	Key     string         `json:"doc_key"`
	Label   string         `json:"doc_label"`
	Present bool           `json:"is_present"`
	Files   []DocumentFile `json:"files"`
}

// CandidateRecord is the normalized candidate served to the portal views.
type CandidateRecord struct {
	ID             string                 `json:"id"`
	CandidateName  string                 `json:"candidateName"`
	Employer       string                 `json:"employer"`
	PhoneNumber    string                 `json:"phoneNumber"`
	Email          string                 `json:"email"`
	City           string                 `json:"city"`
	Status         CandidateStatus        `json:"status"`
	SubmittedCount int                    `json:"submittedCount"`
	MissingCount   int                    `json:"missingCount"`
	Documents      []DocumentSummaryEntry `json:"document_summary"`
}
