package models

import (
	"time"

	"github.com/google/uuid"
)

type CheckStatus string

const (
	CheckQueued     CheckStatus = "queued"
	CheckProcessing CheckStatus = "processing"
	CheckCompleted  CheckStatus = "completed"
	CheckFailed     CheckStatus = "failed"
)

// SingleUploadKeys accept one file each.
var SingleUploadKeys = [...]string{
	"tenthMarksheet",
	"twelfthMarksheet",
	"bachelorsDegree",
	"bachelorsResult",
	"mastersDegree",
	"mastersResult",
	"bankDetails",
	"resume",
	"identityProof",
	"policeVerification",
	"aadhaarOrDomicile",
}

// MultiUploadKeys accept any number of files, uploaded with their index.
var MultiUploadKeys = [...]string{
	"relievingLetter",
	"salarySlips",
	"otherCertificates",
}

// CheckRequest is a background-check registration accepted by the portal and
// forwarded to the registration service by the worker.
type CheckRequest struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CandidateName    string          `gorm:"type:text;not null" json:"candidateName"`
	City             string          `gorm:"type:text" json:"city"`
	LocalAddress     string          `gorm:"type:text" json:"localAddress"`
	PermanentAddress string          `gorm:"type:text" json:"permanentAddress"`
	PhoneNumber      string          `gorm:"type:text" json:"phoneNumber"`
	Email            string          `gorm:"type:text;not null" json:"email"`
	Employer         string          `gorm:"type:text" json:"employer"`
	PreviousHREmail  string          `gorm:"column:previous_hr_email;type:text;not null" json:"previousHrEmail"`
	Status           CheckStatus     `gorm:"not null;default:'queued';index" json:"status"`
	ErrorMessage     *string         `gorm:"type:text" json:"errorMessage,omitempty"`
	SubmittedAt      time.Time       `gorm:"type:timestamp" json:"submittedAt"`
	CreatedAt        time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt        time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
	Documents        []CheckDocument `gorm:"foreignKey:CheckRequestID" json:"documents,omitempty"`
}

func (CheckRequest) TableName() string {
	return "check_requests"
}

// Metadata is the JSON body sent to the registration service.
func (c *CheckRequest) Metadata() CheckMetadata {
	return CheckMetadata{
		CandidateName:    c.CandidateName,
		City:             c.City,
		LocalAddress:     c.LocalAddress,
		PermanentAddress: c.PermanentAddress,
		PhoneNumber:      c.PhoneNumber,
		Email:            c.Email,
		Employer:         c.Employer,
		PreviousHREmail:  c.PreviousHREmail,
		CreatedAt:        c.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

// CheckDocument is one staged file belonging to a CheckRequest.
type CheckDocument struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CheckRequestID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"checkRequestId"`
	FieldName        string     `gorm:"type:text;not null" json:"fieldName"`
	FileIndex        *int       `json:"index,omitempty"`
	Position         int        `gorm:"not null" json:"position"`
	OriginalFileName string     `gorm:"type:text" json:"originalFileName"`
	Filename         string     `gorm:"type:text" json:"filename"`
	FilePath         string     `gorm:"type:text" json:"-"`
	Size             int64      `json:"size"`
	UploadedAt       *time.Time `json:"uploadedAt,omitempty"`
	CreatedAt        time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (CheckDocument) TableName() string {
	return "check_documents"
}

type CheckMetadata struct {
	CandidateName    string `json:"candidateName"`
	City             string `json:"city"`
	LocalAddress     string `json:"localAddress"`
	PermanentAddress string `json:"permanentAddress"`
	PhoneNumber      string `json:"phoneNumber"`
	Email            string `json:"email"`
	Employer         string `json:"employer"`
	PreviousHREmail  string `json:"previousHrEmail"`
	CreatedAt        string `json:"createdAt,omitempty"`
}
