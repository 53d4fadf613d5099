package services

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"trident/onboarding-portal/internal/models"
)

const checkMetadataSchema = `{
	"type": "object",
	"required": ["candidateName", "email", "previousHrEmail"],
	"properties": {
		"candidateName":    {"type": "string", "minLength": 1, "maxLength": 200},
		"email":            {"type": "string", "format": "email"},
		"previousHrEmail":  {"type": "string", "format": "email"},
		"phoneNumber":      {"type": "string", "maxLength": 32},
		"city":             {"type": "string", "maxLength": 200},
		"employer":         {"type": "string", "maxLength": 200},
		"localAddress":     {"type": "string", "maxLength": 1000},
		"permanentAddress": {"type": "string", "maxLength": 1000}
	}
}`

// ValidationError lists every field that failed the metadata schema.
type ValidationError struct {
	Fields []FieldError
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "metadata validation failed: " + strings.Join(parts, "; ")
}

type MetadataValidator struct {
	schema *gojsonschema.Schema
}

func NewMetadataValidator() (*MetadataValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(checkMetadataSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile metadata schema: %w", err)
	}
	return &MetadataValidator{schema: schema}, nil
}

// Validate checks the mandatory registration fields. Blank mandatory values
// are reported the same way as missing ones.
func (v *MetadataValidator) Validate(meta models.CheckMetadata) error {
	doc := map[string]interface{}{
		"phoneNumber":      meta.PhoneNumber,
		"city":             meta.City,
		"employer":         meta.Employer,
		"localAddress":     meta.LocalAddress,
		"permanentAddress": meta.PermanentAddress,
	}
	setIfPresent(doc, "candidateName", meta.CandidateName)
	setIfPresent(doc, "email", meta.Email)
	setIfPresent(doc, "previousHrEmail", meta.PreviousHREmail)

	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if missing, ok := desc.Details()["property"].(string); ok {
				field = missing
			}
		}
		verr.Fields = append(verr.Fields, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

func setIfPresent(doc map[string]interface{}, key, value string) {
	if strings.TrimSpace(value) != "" {
		doc[key] = strings.TrimSpace(value)
	}
}
