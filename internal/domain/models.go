package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BoundingBox is a rectangle normalized to [0,1] of page dimensions,
// stored as [x, y, width, height].
type BoundingBox [4]float64

// Area returns width*height in normalized units.
func (b BoundingBox) Area() float64 { return b[2] * b[3] }

// FieldDefinition describes one field to identify and redact.
type FieldDefinition struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Strategy    ReplacementStrategy `json:"strategy"`
	Source      FieldSource         `json:"source,omitempty"`
}

// Validate checks a single field definition.
func (f *FieldDefinition) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyFieldName
	}
	return nil
}

// ValidateFieldDefinitions checks a caller-supplied field list for emptiness
// and duplicate names.
func ValidateFieldDefinitions(fields []FieldDefinition) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		if err := fields[i].Validate(); err != nil {
			return err
		}
		name := strings.TrimSpace(fields[i].Name)
		if _, dup := seen[name]; dup {
			return ErrDuplicateField
		}
		seen[name] = struct{}{}
	}
	return nil
}

// StrategyFor returns the strategy for a detected category, defaulting to
// EntityLabel when no field definition matches.
func StrategyFor(fields []FieldDefinition, category string) ReplacementStrategy {
	for i := range fields {
		if fields[i].Name == category {
			return fields[i].Strategy
		}
	}
	return StrategyEntityLabel
}

// EntityCandidate is a detected text span prior to replacement assignment.
type EntityCandidate struct {
	Category     string      `json:"entity_type"`
	OriginalText string      `json:"original_text"`
	BoundingBox  BoundingBox `json:"bounding_box"`
	Confidence   float64     `json:"confidence"`
	PageNumber   int         `json:"page_number"`
}

// Entity is a candidate with an assigned replacement.
type Entity struct {
	ID              string      `json:"id"`
	Category        string      `json:"entity_type"`
	OriginalText    string      `json:"original_text"`
	ReplacementText string      `json:"replacement_text"`
	BoundingBox     BoundingBox `json:"bounding_box"`
	Confidence      float64     `json:"confidence"`
	Approved        bool        `json:"approved"`
	PageNumber      int         `json:"page_number"`
}

// Session is one interactive document's processing state.
type Session struct {
	ID               uuid.UUID         `json:"session_id"`
	Filename         string            `json:"filename"`
	FileSize         int64             `json:"file_size"`
	PageCount        int               `json:"page_count"`
	OriginalPDFPath  string            `json:"-"`
	PageImagePaths   []string          `json:"-"`
	MaskedImagePaths []string          `json:"-"`
	MaskedPDFPath    string            `json:"-"`
	ArchiveKey       string            `json:"archive_key,omitempty"`
	FieldDefinitions []FieldDefinition `json:"field_definitions,omitempty"`
	Entities         []Entity          `json:"entities,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// DocumentResult is the per-document record produced by batch processing.
type DocumentResult struct {
	Filename       string         `db:"filename" json:"filename"`
	MaskedFilename string         `db:"masked_filename" json:"masked_filename"`
	Status         DocumentStatus `db:"status" json:"status"`
	EntitiesToMask int            `db:"entities_to_mask" json:"entities_to_mask"`
	EntitiesMasked int            `db:"entities_masked" json:"entities_masked"`
	Score          float64        `db:"score" json:"score"`
	Error          string         `db:"error" json:"error,omitempty"`
}

// BatchRun aggregates one folder's batch processing.
type BatchRun struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	FolderPath          string           `db:"folder_path" json:"output_folder"`
	TotalDocuments      int              `db:"total_documents" json:"total_documents"`
	SuccessfulDocuments int              `db:"successful_documents" json:"successful_documents"`
	BatchScore          float64          `db:"batch_score" json:"batch_score"`
	Results             []DocumentResult `db:"-" json:"results"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
}

// RedactionConfig is a saved, named set of field definitions.
type RedactionConfig struct {
	Name      string            `json:"config_name"`
	Fields    []FieldDefinition `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

// StrategyTemplate is a read-only system template of field definitions.
type StrategyTemplate struct {
	TemplateName string            `json:"template_name"`
	Description  string            `json:"description"`
	Version      string            `json:"version"`
	Fields       []FieldDefinition `json:"fields"`
}
