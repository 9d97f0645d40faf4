package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"scholar-match/internal/domain/scholarship"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

var ErrInvalidImport = errors.New("invalid scholarship import")

const importSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "deadline"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "string", "pattern": "^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$"},
      "title": {"type": "string", "minLength": 1},
      "university": {"type": ["string", "null"]},
      "field_of_study": {"type": ["string", "null"]},
      "specialization": {"type": ["string", "null"]},
      "description": {"type": ["string", "null"]},
      "min_cgpa": {"type": ["number", "null"], "minimum": 0, "maximum": 4},
      "level": {"type": ["string", "null"]},
      "deadline": {"type": "string", "minLength": 10},
      "is_active": {"type": "boolean"},
      "tags": {"type": "array", "items": {"type": "string"}}
    }
  }
}`

var importSchemaLoader = gojsonschema.NewStringLoader(importSchema)

type importRecord struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	University     *string  `json:"university"`
	FieldOfStudy   *string  `json:"field_of_study"`
	Specialization *string  `json:"specialization"`
	Description    *string  `json:"description"`
	MinCGPA        *float64 `json:"min_cgpa"`
	Level          *string  `json:"level"`
	Deadline       string   `json:"deadline"`
	IsActive       *bool    `json:"is_active"`
	Tags           []string `json:"tags"`
}

// ParseImport validates a JSON array of scholarships against the import
// schema and converts it. Records without an id get a stable one derived
// from title and university.
func ParseImport(b []byte) ([]scholarship.Scholarship, error) {
	result, err := gojsonschema.Validate(importSchemaLoader, gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidImport, strings.Join(errs, "; "))
	}

	var records []importRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	out := make([]scholarship.Scholarship, 0, len(records))
	for i, r := range records {
		s, err := r.toScholarship()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidImport, i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (r importRecord) toScholarship() (scholarship.Scholarship, error) {
	deadline, err := parseDeadline(r.Deadline)
	if err != nil {
		return scholarship.Scholarship{}, err
	}

	s := scholarship.Scholarship{
		Title:          strings.TrimSpace(r.Title),
		University:     trimmed(r.University),
		FieldOfStudy:   trimmed(r.FieldOfStudy),
		Specialization: trimmed(r.Specialization),
		Description:    trimmed(r.Description),
		MinCGPA:        r.MinCGPA,
		Level:          trimmed(r.Level),
		Deadline:       deadline,
		IsActive:       r.IsActive == nil || *r.IsActive,
		Tags:           r.Tags,
	}

	if r.ID != "" {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return scholarship.Scholarship{}, err
		}
		s.ID = id
	} else {
		s.ID = ScholarshipID(s.Title, s.University)
	}
	return s, nil
}

// parseDeadline accepts RFC 3339 timestamps or plain dates. A plain date
// means the end of that day in UTC.
func parseDeadline(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("deadline %q: want RFC 3339 or YYYY-MM-DD", v)
	}
	return d.Add(24*time.Hour - time.Second).UTC(), nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	return optional(*p)
}

type Importer struct {
	Writer ScholarshipWriter
	Logger *zap.Logger
}

// Import reads, validates and upserts every record. Nothing is written when
// validation fails.
func (i Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}

	items, err := ParseImport(b)
	if err != nil {
		return 0, err
	}
	if err := upsertAll(ctx, i.Writer, items); err != nil {
		return 0, fmt.Errorf("upsert scholarships: %w", err)
	}

	if i.Logger != nil {
		i.Logger.Info("scholarships imported", zap.Int("count", len(items)))
	}
	return len(items), nil
}
