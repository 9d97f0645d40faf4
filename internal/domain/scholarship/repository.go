package scholarship

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("scholarship not found")

// CandidateFilter narrows the scan. Zero value means every active, non-expired row.
type CandidateFilter struct {
	Now          time.Time
	FieldPattern string
	Levels       []string
}

type Repository interface {
	ListActive(ctx context.Context, f CandidateFilter) ([]Scholarship, error)
	GetByID(ctx context.Context, id uuid.UUID) (Scholarship, error)
	Upsert(ctx context.Context, s Scholarship) error
}
