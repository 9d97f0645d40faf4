package scholarship

import (
	"time"

	"github.com/google/uuid"
)

type Scholarship struct {
	ID             uuid.UUID
	Title          string
	University     *string
	FieldOfStudy   *string
	Specialization *string
	Description    *string
	MinCGPA        *float64
	Level          *string
	Deadline       time.Time
	IsActive       bool
	Tags           []string
	CreatedAt      time.Time
}

// Eligible reports whether s may be scored at now.
func (s Scholarship) Eligible(now time.Time) bool {
	return s.IsActive && s.Deadline.After(now)
}
