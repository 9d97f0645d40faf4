package profile

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	HighestEducation *string
	Skills           []string
	AreasOfInterest  []string
	Objective        *string
	Educations       []Education
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Education struct {
	ID                uuid.UUID
	Institution       *string
	Degree            *string
	FieldOfStudy      *string
	CGPA              *float64
	StartDate         *time.Time
	EndDate           *time.Time
	CurrentlyEnrolled bool
	Position          int
}
