package seeder

import (
	"context"
	"strings"
	"time"

	"scholar-match/internal/database"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/repository"

	"github.com/google/uuid"
)

// scholarshipNamespace derives stable ids for scholarships that arrive
// without one, so re-running a seed or import updates rows in place.
var scholarshipNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("scholar-match/scholarships"))

func ScholarshipID(title string, university *string) uuid.UUID {
	key := strings.ToLower(strings.TrimSpace(title))
	if university != nil {
		key += "|" + strings.ToLower(strings.TrimSpace(*university))
	}
	return uuid.NewSHA1(scholarshipNamespace, []byte(key))
}

type ScholarshipSeeder struct {
	Now func() time.Time
}

func (ScholarshipSeeder) Name() string { return "sample_scholarships" }

func (s ScholarshipSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "scholarships",
		"id",
		"title",
		"university",
		"field_of_study",
		"specialization",
		"description",
		"min_cgpa",
		"level",
		"deadline",
		"is_active",
		"tags",
	); err != nil {
		return err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return upsertAll(ctx, repository.NewPostgresScholarshipRepository(db), SampleScholarships(now()))
}

func upsertAll(ctx context.Context, w ScholarshipWriter, items []scholarship.Scholarship) error {
	for _, it := range items {
		if err := w.Upsert(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

type sample struct {
	title          string
	university     string
	field          string
	specialization string
	description    string
	level          string
	minCGPA        float64
	days           int
	active         bool
	tags           []string
}

var samples = []sample{
	{"Global Excellence in Computing", "Northbridge University", "Computer Science", "Machine Learning",
		"Funding for students pursuing research in artificial intelligence and data science", "Master",
		3.3, 45, true, []string{"ai", "data science", "stem", "python"}},
	{"Women in Engineering Award", "Eastfield Institute of Technology", "Electrical Engineering", "",
		"Supports undergraduate women studying engineering disciplines", "Bachelor",
		3.0, 30, true, []string{"engineering", "stem", "diversity"}},
	{"Data Futures Fellowship", "", "Data Science, Statistics", "",
		"For graduate students applying statistics and machine learning to public data", "Graduate",
		3.5, 20, true, []string{"data science", "statistics", "sql", "python"}},
	{"Doctoral Research Grant in Physics", "Westlake University", "Physics", "Quantum Computing",
		"Three-year doctoral grant for theoretical and applied physics", "PhD",
		3.7, 60, true, []string{"physics", "research", "stem"}},
	{"Open Horizons Scholarship", "", "", "",
		"Merit award open to any discipline and level", "",
		0, 10, true, []string{"leadership", "community"}},
	{"Business Analytics Bursary", "Harbor School of Management", "Business Administration", "Analytics",
		"Bursary for postgraduate analytics and management students", "Postgraduate",
		3.2, 25, true, []string{"business", "analytics", "sql"}},
	{"Closed Legacy Fund", "Northbridge University", "Computer Science", "",
		"No longer accepting applications", "Bachelor",
		2.5, 90, false, []string{"stem"}},
	{"Expired Summer Research Award", "Eastfield Institute of Technology", "Computer Science", "",
		"Summer research placement", "Bachelor",
		3.0, -5, true, []string{"research", "ai"}},
}

// SampleScholarships returns demo rows with deadlines relative to now. It
// includes one inactive and one expired entry.
func SampleScholarships(now time.Time) []scholarship.Scholarship {
	day := now.UTC().Truncate(24 * time.Hour)
	out := make([]scholarship.Scholarship, 0, len(samples))
	for _, s := range samples {
		sch := scholarship.Scholarship{
			Title:          s.title,
			University:     optional(s.university),
			FieldOfStudy:   optional(s.field),
			Specialization: optional(s.specialization),
			Description:    optional(s.description),
			Level:          optional(s.level),
			Deadline:       day.AddDate(0, 0, s.days).Add(23*time.Hour + 59*time.Minute),
			IsActive:       s.active,
			Tags:           append([]string(nil), s.tags...),
		}
		if s.minCGPA > 0 {
			v := s.minCGPA
			sch.MinCGPA = &v
		}
		sch.ID = ScholarshipID(sch.Title, sch.University)
		out = append(out, sch)
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
