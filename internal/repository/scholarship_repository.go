package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scholar-match/internal/database"
	"scholar-match/internal/domain/scholarship"

	"github.com/google/uuid"
)

const scholarshipColumns = `id, title, university, field_of_study, specialization, description, min_cgpa, level, deadline, is_active, tags, created_at`

type PostgresScholarshipRepository struct {
	db database.DB
}

func NewPostgresScholarshipRepository(db database.DB) *PostgresScholarshipRepository {
	return &PostgresScholarshipRepository{db: db}
}

func (r *PostgresScholarshipRepository) ListActive(ctx context.Context, f scholarship.CandidateFilter) ([]scholarship.Scholarship, error) {
	query, args := buildActiveQuery(f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]scholarship.Scholarship, 0)
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresScholarshipRepository) GetByID(ctx context.Context, id uuid.UUID) (scholarship.Scholarship, error) {
	row := r.db.QueryRow(ctx, `SELECT `+scholarshipColumns+` FROM scholarships WHERE id = $1`, id)
	s, err := scanScholarship(row)
	if err != nil {
		if isNoRows(err) {
			return scholarship.Scholarship{}, scholarship.ErrNotFound
		}
		return scholarship.Scholarship{}, err
	}
	return s, nil
}

func (r *PostgresScholarshipRepository) Upsert(ctx context.Context, s scholarship.Scholarship) error {
	if s.ID == uuid.Nil {
		return fmt.Errorf("upsert scholarship: empty id")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO scholarships (id, title, university, field_of_study, specialization, description, min_cgpa, level, deadline, is_active, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			university = EXCLUDED.university,
			field_of_study = EXCLUDED.field_of_study,
			specialization = EXCLUDED.specialization,
			description = EXCLUDED.description,
			min_cgpa = EXCLUDED.min_cgpa,
			level = EXCLUDED.level,
			deadline = EXCLUDED.deadline,
			is_active = EXCLUDED.is_active,
			tags = EXCLUDED.tags,
			updated_at = now()`,
		s.ID, s.Title, s.University, s.FieldOfStudy, s.Specialization, s.Description,
		s.MinCGPA, s.Level, s.Deadline, s.IsActive, nonNil(s.Tags),
	)
	return err
}

// normalizedLevel folds case and whitespace the same way the scorer does.
const normalizedLevel = `lower(regexp_replace(btrim(coalesce(level, '')), '\s+', ' ', 'g'))`

// buildActiveQuery keeps rows with a missing field or level when the
// corresponding prefilter is set, so they can still be scored.
func buildActiveQuery(f scholarship.CandidateFilter) (string, []any) {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + scholarshipColumns + ` FROM scholarships WHERE is_active = true AND deadline > $1`)
	args := []any{now}

	if p := strings.TrimSpace(f.FieldPattern); p != "" {
		args = append(args, p)
		n := len(args)
		fmt.Fprintf(&sb,
			` AND (coalesce(field_of_study, '') = '' OR field_of_study ~* $%d OR coalesce(specialization, '') ~* $%d)`,
			n, n,
		)
	}

	if len(f.Levels) > 0 {
		levels := make([]string, 0, len(f.Levels))
		for _, l := range f.Levels {
			if l = strings.Join(strings.Fields(strings.ToLower(l)), " "); l != "" {
				levels = append(levels, l)
			}
		}
		if len(levels) > 0 {
			args = append(args, levels)
			fmt.Fprintf(&sb, ` AND (%s = '' OR %s = ANY($%d))`, normalizedLevel, normalizedLevel, len(args))
		}
	}

	sb.WriteString(` ORDER BY deadline ASC, id ASC`)
	return sb.String(), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScholarship(row scanner) (scholarship.Scholarship, error) {
	var s scholarship.Scholarship
	err := row.Scan(
		&s.ID, &s.Title, &s.University, &s.FieldOfStudy, &s.Specialization, &s.Description,
		&s.MinCGPA, &s.Level, &s.Deadline, &s.IsActive, &s.Tags, &s.CreatedAt,
	)
	return s, err
}
