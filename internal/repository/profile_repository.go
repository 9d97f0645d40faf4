package repository

import (
	"context"
	"fmt"

	"scholar-match/internal/database"
	"scholar-match/internal/domain/profile"

	"github.com/google/uuid"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (profile.Profile, error) {
	var p profile.Profile
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, highest_education, skills, areas_of_interest, objective, created_at, updated_at
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.HighestEducation, &p.Skills, &p.AreasOfInterest, &p.Objective, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isNoRows(err) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, institution, degree, field_of_study, cgpa, start_date, end_date, currently_enrolled, position
		 FROM educations
		 WHERE profile_id = $1
		 ORDER BY position ASC, id ASC`,
		p.ID,
	)
	if err != nil {
		return profile.Profile{}, err
	}
	defer rows.Close()

	p.Educations = make([]profile.Education, 0)
	for rows.Next() {
		var e profile.Education
		if err := rows.Scan(&e.ID, &e.Institution, &e.Degree, &e.FieldOfStudy, &e.CGPA, &e.StartDate, &e.EndDate, &e.CurrentlyEnrolled, &e.Position); err != nil {
			return profile.Profile{}, err
		}
		p.Educations = append(p.Educations, e)
	}
	if err := rows.Err(); err != nil {
		return profile.Profile{}, err
	}

	return p, nil
}

// Save replaces the profile for p.UserID together with its education list.
func (r *PostgresProfileRepository) Save(ctx context.Context, p profile.Profile) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	skills := nonNil(p.Skills)
	interests := nonNil(p.AreasOfInterest)

	var id uuid.UUID
	row := tx.QueryRow(ctx,
		`INSERT INTO profiles (user_id, highest_education, skills, areas_of_interest, objective)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET
			highest_education = EXCLUDED.highest_education,
			skills = EXCLUDED.skills,
			areas_of_interest = EXCLUDED.areas_of_interest,
			objective = EXCLUDED.objective,
			updated_at = now()
		 RETURNING id`,
		p.UserID, p.HighestEducation, skills, interests, p.Objective,
	)
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("upsert profile: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM educations WHERE profile_id = $1`, id); err != nil {
		return uuid.Nil, fmt.Errorf("clear educations: %w", err)
	}

	for i, e := range p.Educations {
		_, err := tx.Exec(ctx,
			`INSERT INTO educations (profile_id, institution, degree, field_of_study, cgpa, start_date, end_date, currently_enrolled, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			id, e.Institution, e.Degree, e.FieldOfStudy, e.CGPA, e.StartDate, e.EndDate, e.CurrentlyEnrolled, i,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert education %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
