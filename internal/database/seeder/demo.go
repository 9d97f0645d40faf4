package seeder

import (
	"context"
	"fmt"
	"strings"

	"scholar-match/internal/database"
	"scholar-match/internal/domain/profile"
	"scholar-match/internal/domain/user"
	"scholar-match/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@scholar-match.local"
	DemoPassword = "demo-password"
)

// DemoSeeder creates a login-able user with a filled-in profile. Running it
// again keeps the user and rewrites the profile.
type DemoSeeder struct {
	Email    string
	Password string
}

func (DemoSeeder) Name() string { return "demo_user" }

func (s DemoSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "profiles",
		"id",
		"user_id",
		"highest_education",
		"skills",
		"areas_of_interest",
		"objective",
	); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "educations", "profile_id", "field_of_study", "cgpa", "position"); err != nil {
		return err
	}

	_, err := s.seed(ctx, repository.NewPostgresUserRepository(db), repository.NewPostgresProfileRepository(db))
	return err
}

func (s DemoSeeder) seed(ctx context.Context, users UserStore, profiles ProfileStore) (uuid.UUID, error) {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" {
		email = DemoEmail
	}
	password := s.Password
	if password == "" {
		password = DemoPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash demo password: %w", err)
	}

	userID, err := users.EnsureUser(ctx, user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)})
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure demo user: %w", err)
	}

	if _, err := profiles.Save(ctx, DemoProfile(userID)); err != nil {
		return uuid.Nil, fmt.Errorf("save demo profile: %w", err)
	}
	return userID, nil
}

func DemoProfile(userID uuid.UUID) profile.Profile {
	education := "Bachelor"
	objective := "Pursue graduate research in machine learning and data science"
	institution := "State University"
	degree := "BSc"
	field := "Computer Science"
	cgpa := 3.6

	return profile.Profile{
		UserID:           userID,
		HighestEducation: &education,
		Skills:           []string{"Go", "Python", "SQL", "Statistics"},
		AreasOfInterest:  []string{"Artificial Intelligence", "Data Science", "STEM"},
		Objective:        &objective,
		Educations: []profile.Education{{
			Institution:  &institution,
			Degree:       &degree,
			FieldOfStudy: &field,
			CGPA:         &cgpa,
		}},
	}
}
