package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"scholar-match/internal/domain/scholarship"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildActiveQuery_NoPrefilter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	q, args := buildActiveQuery(scholarship.CandidateFilter{Now: now})

	assert.Contains(t, q, "is_active = true AND deadline > $1")
	assert.NotContains(t, q, "~*")
	assert.NotContains(t, q, "ANY(")
	require.Len(t, args, 1)
	assert.Equal(t, now, args[0])
}

func TestBuildActiveQuery_WithPrefilter(t *testing.T) {
	q, args := buildActiveQuery(scholarship.CandidateFilter{
		Now:          time.Now(),
		FieldPattern: "computer science|physics",
		Levels:       []string{"Master", " ", "phd", "Master's"},
	})

	assert.Contains(t, q, "field_of_study ~* $2")
	assert.Contains(t, q, "coalesce(specialization, '') ~* $2")
	assert.Contains(t, q, normalizedLevel+" = ANY($3)")
	assert.True(t, strings.HasSuffix(q, "ORDER BY deadline ASC, id ASC"))
	require.Len(t, args, 3)
	assert.Equal(t, "computer science|physics", args[1])
	assert.Equal(t, []string{"master", "phd", "master's"}, args[2])
}

func TestBuildActiveQuery_LevelWhitespaceFolded(t *testing.T) {
	q, args := buildActiveQuery(scholarship.CandidateFilter{Levels: []string{"  Ph.D.  ", "Bachelor's\tDegree"}})

	assert.Contains(t, q, "regexp_replace(btrim(coalesce(level, '')), '\\s+', ' ', 'g')")
	require.Len(t, args, 2)
	assert.Equal(t, []string{"ph.d.", "bachelor's degree"}, args[1])
}

func TestBuildActiveQuery_BlankLevelsIgnored(t *testing.T) {
	q, args := buildActiveQuery(scholarship.CandidateFilter{Levels: []string{"", "  "}})

	assert.NotContains(t, q, "ANY(")
	assert.Len(t, args, 1)
}

var scholarshipCols = strings.Split(scholarshipColumns, ", ")

func TestScholarshipRepository_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresScholarshipRepository(db)

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM scholarships WHERE is_active = true AND deadline > $1")).
		WithArgs(now, "physics", []string{"master's", "masters"}).
		WillReturnRows(mock.NewRows(scholarshipCols).
			AddRow(first.String(), "Physics Fellowship", "Uni X", "Physics", nil, nil, 3.2, "Master's", now.Add(48*time.Hour), true, []string{"physics"}, now).
			AddRow(second.String(), "Open Grant", nil, nil, nil, "any field", nil, nil, now.Add(72*time.Hour), true, []string{}, now))

	got, err := repo.ListActive(context.Background(), scholarship.CandidateFilter{
		Now:          now,
		FieldPattern: "physics",
		Levels:       []string{"Master's", "Masters"},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, first, got[0].ID)
	assert.Equal(t, "Physics Fellowship", got[0].Title)
	require.NotNil(t, got[0].Level)
	assert.Equal(t, "Master's", *got[0].Level)
	require.NotNil(t, got[0].MinCGPA)
	assert.InDelta(t, 3.2, *got[0].MinCGPA, 1e-9)
	assert.Equal(t, []string{"physics"}, got[0].Tags)
	assert.True(t, got[0].Eligible(now))

	assert.Equal(t, second, got[1].ID)
	assert.Nil(t, got[1].FieldOfStudy)
	assert.Nil(t, got[1].Level)
	assert.Nil(t, got[1].MinCGPA)
	require.NotNil(t, got[1].Description)
	assert.Equal(t, "any field", *got[1].Description)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipRepository_ListActive_ScanError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresScholarshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scholarships")).
		WillReturnRows(mock.NewRows(scholarshipCols).
			AddRow("not-a-uuid", "Bad", nil, nil, nil, nil, nil, nil, time.Now(), true, []string{}, time.Now()))

	_, err := repo.ListActive(context.Background(), scholarship.CandidateFilter{Now: time.Now()})
	assert.Error(t, err)
}

func TestScholarshipRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresScholarshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scholarships WHERE id = $1")).
		WillReturnRows(mock.NewRows(scholarshipCols))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, scholarship.ErrNotFound)
}
