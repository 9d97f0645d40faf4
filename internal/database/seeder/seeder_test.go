package seeder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"scholar-match/internal/database"
	"scholar-match/internal/domain/profile"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memWriter struct {
	items map[uuid.UUID]scholarship.Scholarship
	err   error
}

func (w *memWriter) Upsert(_ context.Context, s scholarship.Scholarship) error {
	if w.err != nil {
		return w.err
	}
	if w.items == nil {
		w.items = map[uuid.UUID]scholarship.Scholarship{}
	}
	w.items[s.ID] = s
	return nil
}

type memUsers struct {
	byEmail map[string]user.User
}

func (m *memUsers) EnsureUser(_ context.Context, u user.User) (uuid.UUID, error) {
	if m.byEmail == nil {
		m.byEmail = map[string]user.User{}
	}
	if existing, ok := m.byEmail[u.Email]; ok {
		return existing.ID, nil
	}
	m.byEmail[u.Email] = u
	return u.ID, nil
}

type memProfiles struct {
	saved []profile.Profile
}

func (m *memProfiles) Save(_ context.Context, p profile.Profile) (uuid.UUID, error) {
	m.saved = append(m.saved, p)
	return uuid.New(), nil
}

func TestParseImport_Valid(t *testing.T) {
	doc := `[
	  {"title": " AI Scholars ", "university": "Northbridge", "field_of_study": "Computer Science",
	   "min_cgpa": 3.2, "level": "Master", "deadline": "2027-03-01", "tags": ["ai"]},
	  {"id": "6f1c1b7e-6b43-4f3e-9a55-3f1f9b6f2c10", "title": "Closed", "deadline": "2027-01-01T12:00:00Z", "is_active": false}
	]`

	items, err := ParseImport([]byte(doc))
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "AI Scholars", first.Title)
	assert.True(t, first.IsActive)
	assert.Equal(t, ScholarshipID("AI Scholars", first.University), first.ID)
	assert.Equal(t, time.Date(2027, 3, 1, 23, 59, 59, 0, time.UTC), first.Deadline)
	require.NotNil(t, first.MinCGPA)
	assert.Equal(t, 3.2, *first.MinCGPA)

	second := items[1]
	assert.Equal(t, uuid.MustParse("6f1c1b7e-6b43-4f3e-9a55-3f1f9b6f2c10"), second.ID)
	assert.False(t, second.IsActive)
	assert.Nil(t, second.University)
}

func TestParseImport_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"not an array":    `{"title": "x", "deadline": "2027-01-01"}`,
		"missing title":   `[{"deadline": "2027-01-01"}]`,
		"cgpa too high":   `[{"title": "x", "deadline": "2027-01-01", "min_cgpa": 4.5}]`,
		"unknown field":   `[{"title": "x", "deadline": "2027-01-01", "amount": 100}]`,
		"bad id":          `[{"id": "nope", "title": "x", "deadline": "2027-01-01"}]`,
		"bad deadline":    `[{"title": "x", "deadline": "next tuesday"}]`,
		"malformed json":  `[{"title": `,
		"tags not string": `[{"title": "x", "deadline": "2027-01-01", "tags": [1]}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseImport([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}

func TestImporter_IdempotentIDs(t *testing.T) {
	w := &memWriter{}
	imp := Importer{Writer: w}
	doc := `[{"title": "Repeat Award", "university": "Eastfield", "deadline": "2027-05-05"}]`

	n, err := imp.Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = imp.Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, w.items, 1)
}

func TestImporter_NothingWrittenOnInvalidInput(t *testing.T) {
	w := &memWriter{}
	_, err := Importer{Writer: w}.Import(context.Background(), strings.NewReader(`[{"title": "ok", "deadline": "2027-01-01"}, {"title": ""}]`))
	require.ErrorIs(t, err, ErrInvalidImport)
	assert.Empty(t, w.items)
}

func TestImporter_WriterError(t *testing.T) {
	w := &memWriter{err: errors.New("db down")}
	_, err := Importer{Writer: w}.Import(context.Background(), strings.NewReader(`[{"title": "ok", "deadline": "2027-01-01"}]`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidImport)
}

func TestSampleScholarships(t *testing.T) {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	items := SampleScholarships(now)
	require.NotEmpty(t, items)

	seen := map[uuid.UUID]bool{}
	var eligible, ineligible int
	for _, s := range items {
		assert.False(t, seen[s.ID], "duplicate id for %s", s.Title)
		seen[s.ID] = true
		if s.Eligible(now) {
			eligible++
		} else {
			ineligible++
		}
	}
	assert.Equal(t, 2, ineligible)
	assert.Greater(t, eligible, 3)

	again := SampleScholarships(now)
	assert.Equal(t, items[0].ID, again[0].ID)
}

func TestDemoSeeder_Seed(t *testing.T) {
	users := &memUsers{}
	profiles := &memProfiles{}
	s := DemoSeeder{Email: " Demo@Example.com ", Password: "pass-word-1"}

	id, err := s.seed(context.Background(), users, profiles)
	require.NoError(t, err)

	u, ok := users.byEmail["demo@example.com"]
	require.True(t, ok)
	assert.Equal(t, id, u.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pass-word-1")))

	again, err := s.seed(context.Background(), users, profiles)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	require.Len(t, profiles.saved, 2)
	assert.Equal(t, id, profiles.saved[0].UserID)
	assert.NotEmpty(t, profiles.saved[0].Educations)
}

type nopDB struct{ database.DB }

type recordingSeeder struct {
	name  string
	err   error
	calls *[]string
}

func (s recordingSeeder) Name() string { return s.name }

func (s recordingSeeder) Run(context.Context, database.DB) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

func TestRunner(t *testing.T) {
	var calls []string
	r := Runner{Seeders: []Seeder{
		recordingSeeder{name: "a", calls: &calls},
		nil,
		recordingSeeder{name: "b", err: errors.New("boom"), calls: &calls},
		recordingSeeder{name: "c", calls: &calls},
	}}

	err := r.Run(context.Background(), nopDB{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed b")
	assert.Equal(t, []string{"a", "b"}, calls)

	assert.Error(t, Runner{}.Run(context.Background(), nil))
}
