package usecase

import (
	"context"
	"errors"
	"testing"

	"scholar-match/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentifier(t *testing.T) {
	for _, raw := range []string{"", "  ", "not-a-uuid", "00000000-0000-0000-0000-000000000000", "1234"} {
		_, err := ParseIdentifier(raw)
		assert.ErrorIs(t, err, ErrInvalidIdentifier, raw)
	}

	id := uuid.New()
	got, err := ParseIdentifier(" " + id.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestProfileExtractor_Extract(t *testing.T) {
	userID := uuid.New()
	e := NewProfileExtractor(fakeProfileRepo{m: map[uuid.UUID]profile.Profile{userID: testProfile(userID)}})

	got, err := e.Extract(context.Background(), userID.String())
	require.NoError(t, err)

	assert.Equal(t, "Bachelor's Degree", got.HighestEducation)
	assert.Equal(t, []string{"computer science"}, got.EducationFields)
	assert.True(t, got.Skills.Has("python"))
	assert.True(t, got.Interests.Has("ai"))
	assert.InDelta(t, 3.8, got.CGPA, 1e-9)
}

func TestProfileExtractor_Errors(t *testing.T) {
	ctx := context.Background()

	e := NewProfileExtractor(fakeProfileRepo{})
	_, err := e.Extract(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidIdentifier)

	_, err = e.Extract(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	cause := errors.New("timeout")
	e = NewProfileExtractor(fakeProfileRepo{err: cause})
	_, err = e.ExtractByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
}
