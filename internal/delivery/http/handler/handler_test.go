package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scholar-match/internal/delivery/http/middleware"
	"scholar-match/internal/domain/matching"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/domain/user"
	"scholar-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Count    int  `json:"count"`
		Limit    int  `json:"limit"`
		MinScore *int `json:"min_score"`
		Cached   bool `json:"cached"`
	} `json:"meta"`
}

type fakeRecommendations struct {
	result    usecase.RecommendationResult
	match     matching.Match
	err       error
	gotUser   uuid.UUID
	gotParams usecase.RecommendationParams
}

func (f *fakeRecommendations) GetRecommendations(_ context.Context, userID uuid.UUID, p usecase.RecommendationParams) (usecase.RecommendationResult, error) {
	f.gotUser = userID
	f.gotParams = p
	return f.result, f.err
}

func (f *fakeRecommendations) MatchScholarship(_ context.Context, userID, _ uuid.UUID) (matching.Match, error) {
	f.gotUser = userID
	return f.match, f.err
}

type fakeAuth struct {
	usr    user.User
	tokens usecase.TokenPair
	err    error
	gotTok string
}

func (f *fakeAuth) Register(context.Context, usecase.Credentials) (user.User, usecase.TokenPair, error) {
	return f.usr, f.tokens, f.err
}

func (f *fakeAuth) Login(context.Context, usecase.Credentials) (user.User, usecase.TokenPair, error) {
	return f.usr, f.tokens, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, tok string) (usecase.TokenPair, error) {
	f.gotTok = tok
	return f.tokens, f.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// asUser stands in for the JWT middleware.
func asUser(c fiber.Ctx) error {
	if raw := c.Get("X-Test-User"); raw != "" {
		c.Locals(middleware.CtxUserIDKey, uuid.MustParse(raw))
	}
	return c.Next()
}

func newTestApp(rec usecase.RecommendationUsecase, auth usecase.AuthUsecase, db Pinger) *fiber.App {
	app := fiber.New(fiber.Config{StructValidator: middleware.NewStructValidator()})
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())

	NewHealthHandler(db).RegisterRoutes(app)
	v1 := app.Group("/api/v1")
	NewAuthHandler(auth).RegisterRoutes(v1.Group("/auth"))
	NewRecommendationHandler(rec).RegisterRoutes(v1.Group("", asUser))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, semanticResponse) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var sr semanticResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	return resp.StatusCode, sr
}

func sampleMatch() matching.Match {
	return matching.Match{
		Scholarship:   scholarship.Scholarship{ID: uuid.New(), Title: "STEM Award", Deadline: time.Now().Add(72 * time.Hour), IsActive: true},
		MatchScore:    73,
		MatchReasons:  []string{"Exact field of study match"},
		Breakdown:     matching.Breakdown{Education: 20, CGPA: 20, Field: 25, Interests: 5, Skills: 3},
		DaysRemaining: 3,
	}
}

func TestRecommendations_Mine(t *testing.T) {
	uid := uuid.New()
	rec := &fakeRecommendations{result: usecase.RecommendationResult{Items: []matching.Match{sampleMatch()}, Limit: 5, MinScore: 40}}
	app := newTestApp(rec, &fakeAuth{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?limit=5&min_score=40", nil)
	req.Header.Set("X-Test-User", uid.String())
	status, sr := do(t, app, req)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uid, rec.gotUser)
	assert.Equal(t, 5, rec.gotParams.Limit)
	require.NotNil(t, rec.gotParams.MinScore)
	assert.Equal(t, 40, *rec.gotParams.MinScore)

	require.NotNil(t, sr.Meta)
	assert.Equal(t, 1, sr.Meta.Count)
	assert.Equal(t, 40, *sr.Meta.MinScore)

	var items []map[string]any
	require.NoError(t, json.Unmarshal(sr.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(73), items[0]["match_score"])
	assert.Equal(t, "73%", items[0]["match_percentage"])
}

func TestRecommendations_DefaultsLeaveParamsUnset(t *testing.T) {
	rec := &fakeRecommendations{result: usecase.RecommendationResult{Items: []matching.Match{sampleMatch()}, Limit: 15, MinScore: 30}}
	app := newTestApp(rec, &fakeAuth{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	req.Header.Set("X-Test-User", uuid.NewString())
	status, _ := do(t, app, req)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, rec.gotParams.Limit)
	assert.Nil(t, rec.gotParams.MinScore)
}

func TestRecommendations_BadQuery(t *testing.T) {
	app := newTestApp(&fakeRecommendations{}, &fakeAuth{}, nil)

	for _, q := range []string{"limit=abc", "limit=-1", "min_score=101", "min_score=-5", "min_score=x"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?"+q, nil)
		req.Header.Set("X-Test-User", uuid.NewString())
		status, _ := do(t, app, req)
		assert.Equal(t, http.StatusBadRequest, status, q)
	}
}

func TestRecommendations_Unauthenticated(t *testing.T) {
	app := newTestApp(&fakeRecommendations{}, &fakeAuth{}, nil)
	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRecommendations_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{usecase.ErrProfileNotFound, http.StatusNotFound},
		{usecase.ErrNoMatches, http.StatusNotFound},
		{usecase.ErrInvalidIdentifier, http.StatusBadRequest},
		{usecase.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newTestApp(&fakeRecommendations{err: tc.err}, &fakeAuth{}, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
		req.Header.Set("X-Test-User", uuid.NewString())
		status, _ := do(t, app, req)
		assert.Equal(t, tc.want, status, tc.err.Error())
	}
}

func TestRecommendations_ForUser(t *testing.T) {
	uid := uuid.New()
	rec := &fakeRecommendations{result: usecase.RecommendationResult{Items: []matching.Match{sampleMatch()}, Limit: 15, MinScore: 30}}
	app := newTestApp(rec, &fakeAuth{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uid.String()+"/recommendations", nil)
	req.Header.Set("X-Test-User", uid.String())
	status, _ := do(t, app, req)
	assert.Equal(t, http.StatusOK, status)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/"+uuid.NewString()+"/recommendations", nil)
	req.Header.Set("X-Test-User", uid.String())
	status, _ = do(t, app, req)
	assert.Equal(t, http.StatusForbidden, status)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid/recommendations", nil)
	req.Header.Set("X-Test-User", uid.String())
	status, _ = do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMatchScholarship(t *testing.T) {
	m := sampleMatch()
	app := newTestApp(&fakeRecommendations{match: m}, &fakeAuth{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scholarships/"+m.Scholarship.ID.String()+"/match", nil)
	req.Header.Set("X-Test-User", uuid.NewString())
	status, sr := do(t, app, req)
	require.Equal(t, http.StatusOK, status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(sr.Data, &body))
	assert.Equal(t, float64(25), body["breakdown"].(map[string]any)["field"])

	app = newTestApp(&fakeRecommendations{err: usecase.ErrScholarshipNotFound}, &fakeAuth{}, nil)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/scholarships/"+uuid.NewString()+"/match", nil)
	req.Header.Set("X-Test-User", uuid.NewString())
	status, _ = do(t, app, req)
	assert.Equal(t, http.StatusNotFound, status)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/scholarships/123/match", nil)
	req.Header.Set("X-Test-User", uuid.NewString())
	status, _ = do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, status)
}

func postJSON(path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuth_Register(t *testing.T) {
	auth := &fakeAuth{
		usr:    user.User{ID: uuid.New(), Email: "a@example.com"},
		tokens: usecase.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
	}
	app := newTestApp(&fakeRecommendations{}, auth, nil)

	status, sr := do(t, app, postJSON("/api/v1/auth/register", map[string]string{"email": "a@example.com", "password": "secret-pass"}))
	require.Equal(t, http.StatusCreated, status)

	var body map[string]any
	require.NoError(t, json.Unmarshal(sr.Data, &body))
	assert.Equal(t, "acc", body["access_token"])
	assert.Equal(t, "a@example.com", body["user"].(map[string]any)["email"])
}

func TestAuth_ValidationRejectsBadBody(t *testing.T) {
	app := newTestApp(&fakeRecommendations{}, &fakeAuth{}, nil)

	status, _ := do(t, app, postJSON("/api/v1/auth/register", map[string]string{"email": "nope", "password": "secret-pass"}))
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, postJSON("/api/v1/auth/login", map[string]string{"email": "a@example.com", "password": "short"}))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuth_ErrorMapping(t *testing.T) {
	app := newTestApp(&fakeRecommendations{}, &fakeAuth{err: usecase.ErrEmailAlreadyRegistered}, nil)
	status, _ := do(t, app, postJSON("/api/v1/auth/register", map[string]string{"email": "a@example.com", "password": "secret-pass"}))
	assert.Equal(t, http.StatusConflict, status)

	app = newTestApp(&fakeRecommendations{}, &fakeAuth{err: usecase.ErrInvalidCredentials}, nil)
	status, _ = do(t, app, postJSON("/api/v1/auth/login", map[string]string{"email": "a@example.com", "password": "secret-pass"}))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_Refresh(t *testing.T) {
	auth := &fakeAuth{tokens: usecase.TokenPair{AccessToken: "acc2", RefreshToken: "ref2"}}
	app := newTestApp(&fakeRecommendations{}, auth, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer old-refresh")
	status, sr := do(t, app, req)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "old-refresh", auth.gotTok)

	var body map[string]any
	require.NoError(t, json.Unmarshal(sr.Data, &body))
	assert.Equal(t, "ref2", body["refresh_token"])

	status, _ = do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealth(t *testing.T) {
	status, sr := do(t, newTestApp(&fakeRecommendations{}, &fakeAuth{}, stubPinger{}), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"database":"up"}`, string(sr.Data))

	status, _ = do(t, newTestApp(&fakeRecommendations{}, &fakeAuth{}, stubPinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, sr = do(t, newTestApp(&fakeRecommendations{}, &fakeAuth{}, nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"database":"disabled"}`, string(sr.Data))
}
