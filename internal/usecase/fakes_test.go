package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"scholar-match/internal/domain/profile"
	"scholar-match/internal/domain/scholarship"
	"scholar-match/internal/domain/user"

	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	m   map[uuid.UUID]profile.Profile
	err error
}

func (f fakeProfileRepo) GetByUserID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	if f.err != nil {
		return profile.Profile{}, f.err
	}
	p, ok := f.m[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

type fakeScholarshipRepo struct {
	mu         sync.Mutex
	items      []scholarship.Scholarship
	err        error
	calls      int
	lastFilter scholarship.CandidateFilter
}

func (f *fakeScholarshipRepo) ListActive(_ context.Context, filter scholarship.CandidateFilter) ([]scholarship.Scholarship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return append([]scholarship.Scholarship(nil), f.items...), nil
}

func (f *fakeScholarshipRepo) GetByID(_ context.Context, id uuid.UUID) (scholarship.Scholarship, error) {
	if f.err != nil {
		return scholarship.Scholarship{}, f.err
	}
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return scholarship.Scholarship{}, scholarship.ErrNotFound
}

func (f *fakeScholarshipRepo) Upsert(context.Context, scholarship.Scholarship) error { return nil }

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	readErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return false, c.readErr
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]user.User
	failGet error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]user.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return errors.New("duplicate key")
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return user.User{}, r.failGet
	}
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}
