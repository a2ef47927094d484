package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/orderly/orders-api/internal/core/domain"
	"github.com/orderly/orders-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	nextID    int64
	byID      map[int64]*domain.User
	createErr error
	// skipExistsCheck makes EmailExists always report false, simulating the
	// window between the probe and the insert of a concurrent registration.
	skipExistsCheck bool
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	if r.skipExistsCheck {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// Create mirrors the unique index on users.email.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return 0, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	clone := *user
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	return clone.ID, nil
}

// ---------------------------------------------------------------------------
// In-memory order repository
// ---------------------------------------------------------------------------

type stubOrderRepo struct {
	mu         sync.Mutex
	nextID     int64
	byID       map[int64]*domain.Order
	calls      int // number of repository calls, to assert validation happens first
	lastFilter ports.ListOrdersFilter
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[int64]*domain.Order)}
}

func (r *stubOrderRepo) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastFilter = f

	var matched []*domain.Order
	for _, o := range r.byID {
		if o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		clone := *o
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []*domain.Order{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id, userID int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	o, ok := r.byID[id]
	if !ok || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.nextID++
	clone := *o
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	return clone.ID, nil
}

func (r *stubOrderRepo) Update(_ context.Context, id, userID int64, c domain.OrderChanges) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	o, ok := r.byID[id]
	if !ok || o.UserID != userID {
		return false, nil
	}
	if c.Description != nil {
		o.Description = *c.Description
	}
	if c.Status != nil {
		o.Status = *c.Status
	}
	if c.Total != nil {
		o.Total = *c.Total
	}
	return true, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	o, ok := r.byID[id]
	if !ok || o.UserID != userID {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func ptr[T any](v T) *T { return &v }
