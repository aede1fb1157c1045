package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	"github.com/Afzalsd/Ecom-SAAS/internal/repo/postgres"
	"github.com/google/uuid"
)

// UsersRepo is an in-memory credential store with the same contract as the
// postgres repo, including its sentinel errors. Used by tests and local dev.
type UsersRepo struct {
	mu      sync.RWMutex
	byID    map[string]user.User
	byEmail map[string]string // normalized email -> id
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byID:    make(map[string]user.User),
		byEmail: make(map[string]string),
	}
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return r.byID[id], nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return user.User{}, postgres.ErrUserNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(_ context.Context, email, passwordHash, name, role string) (user.User, error) {
	normalized := user.NormalizeEmail(email)
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[normalized]; exists {
		return user.User{}, postgres.ErrEmailTaken
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        normalized,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.byID[u.ID] = u
	r.byEmail[normalized] = u.ID

	return u, nil
}
