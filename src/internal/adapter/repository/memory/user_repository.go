package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()

	if _, exists := r.store.users[user.Username]; exists {
		return domain.User{}, errors.Wrapf(commons.ErrUserExists, "create user %s", user.Username)
	}

	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.Username] = user
	return user, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.store.usersMu.RLock()
	defer r.store.usersMu.RUnlock()

	user, ok := r.store.users[username]
	if !ok {
		return domain.User{}, commons.ErrRecordNotFound
	}
	return user, nil
}

func (r *UserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.store.usersMu.RLock()
	defer r.store.usersMu.RUnlock()

	_, ok := r.store.users[username]
	return ok, nil
}
