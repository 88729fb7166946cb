package memory

import (
	"context"

	"github.com/geocoder89/recipehub/internal/domain/user"
	"github.com/google/uuid"
)

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) Create(_ context.Context, fullName, email, passwordHash string) (user.User, error) {
	now := r.s.now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[u.Email]; taken {
		return user.User{}, user.ErrEmailTaken
	}

	r.s.users[u.ID] = u
	r.s.emails[u.Email] = u.ID

	return u, nil
}

func (r *UsersRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.s.users[id], nil
}

func (r *UsersRepo) Update(_ context.Context, id string, ch user.Changes) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if ch.Email != nil && *ch.Email != u.Email {
		if _, taken := r.s.emails[*ch.Email]; taken {
			return user.User{}, user.ErrEmailTaken
		}
		delete(r.s.emails, u.Email)
		u.Email = *ch.Email
		r.s.emails[u.Email] = u.ID
	}

	if ch.FullName != nil {
		u.FullName = *ch.FullName
	}

	if ch.PasswordHash != nil {
		u.PasswordHash = *ch.PasswordHash
	}

	u.UpdatedAt = r.s.now().UTC()
	r.s.users[id] = u

	return u, nil
}

// Delete removes the user and, like the ON DELETE CASCADE foreign key, every
// recipe they own.
func (r *UsersRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.ErrNotFound
	}

	delete(r.s.users, id)
	delete(r.s.emails, u.Email)

	for rid, rc := range r.s.recipes {
		if rc.OwnerID == id {
			delete(r.s.recipes, rid)
		}
	}

	return nil
}
