// Package memory provides in-memory repository adapters used by unit tests
// and local development.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/joaovictor915/FitTrack/internal/domain"
)

// UserRepository stores users in memory. It mirrors the persistence-boundary
// uniqueness guarantee on email.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewUserRepository constructs an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

// Save implements domain.UserRepository.
func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("email already exists")
		}
	}
	r.users[user.ID] = user
	return nil
}

// FindByID returns the user or (nil, nil) when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// FindByEmail returns the user with the exact (already lowercased) email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

// FindAll returns every user ordered by creation time.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Update overwrites the stored user.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	r.users[user.ID] = user
	return nil
}

// Delete removes the user. Owned activities are the caller's concern; the
// postgres adapter relies on the FK cascade instead.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// ActivityRepository stores activities in memory.
type ActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]domain.Activity
}

// NewActivityRepository constructs an empty ActivityRepository.
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{activities: make(map[string]domain.Activity)}
}

// Save implements domain.ActivityRepository.
func (r *ActivityRepository) Save(ctx context.Context, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activities[activity.ID] = activity
	return nil
}

// FindByID returns the activity or (nil, nil) when absent.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[id]
	if !ok {
		return nil, nil
	}
	return &activity, nil
}

// FindByUser pages the user's activities newest occurrence first.
func (r *ActivityRepository) FindByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Activity, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]domain.Activity, 0)
	for _, activity := range r.activities {
		if activity.UserID == userID {
			matches = append(matches, activity)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].OccurredAt.Equal(matches[j].OccurredAt) {
			return matches[i].OccurredAt.After(matches[j].OccurredAt)
		}
		return matches[i].ID > matches[j].ID
	})

	total := len(matches)
	start := (page - 1) * perPage
	if start >= total {
		return []domain.Activity{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	out := make([]domain.Activity, end-start)
	copy(out, matches[start:end])
	return out, total, nil
}

// FindAll returns every activity.
func (r *ActivityRepository) FindAll(ctx context.Context) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Activity, 0, len(r.activities))
	for _, activity := range r.activities {
		out = append(out, activity)
	}
	return out, nil
}

// Update overwrites the stored activity.
func (r *ActivityRepository) Update(ctx context.Context, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.activities[activity.ID]; !ok {
		return errors.New("activity not found")
	}
	r.activities[activity.ID] = activity
	return nil
}

// Delete removes the activity.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.activities, id)
	return nil
}
