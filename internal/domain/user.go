// Package domain defines the business logic for FitTrack.
package domain

import (
	"context"
	"time"
)

// User is the account entity. Optional biometrics are pointers so that an
// unset value is distinguishable from zero.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Age          *int
	WeightKg     *float64
	HeightCm     *int
	CreatedAt    time.Time
}

// UserPatch describes a partial profile update. A nil field means "leave
// unchanged"; it is never conflated with "set to zero".
type UserPatch struct {
	Name     *string
	Age      *int
	WeightKg *float64
	HeightCm *int
}

// UserRepository captures persistence operations for users. Adapters return
// (nil, nil) when a lookup finds nothing.
type UserRepository interface {
	Save(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id string) error
}
