package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxNameLength     = 60
	maxEmailLength    = 264
	minPasswordLength = 8

	passwordSpecials = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// PasswordHasher is the opaque credential capability used by UserService.
// The plaintext secret must not be recoverable from the hash.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
}

// UserService validates and orchestrates registration, authentication and
// profile management.
type UserService struct {
	users  UserRepository
	hasher PasswordHasher
}

// NewUserService constructs a UserService.
func NewUserService(users UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// Register creates a new account. The stored email is lowercased and the
// secret is kept only as a hash.
func (s *UserService) Register(ctx context.Context, name, email, secret string) (*User, error) {
	if name == "" || email == "" || secret == "" {
		return nil, validationError("name, email and password are required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, validationError("name must be at most 60 characters")
	}
	if utf8.RuneCountInString(email) > maxEmailLength {
		return nil, validationError("email must be at most 264 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, validationError("invalid email")
	}
	if err := validatePassword(secret); err != nil {
		return nil, err
	}

	normalized := strings.ToLower(email)
	existing, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, validationError("email already registered")
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// validatePassword applies the strength rules in fixed order; the first
// failing rule decides the message.
func validatePassword(secret string) error {
	if utf8.RuneCountInString(secret) < minPasswordLength {
		return validationError("password must be at least 8 characters")
	}
	if !strings.ContainsFunc(secret, unicode.IsUpper) {
		return validationError("password must contain an uppercase letter")
	}
	if !strings.ContainsFunc(secret, unicode.IsLower) {
		return validationError("password must contain a lowercase letter")
	}
	if !strings.ContainsFunc(secret, unicode.IsDigit) {
		return validationError("password must contain a digit")
	}
	if !strings.ContainsAny(secret, passwordSpecials) {
		return validationError("password must contain a special character")
	}
	return nil
}

// Login authenticates by email and secret. Unknown email and wrong secret
// produce the same error so callers cannot probe which one failed.
func (s *UserService) Login(ctx context.Context, email, secret string) (*User, error) {
	if email == "" || secret == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(secret, user.PasswordHash) {
		return nil, unauthorizedError("incorrect email or password")
	}
	return user, nil
}

// Profile fetches a user by ID.
func (s *UserService) Profile(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundError("user not found")
	}
	return user, nil
}

// UpdateProfile merges the present patch fields into the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch UserPatch) (*User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFoundError("user not found")
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		user.Age = patch.Age
	}
	if patch.WeightKg != nil {
		user.WeightKg = patch.WeightKg
	}
	if patch.HeightCm != nil {
		user.HeightCm = patch.HeightCm
	}

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}
