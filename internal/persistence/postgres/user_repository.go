// Package postgres provides pgx-backed repository adapters.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaovictor915/FitTrack/internal/domain"
)

// UserRepository persists users in PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, age, weight_kg, height_cm, created_at`

// Save inserts a new user. The unique index on email enforces the
// registration conflict at the persistence boundary.
func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	const stmt = `INSERT INTO users (id, name, email, password_hash, age, weight_kg, height_cm, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.pool.Exec(ctx, stmt,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Age,
		user.WeightKg,
		user.HeightCm,
		user.CreatedAt,
	)
	return err
}

// FindByID retrieves a user by ID, returning (nil, nil) when absent.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// FindByEmail retrieves a user by (lowercased) email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindAll returns every user ordered by creation time.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Age, &user.WeightKg, &user.HeightCm, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update overwrites the mutable profile fields. Email and the credential hash
// are immutable after registration.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	const stmt = `UPDATE users SET name=$2, age=$3, weight_kg=$4, height_cm=$5 WHERE id=$1`

	_, err := r.pool.Exec(ctx, stmt, user.ID, user.Name, user.Age, user.WeightKg, user.HeightCm)
	return err
}

// Delete removes a user; owned activities go with it via the FK cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Age, &user.WeightKg, &user.HeightCm, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
