package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joaovictor915/FitTrack/internal/domain"
	"github.com/joaovictor915/FitTrack/internal/observability"
)

// ActivityRepository persists activities in PostgreSQL.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

const activityColumns = `id, user_id, activity_type, duration_min, distance_km, intensity, calories, notes, occurred_at, created_at`

// Save inserts a new activity.
func (r *ActivityRepository) Save(ctx context.Context, activity domain.Activity) error {
	const stmt = `INSERT INTO activities (id, user_id, activity_type, duration_min, distance_km, intensity, calories, notes, occurred_at, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.pool.Exec(ctx, stmt,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.DurationMin,
		activity.DistanceKm,
		string(activity.Intensity),
		activity.Calories,
		activity.Notes,
		activity.OccurredAt,
		activity.CreatedAt,
	)
	if err != nil {
		return err
	}
	observability.RecordActivityPersisted(activity.CreatedAt)
	return nil
}

// FindByID retrieves an activity by ID, returning (nil, nil) when absent.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities WHERE id=$1`

	activity, err := scanActivity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return activity, nil
}

// FindByUser returns one 1-indexed page of the user's activities ordered by
// occurrence time descending, plus the total match count.
func (r *ActivityRepository) FindByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Activity, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM activities WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `SELECT ` + activityColumns + ` FROM activities WHERE user_id=$1
        ORDER BY occurred_at DESC, id DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0, perPage)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, *activity)
	}
	return activities, total, rows.Err()
}

// FindAll returns every activity.
func (r *ActivityRepository) FindAll(ctx context.Context) ([]domain.Activity, error) {
	const query = `SELECT ` + activityColumns + ` FROM activities ORDER BY occurred_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *activity)
	}
	return activities, rows.Err()
}

// Update overwrites the mutable activity fields. Owner and timestamps are
// immutable.
func (r *ActivityRepository) Update(ctx context.Context, activity domain.Activity) error {
	const stmt = `UPDATE activities SET activity_type=$2, duration_min=$3, distance_km=$4, intensity=$5, calories=$6, notes=$7 WHERE id=$1`

	_, err := r.pool.Exec(ctx, stmt,
		activity.ID,
		activity.Type,
		activity.DurationMin,
		activity.DistanceKm,
		string(activity.Intensity),
		activity.Calories,
		activity.Notes,
	)
	return err
}

// Delete removes an activity.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activities WHERE id=$1`, id)
	return err
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var activity domain.Activity
	var intensity string
	err := row.Scan(
		&activity.ID,
		&activity.UserID,
		&activity.Type,
		&activity.DurationMin,
		&activity.DistanceKm,
		&intensity,
		&activity.Calories,
		&activity.Notes,
		&activity.OccurredAt,
		&activity.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	activity.Intensity = domain.Intensity(intensity)
	return &activity, nil
}
