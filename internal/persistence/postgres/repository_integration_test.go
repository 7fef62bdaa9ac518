//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/joaovictor915/FitTrack/internal/domain"
)

func TestRepositoriesAgainstPostgres(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("fittrack"),
		postgrescontainer.WithUsername("fittrack"),
		postgrescontainer.WithPassword("fittrack"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	users := NewUserRepository(pool)
	activities := NewActivityRepository(pool)

	weight := 82.5
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		WeightKg:     &weight,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, users.Save(ctx, user))

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, user.ID, stored.ID)
	require.NotNil(t, stored.WeightKg)
	require.Equal(t, 82.5, *stored.WeightKg)

	missing, err := users.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)

	dup := user
	dup.ID = uuid.NewString()
	require.Error(t, users.Save(ctx, dup), "unique index on email should reject the duplicate")

	base := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		activity := domain.Activity{
			ID:          uuid.NewString(),
			UserID:      user.ID,
			Type:        "running",
			DurationMin: 30 + i,
			Intensity:   domain.IntensityModerate,
			Calories:    360,
			OccurredAt:  base.Add(time.Duration(i) * time.Hour),
			CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, activities.Save(ctx, activity))
		ids = append(ids, activity.ID)
	}

	page, total, err := activities.FindByUser(ctx, user.ID, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 2)
	require.Equal(t, 32, page[0].DurationMin, "newest activity comes first")
	require.Equal(t, 31, page[1].DurationMin)

	page, total, err = activities.FindByUser(ctx, user.ID, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 1)
	require.Equal(t, 30, page[0].DurationMin)

	updated, err := activities.FindByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, updated)
	updated.DurationMin = 60
	updated.Calories = 720
	require.NoError(t, activities.Update(ctx, *updated))

	stored2, err := activities.FindByID(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, stored2)
	require.Equal(t, 60, stored2.DurationMin)
	require.Equal(t, 720, stored2.Calories)

	require.NoError(t, activities.Delete(ctx, ids[1]))
	gone, err := activities.FindByID(ctx, ids[1])
	require.NoError(t, err)
	require.Nil(t, gone)

	// Deleting the user cascades to the remaining activities.
	require.NoError(t, users.Delete(ctx, user.ID))
	_, total, err = activities.FindByUser(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	require.Zero(t, total)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
