package domain

import (
	"context"
	"time"
)

// Intensity is the qualitative exertion level of an activity.
type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

// Valid reports whether the intensity is one of the known levels.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityModerate, IntensityHigh:
		return true
	}
	return false
}

// Activity is a logged exercise session owned by a single user.
type Activity struct {
	ID          string
	UserID      string
	Type        string
	DurationMin int
	DistanceKm  *float64
	Intensity   Intensity
	Calories    int
	Notes       string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// ActivityPatch describes a partial activity update. Nil fields are left
// unchanged.
type ActivityPatch struct {
	Type        *string
	DurationMin *int
	DistanceKm  *float64
	Intensity   *string
	Notes       *string
}

// ActivityStats is the on-demand aggregate over all of a user's activities.
// It is derived, never persisted.
type ActivityStats struct {
	TotalActivities  int
	TotalDurationMin int
	TotalDistanceKm  float64
	TotalCalories    int
	AverageCalories  int
	FavoriteType     string
	TypeCounts       map[string]int
}

// ActivityRepository captures persistence operations for activities.
// FindByUser pages 1-indexed, ordered by occurrence time descending, and
// returns the total match count irrespective of the page.
type ActivityRepository interface {
	Save(ctx context.Context, activity Activity) error
	FindByID(ctx context.Context, id string) (*Activity, error)
	FindByUser(ctx context.Context, userID string, page, perPage int) ([]Activity, int, error)
	FindAll(ctx context.Context) ([]Activity, error)
	Update(ctx context.Context, activity Activity) error
	Delete(ctx context.Context, id string) error
}
