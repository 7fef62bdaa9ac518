package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// statsPageSize is the page size used to fetch the full activity history when
// computing aggregates.
const statsPageSize = 1000

// CreateActivityInput carries the caller-supplied fields for a new activity.
type CreateActivityInput struct {
	Type        string
	DurationMin int
	DistanceKm  *float64
	Intensity   string
	Notes       string
	OccurredAt  time.Time
}

// ActivityService validates and orchestrates activity CRUD and aggregates.
type ActivityService struct {
	activities ActivityRepository
	users      UserRepository
}

// NewActivityService constructs an ActivityService.
func NewActivityService(activities ActivityRepository, users UserRepository) *ActivityService {
	return &ActivityService{activities: activities, users: users}
}

// Create validates the input, derives the calorie estimate from the owner's
// weight and persists the activity.
func (s *ActivityService) Create(ctx context.Context, userID string, input CreateActivityInput) (*Activity, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, notFoundError("user not found")
	}

	if !KnownActivityType(input.Type) {
		return nil, validationError(fmt.Sprintf("invalid activity type. valid types: %s", strings.Join(ActivityTypes(), ", ")))
	}
	if input.DurationMin <= 0 {
		return nil, validationError("duration must be greater than 0")
	}

	intensity := IntensityModerate
	if input.Intensity != "" {
		intensity = Intensity(input.Intensity)
		if !intensity.Valid() {
			return nil, validationError("invalid intensity")
		}
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	activity := Activity{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        input.Type,
		DurationMin: input.DurationMin,
		DistanceKm:  input.DistanceKm,
		Intensity:   intensity,
		Calories:    CalculateCalories(input.Type, input.DurationMin, intensity, weightOrDefault(owner)),
		Notes:       input.Notes,
		OccurredAt:  occurredAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activities.Save(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// Get fetches an activity scoped to its owner. A missing activity and one
// owned by somebody else are indistinguishable to the caller.
func (s *ActivityService) Get(ctx context.Context, activityID, userID string) (*Activity, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil || activity.UserID != userID {
		return nil, notFoundError("activity not found")
	}
	return activity, nil
}

// List returns one page of the owner's activities, newest occurrence first,
// along with the total count across all pages.
func (s *ActivityService) List(ctx context.Context, userID string, page, perPage int) ([]Activity, int, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if owner == nil {
		return nil, 0, notFoundError("user not found")
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return s.activities.FindByUser(ctx, userID, page, perPage)
}

// Update merges the present patch fields, recomputes calories against the
// owner's current weight and persists the result.
func (s *ActivityService) Update(ctx context.Context, activityID, userID string, patch ActivityPatch) (*Activity, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil || activity.UserID != userID {
		return nil, notFoundError("activity not found")
	}

	if patch.Type != nil {
		activity.Type = *patch.Type
	}
	if patch.DurationMin != nil {
		activity.DurationMin = *patch.DurationMin
	}
	if patch.DistanceKm != nil {
		activity.DistanceKm = patch.DistanceKm
	}
	if patch.Intensity != nil {
		activity.Intensity = Intensity(*patch.Intensity)
	}
	if patch.Notes != nil {
		activity.Notes = *patch.Notes
	}

	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	weight := DefaultWeightKg
	if owner != nil {
		weight = weightOrDefault(owner)
	}
	activity.Calories = CalculateCalories(activity.Type, activity.DurationMin, activity.Intensity, weight)

	if err := s.activities.Update(ctx, *activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Delete removes an activity after the ownership check.
func (s *ActivityService) Delete(ctx context.Context, activityID, userID string) error {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		return err
	}
	if activity == nil || activity.UserID != userID {
		return notFoundError("activity not found")
	}
	return s.activities.Delete(ctx, activityID)
}

// Stats aggregates over the owner's full activity history: totals, integer
// average, per-type histogram and the favorite type. Ties on the favorite are
// broken by the first type to reach the maximum count scanning oldest-first.
func (s *ActivityService) Stats(ctx context.Context, userID string) (*ActivityStats, error) {
	owner, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, notFoundError("user not found")
	}

	activities, _, err := s.activities.FindByUser(ctx, userID, 1, statsPageSize)
	if err != nil {
		return nil, err
	}

	stats := ActivityStats{TypeCounts: make(map[string]int)}
	var totalDistance float64
	bestCount := 0

	// FindByUser returns newest first; walk backwards for chronological order.
	for i := len(activities) - 1; i >= 0; i-- {
		a := activities[i]
		stats.TotalActivities++
		stats.TotalDurationMin += a.DurationMin
		stats.TotalCalories += a.Calories
		if a.DistanceKm != nil {
			totalDistance += *a.DistanceKm
		}
		stats.TypeCounts[a.Type]++
		if stats.TypeCounts[a.Type] > bestCount {
			bestCount = stats.TypeCounts[a.Type]
			stats.FavoriteType = a.Type
		}
	}

	stats.TotalDistanceKm = math.Round(totalDistance*100) / 100
	if stats.TotalActivities > 0 {
		stats.AverageCalories = stats.TotalCalories / stats.TotalActivities
	}
	return &stats, nil
}

func weightOrDefault(user *User) float64 {
	if user.WeightKg != nil && *user.WeightKg > 0 {
		return *user.WeightKg
	}
	return DefaultWeightKg
}
