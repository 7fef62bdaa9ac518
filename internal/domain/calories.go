package domain

import (
	"math"
	"sort"
)

// DefaultWeightKg is the reference body weight the calorie table is calibrated
// against, and the fallback when a user has no weight recorded.
const DefaultWeightKg = 70.0

// calorieTable maps activity type to calories burned per minute at the
// reference weight, by intensity.
var calorieTable = map[string]map[Intensity]float64{
	"running":         {IntensityLow: 8, IntensityModerate: 12, IntensityHigh: 15},
	"walking":         {IntensityLow: 3.5, IntensityModerate: 5, IntensityHigh: 7},
	"cycling":         {IntensityLow: 6, IntensityModerate: 10, IntensityHigh: 14},
	"weight-training": {IntensityLow: 5, IntensityModerate: 8, IntensityHigh: 12},
	"swimming":        {IntensityLow: 7, IntensityModerate: 10, IntensityHigh: 14},
	"martial-arts":    {IntensityLow: 8, IntensityModerate: 12, IntensityHigh: 16},
	"yoga":            {IntensityLow: 2, IntensityModerate: 4, IntensityHigh: 6},
}

// KnownActivityType reports whether the type appears in the calorie table.
func KnownActivityType(activityType string) bool {
	_, ok := calorieTable[activityType]
	return ok
}

// ActivityTypes returns the known activity types in sorted order.
func ActivityTypes() []string {
	types := make([]string, 0, len(calorieTable))
	for t := range calorieTable {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CalculateCalories estimates calories burned, scaled linearly by body weight
// relative to the reference weight. Unknown types and non-positive durations
// yield 0; an unknown intensity falls back to the type's moderate rate.
func CalculateCalories(activityType string, durationMin int, intensity Intensity, weightKg float64) int {
	rates, ok := calorieTable[activityType]
	if !ok || durationMin <= 0 {
		return 0
	}

	rate, ok := rates[intensity]
	if !ok {
		rate = rates[IntensityModerate]
	}
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}

	return int(math.Round(rate * float64(durationMin) * weightKg / DefaultWeightKg))
}
