// Package score derives a provider's weighted fit score, type
// classification, and discount eligibility. Everything here is pure and
// deterministic: the same record and weights always produce the same score.
package score

import (
	"strings"

	"github.com/carescout/carescout/internal/model"
)

// Weight keys. The exported names double as the row labels on the
// exported weights sheet.
const (
	WeightMandarin       = "Mandarin"
	WeightMeals          = "Meals"
	WeightCurriculum     = "Curriculum"
	WeightStaffStability = "Staff Stability"
	WeightDiversity      = "Cultural Diversity"
	WeightDiscount       = "MSFT Discount"
)

// DefaultWeights returns the standard criterion weights.
func DefaultWeights() map[string]int {
	return map[string]int{
		WeightMandarin:       2,
		WeightMeals:          1,
		WeightCurriculum:     1,
		WeightStaffStability: 2,
		WeightDiversity:      1,
		WeightDiscount:       3,
	}
}

// Compute sums the weights whose predicate over the record holds. A
// missing weight key contributes zero, as does any field value outside
// the credited one.
func Compute(rec model.ExtractedRecord, discount string, weights map[string]int) int {
	total := 0
	if rec.Mandarin == "Yes" {
		total += weights[WeightMandarin]
	}
	if rec.MealsProvided == "Yes" {
		total += weights[WeightMeals]
	}
	if rec.Curriculum != "" {
		total += weights[WeightCurriculum]
	}
	if rec.StaffStability == "Yes" {
		total += weights[WeightStaffStability]
	}
	if rec.CulturalDiversity == "High" {
		total += weights[WeightDiversity]
	}
	if discount == "Yes" {
		total += weights[WeightDiscount]
	}
	return total
}

// centerMarkers and familyMarkers are checked in order; the first group
// with a hit decides the type.
var (
	centerMarkers = []string{"academy", "montessori", "center"}
	familyMarkers = []string{"family", "home"}
)

// ClassifyType derives a provider type from its name. A name carrying
// both kinds of marker classifies as a center ("Bright Montessori Family
// Center" is a center, not a family home).
func ClassifyType(name string) model.ProviderType {
	lower := strings.ToLower(name)
	for _, m := range centerMarkers {
		if strings.Contains(lower, m) {
			return model.TypeCenter
		}
	}
	for _, m := range familyMarkers {
		if strings.Contains(lower, m) {
			return model.TypeFamily
		}
	}
	return model.TypeUnknown
}

// CheckDiscount reports "Yes" when any allow-list entry is a
// case-insensitive substring of the provider name, "No" otherwise. An
// empty or missing allow-list always answers "No".
func CheckDiscount(name string, allowList []string) string {
	lower := strings.ToLower(name)
	for _, entry := range allowList {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(entry)) {
			return "Yes"
		}
	}
	return "No"
}

// TierLabel buckets a criterion weight for display on the exported
// weights sheet: 4 and up is High, 2 and up is Medium, the rest Low.
func TierLabel(score int) string {
	switch {
	case score >= 4:
		return "High"
	case score >= 2:
		return "Medium"
	default:
		return "Low"
	}
}
