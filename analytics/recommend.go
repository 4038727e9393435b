package analytics

import (
	"fmt"

	"cutine-backend/models"
)

func Recommend(length models.HairLength) (models.HairCycleInfo, bool) {
	info, ok := models.HairCycles[length]
	return info, ok
}

// CycleRangeText renders the recommended range, e.g. "3~5 weeks (21~35 days)".
// Unknown lengths yield an empty string.
func CycleRangeText(length models.HairLength) string {
	info, ok := models.HairCycles[length]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d~%d weeks (%d~%d days)", info.MinWeeks, info.MaxWeeks, info.MinWeeks*7, info.MaxWeeks*7)
}
