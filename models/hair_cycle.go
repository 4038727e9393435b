package models

// HairCycleInfo is the recommended haircut cycle for a hair length.
type HairCycleInfo struct {
	HairLength      HairLength `json:"hairLength"`
	Label           string     `json:"label"`
	Description     string     `json:"description"`
	RecommendedDays int        `json:"recommendedDays"`
	MinWeeks        int        `json:"minWeeks"`
	MaxWeeks        int        `json:"maxWeeks"`
	Tip             string     `json:"tip"`
}

var HairCycles = map[HairLength]HairCycleInfo{
	HairShort: {
		HairLength:      HairShort,
		Label:           "Short",
		Description:     "Above the ears",
		RecommendedDays: 28,
		MinWeeks:        3,
		MaxWeeks:        5,
		Tip:             "Short cuts show growth quickly. A trim every 3 to 5 weeks keeps the shape clean.",
	},
	HairMedium: {
		HairLength:      HairMedium,
		Label:           "Medium",
		Description:     "Between ears and chin",
		RecommendedDays: 49,
		MinWeeks:        6,
		MaxWeeks:        8,
		Tip:             "Medium length is all about keeping the style. Cut every 6 to 8 weeks to hold volume and line.",
	},
	HairLong: {
		HairLength:      HairLong,
		Label:           "Long",
		Description:     "Below the chin",
		RecommendedDays: 70,
		MinWeeks:        8,
		MaxWeeks:        12,
		Tip:             "Long hair splits at the ends easily. Tidy the ends every 8 to 12 weeks.",
	},
}
