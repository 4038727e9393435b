package controllers

import (
	"net/http"
	"time"

	"cutine-backend/analytics"
	"cutine-backend/models"
	"cutine-backend/store"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	Nickname         string                `json:"nickname"`
	HairLength       models.HairLength     `json:"hairLength"`
	CutCycleDays     int                   `json:"cutCycleDays"`
	TotalCuts        int                   `json:"totalCuts"`
	LastCutDate      *string               `json:"lastCutDate"`
	DaysSinceLastCut *int                  `json:"daysSinceLastCut"`
	NextCutDate      *string               `json:"nextCutDate"`
	NextCutLabel     string                `json:"nextCutLabel,omitempty"` // e.g. "Tomorrow", "3 days"
	Dday             *int                  `json:"dday"`
	Status           *analytics.DdayStatus `json:"status"`
	AverageCycle     *int                  `json:"averageCycle"`
	Recommendation   Recommendation        `json:"recommendation"`
	RecentCuts       []RecentCut           `json:"recentCuts"`
}

type Recommendation struct {
	models.HairCycleInfo
	RangeText string `json:"rangeText"`
}

type RecentCut struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	SalonName *string `json:"salonName,omitempty"`
	VisitDate string  `json:"visitDate"` // e.g. "Today", "12 days ago"
}

type DashboardController struct {
	Records  *store.RecordStore
	Profiles *store.ProfileStore
	Now      func() time.Time
}

func recommendationFor(length models.HairLength) Recommendation {
	info, _ := analytics.Recommend(length)
	return Recommendation{HairCycleInfo: info, RangeText: analytics.CycleRangeText(length)}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	profile, ok := dc.Profiles.Profile()
	if !ok {
		utils.RespondWithError(c, http.StatusConflict, "Profile not found, complete onboarding first")
		return
	}
	today := time.Now()
	if dc.Now != nil {
		today = dc.Now()
	}

	summary := dc.Records.Summary()
	overview := DashboardOverview{
		Nickname:       profile.Nickname,
		HairLength:     profile.HairLength,
		CutCycleDays:   profile.CutCycleDays,
		TotalCuts:      len(summary.Records),
		LastCutDate:    summary.LastCutDate,
		AverageCycle:   summary.AverageCycle,
		Recommendation: recommendationFor(profile.HairLength),
		RecentCuts:     []RecentCut{},
	}

	if summary.LastCutDate != nil {
		if lastCut, err := utils.ParseDate(*summary.LastCutDate); err == nil {
			since := analytics.DaysSinceLastCut(lastCut, today)
			dday := analytics.CalculateDday(lastCut, profile.CutCycleDays, today)
			status := analytics.GetDdayStatus(dday)
			next := utils.FormatDate(analytics.NextCutDate(lastCut, profile.CutCycleDays))

			overview.DaysSinceLastCut = &since
			overview.Dday = &dday
			overview.Status = &status
			overview.NextCutDate = &next
			overview.NextCutLabel = utils.RelativeDayLabel(dday)
		}
	}

	for _, r := range summary.Records {
		d, err := utils.ParseDate(r.Date)
		if err != nil {
			continue
		}
		overview.RecentCuts = append(overview.RecentCuts, RecentCut{
			ID:        r.ID,
			Date:      r.Date,
			SalonName: r.SalonName,
			VisitDate: utils.RelativeDayLabel(-utils.DaysBetween(d, today)),
		})
		if len(overview.RecentCuts) >= 3 {
			break
		}
	}

	c.JSON(http.StatusOK, overview)
}

// GetRecommendation returns the recommended cycle for one hair length
func GetRecommendation(c *gin.Context) {
	length := models.HairLength(c.Param("hairLength"))
	if _, ok := analytics.Recommend(length); !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown hair length, expected short, medium or long")
		return
	}
	c.JSON(http.StatusOK, recommendationFor(length))
}
