package controllers

import (
	"net/http"

	"cutine-backend/models"
	"cutine-backend/store"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

// OnboardingInput is the first-run form. CutCycleDays defaults to the
// recommended cycle for the hair length.
type OnboardingInput struct {
	Nickname            string            `json:"nickname" binding:"required"`
	HairLength          models.HairLength `json:"hairLength" binding:"required,oneof=short medium long"`
	CutCycleDays        int               `json:"cutCycleDays" binding:"omitempty,min=1"`
	LastCutDate         string            `json:"lastCutDate" binding:"required"`
	NotificationEnabled *bool             `json:"notificationEnabled"`
	NotificationDays    []int             `json:"notificationDays"`
	Phone               string            `json:"phone"`
}

type OnboardingController struct {
	Profiles *store.ProfileStore
	Records  *store.RecordStore
}

// Onboard saves the profile and records the last cut
func (oc *OnboardingController) Onboard(c *gin.Context) {
	var input OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	lastCut, err := utils.ParseDate(input.LastCutDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	cycle := input.CutCycleDays
	if cycle == 0 {
		cycle = models.HairCycles[input.HairLength].RecommendedDays
	}
	enabled := true
	if input.NotificationEnabled != nil {
		enabled = *input.NotificationEnabled
	}
	days := input.NotificationDays
	if days == nil {
		days = models.DefaultNotificationDays
	}

	profile, err := oc.Profiles.Save(c.Request.Context(), models.UserProfile{
		Nickname:            input.Nickname,
		HairLength:          input.HairLength,
		CutCycleDays:        cycle,
		NotificationEnabled: enabled,
		NotificationDays:    days,
		Phone:               input.Phone,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	record := oc.Records.AddRecord(c.Request.Context(), lastCut, models.RecordFields{})

	c.JSON(http.StatusCreated, gin.H{
		"profile": profile,
		"record":  record,
	})
}
