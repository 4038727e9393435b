package controllers

import (
	"errors"
	"net/http"

	"cutine-backend/models"
	"cutine-backend/store"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

// UpdateProfileInput replaces the whole profile.
type UpdateProfileInput struct {
	Nickname            string            `json:"nickname" binding:"required"`
	HairLength          models.HairLength `json:"hairLength" binding:"required,oneof=short medium long"`
	CutCycleDays        int               `json:"cutCycleDays" binding:"required,min=1"`
	NotificationEnabled bool              `json:"notificationEnabled"`
	NotificationDays    []int             `json:"notificationDays"`
	Phone               string            `json:"phone"`
}

type UpdateNotificationsInput struct {
	Enabled *bool `json:"enabled" binding:"required"`
	Days    []int `json:"days"`
}

type ProfileController struct {
	Profiles *store.ProfileStore
}

// respondProfileError maps store errors to status codes.
func respondProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidProfile):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNoProfile):
		utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save profile")
	}
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	profile, ok := pc.Profiles.Profile()
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	days := input.NotificationDays
	if days == nil {
		if current, ok := pc.Profiles.Profile(); ok {
			days = current.NotificationDays
		} else {
			days = models.DefaultNotificationDays
		}
	}

	profile, err := pc.Profiles.Save(c.Request.Context(), models.UserProfile{
		Nickname:            input.Nickname,
		HairLength:          input.HairLength,
		CutCycleDays:        input.CutCycleDays,
		NotificationEnabled: input.NotificationEnabled,
		NotificationDays:    days,
		Phone:               input.Phone,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateNotifications toggles reminders and optionally replaces the days
func (pc *ProfileController) UpdateNotifications(c *gin.Context) {
	var input UpdateNotificationsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	profile, err := pc.Profiles.UpdateNotifications(c.Request.Context(), *input.Enabled, input.Days)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
