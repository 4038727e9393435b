// controllers/reminder.go
package controllers

import (
	"net/http"

	"cutine-backend/services"

	"github.com/gin-gonic/gin"
)

type ReminderController struct {
	Reminders *services.ReminderService
}

// GetReminderLogs lists reminder attempts, newest first
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	c.JSON(http.StatusOK, rc.Reminders.History(c.Request.Context()))
}

// RunReminders performs today's reminder check immediately
func (rc *ReminderController) RunReminders(c *gin.Context) {
	entry, sent := rc.Reminders.RunDaily(c.Request.Context(), rc.Reminders.Today())
	if !sent {
		c.JSON(http.StatusOK, gin.H{"sent": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "reminder": entry})
}
