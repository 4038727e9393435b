// controllers/data.go
package controllers

import (
	"net/http"

	"cutine-backend/services"
	"cutine-backend/store"

	"github.com/gin-gonic/gin"
)

type DataController struct {
	Records   *store.RecordStore
	Profiles  *store.ProfileStore
	Reminders *services.ReminderService
	Partners  *services.PartnerService
}

// ResetData wipes records, profile, reminder log and locally kept partner
// applications
func (dc *DataController) ResetData(c *gin.Context) {
	ctx := c.Request.Context()
	dc.Records.Clear(ctx)
	dc.Profiles.Clear(ctx)
	if dc.Reminders != nil {
		dc.Reminders.ClearHistory(ctx)
	}
	if dc.Partners != nil {
		dc.Partners.ClearLocal(ctx)
	}
	c.JSON(http.StatusOK, gin.H{"message": "All data cleared"})
}
