// controllers/records.go
package controllers

import (
	"net/http"
	"time"

	"cutine-backend/models"
	"cutine-backend/store"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

// AddRecordInput defines the expected JSON structure for recording a cut.
// An empty date means today.
type AddRecordInput struct {
	Date      string   `json:"date"`
	Memo      *string  `json:"memo"`
	SalonName *string  `json:"salonName"`
	Cost      *float64 `json:"cost" binding:"omitempty,min=0"`
}

type ReplaceLatestInput struct {
	Date string `json:"date" binding:"required"`
}

// UpdateRecordInput defines the expected JSON structure for editing a cut.
// An empty string clears the field.
type UpdateRecordInput struct {
	Memo      *string  `json:"memo"`
	SalonName *string  `json:"salonName"`
	Cost      *float64 `json:"cost" binding:"omitempty,min=0"`
}

type RecordController struct {
	Records *store.RecordStore
	Now     func() time.Time
}

func (rc *RecordController) today() time.Time {
	if rc.Now == nil {
		return time.Now()
	}
	return rc.Now()
}

// GetRecords returns the sorted history with its derived values
func (rc *RecordController) GetRecords(c *gin.Context) {
	c.JSON(http.StatusOK, rc.Records.Summary())
}

// AddRecord records a cut, merging into an existing record on the same date
func (rc *RecordController) AddRecord(c *gin.Context) {
	var input AddRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date := rc.today()
	if input.Date != "" {
		parsed, err := utils.ParseDate(input.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		date = parsed
	}

	record := rc.Records.AddRecord(c.Request.Context(), date, models.RecordFields{
		Memo:      input.Memo,
		SalonName: input.SalonName,
		Cost:      input.Cost,
	})
	c.JSON(http.StatusCreated, record)
}

// ReplaceLatestRecord moves the most recent cut to another date
func (rc *RecordController) ReplaceLatestRecord(c *gin.Context) {
	var input ReplaceLatestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	date, err := utils.ParseDate(input.Date)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	c.JSON(http.StatusOK, rc.Records.ReplaceLatestRecord(c.Request.Context(), date))
}

func (rc *RecordController) GetRecord(c *gin.Context) {
	record, ok := rc.Records.Record(c.Param("id"))
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
		return
	}
	c.JSON(http.StatusOK, record)
}

// UpdateRecord edits memo, salon name and cost of one record
func (rc *RecordController) UpdateRecord(c *gin.Context) {
	var input UpdateRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	record, ok := rc.Records.UpdateRecord(c.Request.Context(), c.Param("id"), models.RecordFields{
		Memo:      input.Memo,
		SalonName: input.SalonName,
		Cost:      input.Cost,
	})
	if !ok {
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
		return
	}
	c.JSON(http.StatusOK, record)
}

func (rc *RecordController) DeleteRecord(c *gin.Context) {
	if !rc.Records.RemoveRecord(c.Request.Context(), c.Param("id")) {
		utils.RespondWithError(c, http.StatusNotFound, "Record not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
