package controllers

import (
	"errors"
	"net/http"

	"cutine-backend/services"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

type PartnerController struct {
	Partners *services.PartnerService
}

// SubmitApplication accepts a salon partner application
func (pc *PartnerController) SubmitApplication(c *gin.Context) {
	var input services.PartnerForm
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	id, err := pc.Partners.Submit(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidApplication) {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to submit application")
		return
	}

	storedIn := "remote"
	if services.IsLocalID(id) {
		storedIn = "local"
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "storage": storedIn})
}

// GetLocalApplications lists applications kept on this device
func (pc *PartnerController) GetLocalApplications(c *gin.Context) {
	c.JSON(http.StatusOK, pc.Partners.Local(c.Request.Context()))
}
