// controllers/tips.go
package controllers

import (
	"net/http"

	"cutine-backend/models"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetTips lists the haircare tips, optionally for one category
func GetTips(c *gin.Context) {
	category := models.TipCategory(c.Query("category"))
	if category == "" || category == "all" {
		c.JSON(http.StatusOK, models.Tips)
		return
	}

	known := false
	for _, cat := range models.TipCategories {
		if cat == category {
			known = true
			break
		}
	}
	if !known {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown tip category, expected dry, style or care")
		return
	}

	tips := []models.Tip{}
	for _, tip := range models.Tips {
		if tip.Category == category {
			tips = append(tips, tip)
		}
	}
	c.JSON(http.StatusOK, tips)
}
