package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/pcrpg2df4s-blip/dietweb/services"

	"github.com/gin-gonic/gin"
)

type SyncController struct {
	foodLogs *services.FoodLogService
}

func NewSyncController(foodLogs *services.FoodLogService) *SyncController {
	return &SyncController{foodLogs: foodLogs}
}

type saveInput struct {
	Date string          `json:"date" binding:"required"`
	Food json.RawMessage `json:"food" binding:"required"`
}

// POST /sync/save
func (ctl *SyncController) Save(c *gin.Context) {
	var input saveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and food are required"})
		return
	}

	userID := c.GetInt64("userID")
	if err := ctl.foodLogs.Save(userID, input.Date, input.Food); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /sync/load
// With ?date= returns that single day (food is null when nothing was
// logged); without it returns the whole history keyed by date.
func (ctl *SyncController) Load(c *gin.Context) {
	userID := c.GetInt64("userID")

	if date := c.Query("date"); date != "" {
		food, found, err := ctl.foodLogs.Get(userID, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusOK, gin.H{"date": date, "food": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "food": food})
		return
	}

	logs, err := ctl.foodLogs.GetAll(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	entries := make(map[string]json.RawMessage, len(logs))
	for _, l := range logs {
		entries[l.Date] = json.RawMessage(l.FoodJSON)
	}
	c.JSON(http.StatusOK, gin.H{"allEntries": entries})
}
