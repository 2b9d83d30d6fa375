package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"rangers/internal/database"
	"rangers/internal/logger"

	"github.com/gin-gonic/gin"
)

func handleListMissions(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	missions, err := database.GetMissions(db, campaignID)
	if err != nil {
		respondError(c, "list missions", err)
		return
	}

	c.JSON(http.StatusOK, missions)
}

func handleCreateMission(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name         string `json:"name"`
		MaxProgress  int    `json:"max_progress"`
		DayStartedID *int   `json:"day_started_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mission name is required"})
		return
	}
	if len(name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mission name must be less than 100 characters"})
		return
	}

	mission, err := database.CreateMission(db, campaignID, name, req.MaxProgress, req.DayStartedID)
	if err != nil {
		respondError(c, "create mission", err)
		return
	}

	c.JSON(http.StatusCreated, mission)
}

func handleUpdateMission(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	missionID, ok := paramID(c, "mission_id")
	if !ok {
		return
	}

	var req struct {
		Progress       *int `json:"progress"`
		DayCompletedID *int `json:"day_completed_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	mission, err := database.UpdateMission(db, campaignID, missionID, req.Progress, req.DayCompletedID)
	if err != nil {
		respondError(c, "update mission", err)
		return
	}

	if req.DayCompletedID != nil {
		logger.Info("Mission completed", "campaign_id", campaignID, "mission_id", missionID, "day_id", *req.DayCompletedID)
	}
	c.JSON(http.StatusOK, mission)
}
