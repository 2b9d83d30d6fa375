package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"rangers/internal/config"
	"rangers/internal/database"
	"rangers/internal/logger"

	"github.com/gin-gonic/gin"
)

const maxCampaignDays = 365

func handleListCampaigns(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	campaigns, err := database.GetCampaigns(db)
	if err != nil {
		respondError(c, "list campaigns", err)
		return
	}

	c.JSON(http.StatusOK, campaigns)
}

func handleCreateCampaign(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	cfg := c.MustGet("config").(*config.Config)

	var req struct {
		Name string `json:"name"`
		Days int    `json:"days"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign name is required"})
		return
	}
	if len(name) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Campaign name must be less than 100 characters"})
		return
	}
	if req.Days < 1 || req.Days > maxCampaignDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Days must be between 1 and 365"})
		return
	}

	campaign, err := database.CreateCampaign(db, name, req.Days, cfg.MaxRangers)
	if err != nil {
		respondError(c, "create campaign", err)
		return
	}

	logger.Info("Campaign created", "campaign_id", campaign.ID, "days", req.Days)
	c.JSON(http.StatusCreated, campaign)
}

func handleGetCampaign(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	campaign, err := database.GetCampaign(db, campaignID)
	if err != nil {
		respondError(c, "get campaign", err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

func handleGetDay(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	dayID, ok := paramID(c, "day_id")
	if !ok {
		return
	}

	day, err := database.GetDay(db, campaignID, dayID)
	if err != nil {
		respondError(c, "get day", err)
		return
	}

	c.JSON(http.StatusOK, day)
}

func handleCloseDay(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	dayID, ok := paramID(c, "day_id")
	if !ok {
		return
	}

	var req struct {
		Location    string `json:"location"`
		PathTerrain string `json:"path_terrain"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	location := strings.TrimSpace(req.Location)
	pathTerrain := strings.TrimSpace(req.PathTerrain)
	if location == "" || pathTerrain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location and path terrain are required"})
		return
	}

	campaign, err := database.CloseDay(db, campaignID, dayID, location, pathTerrain)
	if err != nil {
		respondError(c, "close day", err)
		return
	}

	logger.Info("Day closed", "campaign_id", campaignID, "day_id", dayID, "campaign_status", campaign.Status)
	c.JSON(http.StatusOK, campaign)
}

func handleCampaignStats(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	stats, err := database.GetCampaignStats(db, campaignID)
	if err != nil {
		respondError(c, "get campaign stats", err)
		return
	}

	rangers, err := database.GetRangerTradeCounts(db, campaignID)
	if err != nil {
		respondError(c, "get campaign stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":   stats,
		"rangers": rangers,
	})
}
