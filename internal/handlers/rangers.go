package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"rangers/internal/database"
	"rangers/internal/models"

	"github.com/gin-gonic/gin"
)

func handleListRangers(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	views, err := database.GetRangerViews(db, campaignID)
	if err != nil {
		respondError(c, "list rangers", err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func handleCreateRanger(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var sel models.RangerSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	sel.Name = strings.TrimSpace(sel.Name)
	sel.AspectCardName = strings.TrimSpace(sel.AspectCardName)

	ranger, err := database.CreateRanger(db, campaignID, sel)
	if err != nil {
		respondError(c, "create ranger", err)
		return
	}

	view, err := database.GetRangerView(db, campaignID, ranger.ID)
	if err != nil {
		respondError(c, "create ranger", err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func handleGetRanger(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rangerID, ok := paramID(c, "ranger_id")
	if !ok {
		return
	}

	view, err := database.GetRangerView(db, campaignID, rangerID)
	if err != nil {
		respondError(c, "get ranger", err)
		return
	}

	c.JSON(http.StatusOK, view)
}
