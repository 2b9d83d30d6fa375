package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"rangers/internal/database"

	"github.com/gin-gonic/gin"
)

const maxEventLength = 500

func handleListEvents(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	events, err := database.GetEvents(db, campaignID)
	if err != nil {
		respondError(c, "list events", err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func handleCreateEvent(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Text  string `json:"text"`
		DayID int    `json:"day_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event text is required"})
		return
	}
	if len(text) > maxEventLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event text must be less than 500 characters"})
		return
	}
	if req.DayID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day_id is required"})
		return
	}

	event, err := database.CreateEvent(db, campaignID, req.DayID, text)
	if err != nil {
		respondError(c, "create event", err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func handleDeleteEvent(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	eventID, ok := paramID(c, "event_id")
	if !ok {
		return
	}

	if err := database.DeleteEvent(db, campaignID, eventID); err != nil {
		respondError(c, "delete event", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
