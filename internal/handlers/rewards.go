package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"rangers/internal/database"

	"github.com/gin-gonic/gin"
)

func handleListRewards(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	rewards, err := database.GetRewards(db, campaignID)
	if err != nil {
		respondError(c, "list rewards", err)
		return
	}

	c.JSON(http.StatusOK, rewards)
}

// handleAddReward accepts either card_id or card_name.
func handleAddReward(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		CardID   int    `json:"card_id"`
		CardName string `json:"card_name"`
		Quantity *int   `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
		return
	}

	cardID := req.CardID
	if cardID == 0 {
		name := strings.TrimSpace(req.CardName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "card_id or card_name is required"})
			return
		}
		card, err := database.GetCardByName(db, name)
		if err != nil {
			respondError(c, "add reward", err)
			return
		}
		cardID = card.ID
	}

	entry, err := database.AddReward(db, campaignID, cardID, quantity)
	if err != nil {
		respondError(c, "add reward", err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func handleRemoveReward(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rewardID, ok := paramID(c, "reward_id")
	if !ok {
		return
	}

	if err := database.RemoveReward(db, campaignID, rewardID); err != nil {
		respondError(c, "remove reward", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
