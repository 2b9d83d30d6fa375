package handlers

import (
	"database/sql"
	"net/http"

	"rangers/internal/database"

	"github.com/gin-gonic/gin"
)

func handleListTrades(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rangerID, ok := paramID(c, "ranger_id")
	if !ok {
		return
	}

	if _, err := database.GetRanger(db, campaignID, rangerID); err != nil {
		respondError(c, "list trades", err)
		return
	}

	trades, err := database.GetTrades(db, rangerID)
	if err != nil {
		respondError(c, "list trades", err)
		return
	}

	c.JSON(http.StatusOK, trades)
}

func handleCreateTrade(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rangerID, ok := paramID(c, "ranger_id")
	if !ok {
		return
	}

	var req struct {
		DayID          int `json:"day_id"`
		OriginalCardID int `json:"original_card_id"`
		RewardCardID   int `json:"reward_card_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.DayID < 1 || req.OriginalCardID < 1 || req.RewardCardID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day_id, original_card_id and reward_card_id are required"})
		return
	}

	trade, err := database.CreateTrade(db, campaignID, rangerID, req.DayID, req.OriginalCardID, req.RewardCardID)
	if err != nil {
		respondError(c, "create trade", err)
		return
	}

	c.JSON(http.StatusCreated, trade)
}

func handleRevertTrade(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	campaignID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rangerID, ok := paramID(c, "ranger_id")
	if !ok {
		return
	}
	tradeID, ok := paramID(c, "trade_id")
	if !ok {
		return
	}

	trade, err := database.RevertTrade(db, campaignID, rangerID, tradeID)
	if err != nil {
		respondError(c, "revert trade", err)
		return
	}

	c.JSON(http.StatusOK, trade)
}
