package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"rangers/internal/config"
	"rangers/internal/deck"
	"rangers/internal/logger"
	"rangers/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config) {
	r.Use(middleware.RequestID())
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.AddDBContext(db))
	r.Use(addConfigContext(cfg))

	r.GET("/healthz", handleHealth)

	api := r.Group("/api")
	{
		api.GET("/cards", handleListCards)
		api.GET("/campaigns", handleListCampaigns)
		api.GET("/campaigns/:id", handleGetCampaign)
		api.GET("/campaigns/:id/stats", handleCampaignStats)
		api.GET("/campaigns/:id/days/:day_id", handleGetDay)
		api.GET("/campaigns/:id/missions", handleListMissions)
		api.GET("/campaigns/:id/events", handleListEvents)
		api.GET("/campaigns/:id/rewards", handleListRewards)
		api.GET("/campaigns/:id/rangers", handleListRangers)
		api.GET("/campaigns/:id/rangers/:ranger_id", handleGetRanger)
		api.GET("/campaigns/:id/rangers/:ranger_id/trades", handleListTrades)
	}

	protected := r.Group("/api")
	protected.Use(middleware.BearerAuth(cfg))
	{
		protected.POST("/campaigns", handleCreateCampaign)
		protected.POST("/campaigns/:id/days/:day_id/close", handleCloseDay)
		protected.POST("/campaigns/:id/missions", handleCreateMission)
		protected.PATCH("/campaigns/:id/missions/:mission_id", handleUpdateMission)
		protected.POST("/campaigns/:id/events", handleCreateEvent)
		protected.DELETE("/campaigns/:id/events/:event_id", handleDeleteEvent)

		protected.POST("/campaigns/:id/rewards", handleAddReward)
		protected.DELETE("/campaigns/:id/rewards/:reward_id", handleRemoveReward)

		protected.POST("/campaigns/:id/rangers", handleCreateRanger)

		protected.POST("/campaigns/:id/rangers/:ranger_id/trades", handleCreateTrade)
		protected.POST("/campaigns/:id/rangers/:ranger_id/trades/:trade_id/revert", handleRevertTrade)
	}
}

func addConfigContext(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	}
}

func handleHealth(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	if err := db.PingContext(c.Request.Context()); err != nil {
		logger.Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError writes a domain failure with its status and code. Anything
// else is logged and reported as a generic 500.
func respondError(c *gin.Context, action string, err error) {
	var de *deck.Error
	if errors.As(err, &de) {
		if de.HTTP >= http.StatusInternalServerError {
			logger.Error("Failed to "+action, "error", err, "request_id", c.GetString("request_id"))
		}
		c.JSON(de.HTTP, gin.H{"code": de.Code, "error": de.Message})
		return
	}

	logger.Error("Failed to "+action, "error", err, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
}

// paramID parses a positive integer path parameter. It writes the 400
// response itself and reports false when the value is invalid.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
