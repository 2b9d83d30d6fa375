package handlers

import (
	"database/sql"
	"net/http"

	"rangers/internal/database"

	"github.com/gin-gonic/gin"
)

func handleListCards(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	cards, err := database.ListCards(db, c.Query("card_type"), c.Query("source_set"))
	if err != nil {
		respondError(c, "list cards", err)
		return
	}

	c.JSON(http.StatusOK, cards)
}
