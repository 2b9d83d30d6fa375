package database

import (
	"database/sql"
	"fmt"

	"rangers/internal/deck"
	"rangers/internal/models"
)

// CreateCampaign creates a campaign with dayCount days. Day 1 starts active.
func CreateCampaign(db *sql.DB, name string, dayCount, maxRangers int) (*models.Campaign, error) {
	if dayCount < 1 {
		return nil, fmt.Errorf("campaign needs at least one day, got %d", dayCount)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO campaigns (name, status, max_rangers) VALUES (?, ?, ?)`,
		name, models.CampaignActive, maxRangers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign ID: %w", err)
	}

	for n := 1; n <= dayCount; n++ {
		status := models.DayUpcoming
		if n == 1 {
			status = models.DayActive
		}
		_, err := tx.Exec(
			`INSERT INTO campaign_days (campaign_id, day_number, status) VALUES (?, ?, ?)`,
			id, n, status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create day %d: %w", n, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return GetCampaign(db, int(id))
}

func GetCampaigns(db *sql.DB) ([]models.Campaign, error) {
	query := `
		SELECT id, name, status, max_rangers, created_at
		FROM campaigns
		ORDER BY created_at DESC, id DESC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Status, &c.MaxRangers, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaigns: %w", err)
	}

	return campaigns, nil
}

// GetCampaign returns a campaign with its days.
func GetCampaign(db *sql.DB, campaignID int) (*models.Campaign, error) {
	return getCampaign(db, campaignID)
}

func getCampaign(q querier, campaignID int) (*models.Campaign, error) {
	c := &models.Campaign{}
	query := `
		SELECT id, name, status, max_rangers, created_at
		FROM campaigns
		WHERE id = ?
	`

	err := q.QueryRow(query, campaignID).Scan(&c.ID, &c.Name, &c.Status, &c.MaxRangers, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "campaign %d not found", campaignID)
		}
		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}

	days, err := getDays(q, campaignID)
	if err != nil {
		return nil, err
	}
	c.Days = days

	return c, nil
}

func getDays(q querier, campaignID int) ([]models.CampaignDay, error) {
	query := `
		SELECT ` + dayColumns + `
		FROM campaign_days
		WHERE campaign_id = ?
		ORDER BY day_number
	`

	rows, err := q.Query(query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	var days []models.CampaignDay
	for rows.Next() {
		var d models.CampaignDay
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DayNumber, &d.Status, &d.Location, &d.PathTerrain); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		days = append(days, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating days: %w", err)
	}

	return days, nil
}

const dayColumns = `id, campaign_id, day_number, status, COALESCE(location, ''), COALESCE(path_terrain, '')`

// GetDay returns a day of the campaign.
func GetDay(db *sql.DB, campaignID, dayID int) (*models.CampaignDay, error) {
	return getDay(db, campaignID, dayID)
}

// getDay returns a day only if it belongs to campaignID.
func getDay(q querier, campaignID, dayID int) (*models.CampaignDay, error) {
	d := &models.CampaignDay{}
	query := `
		SELECT ` + dayColumns + `
		FROM campaign_days
		WHERE id = ? AND campaign_id = ?
	`

	err := q.QueryRow(query, dayID, campaignID).Scan(&d.ID, &d.CampaignID, &d.DayNumber, &d.Status, &d.Location, &d.PathTerrain)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "day %d not found in campaign %d", dayID, campaignID)
		}
		return nil, fmt.Errorf("failed to query day: %w", err)
	}
	return d, nil
}

// CloseDay completes the active day and activates the next one, recording
// where the rangers are heading on it. Closing the last day completes the
// campaign and the destination is discarded.
func CloseDay(db *sql.DB, campaignID, dayID int, location, pathTerrain string) (*models.Campaign, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	day, err := getDay(tx, campaignID, dayID)
	if err != nil {
		return nil, err
	}
	if day.Status != models.DayActive {
		return nil, deck.Errorf(deck.ErrDayNotActive, "day %d is not active (current status: %s)", day.DayNumber, day.Status)
	}

	if _, err := tx.Exec(`UPDATE campaign_days SET status = ? WHERE id = ?`, models.DayCompleted, day.ID); err != nil {
		return nil, fmt.Errorf("failed to close day: %w", err)
	}

	var nextID int
	err = tx.QueryRow(`
		SELECT id FROM campaign_days
		WHERE campaign_id = ? AND day_number > ? AND status = ?
		ORDER BY day_number
		LIMIT 1
	`, campaignID, day.DayNumber, models.DayUpcoming).Scan(&nextID)

	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(`UPDATE campaigns SET status = ? WHERE id = ?`, models.CampaignCompleted, campaignID); err != nil {
			return nil, fmt.Errorf("failed to complete campaign: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query next day: %w", err)
	default:
		_, err := tx.Exec(
			`UPDATE campaign_days SET status = ?, location = ?, path_terrain = ? WHERE id = ?`,
			models.DayActive, location, pathTerrain, nextID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to activate next day: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return GetCampaign(db, campaignID)
}
