package database

import (
	"database/sql"
	"fmt"

	"rangers/internal/deck"
	"rangers/internal/models"
)

// CreateEvent records a notable event on a day of the campaign.
func CreateEvent(db *sql.DB, campaignID, dayID int, text string) (*models.NotableEvent, error) {
	if _, err := getDay(db, campaignID, dayID); err != nil {
		return nil, err
	}

	result, err := db.Exec(
		`INSERT INTO notable_events (campaign_id, day_id, text) VALUES (?, ?, ?)`,
		campaignID, dayID, text,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get event ID: %w", err)
	}

	e := &models.NotableEvent{}
	err = db.QueryRow(
		`SELECT id, campaign_id, day_id, text, created_at FROM notable_events WHERE id = ?`, id,
	).Scan(&e.ID, &e.CampaignID, &e.DayID, &e.Text, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}

	return e, nil
}

// GetEvents lists the campaign's notable events in day order, oldest first
// within a day.
func GetEvents(db *sql.DB, campaignID int) ([]models.NotableEvent, error) {
	if _, err := getCampaign(db, campaignID); err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.campaign_id, e.day_id, e.text, e.created_at
		FROM notable_events e
		JOIN campaign_days d ON d.id = e.day_id
		WHERE e.campaign_id = ?
		ORDER BY d.day_number, e.id
	`

	rows, err := db.Query(query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.NotableEvent{}
	for rows.Next() {
		var e models.NotableEvent
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.DayID, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

func DeleteEvent(db *sql.DB, campaignID, eventID int) error {
	result, err := db.Exec(`DELETE FROM notable_events WHERE id = ? AND campaign_id = ?`, eventID, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return deck.Errorf(deck.ErrNotFound, "event %d not found", eventID)
	}

	return nil
}
