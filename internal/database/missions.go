package database

import (
	"database/sql"
	"fmt"

	"rangers/internal/deck"
	"rangers/internal/logger"
	"rangers/internal/models"
)

const missionColumns = `id, campaign_id, name, day_started_id, day_completed_id, progress, max_progress`

func scanMission(s scanner) (models.Mission, error) {
	var m models.Mission
	var started, completed sql.NullInt64

	err := s.Scan(&m.ID, &m.CampaignID, &m.Name, &started, &completed, &m.Progress, &m.MaxProgress)
	if err != nil {
		return m, err
	}

	if started.Valid {
		id := int(started.Int64)
		m.DayStartedID = &id
	}
	if completed.Valid {
		id := int(completed.Int64)
		m.DayCompletedID = &id
	}
	return m, nil
}

// CreateMission adds a mission to the campaign. When dayStartedID is nil the
// mission starts on the campaign's active day, if there is one.
func CreateMission(db *sql.DB, campaignID int, name string, maxProgress int, dayStartedID *int) (*models.Mission, error) {
	if maxProgress < 0 || maxProgress > models.MaxMissionProgress {
		return nil, deck.Errorf(deck.ErrInvalidProgress,
			"max_progress must be between 0 and %d, got %d", models.MaxMissionProgress, maxProgress)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	campaign, err := getCampaign(tx, campaignID)
	if err != nil {
		return nil, err
	}

	if dayStartedID == nil {
		if day := campaign.ActiveDay(); day != nil {
			id := day.ID
			dayStartedID = &id
		}
	} else if _, err := getDay(tx, campaignID, *dayStartedID); err != nil {
		return nil, err
	}

	result, err := tx.Exec(
		`INSERT INTO missions (campaign_id, name, day_started_id, max_progress) VALUES (?, ?, ?, ?)`,
		campaignID, name, dayStartedID, maxProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get mission ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("mission created", "campaign_id", campaignID, "mission_id", id, "max_progress", maxProgress)

	return getMission(db, campaignID, int(id))
}

func GetMissions(db *sql.DB, campaignID int) ([]models.Mission, error) {
	if _, err := getCampaign(db, campaignID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT `+missionColumns+` FROM missions WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer rows.Close()

	missions := []models.Mission{}
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missions: %w", err)
	}

	return missions, nil
}

func getMission(q querier, campaignID, missionID int) (*models.Mission, error) {
	m, err := scanMission(q.QueryRow(
		`SELECT `+missionColumns+` FROM missions WHERE id = ? AND campaign_id = ?`,
		missionID, campaignID,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "mission %d not found", missionID)
		}
		return nil, fmt.Errorf("failed to query mission: %w", err)
	}
	return &m, nil
}

// UpdateMission sets progress and/or the day the mission was completed. Nil
// arguments leave the field unchanged.
func UpdateMission(db *sql.DB, campaignID, missionID int, progress, dayCompletedID *int) (*models.Mission, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	m, err := getMission(tx, campaignID, missionID)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		if *progress < 0 || *progress > m.MaxProgress {
			return nil, deck.Errorf(deck.ErrInvalidProgress,
				"progress must be between 0 and %d for this mission, got %d", m.MaxProgress, *progress)
		}
		m.Progress = *progress
	}

	if dayCompletedID != nil {
		if _, err := getDay(tx, campaignID, *dayCompletedID); err != nil {
			return nil, err
		}
		m.DayCompletedID = dayCompletedID
	}

	_, err = tx.Exec(
		`UPDATE missions SET progress = ?, day_completed_id = ? WHERE id = ?`,
		m.Progress, m.DayCompletedID, m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update mission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return getMission(db, campaignID, missionID)
}
