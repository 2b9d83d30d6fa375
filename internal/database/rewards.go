package database

import (
	"database/sql"
	"fmt"

	"rangers/internal/deck"
	"rangers/internal/models"
)

// AddReward puts quantity copies of a catalog card into the campaign's
// reward pool.
func AddReward(db *sql.DB, campaignID, cardID, quantity int) (*models.RewardEntry, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := getCampaign(tx, campaignID); err != nil {
		return nil, err
	}
	if _, err := getCard(tx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, cardID); err != nil {
		return nil, err
	}

	if err := adjustPool(tx, campaignID, cardID, quantity); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return getReward(db, campaignID, cardID)
}

// GetRewards lists the campaign's reward pool ordered by card name.
func GetRewards(db *sql.DB, campaignID int) ([]models.RewardEntry, error) {
	if _, err := getCampaign(db, campaignID); err != nil {
		return nil, err
	}

	query := `
		SELECT r.id, r.campaign_id, r.card_id, r.quantity
		FROM campaign_rewards r
		JOIN cards c ON c.id = r.card_id
		WHERE r.campaign_id = ?
		ORDER BY c.name
	`

	rows, err := db.Query(query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rewards: %w", err)
	}

	entries := []models.RewardEntry{}
	var cardIDs []int
	for rows.Next() {
		var e models.RewardEntry
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.CardID, &e.Quantity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		entries = append(entries, e)
		cardIDs = append(cardIDs, e.CardID)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating rewards: %w", err)
	}
	rows.Close()

	cards, err := getCards(db, cardIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if card, ok := cards[entries[i].CardID]; ok {
			entries[i].Card = &card
		}
	}

	return entries, nil
}

func getReward(db *sql.DB, campaignID, cardID int) (*models.RewardEntry, error) {
	e := &models.RewardEntry{}
	query := `
		SELECT id, campaign_id, card_id, quantity
		FROM campaign_rewards
		WHERE campaign_id = ? AND card_id = ?
	`

	err := db.QueryRow(query, campaignID, cardID).Scan(&e.ID, &e.CampaignID, &e.CardID, &e.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "card %d is not in the reward pool", cardID)
		}
		return nil, fmt.Errorf("failed to query reward: %w", err)
	}

	card, err := GetCard(db, cardID)
	if err != nil {
		return nil, err
	}
	e.Card = card

	return e, nil
}

// RemoveReward deletes a pool entry regardless of its quantity.
func RemoveReward(db *sql.DB, campaignID, rewardID int) error {
	result, err := db.Exec(`DELETE FROM campaign_rewards WHERE id = ? AND campaign_id = ?`, rewardID, campaignID)
	if err != nil {
		return fmt.Errorf("failed to delete reward: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return deck.Errorf(deck.ErrNotFound, "reward entry %d not found", rewardID)
	}

	return nil
}

func poolQuantity(q querier, campaignID, cardID int) (int, error) {
	var qty int
	err := q.QueryRow(
		`SELECT quantity FROM campaign_rewards WHERE campaign_id = ? AND card_id = ?`,
		campaignID, cardID,
	).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query reward pool: %w", err)
	}
	return qty, nil
}

// adjustPool adds delta copies of a card to the pool. Entries are removed
// when they reach zero; going below zero fails with ErrInsufficientCard.
func adjustPool(q querier, campaignID, cardID, delta int) error {
	qty, err := poolQuantity(q, campaignID, cardID)
	if err != nil {
		return err
	}

	next := qty + delta
	switch {
	case next < 0:
		return deck.Errorf(deck.ErrInsufficientCard, "card %d is not available in the campaign reward pool", cardID)
	case next == 0:
		_, err = q.Exec(`DELETE FROM campaign_rewards WHERE campaign_id = ? AND card_id = ?`, campaignID, cardID)
	case qty == 0:
		_, err = q.Exec(
			`INSERT INTO campaign_rewards (campaign_id, card_id, quantity) VALUES (?, ?, ?)`,
			campaignID, cardID, next,
		)
	default:
		_, err = q.Exec(
			`UPDATE campaign_rewards SET quantity = ? WHERE campaign_id = ? AND card_id = ?`,
			next, campaignID, cardID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update reward pool: %w", err)
	}
	return nil
}
