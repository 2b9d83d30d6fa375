package database

import (
	"database/sql"
	"errors"
	"fmt"

	"rangers/internal/deck"
	"rangers/internal/logger"
	"rangers/internal/models"
)

// CreateTrade records a one-for-one swap on a campaign day. The original
// card must be in the ranger's current deck and the reward card in the
// campaign's reward pool. The reward leaves the pool and the original enters
// it in the same transaction as the trade insert.
func CreateTrade(db *sql.DB, campaignID, rangerID, dayID, originalCardID, rewardCardID int) (*models.Trade, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	ranger, err := getRanger(tx, campaignID, rangerID)
	if err != nil {
		return nil, err
	}
	if _, err := getDay(tx, campaignID, dayID); err != nil {
		return nil, err
	}

	history, err := getTrades(tx, rangerID)
	if err != nil {
		return nil, err
	}
	if err := deck.CheckTrade(ranger.StartingDecklist, history, originalCardID); err != nil {
		if errors.Is(err, deck.ErrInvalidTradeState) {
			logger.Error("stored trade history is inconsistent", "ranger_id", rangerID, "error", err)
		}
		return nil, err
	}

	available, err := poolQuantity(tx, campaignID, rewardCardID)
	if err != nil {
		return nil, err
	}
	if available < 1 {
		return nil, deck.Errorf(deck.ErrInsufficientCard, "reward card %d is not available in the campaign reward pool", rewardCardID)
	}

	result, err := tx.Exec(`
		INSERT INTO ranger_trades (ranger_id, day_id, original_card_id, reward_card_id)
		VALUES (?, ?, ?, ?)
	`, rangerID, dayID, originalCardID, rewardCardID)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get trade ID: %w", err)
	}

	if err := adjustPool(tx, campaignID, rewardCardID, -1); err != nil {
		return nil, err
	}
	if err := adjustPool(tx, campaignID, originalCardID, 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("trade created", "ranger_id", rangerID, "trade_id", id, "day_id", dayID,
		"original_card_id", originalCardID, "reward_card_id", rewardCardID)

	return GetTrade(db, rangerID, int(id))
}

// RevertTrade flags an active trade as reverted. The original card returns
// to the deck and leaves the pool, the reward card goes back to the pool.
func RevertTrade(db *sql.DB, campaignID, rangerID, tradeID int) (*models.Trade, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	ranger, err := getRanger(tx, campaignID, rangerID)
	if err != nil {
		return nil, err
	}

	history, err := getTrades(tx, rangerID)
	if err != nil {
		return nil, err
	}
	if err := deck.CheckRevert(ranger.StartingDecklist, history, tradeID); err != nil {
		if errors.Is(err, deck.ErrInvalidTradeState) {
			logger.Error("stored trade history is inconsistent", "ranger_id", rangerID, "error", err)
		}
		return nil, err
	}

	var trade models.Trade
	for _, t := range history {
		if t.ID == tradeID {
			trade = t
			break
		}
	}

	result, err := tx.Exec(`
		UPDATE ranger_trades
		SET reverted = TRUE, reverted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND reverted = FALSE
	`, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to revert trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, deck.Errorf(deck.ErrAlreadyReverted, "trade %d is already reverted", tradeID)
	}

	if err := adjustPool(tx, campaignID, trade.OriginalCardID, -1); err != nil {
		if !errors.Is(err, deck.ErrInsufficientCard) {
			return nil, err
		}
		return nil, deck.Errorf(deck.ErrInsufficientCard,
			"card %d has left the reward pool and cannot be returned to the deck", trade.OriginalCardID)
	}
	if err := adjustPool(tx, campaignID, trade.RewardCardID, 1); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("trade reverted", "ranger_id", rangerID, "trade_id", tradeID)

	return GetTrade(db, rangerID, tradeID)
}

const tradeColumns = `id, ranger_id, day_id, original_card_id, reward_card_id, reverted, reverted_at, created_at`

func scanTrade(s scanner) (models.Trade, error) {
	var t models.Trade
	var revertedAt sql.NullTime

	err := s.Scan(
		&t.ID,
		&t.RangerID,
		&t.DayID,
		&t.OriginalCardID,
		&t.RewardCardID,
		&t.Reverted,
		&revertedAt,
		&t.CreatedAt,
	)
	if err != nil {
		return t, err
	}
	if revertedAt.Valid {
		at := revertedAt.Time
		t.RevertedAt = &at
	}
	return t, nil
}

// GetTrade returns one trade of a ranger with its cards attached.
func GetTrade(db *sql.DB, rangerID, tradeID int) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM ranger_trades WHERE id = ? AND ranger_id = ?`

	t, err := scanTrade(db.QueryRow(query, tradeID, rangerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "trade %d not found", tradeID)
		}
		return nil, fmt.Errorf("failed to query trade: %w", err)
	}

	cards, err := getCards(db, []int{t.OriginalCardID, t.RewardCardID})
	if err != nil {
		return nil, err
	}
	trades := []models.Trade{t}
	hydrateTrades(trades, cards)

	return &trades[0], nil
}

// GetTrades returns the full trade history of a ranger, reverted trades
// included, oldest first.
func GetTrades(db *sql.DB, rangerID int) ([]models.Trade, error) {
	trades, err := getTrades(db, rangerID)
	if err != nil {
		return nil, err
	}

	var ids []int
	for _, t := range trades {
		ids = append(ids, t.OriginalCardID, t.RewardCardID)
	}
	cards, err := getCards(db, ids)
	if err != nil {
		return nil, err
	}
	hydrateTrades(trades, cards)

	return trades, nil
}

func getTrades(q querier, rangerID int) ([]models.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM ranger_trades WHERE ranger_id = ? ORDER BY id`

	rows, err := q.Query(query, rangerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

func hydrateTrades(trades []models.Trade, cards map[int]models.Card) {
	for i := range trades {
		if card, ok := cards[trades[i].OriginalCardID]; ok {
			trades[i].OriginalCard = &card
		}
		if card, ok := cards[trades[i].RewardCardID]; ok {
			trades[i].RewardCard = &card
		}
	}
}
