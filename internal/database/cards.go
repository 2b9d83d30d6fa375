package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"rangers/internal/deck"
	"rangers/internal/models"
)

const cardColumns = `id, name, card_type, source_set, aspect, cost, tags, is_expert`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(s scanner) (models.Card, error) {
	var card models.Card
	var cost sql.NullInt64
	var tags string

	err := s.Scan(
		&card.ID,
		&card.Name,
		&card.CardType,
		&card.SourceSet,
		&card.Aspect,
		&cost,
		&tags,
		&card.IsExpert,
	)
	if err != nil {
		return card, err
	}

	if cost.Valid {
		c := int(cost.Int64)
		card.Cost = &c
	}
	if err := json.Unmarshal([]byte(tags), &card.Tags); err != nil {
		return card, fmt.Errorf("failed to decode tags of card %d: %w", card.ID, err)
	}
	if card.Tags == nil {
		card.Tags = []string{}
	}
	return card, nil
}

// SeedCards inserts catalog cards that are not present yet, matched by name.
// It returns the number of cards inserted.
func SeedCards(db *sql.DB, cards []models.Card) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR IGNORE INTO cards (name, card_type, source_set, aspect, cost, tags, is_expert)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	inserted := 0
	for _, card := range cards {
		tags, err := json.Marshal(card.Tags)
		if err != nil {
			return 0, fmt.Errorf("failed to encode tags of %s: %w", card.Name, err)
		}
		if card.Tags == nil {
			tags = []byte("[]")
		}

		var cost interface{}
		if card.Cost != nil {
			cost = *card.Cost
		}

		result, err := tx.Exec(query, card.Name, card.CardType, card.SourceSet, card.Aspect, cost, string(tags), card.IsExpert)
		if err != nil {
			return 0, fmt.Errorf("failed to insert card %s: %w", card.Name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// ListCards returns catalog cards, optionally filtered by type and source
// set, ordered by set then name.
func ListCards(db *sql.DB, cardType, sourceSet string) ([]models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE 1 = 1`
	var args []interface{}
	if cardType != "" {
		query += ` AND card_type = ?`
		args = append(args, cardType)
	}
	if sourceSet != "" {
		query += ` AND source_set = ?`
		args = append(args, sourceSet)
	}
	query += ` ORDER BY source_set, name`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

func GetCard(db *sql.DB, cardID int) (*models.Card, error) {
	return getCard(db, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, cardID)
}

func GetCardByName(db *sql.DB, name string) (*models.Card, error) {
	return getCard(db, `SELECT `+cardColumns+` FROM cards WHERE name = ? COLLATE NOCASE`, name)
}

func getCard(q querier, query string, arg interface{}) (*models.Card, error) {
	card, err := scanCard(q.QueryRow(query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "card %v not found", arg)
		}
		return nil, fmt.Errorf("failed to query card: %w", err)
	}
	return &card, nil
}

// getCards loads the given card ids. Unknown ids are absent from the map.
func getCards(q querier, ids []int) (map[int]models.Card, error) {
	cards := make(map[int]models.Card)
	if len(ids) == 0 {
		return cards, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards[card.ID] = card
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}
