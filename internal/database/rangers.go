package database

import (
	"database/sql"
	"fmt"

	"rangers/internal/deck"
	"rangers/internal/logger"
	"rangers/internal/models"
)

// CreateRanger validates the selection and stores the ranger with its
// starting decklist. Nothing is written when validation fails.
func CreateRanger(db *sql.DB, campaignID int, sel models.RangerSelection) (*models.Ranger, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	campaign, err := getCampaign(tx, campaignID)
	if err != nil {
		return nil, err
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM rangers WHERE campaign_id = ?`, campaignID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count rangers: %w", err)
	}
	if count >= campaign.MaxRangers {
		return nil, deck.Errorf(deck.ErrCampaignFull, "campaign already has the maximum of %d rangers", campaign.MaxRangers)
	}

	cards, err := getCards(tx, sel.CardIDs())
	if err != nil {
		return nil, err
	}
	inUse, err := cardsInUse(tx, campaignID)
	if err != nil {
		return nil, err
	}

	foundation, err := deck.Build(sel, cards, inUse)
	if err != nil {
		return nil, err
	}

	result, err := tx.Exec(`
		INSERT INTO rangers (campaign_id, name, aspect_card_name, awa, fit, foc, spi,
			background_set, specialty_set, role_card_id, outside_interest_card_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		campaignID, sel.Name, sel.AspectCardName,
		sel.Awareness, sel.Fitness, sel.Focus, sel.Spirit,
		sel.BackgroundSet, sel.SpecialtySet,
		foundation.RoleCardID, sel.OutsideInterestCardID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ranger: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get ranger ID: %w", err)
	}

	for pos, sc := range foundation.Deck {
		_, err := tx.Exec(
			`INSERT INTO ranger_cards (ranger_id, card_id, category, quantity, position) VALUES (?, ?, ?, ?, ?)`,
			id, sc.CardID, sc.Category, sc.Quantity, pos,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to store starting card %d: %w", sc.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("ranger created", "campaign_id", campaignID, "ranger_id", id, "name", sel.Name)

	return GetRanger(db, campaignID, int(id))
}

// cardsInUse returns every card chosen at creation by a ranger of the
// campaign, role cards included.
func cardsInUse(q querier, campaignID int) (map[int]bool, error) {
	query := `
		SELECT rc.card_id FROM ranger_cards rc
		JOIN rangers r ON r.id = rc.ranger_id
		WHERE r.campaign_id = ?
		UNION
		SELECT role_card_id FROM rangers WHERE campaign_id = ?
	`

	rows, err := q.Query(query, campaignID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards in use: %w", err)
	}
	defer rows.Close()

	inUse := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan card ID: %w", err)
		}
		inUse[id] = true
	}

	return inUse, rows.Err()
}

func GetRanger(db *sql.DB, campaignID, rangerID int) (*models.Ranger, error) {
	return getRanger(db, campaignID, rangerID)
}

func getRanger(q querier, campaignID, rangerID int) (*models.Ranger, error) {
	r := &models.Ranger{}
	query := `
		SELECT id, campaign_id, name, aspect_card_name, awa, fit, foc, spi,
			background_set, specialty_set, role_card_id, outside_interest_card_id, created_at
		FROM rangers
		WHERE id = ? AND campaign_id = ?
	`

	err := q.QueryRow(query, rangerID, campaignID).Scan(
		&r.ID,
		&r.CampaignID,
		&r.Name,
		&r.AspectCardName,
		&r.Awareness,
		&r.Fitness,
		&r.Focus,
		&r.Spirit,
		&r.BackgroundSet,
		&r.SpecialtySet,
		&r.RoleCardID,
		&r.OutsideInterestCardID,
		&r.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, deck.Errorf(deck.ErrNotFound, "ranger %d not found", rangerID)
		}
		return nil, fmt.Errorf("failed to query ranger: %w", err)
	}

	rows, err := q.Query(`
		SELECT card_id, category, quantity
		FROM ranger_cards
		WHERE ranger_id = ?
		ORDER BY position
	`, rangerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query starting decklist: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc models.StartingCard
		if err := rows.Scan(&sc.CardID, &sc.Category, &sc.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan starting card: %w", err)
		}
		r.StartingDecklist = append(r.StartingDecklist, sc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating starting decklist: %w", err)
	}

	return r, nil
}

// GetRangerView returns the ranger with its projected current decklist and
// hydrated trade history.
func GetRangerView(db *sql.DB, campaignID, rangerID int) (*models.RangerView, error) {
	r, err := getRanger(db, campaignID, rangerID)
	if err != nil {
		return nil, err
	}
	return buildView(db, r)
}

func GetRangerViews(db *sql.DB, campaignID int) ([]models.RangerView, error) {
	if _, err := getCampaign(db, campaignID); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT id FROM rangers WHERE campaign_id = ? ORDER BY id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rangers: %w", err)
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan ranger ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating rangers: %w", err)
	}
	rows.Close()

	views := []models.RangerView{}
	for _, id := range ids {
		v, err := GetRangerView(db, campaignID, id)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func buildView(db *sql.DB, r *models.Ranger) (*models.RangerView, error) {
	trades, err := getTrades(db, r.ID)
	if err != nil {
		return nil, err
	}

	current, err := deck.Project(r.StartingDecklist, trades)
	if err != nil {
		logger.Error("ranger decklist projection failed", "ranger_id", r.ID, "error", err)
		return nil, err
	}

	ids := []int{r.RoleCardID, r.OutsideInterestCardID}
	for _, e := range current {
		ids = append(ids, e.CardID)
	}
	for _, t := range trades {
		ids = append(ids, t.OriginalCardID, t.RewardCardID)
	}
	cards, err := getCards(db, ids)
	if err != nil {
		return nil, err
	}

	decklist, err := deck.Hydrate(current, cards)
	if err != nil {
		return nil, err
	}
	hydrateTrades(trades, cards)

	view := &models.RangerView{
		Ranger:             r,
		PersonalityCardIDs: r.IDsIn(deck.CategoryPersonality),
		BackgroundCardIDs:  r.IDsIn(deck.CategoryBackground),
		SpecialtyCardIDs:   r.IDsIn(deck.CategorySpecialty),
		CurrentDecklist:    decklist,
		DeckSize:           deck.Count(current),
		Trades:             trades,
	}
	if card, ok := cards[r.RoleCardID]; ok {
		view.RoleCard = &card
	}
	if card, ok := cards[r.OutsideInterestCardID]; ok {
		view.OutsideInterestCard = &card
	}

	return view, nil
}
