package deck

import (
	"rangers/internal/models"
)

// Entry is one card of a projected decklist. Quantity is always positive.
type Entry struct {
	CardID   int `json:"card_id"`
	Quantity int `json:"quantity"`
}

// Project derives the current decklist from the starting deck and the trade
// history. Every trade that is not reverted moves one copy of its original
// card out and one copy of its reward card in. The result keeps starting
// order, with cards gained through trades appended in trade order.
func Project(start []models.StartingCard, history []models.Trade) ([]Entry, error) {
	qty := make(map[int]int)
	var order []int

	add := func(cardID, delta int) {
		if _, ok := qty[cardID]; !ok {
			order = append(order, cardID)
		}
		qty[cardID] += delta
	}

	for _, sc := range start {
		add(sc.CardID, sc.Quantity)
	}
	for _, t := range history {
		if t.Reverted {
			continue
		}
		add(t.OriginalCardID, -1)
		add(t.RewardCardID, 1)
	}

	entries := make([]Entry, 0, len(order))
	for _, id := range order {
		n := qty[id]
		if n < 0 {
			return nil, Errorf(ErrInvalidTradeState, "card %d has quantity %d after applying trades", id, n)
		}
		if n > 0 {
			entries = append(entries, Entry{CardID: id, Quantity: n})
		}
	}
	return entries, nil
}

// Quantity returns how many copies of cardID a projected decklist holds.
func Quantity(entries []Entry, cardID int) int {
	for _, e := range entries {
		if e.CardID == cardID {
			return e.Quantity
		}
	}
	return 0
}

// Count returns the total number of cards in a projected decklist.
func Count(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}

// Hydrate attaches catalog data to a projected decklist.
func Hydrate(entries []Entry, cards map[int]models.Card) ([]models.DeckEntry, error) {
	out := make([]models.DeckEntry, 0, len(entries))
	for _, e := range entries {
		card, ok := cards[e.CardID]
		if !ok {
			return nil, Errorf(ErrNotFound, "card %d is not in the catalog", e.CardID)
		}
		out = append(out, models.DeckEntry{Card: card, Quantity: e.Quantity})
	}
	return out, nil
}
