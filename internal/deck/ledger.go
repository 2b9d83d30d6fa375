package deck

import (
	"rangers/internal/models"
)

// CheckTrade reports whether originalCardID can be traded away given the
// ranger's starting deck and trade history.
func CheckTrade(start []models.StartingCard, history []models.Trade, originalCardID int) error {
	current, err := Project(start, history)
	if err != nil {
		return err
	}
	if Quantity(current, originalCardID) < 1 {
		return Errorf(ErrInsufficientCard, "card %d is not in the ranger's current deck", originalCardID)
	}
	return nil
}

// CheckRevert reports whether the trade with tradeID can be reverted. The
// trade must exist in history and still be active, and its reward card must
// still be in the deck to be given back.
func CheckRevert(start []models.StartingCard, history []models.Trade, tradeID int) error {
	if _, err := Project(start, history); err != nil {
		return err
	}

	idx := -1
	for i := range history {
		if history[i].ID == tradeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Errorf(ErrNotFound, "trade %d not found", tradeID)
	}
	if history[idx].Reverted {
		return Errorf(ErrAlreadyReverted, "trade %d is already reverted", tradeID)
	}

	after := make([]models.Trade, len(history))
	copy(after, history)
	after[idx].Reverted = true

	if _, err := Project(start, after); err != nil {
		return Errorf(ErrInsufficientCard, "card %d has been traded away since trade %d and cannot be returned",
			history[idx].RewardCardID, tradeID)
	}
	return nil
}
