package deck

import (
	"fmt"
	"strings"

	"rangers/internal/models"
)

const (
	CategoryPersonality     = "personality"
	CategoryBackground      = "background"
	CategorySpecialty       = "specialty"
	CategoryRole            = "role"
	CategoryOutsideInterest = "outside_interest"

	// Size is the number of cards in a starting deck. The role card is in
	// play and not part of it.
	Size = 30

	MinStat = 0
	MaxStat = 5
)

var (
	Aspects     = []string{"AWA", "FIT", "FOC", "SPI"}
	Backgrounds = []string{"Artisan", "Forager", "Shepherd", "Traveler"}
	Specialties = []string{"Artificer", "Conciliator", "Explorer", "Shaper"}
)

// category is one row of the starting deck composition. A category with
// zero copies starts in play.
type category struct {
	name   string
	picks  int
	copies int
	ids    func(models.RangerSelection) []int
	allows func(models.RangerSelection, models.Card) bool
	wants  func(models.RangerSelection) string
}

var composition = []category{
	{
		name:   CategoryPersonality,
		picks:  4,
		copies: 2,
		ids:    func(s models.RangerSelection) []int { return s.PersonalityCardIDs },
		allows: func(_ models.RangerSelection, c models.Card) bool {
			return c.CardType == models.CardTypePersonality && contains(Aspects, c.SourceSet)
		},
		wants: func(models.RangerSelection) string { return "a personality card" },
	},
	{
		name:   CategoryBackground,
		picks:  5,
		copies: 2,
		ids:    func(s models.RangerSelection) []int { return s.BackgroundCardIDs },
		allows: func(s models.RangerSelection, c models.Card) bool {
			return c.CardType == models.CardTypeBackground && c.SourceSet == s.BackgroundSet
		},
		wants: func(s models.RangerSelection) string { return "a " + s.BackgroundSet + " background card" },
	},
	{
		name:   CategorySpecialty,
		picks:  5,
		copies: 2,
		ids:    func(s models.RangerSelection) []int { return s.SpecialtyCardIDs },
		allows: func(s models.RangerSelection, c models.Card) bool {
			return c.CardType == models.CardTypeSpecialty && c.SourceSet == s.SpecialtySet
		},
		wants: func(s models.RangerSelection) string { return "a " + s.SpecialtySet + " specialty card" },
	},
	{
		name:   CategoryRole,
		picks:  1,
		copies: 0,
		ids:    func(s models.RangerSelection) []int { return single(s.RoleCardID) },
		allows: func(s models.RangerSelection, c models.Card) bool {
			return c.CardType == models.CardTypeRole && c.SourceSet == s.SpecialtySet
		},
		wants: func(s models.RangerSelection) string { return "a " + s.SpecialtySet + " role card" },
	},
	{
		name:   CategoryOutsideInterest,
		picks:  1,
		copies: 2,
		ids:    func(s models.RangerSelection) []int { return single(s.OutsideInterestCardID) },
		allows: func(_ models.RangerSelection, c models.Card) bool {
			isDeckCard := c.CardType == models.CardTypeBackground || c.CardType == models.CardTypeSpecialty
			return isDeckCard && !c.IsExpert
		},
		wants: func(models.RangerSelection) string { return "a non-expert background or specialty card" },
	},
}

// Foundation is the validated outcome of a ranger selection.
type Foundation struct {
	Deck       []models.StartingCard
	RoleCardID int
}

// Build validates a selection against the catalog cards it references and
// returns the starting deck. inUse holds card ids already held by other
// rangers of the same campaign and may be nil.
func Build(sel models.RangerSelection, cards map[int]models.Card, inUse map[int]bool) (*Foundation, error) {
	if err := checkAttributes(sel); err != nil {
		return nil, err
	}

	for _, cat := range composition {
		ids := cat.ids(sel)
		if len(ids) != cat.picks {
			return nil, Errorf(ErrIncompleteSelection, "expected %d %s card(s), got %d", cat.picks, cat.name, len(ids))
		}
		for _, id := range ids {
			if id <= 0 {
				return nil, Errorf(ErrIncompleteSelection, "%s selection contains an empty card id", cat.name)
			}
		}
	}

	seen := make(map[int]bool)
	for _, id := range sel.CardIDs() {
		if seen[id] {
			return nil, Errorf(ErrDuplicateCard, "card %d is selected more than once", id)
		}
		seen[id] = true
	}

	for _, cat := range composition {
		for _, id := range cat.ids(sel) {
			card, ok := cards[id]
			if !ok {
				return nil, Errorf(ErrCategoryMismatch, "card %d is not in the catalog", id)
			}
			if !cat.allows(sel, card) {
				return nil, Errorf(ErrCategoryMismatch, "'%s' is not %s", card.Name, cat.wants(sel))
			}
			if inUse[id] {
				return nil, Errorf(ErrDuplicateCard, "'%s' is already selected by another ranger in this campaign", card.Name)
			}
		}
	}

	aspects := make(map[string]bool)
	for _, id := range sel.PersonalityCardIDs {
		aspect := cards[id].SourceSet
		if aspects[aspect] {
			return nil, Errorf(ErrCategoryMismatch, "choose one personality card per aspect, %s appears twice", aspect)
		}
		aspects[aspect] = true
	}

	f := &Foundation{RoleCardID: sel.RoleCardID}
	for _, cat := range composition {
		if cat.copies == 0 {
			continue
		}
		for _, id := range cat.ids(sel) {
			f.Deck = append(f.Deck, models.StartingCard{CardID: id, Category: cat.name, Quantity: cat.copies})
		}
	}

	if total := countCards(f.Deck); total != Size {
		return nil, fmt.Errorf("starting deck has %d cards, want %d", total, Size)
	}

	return f, nil
}

func checkAttributes(sel models.RangerSelection) error {
	if strings.TrimSpace(sel.Name) == "" {
		return Errorf(ErrIncompleteSelection, "ranger name is required")
	}
	if strings.TrimSpace(sel.AspectCardName) == "" {
		return Errorf(ErrIncompleteSelection, "aspect card name is required")
	}

	stats := []struct {
		name  string
		value int
	}{
		{"awa", sel.Awareness},
		{"fit", sel.Fitness},
		{"foc", sel.Focus},
		{"spi", sel.Spirit},
	}
	for _, st := range stats {
		if st.value < MinStat || st.value > MaxStat {
			return Errorf(ErrInvalidStat, "%s must be between %d and %d, got %d", st.name, MinStat, MaxStat, st.value)
		}
	}

	if sel.BackgroundSet == "" {
		return Errorf(ErrIncompleteSelection, "background set is required")
	}
	if !contains(Backgrounds, sel.BackgroundSet) {
		return Errorf(ErrCategoryMismatch, "background set must be one of %s", strings.Join(Backgrounds, ", "))
	}
	if sel.SpecialtySet == "" {
		return Errorf(ErrIncompleteSelection, "specialty set is required")
	}
	if !contains(Specialties, sel.SpecialtySet) {
		return Errorf(ErrCategoryMismatch, "specialty set must be one of %s", strings.Join(Specialties, ", "))
	}

	return nil
}

func countCards(deck []models.StartingCard) int {
	total := 0
	for _, sc := range deck {
		total += sc.Quantity
	}
	return total
}

func single(id int) []int {
	if id == 0 {
		return nil
	}
	return []int{id}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
