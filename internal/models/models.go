package models

import (
	"time"
)

type CardType string

const (
	CardTypePersonality CardType = "personality"
	CardTypeBackground  CardType = "background"
	CardTypeSpecialty   CardType = "specialty"
	CardTypeRole        CardType = "role"
)

type Card struct {
	ID        int      `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	CardType  CardType `json:"card_type" db:"card_type"`
	SourceSet string   `json:"source_set" db:"source_set"`
	Aspect    string   `json:"aspect,omitempty" db:"aspect"`
	Cost      *int     `json:"cost" db:"cost"`
	Tags      []string `json:"tags" db:"tags"`
	IsExpert  bool     `json:"is_expert" db:"is_expert"`
}

type DayStatus string

const (
	DayUpcoming  DayStatus = "upcoming"
	DayActive    DayStatus = "active"
	DayCompleted DayStatus = "completed"
)

type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
)

type Campaign struct {
	ID         int            `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	Status     CampaignStatus `json:"status" db:"status"`
	MaxRangers int            `json:"max_rangers" db:"max_rangers"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	Days       []CampaignDay  `json:"days,omitempty"`
}

// ActiveDay returns the campaign's active day, or nil once every day is
// completed.
func (c *Campaign) ActiveDay() *CampaignDay {
	for i := range c.Days {
		if c.Days[i].Status == DayActive {
			return &c.Days[i]
		}
	}
	return nil
}

// CampaignDay is one play session. Location and PathTerrain describe where
// the rangers are heading; they are recorded when the previous day closes.
type CampaignDay struct {
	ID          int       `json:"id" db:"id"`
	CampaignID  int       `json:"campaign_id" db:"campaign_id"`
	DayNumber   int       `json:"day_number" db:"day_number"`
	Status      DayStatus `json:"status" db:"status"`
	Location    string    `json:"location,omitempty" db:"location"`
	PathTerrain string    `json:"path_terrain,omitempty" db:"path_terrain"`
}

// MaxMissionProgress bounds Mission.MaxProgress. Zero means pass/fail only.
const MaxMissionProgress = 3

type Mission struct {
	ID             int    `json:"id" db:"id"`
	CampaignID     int    `json:"campaign_id" db:"campaign_id"`
	Name           string `json:"name" db:"name"`
	DayStartedID   *int   `json:"day_started_id" db:"day_started_id"`
	DayCompletedID *int   `json:"day_completed_id" db:"day_completed_id"`
	Progress       int    `json:"progress" db:"progress"`
	MaxProgress    int    `json:"max_progress" db:"max_progress"`
}

type NotableEvent struct {
	ID         int       `json:"id" db:"id"`
	CampaignID int       `json:"campaign_id" db:"campaign_id"`
	DayID      int       `json:"day_id" db:"day_id"`
	Text       string    `json:"text" db:"text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type RewardEntry struct {
	ID         int   `json:"id" db:"id"`
	CampaignID int   `json:"campaign_id" db:"campaign_id"`
	CardID     int   `json:"card_id" db:"card_id"`
	Quantity   int   `json:"quantity" db:"quantity"`
	Card       *Card `json:"card,omitempty"`
}

// RangerSelection is the full set of choices made when creating a ranger.
type RangerSelection struct {
	Name                  string `json:"name"`
	AspectCardName        string `json:"aspect_card_name"`
	Awareness             int    `json:"awa"`
	Fitness               int    `json:"fit"`
	Focus                 int    `json:"foc"`
	Spirit                int    `json:"spi"`
	BackgroundSet         string `json:"background_set"`
	SpecialtySet          string `json:"specialty_set"`
	PersonalityCardIDs    []int  `json:"personality_card_ids"`
	BackgroundCardIDs     []int  `json:"background_card_ids"`
	SpecialtyCardIDs      []int  `json:"specialty_card_ids"`
	RoleCardID            int    `json:"role_card_id"`
	OutsideInterestCardID int    `json:"outside_interest_card_id"`
}

// CardIDs returns every selected card id: personality, background,
// specialty, role, outside interest.
func (s RangerSelection) CardIDs() []int {
	ids := make([]int, 0, 16)
	ids = append(ids, s.PersonalityCardIDs...)
	ids = append(ids, s.BackgroundCardIDs...)
	ids = append(ids, s.SpecialtyCardIDs...)
	if s.RoleCardID != 0 {
		ids = append(ids, s.RoleCardID)
	}
	if s.OutsideInterestCardID != 0 {
		ids = append(ids, s.OutsideInterestCardID)
	}
	return ids
}

// StartingCard is one row of a ranger's immutable starting decklist.
type StartingCard struct {
	CardID   int    `json:"card_id" db:"card_id"`
	Category string `json:"category" db:"category"`
	Quantity int    `json:"quantity" db:"quantity"`
}

type Ranger struct {
	ID                    int            `json:"id" db:"id"`
	CampaignID            int            `json:"campaign_id" db:"campaign_id"`
	Name                  string         `json:"name" db:"name"`
	AspectCardName        string         `json:"aspect_card_name" db:"aspect_card_name"`
	Awareness             int            `json:"awa" db:"awa"`
	Fitness               int            `json:"fit" db:"fit"`
	Focus                 int            `json:"foc" db:"foc"`
	Spirit                int            `json:"spi" db:"spi"`
	BackgroundSet         string         `json:"background_set" db:"background_set"`
	SpecialtySet          string         `json:"specialty_set" db:"specialty_set"`
	RoleCardID            int            `json:"role_card_id" db:"role_card_id"`
	OutsideInterestCardID int            `json:"outside_interest_card_id" db:"outside_interest_card_id"`
	CreatedAt             time.Time      `json:"created_at" db:"created_at"`
	StartingDecklist      []StartingCard `json:"starting_decklist"`
}

// IDsIn returns the starting card ids recorded under category, in order.
func (r *Ranger) IDsIn(category string) []int {
	ids := []int{}
	for _, sc := range r.StartingDecklist {
		if sc.Category == category {
			ids = append(ids, sc.CardID)
		}
	}
	return ids
}

type Trade struct {
	ID             int        `json:"id" db:"id"`
	RangerID       int        `json:"ranger_id" db:"ranger_id"`
	DayID          int        `json:"day_id" db:"day_id"`
	OriginalCardID int        `json:"original_card_id" db:"original_card_id"`
	RewardCardID   int        `json:"reward_card_id" db:"reward_card_id"`
	Reverted       bool       `json:"reverted" db:"reverted"`
	RevertedAt     *time.Time `json:"reverted_at,omitempty" db:"reverted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	OriginalCard   *Card      `json:"original_card,omitempty"`
	RewardCard     *Card      `json:"reward_card,omitempty"`
}

type DeckEntry struct {
	Card     Card `json:"card"`
	Quantity int  `json:"quantity"`
}

// RangerView is a ranger as returned to clients: attributes, the role card
// in play, the projected current decklist and the full trade history.
type RangerView struct {
	*Ranger
	PersonalityCardIDs  []int       `json:"personality_card_ids"`
	BackgroundCardIDs   []int       `json:"background_card_ids"`
	SpecialtyCardIDs    []int       `json:"specialty_card_ids"`
	RoleCard            *Card       `json:"role_card"`
	OutsideInterestCard *Card       `json:"outside_interest_card"`
	CurrentDecklist     []DeckEntry `json:"current_decklist"`
	DeckSize            int         `json:"deck_size"`
	Trades              []Trade     `json:"trades"`
}
