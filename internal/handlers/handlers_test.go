package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rangers/internal/catalog"
	"rangers/internal/config"
	"rangers/internal/database"
	"rangers/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	db     *sql.DB
	router *gin.Engine
	token  string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Initialize(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	cat, err := catalog.Default()
	require.NoError(t, err)
	_, err = database.SeedCards(db, cat.Models())
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("station-key"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Environment:  "development",
		MaxRangers:   4,
		APITokenHash: string(hash),
	}

	r := gin.New()
	SetupRoutes(r, db, cfg)

	return &testServer{db: db, router: r, token: "station-key"}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

func (s *testServer) cardID(t *testing.T, name string) int {
	t.Helper()
	card, err := database.GetCardByName(s.db, name)
	require.NoError(t, err)
	return card.ID
}

func (s *testServer) ids(t *testing.T, names ...string) []int {
	t.Helper()
	out := make([]int, 0, len(names))
	for _, n := range names {
		out = append(out, s.cardID(t, n))
	}
	return out
}

func (s *testServer) selection(t *testing.T) models.RangerSelection {
	return models.RangerSelection{
		Name:                  "  Ada  ",
		AspectCardName:        "Shepherd",
		Awareness:             2,
		Fitness:               2,
		Focus:                 2,
		Spirit:                3,
		BackgroundSet:         "Traveler",
		SpecialtySet:          "Shaper",
		PersonalityCardIDs:    s.ids(t, "Thorough", "Bold", "Astute", "Compassionate"),
		BackgroundCardIDs:     s.ids(t, "Eagle Eye", "Strider", "Trail Mix", "Perfect Recall", "Ironwool Boots"),
		SpecialtyCardIDs:      s.ids(t, "Root Snare", "Sky Whip", "Shape the Earth", "Throng of Life", "Harmonize"),
		RoleCardID:            s.cardID(t, "Prodigy of the Floating Tower"),
		OutsideInterestCardID: s.cardID(t, "Healing Touch"),
	}
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func TestHealth(t *testing.T) {
	s := setupServer(t)

	var body map[string]string
	code := s.do(t, http.MethodGet, "/healthz", nil, &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestListCards(t *testing.T) {
	s := setupServer(t)

	var cards []models.Card
	code := s.do(t, http.MethodGet, "/api/cards?card_type=role&source_set=Shaper", nil, &cards)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, cards, 2)
	for _, c := range cards {
		assert.Equal(t, models.CardTypeRole, c.CardType)
	}
}

func TestWriteRoutesRequireToken(t *testing.T) {
	s := setupServer(t)
	s.token = "wrong"

	code := s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "Valley", "days": 3}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCampaignLifecycle(t *testing.T) {
	s := setupServer(t)

	var campaign models.Campaign
	code := s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "Valley", "days": 2}, &campaign)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, campaign.Days, 2)

	code = s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "", "days": 2}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	destination := gin.H{"location": "Boulder Field", "path_terrain": "Mountain Pass"}

	var e errorBody
	path := fmt.Sprintf("/api/campaigns/%d/days/%d/close", campaign.ID, campaign.Days[1].ID)
	code = s.do(t, http.MethodPost, path, destination, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DayNotActive", e.Code)

	path = fmt.Sprintf("/api/campaigns/%d/days/%d/close", campaign.ID, campaign.Days[0].ID)
	code = s.do(t, http.MethodPost, path, gin.H{"location": "Boulder Field"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = s.do(t, http.MethodPost, path, destination, &campaign)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.DayActive, campaign.Days[1].Status)

	var day models.CampaignDay
	path = fmt.Sprintf("/api/campaigns/%d/days/%d", campaign.ID, campaign.Days[1].ID)
	code = s.do(t, http.MethodGet, path, nil, &day)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Boulder Field", day.Location)
	assert.Equal(t, "Mountain Pass", day.PathTerrain)

	code = s.do(t, http.MethodGet, fmt.Sprintf("/api/campaigns/%d/days/999", campaign.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = s.do(t, http.MethodGet, "/api/campaigns/999", nil, &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NotFound", e.Code)

	code = s.do(t, http.MethodGet, "/api/campaigns/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRangerTradeFlow(t *testing.T) {
	s := setupServer(t)

	var campaign models.Campaign
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "Valley", "days": 3}, &campaign))
	base := fmt.Sprintf("/api/campaigns/%d", campaign.ID)

	var reward models.RewardEntry
	code := s.do(t, http.MethodPost, base+"/rewards", gin.H{"card_name": "Stave of the Sun"}, &reward)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 1, reward.Quantity)

	var ranger models.RangerView
	code = s.do(t, http.MethodPost, base+"/rangers", s.selection(t), &ranger)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Ada", ranger.Name)
	assert.Equal(t, 30, ranger.DeckSize)
	require.NotNil(t, ranger.RoleCard)
	assert.Equal(t, "Prodigy of the Floating Tower", ranger.RoleCard.Name)

	var e errorBody
	code = s.do(t, http.MethodPost, base+"/rangers", s.selection(t), &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "DuplicateCard", e.Code)

	rangerPath := fmt.Sprintf("%s/rangers/%d", base, ranger.ID)
	var trade models.Trade
	code = s.do(t, http.MethodPost, rangerPath+"/trades", gin.H{
		"day_id":           campaign.Days[0].ID,
		"original_card_id": s.cardID(t, "Root Snare"),
		"reward_card_id":   s.cardID(t, "Stave of the Sun"),
	}, &trade)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, trade.RewardCard)
	assert.Equal(t, "Stave of the Sun", trade.RewardCard.Name)

	code = s.do(t, http.MethodPost, rangerPath+"/trades", gin.H{
		"day_id":           campaign.Days[0].ID,
		"original_card_id": s.cardID(t, "Root Snare"),
		"reward_card_id":   s.cardID(t, "Stave of the Sun"),
	}, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "InsufficientCard", e.Code)

	code = s.do(t, http.MethodGet, rangerPath, nil, &ranger)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 30, ranger.DeckSize)
	require.Len(t, ranger.Trades, 1)

	revertPath := fmt.Sprintf("%s/trades/%d/revert", rangerPath, trade.ID)
	code = s.do(t, http.MethodPost, revertPath, nil, &trade)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, trade.Reverted)

	code = s.do(t, http.MethodPost, revertPath, nil, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "AlreadyReverted", e.Code)

	var rewards []models.RewardEntry
	code = s.do(t, http.MethodGet, base+"/rewards", nil, &rewards)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, rewards, 1)
	assert.Equal(t, "Stave of the Sun", rewards[0].Card.Name)

	var stats struct {
		Stats database.CampaignStats `json:"stats"`
	}
	code = s.do(t, http.MethodGet, base+"/stats", nil, &stats)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, stats.Stats.TotalRangers)
	assert.Equal(t, 1, stats.Stats.RevertedTrades)

	code = s.do(t, http.MethodDelete, fmt.Sprintf("%s/rewards/%d", base, rewards[0].ID), nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCreateRangerValidation(t *testing.T) {
	s := setupServer(t)

	var campaign models.Campaign
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "Valley", "days": 1}, &campaign))
	path := fmt.Sprintf("/api/campaigns/%d/rangers", campaign.ID)

	sel := s.selection(t)
	sel.Awareness = 9

	var e errorBody
	code := s.do(t, http.MethodPost, path, sel, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidStat", e.Code)

	sel = s.selection(t)
	sel.SpecialtyCardIDs = sel.SpecialtyCardIDs[:3]
	code = s.do(t, http.MethodPost, path, sel, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "IncompleteSelection", e.Code)

	var rangers []models.RangerView
	code = s.do(t, http.MethodGet, path, nil, &rangers)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, rangers)
}

func TestMissionFlow(t *testing.T) {
	s := setupServer(t)

	var campaign models.Campaign
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "Valley", "days": 3}, &campaign))
	base := fmt.Sprintf("/api/campaigns/%d", campaign.ID)

	var mission models.Mission
	code := s.do(t, http.MethodPost, base+"/missions", gin.H{"name": "Biscuit Delivery", "max_progress": 3}, &mission)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, mission.DayStartedID)
	assert.Equal(t, campaign.Days[0].ID, *mission.DayStartedID)

	var e errorBody
	code = s.do(t, http.MethodPost, base+"/missions", gin.H{"name": "Too Long", "max_progress": 5}, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidProgress", e.Code)

	code = s.do(t, http.MethodPost, base+"/missions", gin.H{"name": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	path := fmt.Sprintf("%s/missions/%d", base, mission.ID)
	code = s.do(t, http.MethodPatch, path, gin.H{"progress": 2}, &mission)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, mission.Progress)

	code = s.do(t, http.MethodPatch, path, gin.H{"progress": 4}, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "InvalidProgress", e.Code)

	code = s.do(t, http.MethodPatch, path, gin.H{"day_completed_id": campaign.Days[1].ID}, &mission)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, mission.DayCompletedID)
	assert.Equal(t, campaign.Days[1].ID, *mission.DayCompletedID)
	assert.Equal(t, 2, mission.Progress)

	code = s.do(t, http.MethodPatch, base+"/missions/999", gin.H{"progress": 1}, &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NotFound", e.Code)

	var missions []models.Mission
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base+"/missions", nil, &missions))
	require.Len(t, missions, 1)
	assert.Equal(t, "Biscuit Delivery", missions[0].Name)

	var body struct {
		Stats database.CampaignStats `json:"stats"`
	}
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base+"/stats", nil, &body))
	assert.Equal(t, 0, body.Stats.OpenMissions)
	assert.Equal(t, 1, body.Stats.DoneMissions)
}

func TestNotableEventFlow(t *testing.T) {
	s := setupServer(t)

	var campaign models.Campaign
	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/api/campaigns", gin.H{"name": "Valley", "days": 2}, &campaign))
	base := fmt.Sprintf("/api/campaigns/%d", campaign.ID)

	var event models.NotableEvent
	code := s.do(t, http.MethodPost, base+"/events", gin.H{"text": "Met the Oracle", "day_id": campaign.Days[0].ID}, &event)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Met the Oracle", event.Text)

	code = s.do(t, http.MethodPost, base+"/events", gin.H{"text": "", "day_id": campaign.Days[0].ID}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = s.do(t, http.MethodPost, base+"/events", gin.H{"text": "Nowhere"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var e errorBody
	code = s.do(t, http.MethodPost, base+"/events", gin.H{"text": "Nowhere", "day_id": 999}, &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NotFound", e.Code)

	var events []models.NotableEvent
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base+"/events", nil, &events))
	require.Len(t, events, 1)

	path := fmt.Sprintf("%s/events/%d", base, event.ID)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, nil, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil, nil))

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, base+"/events", nil, &events))
	assert.Empty(t, events)
}
