package database

import (
	"database/sql"
	"fmt"

	"rangers/internal/models"
)

type CampaignStats struct {
	CampaignID     int  `json:"campaign_id"`
	TotalRangers   int  `json:"total_rangers"`
	OpenSlots      int  `json:"open_slots"`
	ActiveTrades   int  `json:"active_trades"`
	RevertedTrades int  `json:"reverted_trades"`
	PoolEntries    int  `json:"pool_entries"`
	PoolCards      int  `json:"pool_cards"`
	DaysClosed     int  `json:"days_closed"`
	OpenMissions   int  `json:"open_missions"`
	DoneMissions   int  `json:"completed_missions"`
	NotableEvents  int  `json:"notable_events"`
	CurrentDay     *int `json:"current_day,omitempty"`
}

// RangerTradeCount is one row of the per-ranger trade summary.
type RangerTradeCount struct {
	RangerID     int    `json:"ranger_id"`
	Name         string `json:"name"`
	ActiveTrades int    `json:"active_trades"`
}

func GetCampaignStats(db *sql.DB, campaignID int) (*CampaignStats, error) {
	campaign, err := getCampaign(db, campaignID)
	if err != nil {
		return nil, err
	}

	stats := &CampaignStats{CampaignID: campaignID}

	err = db.QueryRow("SELECT COUNT(*) FROM rangers WHERE campaign_id = ?", campaignID).Scan(&stats.TotalRangers)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranger count: %w", err)
	}
	stats.OpenSlots = campaign.MaxRangers - stats.TotalRangers
	if stats.OpenSlots < 0 {
		stats.OpenSlots = 0
	}

	tradeQuery := `
		SELECT
			COALESCE(SUM(CASE WHEN t.reverted = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN t.reverted = 1 THEN 1 ELSE 0 END), 0)
		FROM ranger_trades t
		JOIN rangers r ON r.id = t.ranger_id
		WHERE r.campaign_id = ?
	`
	err = db.QueryRow(tradeQuery, campaignID).Scan(&stats.ActiveTrades, &stats.RevertedTrades)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade counts: %w", err)
	}

	err = db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(quantity), 0) FROM campaign_rewards WHERE campaign_id = ?",
		campaignID,
	).Scan(&stats.PoolEntries, &stats.PoolCards)
	if err != nil {
		return nil, fmt.Errorf("failed to get reward pool size: %w", err)
	}

	missionQuery := `
		SELECT
			COALESCE(SUM(CASE WHEN day_completed_id IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN day_completed_id IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM missions
		WHERE campaign_id = ?
	`
	err = db.QueryRow(missionQuery, campaignID).Scan(&stats.OpenMissions, &stats.DoneMissions)
	if err != nil {
		return nil, fmt.Errorf("failed to get mission counts: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM notable_events WHERE campaign_id = ?", campaignID).Scan(&stats.NotableEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to get event count: %w", err)
	}

	for _, d := range campaign.Days {
		if d.Status == models.DayCompleted {
			stats.DaysClosed++
		}
	}
	if day := campaign.ActiveDay(); day != nil {
		n := day.DayNumber
		stats.CurrentDay = &n
	}

	return stats, nil
}

// GetRangerTradeCounts lists every ranger of the campaign with the number of
// trades currently applied to their deck, most active first.
func GetRangerTradeCounts(db *sql.DB, campaignID int) ([]RangerTradeCount, error) {
	query := `
		SELECT
			r.id,
			r.name,
			COUNT(t.id) as active_trades
		FROM rangers r
		LEFT JOIN ranger_trades t ON t.ranger_id = r.id AND t.reverted = 0
		WHERE r.campaign_id = ?
		GROUP BY r.id, r.name
		ORDER BY active_trades DESC, r.id
	`

	rows, err := db.Query(query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranger trade counts: %w", err)
	}
	defer rows.Close()

	counts := []RangerTradeCount{}
	for rows.Next() {
		var c RangerTradeCount
		if err := rows.Scan(&c.RangerID, &c.Name, &c.ActiveTrades); err != nil {
			return nil, fmt.Errorf("failed to scan ranger trade count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranger trade counts: %w", err)
	}

	return counts, nil
}
