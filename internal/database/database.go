package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// querier is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Initialize opens the database. The pool is limited to one connection:
// sqlite allows a single writer, and it keeps every ledger transaction
// serialized.
func Initialize(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			card_type TEXT NOT NULL,
			source_set TEXT NOT NULL,
			aspect TEXT NOT NULL DEFAULT '',
			cost INTEGER,
			tags TEXT NOT NULL DEFAULT '[]',
			is_expert BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS campaigns (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			max_rangers INTEGER NOT NULL DEFAULT 4,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS campaign_days (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id INTEGER NOT NULL,
			day_number INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'upcoming',
			location TEXT,
			path_terrain TEXT,
			FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
			UNIQUE(campaign_id, day_number)
		)`,
		`CREATE TABLE IF NOT EXISTS campaign_rewards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id INTEGER NOT NULL,
			card_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
			FOREIGN KEY (card_id) REFERENCES cards(id),
			UNIQUE(campaign_id, card_id)
		)`,
		`CREATE TABLE IF NOT EXISTS rangers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			aspect_card_name TEXT NOT NULL,
			awa INTEGER NOT NULL,
			fit INTEGER NOT NULL,
			foc INTEGER NOT NULL,
			spi INTEGER NOT NULL,
			background_set TEXT NOT NULL,
			specialty_set TEXT NOT NULL,
			role_card_id INTEGER NOT NULL,
			outside_interest_card_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
			FOREIGN KEY (role_card_id) REFERENCES cards(id),
			FOREIGN KEY (outside_interest_card_id) REFERENCES cards(id)
		)`,
		`CREATE TABLE IF NOT EXISTS ranger_cards (
			ranger_id INTEGER NOT NULL,
			card_id INTEGER NOT NULL,
			category TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			position INTEGER NOT NULL,
			PRIMARY KEY (ranger_id, card_id),
			FOREIGN KEY (ranger_id) REFERENCES rangers(id) ON DELETE CASCADE,
			FOREIGN KEY (card_id) REFERENCES cards(id)
		)`,
		`CREATE TABLE IF NOT EXISTS ranger_trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ranger_id INTEGER NOT NULL,
			day_id INTEGER NOT NULL,
			original_card_id INTEGER NOT NULL,
			reward_card_id INTEGER NOT NULL,
			reverted BOOLEAN NOT NULL DEFAULT FALSE,
			reverted_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (ranger_id) REFERENCES rangers(id) ON DELETE CASCADE,
			FOREIGN KEY (day_id) REFERENCES campaign_days(id),
			FOREIGN KEY (original_card_id) REFERENCES cards(id),
			FOREIGN KEY (reward_card_id) REFERENCES cards(id)
		)`,
		`CREATE TABLE IF NOT EXISTS missions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			day_started_id INTEGER,
			day_completed_id INTEGER,
			progress INTEGER NOT NULL DEFAULT 0,
			max_progress INTEGER NOT NULL DEFAULT 0 CHECK (max_progress BETWEEN 0 AND 3),
			FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
			FOREIGN KEY (day_started_id) REFERENCES campaign_days(id),
			FOREIGN KEY (day_completed_id) REFERENCES campaign_days(id),
			CHECK (progress BETWEEN 0 AND max_progress)
		)`,
		`CREATE TABLE IF NOT EXISTS notable_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			campaign_id INTEGER NOT NULL,
			day_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (campaign_id) REFERENCES campaigns(id) ON DELETE CASCADE,
			FOREIGN KEY (day_id) REFERENCES campaign_days(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cards_type_set ON cards(card_type, source_set)`,
		`CREATE INDEX IF NOT EXISTS idx_campaign_days_campaign_id ON campaign_days(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_campaign_rewards_campaign_id ON campaign_rewards(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rangers_campaign_id ON rangers(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ranger_trades_ranger_id ON ranger_trades(ranger_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ranger_trades_day_id ON ranger_trades(day_id)`,
		`CREATE INDEX IF NOT EXISTS idx_missions_campaign_id ON missions(campaign_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notable_events_campaign_id ON notable_events(campaign_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	// Databases created before days carried a destination
	if err := addDayDestinationColumns(db); err != nil {
		return fmt.Errorf("failed to add destination columns to campaign_days: %w", err)
	}

	return nil
}

func addDayDestinationColumns(db *sql.DB) error {
	for _, column := range []string{"location", "path_terrain"} {
		var exists bool
		err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('campaign_days') WHERE name = ?", column).Scan(&exists)
		if err != nil {
			return err
		}

		if !exists {
			if _, err := db.Exec("ALTER TABLE campaign_days ADD COLUMN " + column + " TEXT"); err != nil {
				return err
			}
		}
	}

	return nil
}
