// ABOUTME: SQLite-backed index for fast campaign/actor/state_kv/cursor queries without replaying the log.
// ABOUTME: Grounded on spec/store/sqlite.go; this index is always rebuildable from the JSONL logs.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

// CampaignRow is a summary row for list queries.
type CampaignRow struct {
	CampaignID string
	Name       string
	TurnOwner  string
	CreatedAt  string
}

// SqliteIndex mirrors campaign/actor/state_kv/cursor data for fast reads. It is a
// queryable cache, not the source of truth: the JSONL logs are authoritative and this
// index can always be rebuilt from them via RebuildFromAggregate.
type SqliteIndex struct {
	db *sql.DB
}

// OpenSqlite opens or creates the engine-wide SQLite index database at the given path.
func OpenSqlite(path string) (*SqliteIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS campaigns (
			campaign_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			turn_owner TEXT NOT NULL,
			ai_only_streak INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS actors (
			campaign_id TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			name TEXT NOT NULL,
			actor_type TEXT NOT NULL,
			is_ai INTEGER NOT NULL,
			PRIMARY KEY (campaign_id, actor_id),
			FOREIGN KEY (campaign_id) REFERENCES campaigns(campaign_id)
		);

		CREATE TABLE IF NOT EXISTS state_kv (
			campaign_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (campaign_id, key),
			FOREIGN KEY (campaign_id) REFERENCES campaigns(campaign_id)
		);

		CREATE TABLE IF NOT EXISTS actor_cursors (
			campaign_id TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			last_seen_event_id TEXT NOT NULL,
			PRIMARY KEY (campaign_id, actor_id),
			FOREIGN KEY (campaign_id) REFERENCES campaigns(campaign_id)
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SqliteIndex{db: db}, nil
}

// Close closes the SQLite database connection.
func (idx *SqliteIndex) Close() error { return idx.db.Close() }

// UpsertCampaign mirrors a campaign's top-level row.
func (idx *SqliteIndex) UpsertCampaign(c core.Campaign) error {
	_, err := idx.db.Exec(
		`INSERT INTO campaigns (campaign_id, name, turn_owner, ai_only_streak, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(campaign_id) DO UPDATE SET
			turn_owner = excluded.turn_owner,
			ai_only_streak = excluded.ai_only_streak`,
		c.ID, c.Name, c.TurnOwner, c.AIOnlyStreak, c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	)
	if err != nil {
		return fmt.Errorf("upsert campaign: %w", err)
	}
	return nil
}

// UpsertActor mirrors one actor row.
func (idx *SqliteIndex) UpsertActor(campaignID string, a core.Actor) error {
	isAI := 0
	if a.IsAI {
		isAI = 1
	}
	_, err := idx.db.Exec(
		`INSERT INTO actors (campaign_id, actor_id, name, actor_type, is_ai)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(campaign_id, actor_id) DO UPDATE SET
			name = excluded.name, actor_type = excluded.actor_type, is_ai = excluded.is_ai`,
		campaignID, a.ID, a.Name, string(a.ActorType), isAI,
	)
	if err != nil {
		return fmt.Errorf("upsert actor: %w", err)
	}
	return nil
}

// UpsertStateKV mirrors one state_kv row.
func (idx *SqliteIndex) UpsertStateKV(campaignID, key, value string) error {
	_, err := idx.db.Exec(
		`INSERT INTO state_kv (campaign_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(campaign_id, key) DO UPDATE SET value = excluded.value`,
		campaignID, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert state_kv: %w", err)
	}
	return nil
}

// UpsertCursor mirrors one actor_cursors row.
func (idx *SqliteIndex) UpsertCursor(campaignID, actorID, lastSeenEventID string) error {
	_, err := idx.db.Exec(
		`INSERT INTO actor_cursors (campaign_id, actor_id, last_seen_event_id) VALUES (?, ?, ?)
		 ON CONFLICT(campaign_id, actor_id) DO UPDATE SET last_seen_event_id = excluded.last_seen_event_id`,
		campaignID, actorID, lastSeenEventID,
	)
	if err != nil {
		return fmt.Errorf("upsert actor_cursor: %w", err)
	}
	return nil
}

// ListCampaigns returns all campaign summary rows ordered by creation time descending.
func (idx *SqliteIndex) ListCampaigns() ([]CampaignRow, error) {
	rows, err := idx.db.Query(
		"SELECT campaign_id, name, turn_owner, created_at FROM campaigns ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []CampaignRow
	for rows.Next() {
		var r CampaignRow
		if err := rows.Scan(&r.CampaignID, &r.Name, &r.TurnOwner, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RebuildFromAggregate re-mirrors every row derivable from a recovered aggregate. Used
// after a JSONL replay to bring the index back in sync with the authoritative log.
func (idx *SqliteIndex) RebuildFromAggregate(agg *core.CampaignAggregate) error {
	state, err := agg.GetState(core.SystemActorID)
	if err != nil {
		return err
	}
	if err := idx.UpsertCampaign(agg.Campaign); err != nil {
		return err
	}
	for _, a := range state.Actors {
		if err := idx.UpsertActor(agg.Campaign.ID, a); err != nil {
			return err
		}
	}
	for k, v := range state.StateKV {
		if err := idx.UpsertStateKV(agg.Campaign.ID, k, v); err != nil {
			return err
		}
	}
	for _, cur := range agg.Cursors {
		if err := idx.UpsertCursor(agg.Campaign.ID, cur.ActorID, cur.LastSeenID); err != nil {
			return err
		}
	}
	return nil
}
