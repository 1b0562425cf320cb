package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vidaplena/coherence-engine/internal/activity"
	"github.com/vidaplena/coherence-engine/internal/ledger"
	"github.com/vidaplena/coherence-engine/internal/vector"
)

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS aggregate_state (
	id                INTEGER PRIMARY KEY CHECK (id = 1),
	vector            BLOB NOT NULL,
	coherence_points  INTEGER NOT NULL,
	coherence_streak  INTEGER NOT NULL,
	last_activity_at  TEXT,
	total_combos      INTEGER NOT NULL,
	active_combo      TEXT,
	active_quest      TEXT,
	saved_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_log (
	entry_id     TEXT PRIMARY KEY,
	position     INTEGER NOT NULL,
	entry_json   TEXT NOT NULL,
	ts           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS achievements (
	achievement_id TEXT PRIMARY KEY,
	unlocked_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS completed_quests (
	quest_id   TEXT PRIMARY KEY,
	quest_json TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store persists the gamification aggregate in SQLite. Only the persisted
// subset is written: derived fields (score, level, recommendation) are
// recomputed on load, and transient fields are never stored.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by inspection tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion store-struct

// #region save

// Save writes the aggregate's persisted subset in one transaction. The log
// is replaced wholesale; it is capped at 100 entries by the ledger.
func (s *Store) Save(agg ledger.Aggregate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	comboJSON, err := marshalNullable(agg.ActiveCombo)
	if err != nil {
		return fmt.Errorf("marshal combo: %w", err)
	}
	questJSON, err := marshalNullable(agg.ActiveQuest)
	if err != nil {
		return fmt.Errorf("marshal quest: %w", err)
	}

	var lastAt interface{}
	if !agg.LastActivityAt.IsZero() {
		lastAt = agg.LastActivityAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = tx.Exec(
		`INSERT INTO aggregate_state
		 (id, vector, coherence_points, coherence_streak, last_activity_at, total_combos, active_combo, active_quest, saved_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   vector = excluded.vector,
		   coherence_points = excluded.coherence_points,
		   coherence_streak = excluded.coherence_streak,
		   last_activity_at = excluded.last_activity_at,
		   total_combos = excluded.total_combos,
		   active_combo = excluded.active_combo,
		   active_quest = excluded.active_quest,
		   saved_at = excluded.saved_at`,
		vector.Encode(agg.Vector), agg.CoherencePoints, agg.CoherenceStreak,
		lastAt, agg.TotalCombos, comboJSON, questJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert aggregate: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM activity_log`); err != nil {
		return fmt.Errorf("clear log: %w", err)
	}
	for i, e := range agg.Log {
		entryJSON, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %s: %w", e.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO activity_log (entry_id, position, entry_json, ts) VALUES (?, ?, ?, ?)`,
			e.ID, i, string(entryJSON), e.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM achievements`); err != nil {
		return fmt.Errorf("clear achievements: %w", err)
	}
	for id, at := range agg.Achievements {
		_, err = tx.Exec(
			`INSERT INTO achievements (achievement_id, unlocked_at) VALUES (?, ?)`,
			id, at.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert achievement: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM completed_quests`); err != nil {
		return fmt.Errorf("clear quests: %w", err)
	}
	for _, q := range agg.CompletedQuests {
		questJSON, err := json.Marshal(q)
		if err != nil {
			return fmt.Errorf("marshal quest %s: %w", q.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO completed_quests (quest_id, quest_json) VALUES (?, ?)`,
			q.ID, string(questJSON),
		)
		if err != nil {
			return fmt.Errorf("insert quest: %w", err)
		}
	}

	return tx.Commit()
}

// #endregion save

// #region load

// Load reads the persisted subset back. found is false on a fresh database;
// the caller should seed a new aggregate. The coherence level is left at
// zero here: it is derived state and the ledger recomputes it from points.
func (s *Store) Load() (agg ledger.Aggregate, found bool, err error) {
	agg = ledger.NewAggregate()

	var vecBlob []byte
	var lastAt sql.NullString
	var comboJSON, questJSON sql.NullString
	row := s.db.QueryRow(
		`SELECT vector, coherence_points, coherence_streak, last_activity_at, total_combos, active_combo, active_quest
		 FROM aggregate_state WHERE id = 1`,
	)
	err = row.Scan(&vecBlob, &agg.CoherencePoints, &agg.CoherenceStreak,
		&lastAt, &agg.TotalCombos, &comboJSON, &questJSON)
	if err == sql.ErrNoRows {
		return agg, false, nil
	}
	if err != nil {
		return agg, false, fmt.Errorf("load aggregate: %w", err)
	}

	agg.Vector = vector.Decode(vecBlob)
	if lastAt.Valid {
		agg.LastActivityAt, _ = time.Parse(time.RFC3339Nano, lastAt.String)
	}
	if comboJSON.Valid {
		var c ledger.Combo
		if err := json.Unmarshal([]byte(comboJSON.String), &c); err == nil {
			agg.ActiveCombo = &c
		}
	}
	if questJSON.Valid {
		var q ledger.Quest
		if err := json.Unmarshal([]byte(questJSON.String), &q); err == nil {
			agg.ActiveQuest = &q
		}
	}

	if agg.Log, err = s.loadLog(); err != nil {
		return agg, false, err
	}
	if agg.Achievements, err = s.loadAchievements(); err != nil {
		return agg, false, err
	}
	if agg.CompletedQuests, err = s.loadCompletedQuests(); err != nil {
		return agg, false, err
	}
	return agg, true, nil
}

func (s *Store) loadLog() ([]activity.LogEntry, error) {
	rows, err := s.db.Query(`SELECT entry_json FROM activity_log ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	defer rows.Close()

	var entries []activity.LogEntry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		var e activity.LogEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) loadAchievements() (map[string]time.Time, error) {
	rows, err := s.db.Query(`SELECT achievement_id, unlocked_at FROM achievements`)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		ts, _ := time.Parse(time.RFC3339Nano, at)
		out[id] = ts
	}
	return out, rows.Err()
}

func (s *Store) loadCompletedQuests() ([]ledger.Quest, error) {
	rows, err := s.db.Query(`SELECT quest_json FROM completed_quests`)
	if err != nil {
		return nil, fmt.Errorf("load quests: %w", err)
	}
	defer rows.Close()

	var out []ledger.Quest
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		var q ledger.Quest
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return nil, fmt.Errorf("unmarshal quest: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// #endregion load

// #region capacity

// IsCapacityError reports whether err looks like storage exhaustion. The
// caller is expected to ask the ledger to prune its oldest history and
// retry the save once.
func IsCapacityError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "sqlite_full") ||
		strings.Contains(msg, "no space left")
}

// #endregion capacity

func marshalNullable(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case *ledger.Combo:
		if x == nil {
			return nil, nil
		}
	case *ledger.Quest:
		if x == nil {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
