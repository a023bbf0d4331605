// Package prefs persists per-profile scoring preferences in SQLite:
// the MCDA weights and the listing filters a user has tuned. Listings
// themselves are never persisted; they are re-extracted from the live
// page, so only the small preference records survive restarts.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/seatwatch/mcda"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	profile      TEXT PRIMARY KEY,
	weights_json TEXT NOT NULL,
	filters_json TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);`

// DefaultProfile is the profile name used when the caller has none.
const DefaultProfile = "default"

// Filters narrow which listings are surfaced to the user. Zero values
// mean "no constraint".
type Filters struct {
	// MaxPrice hides listings priced above it.
	MaxPrice float64 `json:"max_price" yaml:"max_price"`
	// MinTier hides listings with a worse (numerically higher) tier.
	MinTier int `json:"min_tier" yaml:"min_tier"`
	// Sections restricts to the named sections when non-empty.
	Sections []string `json:"sections" yaml:"sections"`
}

// Preferences is one profile's tuning state.
type Preferences struct {
	Weights mcda.Weights `json:"weights" yaml:"weights"`
	Filters Filters      `json:"filters" yaml:"filters"`
}

// DefaultPreferences returns equal weights and open filters.
func DefaultPreferences() Preferences {
	return Preferences{Weights: mcda.DefaultWeights()}
}

// Store is the SQLite-backed preference store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at path, applying the WAL
// and busy-timeout pragmas before the schema. Parent directories are
// created so a fresh config pointing into ~/.local works out of the
// box.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("prefs: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("prefs: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("prefs: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: schema: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prefs: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Load returns the stored preferences for profile, or the defaults when
// the profile has never been saved.
func (s *Store) Load(ctx context.Context, profile string) (Preferences, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	var weightsJSON, filtersJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT weights_json, filters_json FROM preferences WHERE profile = ?`,
		profile).Scan(&weightsJSON, &filtersJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("prefs: load %s: %w", profile, err)
	}

	var p Preferences
	if err := json.Unmarshal([]byte(weightsJSON), &p.Weights); err != nil {
		return Preferences{}, fmt.Errorf("prefs: decode weights for %s: %w", profile, err)
	}
	if err := json.Unmarshal([]byte(filtersJSON), &p.Filters); err != nil {
		return Preferences{}, fmt.Errorf("prefs: decode filters for %s: %w", profile, err)
	}
	return p, nil
}

// Save upserts the preferences for profile.
func (s *Store) Save(ctx context.Context, profile string, p Preferences) error {
	if profile == "" {
		profile = DefaultProfile
	}

	weightsJSON, err := json.Marshal(p.Weights)
	if err != nil {
		return fmt.Errorf("prefs: encode weights: %w", err)
	}
	filtersJSON, err := json.Marshal(p.Filters)
	if err != nil {
		return fmt.Errorf("prefs: encode filters: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (profile, weights_json, filters_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			weights_json = excluded.weights_json,
			filters_json = excluded.filters_json,
			updated_at   = excluded.updated_at`,
		profile, string(weightsJSON), string(filtersJSON),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("prefs: save %s: %w", profile, err)
	}
	return nil
}

// Profiles lists every saved profile name.
func (s *Store) Profiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT profile FROM preferences ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("prefs: list profiles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("prefs: scan profile: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
