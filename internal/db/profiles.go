package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/diffcalc/internal/config"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Profile is a named instrument configuration stored for reuse across
// sessions.
type Profile struct {
	Name      string                   `json:"name"`
	Geometry  string                   `json:"geometry"`
	Config    *config.InstrumentConfig `json:"config"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// SaveProfile inserts or replaces the profile named by cfg.GetName().
func (db *DB) SaveProfile(cfg *config.InstrumentConfig) (*Profile, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	now := db.now()
	name := cfg.GetName()
	_, err = db.Exec(`
		INSERT INTO instrument_profiles (name, geometry, config_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			geometry = excluded.geometry,
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`, name, cfg.GetGeometry(), string(data), now.UnixNano(), now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to save profile %q: %w", name, err)
	}
	return db.GetProfile(name)
}

func scanProfile(scan func(dest ...interface{}) error) (*Profile, error) {
	var (
		p                Profile
		data             string
		created, updated int64
	)
	if err := scan(&p.Name, &p.Geometry, &data, &created, &updated); err != nil {
		return nil, err
	}
	cfg, err := config.ParseInstrumentConfig([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("stored profile %q: %w", p.Name, err)
	}
	p.Config = cfg
	p.CreatedAt = time.Unix(0, created).UTC()
	p.UpdatedAt = time.Unix(0, updated).UTC()
	return &p, nil
}

// GetProfile returns the named profile or ErrNotFound.
func (db *DB) GetProfile(name string) (*Profile, error) {
	row := db.QueryRow(`
		SELECT name, geometry, config_json, created_at, updated_at
		FROM instrument_profiles WHERE name = ?
	`, name)
	p, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %q: %w", name, err)
	}
	return p, nil
}

// ListProfiles returns every stored profile ordered by name.
func (db *DB) ListProfiles() ([]Profile, error) {
	rows, err := db.Query(`
		SELECT name, geometry, config_json, created_at, updated_at
		FROM instrument_profiles ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes the named profile or returns ErrNotFound.
func (db *DB) DeleteProfile(name string) error {
	res, err := db.Exec(`DELETE FROM instrument_profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %q: %w", name, ErrNotFound)
	}
	return nil
}
