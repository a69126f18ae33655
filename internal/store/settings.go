package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/spf13/cast"
)

// Setting keys recognized by the application.
const (
	KeyThresholdSeconds = "touch_threshold_seconds"
	KeyProximityMargin  = "proximity_threshold"
	KeyEnableSound      = "enable_sound"
)

// Setting defaults, matching the detector's documented behavior.
const (
	DefaultThresholdSeconds = 1.0
	DefaultProximityMargin  = 0.08
	DefaultEnableSound      = true
)

// SettingsRepository provides typed access to the settings table. Values
// are stored as text and converted on read; a missing or malformed value
// falls back to its default.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a raw setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set inserts or updates a setting value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now(),
	)
	return err
}

// Threshold returns the stored alert threshold, or the default.
func (r *SettingsRepository) Threshold() time.Duration {
	seconds := r.float(KeyThresholdSeconds, DefaultThresholdSeconds)
	if seconds <= 0 {
		seconds = DefaultThresholdSeconds
	}
	return time.Duration(seconds * float64(time.Second))
}

// SetThreshold stores the alert threshold.
func (r *SettingsRepository) SetThreshold(d time.Duration) error {
	return r.Set(KeyThresholdSeconds, cast.ToString(d.Seconds()))
}

// Margin returns the stored proximity margin, or the default.
func (r *SettingsRepository) Margin() float64 {
	margin := r.float(KeyProximityMargin, DefaultProximityMargin)
	if margin <= 0 || margin > 1 {
		margin = DefaultProximityMargin
	}
	return margin
}

// SetMargin stores the proximity margin.
func (r *SettingsRepository) SetMargin(margin float64) error {
	return r.Set(KeyProximityMargin, cast.ToString(margin))
}

// SoundEnabled returns the stored sound toggle, or the default.
func (r *SettingsRepository) SoundEnabled() bool {
	value, err := r.Get(KeyEnableSound)
	if err != nil {
		return DefaultEnableSound
	}
	enabled, err := cast.ToBoolE(value)
	if err != nil {
		return DefaultEnableSound
	}
	return enabled
}

// SetSoundEnabled stores the sound toggle.
func (r *SettingsRepository) SetSoundEnabled(enabled bool) error {
	return r.Set(KeyEnableSound, cast.ToString(enabled))
}

// float reads a setting and converts it, falling back on any error.
func (r *SettingsRepository) float(key string, fallback float64) float64 {
	value, err := r.Get(key)
	if err != nil {
		return fallback
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return fallback
	}
	return f
}
