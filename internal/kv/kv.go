package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store defines the string-keyed persistence used by every component.
// Values are opaque strings; collections are stored as JSON blobs.
type Store interface {
	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value atomically
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error
	Remove(ctx context.Context, key string) error

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}

// Keys of the persisted collections and settings
const (
	KeyCalendarRecords      = "calendarRecords"
	KeyCalendarEvents       = "calendarEvents"
	KeyNotes                = "notes"
	KeyAlarms               = "alarms"
	KeyMorningPresetAlarm   = "morningPresetAlarm"
	KeyNightPresetAlarm     = "nightPresetAlarm"
	KeyHymnFavorites        = "hymnFavorites"
	KeyHymnRecents          = "hymnRecents"
	KeyFavoriteVerses       = "favoriteVerses"
	KeyHighlightedVerses    = "highlightedVerses"
	KeySavedVerseNotes      = "savedVerseNotes"
	KeyNotificationsEnabled = "notificationsEnabled"
	KeyDailyNotification    = "dailyNotification"
	KeyUserName             = "userName"
	KeyMemberSince          = "memberSince"
	KeyProfileImage         = "profileImage"
	KeyHasOnboarded         = "hasOnboarded"
	KeyThemeName            = "themeName"
	KeyAutoTheme            = "autoTheme"
)

// GetJSON decodes the value under key into dst. It reports false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}

// GetBool reads a flag stored as "true"/"false"
func GetBool(ctx context.Context, s Store, key string) (value, found bool, err error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, false, err
	}
	return raw == "true", true, nil
}

// SetBool stores a flag as "true"/"false"
func SetBool(ctx context.Context, s Store, key string, value bool) error {
	if value {
		return s.Set(ctx, key, "true")
	}
	return s.Set(ctx, key, "false")
}
