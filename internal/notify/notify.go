// Package notify defines the notification scheduler used by the reminder
// manager and the trigger arithmetic shared by its implementations.
package notify

import (
	"context"
	"fmt"
	"time"

	"devotional/internal/errs"
)

// ErrPermissionDenied is returned by Schedule when notifications are not allowed
var ErrPermissionDenied = errs.ErrPermissionDenied

// Permission is the state of the notification permission
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

// Content is what the user sees when a notification fires
type Content struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound,omitempty"`
}

// TriggerKind selects how a trigger repeats
type TriggerKind string

const (
	TriggerDaily  TriggerKind = "daily"
	TriggerWeekly TriggerKind = "weekly"
	TriggerAt     TriggerKind = "at"
)

// Trigger describes when a notification fires. Weekday uses 0 = Sunday.
type Trigger struct {
	Kind    TriggerKind `json:"kind"`
	Weekday int         `json:"weekday,omitempty"`
	Hour    int         `json:"hour"`
	Minute  int         `json:"minute"`
	At      time.Time   `json:"at,omitzero"`
}

// Daily fires every day at hour:minute
func Daily(hour, minute int) Trigger {
	return Trigger{Kind: TriggerDaily, Hour: hour, Minute: minute}
}

// Weekly fires every week on weekday at hour:minute
func Weekly(weekday, hour, minute int) Trigger {
	return Trigger{Kind: TriggerWeekly, Weekday: weekday, Hour: hour, Minute: minute}
}

// At fires once at t
func At(t time.Time) Trigger {
	return Trigger{Kind: TriggerAt, At: t, Hour: t.Hour(), Minute: t.Minute()}
}

// Validate checks the trigger fields
func (t Trigger) Validate() error {
	switch t.Kind {
	case TriggerDaily, TriggerWeekly:
		if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("invalid time %02d:%02d", t.Hour, t.Minute)
		}
		if t.Kind == TriggerWeekly && (t.Weekday < 0 || t.Weekday > 6) {
			return fmt.Errorf("invalid weekday %d", t.Weekday)
		}
	case TriggerAt:
		if t.At.IsZero() {
			return fmt.Errorf("missing time for one-shot trigger")
		}
	default:
		return fmt.Errorf("unknown trigger kind %q", t.Kind)
	}
	return nil
}

// Next returns the first firing time strictly after after, evaluated in loc.
// It reports false when a one-shot trigger is already in the past.
func (t Trigger) Next(after time.Time, loc *time.Location) (time.Time, bool) {
	local := after.In(loc)
	switch t.Kind {
	case TriggerAt:
		if t.At.After(after) {
			return t.At, true
		}
		return time.Time{}, false
	case TriggerDaily:
		next := time.Date(local.Year(), local.Month(), local.Day(), t.Hour, t.Minute, 0, 0, loc)
		if !next.After(local) {
			next = time.Date(local.Year(), local.Month(), local.Day()+1, t.Hour, t.Minute, 0, 0, loc)
		}
		return next, true
	case TriggerWeekly:
		days := (t.Weekday - int(local.Weekday()) + 7) % 7
		next := time.Date(local.Year(), local.Month(), local.Day()+days, t.Hour, t.Minute, 0, 0, loc)
		if !next.After(local) {
			next = time.Date(local.Year(), local.Month(), local.Day()+days+7, t.Hour, t.Minute, 0, 0, loc)
		}
		return next, true
	}
	return time.Time{}, false
}

// Repeats reports whether the trigger fires more than once
func (t Trigger) Repeats() bool {
	return t.Kind == TriggerDaily || t.Kind == TriggerWeekly
}

// Registration is one scheduled notification
type Registration struct {
	ID      string  `json:"id"`
	Content Content `json:"content"`
	Trigger Trigger `json:"trigger"`
}

// Scheduler registers and cancels notifications
type Scheduler interface {
	// Schedule registers a notification and returns its handle. An empty id
	// gets a generated handle; an existing id is replaced.
	Schedule(ctx context.Context, id string, content Content, trigger Trigger) (string, error)
	// Cancel removes the registration with the given id, if any
	Cancel(ctx context.Context, id string) error
	// CancelAll removes every registration
	CancelAll(ctx context.Context) error
	// Permission returns the current permission without prompting
	Permission(ctx context.Context) (Permission, error)
	// RequestPermission asks for permission and returns the outcome
	RequestPermission(ctx context.Context) (Permission, error)
}
