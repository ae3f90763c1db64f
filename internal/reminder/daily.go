package reminder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"devotional/internal/errs"
	"devotional/internal/kv"
	"devotional/internal/models"
	"devotional/internal/notify"
)

const defaultUserName = "amigo"

var greetings = []string{
	"Oi %s, já orou hoje?",
	"%s, Deus conhece suas lutas, siga firme.",
	"Que tal ler a Palavra hoje, %s?",
	"%s, você não está sozinho!",
	"Deus tem um propósito para você, %s.",
}

// Greetings returns every greeting the daily notification may carry for name
func Greetings(name string) []string {
	out := make([]string, len(greetings))
	for i, g := range greetings {
		out[i] = fmt.Sprintf(g, name)
	}
	return out
}

// NotificationsEnabled returns the notifications switch. It is off until set.
func (m *Manager) NotificationsEnabled(ctx context.Context) (bool, error) {
	enabled, _, err := kv.GetBool(ctx, m.store, kv.KeyNotificationsEnabled)
	if err != nil {
		m.logger.Error("Failed to read notifications switch", zap.Error(err))
		return false, &errs.StorageError{Op: "read", Key: kv.KeyNotificationsEnabled, Err: err}
	}
	return enabled, nil
}

// SetNotificationsEnabled stores the notifications switch. Turning it off
// cancels every scheduled notification. Turning it on schedules nothing by
// itself; registrations return with the next alarm change or reconciliation.
func (m *Manager) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	if err := kv.SetBool(ctx, m.store, kv.KeyNotificationsEnabled, enabled); err != nil {
		m.logger.Error("Failed to write notifications switch", zap.Error(err))
		return &errs.StorageError{Op: "write", Key: kv.KeyNotificationsEnabled, Err: err}
	}

	m.logger.Info("Notifications switch changed", zap.Bool("enabled", enabled))
	if enabled {
		return nil
	}
	if err := m.scheduler.CancelAll(ctx); err != nil {
		m.logger.Error("Failed to cancel notifications", zap.Error(err))
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}
	return nil
}

// switchedOff reports whether the notifications switch was explicitly turned off
func (m *Manager) switchedOff(ctx context.Context) (bool, error) {
	enabled, found, err := kv.GetBool(ctx, m.store, kv.KeyNotificationsEnabled)
	if err != nil {
		m.logger.Error("Failed to read notifications switch", zap.Error(err))
		return false, &errs.StorageError{Op: "read", Key: kv.KeyNotificationsEnabled, Err: err}
	}
	return found && !enabled, nil
}

// ScheduleDaily registers the daily greeting at hour:minute, replacing the
// previous one. The time is stored so reconciliation restores the greeting.
// The greeting is picked at random and addresses the stored user name.
func (m *Manager) ScheduleDaily(ctx context.Context, hour, minute int) (notify.Registration, error) {
	daily := models.DailyNotification{Hour: hour, Minute: minute}
	if err := notify.Daily(hour, minute).Validate(); err != nil {
		return notify.Registration{}, errs.Invalid("time", err.Error())
	}

	reg, err := m.dailyRegistration(ctx, daily)
	if err != nil {
		return notify.Registration{}, err
	}
	if err := kv.SetJSON(ctx, m.store, kv.KeyDailyNotification, daily); err != nil {
		m.logger.Error("Failed to write daily notification", zap.Error(err))
		return notify.Registration{}, &errs.StorageError{Op: "write", Key: kv.KeyDailyNotification, Err: err}
	}
	if err := m.register(ctx, []notify.Registration{reg}); err != nil {
		return reg, err
	}
	return reg, nil
}

// dailySchedule returns the stored daily greeting time, if any
func (m *Manager) dailySchedule(ctx context.Context) (models.DailyNotification, bool, error) {
	var daily models.DailyNotification
	found, err := kv.GetJSON(ctx, m.store, kv.KeyDailyNotification, &daily)
	if err != nil {
		m.logger.Error("Failed to read daily notification", zap.Error(err))
		return daily, false, &errs.StorageError{Op: "read", Key: kv.KeyDailyNotification, Err: err}
	}
	return daily, found, nil
}

func (m *Manager) dailyRegistration(ctx context.Context, daily models.DailyNotification) (notify.Registration, error) {
	name, ok, err := m.store.Get(ctx, kv.KeyUserName)
	if err != nil {
		m.logger.Error("Failed to read user name", zap.Error(err))
		return notify.Registration{}, &errs.StorageError{Op: "read", Key: kv.KeyUserName, Err: err}
	}
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		name = defaultUserName
	}

	options := Greetings(name)
	return notify.Registration{
		ID:      DailyGreetingID,
		Content: notify.Content{Title: dailyTitle, Body: options[m.pick(len(options))]},
		Trigger: notify.Daily(daily.Hour, daily.Minute),
	}, nil
}
