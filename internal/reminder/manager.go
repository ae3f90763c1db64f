// Package reminder manages custom alarms, the built-in morning and night
// reminders and the daily greeting, and keeps the notification scheduler in
// sync with them.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"go.uber.org/zap"

	"devotional/internal/clock"
	"devotional/internal/errs"
	"devotional/internal/ids"
	"devotional/internal/kv"
	"devotional/internal/models"
	"devotional/internal/notify"
)

// DefaultDays are the weekdays of a new alarm, Monday to Friday
var DefaultDays = []int{1, 2, 3, 4, 5}

// Source contributes registrations owned by another component, such as
// calendar event reminders, to a reconciliation
type Source interface {
	Registrations(ctx context.Context) ([]notify.Registration, error)
}

// Manager owns the alarms and presets collections
type Manager struct {
	alarms  *kv.Document[[]models.Alarm]
	presets map[models.PresetKind]*kv.Document[models.PresetAlarm]
	store   kv.Store
	sources []Source

	scheduler notify.Scheduler
	ids       *ids.Generator
	logger    *zap.Logger
	pick      func(n int) int
}

// New creates a reminder manager
func New(store kv.Store, scheduler notify.Scheduler, gen *ids.Generator, logger *zap.Logger) *Manager {
	return &Manager{
		alarms: kv.NewDocument[[]models.Alarm](store, kv.KeyAlarms, logger),
		presets: map[models.PresetKind]*kv.Document[models.PresetAlarm]{
			models.PresetMorning: kv.NewDocument[models.PresetAlarm](store, kv.KeyMorningPresetAlarm, logger),
			models.PresetNight:   kv.NewDocument[models.PresetAlarm](store, kv.KeyNightPresetAlarm, logger),
		},
		store:     store,
		scheduler: scheduler,
		ids:       gen,
		logger:    logger,
		pick:      rand.IntN,
	}
}

// AddSource includes src in every following reconciliation
func (m *Manager) AddSource(src Source) {
	m.sources = append(m.sources, src)
}

// AlarmInput holds the editable fields of an alarm. An empty ID creates a new
// alarm. Enabled defaults to true, Sound to gentle and Days to Monday..Friday.
type AlarmInput struct {
	ID      string       `json:"id,omitempty"`
	Time    string       `json:"time"`
	Message string       `json:"message"`
	Sound   models.Sound `json:"sound,omitempty"`
	Days    []int        `json:"days,omitempty"`
	Enabled *bool        `json:"enabled,omitempty"`
}

func (in AlarmInput) alarm() (models.Alarm, error) {
	a := models.Alarm{
		ID:      in.ID,
		Time:    strings.TrimSpace(in.Time),
		Message: strings.TrimSpace(in.Message),
		Sound:   in.Sound,
		Enabled: in.Enabled == nil || *in.Enabled,
	}
	if a.Time == "" {
		return a, errs.Invalid("time", "must not be empty")
	}
	if _, _, err := clock.ParseClock(a.Time); err != nil {
		return a, errs.Invalid("time", "expected HH:MM")
	}
	if a.Message == "" {
		return a, errs.Invalid("message", "must not be empty")
	}
	if a.Sound == "" {
		a.Sound = models.SoundGentle
	}
	if !a.Sound.Valid() {
		return a, errs.Invalid("sound", fmt.Sprintf("unknown sound %q", a.Sound))
	}

	days := in.Days
	if days == nil {
		days = DefaultDays
	}
	for _, d := range days {
		if d < 0 || d > 6 {
			return a, errs.Invalid("days", fmt.Sprintf("weekday %d out of range 0..6", d))
		}
	}
	a.Days = slices.Compact(slices.Sorted(slices.Values(days)))
	return a, nil
}

// SaveAlarm validates and stores an alarm, then schedules it when enabled.
// Editing an alarm first cancels its previous registrations. When the
// notification permission is denied the saved alarm is returned together with
// errs.ErrPermissionDenied.
func (m *Manager) SaveAlarm(ctx context.Context, in AlarmInput) (models.Alarm, error) {
	alarm, err := in.alarm()
	if err != nil {
		return models.Alarm{}, err
	}

	editing := alarm.ID != ""
	if !editing {
		alarm.ID = m.ids.Next()
	}
	_, err = m.alarms.Update(ctx, func(alarms []models.Alarm) ([]models.Alarm, error) {
		if !editing {
			return append(alarms, alarm), nil
		}
		i := slices.IndexFunc(alarms, func(a models.Alarm) bool { return a.ID == alarm.ID })
		if i < 0 {
			return nil, errs.ErrNotFound
		}
		alarms[i] = alarm
		return alarms, nil
	})
	if err != nil {
		return models.Alarm{}, fmt.Errorf("failed to save alarm: %w", err)
	}

	m.logger.Info("Alarm saved",
		zap.String("alarm_id", alarm.ID),
		zap.String("time", alarm.Time),
		zap.Ints("days", alarm.Days),
		zap.Bool("enabled", alarm.Enabled),
	)

	if editing {
		m.cancelAlarm(ctx, alarm.ID)
	}
	return alarm, m.ScheduleAlarm(ctx, alarm)
}

func (m *Manager) cancelAlarm(ctx context.Context, id string) {
	for day := 0; day <= 6; day++ {
		if err := m.scheduler.Cancel(ctx, AlarmNotificationID(id, day)); err != nil {
			m.logger.Warn("Failed to cancel alarm notification", zap.Error(err), zap.String("alarm_id", id), zap.Int("weekday", day))
		}
	}
}

// ScheduleAlarm registers one weekly notification per weekday of an enabled
// alarm. Disabled alarms are ignored.
func (m *Manager) ScheduleAlarm(ctx context.Context, alarm models.Alarm) error {
	return m.register(ctx, AlarmRegistrations(alarm))
}

// register schedules regs in order. A denied permission stops at the first
// registration and is returned; other failures are logged and the first one
// is returned after the remaining registrations were attempted.
func (m *Manager) register(ctx context.Context, regs []notify.Registration) error {
	var firstErr error
	for _, reg := range regs {
		_, err := m.scheduler.Schedule(ctx, reg.ID, reg.Content, reg.Trigger)
		if errors.Is(err, errs.ErrPermissionDenied) {
			m.logger.Warn("Notification permission denied, reminders will fire once it is granted", zap.String("id", reg.ID))
			return err
		}
		if err != nil {
			m.logger.Error("Failed to schedule notification", zap.Error(err), zap.String("id", reg.ID))
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to schedule %s: %w", reg.ID, err)
			}
		}
	}
	return firstErr
}

// ToggleAlarm flips the enabled flag of an alarm. Enabling schedules it;
// disabling reconciles the whole schedule.
func (m *Manager) ToggleAlarm(ctx context.Context, id string) (models.Alarm, error) {
	var toggled models.Alarm
	_, err := m.alarms.Update(ctx, func(alarms []models.Alarm) ([]models.Alarm, error) {
		i := slices.IndexFunc(alarms, func(a models.Alarm) bool { return a.ID == id })
		if i < 0 {
			return nil, errs.ErrNotFound
		}
		alarms[i].Enabled = !alarms[i].Enabled
		toggled = alarms[i]
		return alarms, nil
	})
	if err != nil {
		return models.Alarm{}, fmt.Errorf("failed to toggle alarm %s: %w", id, err)
	}

	m.logger.Info("Alarm toggled", zap.String("alarm_id", id), zap.Bool("enabled", toggled.Enabled))
	if toggled.Enabled {
		return toggled, m.ScheduleAlarm(ctx, toggled)
	}
	return toggled, m.Reconcile(ctx)
}

// DeleteAlarm removes an alarm and reconciles the schedule
func (m *Manager) DeleteAlarm(ctx context.Context, id string) error {
	_, err := m.alarms.Update(ctx, func(alarms []models.Alarm) ([]models.Alarm, error) {
		i := slices.IndexFunc(alarms, func(a models.Alarm) bool { return a.ID == id })
		if i < 0 {
			return nil, errs.ErrNotFound
		}
		return slices.Delete(alarms, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete alarm %s: %w", id, err)
	}

	m.logger.Info("Alarm deleted", zap.String("alarm_id", id))
	return m.Reconcile(ctx)
}

// ListAlarms returns the alarms in creation order
func (m *Manager) ListAlarms(ctx context.Context) ([]models.Alarm, error) {
	alarms, err := m.alarms.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alarms: %w", err)
	}
	return slices.Clone(alarms), nil
}

// Alarm returns one alarm by id
func (m *Manager) Alarm(ctx context.Context, id string) (models.Alarm, error) {
	alarms, err := m.ListAlarms(ctx)
	if err != nil {
		return models.Alarm{}, err
	}
	for _, a := range alarms {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Alarm{}, errs.ErrNotFound
}

// Reconcile cancels every registration and registers the stored enabled
// alarms, presets and daily greeting again, followed by the registrations of
// the added sources. When the notifications switch is off nothing is
// registered. Nothing is cancelled when the desired set cannot be loaded.
func (m *Manager) Reconcile(ctx context.Context) error {
	alarms, err := m.alarms.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load alarms: %w", err)
	}
	presets, err := m.Presets(ctx)
	if err != nil {
		return err
	}
	off, err := m.switchedOff(ctx)
	if err != nil {
		return err
	}

	var plan []notify.Registration
	if !off {
		plan = Plan(alarms, presets)
		daily, found, err := m.dailySchedule(ctx)
		if err != nil {
			return err
		}
		if found {
			reg, err := m.dailyRegistration(ctx, daily)
			if err != nil {
				return err
			}
			plan = append(plan, reg)
		}
		for _, src := range m.sources {
			regs, err := src.Registrations(ctx)
			if err != nil {
				return fmt.Errorf("failed to collect registrations: %w", err)
			}
			plan = append(plan, regs...)
		}
	}

	if err := m.scheduler.CancelAll(ctx); err != nil {
		m.logger.Error("Failed to cancel notifications", zap.Error(err))
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}

	if off {
		m.logger.Info("Notifications switched off, nothing to reconcile")
		return nil
	}
	m.logger.Info("Reconciling notifications", zap.Int("registrations", len(plan)))
	return m.register(ctx, plan)
}

// Permission returns the current notification permission
func (m *Manager) Permission(ctx context.Context) (notify.Permission, error) {
	return m.scheduler.Permission(ctx)
}

// RequestPermission asks for the notification permission and reconciles the
// schedule when it is granted, so reminders saved while it was denied start
// firing
func (m *Manager) RequestPermission(ctx context.Context) (notify.Permission, error) {
	perm, err := m.scheduler.RequestPermission(ctx)
	if err != nil {
		return perm, fmt.Errorf("failed to request permission: %w", err)
	}
	if perm != notify.PermissionGranted {
		m.logger.Warn("Notification permission not granted", zap.String("permission", string(perm)))
		return perm, nil
	}
	return perm, m.Reconcile(ctx)
}
