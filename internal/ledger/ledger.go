// Package ledger tracks the daily reading, devotion and prayer activities and
// the calendar events of the user.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"devotional/internal/clock"
	"devotional/internal/errs"
	"devotional/internal/ids"
	"devotional/internal/kv"
	"devotional/internal/models"
	"devotional/internal/notify"
)

// Ledger owns the calendarRecords and calendarEvents collections
type Ledger struct {
	records   *kv.Document[[]models.DayRecord]
	events    *kv.Document[[]models.CalendarEvent]
	cal       *clock.Calendar
	ids       *ids.Generator
	scheduler notify.Scheduler
	logger    *zap.Logger
}

// New creates a ledger. scheduler may be nil, in which case event
// notifications are not registered.
func New(store kv.Store, cal *clock.Calendar, gen *ids.Generator, scheduler notify.Scheduler, logger *zap.Logger) *Ledger {
	return &Ledger{
		records:   kv.NewDocument[[]models.DayRecord](store, kv.KeyCalendarRecords, logger),
		events:    kv.NewDocument[[]models.CalendarEvent](store, kv.KeyCalendarEvents, logger),
		cal:       cal,
		ids:       gen,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Today returns the current date in the ledger's time zone
func (l *Ledger) Today() string {
	return l.cal.Today()
}

func (l *Ledger) validDate(date string) error {
	if _, err := l.cal.ParseDate(date); err != nil {
		return errs.Invalid("date", "expected YYYY-MM-DD")
	}
	return nil
}

// ToggleActivity flips one activity of the record for date, creating the
// record with only that activity set when it does not exist yet.
func (l *Ledger) ToggleActivity(ctx context.Context, date string, kind models.ActivityKind) (models.DayRecord, error) {
	if err := l.validDate(date); err != nil {
		return models.DayRecord{}, err
	}
	if !kind.Valid() {
		return models.DayRecord{}, errs.Invalid("activity", fmt.Sprintf("unknown activity %q", kind))
	}

	var result models.DayRecord
	_, err := l.records.Update(ctx, func(records []models.DayRecord) ([]models.DayRecord, error) {
		i := slices.IndexFunc(records, func(r models.DayRecord) bool { return r.Date == date })
		if i < 0 {
			result = models.DayRecord{Date: date}
			result.Flip(kind)
			return append(records, result), nil
		}
		records[i].Flip(kind)
		result = records[i]
		return records, nil
	})
	if err != nil {
		return models.DayRecord{}, fmt.Errorf("failed to toggle activity: %w", err)
	}

	l.logger.Info("Activity toggled",
		zap.String("date", date),
		zap.String("activity", string(kind)),
		zap.Bool("value", result.Has(kind)),
	)
	return result, nil
}

// Records returns every day record in storage order
func (l *Ledger) Records(ctx context.Context) ([]models.DayRecord, error) {
	records, err := l.records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return slices.Clone(records), nil
}

// Record returns the record of one date
func (l *Ledger) Record(ctx context.Context, date string) (models.DayRecord, bool, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return models.DayRecord{}, false, err
	}
	for _, r := range records {
		if r.Date == date {
			return r, true, nil
		}
	}
	return models.DayRecord{}, false, nil
}

// Progress computes the streak and total days as of now
func (l *Ledger) Progress(ctx context.Context) (models.Progress, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return models.Progress{}, err
	}
	return ComputeProgress(records, l.cal.Now()), nil
}

// Month returns the calendar grid of a month: blank cells up to the first
// weekday, then each day with its record if one exists.
func (l *Ledger) Month(ctx context.Context, year int, month time.Month) ([]models.CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, errs.Invalid("month", "expected 1..12")
	}
	records, err := l.Records(ctx)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]models.DayRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	grid := clock.MonthGrid(year, month)
	days := make([]models.CalendarDay, 0, len(grid))
	for _, d := range grid {
		if d == 0 {
			days = append(days, models.CalendarDay{})
			continue
		}
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(clock.DateLayout)
		day := models.CalendarDay{Day: d, Date: date}
		if r, ok := byDate[date]; ok {
			day.Record = &r
		}
		days = append(days, day)
	}
	return days, nil
}

// EventInput holds the user-supplied fields of a calendar event
type EventInput struct {
	Title           string           `json:"title"`
	Date            string           `json:"date"`
	Time            string           `json:"time,omitempty"`
	Type            models.EventType `json:"type"`
	HasNotification bool             `json:"hasNotification"`
}

func eventNotificationID(id string) string {
	return "event-" + id
}

// AddEvent creates a calendar event. When the event asks for a notification
// and has a time, a one-shot notification is registered; a denied
// permission is reported with errs.ErrPermissionDenied after the event has
// been saved.
func (l *Ledger) AddEvent(ctx context.Context, in EventInput) (models.CalendarEvent, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.CalendarEvent{}, errs.Invalid("title", "must not be empty")
	}
	if err := l.validDate(in.Date); err != nil {
		return models.CalendarEvent{}, err
	}
	if in.Time != "" {
		if _, _, err := clock.ParseClock(in.Time); err != nil {
			return models.CalendarEvent{}, errs.Invalid("time", "expected HH:MM")
		}
	}
	if in.Type == "" {
		in.Type = models.EventGeneric
	}
	if !in.Type.Valid() {
		return models.CalendarEvent{}, errs.Invalid("type", fmt.Sprintf("unknown event type %q", in.Type))
	}

	event := models.CalendarEvent{
		ID:              l.ids.Next(),
		Title:           in.Title,
		Date:            in.Date,
		Time:            in.Time,
		Type:            in.Type,
		HasNotification: in.HasNotification,
	}
	_, err := l.events.Update(ctx, func(events []models.CalendarEvent) ([]models.CalendarEvent, error) {
		return append(events, event), nil
	})
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("failed to add event: %w", err)
	}

	return event, l.scheduleEvent(ctx, event)
}

// eventRegistration returns the one-shot registration of an event that asks
// for a notification and has a time
func (l *Ledger) eventRegistration(event models.CalendarEvent) (notify.Registration, bool) {
	if !event.HasNotification || event.Time == "" {
		return notify.Registration{}, false
	}
	day, err := l.cal.ParseDate(event.Date)
	if err != nil {
		return notify.Registration{}, false
	}
	hour, minute, err := clock.ParseClock(event.Time)
	if err != nil {
		return notify.Registration{}, false
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, l.cal.Location())
	return notify.Registration{
		ID:      eventNotificationID(event.ID),
		Content: notify.Content{Title: "Verso Diário 🕊️", Body: event.Title},
		Trigger: notify.At(at),
	}, true
}

// Registrations returns the notifications of the events that are still ahead
func (l *Ledger) Registrations(ctx context.Context) ([]notify.Registration, error) {
	events, err := l.events.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	now := l.cal.Now()
	var regs []notify.Registration
	for _, e := range events {
		reg, ok := l.eventRegistration(e)
		if ok && reg.Trigger.At.After(now) {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (l *Ledger) scheduleEvent(ctx context.Context, event models.CalendarEvent) error {
	if l.scheduler == nil {
		return nil
	}
	reg, ok := l.eventRegistration(event)
	if !ok {
		return nil
	}

	_, err := l.scheduler.Schedule(ctx, reg.ID, reg.Content, reg.Trigger)
	switch {
	case errors.Is(err, errs.ErrPermissionDenied):
		l.logger.Warn("Notification permission denied, event saved without reminder", zap.String("event_id", event.ID))
		return err
	case err != nil:
		l.logger.Warn("Failed to schedule event notification", zap.Error(err), zap.String("event_id", event.ID))
	}
	return nil
}

// DeleteEvent removes a calendar event and its notification
func (l *Ledger) DeleteEvent(ctx context.Context, id string) error {
	_, err := l.events.Update(ctx, func(events []models.CalendarEvent) ([]models.CalendarEvent, error) {
		i := slices.IndexFunc(events, func(e models.CalendarEvent) bool { return e.ID == id })
		if i < 0 {
			return nil, errs.ErrNotFound
		}
		return slices.Delete(events, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}

	if l.scheduler != nil {
		if err := l.scheduler.Cancel(ctx, eventNotificationID(id)); err != nil {
			l.logger.Warn("Failed to cancel event notification", zap.Error(err), zap.String("event_id", id))
		}
	}
	return nil
}

// Events lists calendar events, optionally only those of one date, ordered
// by date and time
func (l *Ledger) Events(ctx context.Context, date string) ([]models.CalendarEvent, error) {
	events, err := l.events.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	var out []models.CalendarEvent
	for _, e := range events {
		if date == "" || e.Date == date {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b models.CalendarEvent) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Time, b.Time)
	})
	return out, nil
}
