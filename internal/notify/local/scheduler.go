// Package local runs notifications inside the service process: registrations
// sit in a time-ordered heap and a ticker loop hands due ones to a Deliverer.
package local

import (
	"container/heap"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"devotional/internal/notify"
)

// DefaultTick is how often due notifications are checked
const DefaultTick = 20 * time.Second

// Deliverer sends a fired notification to the user
type Deliverer interface {
	Deliver(ctx context.Context, reg notify.Registration) error
}

// Pending is a registration together with its next firing time
type Pending struct {
	notify.Registration
	NextAt time.Time `json:"nextAt"`
}

// Scheduler is an in-process notify.Scheduler. Without a deliverer it
// reports the permission as denied.
type Scheduler struct {
	mu        sync.Mutex
	clk       clock.Clock
	loc       *time.Location
	deliverer Deliverer
	queue     *queue
	logger    *zap.Logger
}

// NewScheduler creates a scheduler evaluating triggers in loc
func NewScheduler(clk clock.Clock, loc *time.Location, deliverer Deliverer, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		clk:       clk,
		loc:       loc,
		deliverer: deliverer,
		queue:     newQueue(),
		logger:    logger,
	}
}

// Schedule registers a notification
func (s *Scheduler) Schedule(ctx context.Context, id string, content notify.Content, trigger notify.Trigger) (string, error) {
	if s.deliverer == nil {
		return "", notify.ErrPermissionDenied
	}
	if err := trigger.Validate(); err != nil {
		return "", fmt.Errorf("failed to schedule notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	at, ok := trigger.Next(s.clk.Now(), s.loc)
	if !ok {
		return "", fmt.Errorf("failed to schedule notification: trigger time %s is in the past", trigger.At.Format(time.RFC3339))
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.queue.Delete(id)
	heap.Push(s.queue, &entry{
		reg: notify.Registration{ID: id, Content: content, Trigger: trigger},
		at:  at,
	})

	s.logger.Debug("Notification scheduled",
		zap.String("id", id),
		zap.String("kind", string(trigger.Kind)),
		zap.Time("next_at", at),
	)
	return id, nil
}

// Cancel removes the registration with the given id
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Delete(id)
	return nil
}

// CancelAll removes every registration
func (s *Scheduler) CancelAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = newQueue()
	return nil
}

// Permission is granted when a deliverer is configured
func (s *Scheduler) Permission(ctx context.Context) (notify.Permission, error) {
	if s.deliverer == nil {
		return notify.PermissionDenied, nil
	}
	return notify.PermissionGranted, nil
}

// RequestPermission cannot prompt anyone; it reports the current state
func (s *Scheduler) RequestPermission(ctx context.Context) (notify.Permission, error) {
	return s.Permission(ctx)
}

// Pending lists the live registrations ordered by next firing time
func (s *Scheduler) Pending() []Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Pending, 0, len(s.queue.entries))
	for _, e := range s.queue.entries {
		out = append(out, Pending{Registration: e.reg, NextAt: e.at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NextAt.Equal(out[j].NextAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].NextAt.Before(out[j].NextAt)
	})
	return out
}

// FireDue delivers every registration due at the current time and returns
// how many were delivered. Repeating triggers are re-queued for their next
// occurrence; missed occurrences are not replayed.
func (s *Scheduler) FireDue(ctx context.Context) int {
	now := s.clk.Now()

	s.mu.Lock()
	var due []notify.Registration
	for {
		top := s.queue.Peek()
		if top == nil || now.Before(top.at) {
			break
		}
		heap.Pop(s.queue)
		due = append(due, top.reg)

		if next, ok := top.reg.Trigger.Next(now, s.loc); ok && top.reg.Trigger.Repeats() {
			heap.Push(s.queue, &entry{reg: top.reg, at: next})
		}
	}
	s.mu.Unlock()

	delivered := 0
	for _, reg := range due {
		if err := s.deliverer.Deliver(ctx, reg); err != nil {
			s.logger.Error("Failed to deliver notification",
				zap.Error(err),
				zap.String("id", reg.ID),
			)
			continue
		}
		delivered++
	}
	return delivered
}

// Run checks for due notifications every tick until ctx is done
func (s *Scheduler) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	s.logger.Info("Notification scheduler started", zap.Duration("tick", tick))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Notification scheduler stopped")
			return
		case <-ticker.C:
			if n := s.FireDue(ctx); n > 0 {
				s.logger.Info("Delivered notifications", zap.Int("count", n))
			}
		}
	}
}

// LogDeliverer writes fired notifications to the log
type LogDeliverer struct {
	Logger *zap.Logger
}

// Deliver logs the notification
func (d LogDeliverer) Deliver(ctx context.Context, reg notify.Registration) error {
	d.Logger.Info("Notification",
		zap.String("id", reg.ID),
		zap.String("title", reg.Content.Title),
		zap.String("body", reg.Content.Body),
	)
	return nil
}
