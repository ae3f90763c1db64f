package stubs

import (
	"context"
	"errors"
	"testing"

	"devotional/internal/notify"
)

var _ notify.Scheduler = (*MockScheduler)(nil)

func TestMockScheduler_ScheduleAndCancel(t *testing.T) {
	s := NewMockScheduler()
	ctx := context.Background()

	id, err := s.Schedule(ctx, "preset-morning", notify.Content{Title: "Bom dia"}, notify.Daily(7, 0))
	if err != nil {
		t.Fatalf("Failed to schedule: %v", err)
	}
	if id != "preset-morning" {
		t.Errorf("Expected explicit id to be kept, got %q", id)
	}

	anon, err := s.Schedule(ctx, "", notify.Content{Title: "x"}, notify.Weekly(1, 8, 0))
	if err != nil {
		t.Fatalf("Failed to schedule: %v", err)
	}
	if anon == "" {
		t.Fatal("Expected generated id")
	}

	// Same id replaces
	if _, err := s.Schedule(ctx, "preset-morning", notify.Content{Title: "Bom dia!"}, notify.Daily(6, 30)); err != nil {
		t.Fatalf("Failed to reschedule: %v", err)
	}
	if len(s.Registrations()) != 2 {
		t.Fatalf("Expected 2 registrations, got %d", len(s.Registrations()))
	}
	r, _ := s.Registration("preset-morning")
	if r.Trigger.Hour != 6 || r.Trigger.Minute != 30 {
		t.Errorf("Expected replaced trigger 06:30, got %02d:%02d", r.Trigger.Hour, r.Trigger.Minute)
	}

	if err := s.Cancel(ctx, "preset-morning"); err != nil {
		t.Fatalf("Failed to cancel: %v", err)
	}
	if _, ok := s.Registration("preset-morning"); ok {
		t.Error("Expected registration to be cancelled")
	}

	if err := s.CancelAll(ctx); err != nil {
		t.Fatalf("Failed to cancel all: %v", err)
	}
	if len(s.Registrations()) != 0 || s.CancelAllCalls() != 1 {
		t.Error("Expected no registrations after cancel all")
	}
}

func TestMockScheduler_PermissionAndFailures(t *testing.T) {
	s := NewMockScheduler()
	ctx := context.Background()

	s.SetPermission(notify.PermissionDenied)
	if _, err := s.Schedule(ctx, "", notify.Content{}, notify.Daily(7, 0)); !errors.Is(err, notify.ErrPermissionDenied) {
		t.Fatalf("Expected permission error, got %v", err)
	}
	p, _ := s.RequestPermission(ctx)
	if p != notify.PermissionDenied {
		t.Errorf("Expected denied, got %s", p)
	}

	s.SetPermission(notify.PermissionGranted)
	boom := errors.New("scheduler down")
	s.FailSchedule(boom)
	if _, err := s.Schedule(ctx, "", notify.Content{}, notify.Daily(7, 0)); !errors.Is(err, boom) {
		t.Fatalf("Expected injected error, got %v", err)
	}
	s.FailSchedule(nil)

	if _, err := s.Schedule(ctx, "", notify.Content{}, notify.Daily(25, 0)); err == nil {
		t.Fatal("Expected invalid trigger to be rejected")
	}
}
