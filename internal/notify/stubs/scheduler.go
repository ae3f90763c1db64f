package stubs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"devotional/internal/notify"
)

// MockScheduler records registrations in memory. It is used by unit tests
// and lets them control the permission state and inject failures.
type MockScheduler struct {
	mu            sync.RWMutex
	registrations map[string]notify.Registration
	permission    notify.Permission
	scheduleErr   error
	seq           int
	cancelAlls    int
}

// NewMockScheduler creates a scheduler with permission granted
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{
		registrations: make(map[string]notify.Registration),
		permission:    notify.PermissionGranted,
	}
}

// Schedule records a registration
func (m *MockScheduler) Schedule(ctx context.Context, id string, content notify.Content, trigger notify.Trigger) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.permission != notify.PermissionGranted {
		return "", notify.ErrPermissionDenied
	}
	if m.scheduleErr != nil {
		return "", m.scheduleErr
	}
	if err := trigger.Validate(); err != nil {
		return "", err
	}
	if id == "" {
		m.seq++
		id = fmt.Sprintf("mock-%d", m.seq)
	}
	m.registrations[id] = notify.Registration{ID: id, Content: content, Trigger: trigger}
	return id, nil
}

// Cancel removes one registration
func (m *MockScheduler) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.registrations, id)
	return nil
}

// CancelAll removes every registration
func (m *MockScheduler) CancelAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = make(map[string]notify.Registration)
	m.cancelAlls++
	return nil
}

// Permission returns the configured permission
func (m *MockScheduler) Permission(ctx context.Context) (notify.Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.permission, nil
}

// RequestPermission returns the configured permission
func (m *MockScheduler) RequestPermission(ctx context.Context) (notify.Permission, error) {
	return m.Permission(ctx)
}

// SetPermission changes the permission state
func (m *MockScheduler) SetPermission(p notify.Permission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permission = p
}

// FailSchedule makes every following Schedule return err. Pass nil to recover.
func (m *MockScheduler) FailSchedule(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleErr = err
}

// Registrations returns the current registrations sorted by id
func (m *MockScheduler) Registrations() []notify.Registration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]notify.Registration, 0, len(m.registrations))
	for _, r := range m.registrations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Registration returns the registration with the given id
func (m *MockScheduler) Registration(id string) (notify.Registration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.registrations[id]
	return r, ok
}

// CancelAllCalls returns how many times CancelAll ran
func (m *MockScheduler) CancelAllCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cancelAlls
}
