// Package profile stores the user's name, onboarding state and theme
// preference.
package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"devotional/internal/clock"
	"devotional/internal/errs"
	"devotional/internal/kv"
	"devotional/internal/models"
)

// Service reads and writes the profile settings. Each setting lives under its
// own key as a plain string.
type Service struct {
	mu     sync.Mutex
	store  kv.Store
	cal    *clock.Calendar
	logger *zap.Logger
}

// New creates a profile service
func New(store kv.Store, cal *clock.Calendar, logger *zap.Logger) *Service {
	return &Service{store: store, cal: cal, logger: logger}
}

func (s *Service) get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Error("Failed to read setting", zap.Error(err), zap.String("key", key))
		return "", false, &errs.StorageError{Op: "read", Key: key, Err: err}
	}
	return v, ok, nil
}

func (s *Service) set(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.logger.Error("Failed to write setting", zap.Error(err), zap.String("key", key))
		return &errs.StorageError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Get returns the profile. Unset values fall back to the default theme with
// automatic switching on.
func (s *Service) Get(ctx context.Context) (models.Profile, error) {
	p := models.Profile{ThemeName: models.ThemeDefault, AutoTheme: true}

	var err error
	if p.UserName, _, err = s.get(ctx, kv.KeyUserName); err != nil {
		return models.Profile{}, err
	}
	if p.MemberSince, _, err = s.get(ctx, kv.KeyMemberSince); err != nil {
		return models.Profile{}, err
	}
	if p.ProfileImage, _, err = s.get(ctx, kv.KeyProfileImage); err != nil {
		return models.Profile{}, err
	}

	onboarded, _, err := s.get(ctx, kv.KeyHasOnboarded)
	if err != nil {
		return models.Profile{}, err
	}
	p.HasOnboarded = onboarded == "true"

	theme, ok, err := s.get(ctx, kv.KeyThemeName)
	if err != nil {
		return models.Profile{}, err
	}
	if ok && models.ThemeName(theme).Valid() {
		p.ThemeName = models.ThemeName(theme)
	}

	auto, ok, err := s.get(ctx, kv.KeyAutoTheme)
	if err != nil {
		return models.Profile{}, err
	}
	if ok {
		p.AutoTheme = auto == "true"
	}
	return p, nil
}

// SetUserName stores the user name. The first save also records today as the
// member-since date.
func (s *Service) SetUserName(ctx context.Context, name string) (models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Profile{}, errs.Invalid("userName", "must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.set(ctx, kv.KeyUserName, name); err != nil {
		return models.Profile{}, fmt.Errorf("failed to save user name: %w", err)
	}
	since, ok, err := s.get(ctx, kv.KeyMemberSince)
	if err != nil {
		return models.Profile{}, err
	}
	if !ok || since == "" {
		if err := s.set(ctx, kv.KeyMemberSince, s.cal.Today()); err != nil {
			return models.Profile{}, fmt.Errorf("failed to save member since: %w", err)
		}
	}

	s.logger.Info("User name saved", zap.String("user_name", name))
	return s.Get(ctx)
}

// SetProfileImage stores an opaque reference to the profile picture. An empty
// reference removes it.
func (s *Service) SetProfileImage(ctx context.Context, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		if err := s.store.Remove(ctx, kv.KeyProfileImage); err != nil {
			s.logger.Error("Failed to remove setting", zap.Error(err), zap.String("key", kv.KeyProfileImage))
			return &errs.StorageError{Op: "remove", Key: kv.KeyProfileImage, Err: err}
		}
		return nil
	}
	return s.set(ctx, kv.KeyProfileImage, ref)
}

// CompleteOnboarding marks the onboarding as done
func (s *Service) CompleteOnboarding(ctx context.Context) error {
	return s.set(ctx, kv.KeyHasOnboarded, "true")
}

// SetTheme selects a theme and turns automatic switching off
func (s *Service) SetTheme(ctx context.Context, name models.ThemeName) error {
	if !name.Valid() {
		return errs.Invalid("themeName", fmt.Sprintf("unknown theme %q", name))
	}
	if err := s.set(ctx, kv.KeyThemeName, string(name)); err != nil {
		return err
	}
	return s.set(ctx, kv.KeyAutoTheme, "false")
}

// SetAutoTheme turns automatic theme switching on or off
func (s *Service) SetAutoTheme(ctx context.Context, auto bool) error {
	return s.set(ctx, kv.KeyAutoTheme, fmt.Sprint(auto))
}
