package reminder

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"devotional/internal/clock"
	"devotional/internal/errs"
	"devotional/internal/kv"
	"devotional/internal/models"
	"devotional/internal/notify"
)

// DefaultPreset returns the configuration of a preset that was never saved
func DefaultPreset(kind models.PresetKind) models.PresetAlarm {
	if kind == models.PresetNight {
		return models.PresetAlarm{Enabled: false, Time: "21:00", SoundID: models.SoundPeaceful}
	}
	return models.PresetAlarm{Enabled: false, Time: "07:00", SoundID: models.SoundMorning}
}

func (m *Manager) presetDocument(kind models.PresetKind) (*kv.Document[models.PresetAlarm], error) {
	doc, ok := m.presets[kind]
	if !ok {
		return nil, errs.Invalid("preset", fmt.Sprintf("unknown preset %q", kind))
	}
	return doc, nil
}

// Preset returns the configuration of a preset
func (m *Manager) Preset(ctx context.Context, kind models.PresetKind) (models.PresetAlarm, error) {
	doc, err := m.presetDocument(kind)
	if err != nil {
		return models.PresetAlarm{}, err
	}
	stored, err := doc.Load(ctx)
	if err != nil {
		return models.PresetAlarm{}, fmt.Errorf("failed to load %s preset: %w", kind, err)
	}
	return withDefaults(kind, stored), nil
}

// Presets returns the configuration of every preset
func (m *Manager) Presets(ctx context.Context) (map[models.PresetKind]models.PresetAlarm, error) {
	out := make(map[models.PresetKind]models.PresetAlarm, len(m.presets))
	for kind := range m.presets {
		p, err := m.Preset(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = p
	}
	return out, nil
}

// TogglePreset flips the enabled flag of a preset
func (m *Manager) TogglePreset(ctx context.Context, kind models.PresetKind) (models.PresetAlarm, error) {
	return m.updatePreset(ctx, kind, func(p models.PresetAlarm) models.PresetAlarm {
		p.Enabled = !p.Enabled
		return p
	})
}

// SetPresetTime changes the time of a preset
func (m *Manager) SetPresetTime(ctx context.Context, kind models.PresetKind, hhmm string) (models.PresetAlarm, error) {
	hhmm = strings.TrimSpace(hhmm)
	if _, _, err := clock.ParseClock(hhmm); err != nil {
		return models.PresetAlarm{}, errs.Invalid("time", "expected HH:MM")
	}
	return m.updatePreset(ctx, kind, func(p models.PresetAlarm) models.PresetAlarm {
		p.Time = hhmm
		return p
	})
}

// updatePreset persists the change, then registers the preset under its
// fixed id when enabled or cancels that id otherwise. Custom alarms are not
// touched.
func (m *Manager) updatePreset(ctx context.Context, kind models.PresetKind, change func(models.PresetAlarm) models.PresetAlarm) (models.PresetAlarm, error) {
	doc, err := m.presetDocument(kind)
	if err != nil {
		return models.PresetAlarm{}, err
	}

	preset, err := doc.Update(ctx, func(stored models.PresetAlarm) (models.PresetAlarm, error) {
		return change(withDefaults(kind, stored)), nil
	})
	if err != nil {
		return models.PresetAlarm{}, fmt.Errorf("failed to save %s preset: %w", kind, err)
	}

	m.logger.Info("Preset saved",
		zap.String("preset", string(kind)),
		zap.String("time", preset.Time),
		zap.Bool("enabled", preset.Enabled),
	)

	id := PresetNotificationID(kind)
	if err := m.scheduler.Cancel(ctx, id); err != nil {
		m.logger.Warn("Failed to cancel preset notification", zap.Error(err), zap.String("id", id))
	}
	reg, ok := PresetRegistration(kind, preset)
	if !ok {
		return preset, nil
	}
	return preset, m.register(ctx, []notify.Registration{reg})
}

func withDefaults(kind models.PresetKind, stored models.PresetAlarm) models.PresetAlarm {
	def := DefaultPreset(kind)
	if stored.Time == "" {
		stored.Time = def.Time
	}
	if stored.SoundID == "" {
		stored.SoundID = def.SoundID
	}
	return stored
}
