package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devotional/internal/errs"
	"devotional/internal/kv"
	"devotional/internal/models"
	"devotional/internal/notify"
)

func TestManager_PresetDefaults(t *testing.T) {
	m, store, _ := setupManager(t)
	ctx := context.Background()

	presets, err := m.Presets(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.PresetKind]models.PresetAlarm{
		models.PresetMorning: {Enabled: false, Time: "07:00", SoundID: models.SoundMorning},
		models.PresetNight:   {Enabled: false, Time: "21:00", SoundID: models.SoundPeaceful},
	}, presets)
	assert.Equal(t, 0, store.Writes())
}

func TestManager_PresetLifecycle(t *testing.T) {
	m, store, scheduler := setupManager(t)
	ctx := context.Background()

	custom, err := m.SaveAlarm(ctx, AlarmInput{Time: "12:00", Message: "Meio-dia", Days: []int{3}})
	require.NoError(t, err)

	night, err := m.TogglePreset(ctx, models.PresetNight)
	require.NoError(t, err)
	assert.True(t, night.Enabled)

	reg, ok := scheduler.Registration("preset-night")
	require.True(t, ok)
	assert.Equal(t, notify.Daily(21, 0), reg.Trigger)
	assert.Equal(t, "Boa noite! 🌙", reg.Content.Title)
	assert.Equal(t, "Hora de um momento de reflexão antes de dormir.", reg.Content.Body)

	night, err = m.SetPresetTime(ctx, models.PresetNight, "22:15")
	require.NoError(t, err)
	assert.Equal(t, "22:15", night.Time)
	reg, ok = scheduler.Registration("preset-night")
	require.True(t, ok)
	assert.Equal(t, notify.Daily(22, 15), reg.Trigger)

	var stored models.PresetAlarm
	found, err := kv.GetJSON(ctx, store, kv.KeyNightPresetAlarm, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.PresetAlarm{Enabled: true, Time: "22:15", SoundID: models.SoundPeaceful}, stored)

	_, err = m.TogglePreset(ctx, models.PresetNight)
	require.NoError(t, err)
	_, ok = scheduler.Registration("preset-night")
	assert.False(t, ok, "disabling cancels only the preset id")
	_, ok = scheduler.Registration(AlarmNotificationID(custom.ID, 3))
	assert.True(t, ok, "custom alarms are untouched")
	assert.Equal(t, 0, scheduler.CancelAllCalls())
}

func TestManager_PresetValidation(t *testing.T) {
	m, _, _ := setupManager(t)
	ctx := context.Background()

	_, err := m.TogglePreset(ctx, "noon")
	assert.True(t, errs.IsValidation(err))

	_, err = m.SetPresetTime(ctx, models.PresetMorning, "7")
	assert.True(t, errs.IsValidation(err))
}

func TestPlan(t *testing.T) {
	alarms := []models.Alarm{
		{ID: "1", Time: "07:00", Enabled: true, Message: "a", Sound: models.SoundGentle, Days: []int{1, 2}},
		{ID: "2", Time: "08:00", Enabled: false, Message: "b", Days: []int{3}},
		{ID: "3", Time: "bad", Enabled: true, Message: "c", Days: []int{4}},
	}
	presets := map[models.PresetKind]models.PresetAlarm{
		models.PresetMorning: {Enabled: true, Time: "06:45", SoundID: models.SoundMorning},
		models.PresetNight:   {Enabled: false, Time: "21:00"},
	}

	plan := Plan(alarms, presets)
	assert.Equal(t, []string{"alarm-1-1", "alarm-1-2", "preset-morning"}, registrationIDs(plan))
	assert.Equal(t, notify.Weekly(2, 7, 0), plan[1].Trigger)
	assert.Equal(t, notify.Daily(6, 45), plan[2].Trigger)
	assert.Equal(t, "Bom dia! ☀️", plan[2].Content.Title)

	assert.Empty(t, Plan(nil, nil))
}
