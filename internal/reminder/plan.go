package reminder

import (
	"fmt"
	"sort"

	"devotional/internal/clock"
	"devotional/internal/models"
	"devotional/internal/notify"
)

const (
	alarmTitle = "🕊️ Verso Diário"
	dailyTitle = "Verso Diário 🕊️"

	// DailyGreetingID identifies the daily greeting registration
	DailyGreetingID = "daily-greeting"
)

// AlarmNotificationID returns the registration id of one weekday of an alarm
func AlarmNotificationID(alarmID string, weekday int) string {
	return fmt.Sprintf("alarm-%s-%d", alarmID, weekday)
}

// PresetNotificationID returns the fixed registration id of a preset
func PresetNotificationID(kind models.PresetKind) string {
	return "preset-" + string(kind)
}

type presetText struct {
	title string
	body  string
}

var presetTexts = map[models.PresetKind]presetText{
	models.PresetMorning: {title: "Bom dia! ☀️", body: "Que tal começar o dia lendo o verso diário?"},
	models.PresetNight:   {title: "Boa noite! 🌙", body: "Hora de um momento de reflexão antes de dormir."},
}

// AlarmRegistrations returns the weekly registrations of an alarm, one per
// weekday. A disabled alarm or one with a malformed time has none.
func AlarmRegistrations(alarm models.Alarm) []notify.Registration {
	if !alarm.Enabled {
		return nil
	}
	hour, minute, err := clock.ParseClock(alarm.Time)
	if err != nil {
		return nil
	}

	regs := make([]notify.Registration, 0, len(alarm.Days))
	for _, day := range alarm.Days {
		regs = append(regs, notify.Registration{
			ID:      AlarmNotificationID(alarm.ID, day),
			Content: notify.Content{Title: alarmTitle, Body: alarm.Message, Sound: string(alarm.Sound)},
			Trigger: notify.Weekly(day, hour, minute),
		})
	}
	return regs
}

// PresetRegistration returns the daily registration of a preset
func PresetRegistration(kind models.PresetKind, preset models.PresetAlarm) (notify.Registration, bool) {
	if !preset.Enabled {
		return notify.Registration{}, false
	}
	hour, minute, err := clock.ParseClock(preset.Time)
	if err != nil {
		return notify.Registration{}, false
	}
	text := presetTexts[kind]
	return notify.Registration{
		ID:      PresetNotificationID(kind),
		Content: notify.Content{Title: text.title, Body: text.body, Sound: string(preset.SoundID)},
		Trigger: notify.Daily(hour, minute),
	}, true
}

// Plan computes the registrations that must exist for the given alarms and
// presets, sorted by id
func Plan(alarms []models.Alarm, presets map[models.PresetKind]models.PresetAlarm) []notify.Registration {
	var regs []notify.Registration
	for _, a := range alarms {
		regs = append(regs, AlarmRegistrations(a)...)
	}
	for kind, p := range presets {
		if reg, ok := PresetRegistration(kind, p); ok {
			regs = append(regs, reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].ID < regs[j].ID
	})
	return regs
}
