package ledger

import (
	"math"
	"sort"
	"time"

	"devotional/internal/clock"
	"devotional/internal/models"
)

// ComputeProgress derives the streak and total of active days.
//
// Records are walked from the most recent date. A record whose age in whole
// days equals the running streak extends it when active. An older record
// ends the walk. Younger ones (duplicates of an already counted date or
// future dates) are skipped without ending it. Dates are read as midnight in
// now's location; unparseable dates are ignored.
func ComputeProgress(records []models.DayRecord, now time.Time) models.Progress {
	var p models.Progress

	type dated struct {
		at     time.Time
		active bool
	}
	sorted := make([]dated, 0, len(records))
	for _, r := range records {
		if r.Active() {
			p.TotalDays++
		}
		at, err := time.ParseInLocation(clock.DateLayout, r.Date, now.Location())
		if err != nil {
			continue
		}
		sorted = append(sorted, dated{at: at, active: r.Active()})
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].at.After(sorted[j].at)
	})

	for _, r := range sorted {
		diffDays := int(math.Floor(now.Sub(r.at).Hours() / 24))
		if diffDays == p.Streak && r.active {
			p.Streak++
		} else if diffDays > p.Streak {
			break
		}
	}
	return p
}
