package verse

import (
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendar "devotional/internal/clock"
	"devotional/internal/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

func newCalendar(t time.Time) (*calendar.Calendar, clock.FakeClock) {
	fake := clock.NewFake()
	fake.Set(t)
	return calendar.New(fake, brt), fake
}

func TestCorpus(t *testing.T) {
	corpus := Corpus()
	require.Len(t, corpus, 30)
	assert.Equal(t, "João 3:16", corpus[0].Reference)
	assert.Equal(t, 30, corpus[29].ID)

	for i, v := range corpus {
		assert.Equal(t, i+1, v.ID, "corpus is ordered by id")
		assert.NotEmpty(t, v.Text)
	}
}

func TestSelector_ThreeVerseScenario(t *testing.T) {
	cal, _ := newCalendar(time.Date(2026, time.January, 1, 12, 0, 0, 0, brt))
	a := models.Verse{ID: 1, Reference: "A"}
	b := models.Verse{ID: 2, Reference: "B"}
	c := models.Verse{ID: 3, Reference: "C"}

	s, err := NewSelectorWithCorpus([]models.Verse{a, b, c}, cal)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		day      int
		expected models.Verse
	}{
		{name: "mod 0", day: 3, expected: a},
		{name: "mod 1", day: 1, expected: b},
		{name: "mod 2", day: 2, expected: c},
		{name: "mod 0 late in year", day: 366, expected: a},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, s.ForDayOfYear(tc.day))
		})
	}
}

func TestSelector_EmptyCorpus(t *testing.T) {
	cal, _ := newCalendar(time.Now())
	_, err := NewSelectorWithCorpus(nil, cal)
	assert.Error(t, err)
}

func TestSelector_TodayIsStableWithinDay(t *testing.T) {
	cal, fake := newCalendar(time.Date(2026, time.October, 18, 0, 5, 0, 0, brt))
	s := NewSelector(cal)

	morning := s.Today()
	fake.Add(23 * time.Hour)
	assert.Equal(t, morning, s.Today(), "same calendar day yields the same verse")

	// Oct 18th 2026 is day 291; 291 mod 30 = 21
	assert.Equal(t, Corpus()[21], morning)

	fake.Add(time.Hour)
	assert.Equal(t, Corpus()[22], s.Today(), "next day advances the corpus")
}

func TestSelector_CyclesThroughCorpus(t *testing.T) {
	start := time.Date(2025, time.January, 1, 9, 0, 0, 0, brt)
	cal, _ := newCalendar(start)
	s := NewSelector(cal)
	corpus := Corpus()

	for i := 0; i < 365; i++ {
		day := start.AddDate(0, 0, i)
		expected := corpus[(i+1)%len(corpus)]
		require.Equal(t, expected, s.ForDate(day), "day %d", i+1)
	}
}

func TestSelector_UsesLocalMidnight(t *testing.T) {
	cal, _ := newCalendar(time.Now())
	s := NewSelector(cal)

	// 02:00 UTC on Jan 2nd is still Jan 1st in BRT
	utc := time.Date(2026, time.January, 2, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, Corpus()[1], s.ForDate(utc))
}

func TestSelector_Lookups(t *testing.T) {
	cal, _ := newCalendar(time.Now())
	s := NewSelector(cal)

	v, ok := s.ByID(2)
	require.True(t, ok)
	assert.Equal(t, "Salmos 23:1", v.Reference)

	_, ok = s.ByID(999)
	assert.False(t, ok)

	v, ok = s.ByReference("Filipenses 4:4")
	require.True(t, ok)
	assert.Equal(t, 30, v.ID)

	paz := s.ByCategory("paz")
	require.Len(t, paz, 3)
	assert.Equal(t, []int{10, 11, 22}, []int{paz[0].ID, paz[1].ID, paz[2].ID})

	cats := s.Categories()
	assert.Equal(t, "amor", cats[0])
	assert.Contains(t, cats, "futuro")
	assert.Len(t, s.All(), 30)
}

func TestSelector_Search(t *testing.T) {
	cal, _ := newCalendar(time.Now())
	s := NewSelector(cal)

	testCases := []struct {
		name  string
		query string
		ids   []int
	}{
		{name: "by book", query: "neemias", ids: []int{8}},
		{name: "by reference", query: "29:11", ids: []int{18, 29}},
		{name: "by text ignoring case", query: "PASTOR", ids: []int{2}},
		{name: "no match", query: "zzz", ids: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Search(tc.query)
			require.NoError(t, err)
			var ids []int
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tc.ids, ids)
		})
	}

	all, err := s.Search("")
	require.NoError(t, err)
	assert.Len(t, all, 30)
}
