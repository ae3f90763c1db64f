// Package verse selects the verse of the day from the fixed corpus and offers
// lookups over it.
package verse

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"devotional/internal/clock"
	"devotional/internal/models"
	"devotional/internal/textmatch"
)

//go:embed corpus.json
var corpusJSON []byte

// Corpus returns the built-in ordered verse list. It is parsed on first use
// and shared; callers must not modify it.
var Corpus = sync.OnceValue(func() []models.Verse {
	var verses []models.Verse
	if err := json.Unmarshal(corpusJSON, &verses); err != nil {
		panic(fmt.Sprintf("verse: embedded corpus is invalid: %v", err))
	}
	return verses
})

// Selector maps calendar days to verses
type Selector struct {
	corpus []models.Verse
	cal    *clock.Calendar
}

// NewSelector creates a selector over the built-in corpus
func NewSelector(cal *clock.Calendar) *Selector {
	return &Selector{corpus: Corpus(), cal: cal}
}

// NewSelectorWithCorpus creates a selector over a custom, non-empty corpus
func NewSelectorWithCorpus(corpus []models.Verse, cal *clock.Calendar) (*Selector, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("corpus must not be empty")
	}
	return &Selector{corpus: slices.Clone(corpus), cal: cal}, nil
}

// Today returns the verse of the current day
func (s *Selector) Today() models.Verse {
	return s.ForDate(s.cal.Now())
}

// ForDate returns the verse of the day containing t, in the calendar's time zone
func (s *Selector) ForDate(t time.Time) models.Verse {
	return s.ForDayOfYear(s.cal.DayOfYear(t))
}

// ForDayOfYear returns corpus[day mod len(corpus)]
func (s *Selector) ForDayOfYear(day int) models.Verse {
	n := len(s.corpus)
	return s.corpus[((day%n)+n)%n]
}

// All returns a copy of the corpus in order
func (s *Selector) All() []models.Verse {
	return slices.Clone(s.corpus)
}

// ByID looks a verse up by its identifier
func (s *Selector) ByID(id int) (models.Verse, bool) {
	for _, v := range s.corpus {
		if v.ID == id {
			return v, true
		}
	}
	return models.Verse{}, false
}

// ByReference looks a verse up by its reference, e.g. "João 3:16"
func (s *Selector) ByReference(ref string) (models.Verse, bool) {
	for _, v := range s.corpus {
		if v.Reference == ref {
			return v, true
		}
	}
	return models.Verse{}, false
}

// ByCategory returns the verses of one category
func (s *Selector) ByCategory(category string) []models.Verse {
	var out []models.Verse
	for _, v := range s.corpus {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out
}

// Categories lists the distinct categories in corpus order
func (s *Selector) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range s.corpus {
		if v.Category == "" || seen[v.Category] {
			continue
		}
		seen[v.Category] = true
		out = append(out, v.Category)
	}
	return out
}

// Search returns the verses whose text, reference or book contains query,
// ignoring case. An empty query returns the whole corpus.
func (s *Selector) Search(query string) ([]models.Verse, error) {
	m, err := textmatch.New(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query: %w", err)
	}

	var out []models.Verse
	for _, v := range s.corpus {
		if m.Match(v.Text, v.Reference, v.Book) {
			out = append(out, v)
		}
	}
	return out, nil
}
