// Package textmatch implements the case-insensitive substring search used to
// filter verses and notes.
package textmatch

import (
	"strings"

	"github.com/coregx/ahocorasick"
)

// Matcher tests many texts against one query. The query is compiled once
// into an automaton and each text is scanned in a single pass.
type Matcher struct {
	query string
	ac    *ahocorasick.Automaton
}

// New compiles query. An empty (or blank) query matches everything.
func New(query string) (*Matcher, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return &Matcher{}, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings([]string{q}).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	return &Matcher{query: q, ac: automaton}, nil
}

// Empty reports whether the matcher accepts every text
func (m *Matcher) Empty() bool {
	return m.ac == nil
}

// Match reports whether any of the texts contains the query, ignoring case
func (m *Matcher) Match(texts ...string) bool {
	if m.ac == nil {
		return true
	}
	for _, text := range texts {
		if text == "" {
			continue
		}
		if len(m.ac.FindAllOverlapping([]byte(strings.ToLower(text)))) > 0 {
			return true
		}
	}
	return false
}
