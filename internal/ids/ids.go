// Package ids assigns creation-timestamp identifiers.
package ids

import (
	"strconv"
	"sync"

	"github.com/jmhodges/clock"
)

// Generator hands out millisecond-timestamp identifiers that are strictly
// increasing even when several are requested within the same millisecond.
type Generator struct {
	mu   sync.Mutex
	clk  clock.Clock
	last int64
}

// NewGenerator creates a generator reading time from clk
func NewGenerator(clk clock.Clock) *Generator {
	return &Generator{clk: clk}
}

// Next returns a new identifier
func (g *Generator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clk.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}
