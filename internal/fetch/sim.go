package fetch

import (
	"hash/fnv"
	"sort"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/platform"
)

// LCG constants (Knuth MMIX).
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
)

// lcg is a linear congruential generator. Seeded from a content ID it
// produces the same draw sequence every time, which keeps simulated
// metrics stable across repeated fetches of the same content.
type lcg struct {
	state uint64
}

func newLCG(seed uint64) *lcg {
	return &lcg{state: seed}
}

func (g *lcg) next() uint64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// intn returns a value in [0, n). n must be positive.
func (g *lcg) intn(n int64) int64 {
	return int64(g.next() % uint64(n))
}

// drawRange returns a value in [r.Min, r.Max), or r.Min when the range
// is empty.
func (g *lcg) drawRange(r platform.Range) int64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.intn(r.Max-r.Min)
}

// seedFor hashes a content ID into an LCG seed.
func seedFor(contentID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(contentID))
	return h.Sum64()
}

// Simulate derives pseudo-random metrics for a content ID from the
// platform's configured ranges. Determinism is keyed only by the content
// ID, never by call time, so repeated simulated fetches are idempotent.
func Simulate(p model.Platform, contentID string) model.Metrics {
	spec := platform.Lookup(p)
	g := newLCG(seedFor(contentID))

	m := model.Metrics{
		Views:    g.drawRange(spec.Sim.Views),
		Likes:    g.drawRange(spec.Sim.Likes),
		Comments: g.drawRange(spec.Sim.Comments),
		Shares:   g.drawRange(spec.Sim.Shares),
	}

	if len(spec.Sim.Other) > 0 {
		m.Other = make(map[string]int64, len(spec.Sim.Other))
		// Draw in sorted name order so the sequence is stable across runs.
		for _, name := range sortedKeys(spec.Sim.Other) {
			m.Other[name] = g.drawRange(spec.Sim.Other[name])
		}
	}

	return m
}

func sortedKeys(m map[string]platform.Range) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
