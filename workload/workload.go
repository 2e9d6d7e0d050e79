// Package workload generates deterministic input data and registers the
// built-in benchmarks that run over it.
package workload

import (
	"encoding/hex"
	"math"
	mrand "math/rand"
)

// Record is a single keyed entry used by the encoding benchmarks.
type Record struct {
	Op    string `json:"op"`
	Key   string `json:"key"`
	Value int    `json:"value,omitempty"`
}

// Config controls data generation parameters.
type Config struct {
	Size         int
	MinValue     int
	MaxValue     int
	Distribution string
	Seed         int64
}

// Generator produces deterministic data from a Config. The same Config
// and the same sequence of calls always yield the same data.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config. Missing bounds
// default to 1 and 1<<20; a negative Size is treated as 0.
func NewGenerator(cfg Config) *Generator {
	if cfg.Size < 0 {
		cfg.Size = 0
	}

	if cfg.MinValue <= 0 {
		cfg.MinValue = 1
	}

	if cfg.MaxValue < cfg.MinValue {
		cfg.MaxValue = max(cfg.MinValue, 1<<20)
	}

	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Ints returns Size values drawn from the configured distribution.
func (g *Generator) Ints() []int {
	return g.distribution(g.cfg.Size)
}

// Keys returns Size random hex keys.
func (g *Generator) Keys() []string {
	keys := make([]string, g.cfg.Size)
	for i := range keys {
		keys[i] = g.randomKey()
	}

	return keys
}

// Records returns Size records pairing a random key with a value.
func (g *Generator) Records() []Record {
	values := g.distribution(g.cfg.Size)

	records := make([]Record, g.cfg.Size)
	for i := range records {
		records[i] = Record{
			Op:    "set",
			Key:   g.randomKey(),
			Value: values[i],
		}
	}

	return records
}

func (g *Generator) randomKey() string {
	var buf [20]byte
	g.rng.Read(buf[:])

	return "0x" + hex.EncodeToString(buf[:])
}

func (g *Generator) distribution(n int) []int {
	if n <= 0 {
		return nil
	}

	dist := make([]int, n)
	lo, hi := g.cfg.MinValue, g.cfg.MaxValue

	switch g.cfg.Distribution {
	case "power-law":
		alpha := 1.5
		for i := range dist {
			u := g.rng.Float64()
			v := float64(lo) / math.Pow(1-u, 1/alpha)
			if v > float64(hi) {
				v = float64(hi)
			}
			dist[i] = max(lo, int(v))
		}

	case "exponential":
		lambda := math.Log(2) / math.Max(float64(hi)/4, 1)
		for i := range dist {
			u := g.rng.Float64()
			v := -math.Log(1-u) / lambda
			clamped := math.Max(
				float64(lo),
				math.Min(v, float64(hi)),
			)
			dist[i] = int(clamped)
		}

	default:
		// Unknown distributions fall back to uniform.
		span := hi - lo + 1
		for i := range dist {
			dist[i] = lo + g.rng.Intn(span)
		}
	}

	return dist
}
