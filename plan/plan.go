// Package plan loads YAML run plans that declare command benchmarks and
// the order to run them in.
package plan

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/tbench/harness"
)

// ErrInvalidPlan is wrapped by every validation failure.
var ErrInvalidPlan = errors.New("invalid plan")

// Plan is the decoded form of a plan file.
type Plan struct {
	ContinueOnError bool        `yaml:"continue_on_error"`
	Run             []string    `yaml:"run"`
	Benchmarks      []Benchmark `yaml:"benchmarks"`
}

// Benchmark declares one benchmark made of command cases.
type Benchmark struct {
	Name     string `yaml:"name"`
	Strategy string `yaml:"strategy"`
	Cases    []Case `yaml:"cases"`
}

// Case declares one command to time.
type Case struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Env     []string      `yaml:"env"`
	Stdin   string        `yaml:"stdin"`
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads and validates the plan at path.
func Load(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan %s: %w", path, err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}

	return p, nil
}

// Parse decodes and validates a plan. Unknown fields are rejected.
func Parse(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidPlan)
		}

		return nil, fmt.Errorf("decode YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks that the plan can be registered.
func (p *Plan) Validate() error {
	if len(p.Benchmarks) == 0 {
		return fmt.Errorf("%w: no benchmarks declared", ErrInvalidPlan)
	}

	seen := make(map[string]bool, len(p.Benchmarks))

	for i, b := range p.Benchmarks {
		if b.Name == "" {
			return fmt.Errorf("%w: benchmark %d has no name", ErrInvalidPlan, i)
		}

		if seen[b.Name] {
			return fmt.Errorf("%w: duplicate benchmark %q", ErrInvalidPlan, b.Name)
		}

		seen[b.Name] = true

		if _, err := harness.StrategyByName(b.strategyName()); err != nil {
			return fmt.Errorf("%w: benchmark %q: %w", ErrInvalidPlan, b.Name, err)
		}

		for j, c := range b.Cases {
			if c.Command == "" {
				return fmt.Errorf("%w: benchmark %q: case %d has no command",
					ErrInvalidPlan, b.Name, j)
			}

			if c.Timeout < 0 {
				return fmt.Errorf("%w: benchmark %q: case %d has negative timeout",
					ErrInvalidPlan, b.Name, j)
			}
		}
	}

	return nil
}

// Names returns the run plan: the explicit run list if there is one,
// otherwise every declared benchmark in file order.
func (p *Plan) Names() []string {
	if len(p.Run) > 0 {
		return append([]string(nil), p.Run...)
	}

	names := make([]string, len(p.Benchmarks))
	for i, b := range p.Benchmarks {
		names[i] = b.Name
	}

	return names
}

// Register adds every declared benchmark to s.
func (p *Plan) Register(s *harness.Suite, logger *slog.Logger) error {
	for _, b := range p.Benchmarks {
		strategy, err := harness.StrategyByName(b.strategyName())
		if err != nil {
			return fmt.Errorf("benchmark %s: %w", b.Name, err)
		}

		cases := make([]harness.Case, len(b.Cases))
		for i, c := range b.Cases {
			cc := harness.NewCommandCase(c.Command, c.Args, c.Env, logger)
			cc.StdinPath = c.Stdin
			cc.Timeout = c.Timeout
			cases[i] = cc
		}

		if err := s.AddBenchmark(b.Name, strategy, cases...); err != nil {
			return fmt.Errorf("register %s: %w", b.Name, err)
		}
	}

	return nil
}

func (b Benchmark) strategyName() string {
	if b.Strategy == "" {
		return "total"
	}

	return b.Strategy
}
