package harness

import (
	"fmt"

	"github.com/weiihann/tbench/timer"
)

// CaseError reports a case that failed during a benchmark run.
type CaseError struct {
	Benchmark string
	Index     int
	Err       error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("benchmark %s: case %d: %v", e.Benchmark, e.Index, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// Benchmark is an ordered list of cases plus the strategy that reduces
// their timings. Cases run in the order they were given.
type Benchmark struct {
	strategy Strategy
	cases    []Case
}

// NewBenchmark creates a Benchmark. A nil strategy falls back to
// TotalTime.
func NewBenchmark(strategy Strategy, cases ...Case) *Benchmark {
	if strategy == nil {
		strategy = TotalTime
	}

	return &Benchmark{
		strategy: strategy,
		cases:    append([]Case(nil), cases...),
	}
}

// Len returns the number of cases.
func (b *Benchmark) Len() int {
	return len(b.cases)
}

// Run times every case in order, then applies the strategy to the
// collected durations. The first failing case stops the run and the
// strategy is not called.
func (b *Benchmark) Run(
	name string,
	clock timer.Clock,
	obs Observer,
) (Result, error) {
	if obs == nil {
		obs = NopObserver{}
	}

	durations := make([]int64, 0, len(b.cases))

	for i, c := range b.cases {
		t := timer.New(clock)

		t.Start()
		err := c.Run()
		t.Stop()

		if err != nil {
			return Result{}, &CaseError{Benchmark: name, Index: i, Err: err}
		}

		ms := t.Milliseconds()
		durations = append(durations, ms)
		obs.CaseFinished(name, i, ms)
	}

	reported, err := b.strategy(durations)
	if err != nil {
		return Result{}, fmt.Errorf("benchmark %s: %w", name, err)
	}

	obs.BenchmarkFinished(name, reported)

	return Result{
		Name:       name,
		Durations:  durations,
		ReportedMs: reported,
	}, nil
}
