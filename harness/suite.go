package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/weiihann/tbench/timer"
)

var (
	// ErrDuplicateName is returned when a name is registered twice.
	ErrDuplicateName = errors.New("benchmark already registered")

	// ErrEmptyName is returned when registering a benchmark without a name.
	ErrEmptyName = errors.New("benchmark name is empty")
)

// Option configures a Suite.
type Option func(*Suite)

// WithClock sets the clock used to time cases.
func WithClock(clock timer.Clock) Option {
	return func(s *Suite) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithObserver sets the receiver of progress events.
func WithObserver(obs Observer) Option {
	return func(s *Suite) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Suite) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithContinueOnError makes batch runs keep going after a failing
// benchmark. The failures are joined and returned once the batch ends.
func WithContinueOnError(enabled bool) Option {
	return func(s *Suite) {
		s.continueOnError = enabled
	}
}

// Suite is a registry of named benchmarks.
type Suite struct {
	mu      sync.Mutex
	benches map[string]*Benchmark

	clock           timer.Clock
	observer        Observer
	logger          *slog.Logger
	continueOnError bool
}

// NewSuite creates an empty Suite.
func NewSuite(opts ...Option) *Suite {
	s := &Suite{
		benches:  make(map[string]*Benchmark),
		clock:    timer.SystemClock{},
		observer: NopObserver{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddBenchmark registers cases under name. Names must be unique.
func (s *Suite) AddBenchmark(
	name string,
	strategy Strategy,
	cases ...Case,
) error {
	if name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.benches[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	s.benches[name] = NewBenchmark(strategy, cases...)

	s.logger.Debug("benchmark registered",
		slog.String("benchmark", name),
		slog.Int("cases", len(cases)),
	)

	return nil
}

// Names returns the registered names in lexical order.
func (s *Suite) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.benches))
	for name := range s.benches {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Run runs the named benchmark. An unknown name is reported to the
// observer and skipped; it returns a nil Result and no error.
func (s *Suite) Run(name string) (*Result, error) {
	s.mu.Lock()
	bench, ok := s.benches[name]
	s.mu.Unlock()

	if !ok {
		s.logger.Warn("benchmark not found, skipping",
			slog.String("benchmark", name),
		)
		s.observer.BenchmarkSkipped(name)

		return nil, nil
	}

	s.observer.BenchmarkStarted(name)

	result, err := bench.Run(name, s.clock, s.observer)
	if err != nil {
		s.logger.Error("benchmark failed",
			slog.String("benchmark", name),
			slog.String("error", err.Error()),
		)

		return nil, err
	}

	s.logger.Debug("benchmark finished",
		slog.String("benchmark", name),
		slog.Int64("reported_ms", result.ReportedMs),
	)

	return &result, nil
}

// RunNames runs each name in order. By default the first failure stops
// the batch and is returned along with the results collected so far.
func (s *Suite) RunNames(names ...string) ([]Result, error) {
	results := make([]Result, 0, len(names))

	var errs []error

	for _, name := range names {
		result, err := s.Run(name)
		if err != nil {
			if !s.continueOnError {
				return results, err
			}

			errs = append(errs, err)

			continue
		}

		if result != nil {
			results = append(results, *result)
		}
	}

	return results, errors.Join(errs...)
}

// RunAll runs every benchmark registered when it is called, in lexical
// order.
func (s *Suite) RunAll() ([]Result, error) {
	return s.RunNames(s.Names()...)
}
