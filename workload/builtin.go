package workload

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/weiihann/tbench/harness"
)

// Builtins lists the benchmarks added by Register.
var Builtins = []string{"encode", "map", "sort", "sort-stable"}

var errMapNotFilled = errors.New("map lookup ran before fill")

type builtin struct {
	name     string
	strategy harness.Strategy
	cases    []harness.Case
}

// Register generates data from cfg and adds the built-in benchmarks to s.
// Data generation happens here and is not timed.
func Register(s *harness.Suite, cfg Config) error {
	gen := NewGenerator(cfg)
	ints := gen.Ints()
	keys := gen.Keys()
	records := gen.Records()

	benches := []builtin{
		{
			name:     "sort",
			strategy: harness.TotalTime,
			cases: []harness.Case{
				harness.Func(func() { slices.Sort(slices.Clone(ints)) }),
				harness.Func(func() { slices.Sort(slices.Clone(keys)) }),
			},
		},
		{
			name:     "sort-stable",
			strategy: harness.TimeDiff,
			cases: []harness.Case{
				harness.Func(func() { slices.Sort(slices.Clone(ints)) }),
				harness.Func(func() {
					slices.SortStableFunc(slices.Clone(ints), cmp.Compare[int])
				}),
			},
		},
		mapBenchmark(keys),
		{
			name:     "encode",
			strategy: harness.TimeDiff,
			cases: []harness.Case{
				harness.CaseFunc(func() error {
					_, err := json.Marshal(records)

					return err
				}),
				harness.CaseFunc(func() error {
					return encodeJSONL(io.Discard, records)
				}),
			},
		},
	}

	for _, b := range benches {
		if err := s.AddBenchmark(b.name, b.strategy, b.cases...); err != nil {
			return fmt.Errorf("register %s: %w", b.name, err)
		}
	}

	return nil
}

// mapBenchmark fills a map in its first case and reads it back in the
// second, so the cases only work in order.
func mapBenchmark(keys []string) builtin {
	var m map[string]int

	fill := harness.Func(func() {
		m = make(map[string]int, len(keys))
		for i, k := range keys {
			m[k] = i
		}
	})

	lookup := harness.CaseFunc(func() error {
		if m == nil {
			return errMapNotFilled
		}

		for _, k := range keys {
			if _, ok := m[k]; !ok {
				return fmt.Errorf("key %s missing", k)
			}
		}

		return nil
	})

	return builtin{
		name:     "map",
		strategy: harness.TotalTime,
		cases:    []harness.Case{fill, lookup},
	}
}

func encodeJSONL(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode %s: %w", r.Op, err)
		}
	}

	return nil
}
