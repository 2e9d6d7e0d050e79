package harness

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgCount is returned by a strategy that cannot handle the
	// number of durations it was given.
	ErrInvalidArgCount = errors.New("invalid argument count")

	// ErrUnknownStrategy is returned by StrategyByName.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Strategy reduces the ordered per-case durations of a benchmark, in
// milliseconds, to the single figure reported for it.
type Strategy func(durations []int64) (int64, error)

// TotalTime reports the sum of all case durations.
func TotalTime(durations []int64) (int64, error) {
	var total int64
	for _, d := range durations {
		total += d
	}

	return total, nil
}

// TimeDiff reports how much longer the second case took than the first.
// It requires exactly two durations.
func TimeDiff(durations []int64) (int64, error) {
	if len(durations) != 2 {
		return 0, fmt.Errorf(
			"time diff needs 2 durations, got %d: %w",
			len(durations), ErrInvalidArgCount,
		)
	}

	return durations[1] - durations[0], nil
}

// StrategyByName resolves a strategy from its configuration name.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "total", "TotalTime":
		return TotalTime, nil
	case "diff", "TimeDiff":
		return TimeDiff, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, name)
	}
}
