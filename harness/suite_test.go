package harness

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/weiihann/tbench/timer"
)

func newTestSuite(
	clock *timer.ManualClock,
	obs Observer,
	opts ...Option,
) *Suite {
	return NewSuite(append([]Option{
		WithClock(clock),
		WithObserver(obs),
	}, opts...)...)
}

func TestSuiteSortScenario(t *testing.T) {
	clock := timer.NewManualClock(epoch)

	var buf bytes.Buffer
	s := newTestSuite(clock, NewConsole(&buf, false))

	err := s.AddBenchmark("sort", TotalTime,
		sleepCase(clock, 10*time.Millisecond, nil, 0),
		sleepCase(clock, 20*time.Millisecond, nil, 1),
	)
	if err != nil {
		t.Fatalf("AddBenchmark failed: %v", err)
	}

	result, err := s.Run("sort")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !reflect.DeepEqual(result.Durations, []int64{10, 20}) {
		t.Errorf("durations = %v, want [10 20]", result.Durations)
	}
	if result.ReportedMs != 30 {
		t.Errorf("reported = %d, want 30", result.ReportedMs)
	}

	want := "Benchmark: sort\n" +
		"  case 0: 10ms\n" +
		"  case 1: 20ms\n" +
		"  time: 30ms\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestSuiteCompareScenario(t *testing.T) {
	clock := timer.NewManualClock(epoch)
	s := newTestSuite(clock, nil)

	err := s.AddBenchmark("compare", TimeDiff,
		sleepCase(clock, 15*time.Millisecond, nil, 0),
		sleepCase(clock, 25*time.Millisecond, nil, 1),
	)
	if err != nil {
		t.Fatalf("AddBenchmark failed: %v", err)
	}

	result, err := s.Run("compare")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.ReportedMs != 10 {
		t.Errorf("reported = %d, want 10", result.ReportedMs)
	}
}

func TestSuiteRunMissing(t *testing.T) {
	clock := timer.NewManualClock(epoch)

	var buf bytes.Buffer
	s := newTestSuite(clock, NewConsole(&buf, false))

	result, err := s.Run("nonexistent")
	if err != nil {
		t.Fatalf("Run of missing name returned error: %v", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}

	output := buf.String()
	if !strings.Contains(output, "not found, skipping") {
		t.Errorf("expected miss notice, got %q", output)
	}
	if strings.Contains(output, "ms") {
		t.Errorf("expected no timing output, got %q", output)
	}
}

func TestSuiteRunNamesSkipsMissing(t *testing.T) {
	clock := timer.NewManualClock(epoch)
	rec := &recorder{}
	s := newTestSuite(clock, rec)

	mustAdd(t, s, "a", TotalTime, sleepCase(clock, time.Millisecond, nil, 0))
	mustAdd(t, s, "b", TotalTime, sleepCase(clock, 2*time.Millisecond, nil, 0))

	results, err := s.RunNames("a", "typo", "b")
	if err != nil {
		t.Fatalf("RunNames failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "a" || results[1].Name != "b" {
		t.Errorf("results = %+v, want a then b", results)
	}

	want := []string{
		"start a", "case a 0 1", "done a 1",
		"skip typo",
		"start b", "case b 0 2", "done b 2",
	}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestSuiteRunNamesAbortsOnFailure(t *testing.T) {
	clock := timer.NewManualClock(epoch)
	rec := &recorder{}
	s := newTestSuite(clock, rec)

	mustAdd(t, s, "ok", TotalTime, sleepCase(clock, time.Millisecond, nil, 0))
	mustAdd(t, s, "bad", TimeDiff, sleepCase(clock, time.Millisecond, nil, 0))
	mustAdd(t, s, "later", TotalTime, sleepCase(clock, time.Millisecond, nil, 0))

	results, err := s.RunNames("ok", "bad", "later")
	if !errors.Is(err, ErrInvalidArgCount) {
		t.Fatalf("error = %v, want ErrInvalidArgCount", err)
	}
	if len(results) != 1 || results[0].Name != "ok" {
		t.Errorf("results = %+v, want only ok", results)
	}

	for _, e := range rec.events {
		if strings.Contains(e, "later") {
			t.Errorf("benchmark after failure ran: %q", e)
		}
	}
}

func TestSuiteContinueOnError(t *testing.T) {
	clock := timer.NewManualClock(epoch)
	boom := errors.New("boom")
	s := newTestSuite(clock, nil, WithContinueOnError(true))

	mustAdd(t, s, "bad-case", TotalTime,
		CaseFunc(func() error { return boom }))
	mustAdd(t, s, "bad-arity", TimeDiff)
	mustAdd(t, s, "ok", TotalTime, sleepCase(clock, 4*time.Millisecond, nil, 0))

	results, err := s.RunNames("bad-case", "bad-arity", "ok")
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom joined", err)
	}
	if !errors.Is(err, ErrInvalidArgCount) {
		t.Errorf("error = %v, want ErrInvalidArgCount joined", err)
	}
	if len(results) != 1 || results[0].ReportedMs != 4 {
		t.Errorf("results = %+v, want ok with 4ms", results)
	}
}

func TestSuiteRunAll(t *testing.T) {
	clock := timer.NewManualClock(epoch)
	s := newTestSuite(clock, nil)

	counts := map[string]int{}
	for _, name := range []string{"zeta", "alpha", "mid"} {
		n := name
		mustAdd(t, s, n, TotalTime, Func(func() { counts[n]++ }))
	}

	results, err := s.RunAll()
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}

	var names []string
	for _, r := range results {
		names = append(names, r.Name)
	}

	if !reflect.DeepEqual(names, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("names = %v, want sorted", names)
	}

	for name, n := range counts {
		if n != 1 {
			t.Errorf("%s ran %d times, want 1", name, n)
		}
	}
}

func TestSuiteRunAllSnapshot(t *testing.T) {
	clock := timer.NewManualClock(epoch)
	s := newTestSuite(clock, nil)

	lateRan := false
	mustAdd(t, s, "register", TotalTime, CaseFunc(func() error {
		return s.AddBenchmark("zz-late", TotalTime,
			Func(func() { lateRan = true }))
	}))

	results, err := s.RunAll()
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
	if lateRan {
		t.Error("benchmark registered during RunAll should not run")
	}
}

func TestSuiteAddBenchmarkErrors(t *testing.T) {
	s := NewSuite()

	if err := s.AddBenchmark("", TotalTime); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name error = %v, want ErrEmptyName", err)
	}

	mustAdd(t, s, "dup", TotalTime)

	err := s.AddBenchmark("dup", TimeDiff)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate error = %v, want ErrDuplicateName", err)
	}

	// The first registration is kept.
	result, err := s.Run("dup")
	if err != nil {
		t.Fatalf("Run(dup) failed: %v", err)
	}
	if result.ReportedMs != 0 {
		t.Errorf("reported = %d, want 0", result.ReportedMs)
	}
}

func TestSuiteNames(t *testing.T) {
	s := NewSuite()

	if names := s.Names(); len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}

	mustAdd(t, s, "b", TotalTime)
	mustAdd(t, s, "a", TotalTime)

	if names := s.Names(); !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("names = %v, want [a b]", names)
	}
}

func mustAdd(t *testing.T, s *Suite, name string, st Strategy, cases ...Case) {
	t.Helper()

	if err := s.AddBenchmark(name, st, cases...); err != nil {
		t.Fatalf("AddBenchmark(%q) failed: %v", name, err)
	}
}
