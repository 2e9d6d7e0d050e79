package harness

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Observer receives progress events while benchmarks run.
type Observer interface {
	BenchmarkStarted(name string)
	CaseFinished(name string, index int, ms int64)
	BenchmarkFinished(name string, reportedMs int64)
	BenchmarkSkipped(name string)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) BenchmarkStarted(string)         {}
func (NopObserver) CaseFinished(string, int, int64) {}
func (NopObserver) BenchmarkFinished(string, int64) {}
func (NopObserver) BenchmarkSkipped(string)         {}

// Console prints one line per event to a writer.
type Console struct {
	w io.Writer

	header *color.Color
	value  *color.Color
	total  *color.Color
	warn   *color.Color
}

// NewConsole creates a Console writing to w. Colour escapes are only
// emitted when colored is true.
func NewConsole(w io.Writer, colored bool) *Console {
	c := &Console{
		w:      w,
		header: color.New(color.Bold),
		value:  color.New(color.FgCyan),
		total:  color.New(color.FgGreen, color.Bold),
		warn:   color.New(color.FgYellow),
	}

	for _, col := range []*color.Color{c.header, c.value, c.total, c.warn} {
		if colored {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}

	return c
}

func (c *Console) BenchmarkStarted(name string) {
	fmt.Fprintf(c.w, "Benchmark: %s\n", c.header.Sprint(name))
}

func (c *Console) CaseFinished(_ string, index int, ms int64) {
	fmt.Fprintf(c.w, "  case %d: %s\n", index, c.value.Sprintf("%dms", ms))
}

func (c *Console) BenchmarkFinished(_ string, reportedMs int64) {
	fmt.Fprintf(c.w, "  time: %s\n", c.total.Sprintf("%dms", reportedMs))
}

func (c *Console) BenchmarkSkipped(name string) {
	fmt.Fprintln(c.w, c.warn.Sprintf("Benchmark %q not found, skipping", name))
}
