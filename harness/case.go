package harness

// Case is one unit of timed work inside a benchmark.
type Case interface {
	Run() error
}

// CaseFunc adapts a function to the Case interface.
type CaseFunc func() error

// Run calls f.
func (f CaseFunc) Run() error {
	return f()
}

// Func wraps work that cannot fail.
func Func(fn func()) Case {
	return CaseFunc(func() error {
		fn()

		return nil
	})
}
