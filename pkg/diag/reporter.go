package diag

import (
	"go.uber.org/multierr"
)

// Reporter receives diagnostics as they are produced. Report returns false
// when the producer should stop at its next recovery point.
type Reporter interface {
	Report(d *Diagnostic) bool
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d *Diagnostic) bool

// Report calls f(d).
func (f ReporterFunc) Report(d *Diagnostic) bool {
	return f(d)
}

// Discard accepts and drops every diagnostic.
var Discard Reporter = ReporterFunc(func(*Diagnostic) bool { return true })

// Collector records every diagnostic it receives. With a positive limit it
// asks producers to stop once that many errors have been collected.
type Collector struct {
	Limit       int
	diagnostics []*Diagnostic
	errors      int
}

// NewCollector returns a Collector that stops after limit errors.
// A limit of zero or less never stops.
func NewCollector(limit int) *Collector {
	return &Collector{Limit: limit}
}

// NewFailFast returns a Collector that stops at the first error.
func NewFailFast() *Collector {
	return NewCollector(1)
}

// Report records d.
func (c *Collector) Report(d *Diagnostic) bool {
	c.diagnostics = append(c.diagnostics, d)
	if d.IsError() {
		c.errors++
	}
	return c.Limit <= 0 || c.errors < c.Limit
}

// Diagnostics returns everything collected so far, in report order.
func (c *Collector) Diagnostics() []*Diagnostic {
	return c.diagnostics
}

// HasErrors returns true if any error-severity diagnostic was collected.
func (c *Collector) HasErrors() bool {
	return c.errors > 0
}

// ErrorCount returns the number of error-severity diagnostics.
func (c *Collector) ErrorCount() int {
	return c.errors
}

// Err combines every error-severity diagnostic into one error, or returns
// nil if there are none. Use multierr.Errors to split it again.
func (c *Collector) Err() error {
	var err error
	for _, d := range c.diagnostics {
		if d.IsError() {
			err = multierr.Append(err, d)
		}
	}
	return err
}

// Reset drops everything collected so far.
func (c *Collector) Reset() {
	c.diagnostics = nil
	c.errors = 0
}

// Tee forwards each diagnostic to every reporter. It asks to continue only
// if all of them do.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(d *Diagnostic) bool {
		keepGoing := true
		for _, r := range reporters {
			if !r.Report(d) {
				keepGoing = false
			}
		}
		return keepGoing
	})
}

// Counter wraps a reporter and counts errors passing through it. Stages use
// it to know whether their own work produced errors.
type Counter struct {
	Reporter Reporter
	Errors   int
	Stopped  bool
}

// Report forwards d and records the answer.
func (c *Counter) Report(d *Diagnostic) bool {
	if d.IsError() {
		c.Errors++
	}
	r := c.Reporter
	if r == nil {
		r = Discard
	}
	if !r.Report(d) {
		c.Stopped = true
	}
	return !c.Stopped
}
