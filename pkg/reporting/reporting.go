package reporting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
)

// Result is the outcome of one batch element.
type Result struct {
	// Index identifies the element within its batch.
	Index int

	// Sum is the element's accumulated value. Partial when Err is set.
	Sum int

	// Err is nil on success.
	Err error
}

// Failed reports whether the element ended in failure.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Reporter publishes element results. Implementations must be safe for
// concurrent use: batch elements report from their own goroutines.
type Reporter interface {
	Report(ctx context.Context, result Result) error
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(ctx context.Context, result Result) error

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, result Result) error {
	return f(ctx, result)
}

type console struct {
	mu sync.Mutex
	w  io.Writer
}

// Console returns a Reporter writing one line per result to w:
// "<index> <sum>" on success and "<index> failed: <err>" on failure.
func Console(w io.Writer) Reporter {
	return &console{w: w}
}

func (c *console) Report(_ context.Context, result Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if result.Failed() {
		_, err = fmt.Fprintf(c.w, "%d failed: %v\n", result.Index, result.Err)
	} else {
		_, err = fmt.Fprintf(c.w, "%d %d\n", result.Index, result.Sum)
	}
	if err != nil {
		return gferrors.NewOperationError("reporting", "Console", err)
	}
	return nil
}

type multi []Reporter

// Multi reports to every reporter in order and joins their errors. Nil
// reporters are skipped.
func Multi(reporters ...Reporter) Reporter {
	var m multi
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multi) Report(ctx context.Context, result Result) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every result.
var Discard Reporter = ReporterFunc(func(context.Context, Result) error { return nil })
