package errors

import "fmt"

// Termination is returned by a pass that cannot sensibly produce output
// for the unit it was given, after recording at least one Error to the
// Bag. A Termination carrying an empty Bag is an internal bug (spec.md §7).
type Termination struct {
	Reason string
}

func (t *Termination) Error() string { return "terminated: " + t.Reason }

// Bag accumulates diagnostics across a pass. Each pass receives a *Bag,
// appends findings, and either returns normally (possibly with warnings
// or recoverable errors already appended) or returns a *Termination once
// it cannot continue producing a meaningful partial result.
type Bag struct {
	items []*Error
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add appends a finding and returns it, so call sites can chain
// WithNote/WithData.
func (b *Bag) Add(e *Error) *Error {
	b.items = append(b.items, e)
	return e
}

// Errors returns the fatal (non-warning) findings.
func (b *Bag) Errors() []*Error {
	var out []*Error
	for _, e := range b.items {
		if !e.IsWarning() {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns the warning findings.
func (b *Bag) Warnings() []*Error {
	var out []*Error
	for _, e := range b.items {
		if e.IsWarning() {
			out = append(out, e)
		}
	}
	return out
}

// All returns every finding in insertion order.
func (b *Bag) All() []*Error { return append([]*Error(nil), b.items...) }

// HasErrors reports whether any fatal finding has been recorded.
func (b *Bag) HasErrors() bool {
	for _, e := range b.items {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// Terminate records a Termination's invariant: the Bag must already be
// non-empty. It panics on violation since an empty-bag Termination is an
// internal bug, never a user-facing condition (spec.md §7).
func (b *Bag) Terminate(reason string) *Termination {
	if len(b.items) == 0 {
		panic(fmt.Sprintf("internal: Termination(%q) with empty diagnostic bag", reason))
	}
	return &Termination{Reason: reason}
}

// Merge appends every item of other into b, preserving order. Used by the
// driver to fold a per-component Bag into the file-wide Bag (spec.md §7:
// "any error is fatal for the component but permits other components to
// be analysed").
func (b *Bag) Merge(other *Bag) {
	b.items = append(b.items, other.items...)
}
