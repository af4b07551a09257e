package testutil

import (
	"github.com/roach88/schemamig/internal/ir"
)

// TrackingIterator is an in-memory stream.Iterator that records how it is
// consumed. It optionally fails at a given position.
type TrackingIterator struct {
	elements []ir.Element
	pos      int

	// FailAt makes the Nth call to Next (0-based) fail with FailErr.
	// Negative disables failure.
	FailAt  int
	FailErr error

	// CloseErr is returned by every Close call.
	CloseErr error

	// Pulls counts successful Next calls.
	Pulls int

	// Closes counts Close calls.
	Closes int

	err error
}

// NewTrackingIterator creates a tracking iterator over elements.
func NewTrackingIterator(elements ...ir.Element) *TrackingIterator {
	return &TrackingIterator{elements: elements, pos: -1, FailAt: -1}
}

func (it *TrackingIterator) Next() bool {
	if it.err != nil || it.Closes > 0 {
		return false
	}
	next := it.pos + 1
	if it.FailAt >= 0 && next == it.FailAt {
		it.err = it.FailErr
		return false
	}
	if next >= len(it.elements) {
		return false
	}
	it.pos = next
	it.Pulls++
	return true
}

func (it *TrackingIterator) Element() ir.Element {
	if it.pos < 0 || it.pos >= len(it.elements) {
		return ir.Element{}
	}
	return it.elements[it.pos]
}

func (it *TrackingIterator) Err() error { return it.err }

func (it *TrackingIterator) Close() error {
	it.Closes++
	return it.CloseErr
}
