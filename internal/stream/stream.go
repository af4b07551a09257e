package stream

import (
	"github.com/roach88/schemamig/internal/ir"
)

// Iterator is a lazy, finite, closeable sequence of elements.
type Iterator interface {
	// Next advances to the next element. It returns false when the sequence
	// is exhausted or an error occurred; check Err to tell them apart.
	Next() bool

	// Element returns the current element. Only valid after Next returned true.
	Element() ir.Element

	// Err returns the error that stopped iteration, if any.
	Err() error

	// Close releases the underlying resources. Idempotent.
	Close() error
}

// sliceIterator iterates an in-memory slice.
type sliceIterator struct {
	elements []ir.Element
	pos      int
	closed   bool
}

// FromSlice returns an iterator over elements. The slice is not copied.
func FromSlice(elements []ir.Element) Iterator {
	return &sliceIterator{elements: elements, pos: -1}
}

// Empty returns an iterator with no elements.
func Empty() Iterator {
	return FromSlice(nil)
}

func (it *sliceIterator) Next() bool {
	if it.closed || it.pos+1 >= len(it.elements) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Element() ir.Element {
	if it.pos < 0 || it.pos >= len(it.elements) {
		return ir.Element{}
	}
	return it.elements[it.pos]
}

func (it *sliceIterator) Err() error { return nil }

func (it *sliceIterator) Close() error {
	it.closed = true
	return nil
}

// MapFunc converts one element. Returning an error aborts the sequence.
type MapFunc func(ir.Element) (ir.Element, error)

// mapIterator decorates a source, converting each element as it is pulled.
type mapIterator struct {
	src      Iterator
	fn       MapFunc
	current  ir.Element
	err      error
	done     bool
	closed   bool
	closeErr error
}

// Map returns an iterator that applies fn to every element of src on pull.
//
// Relative order is preserved and no element is buffered beyond the current
// one. The first error returned by fn (or by src) stops iteration and is
// reported by Err; elements already yielded are not retracted.
//
// Closing the returned iterator closes src exactly once.
func Map(src Iterator, fn MapFunc) Iterator {
	return &mapIterator{src: src, fn: fn}
}

func (it *mapIterator) Next() bool {
	if it.done || it.closed {
		return false
	}
	if !it.src.Next() {
		it.done = true
		if err := it.src.Err(); err != nil {
			it.err = err
		}
		return false
	}
	out, err := it.fn(it.src.Element())
	if err != nil {
		it.err = err
		it.done = true
		it.current = ir.Element{}
		return false
	}
	it.current = out
	return true
}

func (it *mapIterator) Element() ir.Element { return it.current }

func (it *mapIterator) Err() error { return it.err }

func (it *mapIterator) Close() error {
	if it.closed {
		return it.closeErr
	}
	it.closed = true
	it.closeErr = it.src.Close()
	return it.closeErr
}

// Collect drains it into a slice and closes it.
// On error the elements pulled before the failure are returned with the error.
func Collect(it Iterator) (elements []ir.Element, err error) {
	defer func() {
		if closeErr := it.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	elements = []ir.Element{}
	for it.Next() {
		elements = append(elements, it.Element())
	}
	return elements, it.Err()
}
