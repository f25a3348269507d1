package format

import "fmt"

// Span is the byte-range provenance of a decoded value: where in the
// source buffer the value came from. Offsets are relative to whatever
// buffer the decoder was handed; page-level decoders translate them to
// absolute file offsets before exposing them.
type Span struct {
	Start int
	Len   int
}

func NewSpan(start, length int) Span {
	return Span{Start: start, Len: length}
}

// End returns the exclusive end offset.
func (s Span) End() int { return s.Start + s.Len }

// Shift returns the span moved by delta bytes, used to rebase a
// buffer-relative span onto an absolute file offset.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, Len: s.Len}
}

func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End())
}

// Field couples a decoded value with the span it was decoded from.
type Field[T any] struct {
	Value T
	Span  Span
}

func NewField[T any](value T, start, length int) Field[T] {
	return Field[T]{Value: value, Span: NewSpan(start, length)}
}

// Shift rebases the field's span by delta bytes.
func (f Field[T]) Shift(delta int) Field[T] {
	return Field[T]{Value: f.Value, Span: f.Span.Shift(delta)}
}
