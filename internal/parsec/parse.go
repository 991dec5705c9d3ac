package parsec

// Result is the outcome of a top-level Parse: either a value, or the single
// best (deepest) ParseError the cursor accumulated. Parse does not
// accumulate multiple independent errors — on fatal failure, only the
// deepest failure is surfaced (spec.md §7).
type Result[T any] struct {
	Value T
	Err   *ParseError
	OK    bool
}

// Parse runs p over the whole of c's source and requires that it consumes
// every byte; trailing unconsumed input is itself reported as the error.
func Parse[T any](c *Cursor, p Parser[T]) Result[T] {
	v, ok := p(c)
	if !ok {
		err := c.LastError()
		return Result[T]{Err: &err}
	}
	if !c.AtEOF() {
		c.fail("end of input")
		err := c.LastError()
		return Result[T]{Err: &err}
	}
	return Result[T]{Value: v, OK: true}
}
