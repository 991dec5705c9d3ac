package parsec

// Parser is a first-class parser of T: given a cursor, it either consumes
// some input and returns (value, true), or consumes nothing observable (any
// partial consumption is undone by a BreakPoint before returning) and
// returns (zero, false).
type Parser[T any] func(c *Cursor) (T, bool)

// Symbol consumes exactly one byte equal to b.
func Symbol(b byte) Parser[byte] {
	expected := "'" + string(rune(b)) + "'"
	return func(c *Cursor) (byte, bool) {
		bp := c.Save()
		defer bp.Release()
		got, ok := c.Get()
		if ok && got == b {
			bp.Close()
			return got, true
		}
		c.fail(expected)
		return 0, false
	}
}

// Symbols consumes the exact byte string s.
func Symbols(s string) Parser[string] {
	expected := "\"" + s + "\""
	return func(c *Cursor) (string, bool) {
		bp := c.Save()
		defer bp.Release()
		got, ok := c.GetN(len(s))
		if ok && got == s {
			bp.Close()
			return got, true
		}
		c.fail(expected)
		return "", false
	}
}

// Predicate consumes one byte satisfying pred, or fails reporting name as
// what was expected.
func Predicate(name string, pred func(byte) bool) Parser[byte] {
	return func(c *Cursor) (byte, bool) {
		bp := c.Save()
		defer bp.Release()
		got, ok := c.Get()
		if ok && pred(got) {
			bp.Close()
			return got, true
		}
		c.fail(name)
		return 0, false
	}
}

// Many matches p zero or more times. It always succeeds; it stops at the
// first failure of p without consuming that failed attempt.
func Many[T any](p Parser[T]) Parser[[]T] {
	return func(c *Cursor) ([]T, bool) {
		var out []T
		for {
			bp := c.Save()
			v, ok := p(c)
			if !ok {
				bp.Release()
				return out, true
			}
			bp.Close()
			bp.Release()
			out = append(out, v)
		}
	}
}

// Some matches p one or more times; it fails if p never matches.
func Some[T any](p Parser[T]) Parser[[]T] {
	many := Many(p)
	return func(c *Cursor) ([]T, bool) {
		out, _ := many(c)
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	}
}

// Count matches p at least min and at most max times (inclusive).
func Count[T any](min, max int, p Parser[T]) Parser[[]T] {
	return func(c *Cursor) ([]T, bool) {
		bp := c.Save()
		defer bp.Release()
		var out []T
		for len(out) < max {
			inner := c.Save()
			v, ok := p(c)
			if !ok {
				inner.Release()
				break
			}
			inner.Close()
			inner.Release()
			out = append(out, v)
		}
		if len(out) < min {
			return nil, false
		}
		bp.Close()
		return out, true
	}
}

// Chain matches p once, followed by zero or more repetitions of p (via
// rest), and concatenates the single match onto the list.
func Chain[T any](p Parser[T], rest Parser[[]T]) Parser[[]T] {
	return func(c *Cursor) ([]T, bool) {
		bp := c.Save()
		defer bp.Release()
		first, ok := p(c)
		if !ok {
			return nil, false
		}
		more, _ := rest(c)
		bp.Close()
		return append([]T{first}, more...), true
	}
}

// Maybe makes p optional: it never reports failure unless p set an
// undroppable error, in which case that error must still propagate.
func Maybe[T any](p Parser[T]) Parser[Option[T]] {
	return func(c *Cursor) (Option[T], bool) {
		bp := c.Save()
		v, ok := p(c)
		if ok {
			bp.Close()
			bp.Release()
			return Option[T]{Present: true, Value: v}, true
		}
		bp.Release()
		if c.HasUndroppableError() {
			return Option[T]{}, false
		}
		return Option[T]{}, true
	}
}

// Option is the result of Maybe: a value that may or may not be present.
type Option[T any] struct {
	Present bool
	Value   T
}

// OptionBool runs p for its side effect on the cursor and reports whether it
// matched, as a plain boolean that never itself fails (again, unless p left
// an undroppable error behind).
func OptionBool[T any](p Parser[T]) Parser[bool] {
	maybe := Maybe(p)
	return func(c *Cursor) (bool, bool) {
		opt, ok := maybe(c)
		if !ok {
			return false, false
		}
		return opt.Present, true
	}
}

// NotFrom succeeds iff p succeeds and its result is not present in values.
func NotFrom[T comparable](p Parser[T], values []T) Parser[T] {
	return Except(p, "value not in excluded set", func(v T) bool {
		for _, x := range values {
			if v == x {
				return false
			}
		}
		return true
	})
}

// Except succeeds iff p succeeds and pred holds of its result; name is used
// as the expected-set entry on failure.
func Except[T any](p Parser[T], name string, pred func(T) bool) Parser[T] {
	return func(c *Cursor) (T, bool) {
		bp := c.Save()
		defer bp.Release()
		v, ok := p(c)
		if ok && pred(v) {
			bp.Close()
			return v, true
		}
		var zero T
		c.fail(name)
		return zero, false
	}
}

// Map (the "extension" combinator) lifts p's result through a pure function.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(c *Cursor) (B, bool) {
		v, ok := p(c)
		if !ok {
			var zero B
			return zero, false
		}
		return f(v), true
	}
}

// Construct lifts p's result into a constructor of T; it is Map with the
// constructor-oriented name the grammar uses at AST-building call sites.
func Construct[A, T any](p Parser[A], ctor func(A) T) Parser[T] { return Map(p, ctor) }

// NoReturn commits the cursor on success: from this point on, nothing
// enclosing this parser can rewind past here. This is the only source of
// commitment in the runtime.
func NoReturn[T any](p Parser[T]) Parser[T] {
	return func(c *Cursor) (T, bool) {
		v, ok := p(c)
		if ok {
			c.SetNoReturnPoint()
		}
		return v, ok
	}
}
