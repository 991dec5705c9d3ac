package parsec

// Pair, Triple, Quad and Quint are the tuple shapes Sequence2..Sequence5
// return. Grammar rules select out of them with plain field access (Select
// in spec terms), which is the idiomatic Go equivalent of projecting tuple
// positions.
type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

type Quad[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

type Quint[A, B, C, D, E any] struct {
	First  A
	Second B
	Third  C
	Fourth D
	Fifth  E
}

// Sequence2 matches p1 then p2; all-or-nothing, rewinding on either failure.
func Sequence2[A, B any](p1 Parser[A], p2 Parser[B]) Parser[Pair[A, B]] {
	return func(c *Cursor) (Pair[A, B], bool) {
		bp := c.Save()
		defer bp.Release()
		a, ok := p1(c)
		if !ok {
			return Pair[A, B]{}, false
		}
		b, ok := p2(c)
		if !ok {
			return Pair[A, B]{}, false
		}
		bp.Close()
		return Pair[A, B]{a, b}, true
	}
}

func Sequence3[A, B, C any](p1 Parser[A], p2 Parser[B], p3 Parser[C]) Parser[Triple[A, B, C]] {
	return func(c *Cursor) (Triple[A, B, C], bool) {
		bp := c.Save()
		defer bp.Release()
		a, ok := p1(c)
		if !ok {
			return Triple[A, B, C]{}, false
		}
		b, ok := p2(c)
		if !ok {
			return Triple[A, B, C]{}, false
		}
		d, ok := p3(c)
		if !ok {
			return Triple[A, B, C]{}, false
		}
		bp.Close()
		return Triple[A, B, C]{a, b, d}, true
	}
}

func Sequence4[A, B, C, D any](p1 Parser[A], p2 Parser[B], p3 Parser[C], p4 Parser[D]) Parser[Quad[A, B, C, D]] {
	return func(c *Cursor) (Quad[A, B, C, D], bool) {
		bp := c.Save()
		defer bp.Release()
		a, ok := p1(c)
		if !ok {
			return Quad[A, B, C, D]{}, false
		}
		b, ok := p2(c)
		if !ok {
			return Quad[A, B, C, D]{}, false
		}
		d, ok := p3(c)
		if !ok {
			return Quad[A, B, C, D]{}, false
		}
		e, ok := p4(c)
		if !ok {
			return Quad[A, B, C, D]{}, false
		}
		bp.Close()
		return Quad[A, B, C, D]{a, b, d, e}, true
	}
}

func Sequence5[A, B, C, D, E any](p1 Parser[A], p2 Parser[B], p3 Parser[C], p4 Parser[D], p5 Parser[E]) Parser[Quint[A, B, C, D, E]] {
	return func(c *Cursor) (Quint[A, B, C, D, E], bool) {
		bp := c.Save()
		defer bp.Release()
		a, ok := p1(c)
		if !ok {
			return Quint[A, B, C, D, E]{}, false
		}
		b, ok := p2(c)
		if !ok {
			return Quint[A, B, C, D, E]{}, false
		}
		d, ok := p3(c)
		if !ok {
			return Quint[A, B, C, D, E]{}, false
		}
		e, ok := p4(c)
		if !ok {
			return Quint[A, B, C, D, E]{}, false
		}
		f, ok := p5(c)
		if !ok {
			return Quint[A, B, C, D, E]{}, false
		}
		bp.Close()
		return Quint[A, B, C, D, E]{a, b, d, e, f}, true
	}
}

// Either (spec's "variant"/"base_either" unified: in Go the common base is
// simply the interface T) tries each alternative in order, rewinding
// between attempts, and returns the first that matches. If an alternative
// leaves an undroppable error, no further alternative is tried: the failure
// propagates.
func Either[T any](ps ...Parser[T]) Parser[T] {
	return func(c *Cursor) (T, bool) {
		for _, p := range ps {
			bp := c.Save()
			v, ok := p(c)
			if ok {
				bp.Close()
				bp.Release()
				return v, true
			}
			bp.Release()
			if c.HasUndroppableError() {
				var zero T
				return zero, false
			}
		}
		var zero T
		return zero, false
	}
}

// DelimSequence matches item (d item)*: one or more items separated by d.
func DelimSequence[T, D any](item Parser[T], d Parser[D]) Parser[[]T] {
	return func(c *Cursor) ([]T, bool) {
		bp := c.Save()
		defer bp.Release()
		first, ok := item(c)
		if !ok {
			return nil, false
		}
		out := []T{first}
		for {
			inner := c.Save()
			_, dok := d(c)
			if !dok {
				inner.Release()
				break
			}
			v, ok := item(c)
			if !ok {
				inner.Release()
				break
			}
			inner.Close()
			inner.Release()
			out = append(out, v)
		}
		bp.Close()
		return out, true
	}
}

// DelimSequenceExtraDelim is DelimSequence but additionally accepts (and
// discards) one trailing delimiter after the last item.
func DelimSequenceExtraDelim[T, D any](item Parser[T], d Parser[D]) Parser[[]T] {
	base := DelimSequence(item, d)
	return func(c *Cursor) ([]T, bool) {
		out, ok := base(c)
		if !ok {
			return nil, false
		}
		trailing := c.Save()
		if _, dok := d(c); dok {
			trailing.Close()
		}
		trailing.Release()
		return out, true
	}
}

// DelimSequenceExtraDelim0 is DelimSequenceExtraDelim but the whole list may
// be empty (zero items), always succeeding.
func DelimSequenceExtraDelim0[T, D any](item Parser[T], d Parser[D]) Parser[[]T] {
	base := DelimSequenceExtraDelim(item, d)
	return func(c *Cursor) ([]T, bool) {
		out, ok := base(c)
		if !ok {
			return []T{}, true
		}
		return out, true
	}
}
