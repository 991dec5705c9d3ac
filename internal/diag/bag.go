package diag

import "fmt"

// Bag is an append-only, order-preserving collection of diagnostics,
// deduplicated by (file, offset, code) the way the teacher's analyzer
// dedups by "line:col:code" (internal/analyzer.walker.errorSet).
type Bag struct {
	items []*Diagnostic
	seen  map[string]bool
}

// NewBag returns an empty Bag.
func NewBag() *Bag {
	return &Bag{seen: make(map[string]bool)}
}

// Add appends d unless an equal (file, offset, code) diagnostic was already
// recorded.
func (b *Bag) Add(d *Diagnostic) {
	key := fmt.Sprintf("%s:%d:%s", d.Place.File, d.Place.Index, d.Code)
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, d)
}

// AddAll appends every diagnostic in ds, applying the same dedup rule.
func (b *Bag) AddAll(ds []*Diagnostic) {
	for _, d := range ds {
		b.Add(d)
	}
}

// Items returns the diagnostics recorded so far, in insertion order.
func (b *Bag) Items() []*Diagnostic { return b.items }

// HasErrors reports whether any Error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of recorded diagnostics.
func (b *Bag) Len() int { return len(b.items) }
