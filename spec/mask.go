package spec

import (
	"iter"
	"math/bits"
)

// maskIgnored is the base value that marks a mask as selecting everything.
const maskIgnored = ^Word(0)

// HartMask selects a set of harts: hart base+i is selected when bit i of
// the mask is set. A base of all-ones is the sentinel for "every hart";
// the mask value is ignored in that case.
type HartMask struct {
	mask Word
	base Word
}

// NewHartMask builds a HartMask from the two-register call encoding.
func NewHartMask(mask, base Word) HartMask {
	return HartMask{mask: mask, base: base}
}

// AllHarts returns the mask that selects every hart in the platform.
func AllHarts() HartMask {
	return HartMask{base: maskIgnored}
}

// IsAll reports whether the mask is the all-harts sentinel.
func (m HartMask) IsAll() bool { return m.base == maskIgnored }

// Inner returns the raw mask and base values.
func (m HartMask) Inner() (mask, base Word) { return m.mask, m.base }

// HasBit reports whether hartID is selected by the mask.
func (m HartMask) HasBit(hartID Word) bool {
	if m.IsAll() {
		return true
	}
	if hartID < m.base {
		return false
	}
	idx := hartID - m.base
	if idx >= Word(bits.UintSize) {
		return false
	}
	return m.mask&(1<<idx) != 0
}

// IDs yields the selected hart ids in ascending order, each exactly once.
// The all-harts sentinel yields nothing; callers expand it against the
// platform's hart set instead.
func (m HartMask) IDs() iter.Seq[Word] {
	return func(yield func(Word) bool) {
		if m.IsAll() {
			return
		}
		for rest := m.mask; rest != 0; rest &= rest - 1 {
			id := m.base + Word(bits.TrailingZeros(rest))
			if id < m.base {
				// base+i wrapped past the top of the id space.
				return
			}
			if !yield(id) {
				return
			}
		}
	}
}

// CounterMask selects a set of PMU counter indices with the same encoding
// as HartMask.
type CounterMask struct {
	mask Word
	base Word
}

// NewCounterMask builds a CounterMask from the two-register call encoding.
func NewCounterMask(mask, base Word) CounterMask {
	return CounterMask{mask: mask, base: base}
}

// AllCounters returns the mask that selects every counter.
func AllCounters() CounterMask {
	return CounterMask{base: maskIgnored}
}

// IsAll reports whether the mask is the all-counters sentinel.
func (m CounterMask) IsAll() bool { return m.base == maskIgnored }

// Inner returns the raw mask and base values.
func (m CounterMask) Inner() (mask, base Word) { return m.mask, m.base }

// HasBit reports whether counter idx is selected by the mask.
func (m CounterMask) HasBit(idx Word) bool {
	return HartMask(m).HasBit(idx)
}

// IDs yields the selected counter indices in ascending order.
func (m CounterMask) IDs() iter.Seq[Word] {
	return HartMask(m).IDs()
}
