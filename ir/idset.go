package ir

import "github.com/bits-and-blooms/bitset"

// IdSet is a set of Id, supporting only Id >= IdFirst. Grounded on
// onejit::IdSet (idset.hpp), which wraps onestl::BitSet the same way this
// wraps bits-and-blooms/bitset: the backing storage is swapped for the
// real ecosystem module per SPEC_FULL.md §3, but the offset-by-FIRST
// indexing and the bounds-checked-get/silent-out-of-bounds-set contract
// are copied 1:1.
type IdSet struct {
	bits *bitset.BitSet
}

// NewIdSet returns an IdSet with room for size Ids (IdFirst..IdFirst+size-1).
func NewIdSet(size uint32) *IdSet {
	return &IdSet{bits: bitset.New(uint(size))}
}

func idSetIndex(id Id) (uint, bool) {
	if !id.Valid() {
		return 0, false
	}
	return uint(id - IdFirst), true
}

// Get reports whether id is present. Out-of-bounds or invalid ids report
// false rather than panicking.
func (s *IdSet) Get(id Id) bool {
	idx, ok := idSetIndex(id)
	if !ok || s.bits == nil || idx >= s.bits.Len() {
		return false
	}
	return s.bits.Test(idx)
}

// Set adds or removes id. Does nothing if id is invalid or out of bounds,
// matching idset.hpp's "does nothing if Id is out of bounds" contract —
// unlike the underlying bitset.BitSet.Set, which would silently grow.
func (s *IdSet) Set(id Id, value bool) {
	idx, ok := idSetIndex(id)
	if !ok || s.bits == nil || idx >= s.bits.Len() {
		return
	}
	if value {
		s.bits.Set(idx)
	} else {
		s.bits.Clear(idx)
	}
}

// Resize changes the set's size so that highest is representable,
// preserving any bits that still fit. Returns false if highest underflows
// the Id range; always succeeds otherwise, since Go's allocator reports
// out-of-memory as a panic/process death rather than a recoverable
// condition bitset.New could hand back.
func (s *IdSet) Resize(highest Id) bool {
	size, ok := idSetSizeFor(highest)
	if !ok {
		return false
	}
	next := bitset.New(size)
	if s.bits != nil {
		limit := s.bits.Len()
		if size < limit {
			limit = size
		}
		for i := uint(0); i < limit; i++ {
			if s.bits.Test(i) {
				next.Set(i)
			}
		}
	}
	s.bits = next
	return true
}

// Reserve ensures highest is representable without discarding the current
// size if it is already large enough.
func (s *IdSet) Reserve(highest Id) bool {
	size, ok := idSetSizeFor(highest)
	if !ok {
		return false
	}
	if s.bits != nil && s.bits.Len() >= size {
		return true
	}
	return s.Resize(highest)
}

func idSetSizeFor(highest Id) (uint, bool) {
	if !highest.Valid() {
		return 0, false
	}
	return uint(highest-IdFirst) + 1, true
}

// Clear empties the set without changing its capacity.
func (s *IdSet) Clear() {
	if s.bits != nil {
		s.bits.ClearAll()
	}
}

// Size returns the number of representable Ids.
func (s *IdSet) Size() uint32 {
	if s.bits == nil {
		return 0
	}
	return uint32(s.bits.Len())
}

// Empty reports whether no Id is present.
func (s *IdSet) Empty() bool {
	return s.bits == nil || s.bits.None()
}
