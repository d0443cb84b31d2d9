// Package asm implements the byte-buffer Assembler of spec §4.5: a
// growable byte stream with label patch-site bookkeeping, resolved to
// final relative offsets once every label's address is known. It encodes
// no real x86-64 instructions — spec §1 scopes instruction encoding out —
// only the buffer and patch machinery the rest of this module's lowering
// passes hand their Labels to.
package asm

import "github.com/cosmos72/gomacrojit/ir"

// patch records one not-yet-resolved relative reference: the byte range
// [start, start+width) inside the buffer that AddLabel's most recent call
// attached to label, to be overwritten with the signed distance from the
// patch site to label's resolved address once Seal runs.
type patch struct {
	label ir.Label
	start int
	width int
}

// Assembler is a byte buffer with add_byte/add_bytes/add_label (spec
// §4.5). Appends past Cap are dropped and set a sticky error flag,
// mirroring the Code holder's own OOM contract (ir.Code.markOOM) rather
// than panicking.
type Assembler struct {
	buf   []byte
	cap   int
	err   bool
	lastN int // width of the most recent contiguous addition, for AddLabel
	patches []patch
}

// New returns an Assembler with room for at most capacity bytes.
func New(capacity int) *Assembler {
	return &Assembler{cap: capacity}
}

// OK reports whether every append so far has succeeded.
func (a *Assembler) OK() bool {
	return !a.err
}

// Len returns the number of bytes written so far.
func (a *Assembler) Len() int {
	return len(a.buf)
}

// Bytes returns the buffer's contents. Only meaningful once OK(); the
// caller must not retain it across further Assembler calls, since
// AddByte/AddBytes may grow and reallocate the backing array.
func (a *Assembler) Bytes() []byte {
	return a.buf
}

func (a *Assembler) reserve(n int) bool {
	if a.err {
		return false
	}
	if len(a.buf)+n > a.cap {
		a.err = true
		return false
	}
	return true
}

// AddByte appends one byte.
func (a *Assembler) AddByte(b byte) {
	if !a.reserve(1) {
		return
	}
	a.buf = append(a.buf, b)
	a.lastN = 1
}

// AddBytes appends view in full, or not at all if it would overflow
// capacity.
func (a *Assembler) AddBytes(view []byte) {
	if !a.reserve(len(view)) {
		return
	}
	a.buf = append(a.buf, view...)
	a.lastN = len(view)
}

// AddLabel attaches the most recently added contiguous byte range to
// label as a patch site: at Seal time those bytes are overwritten with
// the signed distance from the end of that range to label's resolved
// address. A no-op Label (never allocated) or an Assembler already in
// the error state is ignored, per spec §3.5's "an invalid Label is a
// safe no-op" contract.
func (a *Assembler) AddLabel(label ir.Label) {
	if a.err || label.IsNoop() || a.lastN == 0 {
		return
	}
	a.patches = append(a.patches, patch{label: label, start: len(a.buf) - a.lastN, width: a.lastN})
	a.lastN = 0
}

// Seal patches every recorded site with the signed relative distance from
// the patch site to its label's resolved address, given by resolve — a
// function of Label -> final byte offset, supplied by whatever external
// step has already assigned one (spec §4.5: "label resolution is
// performed externally once each label's final position is known").
// Returns false, leaving the unresolved bytes as written, if any label
// has no entry in resolve or if a patch's width cannot hold the computed
// distance.
func (a *Assembler) Seal(resolve func(ir.Label) (int, bool)) bool {
	if a.err {
		return false
	}
	ok := true
	for _, p := range a.patches {
		target, found := resolve(p.label)
		if !found {
			ok = false
			continue
		}
		distance := int64(target - (p.start + p.width))
		if !fitsSigned(distance, p.width) {
			ok = false
			continue
		}
		putSigned(a.buf[p.start:p.start+p.width], distance)
	}
	return ok
}

func fitsSigned(v int64, width int) bool {
	bits := uint(width * 8)
	min := -(int64(1) << (bits - 1))
	max := int64(1)<<(bits-1) - 1
	return v >= min && v <= max
}

func putSigned(dst []byte, v int64) {
	u := uint64(v)
	for i := range dst {
		dst[i] = byte(u)
		u >>= 8
	}
}
