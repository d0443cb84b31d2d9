// Package ir implements the packed intermediate representation described in
// the gomacrojit specification: an append-only Code buffer of 32-bit items,
// the Node handle that decodes trees of expressions and statements out of
// it, and the Func container that glues a compiled procedure together.
package ir

// itemBytes is the width of one Code item.
const itemBytes = 4

// Code is a growable, append-only sequence of 32-bit code items. Every
// non-trivially-encodable Node lives inside a Code at a stable byte offset;
// once handed out by an append, an offset remains valid until the Code is
// cleared or truncated below it. Code never reallocates content it has
// already handed out via offsets — append only ever grows the backing
// slice, never swaps it out from under a live offset.
type Code struct {
	items []uint32
	// oom is sticky: once an append fails the Code refuses further writes
	// until Clear, mirroring the Compiler's good_ flag in onejit.
	oom bool
	// nextLabelTag backs NextLabelTag: one counter shared by every Func
	// built into this Code, so that cross-Func call targets (each a Label)
	// never collide once an Assembler patches them all against one buffer.
	nextLabelTag uint32
}

// NextLabelTag returns the next unique Label tag for this Code, starting
// at 0. The first caller is conventionally a Func's own constructor,
// assigning the function its entry-point Label before anything else is
// built into the holder — matching test_func.cpp's fib, whose sole
// function is addressed as `label_0` by its own recursive call, with the
// generic pass's flattening labels continuing on as label_1, label_2, ...
func (c *Code) NextLabelTag() uint32 {
	tag := c.nextLabelTag
	c.nextLabelTag++
	return tag
}

// Length returns the current byte length of the buffer. Always a multiple
// of 4.
func (c *Code) Length() uint32 {
	return uint32(len(c.items)) * itemBytes
}

// OutOfMemory reports whether a previous append has failed. Once set, every
// further AppendItem/AppendU64 is a no-op returning false.
func (c *Code) OutOfMemory() bool {
	return c.oom
}

// AppendItem appends one 32-bit code item and returns the byte offset at
// which it was written (equal to the pre-call Length). Returns false (and
// appends nothing) if the Code is poisoned by a prior failure.
func (c *Code) AppendItem(item uint32) (offset uint32, ok bool) {
	if c.oom {
		return 0, false
	}
	offset = c.Length()
	c.items = append(c.items, item)
	return offset, true
}

// AppendU64 appends a 64-bit value as two code items, low half first, then
// high half, and returns the offset of the low half.
func (c *Code) AppendU64(v uint64) (offset uint32, ok bool) {
	if c.oom {
		return 0, false
	}
	offset = c.Length()
	c.items = append(c.items, uint32(v), uint32(v>>32))
	return offset, true
}

// Get reads the 32-bit item at the given byte offset. The offset must be a
// multiple of 4 and within [0, Length()); violating this is undefined
// behavior the caller is responsible for avoiding, same as onejit's Code.
func (c *Code) Get(byteOffset uint32) uint32 {
	return c.items[byteOffset/itemBytes]
}

// GetU64 reads a 64-bit value stored as two consecutive items (low half at
// byteOffset, high half immediately after), as written by AppendU64.
func (c *Code) GetU64(byteOffset uint32) uint64 {
	lo := uint64(c.Get(byteOffset))
	hi := uint64(c.Get(byteOffset + itemBytes))
	return lo | hi<<32
}

// Truncate discards every item at or past byteOffset. Only ever shrinks the
// buffer; it is the rollback mechanism constructors use when a multi-item
// append partially fails. Truncating also clears the OOM flag, since a
// rolled-back construction may be retried once capacity frees up.
func (c *Code) Truncate(byteOffset uint32) {
	n := byteOffset / itemBytes
	if n > uint32(len(c.items)) {
		return
	}
	c.items = c.items[:n]
	c.oom = false
}

// Clear resets the Code to empty, including the OOM flag and the label
// tag counter.
func (c *Code) Clear() {
	c.items = c.items[:0]
	c.oom = false
	c.nextLabelTag = 0
}

// markOOM marks the Code poisoned without discarding any already-written
// items. Used by constructors that append via AppendItem/AppendU64 and
// observe ok == false from a nested allocation (e.g. a Vector growth
// outside of Code itself).
func (c *Code) markOOM() {
	c.oom = true
}
