package ir

// NAME is a persistent UTF-8 string used for function and global names
// (spec §3.3). Its header packs the byte length into the 16-bit Op field —
// spec §4.2.2 only budgets a size formula for the types it enumerates, so
// SPEC_FULL.md §4 extends it symmetrically: a Name's tail is
// ceil(len(str)/4) items, one id word's worth of packing reused for raw
// bytes instead of a single integer.
//
// Grounded on onejit::Name (name.hpp): a persistent string Node whose
// `size()` accessor returns `Base::op()`, and whose `chars()` accessor
// reads the bytes back out of the owning Code.
const nameMaxLen = 1<<16 - 1

// NewName appends a NAME node holding a copy of str's bytes. str must fit
// in 16 bits; this mirrors name.hpp's "str.size() must fit uint16_t"
// precondition.
func NewName(holder *Code, str Chars) Node {
	if len(str) > nameMaxLen {
		panic("ir: NewName string too long")
	}
	offset, ok := holder.AppendItem(packHeader(Name, Void, Op(len(str))))
	if !ok {
		return Node{}
	}
	for i := 0; i < len(str); i += itemBytes {
		var word uint32
		for j := 0; j < itemBytes && i+j < len(str); j++ {
			word |= uint32(str[i+j]) << uint(8*j)
		}
		if _, ok := holder.AppendItem(word); !ok {
			holder.Truncate(offset)
			holder.markOOM()
			return Node{}
		}
	}
	return Node{typ: Name, kind: Void, op: Op(len(str)), payload: offset, code: holder}
}

// NameLen returns the byte length of a NAME node's string.
func (n Node) NameLen() int {
	if n.typ != Name {
		panic("ir: NameLen called on a non-NAME Node")
	}
	return int(n.op)
}

// NameChars reads the bytes of a NAME node back out of its Code.
func (n Node) NameChars() Chars {
	if n.typ != Name {
		panic("ir: NameChars called on a non-NAME Node")
	}
	length := n.NameLen()
	out := make(Chars, length)
	base := n.payload + itemBytes
	for i := 0; i < length; i += itemBytes {
		word := n.code.Get(base + uint32(i))
		for j := 0; j < itemBytes && i+j < length; j++ {
			out[i+j] = byte(word >> uint(8*j))
		}
	}
	return out
}
