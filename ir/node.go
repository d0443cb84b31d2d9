package ir

// Node is a lightweight handle into a Code: a type, a kind, an op, a packed
// payload, and — for indirect nodes — the Code that owns the bytes the
// payload points into. A zero-value Node has Kind() == Bad and is invalid,
// matching onejit::Node's default constructor.
//
// A Node is *direct* when code == nil: header and payload alone describe it
// completely, with no backing storage beyond the one word it occupies as
// someone else's child slot. A Node is *indirect* when code != nil: payload
// is the byte offset, inside code, of this node's own header word.
type Node struct {
	typ     Type
	kind    Kind
	op      Op
	payload uint32
	code    *Code
}

// Type returns the node's structural type.
func (n Node) Type() Type { return n.typ }

// Kind returns the node's semantic/width tag.
func (n Node) Kind() Kind { return n.kind }

// Op returns the node's operator code, meaningful only within the arity
// family its Type restricts it to.
func (n Node) Op() Op { return n.op }

// Valid reports whether n carries real data. The zero Node, and any Node
// produced by a failed construction, has Kind() == Bad.
func (n Node) Valid() bool { return n.kind != Bad }

// IsDirect reports whether n is fully described by its header and payload,
// with no Code pointer.
func (n Node) IsDirect() bool { return n.code == nil }

// IsExpr reports whether n's Type is one of the expression types.
func (n Node) IsExpr() bool { return n.typ.IsExpr() }

// sameCode reports whether n and other, if both indirect, share a Code —
// the invariant every create() operand must satisfy.
func (n Node) sameCode(c *Code) bool {
	return n.code == nil || n.code == c
}

// Offset returns the byte offset of this node's header inside its Code.
// Only meaningful for indirect nodes; panics otherwise, since a direct
// node's payload is not a Code offset.
func (n Node) Offset() uint32 {
	if n.code == nil {
		panic("ir: Offset called on a direct Node")
	}
	return n.payload
}

// Children returns the number of child nodes n has. Leaves (Var, Const,
// Label, Name, FType) always return 0.
func (n Node) Children() uint32 {
	switch n.typ {
	case Var, Const, LabelType, Name, FType:
		return 0
	}
	if n.typ.IsList() {
		if n.code == nil {
			return 0
		}
		return n.code.Get(n.payload + itemBytes)
	}
	return uint32(n.typ.fixedChildren())
}

// childSlotOffset returns the byte offset of the i-th child slot, assuming
// n is indirect.
func (n Node) childSlotOffset(i uint32) uint32 {
	headerWords := uint32(1)
	if n.typ.IsList() {
		headerWords++
	}
	return n.payload + (headerWords+i)*itemBytes
}

// Child returns the i-th child of n, decoded per the five-way child-slot
// dispatch of spec §3.2/§4.2.1. Returns an invalid Node if i is out of
// range.
func (n Node) Child(i uint32) Node {
	if i >= n.Children() {
		return Node{}
	}
	item := n.code.Get(n.childSlotOffset(i))
	child, ok := decodeChildSlot(n.payload, item, n.code)
	if !ok {
		return Node{}
	}
	return child
}

// decodeChildSlot classifies one child-slot word per the dispatch table in
// spec §3.2, reproduced from onejit::Node::child (node.cpp). parentOffset
// is the byte offset of the enclosing node's own header, needed to resolve
// relative-offset slots.
func decodeChildSlot(parentOffset uint32, item uint32, holder *Code) (Node, bool) {
	switch {
	case item < 4:
		// Direct STMT_0: the item itself is the op (BadStmt, Break,
		// Continue or Fallthrough).
		return Node{typ: StmtZero, kind: Void, op: StmtOp(item), payload: item}, true

	case item&1 != 0:
		// Direct CONST.
		kind := Kind((item >> 1) & 0x7F)
		return Node{typ: Const, kind: kind, payload: item}, true

	case item&7 == 2:
		// Direct VAR.
		kind := Kind((item >> 3) & 0x1F)
		return Node{typ: Var, kind: kind, payload: item}, true

	case item&3 == 0:
		// Indirect node: item is a relative byte offset from parent header
		// to child header (always negative, since children precede their
		// parent in the append-only Code).
		childOffset := uint32(int32(parentOffset) + int32(item))
		headerItem := holder.Get(childOffset)
		if !isHeaderWord(headerItem) {
			return Node{}, false
		}
		typ, kind, op := unpackHeader(headerItem)
		return Node{typ: typ, kind: kind, op: op, payload: childOffset, code: holder}, true

	default:
		// Unused low-bit pattern (0b0110) or a header tag appearing where a
		// child slot was expected.
		return Node{}, false
	}
}

// slotWord returns the 32-bit word to write into a parent's child slot for
// n, given the parent's own (not-yet-finalized) offset. Panics if n is
// indirect but lives in a different Code than holder — operands must
// already live in the same Code as their future parent (spec §4.2's
// topological invariant).
func (n Node) slotWord(holder *Code, parentOffset uint32) uint32 {
	if n.code == nil {
		return n.payload
	}
	if n.code != holder {
		panic("ir: operand Node lives in a different Code than its parent")
	}
	return uint32(int32(n.payload) - int32(parentOffset))
}

// createNode implements the generic constructor of spec §4.2: write the
// header (and, for list types, the child count), then each operand's slot
// word, rolling back to the pre-call offset and returning an invalid Node
// if any append fails along the way.
func createNode(holder *Code, typ Type, kind Kind, op Op, operands ...Node) Node {
	offset, ok := holder.AppendItem(packHeader(typ, kind, op))
	if !ok {
		return Node{}
	}
	if typ.IsList() {
		if _, ok := holder.AppendItem(uint32(len(operands))); !ok {
			holder.Truncate(offset)
			holder.markOOM()
			return Node{}
		}
	}
	for _, operand := range operands {
		slot := operand.slotWord(holder, offset)
		if _, ok := holder.AppendItem(slot); !ok {
			holder.Truncate(offset)
			holder.markOOM()
			return Node{}
		}
	}
	return Node{typ: typ, kind: kind, op: op, payload: offset, code: holder}
}

// SizeInItems returns 1 (header) plus the per-type tail described in spec
// §4.2.2: children (explicit count word included for list types), +1 for
// Var's id word, +ceil(bits/32) for Const, +2 for Label's opaque address
// slot. Name and FType are not named in spec §4.2.2's formula (the spec
// only sketches it for the types it enumerates in §3.3); SPEC_FULL.md §4
// extends it symmetrically: +ceil(bytelen/4) for Name, +ceil((results+args)
// /4) for FType.
func (n Node) SizeInItems() uint32 {
	if n.code == nil {
		return 1
	}
	total := uint32(1)
	if n.typ.IsList() {
		total++ // explicit child-count word
	}
	total += n.Children()
	switch n.typ {
	case Var:
		total++
	case Const:
		bits := uint32(n.kind.Bits())
		total += (bits + 31) / 32
	case LabelType:
		total += 2
	case Name:
		total += (uint32(n.op) + 3) / 4
	case FType:
		count := uint32(n.kind) + uint32(n.op)
		total += (count + 3) / 4
	}
	return total
}
