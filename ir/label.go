package ir

// Label is a forward-reference to a future code offset: a unique 32-bit
// tag, resolved to a byte address only later, during assembly (spec §3.5).
//
// Unlike every other indirect Node, a Label's Kind carries no semantic
// width — it exists only so Valid() (kind != Bad) can tell a real,
// allocated Label apart from the zero-value Label{} a caller never passed
// through NewLabel. Spec §3.5's "labels with a zero tag are no-ops"
// describes exactly that zero-value default, not a constraint on which
// numeric tag a real allocation may produce: test_func.cpp's recursive
// `fib` call addresses the function itself as `label_0`, so tag 0 is a
// perfectly ordinary, live label whenever NewLabel actually handed it out.
// Assembler.AddLabel treats an invalid (never-allocated) Label as a safe
// no-op; it checks Valid() (via IsNoop), never Tag(). The Compiler's label
// stacks and the NewGoto/NewCondJump constructors do not check labels.
//
// The tag occupies the low word of the same opaque 64-bit slot spec
// §4.2.2 budgets for the label's future byte address (+2 items). The low
// word holds the tag and the high word is zero. Nothing in this module
// writes a resolved address into that slot: asm.Assembler keeps its own
// patch list and resolves labels through the callback passed to Seal, so
// Tag() stays readable.
type Label struct {
	Node
}

// NewLabel reserves a new Label inside holder, tagged with the next value
// from holder's shared counter (NextLabelTag). Sharing the counter across
// every Func built into one Code keeps labels unique for the Assembler's
// eventual patch pass, even across calls between Funcs in the same Code.
func NewLabel(holder *Code) Label {
	tag := holder.NextLabelTag()
	offset, ok := holder.AppendItem(packHeader(LabelType, Void, 0))
	if !ok {
		return Label{}
	}
	if _, ok := holder.AppendU64(uint64(tag)); !ok {
		holder.Truncate(offset)
		holder.markOOM()
		return Label{}
	}
	return Label{Node{typ: LabelType, kind: Void, payload: offset, code: holder}}
}

// Tag returns the Label's unique 32-bit identifier.
func (l Label) Tag() uint32 {
	if !l.Valid() {
		return 0
	}
	return uint32(l.code.GetU64(l.payload + itemBytes))
}

// IsNoop reports whether l is the zero-value Label nobody ever allocated.
func (l Label) IsNoop() bool {
	return !l.Valid()
}
