package ir

import "strconv"

// Kind is the semantic/bit-width tag carried by VAR and CONST nodes: it says
// what a value *is* (signed/unsigned integer, float, pointer, bool) and how
// wide it is in bits.
type Kind uint8

const (
	// Bad is the sentinel invalid Kind. It is zero so that a zero-value
	// Kind (e.g. inside a zero-value Node) reads as invalid, the same way
	// onejit::Header{} defaults its Kind to Bad.
	Bad Kind = iota
	Void
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Float128
	Ptr
)

// Bits returns the storage width of this Kind: 8, 16, 32, 64 or 128. Void
// and Bad have no defined width and panic, since callers must never ask a
// non-storable Kind for its size.
func (k Kind) Bits() int {
	switch k {
	case Bool, Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64, Ptr:
		return 64
	case Float128:
		return 128
	default:
		panic("ir: Kind.Bits() called on " + k.String())
	}
}

// IsSigned reports whether k is a signed integer kind. Used by the x86-64
// comparison-code table (SPEC_FULL.md §6 Q3) to choose between J{A,AE,B,BE}
// and J{G,GE,L,LE}.
func (k Kind) IsSigned() bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	switch k {
	case Float32, Float64, Float128:
		return true
	default:
		return false
	}
}

// Order returns a total order over Kind values, a deterministic sort key;
// no code in this module calls it. Grounded on
// onejit::ir::Header::order()'s kind component: the enum's declaration
// order already is the total order, so Order is just identity, exposed as
// its own method so callers don't depend on the underlying integer
// representation.
func (k Kind) Order() int {
	return int(k)
}

// String implements fmt.Stringer, and also gives the IR textual format
// (spec §6) its var-suffix vocabulary via VarSuffix.
func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int8:
		return "i8"
	case Int16:
		return "i16"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case Uint8:
		return "u8"
	case Uint16:
		return "u16"
	case Uint32:
		return "u32"
	case Uint64:
		return "u64"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case Float128:
		return "f128"
	case Ptr:
		return "ptr"
	default:
		return "bad(" + strconv.Itoa(int(k)) + ")"
	}
}

// VarSuffix returns the `_xx` suffix the IR textual format (spec §6) uses
// for Var names of this Kind, e.g. `_ul` for Uint64, `_b` for Int8.
func (k Kind) VarSuffix() string {
	switch k {
	case Uint8:
		return "_ub"
	case Uint16:
		return "_uw"
	case Uint32:
		return "_ui"
	case Uint64:
		return "_ul"
	case Int8:
		return "_b"
	case Int16:
		return "_w"
	case Int32:
		return "_i"
	case Int64:
		return "_l"
	case Float32:
		return "_f"
	case Float64:
		return "_d"
	case Bool:
		return "_bool"
	case Ptr:
		return "_ptr"
	default:
		return "_bad"
	}
}

// fitsDirect24 reports whether an unsigned value of this Kind's declared
// width fits the 24-bit payload of a direct CONST child slot (see
// ir/node.go). Float kinds never fit: a bit-exact float payload is never
// usefully truncated into 24 bits, so float constants are always stored
// indirectly. This is one of the two points (the other is the exact layout
// of the direct-slot bits themselves) spec §9 leaves unresolved because
// onejit's Imm::parse_direct_kind was filtered out of original_source;
// DESIGN.md records the decision.
func (k Kind) fitsDirect24(value uint64) bool {
	if k.IsFloat() {
		return false
	}
	return value>>24 == 0
}
