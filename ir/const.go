package ir

// NewConst returns a CONST Node of the given kind holding value, truncated
// to kind.Bits() bits. kind must not be Bad or Void, for the same direct-
// slot collision reason NewVar enforces (see var.go).
//
// Float128 constants are not supported: nothing in the x86-64 lowering
// pipeline this spec covers ever materializes a 128-bit immediate, and
// representing one needs two uint64 halves rather than the single value
// this constructor takes. Kind.Bits() still reports Float128 as 128 bits
// for formatting/sizing purposes; only construction is restricted.
func NewConst(holder *Code, kind Kind, value uint64) Node {
	if kind == Bad || kind == Void {
		panic("ir: NewConst requires a storable Kind")
	}
	if kind == Float128 {
		panic("ir: NewConst does not support Float128; construct via a future NewConstBits128")
	}
	bits := kind.Bits()
	if bits < 64 {
		value &= 1<<uint(bits) - 1
	}
	if kind.fitsDirect24(value) {
		word := uint32(1) | uint32(kind)<<1 | uint32(value)<<8
		return Node{typ: Const, kind: kind, payload: word}
	}
	offset, ok := holder.AppendItem(packHeader(Const, kind, 0))
	if !ok {
		return Node{}
	}
	if bits == 64 {
		if _, ok := holder.AppendU64(value); !ok {
			holder.Truncate(offset)
			holder.markOOM()
			return Node{}
		}
	} else {
		if _, ok := holder.AppendItem(uint32(value)); !ok {
			holder.Truncate(offset)
			holder.markOOM()
			return Node{}
		}
	}
	return Node{typ: Const, kind: kind, payload: offset, code: holder}
}

// NewBool is a convenience wrapper for the two Bool constants used
// throughout control-flow lowering (spec §4.3 step 4's `If(x, true, y)`
// rewrites). Bool values always fit a direct CONST slot, so holder is
// never actually touched; it stays a parameter for consistency with
// every other New* factory in this package.
func NewBool(holder *Code, value bool) Node {
	return directBool(value)
}

func directBool(value bool) Node {
	var v uint32
	if value {
		v = 1
	}
	word := uint32(1) | uint32(Bool)<<1 | v<<8
	return Node{typ: Const, kind: Bool, payload: word}
}

// TrueExpr and FalseExpr are the literal Bool constants, exported as
// package-level values since they need no Code to exist. Grounded on
// test_func.cpp's func_cond, whose final Cond arm is the bare identifier
// `TrueExpr` standing for the guaranteed-match branch of an if/else-if
// chain (spec §4.3 step 1's Cond flattening rule).
var TrueExpr = directBool(true)
var FalseExpr = directBool(false)

// ConstValue returns the immediate value carried by a CONST Node, as a raw
// bit pattern of kind.Bits() width (reinterpret as the appropriate Go
// numeric type at the call site).
func (n Node) ConstValue() uint64 {
	if n.typ != Const {
		panic("ir: ConstValue called on a non-CONST Node")
	}
	if n.code == nil {
		return uint64(n.payload >> 8)
	}
	if n.kind.Bits() == 64 {
		return n.code.GetU64(n.payload + itemBytes)
	}
	return uint64(n.code.Get(n.payload + itemBytes))
}

// ConstBool returns the boolean value of a Bool CONST Node.
func (n Node) ConstBool() bool {
	return n.ConstValue() != 0
}
