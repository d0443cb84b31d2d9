package compiler

import "github.com/cosmos72/gomacrojit/ir"

// This file implements the three optional passes spec §6's Opt bitset
// actually gates beyond the always-on short-circuit rewrite (flatten.go's
// compileLogical): constant folding and local algebraic simplification of
// Binary/Unary expressions (spec §1's Non-goals permit "local algebraic
// simplification" even though it excludes anything more global), plus
// dead-code elimination of statements made unreachable by the straight-line
// flattening itself. Opt(0) — the zero value New(0) uses — runs none of
// these, leaving the plain rebuilt expression or statement list untouched.

// buildBinary constructs the Binary node for op over already-compiled
// operands a, b, first trying whichever optional passes c.opt selects.
func (c *Compiler) buildBinary(kind ir.Kind, op ir.Op2, a, b ir.Node) ir.Node {
	if c.opt&FoldConstants != 0 {
		if folded, ok := c.foldConstBinary(kind, op, a, b); ok {
			return folded
		}
	}
	if c.opt&SimplifyAlgebraic != 0 {
		if simplified, ok := c.simplifyBinary(kind, op, a, b); ok {
			return simplified
		}
	}
	return ir.NewBinary(c.holder, kind, op, a, b)
}

// buildUnary is buildBinary's Unary counterpart: only FoldConstants applies,
// since Neg/Not have no non-trivial algebraic identity to simplify.
func (c *Compiler) buildUnary(kind ir.Kind, op ir.Op1, a ir.Node) ir.Node {
	if c.opt&FoldConstants != 0 && a.Type() == ir.Const {
		switch op {
		case ir.Neg:
			return ir.NewConst(c.holder, kind, uint64(-int64(a.ConstValue())))
		case ir.Not:
			return ir.NewConst(c.holder, kind, ^a.ConstValue())
		}
	}
	return ir.NewUnary(c.holder, kind, op, a)
}

// foldConstBinary evaluates op over two CONST operands at compile time,
// producing a single CONST result. Division and remainder by a literal
// zero are left unfolded — the recorded error belongs to whatever lowering
// stage actually has to deal with that as a runtime fault, not to this
// pass, which only ever removes work that provably doesn't change meaning.
func (c *Compiler) foldConstBinary(kind ir.Kind, op ir.Op2, a, b ir.Node) (ir.Node, bool) {
	if a.Type() != ir.Const || b.Type() != ir.Const {
		return ir.Node{}, false
	}
	x, y := a.ConstValue(), b.ConstValue()
	if op.IsCompare() {
		return ir.NewBool(c.holder, compareConst(op, x, y, a.Kind().IsSigned())), true
	}
	switch op {
	case ir.Add:
		return ir.NewConst(c.holder, kind, x+y), true
	case ir.Sub:
		return ir.NewConst(c.holder, kind, x-y), true
	case ir.Mul:
		return ir.NewConst(c.holder, kind, x*y), true
	case ir.Div:
		if y == 0 {
			return ir.Node{}, false
		}
		return ir.NewConst(c.holder, kind, x/y), true
	case ir.Rem:
		if y == 0 {
			return ir.Node{}, false
		}
		return ir.NewConst(c.holder, kind, x%y), true
	case ir.And:
		return ir.NewConst(c.holder, kind, x&y), true
	case ir.Or:
		return ir.NewConst(c.holder, kind, x|y), true
	case ir.Xor:
		return ir.NewConst(c.holder, kind, x^y), true
	case ir.Shl:
		return ir.NewConst(c.holder, kind, x<<y), true
	case ir.Shr:
		return ir.NewConst(c.holder, kind, x>>y), true
	default:
		return ir.Node{}, false
	}
}

func compareConst(op ir.Op2, x, y uint64, signed bool) bool {
	if signed {
		sx, sy := int64(x), int64(y)
		switch op {
		case ir.Eql:
			return sx == sy
		case ir.Neq:
			return sx != sy
		case ir.Lss:
			return sx < sy
		case ir.Leq:
			return sx <= sy
		case ir.Gtr:
			return sx > sy
		case ir.Geq:
			return sx >= sy
		}
		return false
	}
	switch op {
	case ir.Eql:
		return x == y
	case ir.Neq:
		return x != y
	case ir.Lss:
		return x < y
	case ir.Leq:
		return x <= y
	case ir.Gtr:
		return x > y
	case ir.Geq:
		return x >= y
	}
	return false
}

// simplifyBinary rewrites op(a, b) using the handful of local algebraic
// identities spec §1 allows (add/sub/mul identity and annihilator
// elements): `x+0`, `0+x`, `x-0`, `x*1`, `1*x`, `x/1`, `x|0`, `0|x`, `x^0`,
// `0^x`, `x&allOnes`, `allOnes&x`, `x<<0` and `x>>0` all collapse to x
// unchanged, `x*0`/`0*x` collapse to the literal zero.
func (c *Compiler) simplifyBinary(kind ir.Kind, op ir.Op2, a, b ir.Node) (ir.Node, bool) {
	switch op {
	case ir.Add, ir.Or, ir.Xor:
		if isConstValue(a, 0) {
			return b, true
		}
		if isConstValue(b, 0) {
			return a, true
		}
	case ir.Sub:
		if isConstValue(b, 0) {
			return a, true
		}
	case ir.Mul:
		if isConstValue(a, 1) {
			return b, true
		}
		if isConstValue(b, 1) {
			return a, true
		}
		if isConstValue(a, 0) || isConstValue(b, 0) {
			return ir.NewConst(c.holder, kind, 0), true
		}
	case ir.Div:
		if isConstValue(b, 1) {
			return a, true
		}
	case ir.And:
		if isConstValue(a, allOnesFor(a.Kind())) {
			return b, true
		}
		if isConstValue(b, allOnesFor(b.Kind())) {
			return a, true
		}
	case ir.Shl, ir.Shr:
		if isConstValue(b, 0) {
			return a, true
		}
	}
	return ir.Node{}, false
}

func isConstValue(n ir.Node, v uint64) bool {
	return n.Type() == ir.Const && n.ConstValue() == v
}

func allOnesFor(kind ir.Kind) uint64 {
	bits := kind.Bits()
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

// removeDeadCode drops statements made unreachable by a preceding Goto or
// Return within the same flattened straight-line sequence: once one of
// those runs, nothing after it executes until the next Label reopens a
// reachable path, exactly mirroring the way the flattening in flatten.go
// already uses labels as the only join points in its output.
func removeDeadCode(out []ir.Node) []ir.Node {
	result := make([]ir.Node, 0, len(out))
	dead := false
	for _, n := range out {
		if n.Type() == ir.LabelType {
			dead = false
		} else if dead {
			continue
		}
		result = append(result, n)
		if isTerminator(n) {
			dead = true
		}
	}
	return result
}

func isTerminator(n ir.Node) bool {
	if n.Type() == ir.Stmt1 && n.Op() == ir.Goto {
		return true
	}
	return n.Type() == ir.StmtN && n.Op() == ir.Return
}
