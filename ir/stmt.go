package ir

// This file collects the statement-shape constructors of spec §3.3/§4.2:
// one factory per STMT_0..STMT_N variant, each a thin call into the
// generic createNode (node.go), following the same "op picked from the
// Type's own arity family" rule op.go documents.

// BadStmtNode, BreakNode, ContinueNode and FallthroughNode are the four
// STMT_0 statements, always direct — §3.2's "direct STMT_0 whose op is
// the item itself" means these never need a Code at all.
var (
	BadStmtNode     = directStmt0(BadStmt)
	BreakNode       = directStmt0(Break)
	ContinueNode    = directStmt0(Continue)
	FallthroughNode = directStmt0(Fallthrough)
)

func directStmt0(op StmtOp) Node {
	return Node{typ: StmtZero, kind: Void, op: op, payload: uint32(op)}
}

func newStmt1(holder *Code, op StmtOp, child Node) Node {
	return createNode(holder, Stmt1, Void, op, child)
}

// NewGoto jumps unconditionally to label.
func NewGoto(holder *Code, label Label) Node {
	return newStmt1(holder, Goto, label.Node)
}

// NewIncStmt increments expr in place.
func NewIncStmt(holder *Code, expr Node) Node {
	return newStmt1(holder, Inc, expr)
}

// NewDecStmt decrements expr in place.
func NewDecStmt(holder *Code, expr Node) Node {
	return newStmt1(holder, Dec, expr)
}

// NewDefault marks body as a Switch's default case.
func NewDefault(holder *Code, body Node) Node {
	return newStmt1(holder, Default, body)
}

func newStmt2(holder *Code, op StmtOp, a, b Node) Node {
	return createNode(holder, Stmt2, Void, op, a, b)
}

// NewAssign is `dst op= src`; op must be one of the assignment-family
// ops (Assign..ShrAssign).
func NewAssign(holder *Code, op StmtOp, dst, src Node) Node {
	if !op.IsAssign() {
		panic("ir: NewAssign requires an assignment-family op")
	}
	return newStmt2(holder, op, dst, src)
}

// NewJumpIf is `if cond goto label`.
func NewJumpIf(holder *Code, label Label, cond Node) Node {
	return newStmt2(holder, JumpIf, label.Node, cond)
}

// NewCase is one switch arm: value to compare against, and the case body.
func NewCase(holder *Code, value, body Node) Node {
	return newStmt2(holder, Case, value, body)
}

// NewAsmCmp is the x86-64 comparison instruction JumpIf lowers through.
func NewAsmCmp(holder *Code, a, b Node) Node {
	return newStmt2(holder, AsmCmp, a, b)
}

// NewIf is `if cond then else`. Three children.
func NewIf(holder *Code, cond, then, els Node) Node {
	return createNode(holder, Stmt3, Void, BadStmt, cond, then, els)
}

// NewFor is `for init; test; post { body }`. Four children.
func NewFor(holder *Code, init, test, post, body Node) Node {
	return createNode(holder, Stmt4, Void, BadStmt, init, test, post, body)
}

func newStmtN(holder *Code, op StmtOp, children ...Node) Node {
	return createNode(holder, StmtN, Void, op, children...)
}

// NewBlock sequences stmts.
func NewBlock(holder *Code, stmts ...Node) Node {
	return newStmtN(holder, Block, stmts...)
}

// NewCond builds an if/else-if/.../else chain out of alternating
// condition/body pairs. The final pair's condition is conventionally
// TrueExpr for a guaranteed-match else arm (spec §4.3 step 1).
func NewCond(holder *Code, condsAndBodies ...Node) Node {
	if len(condsAndBodies)%2 != 0 {
		panic("ir: NewCond requires an even number of (cond, body) operands")
	}
	return newStmtN(holder, Cond, condsAndBodies...)
}

// NewSwitch is `switch value { cases... }`, where each case is a NewCase
// or NewDefault node.
func NewSwitch(holder *Code, value Node, cases ...Node) Node {
	children := make([]Node, 0, 1+len(cases))
	children = append(children, value)
	children = append(children, cases...)
	return newStmtN(holder, Switch, children...)
}

// NewAssignCall is a multi-destination call: evaluates callee(args…) once
// and binds each result componentwise to dsts (spec §4.3 step 3). The
// destinations are grouped into one Tuple child (even a single destination)
// rather than spliced flat among callee/args, so that a reader of the IR —
// the compiler's own AssignCall lowering included — can recover how many of
// AssignCall's children are destinations without separately recording an
// arity split: Tuple already carries its own explicit child count.
func NewAssignCall(holder *Code, dsts []Node, callee Node, args []Node) Node {
	dstsTuple := NewTuple(holder, Void, dsts...)
	children := make([]Node, 0, 2+len(args))
	children = append(children, dstsTuple, callee)
	children = append(children, args...)
	return newStmtN(holder, AssignCall, children...)
}

// NewReturn returns zero or more values.
func NewReturn(holder *Code, values ...Node) Node {
	return newStmtN(holder, Return, values...)
}

// NewOpStmt1, NewOpStmt2 and NewOpStmtN are escape hatches for lowering
// passes (compiler/x64) that build STMT_1/STMT_2/STMT_N statements whose op
// falls outside the named families this file already exposes constructors
// for — the X86_* instruction-selection ops of spec §4.4, which carry no
// per-op invariant worth a dedicated factory the way Assign's IsAssign()
// check or Cond's even-arity check do.
func NewOpStmt1(holder *Code, op StmtOp, child Node) Node {
	return newStmt1(holder, op, child)
}

func NewOpStmt2(holder *Code, op StmtOp, a, b Node) Node {
	return newStmt2(holder, op, a, b)
}

func NewOpStmtN(holder *Code, op StmtOp, children ...Node) Node {
	return newStmtN(holder, op, children...)
}

// NewCondJump is a conditional jump to label, generic over whichever
// AsmJ<cc> op the comparison-code table (SPEC_FULL.md §6 Q3/Q4) selects —
// the counterpart of NewGoto for the flattening pass's comparison-to-branch
// lowering.
func NewCondJump(holder *Code, op StmtOp, label Label) Node {
	return newStmt1(holder, op, label.Node)
}
