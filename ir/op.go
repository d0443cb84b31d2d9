package ir

// StmtOp enumerates the zero-children statement shapes (Type StmtZero) and
// the one-to-many-children statement shapes whose Type alone does not
// disambiguate the operation (Stmt1, Stmt2, StmtN). The Node header's Op
// field holds one of these, picked from whichever sub-range its Type
// allows; arity is never checked across families, only within the family a
// given Type restricts it to (spec §3.3's "the declared operator op is
// valid for its arity family" invariant).
type StmtOp = Op

// STMT_0 ops. Their numeric value doubles as the encoding used by the
// direct-STMT_0 child slot (§3.2: "direct STMT_0 whose op is the item
// itself"), so these four must stay 0..3 in this exact order.
const (
	// BadStmt marks a malformed or placeholder statement node.
	BadStmt StmtOp = iota
	// Break transfers control to the label at the top of the break stack.
	Break
	// Continue transfers control to the label at the top of the continue
	// stack.
	Continue
	// Fallthrough transfers control to the next case's body label.
	Fallthrough
)

// STMT_1 ops: one child.
const (
	// Goto jumps unconditionally to its Label child.
	Goto StmtOp = 10 + iota
	// Inc increments its Expr child in place.
	Inc
	// Dec decrements its Expr child in place.
	Dec
	// Default marks the body of a Switch's default case.
	Default

	// X86_JMP is the x86-64 lowering of Goto.
	X86Jmp
	// X86_INC is the x86-64 lowering of Inc.
	X86Inc
	// X86_DEC is the x86-64 lowering of Dec.
	X86Dec

	// AsmJa..AsmJne are the conditional jumps a JumpIf over a comparison
	// lowers to, selected by the comparison-code table (SPEC_FULL.md §6
	// Q3). Despite sitting next to the X86_* instruction-selection ops,
	// these are emitted by the generic pass itself while flattening
	// If/For/Switch (spec §8's S1-S4 scenarios are captioned "literal IR
	// text expected after NOARCH compilation" yet already contain
	// `asm_cmp`/`asm_jbe` — test_func.cpp's literal compiled output
	// confirms the same single pass that flattens control flow also
	// lowers its comparisons to ASM_CMP+ASM_J<cc>, leaving only the
	// ASSIGN-family/Goto/Inc/Dec/Return rewrites of spec §4.4 for the
	// later, genuinely architecture-specific x64 pass). Named Asm*, not
	// X86*, to keep that distinction visible in the source.
	AsmJa
	AsmJae
	AsmJb
	AsmJbe
	AsmJe
	AsmJg
	AsmJge
	AsmJl
	AsmJle
	AsmJne
)

// STMT_2 ops: two children. Assign's own sub-variant (ASSIGN vs
// ADD_ASSIGN, ...) is carried directly in this field — there is no
// separate per-Assign sub-op, the header Op *is* the assignment kind.
const (
	// Assign is `dst = src`.
	Assign StmtOp = 40 + iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	RemAssign
	AndAssign
	OrAssign
	XorAssign
	ShlAssign
	ShrAssign

	// JumpIf is `if cond goto label`.
	JumpIf
	// Case is one `switch` arm: `value, body`.
	Case
	// AsmCmp is the x86-64 comparison instruction JumpIf lowers through.
	AsmCmp

	// X86_MOV..X86_SHR are the x86-64 lowerings of the *_ASSIGN family,
	// per the table in spec §4.4.
	X86Mov
	X86Add
	X86Sub
	X86Mul
	X86Div
	X86And
	X86Or
	X86Xor
	X86Shl
	X86Shr
	// X86Cmp rounds out the STMT_2 x86 instruction set for completeness;
	// nothing in this pipeline constructs it, since every comparison this
	// spec lowers goes through AsmCmp during generic flattening instead
	// (spec §1 excludes "full ISA coverage beyond the subset exercised by
	// the lowering pipeline").
	X86Cmp
)

// IsAssign reports whether op is one of the generic assignment-family ops
// (Assign..ShrAssign), i.e. an op valid as the header Op of an Assign
// STMT_2 node.
func (op Op) IsAssign() bool {
	return op >= Assign && op <= ShrAssign
}

// STMT_N ops: variable children.
const (
	// Block is a sequence of statements.
	Block StmtOp = 80 + iota
	// Cond is an if/else-if/else-if/... chain: pairs of (cond, body),
	// with an optional final (true, body) for the else arm.
	Cond
	// Switch is `value` followed by Case/Default children.
	Switch
	// AssignCall is a multi-destination call: dsts…, callee, args….
	AssignCall
	// Return returns zero or more values.
	Return
	// X86Ret is the x86-64 lowering of Return.
	X86Ret
)

// Op1 is a unary expression operator (Type Unary).
type Op1 = Op

const (
	// Neg is arithmetic negation.
	Neg Op1 = 120 + iota
	// Not is bitwise complement.
	Not
)

// Op2 is a binary expression operator (Type Binary). Arithmetic, bitwise,
// comparison and (pre-simplification) logical operators all live here; the
// generic pass's short-circuit rewrite (spec §4.3 step 4) removes Land/Lor
// before any later pass has to handle them, resolving the "partially
// written Op2 table" open question from spec §9 by giving these two real,
// complete members (SPEC_FULL.md §6 Q2).
type Op2 = Op

const (
	Add Op2 = 140 + iota
	Sub
	Mul
	Div
	Rem
	And
	Or
	Xor
	Shl
	Shr

	// Land is `&&`, eliminated by simplify_land before lowering.
	Land
	// Lor is `||`, eliminated by simplify_lor before lowering.
	Lor

	Eql
	Neq
	Lss
	Leq
	Gtr
	Geq
)

// IsCompare reports whether op2 is one of the six relational operators the
// comparison-code table (SPEC_FULL.md §6 Q3) knows how to lower.
func (op Op) IsCompare() bool {
	return op >= Eql && op <= Geq
}

// OpN is an N-ary expression operator (Type Tuple).
type OpN = Op

const (
	// TupleOp groups N Expr children into one multi-value Expr.
	TupleOp OpN = 160 + iota
)
