// Package x64 implements the x86-64-specific lowering pass of spec §4.4:
// it takes a Func's NOARCH compiled body (compiler package) and produces
// its X64 compiled body, selecting concrete X86_* instruction ops for the
// generic ASSIGN family, Goto, Inc/Dec and Return.
package x64

import (
	"github.com/cosmos72/gomacrojit/compiler"
	"github.com/cosmos72/gomacrojit/ir"
)

// assignLowerTable maps each generic assignment-family op to its x86-64
// instruction, per the table in spec §4.4. REM_ASSIGN is deliberately
// absent (SPEC_FULL.md §6 Q1): remainder needs a register-pair convention
// (%rdx:%rax) this core's generic register model does not represent, so it
// is left unresolved exactly as the original, producing a recorded error
// instead of a guessed encoding.
var assignLowerTable = map[ir.StmtOp]ir.StmtOp{
	ir.Assign:    ir.X86Mov,
	ir.AddAssign: ir.X86Add,
	ir.SubAssign: ir.X86Sub,
	ir.MulAssign: ir.X86Mul,
	ir.DivAssign: ir.X86Div,
	ir.AndAssign: ir.X86And,
	ir.OrAssign:  ir.X86Or,
	ir.XorAssign: ir.X86Xor,
	ir.ShlAssign: ir.X86Shl,
	ir.ShrAssign: ir.X86Shr,
}

// Compiler lowers one Func's NOARCH body into its X64 body.
type Compiler struct {
	holder *ir.Code
	fn     *ir.Func

	out []ir.Node

	errors []compiler.Error
}

// New returns an x64 Compiler.
func New() *Compiler {
	return &Compiler{}
}

// OK reports whether the most recent Compile call completed without
// recording any error.
func (c *Compiler) OK() bool {
	return len(c.errors) == 0
}

// Errors returns the diagnostics recorded by the most recent Compile call.
func (c *Compiler) Errors() []compiler.Error {
	return c.errors
}

// Compile lowers f's NOARCH body into its X64 body (spec §4.4). Returns
// true immediately, without touching the error log, if f already has an
// X64 body. Returns false and records an error if f has no NOARCH body
// yet — the generic pass is a mandatory precondition, never run
// implicitly by this pass.
func (c *Compiler) Compile(f *ir.Func) bool {
	if f.HasCompiledBody(ir.X64) {
		return true
	}
	if !f.HasCompiledBody(ir.NoArch) {
		c.errors = []compiler.Error{{Node: f.Body(), Msg: "x64: Func has no NOARCH compiled body"}}
		return false
	}

	c.holder = f.Code()
	c.fn = f
	c.out = nil
	c.errors = nil

	body := f.CompiledBody(ir.NoArch)
	count := body.Children()
	for i := uint32(0); i < count; i++ {
		c.lowerStmt(body.Child(i))
	}

	f.SetCompiledBody(ir.X64, ir.NewBlock(c.holder, c.out...))
	return c.OK()
}

func (c *Compiler) emit(n ir.Node) {
	c.out = append(c.out, n)
}

func (c *Compiler) errorf(n ir.Node, msg string) {
	c.errors = append(c.errors, compiler.Error{Node: n, Msg: msg})
}

// lowerStmt selects the x86-64 instruction for one already-flattened
// NOARCH statement. AsmCmp/AsmJ<cc> pairs the generic pass already
// emitted during control-flow flattening (SPEC_FULL.md §6 Q4) pass
// through unchanged: by the time a Func reaches this pass its comparisons
// are already lowered, and nothing here re-derives a comparison code.
func (c *Compiler) lowerStmt(n ir.Node) {
	if !n.Valid() {
		return
	}
	switch n.Type() {
	case ir.LabelType:
		// A label marking a jump target, emitted as-is by the generic
		// pass's flattening (compiler.compileIf/compileFor/...). It carries
		// no instruction to select.
		c.emit(n)
	case ir.Stmt1:
		c.lowerStmt1(n)
	case ir.Stmt2:
		c.lowerStmt2(n)
	case ir.StmtN:
		c.lowerStmtN(n)
	default:
		c.errorf(n, "unexpected control-flow shape reached x64 lowering")
	}
}

func (c *Compiler) lowerStmt1(n ir.Node) {
	switch n.Op() {
	case ir.Goto:
		c.emit(ir.NewOpStmt1(c.holder, ir.X86Jmp, n.Child(0)))
	case ir.Inc:
		c.emit(ir.NewOpStmt1(c.holder, ir.X86Inc, c.lowerOperand(n.Child(0))))
	case ir.Dec:
		c.emit(ir.NewOpStmt1(c.holder, ir.X86Dec, c.lowerOperand(n.Child(0))))
	case ir.AsmJa, ir.AsmJae, ir.AsmJb, ir.AsmJbe, ir.AsmJe,
		ir.AsmJg, ir.AsmJge, ir.AsmJl, ir.AsmJle, ir.AsmJne:
		c.emit(n)
	default:
		c.errorf(n, "unexpected STMT_1 op reached x64 lowering")
	}
}

// lowerStmt2 handles the ASSIGN family via assignLowerTable and passes
// AsmCmp through unchanged. Per spec §4.4's ordering rule, src is
// simplified before dst so that any side effects of computing it land
// before dst's own address is computed.
func (c *Compiler) lowerStmt2(n ir.Node) {
	switch n.Op() {
	case ir.AsmCmp:
		c.emit(n)
	default:
		x86op, ok := assignLowerTable[n.Op()]
		if !ok {
			c.errorf(n, "unsupported lowering for assignment op")
			return
		}
		src := c.lowerOperand(n.Child(1))
		dst := c.lowerOperand(n.Child(0))
		if dst.Type() == ir.Mem && src.Type() == ir.Mem {
			src = c.toVar(src)
		}
		c.emit(ir.NewOpStmt2(c.holder, x86op, dst, src))
	}
}

func (c *Compiler) lowerStmtN(n ir.Node) {
	switch n.Op() {
	case ir.Return:
		count := n.Children()
		values := make([]ir.Node, count)
		for i := uint32(0); i < count; i++ {
			values[i] = c.lowerOperand(n.Child(i))
		}
		c.emit(ir.NewOpStmtN(c.holder, ir.X86Ret, values...))
	case ir.AssignCall:
		c.emit(n)
	default:
		c.errorf(n, "unexpected STMT_N op reached x64 lowering")
	}
}

// lowerOperand returns n unchanged. The generic pass's to_var hoisting
// (compiler package) has already reduced every nested operand to a
// Var/Const/Label, but an Assign source or Return value may still be one
// composite expression (a Binary, Unary, Mem, Call or Tuple over such
// operands); this pass keeps it as written, so a generic Binary operator
// such as `-` can appear inside an X86_MOV source and is not itself
// lowered to an X86_* form. The only rewrite applied is the
// one-memory-operand rule lowerStmt2 enforces directly.
func (c *Compiler) lowerOperand(n ir.Node) ir.Node {
	return n
}

// toVar hoists src, forced here only when an Assign's dst and src are
// both Mem operands (spec §4.4 "no instruction has two memory operands").
func (c *Compiler) toVar(src ir.Node) ir.Node {
	tmp := c.fn.NewLocal(src.Kind())
	c.emit(ir.NewOpStmt2(c.holder, ir.X86Mov, tmp, src))
	return tmp
}
