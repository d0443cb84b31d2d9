package compiler

import "github.com/cosmos72/gomacrojit/ir"

// Compiler runs the generic (architecture-neutral) lowering pass of spec
// §4.3 against one Func at a time, grounded on wazevo/backend/compiler.go's
// pattern of a single long-lived Compiler value Reset between units of
// work, rather than one throwaway struct per call.
type Compiler struct {
	holder *ir.Code
	fn     *ir.Func
	opt    Opt

	out []ir.Node

	errors []Error

	breakStack       labelStack
	continueStack    labelStack
	fallthroughStack labelStack
}

// New returns a Compiler that runs the optional passes opt selects.
func New(opt Opt) *Compiler {
	return &Compiler{opt: opt}
}

// OK reports whether the most recent Compile call completed without
// recording any Error and without its Func's Code running out of memory.
func (c *Compiler) OK() bool {
	return len(c.errors) == 0 && (c.holder == nil || !c.holder.OutOfMemory())
}

// Errors returns the diagnostics recorded by the most recent Compile call.
func (c *Compiler) Errors() []Error {
	return c.errors
}

// Compile lowers f's high-level Body into its NOARCH compiled body,
// flattening control flow, resolving break/continue/fallthrough and
// expanding AssignCall (spec §4.3). It is idempotent (spec §8.4): a second
// call against a Func whose NOARCH body is already set returns true
// immediately without re-running any pass or touching c's error log.
func (c *Compiler) Compile(f *ir.Func) bool {
	if f.HasCompiledBody(ir.NoArch) {
		return true
	}

	c.holder = f.Code()
	c.fn = f
	c.out = nil
	c.errors = nil
	c.breakStack = nil
	c.continueStack = nil
	c.fallthroughStack = nil

	c.compileStmt(f.Body())

	out := c.out
	if c.opt&RemoveDeadCode != 0 {
		out = removeDeadCode(out)
	}

	f.SetCompiledBody(ir.NoArch, ir.NewBlock(c.holder, out...))
	return c.OK()
}

func (c *Compiler) emit(n ir.Node) {
	c.out = append(c.out, n)
}

func (c *Compiler) errorf(n ir.Node, format string, args ...any) {
	c.errors = append(c.errors, newErrorf(n, format, args...))
}

// compileStmt dispatches on n's Type and either emits n's flattened
// lowering directly into c.out (for the control-flow shapes handled in
// flatten.go) or rewrites it in place (for the remaining statement
// shapes).
func (c *Compiler) compileStmt(n ir.Node) {
	if !n.Valid() {
		return
	}
	switch n.Type() {
	case ir.StmtZero:
		c.compileStmtZero(n)
	case ir.Stmt1:
		c.compileStmt1(n)
	case ir.Stmt2:
		c.compileStmt2(n)
	case ir.Stmt3:
		c.compileIf(n)
	case ir.Stmt4:
		c.compileFor(n)
	case ir.StmtN:
		c.compileStmtN(n)
	default:
		c.errorf(n, "unexpected node of type %v where a statement was expected", n.Type())
	}
}

// compileStmtZero resolves Break/Continue/Fallthrough against the
// matching label stack (spec §4.3 step 2); an empty stack means the
// statement appears outside the construct that would give it a target,
// recorded as an Error rather than panicking so the rest of the Func
// still compiles.
func (c *Compiler) compileStmtZero(n ir.Node) {
	var stack *labelStack
	switch n.Op() {
	case ir.Break:
		stack = &c.breakStack
	case ir.Continue:
		stack = &c.continueStack
	case ir.Fallthrough:
		stack = &c.fallthroughStack
	default:
		c.errorf(n, "unexpected statement op %v", n.Op())
		return
	}
	label, ok := stack.top()
	if !ok {
		c.errorf(n, "%v outside of any enclosing loop or switch", n.Op())
		return
	}
	c.emit(ir.NewGoto(c.holder, label))
}

func (c *Compiler) compileStmt1(n ir.Node) {
	switch n.Op() {
	case ir.Goto:
		c.emit(n)
	case ir.Inc:
		c.emit(ir.NewIncStmt(c.holder, c.compileDst(n.Child(0))))
	case ir.Dec:
		c.emit(ir.NewDecStmt(c.holder, c.compileDst(n.Child(0))))
	default:
		c.errorf(n, "unexpected STMT_1 op %v", n.Op())
	}
}

func (c *Compiler) compileStmt2(n ir.Node) {
	op := n.Op()
	if op.IsAssign() {
		dst := c.compileDst(n.Child(0))
		src := c.rebuildExpr(n.Child(1))
		c.emit(ir.NewAssign(c.holder, op, dst, src))
		return
	}
	c.errorf(n, "unexpected STMT_2 op %v", op)
}

func (c *Compiler) compileStmtN(n ir.Node) {
	switch n.Op() {
	case ir.Block:
		count := n.Children()
		for i := uint32(0); i < count; i++ {
			c.compileStmt(n.Child(i))
		}
	case ir.Cond:
		c.compileCond(n)
	case ir.Switch:
		c.compileSwitch(n)
	case ir.AssignCall:
		c.compileAssignCall(n)
	case ir.Return:
		count := n.Children()
		values := make([]ir.Node, count)
		for i := uint32(0); i < count; i++ {
			values[i] = c.rebuildExpr(n.Child(i))
		}
		c.emit(ir.NewReturn(c.holder, values...))
	default:
		c.errorf(n, "unexpected STMT_N op %v", n.Op())
	}
}

// compileAssignCall lowers a multi-destination call: its shape already
// embodies the atomic "call once, bind every result" semantics spec §4.3
// step 3 asks for, so nothing beyond compiling its operands is needed —
// the destinations, already pre-allocated by the caller that built this
// node, stay exactly where they are inside the Tuple child ir/stmt.go
// wraps them in.
func (c *Compiler) compileAssignCall(n ir.Node) {
	dstsTuple := n.Child(0)
	callee := c.compileOperand(n.Child(1))
	dstCount := dstsTuple.Children()
	dsts := make([]ir.Node, dstCount)
	for i := uint32(0); i < dstCount; i++ {
		dsts[i] = c.compileDst(dstsTuple.Child(i))
	}
	argCount := n.Children() - 2
	args := make([]ir.Node, argCount)
	for i := uint32(0); i < argCount; i++ {
		args[i] = c.rebuildExpr(n.Child(2 + i))
	}
	c.emit(ir.NewAssignCall(c.holder, dsts, callee, args))
}

// compileDst compiles an assignment/call/Inc/Dec destination: always a Var
// or Mem, never hoisted by toVar. A Var passes through unchanged; a Mem
// keeps its shape, with only its address trivialized.
func (c *Compiler) compileDst(n ir.Node) ir.Node {
	if n.Valid() && n.Type() == ir.Mem {
		return c.rebuildExpr(n)
	}
	return c.compileOperand(n)
}

// compileOperand fully trivializes n into something a single x86-64
// operand slot can hold (Var, Const or Label), hoisting any composite
// expression into a fresh local via toVar first. Grounded on S1's
// `f(n-1)` and `f(n-2)` each becoming their own `var100Xul` before
// feeding the outer `+`.
func (c *Compiler) compileOperand(n ir.Node) ir.Node {
	if !n.Valid() {
		return n
	}
	switch n.Type() {
	case ir.Var, ir.Const, ir.LabelType:
		return n
	default:
		return c.toVar(c.rebuildExpr(n))
	}
}

// rebuildExpr compiles n's immediate children via compileOperand and
// reconstructs a node of the same shape, without hoisting n itself — the
// counterpart compileOperand uses internally, and the one an Assign's RHS
// or a Return's values need directly, since they allow one level of
// composite expression inline (S1's `(- var1000_ul 1)` stays an Assign's
// RHS exactly as written).
func (c *Compiler) rebuildExpr(n ir.Node) ir.Node {
	if !n.Valid() {
		return n
	}
	switch n.Type() {
	case ir.Var, ir.Const, ir.LabelType:
		return n
	case ir.Mem:
		return ir.NewMem(c.holder, n.Kind(), c.compileOperand(n.Child(0)))
	case ir.Unary:
		return c.buildUnary(n.Kind(), n.Op(), c.compileOperand(n.Child(0)))
	case ir.Binary:
		if op := n.Op(); op == ir.Land || op == ir.Lor {
			return c.compileLogical(n)
		}
		a := c.compileOperand(n.Child(0))
		b := c.compileOperand(n.Child(1))
		return c.buildBinary(n.Kind(), n.Op(), a, b)
	case ir.Tuple:
		count := n.Children()
		operands := make([]ir.Node, count)
		for i := uint32(0); i < count; i++ {
			operands[i] = c.compileOperand(n.Child(i))
		}
		return ir.NewTuple(c.holder, n.Kind(), operands...)
	case ir.Call:
		count := n.Children()
		callee := c.compileOperand(n.Child(0))
		args := make([]ir.Node, count-1)
		for i := uint32(1); i < count; i++ {
			args[i-1] = c.compileOperand(n.Child(i))
		}
		return ir.NewCall(c.holder, n.Kind(), callee, args...)
	default:
		c.errorf(n, "unexpected expression node of type %v", n.Type())
		return n
	}
}

// toVar hoists the composite expression src into a fresh local of src's
// Kind, emitting the Assign that computes it and returning the local Var
// in src's place.
func (c *Compiler) toVar(src ir.Node) ir.Node {
	if !src.Valid() {
		return src
	}
	switch src.Type() {
	case ir.Var, ir.Const, ir.LabelType:
		return src
	}
	tmp := c.fn.NewLocal(src.Kind())
	c.emit(ir.NewAssign(c.holder, ir.Assign, tmp, src))
	return tmp
}
