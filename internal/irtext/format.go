// Package irtext renders ir.Node trees as the stable S-expression text
// spec.md §6 describes, so this repo's own tests can assert literal golden
// output (the six S1-S6 scenarios of §8) without depending on an external
// formatter. The real textual formatter is named in spec §1 as an
// out-of-scope external collaborator; this package exists only to give
// this repo's tests something to compare against, and is not part of the
// module's public surface.
package irtext

import (
	"fmt"
	"math"
	"strings"

	"github.com/cosmos72/gomacrojit/ir"
)

const indentUnit = "    "

// Format renders n as S-expression text, starting at nesting level 0.
func Format(n ir.Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

func writeIndent(b *strings.Builder, level int) {
	b.WriteString(strings.Repeat(indentUnit, level))
}

// writeNode renders n. level is the indentation depth of n's own opening
// line; the caller is responsible for having already written that much
// indentation before calling writeNode for anything that starts a new
// line. Block/Switch/Cond/If/For are the only shapes that ever emit a
// newline themselves — everything else renders fully inline, however
// deeply it nests, matching the literal scenario text of spec §8.
func writeNode(b *strings.Builder, n ir.Node, level int) {
	if !n.Valid() {
		b.WriteString("<bad>")
		return
	}
	switch n.Type() {
	case ir.Var:
		fmt.Fprintf(b, "var%d%s", n.VarID(), n.Kind().VarSuffix())
	case ir.Const:
		writeConst(b, n)
	case ir.LabelType:
		fmt.Fprintf(b, "label_%d", ir.Label{Node: n}.Tag())
	case ir.Name:
		b.WriteString(n.NameChars().String())
	case ir.StmtZero:
		b.WriteString(stmtZeroText(n.Op()))
	case ir.Stmt1:
		writeInline(b, stmt1Text(n.Op()), level, childSlice(n)...)
	case ir.Stmt2:
		writeInline(b, stmt2Text(n.Op()), level, childSlice(n)...)
	case ir.Stmt3:
		writeHeadThenBlock(b, "if", level, childSlice(n)[:1], childSlice(n)[1:])
	case ir.Stmt4:
		writeHeadThenBlock(b, "for", level, childSlice(n)[:3], childSlice(n)[3:])
	case ir.StmtN:
		writeStmtN(b, n, level)
	case ir.Mem:
		writeInline(b, "mem", level, childSlice(n)...)
	case ir.Unary:
		writeInline(b, op1Text(n.Op()), level, childSlice(n)...)
	case ir.Binary:
		writeInline(b, op2Text(n.Op()), level, childSlice(n)...)
	case ir.Tuple:
		writeInline(b, "tuple", level, childSlice(n)...)
	case ir.Call:
		writeInline(b, "call", level, childSlice(n)...)
	case ir.FType:
		writeFType(b, n)
	default:
		b.WriteString("<?>")
	}
}

func childSlice(n ir.Node) []ir.Node {
	count := n.Children()
	children := make([]ir.Node, count)
	for i := range children {
		children[i] = n.Child(uint32(i))
	}
	return children
}

// writeInline renders "(<head> <child> <child> ...)" with no newlines,
// regardless of how deeply the children nest — the shape every pure
// expression and every simple statement (Assign, Case, Goto, Return, ...)
// uses in every literal scenario string in spec §8.
func writeInline(b *strings.Builder, head string, level int, children ...ir.Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, c := range children {
		b.WriteByte(' ')
		writeNode(b, c, level)
	}
	b.WriteByte(')')
}

// writeHeadThenBlock renders "(<head> <inline...>\n<indent>block\n<indent>...)",
// the shape If and For use: a handful of children stay on the opening
// line, the rest each get their own indented line, with the final ")"
// attached to the last one. Used only by If (1 inline, 2 block) and For (3
// inline, 1 block).
func writeHeadThenBlock(b *strings.Builder, head string, level int, inlineChildren, blockChildren []ir.Node) {
	b.WriteByte('(')
	b.WriteString(head)
	for _, c := range inlineChildren {
		b.WriteByte(' ')
		writeNode(b, c, level)
	}
	writeBlockChildren(b, level, blockChildren)
}

// writeBlockChildren appends each child on its own line at level+1,
// closing with ")" directly after the last child with no trailing
// newline.
func writeBlockChildren(b *strings.Builder, level int, children []ir.Node) {
	for _, c := range children {
		b.WriteByte('\n')
		writeIndent(b, level+1)
		writeNode(b, c, level+1)
	}
	b.WriteByte(')')
}

func writeStmtN(b *strings.Builder, n ir.Node, level int) {
	children := childSlice(n)
	switch n.Op() {
	case ir.Block:
		b.WriteString("(block")
		writeBlockChildren(b, level, children)
	case ir.Cond:
		b.WriteString("(cond")
		writeBlockChildren(b, level, children)
	case ir.Switch:
		b.WriteString("(switch")
		writeBlockChildren(b, level, children)
	case ir.AssignCall:
		writeInline(b, "assigncall", level, children...)
	case ir.Return:
		writeInline(b, "return", level, children...)
	case ir.X86Ret:
		writeInline(b, "x86_ret", level, children...)
	default:
		b.WriteString("<bad-stmtn>")
	}
}

func writeFType(b *strings.Builder, n ir.Node) {
	b.WriteByte('(')
	b.WriteString("ftype")
	b.WriteString(" (")
	for i := 0; i < n.ResultCount(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.Result(i).String())
	}
	b.WriteString(") (")
	for i := 0; i < n.ArgCount(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.Arg(i).String())
	}
	b.WriteString(")")
	b.WriteByte(')')
}

func writeConst(b *strings.Builder, n ir.Node) {
	k := n.Kind()
	if k == ir.Bool {
		if n.ConstBool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
		return
	}
	v := n.ConstValue()
	if k.IsFloat() {
		switch k.Bits() {
		case 32:
			fmt.Fprintf(b, "%g", math.Float32frombits(uint32(v)))
		default:
			fmt.Fprintf(b, "%g", math.Float64frombits(v))
		}
		return
	}
	if k.IsSigned() {
		fmt.Fprintf(b, "%d", signExtend(v, k.Bits()))
		return
	}
	fmt.Fprintf(b, "%d", v)
}

// signExtend reinterprets the low `bits` bits of v as a signed integer.
func signExtend(v uint64, bits int) int64 {
	if bits >= 64 {
		return int64(v)
	}
	shift := uint(64 - bits)
	return int64(v<<shift) >> shift
}

func stmtZeroText(op ir.StmtOp) string {
	switch op {
	case ir.Break:
		return "break"
	case ir.Continue:
		return "continue"
	case ir.Fallthrough:
		return "fallthrough"
	default:
		return "bad"
	}
}

func stmt1Text(op ir.StmtOp) string {
	switch op {
	case ir.Goto:
		return "goto"
	case ir.Inc:
		return "++"
	case ir.Dec:
		return "--"
	case ir.Default:
		return "default"
	case ir.X86Jmp:
		return "x86_jmp"
	case ir.X86Inc:
		return "x86_inc"
	case ir.X86Dec:
		return "x86_dec"
	case ir.AsmJa:
		return "asm_ja"
	case ir.AsmJae:
		return "asm_jae"
	case ir.AsmJb:
		return "asm_jb"
	case ir.AsmJbe:
		return "asm_jbe"
	case ir.AsmJe:
		return "asm_je"
	case ir.AsmJg:
		return "asm_jg"
	case ir.AsmJge:
		return "asm_jge"
	case ir.AsmJl:
		return "asm_jl"
	case ir.AsmJle:
		return "asm_jle"
	case ir.AsmJne:
		return "asm_jne"
	default:
		return "bad"
	}
}

func stmt2Text(op ir.StmtOp) string {
	switch op {
	case ir.Assign:
		return "="
	case ir.AddAssign:
		return "+="
	case ir.SubAssign:
		return "-="
	case ir.MulAssign:
		return "*="
	case ir.DivAssign:
		return "/="
	case ir.RemAssign:
		return "%="
	case ir.AndAssign:
		return "&="
	case ir.OrAssign:
		return "|="
	case ir.XorAssign:
		return "^="
	case ir.ShlAssign:
		return "<<="
	case ir.ShrAssign:
		return ">>="
	case ir.JumpIf:
		return "jumpif"
	case ir.Case:
		return "case"
	case ir.AsmCmp:
		return "asm_cmp"
	case ir.X86Mov:
		return "x86_mov"
	case ir.X86Add:
		return "x86_add"
	case ir.X86Sub:
		return "x86_sub"
	case ir.X86Mul:
		return "x86_mul"
	case ir.X86Div:
		return "x86_div"
	case ir.X86And:
		return "x86_and"
	case ir.X86Or:
		return "x86_or"
	case ir.X86Xor:
		return "x86_xor"
	case ir.X86Shl:
		return "x86_shl"
	case ir.X86Shr:
		return "x86_shr"
	case ir.X86Cmp:
		return "x86_cmp"
	default:
		return "bad"
	}
}

func op1Text(op ir.Op1) string {
	switch op {
	case ir.Neg:
		return "-"
	case ir.Not:
		return "~"
	default:
		return "bad"
	}
}

func op2Text(op ir.Op2) string {
	switch op {
	case ir.Add:
		return "+"
	case ir.Sub:
		return "-"
	case ir.Mul:
		return "*"
	case ir.Div:
		return "/"
	case ir.Rem:
		return "%"
	case ir.And:
		return "&"
	case ir.Or:
		return "|"
	case ir.Xor:
		return "^"
	case ir.Shl:
		return "<<"
	case ir.Shr:
		return ">>"
	case ir.Land:
		return "&&"
	case ir.Lor:
		return "||"
	case ir.Eql:
		return "=="
	case ir.Neq:
		return "!="
	case ir.Lss:
		return "<"
	case ir.Leq:
		return "<="
	case ir.Gtr:
		return ">"
	case ir.Geq:
		return ">="
	default:
		return "bad"
	}
}
