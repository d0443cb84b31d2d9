package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmos72/gomacrojit/compiler"
	"github.com/cosmos72/gomacrojit/internal/irtext"
	"github.com/cosmos72/gomacrojit/ir"
)

// buildFib constructs `fib(n: u64) -> u64 = if (n > 2) then f(n-1)+f(n-2)
// else 1` directly out of ir factory calls, the shape spec §8's S1
// scenario describes.
func buildFib(holder *ir.Code) *ir.Func {
	f := ir.NewFunc(holder, ir.Chars("fib"), []ir.Kind{ir.Uint64}, []ir.Kind{ir.Uint64})
	n := f.Param(0)
	result := f.Result(0)

	cond := ir.NewBinary(holder, ir.Bool, ir.Gtr, n, ir.NewConst(holder, ir.Uint64, 2))

	arg1 := ir.NewBinary(holder, ir.Uint64, ir.Sub, n, ir.NewConst(holder, ir.Uint64, 1))
	call1 := ir.NewCall(holder, ir.Uint64, f.Label().Node, arg1)
	arg2 := ir.NewBinary(holder, ir.Uint64, ir.Sub, n, ir.NewConst(holder, ir.Uint64, 2))
	call2 := ir.NewCall(holder, ir.Uint64, f.Label().Node, arg2)
	sum := ir.NewBinary(holder, ir.Uint64, ir.Add, call1, call2)

	thenBlock := ir.NewBlock(holder,
		ir.NewAssign(holder, ir.Assign, result, sum),
		ir.NewReturn(holder, result),
	)
	elseBlock := ir.NewBlock(holder,
		ir.NewAssign(holder, ir.Assign, result, ir.NewConst(holder, ir.Uint64, 1)),
		ir.NewReturn(holder, result),
	)
	f.SetBody(ir.NewIf(holder, cond, thenBlock, elseBlock))
	return f
}

// TestCompileFibMatchesS1 checks the exact literal S-expression text spec
// §8's S1 scenario specifies for the compiled recursive fib.
func TestCompileFibMatchesS1(t *testing.T) {
	var holder ir.Code
	f := buildFib(&holder)

	c := compiler.New(0)
	require.True(t, c.Compile(f))
	require.True(t, c.OK())

	want := `(block
    (asm_cmp var1000_ul 2)
    (asm_jbe label_1)
    (= var1002_ul (- var1000_ul 1))
    (= var1003_ul (call label_0 var1002_ul))
    (= var1004_ul (- var1000_ul 2))
    (= var1005_ul (call label_0 var1004_ul))
    (= var1001_ul (+ var1003_ul var1005_ul))
    (return var1001_ul)
    (goto label_2)
    label_1
    (= var1001_ul 1)
    (return var1001_ul)
    label_2)`

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.Equal(t, want, got)
}

// TestCompileIsIdempotent checks spec §8.4: a second Compile call against
// a Func already holding a NOARCH body is a no-op that still reports
// success, producing a byte-for-byte identical compiled body.
func TestCompileIsIdempotent(t *testing.T) {
	var holder ir.Code
	f := buildFib(&holder)

	c := compiler.New(0)
	require.True(t, c.Compile(f))
	first := irtext.Format(f.CompiledBody(ir.NoArch))

	require.True(t, c.Compile(f))
	second := irtext.Format(f.CompiledBody(ir.NoArch))

	assert.Equal(t, first, second)
}

// TestCompileCountedLoopMatchesS2 checks spec §8's S2 scenario: a
// test-at-bottom loop using labels body/test/end in that order, with the
// bottom test lowered to ASM_CMP+ASM_JB (unsigned `<`).
func TestCompileCountedLoopMatchesS2(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("sum"), []ir.Kind{ir.Uint64}, []ir.Kind{ir.Uint64})
	n := f.Param(0)
	total := f.Result(0)
	i := f.NewLocal(ir.Uint64)

	init := ir.NewAssign(&holder, ir.Assign, i, ir.NewConst(&holder, ir.Uint64, 0))
	test := ir.NewBinary(&holder, ir.Bool, ir.Lss, i, n)
	post := ir.NewIncStmt(&holder, i)
	body := ir.NewBlock(&holder, ir.NewAssign(&holder, ir.AddAssign, total, i))

	loop := ir.NewFor(&holder, init, test, post, body)
	f.SetBody(ir.NewBlock(&holder, loop, ir.NewReturn(&holder, total)))

	c := compiler.New(0)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	// Compare the lines where each label is placed, not its first mention:
	// `(goto label_2)` legitimately precedes the body label.
	assert.Contains(t, got, "\n    label_1\n")
	assert.Contains(t, got, "\n    label_2\n")
	assert.Contains(t, got, "\n    label_3\n")
	assert.Contains(t, got, "asm_jb")
	assert.True(t, strings.Index(got, "\n    label_1\n") < strings.Index(got, "\n    label_2\n"))
	assert.True(t, strings.Index(got, "\n    label_2\n") < strings.Index(got, "\n    label_3\n"))
}

// TestCompileSwitchDefaultInMiddle checks spec §8's S3 scenario: a chained
// ASM_CMP+ASM_JNE compare per explicit case, with an explicit goto
// reaching a default case whose body sits between two other cases in
// source order.
func TestCompileSwitchDefaultInMiddle(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("classify"), []ir.Kind{ir.Uint64}, []ir.Kind{ir.Uint64})
	x := f.Param(0)
	result := f.Result(0)

	caseA := ir.NewCase(&holder,
		ir.NewConst(&holder, ir.Uint64, 1),
		ir.NewBlock(&holder, ir.NewAssign(&holder, ir.Assign, result, ir.NewConst(&holder, ir.Uint64, 10))))
	defaultCase := ir.NewDefault(&holder,
		ir.NewBlock(&holder, ir.NewAssign(&holder, ir.Assign, result, ir.NewConst(&holder, ir.Uint64, 99))))
	caseB := ir.NewCase(&holder,
		ir.NewConst(&holder, ir.Uint64, 2),
		ir.NewBlock(&holder, ir.NewAssign(&holder, ir.Assign, result, ir.NewConst(&holder, ir.Uint64, 20))))

	sw := ir.NewSwitch(&holder, x, caseA, defaultCase, caseB)
	f.SetBody(ir.NewBlock(&holder, sw, ir.NewReturn(&holder, result)))

	c := compiler.New(0)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.Contains(t, got, "asm_cmp")
	assert.Contains(t, got, "asm_jne")
	assert.Contains(t, got, "goto")

	// The default's compiled body (=99) keeps its source position between
	// caseA's (=10) and caseB's (=20).
	posA := strings.Index(got, " 10)")
	posDefault := strings.Index(got, " 99)")
	posB := strings.Index(got, " 20)")
	assert.True(t, posA < posDefault && posDefault < posB)
}

// TestCompileCondFinalArmMatchesS4 checks spec §8's S4 scenario: the
// guaranteed-true final arm of a Cond chain still goes through the full
// `(asm_cmp true false)` + `asm_je` machinery, with no peephole shortcut.
func TestCompileCondFinalArmMatchesS4(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("classify"), []ir.Kind{ir.Uint64}, []ir.Kind{ir.Uint64})
	n := f.Param(0)
	result := f.Result(0)

	cond := ir.NewCond(&holder,
		ir.NewBinary(&holder, ir.Bool, ir.Eql, n, ir.NewConst(&holder, ir.Uint64, 0)),
		ir.NewReturn(&holder, ir.NewConst(&holder, ir.Uint64, 1)),
		ir.NewBinary(&holder, ir.Bool, ir.Eql, n, ir.NewConst(&holder, ir.Uint64, 1)),
		ir.NewReturn(&holder, ir.NewConst(&holder, ir.Uint64, 2)),
		ir.TrueExpr,
		ir.NewReturn(&holder, ir.NewBinary(&holder, ir.Uint64, ir.Add, n, ir.NewConst(&holder, ir.Uint64, 1))),
	)
	f.SetBody(ir.NewBlock(&holder, cond, ir.NewReturn(&holder, result)))

	c := compiler.New(0)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.Contains(t, got, "(asm_cmp true false)")
	idx := strings.Index(got, "(asm_cmp true false)")
	require.GreaterOrEqual(t, idx, 0)
	tail := got[idx:]
	assert.Contains(t, tail, "asm_je")
}

// TestCompileLandShortCircuit checks spec §4.3 step 4's short-circuit
// rewrite: `a && b` compiles to an If hoisting the result into a temp
// (`tmp=b` on the true arm, `tmp=false` on the false arm) rather than
// surviving as a Land node into the compiled body.
func TestCompileLandShortCircuit(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("both"), []ir.Kind{ir.Bool}, []ir.Kind{ir.Bool, ir.Bool})
	a := f.Param(0)
	b := f.Param(1)
	result := f.Result(0)

	land := ir.NewBinary(&holder, ir.Bool, ir.Land, a, b)
	f.SetBody(ir.NewBlock(&holder,
		ir.NewAssign(&holder, ir.Assign, result, land),
		ir.NewReturn(&holder, result),
	))

	c := compiler.New(0)
	require.True(t, c.Compile(f))
	require.True(t, c.OK())

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.NotContains(t, got, "&&")
	assert.Contains(t, got, "asm_cmp")
	assert.Contains(t, got, "asm_je")
	assert.Equal(t, 3, strings.Count(got, "(= "))
}

// TestCompileLorShortCircuit checks the `x || y` half of the same rewrite:
// the true arm assigns the literal true, the false arm assigns y.
func TestCompileLorShortCircuit(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("either"), []ir.Kind{ir.Bool}, []ir.Kind{ir.Bool, ir.Bool})
	a := f.Param(0)
	b := f.Param(1)
	result := f.Result(0)

	lor := ir.NewBinary(&holder, ir.Bool, ir.Lor, a, b)
	f.SetBody(ir.NewBlock(&holder,
		ir.NewAssign(&holder, ir.Assign, result, lor),
		ir.NewReturn(&holder, result),
	))

	c := compiler.New(0)
	require.True(t, c.Compile(f))
	require.True(t, c.OK())

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.NotContains(t, got, "||")
	assert.Contains(t, got, "true")
	assert.Contains(t, got, "asm_cmp")
}

// TestCompileFoldConstantsCollapsesArithmetic checks spec §6's Opt bitset:
// with FoldConstants set, a Binary over two CONST operands is evaluated at
// compile time rather than surviving into the compiled body.
func TestCompileFoldConstantsCollapsesArithmetic(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("k"), []ir.Kind{ir.Uint64}, nil)
	result := f.Result(0)

	sum := ir.NewBinary(&holder, ir.Uint64, ir.Add,
		ir.NewConst(&holder, ir.Uint64, 2), ir.NewConst(&holder, ir.Uint64, 3))
	f.SetBody(ir.NewBlock(&holder, ir.NewAssign(&holder, ir.Assign, result, sum)))

	c := compiler.New(compiler.FoldConstants)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.Equal(t, "(block\n    (= var1000_ul 5))", got)
}

// TestCompileFoldConstantsIsOffByDefault checks that Opt(0) — the value
// every other test in this file uses — leaves constant arithmetic
// unevaluated, so the S1-S4 golden texts above stay exact without this
// pass silently rewriting them.
func TestCompileFoldConstantsIsOffByDefault(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("k"), []ir.Kind{ir.Uint64}, nil)
	result := f.Result(0)

	sum := ir.NewBinary(&holder, ir.Uint64, ir.Add,
		ir.NewConst(&holder, ir.Uint64, 2), ir.NewConst(&holder, ir.Uint64, 3))
	f.SetBody(ir.NewBlock(&holder, ir.NewAssign(&holder, ir.Assign, result, sum)))

	c := compiler.New(0)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.Contains(t, got, "(+ 2 3)")
}

// TestCompileSimplifyAlgebraicDropsIdentity checks spec §6's
// SimplifyAlgebraic option: `x + 0` rewrites to `x` rather than emitting
// an Add that always returns its own first operand.
func TestCompileSimplifyAlgebraicDropsIdentity(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("k"), []ir.Kind{ir.Uint64}, []ir.Kind{ir.Uint64})
	n := f.Param(0)
	result := f.Result(0)

	expr := ir.NewBinary(&holder, ir.Uint64, ir.Add, n, ir.NewConst(&holder, ir.Uint64, 0))
	f.SetBody(ir.NewBlock(&holder, ir.NewAssign(&holder, ir.Assign, result, expr)))

	c := compiler.New(compiler.SimplifyAlgebraic)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.NotContains(t, got, "(+")
	assert.Contains(t, got, "(= var1001_ul var1000_ul)")
}

// TestCompileRemoveDeadCodeDropsUnreachableTail checks spec §6's
// RemoveDeadCode option: a statement following an unconditional Return in
// the same straight-line block never reaches the compiled body.
func TestCompileRemoveDeadCodeDropsUnreachableTail(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("k"), []ir.Kind{ir.Uint64}, nil)
	result := f.Result(0)
	dead := f.NewLocal(ir.Uint64)

	f.SetBody(ir.NewBlock(&holder,
		ir.NewAssign(&holder, ir.Assign, result, ir.NewConst(&holder, ir.Uint64, 1)),
		ir.NewReturn(&holder, result),
		ir.NewAssign(&holder, ir.Assign, dead, ir.NewConst(&holder, ir.Uint64, 2)),
	))

	c := compiler.New(compiler.RemoveDeadCode)
	require.True(t, c.Compile(f))

	got := irtext.Format(f.CompiledBody(ir.NoArch))
	assert.NotContains(t, got, "2)")
	assert.Contains(t, got, "(return var1000_ul)")
}

// TestBreakOutsideLoopRecordsError checks spec §7's "unresolved control
// flow" error kind: a Break with no enclosing loop or switch is recorded
// rather than panicking, and Compile still returns a result.
func TestBreakOutsideLoopRecordsError(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("bad"), nil, nil)
	f.SetBody(ir.NewBlock(&holder, ir.BreakNode))

	c := compiler.New(0)
	ok := c.Compile(f)
	assert.False(t, ok)
	require.Len(t, c.Errors(), 1)
}
