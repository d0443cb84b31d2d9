package x64_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmos72/gomacrojit/compiler"
	"github.com/cosmos72/gomacrojit/compiler/x64"
	"github.com/cosmos72/gomacrojit/internal/irtext"
	"github.com/cosmos72/gomacrojit/ir"
)

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

// TestX64PreconditionRequiresNoarch checks spec §8.5: compile_x64 against a
// Func with no NOARCH body never produces a populated X64 body; it
// terminates with a recorded error instead.
func TestX64PreconditionRequiresNoarch(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("bad"), nil, nil)
	f.SetBody(ir.NewBlock(&holder))

	xc := x64.New()
	ok := xc.Compile(f)
	assert.False(t, ok)
	assert.False(t, f.HasCompiledBody(ir.X64))
	require.Len(t, xc.Errors(), 1)
}

// TestX64LowersAssignGotoReturn checks spec §4.4's lowering table against
// the already-flattened fib body: every ASSIGN becomes X86_MOV, Goto
// becomes X86_JMP, and Return becomes X86_RET, while the AsmCmp/AsmJ<cc>
// pairs the generic pass already emitted pass through unchanged.
func TestX64LowersAssignGotoReturn(t *testing.T) {
	var holder ir.Code
	f := buildFib(&holder)

	gc := compiler.New(0)
	require.True(t, gc.Compile(f))

	xc := x64.New()
	require.True(t, xc.Compile(f))
	require.True(t, f.HasCompiledBody(ir.X64))

	got := irtext.Format(f.CompiledBody(ir.X64))
	assert.Contains(t, got, "x86_mov")
	assert.Contains(t, got, "x86_jmp")
	assert.Contains(t, got, "x86_ret")
	assert.Contains(t, got, "asm_cmp")
	assert.Contains(t, got, "asm_jbe")
	assert.NotContains(t, got, "(=")
	assert.NotContains(t, got, "(goto")
	assert.NotContains(t, got, "(return")
}

// TestX64IsIdempotent mirrors TestCompileIsIdempotent for the x64 pass: a
// second Compile call against a Func already holding an X64 body is a
// no-op that still reports success.
func TestX64IsIdempotent(t *testing.T) {
	var holder ir.Code
	f := buildFib(&holder)

	gc := compiler.New(0)
	require.True(t, gc.Compile(f))

	xc := x64.New()
	require.True(t, xc.Compile(f))
	first := irtext.Format(f.CompiledBody(ir.X64))

	require.True(t, xc.Compile(f))
	second := irtext.Format(f.CompiledBody(ir.X64))
	assert.Equal(t, first, second)
}

// TestX64RemAssignIsUnsupported checks SPEC_FULL.md §6 Q1: REM_ASSIGN has
// no x86-64 lowering in this core, so it must produce a recorded error
// rather than a guessed encoding.
func TestX64RemAssignIsUnsupported(t *testing.T) {
	var holder ir.Code
	f := ir.NewFunc(&holder, ir.Chars("mod"), nil, []ir.Kind{ir.Uint64})
	a := f.Param(0)
	f.SetBody(ir.NewBlock(&holder, ir.NewAssign(&holder, ir.RemAssign, a, ir.NewConst(&holder, ir.Uint64, 3))))

	gc := compiler.New(0)
	require.True(t, gc.Compile(f))

	xc := x64.New()
	ok := xc.Compile(f)
	assert.False(t, ok)
	require.NotEmpty(t, xc.Errors())
}
