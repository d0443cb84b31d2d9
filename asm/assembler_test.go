package asm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmos72/gomacrojit/asm"
	"github.com/cosmos72/gomacrojit/ir"
)

func TestAssemblerAddByteAndAddBytes(t *testing.T) {
	a := asm.New(16)
	a.AddByte(0x90)
	a.AddBytes([]byte{0x48, 0x89, 0xe5})

	require.True(t, a.OK())
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, []byte{0x90, 0x48, 0x89, 0xe5}, a.Bytes())
}

// TestAssemblerCapacityExceededSticksError checks spec §4.5's OOM-style
// contract: an append past capacity is dropped wholesale and leaves OK()
// false for every subsequent call, mirroring ir.Code.markOOM.
func TestAssemblerCapacityExceededSticksError(t *testing.T) {
	a := asm.New(2)
	a.AddByte(0x90)
	a.AddBytes([]byte{0x01, 0x02, 0x03})

	assert.False(t, a.OK())
	assert.Equal(t, 1, a.Len())

	a.AddByte(0x91)
	assert.Equal(t, 1, a.Len())
}

// TestAssemblerAddLabelIsNoopOnInvalidLabel checks spec §3.5's "an invalid
// Label is a safe no-op" contract: attaching a never-allocated Label
// records no patch site, so Seal succeeds trivially.
func TestAssemblerAddLabelIsNoopOnInvalidLabel(t *testing.T) {
	a := asm.New(16)
	a.AddBytes([]byte{0, 0, 0, 0})
	a.AddLabel(ir.Label{})

	ok := a.Seal(func(ir.Label) (int, bool) {
		t.Fatal("resolve should never be called: no patch was recorded")
		return 0, false
	})
	assert.True(t, ok)
}

// TestAssemblerSealPatchesForwardReference checks a jump whose target
// label is resolved to an address past the patch site.
func TestAssemblerSealPatchesForwardReference(t *testing.T) {
	var holder ir.Code
	target := ir.NewLabel(&holder)

	a := asm.New(32)
	a.AddByte(0xe9) // jmp rel32 opcode, patch site follows
	a.AddBytes([]byte{0, 0, 0, 0})
	a.AddLabel(target)
	a.AddBytes([]byte{0x90, 0x90, 0x90, 0x90, 0x90}) // 5 filler bytes

	ok := a.Seal(func(l ir.Label) (int, bool) {
		if l.Tag() == target.Tag() {
			return 10, true
		}
		return 0, false
	})
	require.True(t, ok)

	patched := a.Bytes()[1:5]
	want := []byte{5, 0, 0, 0} // target(10) - (patchEnd=5) = 5
	assert.Equal(t, want, patched)
}

// TestAssemblerSealPatchesBackwardReference checks a loop branch whose
// target label lies before the patch site.
func TestAssemblerSealPatchesBackwardReference(t *testing.T) {
	var holder ir.Code
	top := ir.NewLabel(&holder)

	a := asm.New(32)
	a.AddBytes([]byte{0x90, 0x90, 0x90}) // top: at offset 0
	a.AddByte(0xeb)                      // jmp rel8
	a.AddByte(0)
	a.AddLabel(top)

	ok := a.Seal(func(ir.Label) (int, bool) { return 0, true })
	require.True(t, ok)

	// distance = target(0) - patchEnd(5) = -5
	assert.Equal(t, byte(0xfb), a.Bytes()[4])
}

// TestAssemblerSealFailsWhenLabelUnresolved checks that a patch whose
// label resolve rejects leaves Seal reporting failure.
func TestAssemblerSealFailsWhenLabelUnresolved(t *testing.T) {
	var holder ir.Code
	missing := ir.NewLabel(&holder)

	a := asm.New(16)
	a.AddBytes([]byte{0, 0, 0, 0})
	a.AddLabel(missing)

	ok := a.Seal(func(ir.Label) (int, bool) { return 0, false })
	assert.False(t, ok)
}

// TestAssemblerSealFailsWhenDistanceDoesNotFit checks that a 1-byte patch
// site rejects a distance outside signed 8-bit range instead of silently
// truncating it.
func TestAssemblerSealFailsWhenDistanceDoesNotFit(t *testing.T) {
	var holder ir.Code
	far := ir.NewLabel(&holder)

	a := asm.New(16)
	a.AddByte(0xeb)
	a.AddByte(0)
	a.AddLabel(far)

	ok := a.Seal(func(ir.Label) (int, bool) { return 1000, true })
	assert.False(t, ok)
}

// TestAssemblerAddLabelOnlyCoversMostRecentAddition checks that a second
// AddBytes call without an intervening AddLabel starts a fresh contiguous
// range: attaching a label covers only that latest range, not everything
// written since the buffer began.
func TestAssemblerAddLabelOnlyCoversMostRecentAddition(t *testing.T) {
	var holder ir.Code
	l := ir.NewLabel(&holder)

	a := asm.New(16)
	a.AddBytes([]byte{1, 2, 3, 4})
	a.AddBytes([]byte{0, 0})
	a.AddLabel(l)

	ok := a.Seal(func(ir.Label) (int, bool) { return 0, true })
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, a.Bytes()[:4])
}
