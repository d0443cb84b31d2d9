// Package compiler implements the generic (architecture-neutral) lowering
// pass of spec §4.3: statement flattening, break/continue/fallthrough
// resolution, AssignCall expansion, short-circuit simplification and
// expression hoisting via to_var. compiler/x64 builds on its output.
package compiler

import (
	"fmt"

	"github.com/cosmos72/gomacrojit/ir"
)

// Opt is a bitset selecting which optional passes Compile runs, per spec
// §6. Unrecognized bits are ignored, the same "bitmask, not an enum"
// config idiom wazevo uses for its own pass flags.
type Opt uint8

const (
	FoldConstants Opt = 1 << iota
	SimplifyAlgebraic
	RemoveDeadCode

	// All enables every optional pass.
	All = FoldConstants | SimplifyAlgebraic | RemoveDeadCode
)

// Error is a recoverable diagnostic recorded against the Node that
// triggered it, grounded on onejit::Error (referenced, not defined, by
// compiler.hpp). Compilation continues after recording one; only OOM is
// fatal to the remainder of a compile call.
type Error struct {
	Node ir.Node
	Msg  string
}

func (e Error) Error() string {
	return fmt.Sprintf("compiler: %s", e.Msg)
}

func newErrorf(n ir.Node, format string, args ...any) Error {
	return Error{Node: n, Msg: fmt.Sprintf(format, args...)}
}
