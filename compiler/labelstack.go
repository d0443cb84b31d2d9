package compiler

import "github.com/cosmos72/gomacrojit/ir"

// labelStack is a LIFO stack of Labels, one instance each for break,
// continue and fallthrough resolution (spec §4.3 step 2). Grounded on
// compiler.hpp's break_/continue_/fallthrough_ Vector<Label> fields;
// pushed on entering a loop or switch, popped on exit, never unwound on
// error — a Break/Continue/Fallthrough with an empty stack is recorded as
// an Error and the compile continues.
type labelStack []ir.Label

func (s *labelStack) push(l ir.Label) {
	*s = append(*s, l)
}

func (s *labelStack) pop() {
	if len(*s) == 0 {
		return
	}
	*s = (*s)[:len(*s)-1]
}

// top returns the label at the top of the stack, or an invalid Label and
// false if the stack is empty.
func (s labelStack) top() (ir.Label, bool) {
	if len(s) == 0 {
		return ir.Label{}, false
	}
	return s[len(s)-1], true
}
