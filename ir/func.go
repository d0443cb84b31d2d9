package ir

// ArchId selects which lowered body of a Func a caller reads or writes:
// the architecture-neutral form the generic pass produces, or the
// x86-64-materialized form the x64 pass produces from it.
type ArchId uint8

const (
	NoArch ArchId = iota
	X64
	numArch
)

// Func groups everything needed to build and progressively compile one
// procedure: its Code holder, persistent Name and FType, the Vars bound
// to its parameters and results, the high-level body the client
// assembles, and one compiled body slot per ArchId (spec §3.4). Grounded
// on onejit::Func's new_*/param/result accessor shape (test_func.cpp). The
// compiled bodies live in a fixed array with one slot per ArchId.
type Func struct {
	holder  *Code
	name    Node
	ftype   Node
	label   Label
	params  []Node
	results []Node
	body    Node
	compiled [numArch]Node

	nextID uint32
}

// NewFunc allocates a Func named name with signature (results, args) into
// holder: a Name, an FType, the Func's own identity Label (its call
// target from other Funcs sharing holder), and one Var per parameter and
// result, in that order — reproducing test_func.cpp's id numbering, where
// a function's first parameter is var1000 and its first result follows
// immediately after the last parameter.
func NewFunc(holder *Code, name Chars, results, args []Kind) *Func {
	f := &Func{
		holder: holder,
		name:   NewName(holder, name),
		ftype:  NewFType(holder, results, args),
		label:  NewLabel(holder),
		nextID: uint32(IdFirst),
	}
	f.params = make([]Node, len(args))
	for i, kind := range args {
		f.params[i] = NewVar(holder, kind, f.allocateID())
	}
	f.results = make([]Node, len(results))
	for i, kind := range results {
		f.results[i] = NewVar(holder, kind, f.allocateID())
	}
	return f
}

func (f *Func) allocateID() Id {
	id := Id(f.nextID)
	f.nextID++
	return id
}

// Code returns the Code holder f's nodes are allocated into. The IR
// factory functions (stmt.go, expr.go) and the compiler package take this
// explicitly rather than f itself, per spec §9's
// "pass the Code as an explicit context" design note.
func (f *Func) Code() *Code {
	return f.holder
}

// Name returns f's NAME node.
func (f *Func) Name() Node { return f.name }

// FType returns f's FTYPE node.
func (f *Func) FType() Node { return f.ftype }

// Label returns the Label identifying f as a call target.
func (f *Func) Label() Label { return f.label }

// ParamCount returns the number of parameters.
func (f *Func) ParamCount() int { return len(f.params) }

// Param returns the i-th parameter Var.
func (f *Func) Param(i int) Node { return f.params[i] }

// ResultCount returns the number of results.
func (f *Func) ResultCount() int { return len(f.results) }

// Result returns the i-th result Var.
func (f *Func) Result(i int) Node { return f.results[i] }

// NewLocal allocates a fresh local Var of the given kind, continuing the
// same id sequence used for parameters and results.
func (f *Func) NewLocal(kind Kind) Node {
	return NewVar(f.holder, kind, f.allocateID())
}

// NewInnerLabel allocates a fresh Label for use inside f's body (loop and
// branch targets introduced by the client or by the compiler's
// flattening pass), drawn from the same holder-wide counter as f's own
// identity label.
func (f *Func) NewInnerLabel() Label {
	return NewLabel(f.holder)
}

// Body returns the high-level body the client assembled.
func (f *Func) Body() Node { return f.body }

// SetBody installs the high-level body a client has assembled out of
// factory calls against f.Code().
func (f *Func) SetBody(body Node) { f.body = body }

// CompiledBody returns the lowered body for the given architecture, or an
// invalid Node if that pass has not run yet.
func (f *Func) CompiledBody(arch ArchId) Node { return f.compiled[arch] }

// SetCompiledBody installs the lowered body produced for arch.
func (f *Func) SetCompiledBody(arch ArchId, body Node) { f.compiled[arch] = body }

// HasCompiledBody reports whether a lowering pass has already populated
// arch's compiled body.
func (f *Func) HasCompiledBody(arch ArchId) bool { return f.compiled[arch].Valid() }
