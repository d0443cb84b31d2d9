package ir

// FTYPE describes a function's signature: an ordered list of result Kinds
// followed by an ordered list of argument Kinds (spec §3.3). Like Name,
// its size formula is not in spec §4.2.2's enumeration; SPEC_FULL.md §4
// extends it symmetrically: the header packs the result count into the
// 8-bit Kind field and the argument count into the 16-bit Op field (a
// function can have at most 255 results — already generous for any real
// calling convention — and at most 65535 arguments), and the tail is
// ceil((results+args)/4) items, four packed Kind bytes per item.
const ftypeMaxResults = 1<<8 - 1
const ftypeMaxArgs = 1<<16 - 1

// NewFType appends an FTYPE node describing a function that returns
// results and accepts args.
func NewFType(holder *Code, results, args []Kind) Node {
	if len(results) > ftypeMaxResults {
		panic("ir: NewFType too many results")
	}
	if len(args) > ftypeMaxArgs {
		panic("ir: NewFType too many args")
	}
	offset, ok := holder.AppendItem(packHeader(FType, Kind(len(results)), Op(len(args))))
	if !ok {
		return Node{}
	}
	all := make([]Kind, 0, len(results)+len(args))
	all = append(all, results...)
	all = append(all, args...)
	for i := 0; i < len(all); i += itemBytes {
		var word uint32
		for j := 0; j < itemBytes && i+j < len(all); j++ {
			word |= uint32(all[i+j]) << uint(8*j)
		}
		if _, ok := holder.AppendItem(word); !ok {
			holder.Truncate(offset)
			holder.markOOM()
			return Node{}
		}
	}
	return Node{typ: FType, kind: Kind(len(results)), op: Op(len(args)), payload: offset, code: holder}
}

// ResultCount returns the number of result Kinds in an FTYPE node.
func (n Node) ResultCount() int {
	if n.typ != FType {
		panic("ir: ResultCount called on a non-FTYPE Node")
	}
	return int(n.kind)
}

// ArgCount returns the number of argument Kinds in an FTYPE node.
func (n Node) ArgCount() int {
	if n.typ != FType {
		panic("ir: ArgCount called on a non-FTYPE Node")
	}
	return int(n.op)
}

// ftypeKindAt reads the i-th packed Kind byte out of an FTYPE node's tail.
func (n Node) ftypeKindAt(i int) Kind {
	base := n.payload + itemBytes
	word := n.code.Get(base + uint32(i/itemBytes)*itemBytes)
	shift := uint(8 * (i % itemBytes))
	return Kind(byte(word >> shift))
}

// Result returns the i-th result Kind.
func (n Node) Result(i int) Kind {
	if i >= n.ResultCount() {
		panic("ir: Result index out of range")
	}
	return n.ftypeKindAt(i)
}

// Arg returns the i-th argument Kind.
func (n Node) Arg(i int) Kind {
	if i >= n.ArgCount() {
		panic("ir: Arg index out of range")
	}
	return n.ftypeKindAt(n.ResultCount() + i)
}
