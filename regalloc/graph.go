// Package regalloc implements the Chaitin-style simplify/select register
// allocator of spec §4.6: an interference Graph over virtual registers, and
// an Allocator that reduces it to a coloring (with spilling) through the
// usual stack-based simplify/select loop.
package regalloc

import "github.com/bits-and-blooms/bitset"

// Reg is a virtual register id, 0..N-1 for a Graph of N nodes.
type Reg uint32

// Color is a physical register assignment, or a spill slot once it
// reaches K (spec §4.6 step 3: "assign the smallest integer >= K not used
// by a neighbor").
type Color uint32

// Graph is an interference graph: N registers, with an edge between any
// two that must not share a color. Backed by one bitset.BitSet of
// neighbors per node, the same ecosystem substitution idiom ir.IdSet uses
// for onestl::BitSet (SPEC_FULL.md §3) — adjacency-list-of-bitsets gives
// O(1) node removal via a parallel "live" bitset, and degree queries cost
// one intersection count of a neighbor bitset with that live bitset, both
// needed by the simplify loop's repeated degree scans.
type Graph struct {
	neighbors []*bitset.BitSet
	live      *bitset.BitSet
}

// NewGraph returns an edgeless Graph over n registers, all live.
func NewGraph(n uint32) *Graph {
	g := &Graph{
		neighbors: make([]*bitset.BitSet, n),
		live:      bitset.New(uint(n)),
	}
	for i := range g.neighbors {
		g.neighbors[i] = bitset.New(uint(n))
		g.live.Set(uint(i))
	}
	return g
}

// N returns the total number of registers the Graph was built for,
// regardless of how many remain live.
func (g *Graph) N() uint32 {
	return uint32(len(g.neighbors))
}

// AddEdge records that a and b interfere. A self-edge is ignored.
func (g *Graph) AddEdge(a, b Reg) {
	if a == b {
		return
	}
	g.neighbors[a].Set(uint(b))
	g.neighbors[b].Set(uint(a))
}

// HasEdge reports whether a and b interfere.
func (g *Graph) HasEdge(a, b Reg) bool {
	return g.neighbors[a].Test(uint(b))
}

// Neighbors returns r's full neighbor set, including any no-longer-live
// register — callers that need only live neighbors should intersect with
// clone.
func (g *Graph) Neighbors(r Reg) *bitset.BitSet {
	return g.neighbors[r]
}

// Live reports whether r has not yet been removed from the working copy.
func (g *Graph) Live(r Reg) bool {
	return g.live.Test(uint(r))
}

// LiveDegree returns the number of still-live neighbors of r.
func (g *Graph) LiveDegree(r Reg) uint {
	return g.neighbors[r].IntersectionCardinality(g.live)
}

// Remove marks r as no longer live: its edges stay recorded (Neighbors
// still reports them, for the select loop's final color computation
// against the *original* graph, per spec §4.6 step 3) but LiveDegree and
// IsEmpty no longer count it.
func (g *Graph) Remove(r Reg) {
	g.live.Clear(uint(r))
}

// IsEmpty reports whether every register has been removed.
func (g *Graph) IsEmpty() bool {
	return g.live.None()
}

// Clone returns a deep copy, used by Allocator.Reset to build the working
// graph g2 without disturbing the original g that select-loop coloring is
// checked against.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		neighbors: make([]*bitset.BitSet, len(g.neighbors)),
		live:      g.live.Clone(),
	}
	for i, n := range g.neighbors {
		clone.neighbors[i] = n.Clone()
	}
	return clone
}

// EachLive calls f once for every live register, in ascending order.
func (g *Graph) EachLive(f func(Reg)) {
	for i, ok := g.live.NextSet(0); ok; i, ok = g.live.NextSet(i + 1) {
		f(Reg(i))
	}
}
