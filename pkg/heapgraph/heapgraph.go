// Package heapgraph provides read-only diagnostics over the collector's
// live object graph: strongly-connected-component analysis to report
// reference cycles, and DOT export for visual inspection.
//
// A live cycle is not garbage. The collector's sweep only reclaims cycles
// with no external holder; this package exists to show the cycles that are
// still being kept alive, which is the usual starting point when a script
// leaks memory through closures capturing their own environment.
package heapgraph

import (
	"fmt"
	"io"

	"github.com/aclements/go-moremath/graph"
	"github.com/aclements/go-moremath/graph/graphalg"
	"github.com/aclements/go-moremath/graph/graphout"

	"mauve_go/pkg/gc"
)

// Snapshot is a point-in-time copy of the collector's live object graph.
// Node numbers are dense indexes in identity order; edges to objects
// collected between the metadata read and now are simply absent.
//
// Snapshot satisfies the graph.Graph interface.
type Snapshot struct {
	infos []gc.ObjectInfo
	index map[uint64]int // identity -> node number
	out   [][]int
}

var _ graph.Graph = (*Snapshot)(nil)

// Capture snapshots the live object graph of c
func Capture(c *gc.Collector) *Snapshot {
	infos := c.Live()
	index := make(map[uint64]int, len(infos))
	for i, info := range infos {
		index[info.ID] = i
	}
	out := make([][]int, len(infos))
	for i, info := range infos {
		for _, ref := range info.Refs {
			if j, ok := index[ref]; ok {
				out[i] = append(out[i], j)
			}
		}
	}
	return &Snapshot{infos: infos, index: index, out: out}
}

func (s *Snapshot) NumNodes() int {
	return len(s.infos)
}

func (s *Snapshot) Out(i int) []int {
	return s.out[i]
}

// Label renders one node for reports and DOT output
func (s *Snapshot) Label(i int) string {
	info := s.infos[i]
	return fmt.Sprintf("#%d %s rc=%d gen=%d", info.ID, info.Kind, info.RefCount, info.Generation)
}

// ID returns the object identity behind node number i
func (s *Snapshot) ID(i int) uint64 {
	return s.infos[i].ID
}

// Info returns the full metadata behind node number i
func (s *Snapshot) Info(i int) gc.ObjectInfo {
	return s.infos[i]
}

// Cycles returns the identities involved in live reference cycles, one
// slice per strongly connected component. Components of one node count only
// when the node references itself.
func (s *Snapshot) Cycles() [][]uint64 {
	scc := graphalg.SCC(s, graphalg.SCCSubnodeComponent)
	var cycles [][]uint64
	for cid := 0; cid < scc.NumNodes(); cid++ {
		nids := scc.Subnodes(cid)
		if len(nids) == 1 && !s.hasSelfEdge(nids[0]) {
			continue
		}
		ids := make([]uint64, len(nids))
		for i, nid := range nids {
			ids[i] = s.infos[nid].ID
		}
		cycles = append(cycles, ids)
	}
	return cycles
}

func (s *Snapshot) hasSelfEdge(node int) bool {
	for _, succ := range s.out[node] {
		if succ == node {
			return true
		}
	}
	return false
}

// WriteDot writes the snapshot as a dot graph. Zero-count objects, which
// the next reclamation pass will remove, are drawn dashed.
func (s *Snapshot) WriteDot(w io.Writer) {
	nodeAttrs := func(node int) []graphout.DotAttr {
		attrs := []graphout.DotAttr{{Name: "shape", Val: "box"}}
		if s.infos[node].RefCount == 0 {
			attrs = append(attrs, graphout.DotAttr{Name: "style", Val: "dashed"})
		}
		return attrs
	}
	graphout.Dot{Label: s.Label, NodeAttrs: nodeAttrs}.Fprint(w, s)
}

// ReportText writes a one-line-per-cycle summary of the live cycles in s
func (s *Snapshot) ReportText(w io.Writer) {
	cycles := s.Cycles()
	if len(cycles) == 0 {
		fmt.Fprintln(w, "no live reference cycles")
		return
	}
	for _, cycle := range cycles {
		fmt.Fprintf(w, "cycle of %d objects:", len(cycle))
		for _, id := range cycle {
			fmt.Fprintf(w, " #%d", id)
		}
		fmt.Fprintln(w)
	}
}
