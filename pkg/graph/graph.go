package graph

import (
	"github.com/GaryJin/osrm-backend/pkg/datastructure"
)

// Graph read contract yang dishare mutable store (DynamicGraph) dan frozen
// store (StaticGraph) plus filtered view dari keduanya. contractor cuma
// bergantung ke interface ini + operasi mutasi DynamicGraph.
type Graph interface {
	NumNodes() int32
	NumEdges() int32
	Target(edgeID int32) int32
	EdgeData(edgeID int32) *datastructure.ContractorEdgeData
	AdjacentEdges(nodeID int32) EdgeIterator
}

// EdgeIterator lazy iteration di adjacency list satu node. finite,
// restartable (minta lagi ke graph), gak ada side effect. Next return
// (InvalidEdgeID, false) kalau habis.
//
// ids != nil -> iterasi index array (dynamic graph), selain itu iterasi
// range csr [curr, last) (static graph). filter != nil nge-skip edge yang
// lagi gak visible.
type EdgeIterator struct {
	ids    []int32
	curr   int32
	last   int32
	filter func(edgeID int32) bool
}

func (it *EdgeIterator) Next() (int32, bool) {
	if it.ids != nil {
		for int(it.curr) < len(it.ids) {
			edgeID := it.ids[it.curr]
			it.curr++
			if it.filter == nil || it.filter(edgeID) {
				return edgeID, true
			}
		}
		return datastructure.InvalidEdgeID, false
	}
	for it.curr < it.last {
		edgeID := it.curr
		it.curr++
		if it.filter == nil || it.filter(edgeID) {
			return edgeID, true
		}
	}
	return datastructure.InvalidEdgeID, false
}

// InputEdge directed edge input buat bangun store. urutan slice = urutan
// adjacency per node.
type InputEdge struct {
	From int32
	To   int32
	Data datastructure.ContractorEdgeData
}

func NewInputEdge(from, to int32, data datastructure.ContractorEdgeData) InputEdge {
	return InputEdge{From: from, To: to, Data: data}
}
