package graph

import (
	"fmt"
	"sort"

	"github.com/GaryJin/osrm-backend/pkg/datastructure"
)

// StaticGraph frozen csr store buat query time. topology fixed, layout
// cache friendly: adjacency node n = edge id [firstEdge[n], firstEdge[n+1]).
// bisa owned (dibangun sendiri) atau non-owning view di atas slice punya
// caller (misal hasil decode file mmap). view jangan pernah dimutasi dan
// cuma valid selama backing storage-nya hidup, itu kontrak caller.
type StaticGraph struct {
	firstEdge []int32 // len numNodes+1
	targets   []int32
	edgeData  []datastructure.ContractorEdgeData
}

// NewStaticGraph bangun csr dari edge list. urutan relatif edge dengan From
// yang sama dipertahankan (stable sort), jadi adjacency order input kejaga.
func NewStaticGraph(numNodes int32, edges []InputEdge) *StaticGraph {
	sorted := make([]InputEdge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].From < sorted[j].From
	})

	g := &StaticGraph{
		firstEdge: make([]int32, numNodes+1),
		targets:   make([]int32, len(sorted)),
		edgeData:  make([]datastructure.ContractorEdgeData, len(sorted)),
	}
	for i, edge := range sorted {
		g.firstEdge[edge.From+1]++
		g.targets[i] = edge.To
		g.edgeData[i] = edge.Data
	}
	for n := int32(0); n < numNodes; n++ {
		g.firstEdge[n+1] += g.firstEdge[n]
	}
	return g
}

// NewStaticGraphView wrap slice milik caller tanpa copy. dipakai buat graph
// hasil load dari disk/mmap.
func NewStaticGraphView(firstEdge, targets []int32, edgeData []datastructure.ContractorEdgeData) *StaticGraph {
	if len(firstEdge) == 0 || int(firstEdge[len(firstEdge)-1]) != len(targets) || len(targets) != len(edgeData) {
		panic("NewStaticGraphView: csr arrays are inconsistent")
	}
	return &StaticGraph{firstEdge: firstEdge, targets: targets, edgeData: edgeData}
}

func (g *StaticGraph) NumNodes() int32 {
	return int32(len(g.firstEdge) - 1)
}

func (g *StaticGraph) NumEdges() int32 {
	return int32(len(g.targets))
}

func (g *StaticGraph) Target(edgeID int32) int32 {
	return g.targets[edgeID]
}

func (g *StaticGraph) EdgeData(edgeID int32) *datastructure.ContractorEdgeData {
	return &g.edgeData[edgeID]
}

func (g *StaticGraph) AdjacentEdges(nodeID int32) EdgeIterator {
	return EdgeIterator{curr: g.firstEdge[nodeID], last: g.firstEdge[nodeID+1]}
}

// Arrays expose csr array mentah buat serialisasi. jangan dimutasi.
func (g *StaticGraph) Arrays() ([]int32, []int32, []datastructure.ContractorEdgeData) {
	return g.firstEdge, g.targets, g.edgeData
}

// Renumber remap node id pakai permutation oldToNew dan susun ulang csr.
// edge id ikut berubah (posisi baru), external filter array HARUS dibangun
// ulang sama caller, gak di-permute otomatis di sini.
func (g *StaticGraph) Renumber(oldToNew []int32) {
	numNodes := g.NumNodes()
	if len(oldToNew) != int(numNodes) {
		panic(fmt.Sprintf("Renumber: permutation length %d != node count %d", len(oldToNew), numNodes))
	}

	newToOld := make([]int32, numNodes)
	for oldID, newID := range oldToNew {
		newToOld[newID] = int32(oldID)
	}

	newFirst := make([]int32, numNodes+1)
	newTargets := make([]int32, len(g.targets))
	newData := make([]datastructure.ContractorEdgeData, len(g.edgeData))
	edgeOldToNew := make([]int32, len(g.targets))

	pos := int32(0)
	for newID := int32(0); newID < numNodes; newID++ {
		oldID := newToOld[newID]
		newFirst[newID] = pos
		for e := g.firstEdge[oldID]; e < g.firstEdge[oldID+1]; e++ {
			newTargets[pos] = oldToNew[g.targets[e]]
			newData[pos] = g.edgeData[e]
			edgeOldToNew[e] = pos
			pos++
		}
	}
	newFirst[numNodes] = pos

	// reference shortcut ke edge yang direplace ikut id baru
	for i := range newData {
		if newData[i].ReplacedEdgeOne != datastructure.InvalidEdgeID {
			newData[i].ReplacedEdgeOne = edgeOldToNew[newData[i].ReplacedEdgeOne]
		}
		if newData[i].ReplacedEdgeTwo != datastructure.InvalidEdgeID {
			newData[i].ReplacedEdgeTwo = edgeOldToNew[newData[i].ReplacedEdgeTwo]
		}
	}

	g.firstEdge = newFirst
	g.targets = newTargets
	g.edgeData = newData
}
