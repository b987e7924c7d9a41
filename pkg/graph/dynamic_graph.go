package graph

import (
	"fmt"

	"github.com/GaryJin/osrm-backend/pkg/datastructure"
)

// dynamicEdge record edge di mutable store. visibility bit nempel di record
// (bukan array terpisah) karena edge id dynamic graph gak stabil kalau ada
// insert/remove, jadi bitnya harus ikut pindah bareng edge-nya.
type dynamicEdge struct {
	target  int32
	data    datastructure.ContractorEdgeData
	visible bool
}

// DynamicGraph directed multigraph yang structurally mutable. dipakai
// exclusive sama contractor selama satu run: shortcut di-insert, edge
// di-"remove" secara logical dengan clear visibility (id yang direference
// shortcut tetap valid).
type DynamicGraph struct {
	adjacency [][]int32
	edges     []dynamicEdge
}

func NewDynamicGraph(numNodes int32) *DynamicGraph {
	return &DynamicGraph{
		adjacency: make([][]int32, numNodes),
		edges:     make([]dynamicEdge, 0),
	}
}

// NewDynamicGraphFromEdges bangun mutable store dari edge list. urutan edges
// nentuin urutan adjacency per node.
func NewDynamicGraphFromEdges(numNodes int32, edges []InputEdge) *DynamicGraph {
	g := NewDynamicGraph(numNodes)
	for _, edge := range edges {
		g.InsertEdge(edge.From, edge.To, edge.Data)
	}
	return g
}

func (g *DynamicGraph) NumNodes() int32 {
	return int32(len(g.adjacency))
}

func (g *DynamicGraph) NumEdges() int32 {
	return int32(len(g.edges))
}

func (g *DynamicGraph) Target(edgeID int32) int32 {
	return g.edges[edgeID].target
}

func (g *DynamicGraph) EdgeData(edgeID int32) *datastructure.ContractorEdgeData {
	return &g.edges[edgeID].data
}

func (g *DynamicGraph) AdjacentEdges(nodeID int32) EdgeIterator {
	return EdgeIterator{ids: g.adjacency[nodeID]}
}

// InsertEdge append edge baru ke adjacency list from. return edge id-nya.
// edge baru selalu visible sampai ada predicate yang nge-hide dia.
func (g *DynamicGraph) InsertEdge(from, to int32, data datastructure.ContractorEdgeData) int32 {
	if from < 0 || from >= g.NumNodes() || to < 0 || to >= g.NumNodes() {
		panic(fmt.Sprintf("InsertEdge: node id out of range: %d -> %d (numNodes %d)", from, to, g.NumNodes()))
	}
	edgeID := int32(len(g.edges))
	g.edges = append(g.edges, dynamicEdge{target: to, data: data, visible: true})
	g.adjacency[from] = append(g.adjacency[from], edgeID)
	return edgeID
}

// Renumber remap node id in place pakai permutation oldToNew. edge id gak
// berubah (id = posisi di edge slice), jadi visibility bit dan reference
// ReplacedEdge tetap valid.
func (g *DynamicGraph) Renumber(oldToNew []int32) {
	if len(oldToNew) != int(g.NumNodes()) {
		panic(fmt.Sprintf("Renumber: permutation length %d != node count %d", len(oldToNew), g.NumNodes()))
	}
	newAdjacency := make([][]int32, len(g.adjacency))
	for oldID, edges := range g.adjacency {
		newAdjacency[oldToNew[oldID]] = edges
	}
	g.adjacency = newAdjacency
	for i := range g.edges {
		g.edges[i].target = oldToNew[g.edges[i].target]
	}
}
