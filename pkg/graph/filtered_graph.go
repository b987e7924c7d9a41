package graph

import (
	"fmt"

	"github.com/GaryJin/osrm-backend/pkg/datastructure"
)

// FilteredDynamicGraph logical subgraph di atas DynamicGraph. visibility bit
// disimpan di record edge-nya langsung (lihat dynamicEdge), karena edge id
// mutable store gak stabil (external bit array bakal ke-invalidate tiap ada
// insert).
//
// ini yang bikin "mark node contracted" jadi "hide semua incident edge-nya"
// tanpa delete apa-apa: HideNode tinggal clear bit.
type FilteredDynamicGraph struct {
	g *DynamicGraph
}

// NewFilteredDynamicGraph bangun view dari node predicate: edge visible iff
// predicate-nya true buat source DAN target.
func NewFilteredDynamicGraph(g *DynamicGraph, nodeFilter func(nodeID int32) bool) *FilteredDynamicGraph {
	for node := int32(0); node < g.NumNodes(); node++ {
		validSource := nodeFilter(node)
		for _, edgeID := range g.adjacency[node] {
			g.edges[edgeID].visible = validSource && nodeFilter(g.edges[edgeID].target)
		}
	}
	return &FilteredDynamicGraph{g: g}
}

func (fg *FilteredDynamicGraph) NumNodes() int32 {
	return fg.g.NumNodes()
}

func (fg *FilteredDynamicGraph) NumEdges() int32 {
	return fg.g.NumEdges()
}

func (fg *FilteredDynamicGraph) EdgeVisible(edgeID int32) bool {
	return fg.g.edges[edgeID].visible
}

// Degree jumlah incident edge yang visible. dihitung lazy, gak dicache.
func (fg *FilteredDynamicGraph) Degree(nodeID int32) int32 {
	degree := int32(0)
	for _, edgeID := range fg.g.adjacency[nodeID] {
		if fg.g.edges[edgeID].visible {
			degree++
		}
	}
	return degree
}

func (fg *FilteredDynamicGraph) Target(edgeID int32) int32 {
	fg.assertVisible(edgeID)
	return fg.g.Target(edgeID)
}

func (fg *FilteredDynamicGraph) EdgeData(edgeID int32) *datastructure.ContractorEdgeData {
	fg.assertVisible(edgeID)
	return fg.g.EdgeData(edgeID)
}

func (fg *FilteredDynamicGraph) AdjacentEdges(nodeID int32) EdgeIterator {
	return EdgeIterator{ids: fg.g.adjacency[nodeID], filter: fg.EdgeVisible}
}

// FindEdge linear scan di adjacency from, return edge visible pertama ke to
// atau InvalidEdgeID.
func (fg *FilteredDynamicGraph) FindEdge(from, to int32) int32 {
	it := fg.AdjacentEdges(from)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		if fg.g.Target(edgeID) == to {
			return edgeID
		}
	}
	return datastructure.InvalidEdgeID
}

func (fg *FilteredDynamicGraph) FindEdgeInEitherDirection(from, to int32) int32 {
	if edgeID := fg.FindEdge(from, to); edgeID != datastructure.InvalidEdgeID {
		return edgeID
	}
	return fg.FindEdge(to, from)
}

// FindEdgeIndicateIfReverse kayak FindEdgeInEitherDirection, plus ngasih tau
// apakah yang ketemu arah kebalikannya.
func (fg *FilteredDynamicGraph) FindEdgeIndicateIfReverse(from, to int32) (int32, bool) {
	if edgeID := fg.FindEdge(from, to); edgeID != datastructure.InvalidEdgeID {
		return edgeID, false
	}
	if edgeID := fg.FindEdge(to, from); edgeID != datastructure.InvalidEdgeID {
		return edgeID, true
	}
	return datastructure.InvalidEdgeID, false
}

// FindSmallestEdge cari edge paralel from->to yang visible, lolos predicate
// caller, dan weight-nya minimum. dipakai buat deteksi shortcut redundant.
func (fg *FilteredDynamicGraph) FindSmallestEdge(from, to int32,
	filter func(data *datastructure.ContractorEdgeData) bool) int32 {

	smallestEdge := datastructure.InvalidEdgeID
	smallestWeight := datastructure.InvalidEdgeWeight
	it := fg.AdjacentEdges(from)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		data := fg.g.EdgeData(edgeID)
		if fg.g.Target(edgeID) == to && data.Weight < smallestWeight && filter(data) {
			smallestEdge = edgeID
			smallestWeight = data.Weight
		}
	}
	return smallestEdge
}

// InsertEdge pass-through ke store. edge baru langsung visible.
func (fg *FilteredDynamicGraph) InsertEdge(from, to int32, data datastructure.ContractorEdgeData) int32 {
	return fg.g.InsertEdge(from, to, data)
}

// HideNode clear visibility semua incident edge dari node, dua arah: record
// di adjacency node sendiri dan record pasangannya di adjacency neighbor.
func (fg *FilteredDynamicGraph) HideNode(nodeID int32) {
	for _, edgeID := range fg.g.adjacency[nodeID] {
		if !fg.g.edges[edgeID].visible {
			continue
		}
		neighbor := fg.g.edges[edgeID].target
		fg.g.edges[edgeID].visible = false
		for _, reverseID := range fg.g.adjacency[neighbor] {
			if fg.g.edges[reverseID].target == nodeID {
				fg.g.edges[reverseID].visible = false
			}
		}
	}
}

func (fg *FilteredDynamicGraph) Renumber(oldToNew []int32) {
	fg.g.Renumber(oldToNew)
}

// Freeze convert working graph jadi frozen csr + external filter array yang
// ke-map dari visibility bit. edge id di-renumber, reference ReplacedEdge
// ikut diremap, id cuma stabil di dalam satu representasi.
func (fg *FilteredDynamicGraph) Freeze() (*StaticGraph, []bool) {
	numNodes := fg.g.NumNodes()

	edgeOldToNew := make([]int32, len(fg.g.edges))
	edges := make([]InputEdge, 0, len(fg.g.edges))
	visible := make([]bool, 0, len(fg.g.edges))
	for node := int32(0); node < numNodes; node++ {
		for _, edgeID := range fg.g.adjacency[node] {
			record := fg.g.edges[edgeID]
			edgeOldToNew[edgeID] = int32(len(edges))
			edges = append(edges, InputEdge{From: node, To: record.target, Data: record.data})
			visible = append(visible, record.visible)
		}
	}

	// edges udah tersusun per node, NewStaticGraph stable sort jadi
	// urutan & id baru kejaga
	for i := range edges {
		if edges[i].Data.ReplacedEdgeOne != datastructure.InvalidEdgeID {
			edges[i].Data.ReplacedEdgeOne = edgeOldToNew[edges[i].Data.ReplacedEdgeOne]
		}
		if edges[i].Data.ReplacedEdgeTwo != datastructure.InvalidEdgeID {
			edges[i].Data.ReplacedEdgeTwo = edgeOldToNew[edges[i].Data.ReplacedEdgeTwo]
		}
	}

	return NewStaticGraph(numNodes, edges), visible
}

func (fg *FilteredDynamicGraph) assertVisible(edgeID int32) {
	if !fg.g.edges[edgeID].visible {
		panic(fmt.Sprintf("access to filtered-out edge %d", edgeID))
	}
}

// FilteredStaticGraph logical subgraph di atas StaticGraph. karena topology
// frozen, filternya bit array terpisah yang di-index edge id, murah buat
// dibangun ulang kalau mau ganti predicate tanpa nyentuh store-nya.
type FilteredStaticGraph struct {
	g          *StaticGraph
	edgeFilter []bool
}

// NewFilteredStaticGraph pakai filter array explicit. panjangnya harus sama
// dengan jumlah edge.
func NewFilteredStaticGraph(g *StaticGraph, edgeFilter []bool) *FilteredStaticGraph {
	if len(edgeFilter) != int(g.NumEdges()) {
		panic(fmt.Sprintf("edge filter length %d != edge count %d", len(edgeFilter), g.NumEdges()))
	}
	return &FilteredStaticGraph{g: g, edgeFilter: edgeFilter}
}

// NewFilteredStaticGraphFromPredicate materialize predicate per edge id jadi
// bit array.
func NewFilteredStaticGraphFromPredicate(g *StaticGraph, filter func(edgeID int32) bool) *FilteredStaticGraph {
	edgeFilter := make([]bool, g.NumEdges())
	for edgeID := int32(0); edgeID < g.NumEdges(); edgeID++ {
		edgeFilter[edgeID] = filter(edgeID)
	}
	return &FilteredStaticGraph{g: g, edgeFilter: edgeFilter}
}

// NewFilteredStaticGraphFromNodePredicate edge visible iff predicate true
// buat kedua endpoint-nya.
func NewFilteredStaticGraphFromNodePredicate(g *StaticGraph, nodeFilter func(nodeID int32) bool) *FilteredStaticGraph {
	edgeFilter := make([]bool, g.NumEdges())
	for node := int32(0); node < g.NumNodes(); node++ {
		validSource := nodeFilter(node)
		it := g.AdjacentEdges(node)
		for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
			edgeFilter[edgeID] = validSource && nodeFilter(g.Target(edgeID))
		}
	}
	return &FilteredStaticGraph{g: g, edgeFilter: edgeFilter}
}

func (fg *FilteredStaticGraph) NumNodes() int32 {
	return fg.g.NumNodes()
}

func (fg *FilteredStaticGraph) NumEdges() int32 {
	return fg.g.NumEdges()
}

func (fg *FilteredStaticGraph) EdgeVisible(edgeID int32) bool {
	return fg.edgeFilter[edgeID]
}

func (fg *FilteredStaticGraph) Degree(nodeID int32) int32 {
	degree := int32(0)
	it := fg.AdjacentEdges(nodeID)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		degree++
	}
	return degree
}

func (fg *FilteredStaticGraph) Target(edgeID int32) int32 {
	fg.assertVisible(edgeID)
	return fg.g.Target(edgeID)
}

func (fg *FilteredStaticGraph) EdgeData(edgeID int32) *datastructure.ContractorEdgeData {
	fg.assertVisible(edgeID)
	return fg.g.EdgeData(edgeID)
}

func (fg *FilteredStaticGraph) AdjacentEdges(nodeID int32) EdgeIterator {
	it := fg.g.AdjacentEdges(nodeID)
	it.filter = fg.EdgeVisible
	return it
}

func (fg *FilteredStaticGraph) FindEdge(from, to int32) int32 {
	it := fg.AdjacentEdges(from)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		if fg.g.Target(edgeID) == to {
			return edgeID
		}
	}
	return datastructure.InvalidEdgeID
}

func (fg *FilteredStaticGraph) FindEdgeInEitherDirection(from, to int32) int32 {
	if edgeID := fg.FindEdge(from, to); edgeID != datastructure.InvalidEdgeID {
		return edgeID
	}
	return fg.FindEdge(to, from)
}

func (fg *FilteredStaticGraph) FindEdgeIndicateIfReverse(from, to int32) (int32, bool) {
	if edgeID := fg.FindEdge(from, to); edgeID != datastructure.InvalidEdgeID {
		return edgeID, false
	}
	if edgeID := fg.FindEdge(to, from); edgeID != datastructure.InvalidEdgeID {
		return edgeID, true
	}
	return datastructure.InvalidEdgeID, false
}

func (fg *FilteredStaticGraph) FindSmallestEdge(from, to int32,
	filter func(data *datastructure.ContractorEdgeData) bool) int32 {

	smallestEdge := datastructure.InvalidEdgeID
	smallestWeight := datastructure.InvalidEdgeWeight
	it := fg.AdjacentEdges(from)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		data := fg.g.EdgeData(edgeID)
		if fg.g.Target(edgeID) == to && data.Weight < smallestWeight && filter(data) {
			smallestEdge = edgeID
			smallestWeight = data.Weight
		}
	}
	return smallestEdge
}

// Renumber forward ke store. filter array TIDAK ikut di-permute (permutasi
// edge beda sama permutasi node), caller yang harus bangun ulang filternya.
func (fg *FilteredStaticGraph) Renumber(oldToNew []int32) {
	fg.g.Renumber(oldToNew)
}

func (fg *FilteredStaticGraph) assertVisible(edgeID int32) {
	if !fg.edgeFilter[edgeID] {
		panic(fmt.Sprintf("access to filtered-out edge %d", edgeID))
	}
}
