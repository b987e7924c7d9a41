package contractor

import (
	"testing"

	"github.com/GaryJin/osrm-backend/pkg/datastructure"
	"github.com/GaryJin/osrm-backend/pkg/graph"
	"github.com/stretchr/testify/assert"
)

// insertBidirectional dua koneksi searah = empat record, satu pasang per arah.
func insertBidirectional(g *graph.DynamicGraph, u, v int32, weight datastructure.EdgeWeight) {
	duration := datastructure.EdgeDuration(weight) * 100
	g.InsertEdge(u, v, datastructure.NewContractorEdgeData(weight, duration, true, true))
	g.InsertEdge(v, u, datastructure.NewContractorEdgeData(weight, duration, true, true))
}

func insertDirected(g *graph.DynamicGraph, u, v int32, weight datastructure.EdgeWeight) {
	duration := datastructure.EdgeDuration(weight) * 100
	g.InsertEdge(u, v, datastructure.NewContractorEdgeData(weight, duration, true, false))
	g.InsertEdge(v, u, datastructure.NewContractorEdgeData(weight, duration, false, true))
}

// findRecord record pertama from->to yang lolos filter, diliat dari store
// mentah (visibility diabaikan).
func findRecord(g *graph.DynamicGraph, from, to int32,
	filter func(data *datastructure.ContractorEdgeData) bool) int32 {

	it := g.AdjacentEdges(from)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		if g.Target(edgeID) == to && filter(g.EdgeData(edgeID)) {
			return edgeID
		}
	}
	return datastructure.InvalidEdgeID
}

func countShortcuts(g *graph.DynamicGraph) int {
	count := 0
	for edgeID := int32(0); edgeID < g.NumEdges(); edgeID++ {
		if g.EdgeData(edgeID).Shortcut {
			count++
		}
	}
	return count
}

/*
	0 --5--> 1 --5--> 2

node 1 satu-satunya through node, dikontraksi duluan, dan kontraksinya harus
ninggalin shortcut 0->2 weight 10.
*/
func TestContractMiddleNodeCreatesShortcut(t *testing.T) {
	g := graph.NewDynamicGraph(3)
	insertDirected(g, 0, 1, 5) // record 0, 1
	insertDirected(g, 1, 2, 5) // record 2, 3

	levels, isCore := ContractFromScratch(g, nil, 1.0)

	assert.Equal(t, 3, len(levels))
	assert.Equal(t, 3, len(isCore))
	for node := 0; node < 3; node++ {
		assert.False(t, isCore[node])
	}

	// node 1 kontraksi duluan, level dia paling rendah
	assert.Less(t, levels[1], levels[0])
	assert.Less(t, levels[1], levels[2])

	// shortcut forward 0->2 dan record backward pasangannya
	forward := findRecord(g, 0, 2, func(data *datastructure.ContractorEdgeData) bool { return data.Shortcut })
	assert.NotEqual(t, datastructure.InvalidEdgeID, forward)
	data := g.EdgeData(forward)
	assert.Equal(t, datastructure.EdgeWeight(10), data.Weight)
	assert.Equal(t, datastructure.EdgeDuration(1000), data.Duration)
	assert.Equal(t, int32(2), data.OriginalEdges)
	assert.True(t, data.Forward)
	assert.False(t, data.Backward)
	// reference ke dua record yang direplace: record masuk (1->0 backward)
	// dan record keluar (1->2 forward)
	assert.Equal(t, int32(1), data.ReplacedEdgeOne)
	assert.Equal(t, int32(2), data.ReplacedEdgeTwo)

	backward := findRecord(g, 2, 0, func(data *datastructure.ContractorEdgeData) bool { return data.Shortcut })
	assert.NotEqual(t, datastructure.InvalidEdgeID, backward)
	assert.True(t, g.EdgeData(backward).Backward)
	assert.False(t, g.EdgeData(backward).Forward)

	assert.Equal(t, 2, countShortcuts(g))
}

/*
	0 --5--> 1 --5--> 2
	 \               ^
	  \------8------/

udah ada witness 0->2 weight 8 < 10, kontraksi node 1 gak boleh nambahin
shortcut dan edge 0->2 yang lama gak berubah.
*/
func TestContractWithWitnessSkipsShortcut(t *testing.T) {
	g := graph.NewDynamicGraph(3)
	insertDirected(g, 0, 1, 5)
	insertDirected(g, 1, 2, 5)
	insertDirected(g, 0, 2, 8)

	numEdgesBefore := g.NumEdges()
	ContractFromScratch(g, nil, 1.0)

	assert.Equal(t, numEdgesBefore, g.NumEdges())
	assert.Equal(t, 0, countShortcuts(g))

	direct := findRecord(g, 0, 2, func(data *datastructure.ContractorEdgeData) bool { return data.Forward })
	assert.NotEqual(t, datastructure.InvalidEdgeID, direct)
	assert.Equal(t, datastructure.EdgeWeight(8), g.EdgeData(direct).Weight)
	assert.False(t, g.EdgeData(direct).Shortcut)
}

// node non-contractable gak pernah dikontraksi, gak ditandai core, dan level
// cache-nya kebawa apa adanya.
func TestContractNonContractableNode(t *testing.T) {
	g := graph.NewDynamicGraph(3)
	insertDirected(g, 0, 1, 5)
	insertDirected(g, 1, 2, 5)

	cached := []float64{7, 7, 7}
	levels, isCore := ContractGraph(g, []bool{true, false, true}, cached, nil, 1.0)

	assert.Equal(t, 7.0, levels[1])
	assert.False(t, isCore[1])

	// node 0 dan 2 kekontraksi semua (coreFactor 1.0)
	assert.False(t, isCore[0])
	assert.False(t, isCore[2])

	// kontraksi endpoint gak butuh shortcut
	assert.Equal(t, 0, countShortcuts(g))
}

/*
	0 <--1--> 1 <--1--> 2 <--1--> 3 <--1--> 4

coreFactor 0.5: kontraksi berhenti begitu sisa node contractable tinggal
ceil((1-0.5)*5) = 3, jadi 2 dikontraksi dan 3 jadi core.
*/
func TestContractCoreFactorLeavesCore(t *testing.T) {
	buildPath := func() *graph.DynamicGraph {
		g := graph.NewDynamicGraph(5)
		for u := int32(0); u < 4; u++ {
			insertBidirectional(g, u, u+1, 1)
		}
		return g
	}

	g := buildPath()
	_, isCore := ContractFromScratch(g, nil, 0.5)

	coreCount := 0
	for _, core := range isCore {
		if core {
			coreCount++
		}
	}
	assert.Equal(t, 3, coreCount)

	// coreFactor 1.0 gak nyisain core sama sekali
	g = buildPath()
	_, isCore = ContractFromScratch(g, nil, 1.0)
	for node, core := range isCore {
		assert.False(t, core, "node %d should not be core", node)
	}
}

func TestContractInvalidArgumentsPanic(t *testing.T) {
	g := graph.NewDynamicGraph(2)
	insertBidirectional(g, 0, 1, 1)

	assert.Panics(t, func() { ContractFromScratch(g, nil, 0.0) })
	assert.Panics(t, func() { ContractFromScratch(g, nil, 1.5) })
	assert.Panics(t, func() { ContractGraph(g, []bool{true}, nil, nil, 1.0) })
	assert.Panics(t, func() { ContractGraph(g, nil, []float64{1}, nil, 1.0) })
	assert.Panics(t, func() { ContractGraph(g, nil, nil, []datastructure.EdgeWeight{1}, 1.0) })
}

func TestContractEmptyGraph(t *testing.T) {
	g := graph.NewDynamicGraph(0)
	levels, isCore := ContractFromScratch(g, nil, 1.0)
	assert.Empty(t, levels)
	assert.Empty(t, isCore)

	g = graph.NewDynamicGraph(1)
	levels, isCore = ContractFromScratch(g, nil, 1.0)
	assert.Equal(t, []float64{0}, levels)
	assert.False(t, isCore[0])
}

// dijkstraAllRecords shortest path biasa di atas store mentah (visibility
// diabaikan), shortcut ikut dipakai kalau includeShortcuts.
func dijkstraAllRecords(g *graph.DynamicGraph, source int32, includeShortcuts bool) map[int32]datastructure.EdgeWeight {
	dist := map[int32]datastructure.EdgeWeight{source: 0}
	pq := datastructure.NewMinHeap[int32]()
	pq.Insert(datastructure.NewPriorityQueueNode(0, source))
	visited := make(map[int32]bool)

	for pq.Size() > 0 {
		curr, _ := pq.ExtractMin()
		u := curr.Item
		if visited[u] {
			continue
		}
		visited[u] = true

		it := g.AdjacentEdges(u)
		for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
			data := g.EdgeData(edgeID)
			if !data.Forward {
				continue
			}
			if data.Shortcut && !includeShortcuts {
				continue
			}
			v := g.Target(edgeID)
			newDist := datastructure.AddWeight(dist[u], data.Weight)
			old, seen := dist[v]
			if !seen {
				dist[v] = newDist
				pq.Insert(datastructure.NewPriorityQueueNode(float64(newDist), v))
			} else if newDist < old {
				dist[v] = newDist
				pq.DecreaseKey(datastructure.NewPriorityQueueNode(float64(newDist), v))
			}
		}
	}
	return dist
}

/*
dari https://jlazarsfeld.github.io/ch.150.project/sections/8-contraction/
p=0, v=1, q=2, w=3, r=4

	 p
	  \
	   \
	    10
	     \
		  v -----3----- r
		 /            /
		6            5
	   /    		/
	  q ---5----- w

semua edge bidirectional. shortcut yang ditambahin kontraksi gak boleh
ngubah jarak antar pasangan node manapun.
*/
func TestContractPreservesShortestDistances(t *testing.T) {
	build := func() *graph.DynamicGraph {
		g := graph.NewDynamicGraph(5)
		insertBidirectional(g, 0, 1, 10)
		insertBidirectional(g, 1, 4, 3)
		insertBidirectional(g, 2, 1, 6)
		insertBidirectional(g, 2, 3, 5)
		insertBidirectional(g, 3, 4, 5)
		return g
	}

	original := build()
	contracted := build()
	ContractFromScratch(contracted, nil, 1.0)

	for source := int32(0); source < 5; source++ {
		want := dijkstraAllRecords(original, source, false)
		got := dijkstraAllRecords(contracted, source, true)
		for node := int32(0); node < 5; node++ {
			assert.Equal(t, want[node], got[node], "distance %d -> %d changed by contraction", source, node)
		}
	}
}

// hasil kontraksi harus bit-identical antar run, berapapun jumlah worker.
func TestContractDeterministic(t *testing.T) {
	build := func() *graph.DynamicGraph {
		g := graph.NewDynamicGraph(8)
		insertBidirectional(g, 0, 1, 4)
		insertBidirectional(g, 1, 2, 3)
		insertBidirectional(g, 2, 3, 7)
		insertBidirectional(g, 3, 4, 2)
		insertBidirectional(g, 4, 5, 9)
		insertBidirectional(g, 5, 0, 1)
		insertBidirectional(g, 1, 6, 5)
		insertBidirectional(g, 6, 7, 5)
		insertBidirectional(g, 7, 2, 5)
		insertDirected(g, 0, 4, 20)
		return g
	}

	gOne := build()
	levelsOne, coreOne := ContractFromScratch(gOne, nil, 0.75)

	gTwo := build()
	levelsTwo, coreTwo := ContractFromScratch(gTwo, nil, 0.75)

	assert.Equal(t, levelsOne, levelsTwo)
	assert.Equal(t, coreOne, coreTwo)
	assert.Equal(t, gOne.NumEdges(), gTwo.NumEdges())
	for edgeID := int32(0); edgeID < gOne.NumEdges(); edgeID++ {
		assert.Equal(t, gOne.Target(edgeID), gTwo.Target(edgeID))
		assert.Equal(t, *gOne.EdgeData(edgeID), *gTwo.EdgeData(edgeID))
	}
}

// node weight input misahin dua node yang secara struktur persis sama:
// yang weight-nya lebih gede dikontraksi belakangan.
func TestContractNodeWeightBias(t *testing.T) {
	build := func(weights []datastructure.EdgeWeight) ([]float64, []bool, *graph.DynamicGraph) {
		g := graph.NewDynamicGraph(4)
		insertBidirectional(g, 0, 1, 5)
		insertBidirectional(g, 1, 2, 5)
		insertBidirectional(g, 2, 3, 5)
		levels, isCore := ContractNodes(g, nil, weights, 1.0)
		return levels, isCore, g
	}

	// node 1 dan 2 simetris. tanpa weight node 1 menang tie-break id,
	// kasih node 1 weight gede -> node 2 duluan.
	levels, _, _ := build(nil)
	assert.Less(t, levels[1], levels[2])

	levels, _, _ = build([]datastructure.EdgeWeight{0, 5000, 0, 0})
	assert.Less(t, levels[2], levels[1])
}

func TestNodeOrderingPermutation(t *testing.T) {
	// level tinggi dapet id kecil, tie dipecahin pakai node id
	oldToNew := NodeOrderingPermutation([]float64{0, 2, 1, 2})

	// urutan descending: node 1 (2), node 3 (2), node 2 (1), node 0 (0)
	assert.Equal(t, []int32{3, 0, 2, 1}, oldToNew)
}
