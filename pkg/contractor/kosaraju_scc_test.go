package contractor

import (
	"testing"

	"github.com/GaryJin/osrm-backend/pkg/graph"
	"github.com/stretchr/testify/assert"
)

/*
	0 -> 1 -> 2 <-> 3
	^    |
	|    v
	+--- 4

dua scc: {0, 1, 4} dan {2, 3}.
*/
func sccTestGraph() *graph.DynamicGraph {
	g := graph.NewDynamicGraph(5)
	insertDirected(g, 0, 1, 1)
	insertDirected(g, 1, 2, 1)
	insertDirected(g, 1, 4, 1)
	insertDirected(g, 2, 3, 1)
	insertDirected(g, 3, 2, 1)
	insertDirected(g, 4, 0, 1)
	return g
}

func TestKosarajuSCC(t *testing.T) {
	fg := graph.NewFilteredDynamicGraph(sccTestGraph(), func(int32) bool { return true })

	scc := StronglyConnectedComponents(fg)
	assert.Equal(t, 2, len(scc))
	assert.Equal(t, 3, len(scc[0]))
	assert.Equal(t, 2, len(scc[1]))

	assert.ElementsMatch(t, []int32{0, 1, 4}, scc[0])
	assert.ElementsMatch(t, []int32{2, 3}, scc[1])
}

func TestLargestComponentFilter(t *testing.T) {
	fg := graph.NewFilteredDynamicGraph(sccTestGraph(), func(int32) bool { return true })

	inLargest := LargestComponentFilter(fg)
	assert.Equal(t, []bool{true, true, false, false, true}, inLargest)
}

// komponen kecil di-exclude dari view dan gak contractable: gak pernah
// dikontraksi, gak ditandai core, dan gak pernah dilewatin witness search.
func TestContractLargestComponentOnly(t *testing.T) {
	g := graph.NewDynamicGraph(5)
	insertBidirectional(g, 0, 1, 5)
	insertBidirectional(g, 1, 2, 5)
	// komponen kedua kepisah
	insertBidirectional(g, 3, 4, 5)

	view := graph.NewFilteredDynamicGraph(g, func(int32) bool { return true })
	inLargest := LargestComponentFilter(view)
	assert.Equal(t, []bool{true, true, true, false, false}, inLargest)

	fg := graph.NewFilteredDynamicGraph(g, func(nodeID int32) bool { return inLargest[nodeID] })
	levels, isCore := ContractFilteredGraph(fg, inLargest, nil, nil, 1.0)

	assert.Equal(t, 5, len(levels))
	for node := 0; node < 5; node++ {
		assert.False(t, isCore[node])
	}
	// node di luar komponen terbesar gak dapet level
	assert.Equal(t, 0.0, levels[3])
	assert.Equal(t, 0.0, levels[4])
}
