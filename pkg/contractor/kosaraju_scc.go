package contractor

import (
	"log"

	"github.com/GaryJin/osrm-backend/pkg/graph"
	"github.com/GaryJin/osrm-backend/pkg/util"
)

// StronglyConnectedComponents kosaraju dua pass: dfs forward buat finish
// order, dfs di reverse graph urut finish order kebalik. reverse graph gak
// perlu dibangun: record dengan flag Backward di adjacency node b adalah
// edge masuk ke b.
func StronglyConnectedComponents(g graph.Graph) [][]int32 {
	n := g.NumNodes()

	order := make([]int32, 0, n)
	visited := make([]bool, n)
	for v := int32(0); v < n; v++ {
		if !visited[v] {
			sccDFS(g, v, &order, visited, false)
		}
	}

	order = util.ReverseG(order)
	visited = make([]bool, n)

	components := make([][]int32, 0)
	for _, v := range order {
		if !visited[v] {
			component := make([]int32, 0)
			sccDFS(g, v, &component, visited, true)
			components = append(components, component)
		}
	}

	log.Printf("strongly connected components count: %d", len(components))
	return components
}

func sccDFS(g graph.Graph, v int32, output *[]int32, visited []bool, reversed bool) {
	visited[v] = true

	it := g.AdjacentEdges(v)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		data := g.EdgeData(edgeID)
		if (!reversed && !data.Forward) || (reversed && !data.Backward) {
			continue
		}
		to := g.Target(edgeID)
		if !visited[to] {
			sccDFS(g, to, output, visited, reversed)
		}
	}
	*output = append(*output, v)
}

// LargestComponentFilter flag per node: true kalau node bagian dari scc
// terbesar. extract osm yang kepotong di pinggir biasanya ninggalin banyak
// komponen kecil, node-nodenya di-exclude aja dari kontraksi daripada
// ngotorin core.
func LargestComponentFilter(g graph.Graph) []bool {
	inLargest := make([]bool, g.NumNodes())

	components := StronglyConnectedComponents(g)
	if len(components) == 0 {
		return inLargest
	}

	largest := 0
	for i, component := range components {
		if len(component) > len(components[largest]) {
			largest = i
		}
	}
	for _, v := range components[largest] {
		inLargest[v] = true
	}
	return inLargest
}
