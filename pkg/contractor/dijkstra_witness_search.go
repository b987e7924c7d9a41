package contractor

import (
	"github.com/GaryJin/osrm-backend/pkg/datastructure"
)

/*
witnessSearch
misal kita kontraksi node v (ignoreNode), kita harus cari path dari node u ke w
yang meng-ignore node v, dimana u adalah salah satu node dengan edge (u,v) \in E
dan w salah satu node dengan edge (v,w) \in E. node yang udah dikontraksi gak
perlu di-skip manual, incident edge-nya udah invisible di filtered graph.

search dihentikan kalau cost current node > acceptedWeight (gak mungkin ada
witness lagi), kalau cost ke target <= acceptedWeight (witness ketemu, gak harus
yang shortest), atau kalau udah settle maxSettledNodes node. return
InvalidEdgeWeight kalau gak ketemu path sama sekali, caller tinggal compare
hasilnya dengan weight shortcut kandidat.
*/
func (c *GraphContractor) witnessSearch(source, target, ignoreNode int32,
	acceptedWeight datastructure.EdgeWeight, maxSettledNodes int,
	pMax datastructure.EdgeWeight) datastructure.EdgeWeight {

	visited := make(map[int32]bool)
	cost := map[int32]datastructure.EdgeWeight{source: 0}

	pq := datastructure.NewMinHeap[int32]()
	pq.Insert(datastructure.NewPriorityQueueNode(0, source))

	settledNodes := 0
	for settledNodes < maxSettledNodes && pq.Size() > 0 {
		smallest, _ := pq.GetMin()
		if datastructure.EdgeWeight(smallest.Rank) > acceptedWeight {
			break
		}

		if targetCost, ok := cost[target]; ok && targetCost <= acceptedWeight {
			// ketemu path ke target, bukan yang shortest, tapi costnya
			// <= acceptedWeight, cukup buat jadi witness
			return targetCost
		}

		curr, _ := pq.ExtractMin()
		u := curr.Item

		if u == target {
			// shortest path ke target ketemu
			return cost[u]
		}

		if datastructure.EdgeWeight(curr.Rank) > pMax {
			// cost current node > maximum cost path lewat v, stop search
			break
		}

		visited[u] = true
		it := c.g.AdjacentEdges(u)
		for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
			data := c.g.EdgeData(edgeID)
			if !data.Forward {
				continue
			}
			v := c.g.Target(edgeID)
			if visited[v] || v == ignoreNode {
				continue
			}

			newCost := datastructure.AddWeight(cost[u], data.Weight)

			oldCost, seen := cost[v]
			if !seen {
				cost[v] = newCost
				pq.Insert(datastructure.NewPriorityQueueNode(float64(newCost), v))
			} else if newCost < oldCost {
				cost[v] = newCost
				pq.DecreaseKey(datastructure.NewPriorityQueueNode(float64(newCost), v))
			}
		}

		settledNodes++
	}

	if targetCost, ok := cost[target]; ok {
		return targetCost
	}
	return datastructure.InvalidEdgeWeight
}
