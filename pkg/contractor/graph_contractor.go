package contractor

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/GaryJin/osrm-backend/pkg/concurrent"
	"github.com/GaryJin/osrm-backend/pkg/datastructure"
	"github.com/GaryJin/osrm-backend/pkg/graph"
	"github.com/GaryJin/osrm-backend/pkg/util"
)

const (
	maxPollFactorHeuristic   = 5
	maxPollFactorContraction = 200

	// bias kecil dari node weight input (misal penalty traffic light),
	// cuma kepake buat misahin node yang struktur graphnya sama.
	nodeWeightPriorityFactor = 0.001
)

// GraphContractor jalanin satu run kontraksi di atas filtered view dari
// mutable store. store-nya exclusively owned selama run: shortcut di-insert,
// node yang udah dikontraksi di-hide dari view.
type GraphContractor struct {
	g           *graph.FilteredDynamicGraph
	nodeWeights []datastructure.EdgeWeight

	contractable []bool
	contracted   []bool
	// round dimana node kepilih buat dikontraksi, -1 = belum. dipakai buat
	// independent-set gating: node ditunda kalau ada neighbor yang udah
	// kepilih di round yang sama.
	selectedRound []int32
	// jumlah neighbor yang udah dikontraksi, secondary term di priority
	contractedNeighbors []int32

	// depth[b]+1 dipropagate ke neighbor pas b dikontraksi; level(b) =
	// depth(b). neighbor yang dikontraksi belakangan dijamin levelnya
	// strictly lebih tinggi.
	depth  []float64
	levels []float64
	isCore []bool

	meanDegree     float64
	shortcutsCount int64
	numWorkers     int
}

type shortcutCandidate struct {
	from, to        int32
	weight          datastructure.EdgeWeight
	duration        datastructure.EdgeDuration
	replacedEdgeOne int32
	replacedEdgeTwo int32
	originalEdges   int32
}

type contractionResult struct {
	node          int32
	shortcuts     []shortcutCandidate
	degree        int32 // jumlah incident record yang visible
	originalEdges int32
}

/*
ContractGraph kontraksi mutable store jadi contraction hierarchy.

node dikontraksi satu-satu urut priority (edge difference heuristic, yang
paling kecil duluan), tiap kontraksi nge-hide incident edge node-nya dari view
dan nambahin shortcut antar neighbor supaya jarak semua pasangan node tetap
kejaga. output-nya level per node (monotonic dengan urutan kontraksi) dan flag
core buat node yang sengaja disisain uncontracted.

  - nodeIsContractable nil/empty = semua node boleh dikontraksi. node yang
    false gak pernah dikontraksi, gak pernah ditandai core, dan levelnya tetap
    dari cachedNodeLevels.
  - cachedNodeLevels nil/empty = semua mulai dari 0. dipakai buat incremental
    rebuild, level dari hierarchy sebelumnya jadi seed.
  - nodeWeights nil/empty = semua 0.
  - coreFactor di (0, 1]: kontraksi berhenti begitu sisa node contractable
    yang uncontracted <= ceil((1-coreFactor) * jumlah awal). sisanya ditandai
    core. coreFactor 1.0 = gak ada core.

semua slice argument yang non-empty panjangnya harus = jumlah node, salah
panjang = programmer error dan langsung panic. buat input yang sama hasilnya
bit-identical, berapapun jumlah worker.
*/
func ContractGraph(g *graph.DynamicGraph, nodeIsContractable []bool, cachedNodeLevels []float64,
	nodeWeights []datastructure.EdgeWeight, coreFactor float64) ([]float64, []bool) {

	fg := graph.NewFilteredDynamicGraph(g, func(int32) bool { return true })
	return ContractFilteredGraph(fg, nodeIsContractable, cachedNodeLevels, nodeWeights, coreFactor)
}

// ContractNodes convenience form: tanpa cache level, node yang boleh
// dikontraksi dibatasi nodeIsContractable.
func ContractNodes(g *graph.DynamicGraph, nodeIsContractable []bool,
	nodeWeights []datastructure.EdgeWeight, coreFactor float64) ([]float64, []bool) {

	return ContractGraph(g, nodeIsContractable, nil, nodeWeights, coreFactor)
}

// ContractFromScratch convenience form: semua node contractable, tanpa cache
// level.
func ContractFromScratch(g *graph.DynamicGraph, nodeWeights []datastructure.EdgeWeight,
	coreFactor float64) ([]float64, []bool) {

	return ContractGraph(g, nil, nil, nodeWeights, coreFactor)
}

// ContractFilteredGraph kayak ContractGraph tapi di atas view yang udah
// difilter caller (misal kontraksi ulang core graph dengan exclude filter).
func ContractFilteredGraph(fg *graph.FilteredDynamicGraph, nodeIsContractable []bool,
	cachedNodeLevels []float64, nodeWeights []datastructure.EdgeWeight,
	coreFactor float64) ([]float64, []bool) {

	c := newGraphContractor(fg, nodeIsContractable, cachedNodeLevels, nodeWeights, coreFactor)
	c.run(coreFactor)
	return c.levels, c.isCore
}

func newGraphContractor(fg *graph.FilteredDynamicGraph, nodeIsContractable []bool,
	cachedNodeLevels []float64, nodeWeights []datastructure.EdgeWeight,
	coreFactor float64) *GraphContractor {

	if coreFactor <= 0 || coreFactor > 1.0 {
		panic(fmt.Sprintf("core factor must be in (0.0, 1.0], got %v", coreFactor))
	}

	numNodes := int(fg.NumNodes())
	assertLen := func(name string, length int) {
		if length != 0 && length != numNodes {
			panic(fmt.Sprintf("%s length %d != node count %d", name, length, numNodes))
		}
	}
	assertLen("nodeIsContractable", len(nodeIsContractable))
	assertLen("cachedNodeLevels", len(cachedNodeLevels))
	assertLen("nodeWeights", len(nodeWeights))

	c := &GraphContractor{
		g:                   fg,
		nodeWeights:         nodeWeights,
		contractable:        make([]bool, numNodes),
		contracted:          make([]bool, numNodes),
		selectedRound:       make([]int32, numNodes),
		contractedNeighbors: make([]int32, numNodes),
		depth:               make([]float64, numNodes),
		levels:              make([]float64, numNodes),
		isCore:              make([]bool, numNodes),
		numWorkers:          runtime.NumCPU(),
	}

	for node := 0; node < numNodes; node++ {
		c.contractable[node] = len(nodeIsContractable) == 0 || nodeIsContractable[node]
		c.selectedRound[node] = -1
		if len(cachedNodeLevels) != 0 {
			c.depth[node] = cachedNodeLevels[node]
			c.levels[node] = cachedNodeLevels[node]
		}
	}

	if numNodes > 0 {
		c.meanDegree = float64(fg.NumEdges()) / float64(numNodes)
	}
	return c
}

func (c *GraphContractor) run(coreFactor float64) {
	start := time.Now()
	numNodes := int(c.g.NumNodes())

	initialContractable := 0
	for node := 0; node < numNodes; node++ {
		if c.contractable[node] {
			initialContractable++
		}
	}
	coreTarget := int(math.Ceil((1.0 - coreFactor) * float64(initialContractable)))

	log.Printf("total nodes: %d (contractable: %d, core target: %d)", numNodes, initialContractable, coreTarget)
	log.Printf("total edge records: %d", c.g.NumEdges())

	pq := c.computeInitialPriorities()

	uncontracted := initialContractable
	round := int32(0)
	contractedCount := 0
	selected := make([]int32, 0, numNodes)
	deferred := make([]datastructure.PriorityQueueNode[int32], 0)

	for uncontracted > coreTarget && pq.Size() > 0 {
		selected = selected[:0]
		deferred = deferred[:0]

		// pilih independent set buat round ini. lazy update: priority node
		// yang di-pop dihitung ulang terhadap state graph sekarang, kalau
		// udah gak <= next best, balikin lagi ke queue.
		for pq.Size() > 0 && uncontracted-len(selected) > coreTarget {
			polled, _ := pq.ExtractMin()
			node := polled.Item

			priority := c.calculatePriority(node)
			if next, err := pq.GetMin(); err == nil && priority > next.Rank {
				pq.Insert(datastructure.NewPriorityQueueNode(priority, node))
				continue
			}

			if c.adjacentToSelected(node, round) {
				// ada neighbor yang udah kepilih di round ini, tunda ke
				// round berikutnya
				deferred = append(deferred, datastructure.NewPriorityQueueNode(priority, node))
				continue
			}

			c.selectedRound[node] = round
			selected = append(selected, node)
		}

		if len(selected) == 0 {
			break
		}

		// simulasi paralel (read only), barrier di Wait, baru apply serial
		// urut pemilihan: round k+1 gak mulai sebelum semua mutasi round k
		// kelihatan.
		results := c.simulateContractions(selected)
		for _, node := range selected {
			c.applyContraction(results[node])
			uncontracted--
			contractedCount++
			if contractedCount%10000 == 0 {
				log.Printf("contracting node: %d...", contractedCount)
			}
		}

		for _, node := range deferred {
			pq.Insert(node)
		}
		round++
	}

	// sisa node contractable yang gak kekontraksi = core
	for node := 0; node < numNodes; node++ {
		if c.contractable[node] && !c.contracted[node] {
			c.isCore[node] = true
		}
	}

	log.Printf("total shortcuts: %d, rounds: %d", c.shortcutsCount, round)
	log.Printf("time for contraction: %v minutes", util.RoundFloat(time.Since(start).Minutes(), 2))
}

// computeInitialPriorities simulasi kontraksi semua node contractable secara
// paralel, terus insert ke priority queue urut node id biar deterministik.
func (c *GraphContractor) computeInitialPriorities() *datastructure.MinHeap[int32] {
	numNodes := int(c.g.NumNodes())

	nodes := make([]int32, 0, numNodes)
	for node := int32(0); node < int32(numNodes); node++ {
		if c.contractable[node] {
			nodes = append(nodes, node)
		}
	}

	type nodePriority struct {
		node     int32
		priority float64
	}

	workers := concurrent.NewWorkerPool[int32, nodePriority](c.numWorkers, len(nodes))
	for _, node := range nodes {
		workers.AddJob(node)
	}
	workers.Close()
	workers.Start(func(node int32) nodePriority {
		return nodePriority{node: node, priority: c.calculatePriority(node)}
	})
	workers.Wait()

	priorities := make([]float64, numNodes)
	for item := range workers.CollectResults() {
		priorities[item.node] = item.priority
	}

	pq := datastructure.NewMinHeap[int32]()
	for _, node := range nodes {
		pq.Insert(datastructure.NewPriorityQueueNode(priorities[node], node))
	}
	log.Printf("initial node ordering done (%d nodes)", len(nodes))
	return pq
}

// adjacentToSelected true kalau node punya neighbor visible yang udah kepilih
// di round yang sama. dua node yang dikontraksi bareng gak boleh share edge.
func (c *GraphContractor) adjacentToSelected(node, round int32) bool {
	it := c.g.AdjacentEdges(node)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		if c.selectedRound[c.g.Target(edgeID)] == round {
			return true
		}
	}
	return false
}

func (c *GraphContractor) simulateContractions(selected []int32) map[int32]*contractionResult {
	maxSettledNodes := int(c.meanDegree * float64(maxPollFactorContraction))

	workers := concurrent.NewWorkerPool[int32, *contractionResult](c.numWorkers, len(selected))
	for _, node := range selected {
		workers.AddJob(node)
	}
	workers.Close()
	workers.Start(func(node int32) *contractionResult {
		return c.findShortcuts(node, maxSettledNodes)
	})
	workers.Wait()

	results := make(map[int32]*contractionResult, len(selected))
	for res := range workers.CollectResults() {
		results[res.node] = res
	}
	return results
}

/*
findShortcuts simulasi kontraksi node tanpa mutasi graph. buat tiap pasangan
neighbor masuk u dan neighbor keluar w (u != w, bukan self loop), cek apakah
path u->node->w masih shortest connection kalau node diilangin: kalau gak ada
witness path dengan cost <= c(u,node)+c(node,w), pasangan itu butuh shortcut.
*/
func (c *GraphContractor) findShortcuts(node int32, maxSettledNodes int) *contractionResult {
	res := &contractionResult{node: node}

	// pMax = max cost path u->node->w, upper bound buat witness search
	pInMax := datastructure.EdgeWeight(0)
	pOutMax := datastructure.EdgeWeight(0)
	it := c.g.AdjacentEdges(node)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		res.degree++
		data := c.g.EdgeData(edgeID)
		if data.Backward && data.Weight > pInMax {
			pInMax = data.Weight
		}
		if data.Forward && data.Weight > pOutMax {
			pOutMax = data.Weight
		}
	}
	pMax := datastructure.AddWeight(pInMax, pOutMax)

	inIt := c.g.AdjacentEdges(node)
	for inID, inOK := inIt.Next(); inOK; inID, inOK = inIt.Next() {
		inData := c.g.EdgeData(inID)
		if !inData.Backward {
			continue
		}
		from := c.g.Target(inID)
		if from == node {
			// self loop gak menghasilkan shortcut
			continue
		}

		outIt := c.g.AdjacentEdges(node)
		for outID, outOK := outIt.Next(); outOK; outID, outOK = outIt.Next() {
			outData := c.g.EdgeData(outID)
			if !outData.Forward {
				continue
			}
			to := c.g.Target(outID)
			if to == node || to == from {
				// gak perlu witness dari node balik ke node itu lagi
				continue
			}

			directWeight := datastructure.AddWeight(inData.Weight, outData.Weight)

			witnessWeight := c.witnessSearch(from, to, node, directWeight, maxSettledNodes, pMax)
			if witnessWeight <= directWeight {
				// witness ketemu, jarak from->to kejaga tanpa shortcut
				continue
			}

			res.shortcuts = append(res.shortcuts, shortcutCandidate{
				from:            from,
				to:              to,
				weight:          directWeight,
				duration:        datastructure.AddDuration(inData.Duration, outData.Duration),
				replacedEdgeOne: inID,
				replacedEdgeTwo: outID,
				originalEdges:   inData.OriginalEdges + outData.OriginalEdges,
			})
			res.originalEdges += inData.OriginalEdges + outData.OriginalEdges
		}
	}
	return res
}

// applyContraction fase serial: insert shortcut, propagate depth ke neighbor,
// assign level, terus hide node-nya dari view.
func (c *GraphContractor) applyContraction(res *contractionResult) {
	node := res.node

	for _, s := range res.shortcuts {
		// redundant kalau udah ada edge visible from->to yang forward dan
		// weight-nya <= shortcut (bisa jadi ada gara-gara kontraksi node
		// lain di round yang sama)
		existing := c.g.FindSmallestEdge(s.from, s.to, func(data *datastructure.ContractorEdgeData) bool {
			return data.Forward
		})
		if existing != datastructure.InvalidEdgeID && c.g.EdgeData(existing).Weight <= s.weight {
			continue
		}

		c.g.InsertEdge(s.from, s.to, datastructure.NewShortcutEdgeData(
			s.weight, s.duration, s.replacedEdgeOne, s.replacedEdgeTwo, s.originalEdges, true, false))
		c.g.InsertEdge(s.to, s.from, datastructure.NewShortcutEdgeData(
			s.weight, s.duration, s.replacedEdgeOne, s.replacedEdgeTwo, s.originalEdges, false, true))
		c.shortcutsCount++
	}

	seen := make(map[int32]struct{})
	it := c.g.AdjacentEdges(node)
	for edgeID, ok := it.Next(); ok; edgeID, ok = it.Next() {
		neighbor := c.g.Target(edgeID)
		if neighbor == node {
			continue
		}
		if _, dup := seen[neighbor]; dup {
			continue
		}
		seen[neighbor] = struct{}{}
		if c.depth[node]+1 > c.depth[neighbor] {
			c.depth[neighbor] = c.depth[node] + 1
		}
		c.contractedNeighbors[neighbor]++
	}

	c.levels[node] = c.depth[node]
	c.g.HideNode(node)
	c.contracted[node] = true

	c.meanDegree = (c.meanDegree*2 + float64(res.degree)) / 3
}

/*
calculatePriority edge difference heuristic:

	10*(shortcut yang bakal ditambah - incident edge yang ilang)
	- originalEdgesCount + 2*jumlah neighbor yang udah dikontraksi
	+ bias kecil dari node weight input

makin kecil makin duluan dikontraksi. originalEdgesCount masuk negatif:
antara node dengan edge difference sama, through-node yang mewakili lebih
banyak original edge dikontraksi duluan. contracted-neighbor term positif
nunda node di sekitar region yang udah kekontraksi, biar hierarchy-nya
kesebar rata.
*/
func (c *GraphContractor) calculatePriority(node int32) float64 {
	maxSettledNodes := int(c.meanDegree * float64(maxPollFactorHeuristic))

	res := c.findShortcuts(node, maxSettledNodes)

	// res.degree ngitung record adjacency node, satu record = satu logical
	// edge yang node-nya jadi endpoint
	edgeDifference := len(res.shortcuts) - int(res.degree)

	priority := float64(10*edgeDifference-int(res.originalEdges)) +
		2*float64(c.contractedNeighbors[node])
	if len(c.nodeWeights) != 0 {
		priority += float64(c.nodeWeights[node]) * nodeWeightPriorityFactor
	}
	return priority
}

// NodeOrderingPermutation bikin permutasi oldToNew dari level hasil kontraksi:
// node level tinggi dapet id kecil, biar layout query graph contiguous buat
// node yang paling sering dilewatin search. tie dipecahin pakai node id.
func NodeOrderingPermutation(levels []float64) []int32 {
	order := make([]int32, len(levels))
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return levels[order[i]] > levels[order[j]]
	})

	oldToNew := make([]int32, len(levels))
	for newID, oldID := range order {
		oldToNew[oldID] = int32(newID)
	}
	return oldToNew
}
