package datastructure

// InvalidEdgeID / InvalidNodeID sentinel buat "edge/node gak ada". lookup yang
// gagal (FindEdge dll) return sentinel ini, bukan error.
const (
	InvalidNodeID int32 = -1
	InvalidEdgeID int32 = -1
)

// ContractorEdgeData payload per edge selama kontraksi. setiap koneksi
// disimpan di adjacency list kedua endpoint dengan flag Forward/Backward,
// jadi incoming neighbor dari node b = adjacent edge b yang Backward-nya set.
//
// shortcut nyimpen id dua edge yang dia replace (ReplacedEdgeOne = edge masuk
// ke via node, ReplacedEdgeTwo = edge keluar) buat path unpacking pas query.
type ContractorEdgeData struct {
	Weight          EdgeWeight
	Duration        EdgeDuration
	ReplacedEdgeOne int32
	ReplacedEdgeTwo int32
	OriginalEdges   int32 // berapa banyak original edge yang diwakili edge ini
	Shortcut        bool
	Forward         bool
	Backward        bool
}

func NewContractorEdgeData(weight EdgeWeight, duration EdgeDuration, forward, backward bool) ContractorEdgeData {
	return ContractorEdgeData{
		Weight:          weight,
		Duration:        duration,
		ReplacedEdgeOne: InvalidEdgeID,
		ReplacedEdgeTwo: InvalidEdgeID,
		OriginalEdges:   1,
		Shortcut:        false,
		Forward:         forward,
		Backward:        backward,
	}
}

func NewShortcutEdgeData(weight EdgeWeight, duration EdgeDuration, replacedEdgeOne, replacedEdgeTwo,
	originalEdges int32, forward, backward bool) ContractorEdgeData {
	return ContractorEdgeData{
		Weight:          weight,
		Duration:        duration,
		ReplacedEdgeOne: replacedEdgeOne,
		ReplacedEdgeTwo: replacedEdgeTwo,
		OriginalEdges:   originalEdges,
		Shortcut:        true,
		Forward:         forward,
		Backward:        backward,
	}
}
