package storage

import (
	"fmt"
	"log"
	"os"

	"github.com/GaryJin/osrm-backend/pkg/datastructure"
	"github.com/GaryJin/osrm-backend/pkg/graph"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"golang.org/x/exp/mmap"
)

// Hierarchy representasi on-disk hasil kontraksi: csr array frozen store,
// external edge filter (visibility terakhir working graph), level per node,
// dan flag core. semua array-nya di-index pakai id yang UDAH di-renumber
// urut level.
type Hierarchy struct {
	FirstEdge  []int32
	Targets    []int32
	EdgeData   []datastructure.ContractorEdgeData
	EdgeFilter []bool
	Levels     []float64
	IsCore     []bool
}

func NewHierarchy(sg *graph.StaticGraph, edgeFilter []bool, levels []float64, isCore []bool) *Hierarchy {
	firstEdge, targets, edgeData := sg.Arrays()
	return &Hierarchy{
		FirstEdge:  firstEdge,
		Targets:    targets,
		EdgeData:   edgeData,
		EdgeFilter: edgeFilter,
		Levels:     levels,
		IsCore:     isCore,
	}
}

func (h *Hierarchy) NumNodes() int32 {
	return int32(len(h.FirstEdge) - 1)
}

// StaticGraph bikin frozen store non-owning di atas array hierarchy. valid
// selama hierarchy-nya masih hidup.
func (h *Hierarchy) StaticGraph() *graph.StaticGraph {
	return graph.NewStaticGraphView(h.FirstEdge, h.Targets, h.EdgeData)
}

// FilteredGraph frozen store plus edge filter yang kesimpen di file.
func (h *Hierarchy) FilteredGraph() *graph.FilteredStaticGraph {
	return graph.NewFilteredStaticGraph(h.StaticGraph(), h.EdgeFilter)
}

// SaveHierarchy serialize + compress zstd, tulis atomic lewat temp file.
func SaveHierarchy(path string, h *Hierarchy) error {
	encoded, err := binary.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding hierarchy: %w", err)
	}

	var compressed []byte
	compressed, err = zstd.Compress(compressed, encoded)
	if err != nil {
		return fmt.Errorf("compressing hierarchy: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	log.Printf("hierarchy saved to %s (%d nodes, %d edges, %d bytes compressed)",
		path, h.NumNodes(), len(h.Targets), len(compressed))
	return nil
}

func LoadHierarchy(path string) (*Hierarchy, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	compressed := make([]byte, r.Len())
	if _, err := r.ReadAt(compressed, 0); err != nil {
		return nil, err
	}

	var encoded []byte
	encoded, err = zstd.Decompress(encoded, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompressing hierarchy: %w", err)
	}

	h := &Hierarchy{}
	if err := binary.Unmarshal(encoded, h); err != nil {
		return nil, fmt.Errorf("decoding hierarchy: %w", err)
	}
	if len(h.FirstEdge) == 0 || len(h.Levels) != int(h.NumNodes()) || len(h.IsCore) != int(h.NumNodes()) ||
		len(h.Targets) != len(h.EdgeData) || len(h.EdgeFilter) != len(h.Targets) {
		return nil, fmt.Errorf("hierarchy file %s is corrupt", path)
	}
	return h, nil
}
