package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/GaryJin/osrm-backend/pkg/contractor"
	"github.com/GaryJin/osrm-backend/pkg/graph"
	"github.com/GaryJin/osrm-backend/pkg/osmparser"
	"github.com/GaryJin/osrm-backend/pkg/storage"
	"github.com/GaryJin/osrm-backend/pkg/util"
)

var (
	mapFile    = flag.String("f", "map.osm.pbf", "openstreetmap pbf file buat road network graphnya")
	outFile    = flag.String("o", "hierarchy.graph", "output file hierarchy hasil kontraksi")
	coreFactor = flag.Float64("corefactor", 1.0, "fraksi node contractable yang dikontraksi, (0.0, 1.0]. 0.9 = sisain 10% teratas sebagai core")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		// https://go.dev/blog/pprof
		// ./bin/preprocessing -cpuprofile=chcpu.prof -memprofile=chmem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("reading osm file %s", *mapFile)
	parser := osmparser.NewOSMParser()
	g, nodeWeights, err := parser.Parse(*mapFile)
	if err != nil {
		log.Fatalf("error parsing osm file: %v", err)
	}
	recordMemProfile(memprofile, "parsing_osm_data")

	// komponen kecil sisa extract yang kepotong di-exclude dari kontraksi
	fg := graph.NewFilteredDynamicGraph(g, func(int32) bool { return true })
	inLargest := contractor.LargestComponentFilter(fg)
	fg = graph.NewFilteredDynamicGraph(g, func(nodeID int32) bool { return inLargest[nodeID] })

	levels, isCore := contractor.ContractFilteredGraph(fg, inLargest, nil, nodeWeights, *coreFactor)
	recordMemProfile(memprofile, "finish_contracting_graph")

	// node level tinggi dapet id kecil. visibility sisa kontraksi (subgraph
	// core) ikut ke-freeze jadi external edge filter dengan edge id baru.
	oldToNew := contractor.NodeOrderingPermutation(levels)
	fg.Renumber(oldToNew)
	sg, edgeFilter := fg.Freeze()

	levels = util.Permute(levels, oldToNew)
	isCore = util.Permute(isCore, oldToNew)

	log.Printf("saving contracted hierarchy to %s...", *outFile)
	if err := storage.SaveHierarchy(*outFile, storage.NewHierarchy(sg, edgeFilter, levels, isCore)); err != nil {
		log.Fatalf("error saving hierarchy: %v", err)
	}

	fmt.Printf("\ncontraction hierarchy ready!!\n")
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
