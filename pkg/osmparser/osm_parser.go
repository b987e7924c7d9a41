package osmparser

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/GaryJin/osrm-backend/pkg/datastructure"
	"github.com/GaryJin/osrm-backend/pkg/geo"
	"github.com/GaryJin/osrm-backend/pkg/graph"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// penalty traffic light, deciseconds. masuk ke node weight buat bias urutan
// kontraksi, bukan ke weight edge.
const trafficLightPenalty datastructure.EdgeWeight = 20

type nodeCoord struct {
	lat float64
	lon float64
}

type wayData struct {
	nodes          []osm.NodeID
	maxSpeed       float64
	oneWay         bool
	reversedOneWay bool
}

// OsmParser baca file .osm.pbf jadi road network graph yang siap dikontraksi:
// node = junction antar way (plus ujung way), edge = segment antar junction
// dengan weight travel time. dua pass di file-nya: pertama ways (biar tau node
// mana aja yang kepake dan mana yang junction), kedua nodes (koordinat +
// traffic light).
type OsmParser struct {
	wayNodeUsage      map[osm.NodeID]int32
	acceptedNodeCoord map[osm.NodeID]nodeCoord
	trafficLightNodes map[osm.NodeID]bool
	nodeIDMap         map[osm.NodeID]int32
	acceptedWays      []wayData
}

func NewOSMParser() *OsmParser {
	return &OsmParser{
		wayNodeUsage:      make(map[osm.NodeID]int32),
		acceptedNodeCoord: make(map[osm.NodeID]nodeCoord),
		trafficLightNodes: make(map[osm.NodeID]bool),
		nodeIDMap:         make(map[osm.NodeID]int32),
	}
}

var skipHighway = map[string]struct{}{
	"footway":                {},
	"construction":           {},
	"cycleway":               {},
	"path":                   {},
	"pedestrian":             {},
	"busway":                 {},
	"steps":                  {},
	"bridleway":              {},
	"corridor":               {},
	"street_lamp":            {},
	"bus_stop":               {},
	"crossing":               {},
	"elevator":               {},
	"emergency_bay":          {},
	"emergency_access_point": {},
	"give_way":               {},
	"platform":               {},
	"proposed":               {},
	"raceway":                {},
	"track":                  {},
	"bus_guideway":           {},
	"speed_camera":           {},
	"toll_gantry":            {},
	"traffic_mirror":         {},
	"trailhead":              {},
}

/*
Parse dua pass scan file pbf terus bangun mutable graph store.

return graph, node weight per node (penalty traffic light, 0 kalau gak ada),
dan error io/decode. node id graph compact [0, numNodes), gak ada hubungannya
sama osm node id.
*/
func (p *OsmParser) Parse(mapFile string) (*graph.DynamicGraph, []datastructure.EdgeWeight, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if err := p.scanWays(f); err != nil {
		return nil, nil, fmt.Errorf("scanning ways: %w", err)
	}
	log.Printf("accepted ways: %d (way nodes: %d)", len(p.acceptedWays), len(p.wayNodeUsage))

	if _, err := f.Seek(0, 0); err != nil {
		return nil, nil, err
	}
	if err := p.scanNodes(f); err != nil {
		return nil, nil, fmt.Errorf("scanning nodes: %w", err)
	}
	log.Printf("resolved node coordinates: %d (traffic lights: %d)", len(p.acceptedNodeCoord), len(p.trafficLightNodes))

	g, nodeWeights := p.buildGraph()
	log.Printf("graph built: %d nodes, %d edge records", g.NumNodes(), g.NumEdges())
	return g, nodeWeights, nil
}

func (p *OsmParser) scanWays(f *os.File) error {
	scanner := osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}

		data, ok := parseWayTags(way)
		if !ok {
			continue
		}

		for _, wn := range way.Nodes {
			p.wayNodeUsage[wn.ID]++
		}
		// ujung way selalu jadi junction biar segment gak nggantung
		p.wayNodeUsage[way.Nodes[0].ID]++
		p.wayNodeUsage[way.Nodes[len(way.Nodes)-1].ID]++

		data.nodes = make([]osm.NodeID, len(way.Nodes))
		for i, wn := range way.Nodes {
			data.nodes[i] = wn.ID
		}
		p.acceptedWays = append(p.acceptedWays, data)
	}
	return scanner.Err()
}

func (p *OsmParser) scanNodes(f *os.File) error {
	scanner := osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)
		if p.wayNodeUsage[node.ID] == 0 {
			continue
		}
		p.acceptedNodeCoord[node.ID] = nodeCoord{lat: node.Lat, lon: node.Lon}
		if node.Tags.Find("highway") == "traffic_signals" {
			p.trafficLightNodes[node.ID] = true
		}
	}
	return scanner.Err()
}

// buildGraph jalan di tiap accepted way, split di junction node (dipake lebih
// dari satu kali) dan akumulasi jarak haversine antar node di dalam satu
// segment.
func (p *OsmParser) buildGraph() (*graph.DynamicGraph, []datastructure.EdgeWeight) {
	edges := make([]graph.InputEdge, 0)

	for _, way := range p.acceptedWays {
		segmentStart := int(-1)
		segmentDist := 0.0

		for i := 0; i < len(way.nodes); i++ {
			coord, ok := p.acceptedNodeCoord[way.nodes[i]]
			if !ok {
				// node-nya gak ada di file (extract kepotong), putus
				// segment di sini
				segmentStart = -1
				segmentDist = 0
				continue
			}
			if i > 0 {
				if prev, ok := p.acceptedNodeCoord[way.nodes[i-1]]; ok {
					segmentDist += geo.HaversineDistance(prev.lat, prev.lon, coord.lat, coord.lon)
				}
			}

			if p.wayNodeUsage[way.nodes[i]] < 2 {
				continue
			}
			if segmentStart >= 0 {
				from := p.compactNodeID(way.nodes[segmentStart])
				to := p.compactNodeID(way.nodes[i])
				if from != to {
					edges = append(edges, segmentEdges(from, to, segmentDist, way)...)
				}
			}
			segmentStart = i
			segmentDist = 0
		}
	}

	nodeWeights := make([]datastructure.EdgeWeight, len(p.nodeIDMap))
	for osmID, id := range p.nodeIDMap {
		if p.trafficLightNodes[osmID] {
			nodeWeights[id] = trafficLightPenalty
		}
	}

	return graph.NewDynamicGraphFromEdges(int32(len(p.nodeIDMap)), edges), nodeWeights
}

func (p *OsmParser) compactNodeID(osmID osm.NodeID) int32 {
	if id, ok := p.nodeIDMap[osmID]; ok {
		return id
	}
	id := int32(len(p.nodeIDMap))
	p.nodeIDMap[osmID] = id
	return id
}

// segmentEdges record adjacency buat satu segment. tiap koneksi disimpan di
// adjacency kedua endpoint, flag Forward/Backward nentuin arah traversal.
func segmentEdges(from, to int32, distMeter float64, way wayData) []graph.InputEdge {
	weight := travelTimeDeciseconds(distMeter, way.maxSpeed)
	duration := datastructure.EdgeDuration(weight) * 100 // milliseconds

	if way.oneWay {
		if way.reversedOneWay {
			from, to = to, from
		}
		return []graph.InputEdge{
			graph.NewInputEdge(from, to, datastructure.NewContractorEdgeData(weight, duration, true, false)),
			graph.NewInputEdge(to, from, datastructure.NewContractorEdgeData(weight, duration, false, true)),
		}
	}
	return []graph.InputEdge{
		graph.NewInputEdge(from, to, datastructure.NewContractorEdgeData(weight, duration, true, true)),
		graph.NewInputEdge(to, from, datastructure.NewContractorEdgeData(weight, duration, true, true)),
	}
}

func travelTimeDeciseconds(distMeter, speedKmh float64) datastructure.EdgeWeight {
	if speedKmh <= 0 {
		speedKmh = 30
	}
	ds := distMeter / (speedKmh / 3.6) * 10
	if ds < 1 {
		ds = 1
	}
	return datastructure.EdgeWeight(math.Round(ds))
}

func parseWayTags(way *osm.Way) (wayData, bool) {
	data := wayData{}
	roadType := ""

	for _, tag := range way.Tags {
		switch {
		case tag.Key == "highway":
			if _, skip := skipHighway[tag.Value]; skip {
				return wayData{}, false
			}
			roadType = tag.Value
		case tag.Key == "oneway" && tag.Value != "no":
			data.oneWay = true
			if tag.Value == "-1" {
				data.reversedOneWay = true
			}
		case strings.Contains(tag.Key, "maxspeed"):
			if speed, err := strconv.ParseFloat(tag.Value, 64); err == nil {
				data.maxSpeed = speed
			}
		case tag.Value == "roundabout":
			data.oneWay = true
		}
	}
	if roadType == "" {
		return wayData{}, false
	}
	if data.maxSpeed == 0 {
		data.maxSpeed = roadTypeMaxSpeed(roadType)
	}
	return data, true
}

func roadTypeMaxSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 95
	case "trunk":
		return 85
	case "primary":
		return 75
	case "secondary":
		return 65
	case "tertiary":
		return 50
	case "unclassified":
		return 50
	case "residential":
		return 30
	case "service":
		return 20
	case "motorway_link":
		return 90
	case "trunk_link":
		return 80
	case "primary_link":
		return 70
	case "secondary_link":
		return 60
	case "tertiary_link":
		return 50
	case "living_street":
		return 20
	default:
		return 40
	}
}
