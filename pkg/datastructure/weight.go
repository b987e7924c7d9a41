package datastructure

import "math"

// EdgeWeight cost domain dari contractor. bounded int32, InvalidEdgeWeight
// dipakai sebagai sentinel "unreachable" dan selalu lebih besar dari semua
// finite weight.
type EdgeWeight int32

// EdgeDuration travel time payload (milliseconds). optional, ikut kebawa di
// shortcut sebagai jumlah dari dua edge yang direplace.
type EdgeDuration int32

const InvalidEdgeWeight EdgeWeight = math.MaxInt32

// AddWeight saturating addition. kalau salah satu operand unreachable atau
// jumlahnya overflow, hasilnya InvalidEdgeWeight.
func AddWeight(a, b EdgeWeight) EdgeWeight {
	if a == InvalidEdgeWeight || b == InvalidEdgeWeight {
		return InvalidEdgeWeight
	}
	sum := int64(a) + int64(b)
	if sum >= int64(InvalidEdgeWeight) {
		return InvalidEdgeWeight
	}
	return EdgeWeight(sum)
}

func AddDuration(a, b EdgeDuration) EdgeDuration {
	sum := int64(a) + int64(b)
	if sum > int64(math.MaxInt32) {
		return EdgeDuration(math.MaxInt32)
	}
	return EdgeDuration(sum)
}
