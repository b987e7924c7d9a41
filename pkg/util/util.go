package util

import (
	"fmt"
	"math"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Permute susun ulang arr pakai permutation oldToNew: hasil[oldToNew[i]] =
// arr[i]. dipake buat bawa array per-node (level, flag core) ikut renumbering
// graph.
func Permute[T any](arr []T, oldToNew []int32) []T {
	if len(arr) != len(oldToNew) {
		panic(fmt.Sprintf("Permute: array length %d != permutation length %d", len(arr), len(oldToNew)))
	}
	permuted := make([]T, len(arr))
	for oldID, newID := range oldToNew {
		permuted[newID] = arr[oldID]
	}
	return permuted
}

// ReverseG balikin copy arr dengan urutan kebalik.
func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr))
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}
