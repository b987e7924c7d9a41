package datastructure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddWeightSaturates(t *testing.T) {
	assert.Equal(t, EdgeWeight(30), AddWeight(10, 20))

	// unreachable nyerap semua operand
	assert.Equal(t, InvalidEdgeWeight, AddWeight(InvalidEdgeWeight, 10))
	assert.Equal(t, InvalidEdgeWeight, AddWeight(10, InvalidEdgeWeight))
	assert.Equal(t, InvalidEdgeWeight, AddWeight(InvalidEdgeWeight, InvalidEdgeWeight))

	// overflow int32 gak boleh wrap jadi weight kecil
	big := EdgeWeight(math.MaxInt32 - 1)
	assert.Equal(t, InvalidEdgeWeight, AddWeight(big, big))
	assert.Equal(t, InvalidEdgeWeight, AddWeight(big, 2))
}

func TestInvalidWeightIsUpperBound(t *testing.T) {
	assert.True(t, EdgeWeight(math.MaxInt32-1) < InvalidEdgeWeight)
	assert.True(t, AddWeight(1, 1) < InvalidEdgeWeight)
}

func TestShortcutEdgeData(t *testing.T) {
	data := NewContractorEdgeData(5, 500, true, false)
	assert.False(t, data.Shortcut)
	assert.Equal(t, int32(1), data.OriginalEdges)
	assert.Equal(t, InvalidEdgeID, data.ReplacedEdgeOne)
	assert.Equal(t, InvalidEdgeID, data.ReplacedEdgeTwo)

	shortcut := NewShortcutEdgeData(10, 1000, 3, 7, 2, true, false)
	assert.True(t, shortcut.Shortcut)
	assert.Equal(t, int32(3), shortcut.ReplacedEdgeOne)
	assert.Equal(t, int32(7), shortcut.ReplacedEdgeTwo)
	assert.Equal(t, int32(2), shortcut.OriginalEdges)
}
