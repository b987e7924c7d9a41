package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermute(t *testing.T) {
	levels := []float64{0, 2, 1}

	permuted := Permute(levels, []int32{2, 0, 1})
	assert.Equal(t, []float64{2, 1, 0}, permuted)

	// identity
	assert.Equal(t, levels, Permute(levels, []int32{0, 1, 2}))

	assert.Panics(t, func() { Permute(levels, []int32{0, 1}) })
}

func TestReverseG(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	reversed := ReverseG(arr)

	assert.Equal(t, []int{4, 3, 2, 1}, reversed)
	// input gak boleh berubah
	assert.Equal(t, []int{1, 2, 3, 4}, arr)
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 1.23, RoundFloat(1.23456, 2))
	assert.Equal(t, 1.235, RoundFloat(1.23456, 3))
}
