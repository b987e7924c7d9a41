package datastructure

import (
	"errors"

	"golang.org/x/exp/constraints"
)

var (
	ErrHeapEmpty    = errors.New("priority queue is empty")
	ErrItemNotFound = errors.New("item is not in the priority queue")
)

type PriorityQueueNode[T constraints.Ordered] struct {
	Rank float64
	Item T
}

func NewPriorityQueueNode[T constraints.Ordered](rank float64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Item: item}
}

// MinHeap binary heap priorityqueue. index tiap item disimpan di pos map
// buat DecreaseKey, jadi item harus unik di dalam heap.
// tie pada Rank dipecahkan pakai Item yang lebih kecil biar urutan extract
// deterministik.
type MinHeap[T constraints.Ordered] struct {
	heap []PriorityQueueNode[T]
	pos  map[T]int
}

func NewMinHeap[T constraints.Ordered]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

// parent get index dari parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index dari left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index dari right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].Item < h.heap[j].Item
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}

// heapifyUp mempertahankan heap property. check apakah parent dari index
// lebih besar kalau iya swap, then recursive ke parent. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown mempertahankan heap property. check apakah nilai salah satu
// children dari index lebih kecil kalau iya swap, then recursive ke children
// yang kecil tadi. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	smallest := index
	left := h.leftChild(index)
	right := h.rightChild(index)

	if left < len(h.heap) && h.less(left, smallest) {
		smallest = left
	}
	if right < len(h.heap) && h.less(right, smallest) {
		smallest = right
	}
	if smallest != index {
		h.swap(index, smallest)
		h.heapifyDown(smallest)
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Contains(item T) bool {
	_, ok := h.pos[item]
	return ok
}

// GetMin mendapatkan nilai minimum dari min-heap (index 0) tanpa pop.
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	return h.heap[0], nil
}

// Insert item baru. O(logN)
func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	index := h.Size() - 1
	h.pos[node.Item] = index
	h.heapifyUp(index)
}

// ExtractMin ambil nilai minimum dari min-heap (index 0) & pop dari heap.
// O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrHeapEmpty
	}
	root := h.heap[0]
	h.swap(0, h.Size()-1)
	h.heap = h.heap[:h.Size()-1]
	delete(h.pos, root.Item)
	if !h.isEmpty() {
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey turunkan rank dari item yang udah ada di heap. O(logN)
func (h *MinHeap[T]) DecreaseKey(node PriorityQueueNode[T]) error {
	index, ok := h.pos[node.Item]
	if !ok {
		return ErrItemNotFound
	}
	if node.Rank > h.heap[index].Rank {
		return nil
	}
	h.heap[index].Rank = node.Rank
	h.heapifyUp(index)
	return nil
}
