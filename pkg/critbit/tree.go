// Package critbit implements the crit-bit (PATRICIA) radix tree that
// backs an order book's price-level index: given a uint64 price tick,
// locate its associated value in O(k) time, and step between
// neighboring price levels in O(k), where k <= 64 is the key width.
//
// The tree owns two arenas (pkg/arena): one for internal branch nodes,
// one for leaves. Every child/parent/root reference is a single
// Handle drawn from one 64-bit namespace, so a reference is
// self-describing without a separate tag bit (see handle.go).
//
// A Tree is not safe for concurrent access. It is designed for
// single-writer use inside a larger transaction; the embedding is
// responsible for any locking.
package critbit

import (
	"math/bits"

	"critbit/pkg/arena"
)

const maxLeafIndex = (uint64(1) << 63) - 1

type leaf[V any] struct {
	key    uint64
	value  V
	parent Handle
}

type internalNode struct {
	mask   uint64
	left   Handle
	right  Handle
	parent Handle
}

// Tree is a crit-bit tree mapping uint64 keys to values of type V.
type Tree[V any] struct {
	root    Handle
	nodes   *arena.Store[internalNode]
	leaves  *arena.Store[leaf[V]]
	minLeaf uint64 // raw leaf index; Partition means "tree is empty"
	maxLeaf uint64
	instr   *Instrumentation
}

// Option configures a Tree at construction time.
type Option[V any] func(*Tree[V])

// WithInstrumentation wires prometheus metrics into the tree. See
// Instrumentation for what gets recorded.
func WithInstrumentation[V any](in *Instrumentation) Option[V] {
	return func(t *Tree[V]) { t.instr = in }
}

// New returns an empty tree: root, MinLeaf, and MaxLeaf all report
// empty, and both internal allocation counters start at zero.
func New[V any](opts ...Option[V]) *Tree[V] {
	t := &Tree[V]{
		root:    Null,
		nodes:   arena.New[internalNode](),
		leaves:  arena.New[leaf[V]](),
		minLeaf: Partition,
		maxLeaf: Partition,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Size returns the number of leaves currently in the tree.
func (t *Tree[V]) Size() uint64 {
	return uint64(t.leaves.Len())
}

// IsEmpty reports whether the tree holds no leaves.
func (t *Tree[V]) IsEmpty() bool {
	return t.leaves.Len() == 0
}

// descendClosest walks from the root choosing children by the
// discriminating bit of each internal node until it reaches a leaf.
// The returned leaf is the one sharing the longest crit-bit prefix
// with key; it is not necessarily the leaf with the numerically
// closest key. Must only be called on a non-empty tree.
func (t *Tree[V]) descendClosest(key uint64) Handle {
	h := t.root
	for isInternal(h) {
		n := t.nodes.Get(h)
		if key&n.mask == 0 {
			h = n.left
		} else {
			h = n.right
		}
	}
	return h
}

// Find reports whether key is present and, if so, the leaf index that
// holds it. On an empty tree it returns (false, Partition).
func (t *Tree[V]) Find(key uint64) (bool, uint64) {
	if t.instr != nil {
		t.instr.onFind()
	}
	if t.IsEmpty() {
		return false, Partition
	}
	h := t.descendClosest(key)
	idx := decodeLeaf(h)
	if t.leaves.Get(idx).key == key {
		return true, idx
	}
	return false, Partition
}

// FindClosestKey returns the key stored at the leaf reached by
// descending for key, or 0 if the tree is empty. Because 0 is also a
// valid stored key, callers must check IsEmpty first if the
// distinction matters.
func (t *Tree[V]) FindClosestKey(key uint64) uint64 {
	if t.IsEmpty() {
		return 0
	}
	h := t.descendClosest(key)
	return t.leaves.Get(decodeLeaf(h)).key
}

// highestSetBit returns the value of the most significant set bit of
// a nonzero x — the mask of the internal node that discriminates two
// keys differing first at that bit.
func highestSetBit(x uint64) uint64 {
	return uint64(1) << (63 - bits.LeadingZeros64(x))
}

// Insert adds key/value to the tree and returns the new leaf's index.
func (t *Tree[V]) Insert(key uint64, value V) (uint64, error) {
	if t.IsEmpty() {
		if t.leaves.NextIndex() != 0 {
			return 0, ErrTreeNotEmpty
		}
		l := t.leaves.Alloc(leaf[V]{key: key, value: value, parent: Null})
		t.root = encodeLeaf(l)
		t.minLeaf = l
		t.maxLeaf = l
		if t.instr != nil {
			t.instr.onInsert(t.Size())
		}
		return l, nil
	}

	closestHandle := t.descendClosest(key)
	closestIdx := decodeLeaf(closestHandle)
	closestKey := t.leaves.Get(closestIdx).key
	if closestKey == key {
		return 0, ErrKeyAlreadyExist
	}
	if t.leaves.NextIndex() >= maxLeafIndex {
		return 0, ErrExceedCapacity
	}

	newMask := highestSetBit(closestKey ^ key)

	// Walk from the root choosing children by key, stopping at the
	// first handle whose pointee is a leaf, or an internal node whose
	// mask is no longer strictly greater than newMask: that is where
	// the new internal node gets spliced in.
	var parentOfStop Handle = Null
	stop := t.root
	for isInternal(stop) {
		n := t.nodes.Get(stop)
		if n.mask <= newMask {
			break
		}
		parentOfStop = stop
		if key&n.mask == 0 {
			stop = n.left
		} else {
			stop = n.right
		}
	}

	l := t.leaves.Alloc(leaf[V]{key: key, value: value, parent: Null})
	leafHandle := encodeLeaf(l)

	var left, right Handle
	if key&newMask == 0 {
		left, right = leafHandle, stop
	} else {
		left, right = stop, leafHandle
	}
	newIdx := t.nodes.Alloc(internalNode{mask: newMask, left: left, right: right, parent: Null})
	t.setParent(leafHandle, newIdx)
	t.setParent(stop, newIdx)

	if parentOfStop == Null {
		t.root = newIdx
	} else {
		isLeft := t.isLeftChild(parentOfStop, stop)
		_ = t.updateChild(parentOfStop, newIdx, isLeft)
	}

	if key < t.leaves.Get(t.minLeaf).key {
		t.minLeaf = l
	}
	if key > t.leaves.Get(t.maxLeaf).key {
		t.maxLeaf = l
	}

	if t.instr != nil {
		t.instr.onInsert(t.Size())
	}
	return l, nil
}

// RemoveLeafByIndex removes the leaf at idx and returns its value.
// Behavior is undefined if idx does not name a live leaf.
func (t *Tree[V]) RemoveLeafByIndex(idx uint64) (V, error) {
	lf := t.leaves.Get(idx)
	key := lf.key
	value := lf.value
	parent := lf.parent

	var zero V
	if parent == Null && t.leaves.Len() > 1 {
		return zero, ErrIndexOutOfRange
	}

	if idx == t.minLeaf {
		_, succ, err := t.NextLeaf(key)
		if err == nil {
			t.minLeaf = succ
		} else {
			t.minLeaf = Partition
		}
	}
	if idx == t.maxLeaf {
		_, pred, err := t.PreviousLeaf(key)
		if err == nil {
			t.maxLeaf = pred
		} else {
			t.maxLeaf = Partition
		}
	}

	t.leaves.Delete(idx)

	if t.IsEmpty() {
		t.root = Null
		t.minLeaf = Partition
		t.maxLeaf = Partition
		t.nodes.Reset()
		t.leaves.Reset()
		if t.instr != nil {
			t.instr.onRemove(0)
		}
		return value, nil
	}

	pnode := t.nodes.Get(parent)
	removedHandle := encodeLeaf(idx)
	var sib Handle
	if pnode.left == removedHandle {
		sib = pnode.right
	} else {
		sib = pnode.left
	}
	grandparent := pnode.parent

	if grandparent == Null {
		t.root = sib
		t.setParent(sib, Null)
	} else {
		isLeft := t.isLeftChild(grandparent, parent)
		_ = t.updateChild(grandparent, sib, isLeft)
	}
	t.nodes.Delete(parent)

	if t.instr != nil {
		t.instr.onRemove(t.Size())
	}
	return value, nil
}

// MinLeaf returns the key and leaf index holding the minimum key.
func (t *Tree[V]) MinLeaf() (uint64, uint64, error) {
	if t.IsEmpty() {
		return 0, Partition, ErrLeafNotExist
	}
	return t.leaves.Get(t.minLeaf).key, t.minLeaf, nil
}

// MaxLeaf returns the key and leaf index holding the maximum key.
func (t *Tree[V]) MaxLeaf() (uint64, uint64, error) {
	if t.IsEmpty() {
		return 0, Partition, ErrLeafNotExist
	}
	return t.leaves.Get(t.maxLeaf).key, t.maxLeaf, nil
}

func (t *Tree[V]) leftMostLeaf(h Handle) Handle {
	for isInternal(h) {
		h = t.nodes.Get(h).left
	}
	return h
}

func (t *Tree[V]) rightMostLeaf(h Handle) Handle {
	for isInternal(h) {
		h = t.nodes.Get(h).right
	}
	return h
}

// NextLeaf returns the in-order successor of key: the smallest stored
// key strictly greater than key. At the maximum key it reports
// (0, Partition, nil).
func (t *Tree[V]) NextLeaf(key uint64) (uint64, uint64, error) {
	found, l := t.Find(key)
	if !found {
		return 0, Partition, ErrLeafNotExist
	}
	ptr := encodeLeaf(l)
	parent := t.leaves.Get(l).parent
	for parent != Null && t.nodes.Get(parent).right == ptr {
		ptr = parent
		parent = t.nodes.Get(parent).parent
	}
	if parent == Null {
		return 0, Partition, nil
	}
	rightSub := t.nodes.Get(parent).right
	leafHandle := t.leftMostLeaf(rightSub)
	idx := decodeLeaf(leafHandle)
	return t.leaves.Get(idx).key, idx, nil
}

// PreviousLeaf returns the in-order predecessor of key: the largest
// stored key strictly less than key. At the minimum key it reports
// (0, Partition, nil).
func (t *Tree[V]) PreviousLeaf(key uint64) (uint64, uint64, error) {
	found, l := t.Find(key)
	if !found {
		return 0, Partition, ErrLeafNotExist
	}
	ptr := encodeLeaf(l)
	parent := t.leaves.Get(l).parent
	for parent != Null && t.nodes.Get(parent).left == ptr {
		ptr = parent
		parent = t.nodes.Get(parent).parent
	}
	if parent == Null {
		return 0, Partition, nil
	}
	leftSub := t.nodes.Get(parent).left
	leafHandle := t.rightMostLeaf(leftSub)
	idx := decodeLeaf(leafHandle)
	return t.leaves.Get(idx).key, idx, nil
}

// BorrowLeafByIndex returns a pointer to the value at leaf idx.
// Behavior is undefined if idx has been retired by a prior remove.
func (t *Tree[V]) BorrowLeafByIndex(idx uint64) *V {
	return &t.leaves.Get(idx).value
}

// BorrowMutLeafByIndex is BorrowLeafByIndex with intent to mutate
// through the returned pointer; Go makes no read/write distinction so
// the two share an implementation.
func (t *Tree[V]) BorrowMutLeafByIndex(idx uint64) *V {
	return t.BorrowLeafByIndex(idx)
}

// BorrowLeafByKey finds key and returns a pointer to its value.
func (t *Tree[V]) BorrowLeafByKey(key uint64) (*V, error) {
	found, idx := t.Find(key)
	if !found {
		return nil, ErrLeafNotExist
	}
	return t.BorrowLeafByIndex(idx), nil
}

// DestroyEmpty tears down the tree's backing arenas. It fails if the
// tree still holds leaves.
func (t *Tree[V]) DestroyEmpty() error {
	if !t.IsEmpty() {
		return ErrTreeNotEmpty
	}
	t.Drop()
	return nil
}

// Drop unconditionally releases both backing arenas and resets the
// tree to its empty state.
func (t *Tree[V]) Drop() {
	t.nodes.Reset()
	t.leaves.Reset()
	t.root = Null
	t.minLeaf = Partition
	t.maxLeaf = Partition
}

// setParent writes h's parent field to parent, in whichever arena
// holds h.
func (t *Tree[V]) setParent(h, parent Handle) {
	if isInternal(h) {
		t.nodes.Get(h).parent = parent
	} else {
		t.leaves.Get(decodeLeaf(h)).parent = parent
	}
}

// updateChild writes parentIdx's left or right child pointer to
// newChild, and newChild's own parent pointer to parentIdx.
func (t *Tree[V]) updateChild(parentIdx uint64, newChild Handle, isLeft bool) error {
	if parentIdx == Partition {
		return ErrNullParent
	}
	n := t.nodes.Get(parentIdx)
	if isLeft {
		n.left = newChild
	} else {
		n.right = newChild
	}
	t.setParent(newChild, parentIdx)
	return nil
}

// isLeftChild reports whether child is parentIdx's left child.
func (t *Tree[V]) isLeftChild(parentIdx uint64, child Handle) bool {
	return t.nodes.Get(parentIdx).left == child
}
