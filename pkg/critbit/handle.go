package critbit

// Handle is a reference into the tree: either an internal-node index,
// a leaf index, or Null. All three share one 64-bit namespace so a
// child/parent/root pointer is self-describing without a separate tag
// bit — exactly the encoding the source order-book index uses.
//
// A handle h < Partition names internal node index h.
// A handle h > Partition names leaf index (2^64 - 1) - h (one's
// complement of the leaf index).
// A handle h == Partition means "no node here".
type Handle = uint64

// Partition splits the handle space in half. Values below it address
// internal nodes; values above it address leaves; the exact midpoint
// is the null sentinel.
const Partition Handle = 1 << 63

// Null is the sentinel handle meaning "no parent, no child, empty root".
const Null Handle = Partition

func encodeLeaf(leafIdx uint64) Handle {
	return ^Handle(0) - leafIdx
}

func decodeLeaf(h Handle) uint64 {
	return ^Handle(0) - h
}

func isLeaf(h Handle) bool {
	return h > Partition
}

func isInternal(h Handle) bool {
	return h < Partition
}
