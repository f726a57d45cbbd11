package critbit

import "errors"

// Error variables define the specific failure conditions a tree
// operation can report. All of them are fatal to the current call;
// the tree's state is left unchanged on the failing path.
var (
	// ErrExceedCapacity means leaf allocation would exceed the
	// 2^63-1 ceiling imposed by the handle encoding.
	ErrExceedCapacity = errors.New("critbit: leaf capacity exceeded")

	// ErrTreeNotEmpty is returned by DestroyEmpty on a tree that still
	// holds leaves. From Insert it signals a corrupt tree: the
	// empty-tree insertion branch was entered with a non-zero leaf
	// counter.
	ErrTreeNotEmpty = errors.New("critbit: tree not empty")

	// ErrKeyAlreadyExist means Insert's key matches an existing leaf.
	ErrKeyAlreadyExist = errors.New("critbit: key already exists")

	// ErrLeafNotExist means a min/max/borrow-by-key/neighbor lookup
	// found nothing: the key is absent, or the tree is empty.
	ErrLeafNotExist = errors.New("critbit: leaf does not exist")

	// ErrIndexOutOfRange signals a corrupt tree discovered during
	// deletion: a non-last-remaining leaf had a null parent.
	ErrIndexOutOfRange = errors.New("critbit: index out of range")

	// ErrNullParent means updateChild was called with a null parent
	// index.
	ErrNullParent = errors.New("critbit: null parent")
)
