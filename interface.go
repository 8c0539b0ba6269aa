package skiplist

import "math"

// Reserved sentinel keys. Callers must not insert these values; they
// identify the head (-infinity) and tail (+infinity) of every variant.
const (
	negInf = math.MinInt
	posInf = math.MaxInt
)

// SkipList is the contract common to all three concurrency variants.
type SkipList interface {
	// Insert adds key/value if no live node with this key exists yet.
	// It reports whether the insert took effect.
	Insert(key, value int) bool
	// Delete removes key if present. It reports whether a live node was
	// removed.
	Delete(key int) bool
	// Contains reports whether key is currently present.
	Contains(key int) bool
	// Len returns the current logical count. Exact under Coarse; under
	// FineGrained and LockFree it is exact once mutators are quiescent
	// and an advisory snapshot otherwise.
	Len() int
	// Destroy releases every node. The caller must ensure no other
	// goroutine is operating on the set concurrently.
	Destroy()
	// Validate walks the structure and reports whether the sortedness,
	// level-subset, and termination invariants (I1, I2, I4) hold. It is
	// not safe to call concurrently with mutators.
	Validate() bool
}

var (
	_ SkipList = (*Coarse)(nil)
	_ SkipList = (*FineGrained)(nil)
	_ SkipList = (*LockFree)(nil)
)
