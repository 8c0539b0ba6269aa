// Package skiplist implements a concurrent ordered set of signed
// integers, each mapping to an integer value, as a probabilistic
// multi-level skip list.
//
// Three interchangeable variants are provided, trading synchronization
// overhead against scalability under contention:
//
//   - [Coarse]: a single mutex guards every operation.
//   - [FineGrained]: lock-free traversal followed by per-node locking of
//     predecessors with validation (Herlihy's lazy skip list).
//   - [LockFree]: compare-and-swap on next pointers with logical
//     deletion carried alongside the pointer; concurrent traversers help
//     physically unlink deleted nodes.
//
// All three satisfy [SkipList]. Insert is insert-if-absent: it never
// updates an existing live key. Delete removes a key entirely; there is
// no mutation of an existing value in place. Neither INT_MIN nor
// INT_MAX may be used as a key — they are reserved for the head and
// tail sentinels.
package skiplist
