package skiplist

import (
	"runtime"
	"sync/atomic"
)

// Retry ceilings from §5, which a correct implementation should never
// hit. upperLevelRetryCeiling bounds the attempts to wire
// (finishUpperLevels) or mark (Delete) each upper level; past it that
// level is given up. insertRetryCeiling does not stop Insert: once an
// insert has retried that many times, each further failed pre-CAS check
// calls lockFreeExhaustedHook and the insert keeps retrying.
// lockFreeExhaustedHook, when set, is also called when finishUpperLevels
// gives up on a level, so tests can observe either exhaustion.
const (
	insertRetryCeiling     = 100
	upperLevelRetryCeiling = 1000
)

var lockFreeExhaustedHook func(op string)

// lfLink is the tagged successor the design notes (§9) prescribe for
// managed languages in place of stealing the low bit of a raw pointer:
// a single immutable record pairing a successor with a deletion mark,
// swapped as one atomic word. Once a node's link is marked it is never
// cleared (invariant 5): every write to an existing link is a CAS that
// expects an unmarked link, and helping swings the predecessor's link
// past the marked node rather than rewriting the marked link itself.
type lfLink struct {
	to     *lfNode
	marked bool
}

// lfNode is a tower node for the [LockFree] variant (§4.7).
type lfNode struct {
	key, value int
	topLevel   int
	next       []atomic.Pointer[lfLink]
}

func newLFNode(key, value, topLevel int) *lfNode {
	return &lfNode{key: key, value: value, topLevel: topLevel, next: make([]atomic.Pointer[lfLink], topLevel+1)}
}

// LockFree is the Harris/Michael-Fraser style variant (§4.7): CAS on
// next pointers, logical deletion carried in the tagged successor,
// helping to physically unlink nodes any traverser encounters marked.
type LockFree struct {
	head, tail *lfNode
	cfg        Config
	rng        *levelGenerator
	metrics    Metrics
	size       atomic.Int64
}

// NewLockFree returns an empty lock-free skip list.
func NewLockFree(opts ...Option) *LockFree {
	cfg := NewConfig(opts...)
	head := newLFNode(negInf, 0, cfg.maxLevel)
	tail := newLFNode(posInf, 0, 0)
	for i := range head.next {
		head.next[i].Store(&lfLink{to: tail})
	}
	return &LockFree{head: head, tail: tail, cfg: cfg, rng: newLevelGenerator(cfg)}
}

// backoff yields the processor after a failed CAS so a losing thread
// doesn't starve the winner on an oversubscribed core (§4.7 Backoff):
// 2^attempt runtime.Gosched calls for the first three attempts, then
// one call per attempt. It never busy-spins.
func backoff(attempt int) {
	if attempt < 3 {
		for i := 0; i < 1<<uint(attempt); i++ {
			runtime.Gosched()
		}
		return
	}
	runtime.Gosched()
}

// find is the traversal kernel with helping (§4.4, §4.7): it returns
// preds/succs at every level and whether key is present, CAS-unlinking
// any marked node it encounters along the way. A failed unlink-CAS
// restarts the whole traversal from head after a backoff.
func (l *LockFree) find(key int) (preds, succs []*lfNode, found bool) {
	preds = make([]*lfNode, l.cfg.maxLevel+1)
	succs = make([]*lfNode, l.cfg.maxLevel+1)

	for attempt := 0; ; attempt++ {
		pred := l.head
		restart := false
		for i := l.cfg.maxLevel; i >= 0; i-- {
			curLink := pred.next[i].Load()
			for {
				cur := curLink.to
				if cur == l.tail {
					break
				}
				nextLink := cur.next[i].Load()
				if nextLink.marked {
					unmarked := &lfLink{to: nextLink.to}
					if !pred.next[i].CompareAndSwap(curLink, unmarked) {
						restart = true
						break
					}
					l.metrics.incHelpedUnlink()
					curLink = unmarked
					continue
				}
				if cur.key >= key {
					break
				}
				pred = cur
				curLink = nextLink
			}
			if restart {
				break
			}
			preds[i] = pred
			succs[i] = curLink.to
		}
		if restart {
			backoff(attempt)
			continue
		}
		found = succs[0] != l.tail && succs[0].key == key
		return preds, succs, found
	}
}

// Insert implements §4.7's insert algorithm.
func (l *LockFree) Insert(key, value int) bool {
	for attempt := 0; ; attempt++ {
		preds, succs, found := l.find(key)
		if found {
			link := succs[0].next[0].Load()
			if !link.marked {
				return false
			}
		}

		topLevel := l.rng.randomLevel()
		n := newLFNode(key, value, topLevel)
		for i := 0; i <= topLevel; i++ {
			n.next[i].Store(&lfLink{to: succs[i]})
		}

		pred0 := preds[0]
		expected := pred0.next[0].Load()
		if expected.to != succs[0] || expected.marked {
			l.metrics.incInsertRetry()
			backoff(attempt)
			if attempt >= insertRetryCeiling && lockFreeExhaustedHook != nil {
				lockFreeExhaustedHook("insert")
			}
			continue
		}
		if !pred0.next[0].CompareAndSwap(expected, &lfLink{to: n}) {
			l.metrics.incInsertRetry()
			backoff(attempt)
			continue
		}

		l.metrics.incInsertSuccess()
		l.size.Add(1)
		l.finishUpperLevels(n, key, topLevel)
		return true
	}
}

// finishUpperLevels wires levels 1..topLevel of a freshly installed
// node, bounded by a retry ceiling per level (§4.7 step 4). Exhausting
// the ceiling abandons that level and every level above it: the node is
// already reachable at level 0, which alone determines set membership
// (invariant 4). The node stays absent from the abandoned levels; no
// later traversal links it there.
func (l *LockFree) finishUpperLevels(n *lfNode, key int, topLevel int) {
	for level := 1; level <= topLevel; level++ {
		linked := false
		for retries := 0; retries < upperLevelRetryCeiling; retries++ {
			if n.next[0].Load().marked {
				// Deleted mid-build: the deletion already linearized,
				// helping will clean up whatever we managed to wire.
				return
			}

			preds, succs, _ := l.find(key)
			pred := preds[level]
			succ := succs[level]

			own := n.next[level].Load()
			if own.marked || !n.next[level].CompareAndSwap(own, &lfLink{to: succ}) {
				// A concurrent Delete has marked this level: stop
				// building, as for a marked level 0 above.
				return
			}
			expected := pred.next[level].Load()
			if expected.to != succ || expected.marked {
				backoff(retries)
				continue
			}
			if pred.next[level].CompareAndSwap(expected, &lfLink{to: n}) {
				linked = true
				break
			}
			backoff(retries)
		}
		if !linked {
			l.metrics.incTowerAbandoned()
			if lockFreeExhaustedHook != nil {
				lockFreeExhaustedHook("upper-level")
			}
			return
		}
	}
}

// Delete implements §4.7's delete algorithm.
func (l *LockFree) Delete(key int) bool {
	_, succs, found := l.find(key)
	if !found {
		return false
	}
	victim := succs[0]

	for level := victim.topLevel; level >= 1; level-- {
		for attempt := 0; attempt < upperLevelRetryCeiling; attempt++ {
			link := victim.next[level].Load()
			if link.marked {
				break
			}
			if victim.next[level].CompareAndSwap(link, &lfLink{to: link.to, marked: true}) {
				break
			}
			// Failures at upper levels are ignored per §4.7 step 2:
			// helping elsewhere will fix it, so don't spin forever.
			backoff(attempt)
		}
	}

	for attempt := 0; ; attempt++ {
		link := victim.next[0].Load()
		if link.marked {
			return false
		}
		if victim.next[0].CompareAndSwap(link, &lfLink{to: link.to, marked: true}) {
			l.size.Add(-1)
			// Best-effort physical unlink: a fresh find() walks straight
			// into the helping path and CASes this node out.
			_, _, _ = l.find(key)
			return true
		}
		backoff(attempt)
	}
}

// Contains runs one top-down traversal skipping marked successors
// without attempting to unlink them, which is why it is wait-free:
// bounded by MaxLevel+path length, no CAS, no retries.
func (l *LockFree) Contains(key int) bool {
	x := l.head
	for i := l.cfg.maxLevel; i >= 0; i-- {
		link := x.next[i].Load()
		for link.to != l.tail {
			next := link.to
			nextLink := next.next[i].Load()
			if nextLink.marked {
				link = nextLink
				continue
			}
			if next.key >= key {
				break
			}
			x = next
			link = nextLink
		}
		if link.to != l.tail && link.to.key == key {
			return !link.to.next[0].Load().marked
		}
	}
	return false
}

// Len returns the advisory logical count (§3): under concurrent
// mutation this is a racy snapshot, not a linearizable read. A strictly
// correct count requires quiescence.
func (l *LockFree) Len() int {
	return int(l.size.Load())
}

// Destroy releases every node. Not concurrency-safe: the caller must
// ensure quiescence first, per the spec's reclaim-at-destroy-only
// design (no hazard pointers or epoch reclamation, §9).
func (l *LockFree) Destroy() {
	cur := l.head.next[0].Load().to
	for cur != l.tail {
		next := cur.next[0].Load().to
		cur.next = nil
		cur = next
	}
	for i := range l.head.next {
		l.head.next[i].Store(&lfLink{to: l.tail})
	}
	l.size.Store(0)
}

// Validate checks I1, I2, and I4 non-concurrently, skipping marked
// (logically deleted but not yet unlinked) nodes.
func (l *LockFree) Validate() bool {
	size := int(l.size.Load())
	var lowerLevelKeys map[int]bool
	for i := 0; i <= l.cfg.maxLevel; i++ {
		seen := make(map[int]bool)
		prevKey := negInf
		steps := 0
		cur := l.head.next[i].Load().to
		for cur != l.tail {
			link := cur.next[i].Load()
			if link.marked {
				cur = link.to
				continue
			}
			if cur.key <= prevKey {
				return false
			}
			if i > 0 && !lowerLevelKeys[cur.key] {
				return false
			}
			seen[cur.key] = true
			prevKey = cur.key
			cur = link.to
			steps++
			if steps > size+2 {
				return false
			}
		}
		if i > 0 {
			for k := range seen {
				if !lowerLevelKeys[k] {
					return false
				}
			}
		}
		lowerLevelKeys = seen
	}
	return true
}
