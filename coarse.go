package skiplist

import "sync"

// coarseNode is a tower node for the [Coarse] variant. Every access to
// it happens while the list's single mutex is held, so plain pointers
// are sufficient — no atomics are needed here the way they are for the
// other two variants.
type coarseNode struct {
	key, value int
	next       []*coarseNode
}

func newCoarseNode(key, value, level int) *coarseNode {
	return &coarseNode{key: key, value: value, next: make([]*coarseNode, level+1)}
}

// Coarse is the coarse-grained variant (§4.5): a single process-wide
// mutex guards every operation, including Contains, so the list is
// strictly linearizable with respect to every caller. This trades
// scalability for the simplest possible correctness argument.
type Coarse struct {
	mu      sync.Mutex
	head    *coarseNode
	tail    *coarseNode
	size    int
	cfg     Config
	rng     *levelGenerator
	metrics Metrics
}

// NewCoarse returns an empty coarse-grained skip list.
func NewCoarse(opts ...Option) *Coarse {
	cfg := NewConfig(opts...)
	head := &coarseNode{key: negInf, next: make([]*coarseNode, cfg.maxLevel+1)}
	tail := &coarseNode{key: posInf}
	for i := range head.next {
		head.next[i] = tail
	}
	return &Coarse{head: head, tail: tail, cfg: cfg, rng: newLevelGenerator(cfg)}
}

// find locates, at every level, the last node with key strictly less
// than target and the first node with key >= target. The caller must
// hold l.mu.
func (l *Coarse) find(key int) (preds, succs []*coarseNode) {
	preds = make([]*coarseNode, l.cfg.maxLevel+1)
	succs = make([]*coarseNode, l.cfg.maxLevel+1)

	x := l.head
	for i := l.cfg.maxLevel; i >= 0; i-- {
		next := x.next[i]
		for next != l.tail && next.key < key {
			x = next
			next = x.next[i]
		}
		preds[i] = x
		succs[i] = next
	}
	return preds, succs
}

// Insert implements §4.5's insert: acquire the lock, search, and splice
// a new node if the key is absent. Linearization point: entry into the
// critical section.
func (l *Coarse) Insert(key, value int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	preds, succs := l.find(key)
	if succs[0] != l.tail && succs[0].key == key {
		return false
	}

	level := l.rng.randomLevel()
	n := newCoarseNode(key, value, level)
	for i := 0; i <= level; i++ {
		n.next[i] = succs[i]
		preds[i].next[i] = n
	}
	l.size++
	l.metrics.incInsertSuccess()
	return true
}

// Delete implements §4.5's delete under the global lock.
func (l *Coarse) Delete(key int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	preds, succs := l.find(key)
	victim := succs[0]
	if victim == l.tail || victim.key != key {
		return false
	}

	for i := range victim.next {
		preds[i].next[i] = victim.next[i]
	}
	l.size--
	return true
}

// Contains locks even for a read, per the strict-linearizability
// default option discussed in §4.5 — this implementation does not take
// the documented relaxation to lock-free reads.
func (l *Coarse) Contains(key int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, succs := l.find(key)
	return succs[0] != l.tail && succs[0].key == key
}

// Len returns the exact logical count; under Coarse, size is never
// advisory because every mutator serializes through the same lock.
func (l *Coarse) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Destroy releases every node. Not concurrency-safe: the caller must
// ensure quiescence first.
func (l *Coarse) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.head.next[0]
	for cur != l.tail {
		next := cur.next[0]
		cur.next = nil
		cur = next
	}
	for i := range l.head.next {
		l.head.next[i] = l.tail
	}
	l.size = 0
}

// Validate checks I1 (sortedness per level), I2 (level-subset), and I4
// (termination) non-concurrently.
func (l *Coarse) Validate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lowerLevelKeys := make(map[int]bool)
	for i := 0; i <= l.cfg.maxLevel; i++ {
		seen := make(map[int]bool)
		prevKey := negInf
		steps := 0
		cur := l.head.next[i]
		for cur != l.tail {
			if cur.key <= prevKey {
				return false
			}
			if i > 0 && !lowerLevelKeys[cur.key] {
				return false
			}
			seen[cur.key] = true
			prevKey = cur.key
			cur = cur.next[i]
			steps++
			if steps > l.size+2 {
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
