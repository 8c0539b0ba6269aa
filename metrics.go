package skiplist

import "sync/atomic"

// Metrics exposes best-effort operational counters for a running skip
// list. All fields are safe for concurrent access. They exist so the
// design notes' call to "log the abandonment rate" of upper-level tower
// completion (and CAS contention generally) has something concrete
// backing it; the package itself never logs anything.
type Metrics struct {
	insertRetries     atomic.Int64
	insertSuccesses   atomic.Int64
	deleteRetries     atomic.Int64
	helpedUnlinks     atomic.Int64
	towerAbandonments atomic.Int64
}

func (m *Metrics) incInsertRetry()     { m.insertRetries.Add(1) }
func (m *Metrics) incInsertSuccess()   { m.insertSuccesses.Add(1) }
func (m *Metrics) incDeleteRetry()     { m.deleteRetries.Add(1) }
func (m *Metrics) incHelpedUnlink()    { m.helpedUnlinks.Add(1) }
func (m *Metrics) incTowerAbandoned()  { m.towerAbandonments.Add(1) }

// InsertStats reports the number of insert retries and successful
// inserts. Under LockFree a retry is a failed level-0 install; under
// FineGrained it is a failed upper-level validation; Coarse never
// retries.
func (m *Metrics) InsertStats() (retries, successes int64) {
	return m.insertRetries.Load(), m.insertSuccesses.Load()
}

// DeleteRetries reports the number of times a delete had to restart its
// search after losing a race.
func (m *Metrics) DeleteRetries() int64 { return m.deleteRetries.Load() }

// HelpedUnlinks reports the number of times a traverser physically
// unlinked a logically deleted node at one level, including the unlinks
// a deleter's own follow-up traversal performs.
func (m *Metrics) HelpedUnlinks() int64 { return m.helpedUnlinks.Load() }

// TowerAbandonments reports the number of times an insert gave up on
// wiring an upper level after exhausting its retry ceiling. Per §9 this
// should be rare; upper-level absence is benign since set membership is
// decided at level 0.
func (m *Metrics) TowerAbandonments() int64 { return m.towerAbandonments.Load() }
