package services

import "sync"

// TableLocks hands out one mutex per table so allocations and manual
// table edits are serialized against that table. Everything that books
// onto a table must share a single instance.
type TableLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewTableLocks() *TableLocks {
	return &TableLocks{locks: make(map[uint]*sync.Mutex)}
}

// ForTable returns the mutex guarding the given table, creating it on
// first use.
func (tl *TableLocks) ForTable(tableID uint) *sync.Mutex {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	lock, ok := tl.locks[tableID]
	if !ok {
		lock = &sync.Mutex{}
		tl.locks[tableID] = lock
	}
	return lock
}
