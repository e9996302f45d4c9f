package memory

import (
	"sort"
	"sync"
)

// rowStore is the minimal keyed storage a repository needs.
type rowStore[S any] interface {
	get(id string) (S, bool)
	all() []S
	put(id string, row S)
	del(id string)
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMITTED TABLE
// ══════════════════════════════════════════════════════════════════════════════

// table holds committed rows. All access goes through the store mutex.
type table[S any] struct {
	mu   *sync.RWMutex
	rows map[string]S
}

func newTable[S any](mu *sync.RWMutex) *table[S] {
	return &table[S]{mu: mu, rows: make(map[string]S)}
}

func (t *table[S]) get(id string) (S, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[S]) all() []S {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return sortedRows(t.rows, nil, nil)
}

func (t *table[S]) put(id string, row S) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = row
}

func (t *table[S]) del(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSACTIONAL OVERLAY
// ══════════════════════════════════════════════════════════════════════════════

// txTable buffers writes over a committed table until commit.
type txTable[S any] struct {
	base    *table[S]
	writes  map[string]S
	deletes map[string]struct{}
}

func newTxTable[S any](base *table[S]) *txTable[S] {
	return &txTable[S]{
		base:    base,
		writes:  make(map[string]S),
		deletes: make(map[string]struct{}),
	}
}

func (t *txTable[S]) get(id string) (S, bool) {
	if _, gone := t.deletes[id]; gone {
		var zero S
		return zero, false
	}
	if row, ok := t.writes[id]; ok {
		return row, true
	}
	return t.base.get(id)
}

func (t *txTable[S]) all() []S {
	t.base.mu.RLock()
	defer t.base.mu.RUnlock()
	return sortedRows(t.base.rows, t.writes, t.deletes)
}

func (t *txTable[S]) put(id string, row S) {
	delete(t.deletes, id)
	t.writes[id] = row
}

func (t *txTable[S]) del(id string) {
	delete(t.writes, id)
	t.deletes[id] = struct{}{}
}

// apply writes the buffer into the base table. Caller holds the store write lock.
func (t *txTable[S]) apply() {
	for id := range t.deletes {
		delete(t.base.rows, id)
	}
	for id, row := range t.writes {
		t.base.rows[id] = row
	}
}

func (t *txTable[S]) reset() {
	t.writes = make(map[string]S)
	t.deletes = make(map[string]struct{})
}

func sortedRows[S any](base, writes map[string]S, deletes map[string]struct{}) []S {
	ids := make([]string, 0, len(base)+len(writes))
	for id := range base {
		if _, ok := writes[id]; ok {
			continue
		}
		if _, gone := deletes[id]; gone {
			continue
		}
		ids = append(ids, id)
	}
	for id := range writes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]S, 0, len(ids))
	for _, id := range ids {
		if row, ok := writes[id]; ok {
			out = append(out, row)
			continue
		}
		out = append(out, base[id])
	}
	return out
}
