package substate

import "sync"

// compactThreshold is the minimum order length before removed ids are
// compacted out of it.
const compactThreshold = 32

// registry maps subscriber ids to notify callbacks and remembers the order in
// which they registered.
//
// Removal only deletes from subs; order keeps stale ids until they outnumber
// the live ones, so both add and remove are O(1) amortized.
type registry struct {
	mu    sync.Mutex
	subs  map[uint64]func()
	order []uint64
}

func newRegistry() *registry {
	return &registry{subs: make(map[uint64]func())}
}

func (r *registry) add(id uint64, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[id] = fn
	r.order = append(r.order, id)
}

// remove deletes id. It reports whether id was registered.
func (r *registry) remove(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[id]; !ok {
		return false
	}
	delete(r.subs, id)

	if len(r.order) >= compactThreshold && len(r.order) > 2*len(r.subs) {
		live := make([]uint64, 0, len(r.subs))
		for _, sid := range r.order {
			if _, ok := r.subs[sid]; ok {
				live = append(live, sid)
			}
		}
		r.order = live
	}
	return true
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// clear removes every registration and returns how many there were.
func (r *registry) clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.subs)
	r.subs = make(map[uint64]func())
	r.order = nil
	return n
}

func (r *registry) lookup(id uint64) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.subs[id]
	return fn, ok
}

// notify runs one notification pass and returns the number of callbacks run.
//
// The id list is copied before any callback runs and no lock is held while
// callbacks run. Callbacks may register or remove listeners and may call
// Update again: an id registered during the pass is not called in it, and an
// id removed before its turn is skipped.
func (r *registry) notify() int {
	r.mu.Lock()
	ids := make([]uint64, len(r.order))
	copy(ids, r.order)
	r.mu.Unlock()

	n := 0
	for _, id := range ids {
		fn, ok := r.lookup(id)
		if !ok {
			continue
		}
		fn()
		n++
	}
	return n
}
