package view

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns the current result set: the pairs keyed by recipe id, their
// display order and the empty-state placeholder. Every change to a pair's
// saved state happens under one lock for both views, so no reader can
// observe a card and its overlay disagreeing.
type Registry struct {
	mu         sync.RWMutex
	generation uuid.UUID
	order      []string
	pairs      map[string]*Pair
	empty      *EmptyState
	onChange   func()
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{pairs: make(map[string]*Pair)}
}

// OnChange registers a callback run after every visible mutation. It is
// called without the lock held.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

func (r *Registry) notify() {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// replace swaps in a new result set and detaches every previous pair
func (r *Registry) replace(gen uuid.UUID, order []string, pairs map[string]*Pair, empty *EmptyState) {
	r.mu.Lock()
	for _, p := range r.pairs {
		p.detached = true
	}
	r.generation = gen
	r.order = order
	r.pairs = pairs
	r.empty = empty
	r.mu.Unlock()
	r.notify()
}

// Generation identifies the current result set
func (r *Registry) Generation() uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// Empty returns the placeholder when the last render had no results
func (r *Registry) Empty() (EmptyState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.empty == nil {
		return EmptyState{}, false
	}
	return *r.empty, true
}

// IDs returns the rendered recipe ids in display order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of rendered pairs
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Pair returns the pair for id
func (r *Registry) Pair(id string) (*Pair, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pairs[id]
	return p, ok
}

// Cards returns the card views in display order
func (r *Registry) Cards() []*Card {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Card, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pairs[id].Card)
	}
	return out
}

// Details returns the detail views in display order
func (r *Registry) Details() []*Detail {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Detail, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pairs[id].Detail)
	}
	return out
}

// State returns both displayed save controls for id, read together
func (r *Registry) State(id string) (card, detail SaveControl, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, found := r.pairs[id]
	if !found {
		return SaveControl{}, SaveControl{}, false
	}
	return p.Card.save, p.Detail.save, true
}

// setLocked writes both controls; callers hold r.mu
func (p *Pair) setLocked(saved bool) {
	p.Card.save.Saved = saved
	p.Detail.save.Saved = saved
}

// Toggle flips both views of id as one unit and returns the new state
// together with the generation it was applied to
func (r *Registry) Toggle(id string) (bool, uuid.UUID, error) {
	r.mu.Lock()
	p, ok := r.pairs[id]
	if !ok {
		r.mu.Unlock()
		return false, uuid.Nil, ErrUnknownRecipe
	}
	next := !p.Card.save.Saved
	p.setLocked(next)
	gen := r.generation
	r.mu.Unlock()

	r.notify()
	return next, gen, nil
}

// Revert undoes an optimistic toggle. It only acts when the pair still
// belongs to gen and still shows applied; it reports whether it changed anything.
func (r *Registry) Revert(id string, gen uuid.UUID, applied bool) bool {
	r.mu.Lock()
	p, ok := r.pairs[id]
	if !ok || r.generation != gen || p.Card.save.Saved != applied {
		r.mu.Unlock()
		return false
	}
	p.setLocked(!applied)
	r.mu.Unlock()

	r.notify()
	return true
}

// MarkSaved shows every rendered id in saved as saved. Already saved pairs are
// left alone, so repeated calls converge on the same state.
func (r *Registry) MarkSaved(saved map[string]bool) int {
	return r.Reconcile(saved, nil, false)
}

// Reconcile marks ids in saved as saved. When unmark is true, pairs missing
// from saved are shown as unsaved. Ids for which skip returns true are not
// touched. It returns the number of pairs that changed.
func (r *Registry) Reconcile(saved map[string]bool, skip func(id string) bool, unmark bool) int {
	r.mu.Lock()
	changed := 0
	for _, id := range r.order {
		if skip != nil && skip(id) {
			continue
		}
		p := r.pairs[id]
		want := saved[id]
		if !want && !unmark {
			continue
		}
		if p.Card.save.Saved == want && p.Detail.save.Saved == want {
			continue
		}
		p.setLocked(want)
		changed++
	}
	r.mu.Unlock()

	if changed > 0 {
		r.notify()
	}
	return changed
}

// ResetSaved shows every rendered pair as unsaved
func (r *Registry) ResetSaved() int {
	return r.Reconcile(nil, nil, true)
}
