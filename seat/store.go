package seat

import "sync"

// Store is the deduplicating accumulator for one page session. Entries
// are keyed by content key and inserted at most once: repeated scrapes
// of a still-rendered card are idempotent, and a later scrape never
// overwrites an earlier identical entry. Nothing is removed until the
// session ends.
//
// The scan loop merges from its own goroutine while the HTTP and MCP
// surfaces read concurrently, so access is mutex-guarded.
type Store struct {
	mu    sync.Mutex
	byKey map[string]Listing
	order []string
	subs  []func(added int)
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byKey: make(map[string]Listing)}
}

// Merge inserts every listing whose content key is not yet present and
// returns the count of genuinely new entries. Callers use the delta to
// decide whether a re-score or re-render is warranted.
func (s *Store) Merge(batch []Listing) int {
	s.mu.Lock()
	added := 0
	for _, l := range batch {
		key := l.Key()
		if _, ok := s.byKey[key]; ok {
			continue
		}
		s.byKey[key] = l
		s.order = append(s.order, key)
		added++
	}
	subs := s.subs
	s.mu.Unlock()

	if added > 0 {
		for _, fn := range subs {
			fn(added)
		}
	}
	return added
}

// All returns the stored listings in insertion order.
func (s *Store) All() []Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Listing, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.byKey[key])
	}
	return out
}

// Get looks up a listing by content key.
func (s *Store) Get(key string) (Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byKey[key]
	return l, ok
}

// Len reports the number of stored listings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Reset drops every listing, starting a new page session. Subscribers
// are kept and are not notified: a reset means "new page", not "new
// data".
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = make(map[string]Listing)
	s.order = nil
}

// OnChange registers a callback invoked after any merge that added at
// least one listing. Callbacks run on the merging goroutine and must
// not call back into the store's mutating methods.
func (s *Store) OnChange(fn func(added int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
