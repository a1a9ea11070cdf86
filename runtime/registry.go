package runtime

import (
	"msn-reimagined/contract"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// watcher is one presentation surface (a chat window, a log tail) and the
// conversations it follows. The same sink may follow several contacts.
type watcher struct {
	sink     contract.EventSink
	contacts Set
}

// Registry tracks which watchers follow which conversation.
type Registry struct {
	mu        sync.RWMutex
	watchers  map[string]*watcher // watcher -> sink and followed contacts
	followers map[string]Set      // contact -> watchers
}

func NewRegistry() *Registry {
	return &Registry{
		watchers:  make(map[string]*watcher),
		followers: make(map[string]Set),
	}
}

// GetSinksForContact returns the sinks following a conversation, ordered by
// watcher ID. Returns nil if nobody follows it.
func (r *Registry) GetSinksForContact(contactID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.followers[contactID]
	if !ok {
		return nil
	}
	keys := lo.Keys(ids)
	sort.Strings(keys)
	return lo.FilterMap(keys, func(id string, _ int) (contract.EventSink, bool) {
		w, exists := r.watchers[id]
		if !exists {
			return nil, false
		}
		return w.sink, true
	})
}

// Subscribe makes watcherID follow contactID. A second call with another sink
// replaces the watcher's sink for every contact it follows.
func (r *Registry) Subscribe(watcherID, contactID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.watchers[watcherID]
	if !ok {
		w = &watcher{contacts: make(Set)}
		r.watchers[watcherID] = w
	}
	w.sink = sink
	w.contacts[contactID] = struct{}{}

	if _, ok := r.followers[contactID]; !ok {
		r.followers[contactID] = make(Set)
	}
	r.followers[contactID][watcherID] = struct{}{}
}

// Unsubscribe stops watcherID from following contactID. The watcher is
// forgotten once it follows nothing, and empty follower sets are dropped.
func (r *Registry) Unsubscribe(watcherID, contactID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.watchers[watcherID]; ok {
		delete(w.contacts, contactID)
		if len(w.contacts) == 0 {
			delete(r.watchers, watcherID)
		}
	}
	if ids, ok := r.followers[contactID]; ok {
		delete(ids, watcherID)
		if len(ids) == 0 {
			delete(r.followers, contactID)
		}
	}
}
