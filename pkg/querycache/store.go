package querycache

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/ryanuber/go-glob"
)

// Event describes a change to the store.
type Event struct {
	Key Key

	// Invalidated is true when the entry was removed rather than updated.
	Invalidated bool
}

// Subscriber receives store events. Subscribers are called synchronously,
// they must not block.
type Subscriber func(Event)

// Store is an observable key-value cache for query results.
type Store struct {
	entries *cache.Cache

	mu          sync.Mutex
	subscribers map[uint64]Subscriber
	nextID      uint64
}

// NewStore returns a Store whose entries expire after ttl. A ttl of 0
// keeps entries until they are invalidated.
func NewStore(ttl time.Duration) *Store {
	expiration := ttl
	if ttl == 0 {
		expiration = cache.NoExpiration
	}

	return &Store{
		entries:     cache.New(expiration, 10*time.Minute),
		subscribers: make(map[uint64]Subscriber),
	}
}

// Get returns the cached value for a key.
func (s *Store) Get(key Key) (any, bool) {
	return s.entries.Get(string(key))
}

// Set stores a value and notifies subscribers.
func (s *Store) Set(key Key, value any) {
	s.entries.SetDefault(string(key), value)
	s.publish(Event{Key: key})
}

// Delete removes a single entry and notifies subscribers that it was
// invalidated. Mutations use it to roll back entries that did not exist
// before they were touched.
func (s *Store) Delete(key Key) {
	s.entries.Delete(string(key))
	s.publish(Event{Key: key, Invalidated: true})
}

// Invalidate removes all entries whose key matches the glob pattern and
// returns how many were removed. "medicine-requests/*" invalidates every
// page of the medicine request list.
func (s *Store) Invalidate(pattern string) int {
	var invalidated int

	for key := range s.entries.Items() {
		if glob.Glob(pattern, key) {
			s.entries.Delete(key)
			s.publish(Event{Key: Key(key), Invalidated: true})
			invalidated++
		}
	}

	return invalidated
}

// Subscribe registers a subscriber for store events. The returned
// function removes the subscription.
func (s *Store) Subscribe(subscriber Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = subscriber

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) publish(event Event) {
	s.mu.Lock()
	subscribers := make([]Subscriber, 0, len(s.subscribers))
	for _, subscriber := range s.subscribers {
		subscribers = append(subscribers, subscriber)
	}
	s.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(event)
	}
}
