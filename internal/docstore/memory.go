package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with synchronous snapshot delivery.
// It backs tests and local development without Postgres or Redis.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	subscribers map[string][]*memorySub

	// FailUpdates lists document ids whose Update calls return ErrNotFound,
	// regardless of existence. Tests use it to simulate rejected writes.
	FailUpdates map[string]bool
}

type memorySub struct {
	onSnapshot SnapshotFunc
	active     bool
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		subscribers: make(map[string][]*memorySub),
		FailUpdates: make(map[string]bool),
	}
}

// Load returns a copy of the collection contents.
func (s *MemoryStore) Load(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(collection), nil
}

// Create stores a new document under a generated id.
func (s *MemoryStore) Create(_ context.Context, collection string, payload Document) (string, error) {
	s.mu.Lock()
	id := uuid.NewString()
	docs := s.collections[collection]
	if docs == nil {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}
	clean := StripNil(payload)
	clean["id"] = id
	docs[id] = clean
	s.mu.Unlock()

	s.broadcast(collection)
	return id, nil
}

// Update merges a patch into an existing document.
func (s *MemoryStore) Update(_ context.Context, collection, id string, patch Document) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok || s.FailUpdates[id] {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range StripNil(patch) {
		doc[k] = v
	}
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	if _, ok := s.collections[collection][id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	s.mu.Unlock()

	s.broadcast(collection)
	return nil
}

// Subscribe registers a snapshot listener and delivers the current state.
func (s *MemoryStore) Subscribe(_ context.Context, collection string, onSnapshot SnapshotFunc, _ ErrorFunc) (UnsubscribeFunc, error) {
	sub := &memorySub{onSnapshot: onSnapshot, active: true}

	s.mu.Lock()
	s.subscribers[collection] = append(s.subscribers[collection], sub)
	snapshot := s.snapshotLocked(collection)
	s.mu.Unlock()

	onSnapshot(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			sub.active = false
			s.mu.Unlock()
		})
	}, nil
}

func (s *MemoryStore) broadcast(collection string) {
	s.mu.RLock()
	snapshot := s.snapshotLocked(collection)
	subs := make([]*memorySub, 0, len(s.subscribers[collection]))
	for _, sub := range s.subscribers[collection] {
		if sub.active {
			subs = append(subs, sub)
		}
	}
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.onSnapshot(snapshot)
	}
}

func (s *MemoryStore) snapshotLocked(collection string) []Document {
	docs := []Document{}
	for _, doc := range s.collections[collection] {
		copied := make(Document, len(doc))
		for k, v := range doc {
			copied[k] = v
		}
		docs = append(docs, copied)
	}
	return docs
}
