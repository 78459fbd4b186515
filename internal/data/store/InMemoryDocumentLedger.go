package store

import (
	"context"
	"sync"
)

type InMemoryDocumentLedger struct {
	lock *sync.RWMutex
	seen map[string]string
}

func InitInMemoryDocumentLedger() *InMemoryDocumentLedger {
	return &InMemoryDocumentLedger{
		lock: new(sync.RWMutex),
		seen: make(map[string]string),
	}
}

func (store *InMemoryDocumentLedger) Seen(ctx context.Context, contentHash string) (bool, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	_, ok := store.seen[contentHash]
	return ok, nil
}

func (store *InMemoryDocumentLedger) Record(ctx context.Context, contentHash string, docName string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.seen[contentHash] = docName
	return nil
}

func (store *InMemoryDocumentLedger) Clear(ctx context.Context) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.seen = make(map[string]string)
	return nil
}
