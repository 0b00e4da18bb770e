package archive

import (
	"context"
	"sync"
)

type memoryArchive struct {
	mu     sync.RWMutex
	latest map[string]Record
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{latest: make(map[string]Record)}
}

func memoryKey(sessionID string, kind Kind) string {
	return sessionID + "/" + string(kind)
}

func (a *memoryArchive) Save(ctx context.Context, rec *Record) error {
	prepare(rec)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latest[memoryKey(rec.SessionID, rec.Kind)] = *rec
	return nil
}

func (a *memoryArchive) Latest(ctx context.Context, sessionID string, kind Kind) (*Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.latest[memoryKey(sessionID, kind)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (a *memoryArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latest = make(map[string]Record)
	return nil
}
