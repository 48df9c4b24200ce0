package services

import (
	"context"
	"sort"
	"sync"
)

// AccountLocker hands out one lock per key. Entries are reference counted and
// dropped once no goroutine holds or waits on them.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	slot chan struct{}
	refs int
}

func NewAccountLocker() *AccountLocker {
	return &AccountLocker{locks: make(map[string]*lockEntry)}
}

// Lock acquires every key in sorted order, so two callers locking overlapping
// sets never deadlock. It gives up when ctx is done.
func (l *AccountLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	ordered := sortedUnique(keys)
	held := make([]string, 0, len(ordered))

	for _, key := range ordered {
		entry := l.retain(key)
		select {
		case entry.slot <- struct{}{}:
			held = append(held, key)
		case <-ctx.Done():
			l.mu.Lock()
			l.releaseRef(key)
			l.mu.Unlock()
			l.unlock(held)
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.unlock(held) })
	}, nil
}

func (l *AccountLocker) retain(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{slot: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	return entry
}

func (l *AccountLocker) unlock(keys []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := len(keys) - 1; i >= 0; i-- {
		<-l.locks[keys[i]].slot
		l.releaseRef(keys[i])
	}
}

// releaseRef must be called with l.mu held.
func (l *AccountLocker) releaseRef(key string) {
	entry := l.locks[key]
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *AccountLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func sortedUnique(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func accountKey(accountNumber string) string {
	return "account:" + accountNumber
}

func ownerKey(owner string) string {
	return "owner:" + owner
}
