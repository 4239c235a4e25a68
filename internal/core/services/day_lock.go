package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// dayLocks - эксклюзивная блокировка на пару (консульторий, дата).
// Бронирования разных кабинетов или разных дат не конкурируют,
// глобальной блокировки нет
type dayLocks struct {
	mu      sync.Mutex
	entries map[string]*dayLockEntry
}

type dayLockEntry struct {
	sem  chan struct{}
	refs int
}

func newDayLocks() *dayLocks {
	return &dayLocks{entries: make(map[string]*dayLockEntry)}
}

func lockKey(consultorioID uuid.UUID, day time.Time) string {
	return consultorioID.String() + "|" + day.Format("2006-01-02")
}

// Acquire блокирует до захвата ключа или отмены ctx. При отмене выходит
// без побочных эффектов. release вызывается ровно один раз
func (l *dayLocks) Acquire(ctx context.Context, key string) (release func(), err error) {
	l.mu.Lock()
	entry := l.entries[key]
	if entry == nil {
		entry = &dayLockEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			l.unref(key, entry)
		}, nil
	case <-ctx.Done():
		l.unref(key, entry)
		return nil, ctx.Err()
	}
}

func (l *dayLocks) unref(key string, entry *dayLockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
