package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDayLocks_MutualExclusion(t *testing.T) {
	locks := newDayLocks()
	key := lockKey(uuid.New(), testDate())
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	var inside, max int
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.Acquire(ctx, key)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > max {
				max = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	if max != 1 {
		t.Errorf("at most one holder allowed, saw %d", max)
	}

	locks.mu.Lock()
	remaining := len(locks.entries)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock map must be empty after all releases, got %d entries", remaining)
	}
}

func TestDayLocks_IndependentKeys(t *testing.T) {
	locks := newDayLocks()
	ctx := context.Background()
	consultorioID := uuid.New()

	releaseFirst, err := locks.Acquire(ctx, lockKey(consultorioID, testDate()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer releaseFirst()

	// Другая дата того же консультория не конкурирует
	otherDay := testDate().AddDate(0, 0, 1)
	ctxShort, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	releaseSecond, err := locks.Acquire(ctxShort, lockKey(consultorioID, otherDay))
	if err != nil {
		t.Fatalf("different day must not block: %v", err)
	}
	releaseSecond()
}

func TestDayLocks_AcquireTimeout(t *testing.T) {
	locks := newDayLocks()
	key := lockKey(uuid.New(), testDate())

	release, err := locks.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := locks.Acquire(ctx, key); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// После отказа по таймауту ключ остаётся захватываемым
	release()
	release2, err := locks.Acquire(context.Background(), key)
	if err != nil {
		t.Fatalf("key must be acquirable after timeout waiter left: %v", err)
	}
	release2()

	locks.mu.Lock()
	remaining := len(locks.entries)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock map must be empty, got %d entries", remaining)
	}
}
