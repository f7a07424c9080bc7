// internal/historian/historian_test.go
package historian

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/sanctum/internal/cache"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chanSource pops from a channel, waiting at most timeout.
type chanSource chan cache.ActionRecord

func (c chanSource) Pop(ctx context.Context, timeout time.Duration) (cache.ActionRecord, bool, error) {
	select {
	case rec := <-c:
		return rec, true, nil
	case <-time.After(timeout):
		return cache.ActionRecord{}, false, nil
	case <-ctx.Done():
		return cache.ActionRecord{}, false, ctx.Err()
	}
}

type memStore struct {
	mu        sync.Mutex
	batches   [][]cache.ActionRecord
	abandoned []uuid.UUID
}

func (m *memStore) SaveActions(_ context.Context, recs []cache.ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, recs)
	return nil
}

func (m *memStore) MarkAbandoned(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abandoned = append(m.abandoned, id)
	return nil
}

func (m *memStore) saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func record(match uuid.UUID, idx int) cache.ActionRecord {
	return cache.ActionRecord{MatchID: match, ActionIndex: idx, ActionType: "draw_card", Timestamp: time.Now().UnixMilli()}
}

func TestFullBatchFlushesImmediately(t *testing.T) {
	src := make(chanSource, 8)
	store := &memStore{}
	svc := New(src, store, Options{BatchSize: 3, FlushDelay: time.Hour, PopTimeout: 10 * time.Millisecond}, quietLogger())

	match := uuid.New()
	for i := 1; i <= 3; i++ {
		src <- record(match, i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { svc.Run(ctx); close(done) }()

	assert.Eventually(t, func() bool { return store.saved() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	require.Len(t, store.batches, 1)
	assert.Equal(t, 3, store.batches[0][2].ActionIndex)
}

func TestPartialBatchFlushedOnShutdown(t *testing.T) {
	src := make(chanSource, 8)
	store := &memStore{}
	svc := New(src, store, Options{BatchSize: 10, FlushDelay: time.Hour, PopTimeout: 10 * time.Millisecond}, quietLogger())
	src <- record(uuid.New(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { svc.Run(ctx); close(done) }()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.saved())
	cancel()
	<-done
	assert.Equal(t, 1, store.saved())
}

func TestSweepMarksIdleMatchesAbandoned(t *testing.T) {
	store := &memStore{}
	svc := New(make(chanSource), store, Options{Inactivity: time.Minute}, quietLogger())

	idle, busy := uuid.New(), uuid.New()
	now := time.Now()
	svc.lastActivity.Store(idle, now.Add(-2*time.Minute))
	svc.lastActivity.Store(busy, now.Add(-10*time.Second))
	svc.append(record(idle, 4))

	svc.sweep(context.Background(), now)

	assert.Equal(t, []uuid.UUID{idle}, store.abandoned)
	assert.Equal(t, 1, store.saved(), "buffered actions land before the match is closed")
	_, stillTracked := svc.lastActivity.Load(busy)
	assert.True(t, stillTracked)
}
