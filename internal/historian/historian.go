// internal/historian/historian.go
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/sanctum/internal/cache"
	"github.com/sirupsen/logrus"
)

// Source yields journaled action records.
type Source interface {
	Pop(ctx context.Context, timeout time.Duration) (cache.ActionRecord, bool, error)
}

// Store persists action records.
type Store interface {
	SaveActions(ctx context.Context, records []cache.ActionRecord) error
	MarkAbandoned(ctx context.Context, matchID uuid.UUID) error
}

// Options tune batching and the inactivity sweep.
type Options struct {
	BatchSize     int
	FlushDelay    time.Duration
	PopTimeout    time.Duration
	Inactivity    time.Duration // a match with no actions for this long is abandoned
	SweepInterval time.Duration
}

func (o *Options) setDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.FlushDelay <= 0 {
		o.FlushDelay = 500 * time.Millisecond
	}
	if o.PopTimeout <= 0 {
		o.PopTimeout = 3 * time.Second
	}
	if o.Inactivity <= 0 {
		o.Inactivity = 10 * time.Minute
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = time.Minute
	}
}

// Service drains the action journal into the store in batches and marks
// matches abandoned once they go quiet.
type Service struct {
	source Source
	store  Store
	opts   Options
	logger logrus.FieldLogger

	batchMu sync.Mutex
	batch   []cache.ActionRecord

	lastActivity sync.Map // map[uuid.UUID]time.Time
}

// New builds a Service.
func New(source Source, store Store, opts Options, logger logrus.FieldLogger) *Service {
	opts.setDefaults()
	return &Service{
		source: source,
		store:  store,
		opts:   opts,
		logger: logger,
		batch:  make([]cache.ActionRecord, 0, opts.BatchSize),
	}
}

// Run blocks until ctx is cancelled, then flushes whatever is buffered.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.inactivityLoop(ctx)
	}()

	s.logger.Info("historian started")
	s.readLoop(ctx)
	wg.Wait()

	s.flush(context.Background())
	s.logger.Info("historian stopped")
}

// readLoop pops records, flushing full batches immediately and partial ones
// every FlushDelay.
func (s *Service) readLoop(ctx context.Context) {
	lastFlush := time.Now()
	for ctx.Err() == nil {
		if time.Since(lastFlush) >= s.opts.FlushDelay {
			s.flush(ctx)
			lastFlush = time.Now()
		}

		rec, ok, err := s.source.Pop(ctx, s.opts.PopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Errorf("pop: %v", err)
			continue
		}
		if !ok {
			continue
		}

		s.lastActivity.Store(rec.MatchID, time.Now())
		if s.append(rec) {
			s.flush(ctx)
			lastFlush = time.Now()
		}
	}
}

// append buffers a record and reports whether the batch is full.
func (s *Service) append(rec cache.ActionRecord) bool {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()
	s.batch = append(s.batch, rec)
	return len(s.batch) >= s.opts.BatchSize
}

// flush writes the buffered batch in one call. A failed batch is logged and dropped.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	batch := make([]cache.ActionRecord, len(s.batch))
	copy(batch, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.store.SaveActions(ctx, batch); err != nil {
		s.logger.Errorf("flush of %d actions failed: %v", len(batch), err)
		return
	}
	s.logger.Debugf("flushed %d actions", len(batch))
}

func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx, time.Now())
		}
	}
}

// sweep marks every match idle since before now-Inactivity as abandoned.
func (s *Service) sweep(ctx context.Context, now time.Time) {
	s.lastActivity.Range(func(key, val interface{}) bool {
		matchID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if !ok1 || !ok2 || now.Sub(last) <= s.opts.Inactivity {
			return true
		}
		// Pending actions must land before the match is closed.
		s.flush(ctx)
		if err := s.store.MarkAbandoned(ctx, matchID); err != nil {
			s.logger.Warnf("failed to mark match %s abandoned: %v", matchID, err)
			return true
		}
		s.logger.Infof("marked match %s abandoned after %s idle", matchID, now.Sub(last).Round(time.Second))
		s.lastActivity.Delete(matchID)
		return true
	})
}
