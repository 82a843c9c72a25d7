package audit

import (
	"context"
	"sync"
	"time"

	"family-album-go/pkg/logger"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_recorded_total",
		Help: "Audit entries written to the database",
	})

	auditDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_dropped_total",
		Help: "Audit entries dropped because the queue was full or closed",
	})

	auditFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_failed_total",
		Help: "Audit entries discarded after every write attempt failed",
	})
)

const writeTimeout = 5 * time.Second

type RecorderConfig struct {
	BufferSize int
	Workers    int
	Attempts   int
	Backoff    time.Duration
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.BufferSize <= 0 {
		c.BufferSize = 1024
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.Attempts <= 0 {
		c.Attempts = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 200 * time.Millisecond
	}
	return c
}

// Recorder writes audit entries in the background. Record never blocks: when
// the queue is full the entry is dropped and counted.
type Recorder struct {
	repo  Repository
	cfg   RecorderConfig
	log   logger.Logger
	queue chan Entry
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(repo Repository, cfg RecorderConfig, log logger.Logger) *Recorder {
	cfg = cfg.withDefaults()
	r := &Recorder{
		repo:  repo,
		cfg:   cfg,
		log:   log,
		queue: make(chan Entry, cfg.BufferSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
	return r
}

// Record enqueues entry and reports whether it was accepted.
func (r *Recorder) Record(entry Entry) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		auditDroppedTotal.Inc()
		return false
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	select {
	case r.queue <- entry:
		return true
	default:
		auditDroppedTotal.Inc()
		r.log.Warn("audit.record: queue full, entry dropped", "action", entry.Action, "user_id", entry.UserID)
		return false
	}
}

// Close stops accepting entries and waits for queued ones to be written or
// for ctx to end.
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) work() {
	defer r.wg.Done()
	for entry := range r.queue {
		r.write(entry)
	}
}

func (r *Recorder) write(entry Entry) {
	row := toLog(entry)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.cfg.Backoff
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0

	err := backoff.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		return r.repo.Insert(ctx, &row)
	}, backoff.WithMaxRetries(bo, uint64(r.cfg.Attempts-1)))
	if err == nil {
		auditRecordedTotal.Inc()
		return
	}

	auditFailedTotal.Inc()
	r.log.InternalError("audit.record: write failed", err, "action", entry.Action, "user_id", entry.UserID, "attempts", r.cfg.Attempts)
}

func toLog(entry Entry) Log {
	return Log{
		ID:        uuid.NewString(),
		UserID:    optional(entry.UserID),
		Action:    entry.Action,
		TargetID:  optional(entry.TargetID),
		IP:        optional(entry.IP),
		UserAgent: optional(entry.UserAgent),
		CreatedAt: entry.At,
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
