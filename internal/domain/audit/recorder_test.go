package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"family-album-go/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type memoryRepo struct {
	mu       sync.Mutex
	logs     []Log
	failures int
	attempts int
	started  chan struct{}
	release  chan struct{}
}

func (r *memoryRepo) Insert(ctx context.Context, log *Log) error {
	if r.started != nil {
		r.started <- struct{}{}
		<-r.release
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID string, filter Filter) ([]LogView, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []LogView
	for _, log := range r.logs {
		if log.UserID != nil && *log.UserID == userID && (filter.Action == "" || log.Action == filter.Action) {
			result = append(result, LogView{Log: log})
		}
	}
	return result, int64(len(result)), nil
}

func (r *memoryRepo) ListByFamily(ctx context.Context, familyID string, filter Filter) ([]LogView, int64, error) {
	return nil, 0, nil
}

func (r *memoryRepo) ActionTypes(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func TestRecorderWritesAndDrains(t *testing.T) {
	repo := &memoryRepo{}
	recorder := NewRecorder(repo, RecorderConfig{BufferSize: 16, Workers: 2}, logger.Nop())

	for i := 0; i < 10; i++ {
		if !recorder.Record(Entry{UserID: "u-1", Action: ActionUserUpdate, IP: "10.0.0.1"}) {
			t.Fatalf("expected entry %d to be accepted", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := recorder.Close(ctx); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
	if repo.count() != 10 {
		t.Fatalf("expected 10 logs written, got %d", repo.count())
	}
	if repo.logs[0].TargetID != nil || repo.logs[0].IP == nil || *repo.logs[0].IP != "10.0.0.1" {
		t.Fatalf("unexpected optional fields %+v", repo.logs[0])
	}
	if recorder.Record(Entry{UserID: "u-1", Action: ActionAuth}) {
		t.Fatalf("expected closed recorder to reject entries")
	}
}

func TestRecorderRetries(t *testing.T) {
	repo := &memoryRepo{failures: 2}
	recorder := NewRecorder(repo, RecorderConfig{BufferSize: 1, Workers: 1, Attempts: 3, Backoff: time.Millisecond}, logger.Nop())

	recorder.Record(Entry{UserID: "u-1", Action: ActionAuth})
	if err := recorder.Close(context.Background()); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
	if repo.attempts != 3 || repo.count() != 1 {
		t.Fatalf("expected success on third attempt, got %d attempts, %d rows", repo.attempts, repo.count())
	}
}

func TestRecorderGivesUpAfterAttempts(t *testing.T) {
	repo := &memoryRepo{failures: 5}
	failedBefore := testutil.ToFloat64(auditFailedTotal)
	recorder := NewRecorder(repo, RecorderConfig{BufferSize: 1, Workers: 1, Attempts: 2, Backoff: time.Millisecond}, logger.Nop())

	recorder.Record(Entry{UserID: "u-1", Action: ActionAuth})
	if err := recorder.Close(context.Background()); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
	if repo.attempts != 2 || repo.count() != 0 {
		t.Fatalf("expected 2 failed attempts, got %d attempts, %d rows", repo.attempts, repo.count())
	}
	if got := testutil.ToFloat64(auditFailedTotal) - failedBefore; got != 1 {
		t.Fatalf("expected failed counter +1, got %v", got)
	}
}

func TestRecorderDropsWhenFull(t *testing.T) {
	repo := &memoryRepo{started: make(chan struct{}), release: make(chan struct{})}
	droppedBefore := testutil.ToFloat64(auditDroppedTotal)
	recorder := NewRecorder(repo, RecorderConfig{BufferSize: 1, Workers: 1}, logger.Nop())

	recorder.Record(Entry{UserID: "u-1", Action: ActionAuth})
	<-repo.started

	if !recorder.Record(Entry{UserID: "u-1", Action: ActionAuth}) {
		t.Fatalf("expected buffered entry to be accepted")
	}
	if recorder.Record(Entry{UserID: "u-1", Action: ActionAuth}) {
		t.Fatalf("expected entry to be dropped when the queue is full")
	}
	if got := testutil.ToFloat64(auditDroppedTotal) - droppedBefore; got != 1 {
		t.Fatalf("expected dropped counter +1, got %v", got)
	}

	close(repo.release)
	go func() {
		for range repo.started {
		}
	}()
	if err := recorder.Close(context.Background()); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
	if repo.count() != 2 {
		t.Fatalf("expected 2 rows written, got %d", repo.count())
	}
}
