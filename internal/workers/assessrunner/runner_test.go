package assessrunner_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizready/internal/adapters/memory"
	"bizready/internal/domain"
	"bizready/internal/ports"
	"bizready/internal/workers/assessrunner"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func enqueue(t *testing.T, store *memory.AssessmentStore, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		job, err := store.Create(context.Background(), ports.AssessmentRequest{BusinessTypeID: "restaurant"}, ports.DispatchQueued)
		require.NoError(t, err)
		ids = append(ids, job.AssessmentID)
	}
	return ids
}

func status(t *testing.T, store *memory.AssessmentStore, id string) ports.AssessmentStatus {
	t.Helper()
	st, err := store.Status(context.Background(), id)
	require.NoError(t, err)
	return st
}

func TestRun_ProcessesQueuedJobs(t *testing.T) {
	store := memory.NewAssessmentStore()
	ids := enqueue(t, store, 5)
	failing := ids[2]

	var (
		mu   sync.Mutex
		seen = map[string]int{}
	)
	proc := assessrunner.ProcessorFunc(func(_ context.Context, id string) error {
		mu.Lock()
		seen[id]++
		mu.Unlock()
		if id == failing {
			return errors.New("boom")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assessrunner.Run(ctx, store, proc, 2, 5*time.Millisecond, quiet)
		close(done)
	}()

	require.Eventually(t, func() bool {
		for _, id := range ids {
			st, err := store.Status(context.Background(), id)
			if err != nil || st.Status == "queued" || st.Status == "running" {
				return false
			}
		}
		return true
	}, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "each job runs once")
		if id == failing {
			st := status(t, store, id)
			assert.Equal(t, "failed", st.Status)
			assert.Equal(t, "boom", st.Error)
			continue
		}
		assert.Equal(t, "completed", status(t, store, id).Status)
	}
}

func TestRun_NoWorkers(t *testing.T) {
	store := memory.NewAssessmentStore()
	id := enqueue(t, store, 1)[0]
	assessrunner.Run(context.Background(), store, assessrunner.ProcessorFunc(func(context.Context, string) error {
		t.Fatal("no worker should run")
		return nil
	}), 0, time.Millisecond, quiet)
	assert.Equal(t, "queued", status(t, store, id).Status)
}

func start(t *testing.T, store *memory.AssessmentStore) ports.AssessmentJob {
	t.Helper()
	job, err := store.Create(context.Background(), ports.AssessmentRequest{BusinessTypeID: "restaurant"}, ports.DispatchInline)
	require.NoError(t, err)
	return job
}

func TestProcessInline(t *testing.T) {
	store := memory.NewAssessmentStore()
	job := start(t, store)
	calls := 0
	proc := assessrunner.ProcessorFunc(func(_ context.Context, got string) error {
		calls++
		assert.Equal(t, job.AssessmentID, got)
		return nil
	})

	assert.Equal(t, "running", status(t, store, job.AssessmentID).Status)
	require.NoError(t, assessrunner.ProcessInline(context.Background(), store, proc, job))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "completed", status(t, store, job.AssessmentID).Status)
}

func TestProcessInline_NeverClaimedByWorkers(t *testing.T) {
	store := memory.NewAssessmentStore()
	job := start(t, store)

	_, found, err := store.ClaimNext(context.Background())
	require.NoError(t, err)
	assert.False(t, found, "inline jobs are not offered to the pool")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		assessrunner.Run(ctx, store, assessrunner.ProcessorFunc(func(_ context.Context, id string) error {
			t.Errorf("worker picked up inline assessment %s", id)
			return nil
		}), 2, time.Millisecond, quiet)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	require.NoError(t, assessrunner.ProcessInline(context.Background(), store, assessrunner.ProcessorFunc(func(context.Context, string) error {
		return nil
	}), job))
	assert.Equal(t, "completed", status(t, store, job.AssessmentID).Status)
}

func TestProcessInline_Failure(t *testing.T) {
	store := memory.NewAssessmentStore()
	job := start(t, store)

	err := assessrunner.ProcessInline(context.Background(), store, assessrunner.ProcessorFunc(func(context.Context, string) error {
		return domain.NotFound(domain.StageCatalog, "business_type", "restaurant")
	}), job)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	st := status(t, store, job.AssessmentID)
	assert.Equal(t, "failed", st.Status)
	assert.Contains(t, st.Error, "restaurant")
}
