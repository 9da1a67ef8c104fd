package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raoulx24/backup-pruner/internal/logging"
	"github.com/raoulx24/backup-pruner/internal/mailbox"
	"github.com/raoulx24/backup-pruner/internal/worker"
)

func isRunning(s *Scheduler) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func TestStart(t *testing.T) {
	tests := []struct {
		name        string
		spec        string
		wantRunning bool
		wantError   bool
	}{
		{name: "daily at 3", spec: "0 3 * * *", wantRunning: true},
		{name: "hourly", spec: "0 * * * *", wantRunning: true},
		{name: "invalid", spec: "every day", wantError: true},
		{name: "empty", spec: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.spec, mailbox.New[worker.Job](), logging.Discard())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := s.Start(ctx)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantRunning, isRunning(s))

			if tt.wantRunning {
				assert.Eventually(t, func() bool { return s.NextRun() != nil }, time.Second, 5*time.Millisecond)
				s.Stop()
				assert.False(t, isRunning(s))
			}
		})
	}
}

func TestStopsWithContext(t *testing.T) {
	s := New("0 3 * * *", mailbox.New[worker.Job](), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	cancel()
	assert.Eventually(t, func() bool { return !isRunning(s) }, time.Second, 5*time.Millisecond)
}

func TestTriggerCoalesces(t *testing.T) {
	mb := mailbox.New[worker.Job]()
	s := New("0 3 * * *", mb, logging.Discard())
	s.now = func() time.Time { return time.Date(2023, 9, 15, 3, 0, 0, 0, time.UTC) }

	s.Trigger("startup")
	s.Trigger("schedule")

	job := mb.TryTake()
	require.NotNil(t, job)
	assert.Equal(t, "schedule", job.Reason)
	assert.Equal(t, 2023, job.Requested.Year())
	assert.Nil(t, mb.TryTake())
}

func TestEverySecondTick(t *testing.T) {
	mb := mailbox.New[worker.Job]()
	s := New("0 3 * * *", mb, logging.Discard())
	// cron.New accepts descriptors such as @every
	s.spec = "@every 1s"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	job, ok := mb.Take(ctxWithTimeout(t, 3*time.Second))
	require.True(t, ok, "no tick within 3s")
	assert.Equal(t, "schedule", job.Reason)
}

func TestUpdateSchedule(t *testing.T) {
	s := New("0 3 * * *", mailbox.New[worker.Job](), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	assert.Error(t, s.UpdateSchedule("not cron"))
	assert.Equal(t, "0 3 * * *", s.spec)

	require.NoError(t, s.UpdateSchedule("30 4 * * *"))
	assert.Equal(t, "30 4 * * *", s.spec)
	assert.Len(t, s.cron.Entries(), 1)
}

func ctxWithTimeout(t *testing.T, d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
