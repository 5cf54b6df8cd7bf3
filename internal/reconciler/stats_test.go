package reconciler

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Empty(t *testing.T) {
	summary := NewStats().Summary()

	assert.Zero(t, summary.Runs)
	assert.Empty(t, summary.ByAction)
	assert.True(t, summary.LastRunAt.IsZero())
	assert.Equal(t, "0 runs, 0 changes, 0 failures", summary.String())
}

func TestStats_Record(t *testing.T) {
	stats := NewStats()

	stats.Record(Result{Action: ActionCreate, Changed: true}, nil)
	stats.Record(Result{Action: ActionNoOp}, nil)
	stats.Record(Result{}, errors.New("failed to list servers: 502"))

	summary := stats.Summary()
	assert.Equal(t, int64(3), summary.Runs)
	assert.Equal(t, int64(1), summary.Changes)
	assert.Equal(t, int64(1), summary.Failures)
	assert.Equal(t, map[ActionKind]int64{ActionCreate: 1, ActionNoOp: 1}, summary.ByAction)
	assert.Equal(t, "failed to list servers: 502", summary.LastError)
	assert.False(t, summary.LastChangeAt.IsZero())
	assert.False(t, summary.LastFailureAt.IsZero())
	assert.Equal(t, "3 runs, 1 change, 1 failure", summary.String())
}

func TestStats_SummaryIsACopy(t *testing.T) {
	stats := NewStats()
	stats.Record(Result{Action: ActionUpdate, Changed: true}, nil)

	summary := stats.Summary()
	summary.ByAction[ActionUpdate] = 42

	assert.Equal(t, int64(1), stats.Summary().ByAction[ActionUpdate])
}

func TestStats_ConcurrentRecord(t *testing.T) {
	stats := NewStats()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.Record(Result{Action: ActionNoOp}, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), stats.Summary().Runs)
}
