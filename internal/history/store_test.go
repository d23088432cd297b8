package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scr8/sqlopsstudio/internal/action"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RecordAndRead(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(Record{
		ID:        "inv-1",
		ActionID:  "test.cmd",
		Source:    "palette",
		Outcome:   OutcomeSuccess,
		Duration:  42 * time.Millisecond,
		StartedAt: time.Now(),
	}))

	recs, err := store.RecentRecords(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "test.cmd", recs[0].ActionID)
	require.Equal(t, OutcomeSuccess, recs[0].Outcome)
	require.Equal(t, 42*time.Millisecond, recs[0].Duration)
	require.Nil(t, recs[0].Error)
}

func TestStore_RecentActionIDsOrderedByRecency(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().Add(-time.Hour)
	rows := []struct {
		id     string
		action string
		offset time.Duration
	}{
		{"inv-1", "a.cmd", 0},
		{"inv-2", "b.cmd", time.Minute},
		{"inv-3", "a.cmd", 2 * time.Minute}, // a.cmd used again, most recent
		{"inv-4", "c.cmd", 90 * time.Second},
	}
	for _, r := range rows {
		require.NoError(t, store.Record(Record{
			ID: r.id, ActionID: r.action, Source: "keybinding",
			Outcome: OutcomeSuccess, StartedAt: base.Add(r.offset),
		}))
	}

	ids, err := store.RecentActionIDs(10)
	require.NoError(t, err)
	require.Equal(t, []string{"a.cmd", "c.cmd", "b.cmd"}, ids)

	ids, err = store.RecentActionIDs(2)
	require.NoError(t, err)
	require.Equal(t, []string{"a.cmd", "c.cmd"}, ids)
}

func TestStore_RecentActionIDsExcludesSkipped(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(Record{
		ID: "inv-1", ActionID: "test.disabled", Source: "keybinding",
		Outcome: OutcomeSkipped, StartedAt: time.Now(),
	}))

	ids, err := store.RecentActionIDs(10)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestStore_ExecutionFinishedMapsOutcomes(t *testing.T) {
	store := newTestStore(t)

	started := time.Now()
	store.ExecutionFinished(action.ExecutionRecord{
		InvocationID: "inv-ok", ActionID: "test.ok", Source: action.SourcePalette,
		Ran: true, StartedAt: started, Duration: 10 * time.Millisecond,
	})
	store.ExecutionFinished(action.ExecutionRecord{
		InvocationID: "inv-skip", ActionID: "test.skip", Source: action.SourceKeybinding,
		Ran: false, StartedAt: started.Add(time.Second),
	})
	store.ExecutionFinished(action.ExecutionRecord{
		InvocationID: "inv-fail", ActionID: "test.fail", Source: action.SourceAPI,
		Ran: true, Err: errors.New("boom"), StartedAt: started.Add(2 * time.Second),
	})

	recs, err := store.RecentRecords(10)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	byID := map[string]Record{}
	for _, r := range recs {
		byID[r.ID] = r
	}
	require.Equal(t, OutcomeSuccess, byID["inv-ok"].Outcome)
	require.Equal(t, OutcomeSkipped, byID["inv-skip"].Outcome)
	require.Equal(t, OutcomeFailure, byID["inv-fail"].Outcome)
	require.NotNil(t, byID["inv-fail"].Error)
	require.Contains(t, *byID["inv-fail"].Error, "boom")
}
