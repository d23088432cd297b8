package workbench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/history"
	"github.com/scr8/sqlopsstudio/internal/pubsub"
)

func newHistoryFixture(t *testing.T) (*fixture, *history.Store) {
	t.Helper()

	f := newFixture(t)
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = ContributeHistory(f.registrar, f.services(), store)
	require.NoError(t, err)
	return f, store
}

func TestContributeHistory_RegistersActions(t *testing.T) {
	f, _ := newHistoryFixture(t)

	require.True(t, f.commands.Has(ActionShowRecent))
	require.True(t, f.commands.Has(ActionClearHistory))

	ct, ok := f.menus.CommandTitle(ActionShowRecent)
	require.True(t, ok)
	require.Equal(t, "History", ct.Category)

	// History actions carry no chords
	require.Empty(t, f.keybindings.Lookup(ActionShowRecent))
}

func TestShowRecent_NotifiesSummary(t *testing.T) {
	f, store := newHistoryFixture(t)

	require.NoError(t, store.Record(history.Record{
		ID: "inv-1", ActionID: "a.cmd", Source: "palette",
		Outcome: history.OutcomeSuccess, StartedAt: time.Now(),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := f.notifier.Subscribe(ctx)

	require.NoError(t, f.commands.Execute(context.Background(), f.accessor,
		ActionShowRecent, action.Invocation{Source: action.SourcePalette}))

	select {
	case ev := <-sub:
		require.Equal(t, pubsub.ShownEvent, ev.Type)
		require.Contains(t, ev.Payload.Message, "a.cmd")
	default:
		t.Fatal("expected a recent-commands notification")
	}
}

func TestShowRecent_EmptyHistory(t *testing.T) {
	f, _ := newHistoryFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := f.notifier.Subscribe(ctx)

	require.NoError(t, f.commands.Execute(context.Background(), f.accessor,
		ActionShowRecent, action.Invocation{Source: action.SourcePalette}))

	select {
	case ev := <-sub:
		require.Contains(t, ev.Payload.Message, "no recent commands")
	default:
		t.Fatal("expected a notification")
	}
}

func TestClearHistory_EmptiesStore(t *testing.T) {
	f, store := newHistoryFixture(t)

	require.NoError(t, store.Record(history.Record{
		ID: "inv-1", ActionID: "a.cmd", Source: "keybinding",
		Outcome: history.OutcomeSuccess, StartedAt: time.Now(),
	}))

	require.NoError(t, f.commands.Execute(context.Background(), f.accessor,
		ActionClearHistory, action.Invocation{Source: action.SourcePalette}))

	recs, err := store.RecentRecords(10)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestFormatRecent(t *testing.T) {
	require.Equal(t, "no recent commands", formatRecent(nil))
	require.Equal(t, "recent: a.cmd, b.cmd", formatRecent([]history.Record{
		{ActionID: "a.cmd"}, {ActionID: "b.cmd"},
	}))
}
