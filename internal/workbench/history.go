package workbench

import (
	"context"
	"fmt"
	"strings"

	"github.com/scr8/sqlopsstudio/internal/action"
	"github.com/scr8/sqlopsstudio/internal/history"
)

// Action ids for the history actions, contributed only when the invocation
// history store is available.
const (
	ActionShowRecent   = "workbench.action.showRecentCommands"
	ActionClearHistory = "workbench.action.clearCommandHistory"
)

const recentShown = 5

// ContributeHistory registers the history-backed actions. Call only with a
// working store; sessions without history simply lack these palette entries.
func ContributeHistory(reg *action.Registrar, svc Services, store *history.Store) (action.Disposable, error) {
	showRecent := action.Descriptor{
		ID: ActionShowRecent,
		Factory: NewFuncAction(ActionShowRecent, "Show Recent Commands",
			func(context.Context, action.Invocation) error {
				recs, err := store.RecentRecords(recentShown)
				if err != nil {
					return fmt.Errorf("reading command history: %w", err)
				}
				svc.Notifications.Infof(formatRecent(recs))
				return nil
			}),
		Label: "Show Recent Commands",
	}

	clearHistory := action.Descriptor{
		ID: ActionClearHistory,
		Factory: NewFuncAction(ActionClearHistory, "Clear Command History",
			func(context.Context, action.Invocation) error {
				if err := store.Clear(); err != nil {
					return err
				}
				svc.Notifications.Infof("command history cleared")
				return nil
			}),
		Label: "Clear Command History",
	}

	showDisp, err := reg.Register(showRecent, "Show Recent Commands", "History")
	if err != nil {
		return nil, err
	}
	clearDisp, err := reg.Register(clearHistory, "Clear Command History", "History")
	if err != nil {
		showDisp.Dispose()
		return nil, err
	}
	return action.Combine(showDisp, clearDisp), nil
}

// formatRecent renders a one-line summary for the statusline.
func formatRecent(recs []history.Record) string {
	if len(recs) == 0 {
		return "no recent commands"
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ActionID)
	}
	return "recent: " + strings.Join(ids, ", ")
}
