package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/scr8/sqlopsstudio/internal/notify"
	"github.com/scr8/sqlopsstudio/internal/workbench"
)

var actionsJSON bool

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List registered workbench actions",
	Long: `List every registered workbench action with its palette title,
category, and effective keybindings (config overrides applied).

Hidden actions (no palette title) are included; they are invocable by
keybinding only.

Examples:
  # List all actions
  sqlops actions

  # JSON output for scripting
  sqlops actions --json
  sqlops actions --json | jq '.[].id'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistries()
		reg.keybindings.SetOverrides(cfg.Keybindings)

		notifier := notify.NewServiceWithWindow(0)
		defer notifier.Close()

		// No program is running; built-in messages go nowhere.
		if _, err := workbench.Contribute(reg.registrar, workbench.Services{
			Send:          func(tea.Msg) {},
			Notifications: notifier,
		}); err != nil {
			return fmt.Errorf("contributing workbench actions: %w", err)
		}

		infos := collectActions(reg)
		if actionsJSON {
			out, err := json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Print(renderActions(infos))
		return nil
	},
}

func init() {
	actionsCmd.Flags().BoolVar(&actionsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(actionsCmd)
}

// actionInfo is one row of the listing.
type actionInfo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	Category    string   `json:"category,omitempty"`
	Keybindings []string `json:"keybindings,omitempty"`
	Hidden      bool     `json:"hidden"`
}

// collectActions gathers every registered command in id order.
func collectActions(reg registries) []actionInfo {
	ids := reg.commands.IDs()
	infos := make([]actionInfo, 0, len(ids))
	for _, id := range ids {
		info := actionInfo{ID: id, Hidden: true}
		if ct, ok := reg.menus.CommandTitle(id); ok {
			info.Title = ct.Title.Value
			info.Category = ct.Category
			info.Hidden = false
		}
		info.Keybindings = reg.keybindings.Lookup(id)
		infos = append(infos, info)
	}
	return infos
}

// renderActions formats the listing as an aligned text table.
func renderActions(infos []actionInfo) string {
	idWidth, titleWidth := len("ID"), len("TITLE")
	for _, info := range infos {
		idWidth = max(idWidth, len(info.ID))
		titleWidth = max(titleWidth, len(displayTitle(info)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %-*s  %s\n", idWidth, "ID", titleWidth, "TITLE", "KEYBINDING")
	for _, info := range infos {
		fmt.Fprintf(&b, "%-*s  %-*s  %s\n",
			idWidth, info.ID,
			titleWidth, displayTitle(info),
			strings.Join(info.Keybindings, ", "))
	}
	return b.String()
}

func displayTitle(info actionInfo) string {
	if info.Hidden {
		return "(hidden)"
	}
	if info.Category != "" {
		return info.Category + ": " + info.Title
	}
	return info.Title
}
