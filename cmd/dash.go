package cmd

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/userdash/internal/journal"
	"github.com/marcus/userdash/internal/output"
	"github.com/marcus/userdash/pkg/monitor"
	"github.com/marcus/userdash/pkg/monitor/modal"
	"github.com/spf13/cobra"
)

var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"ui", "monitor"},
	Short:   "Open the interactive user dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

func runDashboard(cmd *cobra.Command) error {
	if !output.IsTerminal(output.Stdout) {
		err := fmt.Errorf("the dashboard needs a terminal; use 'userdash users list' in scripts")
		output.Error("%v", err)
		return err
	}

	opts := monitor.Options{
		Client:     newClient(),
		Modals:     modal.NewDispatcher(),
		PageSize:   cfg.PageSize,
		NoticeTTL:  cfg.NoticeTTL,
		CloseDelay: cfg.CloseDelay,
	}

	j, err := openJournal()
	if err != nil {
		output.Warning("activity journal unavailable: %v", err)
	}
	if j != nil {
		defer j.Close()
		opts.Journal = j
	}

	slog.Info("dashboard starting", "api", cfg.APIURL, "page_size", cfg.PageSize)
	p := tea.NewProgram(monitor.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		output.Error("dashboard: %v", err)
		return err
	}
	return nil
}

// openJournal returns nil without error when journaling is disabled
func openJournal() (*journal.Journal, error) {
	if journalDisabled(cfg.JournalPath) {
		return nil, nil
	}
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		slog.Warn("journal open failed", "path", cfg.JournalPath, "err", err)
		return nil, err
	}
	return j, nil
}

func init() {
	rootCmd.AddCommand(dashCmd)
}
