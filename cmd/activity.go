package cmd

import (
	"fmt"
	"time"

	"github.com/marcus/userdash/internal/journal"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/internal/output"
	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Aliases: []string{"log", "history"},
	Short:   "Show mutations recorded in the local activity journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := requireJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		opts, err := activityOptions(cmd)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		entries, err := j.Recent(ctx, opts)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if entries == nil {
				entries = []models.ActivityEntry{}
			}
			return output.JSON(output.Stdout, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(output.Stdout, "No activity recorded")
			return nil
		}
		return output.Activity(output.Stdout, entries)
	},
}

var activityPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete journal entries older than a duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			err := fmt.Errorf("--older-than must be positive")
			output.Error("%v", err)
			return err
		}

		j, err := requireJournal()
		if err != nil {
			return err
		}
		defer j.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		n, err := j.Prune(ctx, time.Now().Add(-age))
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("Pruned %d entries", n)
		return nil
	},
}

// activityOptions maps command flags onto journal filters
func activityOptions(cmd *cobra.Command) (journal.ListOptions, error) {
	flags := cmd.Flags()
	limit, _ := flags.GetInt("limit")
	user, _ := flags.GetString("user")
	action, _ := flags.GetString("action")
	failed, _ := flags.GetBool("failed")

	opts := journal.ListOptions{Limit: limit, UserID: models.ID(user), Failed: failed}
	switch a := models.ActionType(action); a {
	case "":
	case models.ActionCreate, models.ActionUpdate, models.ActionDelete:
		opts.Action = a
	default:
		return opts, fmt.Errorf("unknown action %q (want create, update or delete)", action)
	}
	return opts, nil
}

// requireJournal fails when journaling is turned off
func requireJournal() (*journal.Journal, error) {
	if journalDisabled(cfg.JournalPath) {
		err := fmt.Errorf("activity journal is disabled")
		output.Error("%v", err)
		return nil, err
	}
	j, err := openJournal()
	if err != nil {
		output.Error("%v", err)
		return nil, err
	}
	return j, nil
}

func init() {
	activityCmd.Flags().IntP("limit", "n", 50, "Maximum entries")
	activityCmd.Flags().String("user", "", "Only entries for this user id")
	activityCmd.Flags().String("action", "", "Only create, update or delete")
	activityCmd.Flags().Bool("failed", false, "Only failed operations")
	activityCmd.Flags().Bool("json", false, "JSON output")

	activityPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "Age cutoff")

	activityCmd.AddCommand(activityPruneCmd)
	rootCmd.AddCommand(activityCmd)
}
