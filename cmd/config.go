package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/marcus/userdash/internal/config"
	"github.com/marcus/userdash/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change persisted settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after the file, USERDASH_* environment variables and flags are applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(output.Stdout, cfg)
		}

		tw := tabwriter.NewWriter(output.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "api_url\t%s\n", cfg.APIURL)
		fmt.Fprintf(tw, "page_size\t%d\n", cfg.PageSize)
		fmt.Fprintf(tw, "request_timeout\t%s\n", cfg.RequestTimeout)
		fmt.Fprintf(tw, "notice_ttl\t%s\n", cfg.NoticeTTL)
		fmt.Fprintf(tw, "close_delay\t%s\n", cfg.CloseDelay)
		fmt.Fprintf(tw, "log_file\t%s\n", cfg.LogFile)
		fmt.Fprintf(tw, "journal_path\t%s\n", cfg.JournalPath)
		return tw.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Persist one setting",
	Long: `Persist one setting to the config file.

Keys: api_url, page_size, request_timeout, notice_ttl, close_delay, log_file, journal_path.
Durations use Go syntax (500ms, 3s, 1m).`,
	Example: `  userdash config set page_size 25
  userdash config set journal_path off`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(configPath, args[0], args[1]); err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("%s = %s", args[0], args[1])
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(output.Stdout, configPath)
		return nil
	},
}

func init() {
	configShowCmd.Flags().Bool("json", false, "JSON output")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
