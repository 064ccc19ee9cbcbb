package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marcus/userdash/internal/api"
	"github.com/marcus/userdash/internal/config"
	"github.com/marcus/userdash/internal/logging"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	version string

	// cfg is loaded once per invocation by the root pre-run hook
	cfg        *models.Config
	configPath string
	debug      bool
	closeLog   func() error
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "userdash",
	Short: "Manage users behind a JSON REST API",
	Long: `userdash - a terminal dashboard and CLI for the users collection of a JSON REST API.

Run without a subcommand to open the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closeLog != nil {
			return closeLog()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// normalizeFlag accepts config-file spelling (api_url) for flags (api-url)
func normalizeFlag(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func init() {
	// Set here rather than in the literal; setup reaches back into the command tree
	rootCmd.PersistentPreRunE = setup
	rootCmd.SetGlobalNormalizationFunc(normalizeFlag)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	pf.String("api-url", "", "Users collection URL (overrides config)")
	pf.Int("page-size", 0, "Rows per page, 1-100 (overrides config)")
	pf.Duration("timeout", 0, "Per-request timeout, 0 uses the transport default")
	pf.String("log-file", "", "Dashboard log file (overrides config)")
	pf.String("journal", "", "Activity journal path, \"off\" disables it")
	pf.BoolVar(&debug, "debug", false, "Debug logging")
}

// setup loads configuration and installs the logger for the running command
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		output.Error("%v", err)
		return err
	}
	cfg = loaded

	// The dashboard owns the terminal, so it logs to a file
	opts := logging.Options{Writer: output.Stderr, Debug: debug}
	if usesTerminal(cmd) {
		opts = logging.Options{File: cfg.LogFile, Debug: debug}
	}
	closeLog, err = logging.Setup(opts)
	if err != nil {
		output.Error("%v", err)
		return err
	}
	return nil
}

func usesTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd == dashCmd
}

// loadConfig reads the config file and environment, then applies any
// persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		c.APIURL, _ = flags.GetString("api-url")
	}
	if flags.Changed("page-size") {
		n, _ := flags.GetInt("page-size")
		c.PageSize = models.NormalizePageSize(n)
	}
	if flags.Changed("timeout") {
		c.RequestTimeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("log-file") {
		c.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("journal") {
		c.JournalPath, _ = flags.GetString("journal")
	}
	if c.RequestTimeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}
	return c, nil
}

// newClient builds the API client from the loaded config
func newClient() *api.Client {
	ua := "userdash"
	if version != "" {
		ua += "/" + version
	}
	return api.NewClient(cfg.APIURL, api.WithTimeout(cfg.RequestTimeout), api.WithUserAgent(ua))
}

// journalDisabled reports whether the journal path turns journaling off
func journalDisabled(path string) bool {
	return path == "" || path == "off" || path == "none"
}

// commandTimeout bounds a whole CLI command when a request timeout is set
func commandTimeout() time.Duration {
	if cfg.RequestTimeout <= 0 {
		return 0
	}
	return cfg.RequestTimeout * 4
}
