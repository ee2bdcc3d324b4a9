// Package commands provides CLI commands for chatbtc.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatbtc/internal/config"
	apierrors "github.com/diogo/chatbtc/internal/errors"
	"github.com/diogo/chatbtc/internal/logging"
	"github.com/diogo/chatbtc/internal/render"
	"github.com/diogo/chatbtc/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the global flags
type rootOptions struct {
	configPath string
	verbose    bool
}

// environment is what a command needs once configuration is loaded
type environment struct {
	cfg     config.Config
	logger  *zap.Logger
	service AnswerService
}

// Close releases the service and flushes the logger
func (e *environment) Close() {
	e.service.Close()
	_ = e.logger.Sync()
}

// setup loads and validates the configuration, then builds the logger, the
// theme and the answer service.
func (o *rootOptions) setup(deps *Dependencies) (*environment, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var logPath string
	if cfg.Verbose {
		if logPath, err = cfg.LogPath(); err != nil {
			return nil, err
		}
	}
	logger, err := logging.New(logging.Options{Verbose: cfg.Verbose, Path: logPath})
	if err != nil {
		return nil, err
	}

	if err := applyTheme(cfg.Theme); err != nil {
		return nil, err
	}

	service, err := deps.NewService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("theme", cfg.Theme),
		zap.Duration("timeout", cfg.Timeout))

	return &environment{cfg: cfg, logger: logger, service: service}, nil
}

// applyTheme activates a TUI theme by name. Empty keeps the current one.
func applyTheme(name string) error {
	if name == "" {
		return nil
	}
	if !render.SetTUITheme(name) {
		return apierrors.NewConfigError(config.KeyTheme,
			fmt.Sprintf("unknown theme %q (available: %s)", name, strings.Join(render.TUIThemeNames(), ", ")))
	}
	tui.UpdateTheme()
	return nil
}

// NewRootCmd builds the command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chatbtc",
		Short: "Terminal chat client for Bitcoin questions",
		Long: `chatbtc is a terminal chat window that forwards your questions to a
question-answering service and shows the conversation.

Examples:
  chatbtc                               Start the chat window
  chatbtc ask "What is a UTXO?"         Ask a single question
  chatbtc ask -f question.md            Read the question from a file
  echo "What is a halving?" | chatbtc ask
  chatbtc config set base_url https://api.example.com/run
  chatbtc config show                   Print the configuration`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "chatbtc %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.chatbtc/config.json)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Write debug logs to the log file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	// Add subcommands
	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewAskCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))

	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
