// Package cli implements the bedrockver command-line interface.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/minescope/bedrockver/pkg/bedrock"
	"github.com/minescope/bedrockver/pkg/buildinfo"
	"github.com/minescope/bedrockver/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "bedrockver"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Invoked without a subcommand, it prints the latest version on the requested
// release channel.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		preview bool
		jsonOut bool
		fetch   fetchFlags
	)

	root := &cobra.Command{
		Use:   "bedrockver",
		Short: "Bedrockver reports Minecraft Bedrock dedicated server versions",
		Long: `Bedrockver checks the official download links endpoint for Minecraft
Bedrock dedicated server releases and reports the latest version on the
stable or preview channel.`,
		Version:       buildinfo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := fetch.resolveOptions(cmd)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runLatest(ctx, opts, preview, jsonOut)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	fetch.register(root)
	root.Flags().BoolVar(&preview, "preview", false, "report the preview channel instead of stable")
	root.Flags().BoolVar(&jsonOut, "json", false, "emit the full channel report as JSON")

	// Register all subcommands
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a version checker client for CLI use.
func (c *CLI) newClient(opts bedrock.Options) *bedrock.Client {
	opts.Logger = c.Logger
	return bedrock.NewClient(opts)
}

// =============================================================================
// Fetch Flags
// =============================================================================

// fetchFlags holds the flags shared by every command that contacts the
// download links endpoint.
type fetchFlags struct {
	retries    int
	cooldown   time.Duration
	timeout    time.Duration
	endpoint   string
	configPath string
}

// register adds the fetch policy flags to cmd.
func (f *fetchFlags) register(cmd *cobra.Command) {
	defaults := bedrock.DefaultOptions()
	cmd.Flags().IntVar(&f.retries, "retries", defaults.Retries, "retry attempts after a failed fetch")
	cmd.Flags().DurationVar(&f.cooldown, "cooldown", defaults.Cooldown, "wait between fetch attempts")
	cmd.Flags().DurationVar(&f.timeout, "timeout", defaults.Timeout, "timeout per fetch attempt")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "override the download links endpoint URL")
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default ~/.config/bedrockver/config.toml)")
}

// resolveOptions loads the config file and overlays explicitly set flags.
func (f *fetchFlags) resolveOptions(cmd *cobra.Command) (bedrock.Options, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return bedrock.Options{}, err
	}
	return f.apply(cmd, cfg)
}

// apply resolves fetch options from built-in defaults, the config file, and
// explicitly set flags, in that order of precedence.
func (f *fetchFlags) apply(cmd *cobra.Command, cfg *Config) (bedrock.Options, error) {
	opts := cfg.fetchOptions()

	flags := cmd.Flags()
	if flags.Changed("retries") {
		opts.Retries = f.retries
	}
	if flags.Changed("cooldown") {
		opts.Cooldown = f.cooldown
	}
	if flags.Changed("timeout") {
		opts.Timeout = f.timeout
	}
	if flags.Changed("endpoint") {
		opts.Endpoint = f.endpoint
	}

	if opts.Endpoint != "" {
		if err := errors.ValidateEndpoint(opts.Endpoint); err != nil {
			return bedrock.Options{}, err
		}
	}
	return opts, nil
}

// =============================================================================
// Channel Helpers
// =============================================================================

// channelName returns the human-readable name of a release channel.
func channelName(preview bool) string {
	if preview {
		return errors.ChannelPreview
	}
	return errors.ChannelStable
}
