// Package cli implements the rtictl command tree. Every command talks to a
// running apiserver through the pkg/client SDK; nothing here touches the
// database or the broker directly.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/opengov-in/rti-sahayak/internal/config"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	ServerAddr   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Logger       logging.Logger
	Client       *client.Client
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "rtictl",
		Short:   "RTI Sahayak CLI for drafting, filing, and tracking RTI applications",
		Long:    "rtictl turns citizen grievances into Right to Information applications:\nit classifies the query, routes it to the responsible public information\nofficer, drafts the application, and tracks the statutory response window\nthrough reminders and first appeals.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (optional)")
	pf.StringVar(&opts.ServerAddr, "server", "", "API server address (default: http://localhost:8080, env: RTI_SERVER)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-command timeout")

	cmd.AddCommand(
		NewSubmitCmd(),
		NewStatusCmd(),
		NewListCmd(),
		NewTrackCmd(),
		NewAppealCmd(),
		NewClassifyCmd(),
		NewSweepCmd(),
	)

	return cmd
}

// persistentPreRun initializes the logger and API client and stores the
// CLIContext on the command context for subcommands.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	apiClient, err := initClient(opts, logger)
	if err != nil {
		return fmt.Errorf("client initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Logger:       logger,
		Client:       apiClient,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
	}

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, cliCtx)
	cmd.SetContext(ctx)

	return nil
}

// initLogger creates a console logger on stderr so command output on stdout
// stays machine-readable.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := opts.LogLevel
	if opts.Verbose {
		level = "debug"
	}

	return logging.NewLogger(logging.Config{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// initClient resolves the server address with precedence flag > RTI_SERVER
// env > config file > default, then builds the SDK client.
func initClient(opts *RootOptions, logger logging.Logger) (*client.Client, error) {
	addr := opts.ServerAddr
	if addr == "" {
		addr = os.Getenv("RTI_SERVER")
	}
	if addr == "" && opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		addr = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if addr == "" {
		addr = "http://localhost:8080"
	}

	return client.NewClient(addr,
		client.WithTimeout(opts.Timeout),
		client.WithLogger(sdkLogger{logger}),
	)
}

// sdkLogger adapts the structured logger to the SDK's printf surface.
type sdkLogger struct {
	log logging.Logger
}

func (l sdkLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l sdkLogger) Infof(format string, args ...interface{}) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l sdkLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is nil")
	}

	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}

	return cliCtx, nil
}

// commandContext returns a context bounded by the global timeout.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, cliCtx.Timeout)
}

// Execute is the entry point for the rtictl binary.
func Execute() error {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd, err)
		return err
	}

	return nil
}

// printError writes a friendly error line to stderr, surfacing API error
// codes when present.
func printError(cmd *cobra.Command, err error) {
	out := cmd.ErrOrStderr()

	if apiErr, ok := err.(*client.APIError); ok {
		fmt.Fprintf(out, "Error: %s (%s)\n", apiErr.Message, apiErr.Code)
		return
	}
	fmt.Fprintf(out, "Error: %s\n", strings.TrimSpace(err.Error()))
}
