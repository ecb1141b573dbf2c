// Package cli implements the vnbgeo command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/vnbgeo"
	"github.com/hupe1980/vnbgeo/codec"
	"github.com/hupe1980/vnbgeo/config"
	"github.com/spf13/cobra"
)

// Build information, set by the linker.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the persistent flags.
type RootOptions struct {
	ConfigPath string
	EnvFiles   []string
	LogLevel   string
	Output     string
}

// Context is the per-invocation state shared by subcommands.
type Context struct {
	Config *config.Config
	Logger *vnbgeo.Logger
	Output string
}

type contextKey struct{}

func fromCommand(cmd *cobra.Command) (*Context, error) {
	c, ok := cmd.Context().Value(contextKey{}).(*Context)
	if !ok {
		return nil, errors.New("cli: command context not initialized")
	}
	return c, nil
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "vnbgeo",
		Short:   "Browse German distribution grid operator (VNB) service areas",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringSliceVar(&opts.EnvFiles, "env-file", []string{".env"}, "dotenv files loaded before the config")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.Output, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newAssetsCmd(),
		newStatsCmd(),
		newBuildIndexCmd(),
	)
	return cmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.Output {
	case "text", "json":
	default:
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, contextKey{}, &Context{
		Config: cfg,
		Logger: logger,
		Output: opts.Output,
	}))
	return nil
}

func newLogger(lc config.LogConfig, w io.Writer) (*vnbgeo.Logger, error) {
	level, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	ho := &slog.HandlerOptions{Level: level}
	switch lc.Format {
	case "json":
		return vnbgeo.NewLogger(slog.NewJSONHandler(w, ho)), nil
	case "none":
		return vnbgeo.NoopLogger(), nil
	default:
		return vnbgeo.NewLogger(slog.NewTextHandler(w, ho)), nil
	}
}

// openBrowser opens the configured data root and a Browser over it. The
// returned close function releases both.
func openBrowser(ctx context.Context, c *Context, extra ...vnbgeo.Option) (*vnbgeo.Browser, func(), error) {
	store, err := c.Config.OpenStore(ctx, c.Logger.Logger)
	if err != nil {
		return nil, nil, err
	}

	cd, ok := codecFor(c)
	if !ok {
		_ = store.Close()
		return nil, nil, fmt.Errorf("unknown codec %q", c.Config.Engine.Codec)
	}

	opts := append([]vnbgeo.Option{
		vnbgeo.WithLogger(c.Logger),
		vnbgeo.WithCodec(cd),
		vnbgeo.WithCacheCapacity(c.Config.Engine.CacheCapacity),
		vnbgeo.WithBatchSize(c.Config.Engine.BatchSize),
		vnbgeo.WithViewportFilter(c.Config.Engine.ViewportFilter),
	}, extra...)

	b, err := vnbgeo.Open(ctx, store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return b, func() {
		_ = b.Close()
		_ = store.Close()
	}, nil
}

func codecFor(c *Context) (codec.Codec, bool) {
	return codec.ByName(c.Config.Engine.Codec)
}
