package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/bash-zoo/select/internal/config"
	"github.com/bash-zoo/select/internal/logger"
	"github.com/bash-zoo/select/internal/output"
	"github.com/bash-zoo/select/internal/payload"
	"github.com/bash-zoo/select/internal/prompt"
	"github.com/bash-zoo/select/internal/runner"
	"github.com/bash-zoo/select/internal/source"
)

// Version is set at build time with -ldflags "-X ...commands.Version=..."
var Version = "dev"

// ErrFailed is returned when a run ends in a failure that has already been
// reported on stderr.
var ErrFailed = errors.New("select failed")

// RootCmd creates and returns the root command for the select CLI
func RootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		showSchema bool
		dumpConfig bool
	)

	registry := prompt.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "select [file]",
		Short: "Interactive multi-select prompt for shell scripts",
		Long: `select reads a JSON payload describing a list of choices, shows an
interactive multi-select prompt on stderr and prints the chosen names to
stdout, one per line.

The payload is taken from the first of these that is non-empty:
  • the BZ_PAYLOAD environment variable
  • the file given as the first argument
  • stdin, when it is not a terminal

Payload:
  {"title": "Pick", "choices": [{"name": "a"}, {"name": "b", "message": "B"}]}

Cancelling the prompt prints nothing and exits 0.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		// Arguments after the payload file are ignored.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			diag := output.NewDiagnostics(cmd.ErrOrStderr())
			diag.SetVerbose(verbose)

			if showSchema {
				return writeSchema(cmd.OutOrStdout())
			}

			v := config.New(configPath)
			if err := v.BindPFlag("backends", cmd.Flags().Lookup("backend")); err != nil {
				return errors.Wrap(err, "binding --backend")
			}

			cfg, err := config.Load(v)
			if err != nil {
				diag.Error(fmt.Sprintf("Invalid configuration: %v", err))
				return ErrFailed
			}
			if used := v.ConfigFileUsed(); used != "" {
				diag.Verbose("Using config " + used)
			}

			if dumpConfig {
				data, err := cfg.YAML()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return errors.Wrap(err, "writing config")
			}

			log := newLogger(cfg.Log.Level, verbose, cmd.ErrOrStderr())
			logger.SetDefault(log)

			var path string
			if len(args) > 0 {
				path = args[0]
			}

			r := newRunner(cmd, path, cfg, registry, log)
			res := r.Run(cmd.Context())
			log.Debug("run finished",
				logger.F("status", res.Status.String()),
				logger.F("selected", len(res.Names)),
			)
			if res.ExitCode() != 0 {
				return errors.WithSecondaryError(ErrFailed, res.Err)
			}
			return nil
		},
	}

	cmd.SetVersionTemplate("select {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		output.NewDiagnostics(c.ErrOrStderr()).Error(err.Error())
		return errors.WithSecondaryError(ErrFailed, err)
	})

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a select.yml config file")
	flags.StringSlice("backend", nil, backendUsage(registry))
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.BoolVar(&showSchema, "schema", false, "Print the JSON schema of the payload and exit")
	flags.BoolVar(&dumpConfig, "dump-config", false, "Print the effective configuration as YAML and exit")

	return cmd
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RootCmd().ExecuteContext(ctx)
}

func newLogger(level string, verbose bool, w io.Writer) logger.Logger {
	lvl := logger.ParseLevel(level)
	if verbose {
		lvl = logger.LevelDebug
	}
	return logger.NewLogger(lvl, w)
}

func newRunner(cmd *cobra.Command, path string, cfg *config.Config, resolver runner.Resolver, log logger.Logger) *runner.Runner {
	r := runner.New(path)
	r.Resolver = resolver
	r.Backends = cfg.Backends
	r.DefaultTitle = cfg.Title
	r.Hint = cfg.Hint
	r.MinRows = cfg.Rows.Min
	r.MaxRows = cfg.Rows.Max
	r.Stdout = cmd.OutOrStdout()
	r.Stderr = cmd.ErrOrStderr()
	r.Log = log

	in := cmd.InOrStdin()
	r.Stdin = in
	r.Sources = []source.Source{source.Env(), source.File(path), stdinSource(in)}
	return r
}

func stdinSource(in io.Reader) source.Source {
	if f, ok := in.(source.FileDescriptor); ok {
		return source.Stdin(f)
	}
	return source.Reader(in, false)
}

func writeSchema(w io.Writer) error {
	data, err := json.MarshalIndent(payload.Schema(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling schema")
	}
	_, err = fmt.Fprintln(w, string(data))
	return errors.Wrap(err, "writing schema")
}

// backendUsage lists the registered backends with their descriptions for
// the --backend help text.
func backendUsage(reg *prompt.Registry) string {
	descs := reg.ListWithDescriptions()
	lines := make([]string, 0, len(descs))
	for _, name := range reg.List() {
		lines = append(lines, fmt.Sprintf("  %-6s %s", name, descs[name]))
	}
	return "Prompt backends to try, in order:\n" + strings.Join(lines, "\n")
}
