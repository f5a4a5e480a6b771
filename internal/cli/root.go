// Package cli implements the board command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/boards/internal/dispatch"
	"github.com/mesh-intelligence/boards/internal/metrics"
	"github.com/mesh-intelligence/boards/internal/paths"
	"github.com/mesh-intelligence/boards/internal/storage"
	"github.com/mesh-intelligence/boards/pkg/taskmodel"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir   string
	dataDir     string
	backend     string
	logLevel    string
	metricsFile string
	jsonMode    bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags rootFlags
	log   *logrus.Logger

	v         *viper.Viper
	configDir string
	cfg       types.Config

	backend  storage.Backend
	registry *prometheus.Registry
	disp     *dispatch.Dispatcher
}

func newApp(stderr io.Writer) *app {
	log := logrus.New()
	log.SetOutput(stderr)
	return &app{log: log}
}

// NewRootCmd creates the top-level "board" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp(os.Stderr))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "board",
		Short: "A personal kanban board",
		Long: "board keeps boards of columns of tasks. Columns can be reordered and\n" +
			"carry a soft WIP limit; boards rotate in a cycle.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	pf.StringVar(&a.flags.backend, "backend", "", "store backend: memory, sqlite, redis or nats")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "write store metrics in Prometheus text format to this file on exit")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newShowCmd(a),
		newBoardCmd(a),
		newColumnCmd(a),
		newTaskCmd(a),
		newTemplatesCmd(a),
	)
	return root
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := newApp(stderr)
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := a.close(); cerr != nil {
		err = errors.Join(err, &systemError{err: cerr})
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// setup loads the configuration. It does not open the store.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return &systemError{err: fmt.Errorf("resolve config dir: %w", err)}
	}
	v, err := loadConfig(configDir, cmd.Root().PersistentFlags())
	if err != nil {
		return &systemError{err: err}
	}

	level, err := logrus.ParseLevel(v.GetString(cfgKeyLogLevel))
	if err != nil {
		return &usageError{err: err}
	}
	a.log.SetLevel(level)

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return &systemError{err: fmt.Errorf("resolve data dir: %w", err)}
	}

	a.v = v
	a.configDir = configDir
	a.cfg = storeConfig(v, dataDir)
	a.log.WithFields(logrus.Fields{
		"config_dir": configDir,
		"data_dir":   dataDir,
		"backend":    a.cfg.Backend,
	}).Debug("configuration loaded")
	return nil
}

// open connects the configured backend and loads the task model. It is
// called by the commands that need the model.
func (a *app) open(ctx context.Context) (*dispatch.Dispatcher, error) {
	if a.disp != nil {
		return a.disp, nil
	}
	if err := a.cfg.Validate(); err != nil {
		return nil, &usageError{err: fmt.Errorf("invalid config: %w", err)}
	}

	backend, err := storage.Open(ctx, a.cfg, a.log)
	if err != nil {
		return nil, &systemError{err: fmt.Errorf("open store: %w", err)}
	}
	a.backend = backend

	var store types.Store = backend
	if a.flags.metricsFile != "" {
		registry, m := metrics.NewRegistry()
		a.registry = registry
		store = metrics.Instrument(backend, m)
	}

	model := taskmodel.New(store, taskmodel.WithLogger(a.log))
	if err := model.Load(ctx); err != nil {
		return nil, &systemError{err: fmt.Errorf("load boards: %w", err)}
	}
	a.disp = dispatch.New(model, a.log)
	return a.disp, nil
}

// close writes the metrics file and closes the backend.
func (a *app) close() error {
	var errs []error
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		a.backend = nil
	}
	if a.registry != nil {
		if err := metrics.WriteTextfile(a.flags.metricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
		a.registry = nil
	}
	return errors.Join(errs...)
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// argsUsage wraps a cobra positional-argument validator so that its
// failures are reported as usage errors.
func argsUsage(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
