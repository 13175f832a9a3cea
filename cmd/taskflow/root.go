package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/td0m/taskflow/internal/config"
	"github.com/td0m/taskflow/internal/logging"
	"github.com/td0m/taskflow/pkg/notify"
	"github.com/td0m/taskflow/pkg/persist"
	"github.com/td0m/taskflow/pkg/task"
)

// interactive marks commands that own the terminal, so change notices are
// not printed to stdout.
const interactive = "interactive"

// env is the state shared by every command of one invocation.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *task.Store
	events  *notify.Recorder
	adapter persist.Adapter
	closers []io.Closer
}

var flagKeys = map[string]string{
	"backend":   "storage.backend",
	"dir":       "storage.dir",
	"log-level": "log.level",
	"log-file":  "log.file",
	"quiet":     "notify.quiet",
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var cfgFile string

	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Organize your tasks with ease",
		Long:          "taskflow keeps tasks in categories, tags them with custom classes and runs a focus timer for the task at hand.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd, cfgFile)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default "+config.ConfigDir()+"/config.yaml)")
	f.String("backend", "", "storage backend: json, sqlite or memory")
	f.String("dir", "", "storage directory")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.String("log-file", "", `log file, "-" for stderr`)
	f.BoolP("quiet", "q", false, "do not print change notices")

	root.AddCommand(
		newAddCmd(e),
		newListCmd(e),
		newEditCmd(e),
		newDoneCmd(e),
		newRemoveCmd(e),
		newMoveCmd(e),
		newStatsCmd(e),
		newExportCmd(e),
		newCategoryCmd(e),
		newClassCmd(e),
		newTUICmd(e),
	)
	return root
}

func (e *env) open(cmd *cobra.Command, cfgFile string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, err := range errs {
			joined[i] = err
		}
		return fmt.Errorf("invalid config: %w", errors.Join(joined...))
	}
	e.cfg = cfg

	log, logCloser, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	e.log = log
	e.closers = append(e.closers, logCloser)

	adapter, err := persist.New(cfg.Storage.Backend, cfg.Storage.Dir, cfg.Storage.LockTimeout)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	e.adapter = adapter
	e.closers = append(e.closers, adapter)

	e.events = notify.NewRecorder()
	sinks := []notify.Notifier{e.events, notify.Log{Logger: log}}
	if !cfg.Notify.Quiet && cmd.Annotations[interactive] == "" {
		sinks = append(sinks, notify.NewWriter(cmd.OutOrStdout()))
	}
	e.store, err = task.Open(adapter, notify.Multi(sinks...), task.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "backend", cfg.Storage.Backend, "dir", cfg.Storage.Dir)
	return nil
}

func (e *env) close() error {
	var errs []error
	// adapter first, the log file goes last
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
