package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlexStarov/epl-label-GoLang-lib/config"
	logInternal "github.com/AlexStarov/epl-label-GoLang-lib/log"
	"github.com/AlexStarov/epl-label-GoLang-lib/printer"
)

type app struct {
	cfg      config.Config
	log      *zap.Logger
	logCfg   logInternal.Config
	closeLog func() error
	lookup   printer.Lookup

	printerName string
	out         io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{out: os.Stdout}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "zlabel:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		configPath string
		verbose    bool
		logDir     string
	)

	flags := &labelFlags{}
	root := &cobra.Command{
		Use:   "zlabel",
		Short: "Print text labels on Zebra EPL printers",
		Long: "zlabel prints labels of up to five text lines on Zebra LP 2844 class\n" +
			"printers using the EPL2 command language. Without a subcommand it opens\n" +
			"the interactive form.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runForm(cmd.Context(), flags, cmd)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/zlabel/config.toml)")
	root.PersistentFlags().StringVarP(&a.printerName, "printer", "p", "", "print service name, matched ignoring case")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&logDir, "log-dir", "", "directory for rotated log files")
	flags.register(root, false)

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg

		lc := cfg.LogConfig()
		if verbose {
			lc.Level = "debug"
		}
		if logDir != "" {
			lc.Dir = logDir
		}
		a.logCfg = lc
		if a.log == nil {
			logger, closeFn, err := logInternal.New(lc)
			if err != nil {
				return err
			}
			a.log, a.closeLog = logger, closeFn
		}

		if a.printerName == "" {
			a.printerName = cfg.Printer
		}
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if a.closeLog == nil {
			return nil
		}
		_ = a.log.Sync()
		return a.closeLog()
	}

	root.AddCommand(
		newFormCmd(a),
		newPrintCmd(a),
		newPreviewCmd(a),
		newPrintersCmd(a),
		newStatusCmd(a),
	)
	return root
}

// lookupFor returns the configured devices followed by the system spooler,
// logging to logger.
func (a *app) lookupFor(logger *zap.Logger) printer.Lookup {
	if a.lookup != nil {
		return a.lookup
	}
	return printer.NewMultiLookup(logger,
		printer.DeviceLookup{Devices: a.cfg.PrinterDevices(), Logger: logger},
		printer.SystemLookup(),
	)
}

func (a *app) dispatcher(logger *zap.Logger) *printer.Dispatcher {
	return printer.NewDispatcher(a.lookupFor(logger), logger)
}

// formLogger returns the logger used while the form owns the terminal. It
// never writes to the console: the configured log files are used, or tea's
// log file when no dir is set.
func (a *app) formLogger() (*zap.Logger, func() error, error) {
	lc := a.logCfg
	if !lc.Console && a.log != nil {
		return a.log, func() error { return nil }, nil
	}
	lc.Console = false
	if lc.Dir != "" {
		return logInternal.New(lc)
	}

	path := filepath.Join(os.TempDir(), config.AppName+"-form.log")
	f, err := tea.LogToFile(path, config.AppName)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logInternal.NewWriter(lc.Level, f)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() error {
		_ = logger.Sync()
		return f.Close()
	}, nil
}
