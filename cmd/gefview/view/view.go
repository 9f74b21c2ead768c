package view

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/gefview/pkg/gvcfg"
	"github.com/txn2/gefview/pkg/gvkeys"
	"github.com/txn2/gefview/pkg/gvsession"
	"github.com/txn2/gefview/pkg/gvstyles"
	"github.com/txn2/gefview/pkg/gvterm"
)

// cmdline arguments
var configPath string
var snapshotPath string
var verbose bool
var watch bool
var blankStale bool
var waitTimeout time.Duration
var fileWaitInterval time.Duration
var noDataBackoff time.Duration
var pollInterval time.Duration
var keyDelay time.Duration
var logFile string
var colorMode string

// Version is set by the main package
var Version string

// newKeyReader builds the listener's keyboard source.
// Replace this with a mock for testing.
var newKeyReader = func() gvterm.KeyReader {
	return gvterm.NewRawKeyReader(os.Stdin)
}

func init() {
	defaults := gvcfg.Default()

	Cmd.Flags().StringVarP(&configPath, "config", "c", gvcfg.DefaultPath(), "Path to a YAML config file.")
	Cmd.Flags().StringVarP(&snapshotPath, "file", "f", defaults.SnapshotPath, "Shared snapshot file written by the debugger.")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging.")
	Cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Use filesystem notifications to pick up new snapshots sooner.")
	Cmd.Flags().BoolVar(&blankStale, "blank-stale", false, "Clear rows the latest snapshot did not include instead of keeping their old text.")
	Cmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 0, "Give up if the snapshot file has not appeared after this long (0 waits forever).")
	Cmd.Flags().DurationVar(&fileWaitInterval, "file-wait-interval", defaults.FileWaitInterval, "Interval between checks for the snapshot file.")
	Cmd.Flags().DurationVar(&noDataBackoff, "no-data-backoff", defaults.NoDataBackoff, "Wait before polling again when no data is available.")
	Cmd.Flags().DurationVar(&pollInterval, "poll-interval", defaults.PollInterval, "Interval between snapshot polls.")
	Cmd.Flags().DurationVar(&keyDelay, "key-delay", defaults.KeyDelay, "Minimum delay between keystroke reads.")
	Cmd.Flags().StringVar(&logFile, "log-file", defaults.LogFile, "Log file (the terminal is reserved for the display). Empty disables logging.")
	Cmd.Flags().StringVar(&colorMode, "color", defaults.Color, "Colorize the prompt: auto, always or never.")
}

var Cmd = &cobra.Command{
	Use:   "view <regs|bt|backtrace>",
	Short: "Live view of debugger state",
	Long: `Show debugger state shared through the snapshot file.

The snapshot file is polled and its lines are repainted in place. Press 'q'
to exit.

Subcommands:
  regs            register values
  bt, backtrace   call stack (not yet supported)`,
	Example: "  gefview view regs\n" +
		"  gefview view regs --watch\n" +
		"  gefview view regs -f /tmp/gef/shared_view --wait-timeout 30s",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return UsageError(cmd.OutOrStdout(), "view takes exactly one subcommand")
		}
		return nil
	},
	RunE: runCmd,
}

// loadConfig reads the config file and applies flags the user set
func loadConfig(cmd *cobra.Command) (*gvcfg.Config, error) {
	cfg, err := gvcfg.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.SnapshotPath = gvcfg.ExpandHome(snapshotPath)
	}
	if flags.Changed("watch") {
		cfg.Watch = watch
	}
	if flags.Changed("blank-stale") {
		cfg.BlankStale = blankStale
	}
	if flags.Changed("wait-timeout") {
		cfg.WaitTimeout = waitTimeout
	}
	if flags.Changed("file-wait-interval") {
		cfg.FileWaitInterval = fileWaitInterval
	}
	if flags.Changed("no-data-backoff") {
		cfg.NoDataBackoff = noDataBackoff
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = pollInterval
	}
	if flags.Changed("key-delay") {
		cfg.KeyDelay = keyDelay
	}
	if flags.Changed("log-file") {
		cfg.LogFile = gvcfg.ExpandHome(logFile)
	}
	if flags.Changed("color") {
		cfg.Color = colorMode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging points logrus at the log file. The returned func closes it.
func setupLogging(cfg *gvcfg.Config) func() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.LogFile == "" {
		log.SetOutput(io.Discard)
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(io.Discard)
		f.Close()
	}
}

// setupSignalHandler cancels the session on SIGINT or SIGTERM
func setupSignalHandler(cancel context.CancelFunc) func() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Infof("Received %s, shutting down", sig)
			cancel()
		case <-stop:
		}
	}()

	return func() { close(stop) }
}

func runCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	closeLog := setupLogging(cfg)
	defer closeLog()
	log.Debugf("gefview %s: view %s", Version, args[0])

	gvstyles.SetColorMode(cfg.Color, gvterm.IsTerminal(os.Stdout.Fd()))

	out := gvterm.New(cmd.OutOrStdout())
	out.ClearScreen()
	if err := out.Flush(); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	queue := gvkeys.NewQueue()
	listener := gvkeys.NewListener(gvkeys.ListenerOpts{
		Terminal: out,
		Keys:     newKeyReader(),
		Queue:    queue,
		Prompt:   gvstyles.Prompt(),
		Delay:    cfg.KeyDelay,
	})
	listener.Start()

	var runErr error
	switch target := ParseTarget(args[0]); target {
	case TargetRegs:
		return viewRegs(cmd.Context(), cfg, out, queue, listener)
	case TargetBacktrace:
		out.Print(gvstyles.Notice(target.String() + " view is not yet supported"))
	default:
		out.Print("Unknown view subcommand.\r\n" + usageLine + "\r\n")
		runErr = &ExitError{Code: ExitUsage, Err: errors.Errorf("unknown view subcommand %q", args[0])}
	}
	if err := out.Flush(); err != nil {
		log.Warnf("Failed to write to terminal: %s", err)
	}

	// the listener owns the terminal mode; wait for it so the shell gets
	// the terminal back in its original state
	if err := listener.Wait(); err != nil {
		log.Warnf("Keystroke listener: %s", err)
	}
	return runErr
}

// viewRegs runs the live register view until quit, end of stream or a
// signal. The listener is joined through the driver's Finish.
func viewRegs(ctx context.Context, cfg *gvcfg.Config, out *gvterm.Terminal, queue *gvkeys.Queue, listener *gvkeys.Listener) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopSignals := setupSignalHandler(cancel)
	defer stopSignals()

	var notifier gvsession.Notifier
	if cfg.Watch {
		fw, err := gvsession.NewFileWatcher(cfg.SnapshotPath, gvsession.DefaultWatchQuiet)
		if err != nil {
			log.Warnf("Falling back to polling: %s", err)
		} else {
			defer fw.Close()
			notifier = fw
		}
	}

	driver := gvsession.New(gvsession.Opts{
		Config:   cfg,
		Terminal: out,
		Queue:    queue,
		Notifier: notifier,
	})

	result, err := driver.Run(ctx)
	if result.State == gvsession.StateEndOfStream {
		log.Infof("Snapshot stream ended, waiting for quit key")
	}
	if ferr := driver.Finish(listener); ferr != nil {
		log.Warnf("Keystroke listener: %s", ferr)
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gvsession.ErrWaitTimeout):
		return &ExitError{Code: ExitWaitTimeout, Err: err}
	default:
		return &ExitError{Code: ExitIO, Err: err}
	}
}
