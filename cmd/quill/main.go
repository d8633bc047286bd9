// Package main is the entry point for the quill editor core.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/quilledit/quill/internal/app"
	"github.com/quilledit/quill/internal/buffer"
	"github.com/quilledit/quill/internal/config"
	"github.com/quilledit/quill/internal/event"
	"github.com/quilledit/quill/internal/lang"
	"github.com/quilledit/quill/internal/settings"
	"github.com/quilledit/quill/internal/tabs"
	"github.com/quilledit/quill/internal/vfs"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath, logLevel := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger, closeLog, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()
	app.SetLogger(logger)

	bus := event.NewBus(event.WithPanicHandler(func(ev any, recovered any) {
		logger.Error("event handler panic on %T: %v", ev, recovered)
	}))

	fs := vfs.NewOSFS()
	registry := buffer.NewRegistry(fs, bus, buffer.WithMaxFileSize(cfg.MaxFileSize))
	strip := tabs.NewController(bus)

	langs := lang.NewRegistry()
	watcher := lang.NewWatcher(cfg.LanguagesDir, langs, bus,
		lang.WithErrorFunc(func(err error) {
			logger.WithComponent("lang").Warn("%v", err)
		}))
	if err := watcher.Start(); err != nil {
		logger.WithComponent("lang").Warn("definitions watcher unavailable: %v", err)
	}
	defer watcher.Close()

	store := settings.NewStore(fs, cfg.SettingsFile)
	if err := store.Load(); err != nil {
		logger.Warn("settings: %v", err)
	}

	ui := newConsole(os.Stdin, os.Stdout)
	workbench := app.New(app.Options{
		FS:           fs,
		Bus:          bus,
		Registry:     registry,
		Tabs:         strip,
		Languages:    langs,
		Recent:       settings.NewRecentFiles(store, cfg.RecentLimit),
		Settings:     store,
		Confirmer:    ui,
		Chooser:      ui,
		Notifier:     ui,
		Logger:       logger,
		CreateOnOpen: cfg.CreateOnOpen,
	})
	workbench.Start()

	if args := flag.Args(); len(args) > 0 {
		if _, err := workbench.OpenFiles(args); err != nil {
			logger.Warn("open: %v", err)
		}
	}

	// SIGINT / SIGTERM behave like quit. The repl goroutine owns the
	// workbench, so the signal is handled there, not here.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	return repl(workbench, ui, signals)
}

// repl drives the workbench from stdin until quit. Signals and input
// lines are serviced from the same loop; a signal arriving mid-prompt
// waits until the current intent finishes.
func repl(w *app.Workbench, ui *console, signals <-chan os.Signal) int {
	fmt.Printf("quill %s - type 'help' for commands\n", version)
	printTabs(w)

	for {
		fmt.Print("> ")
		var line string
		select {
		case <-signals:
			fmt.Println()
			if err := w.CloseAllForExit(); err != nil {
				// Cancelled: the window is intact, keep going.
				continue
			}
			return 0
		case got, ok := <-ui.lines:
			if !ok {
				// EOF quits, with the same checked close.
				fmt.Println()
				if err := w.CloseAllForExit(); err != nil {
					return 1
				}
				return 0
			}
			line = got
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			printHelp()
		case "ls":
			printTabs(w)
		case "new":
			w.NewFile()
			printTabs(w)
		case "open":
			paths := args
			if len(paths) == 0 {
				var ok bool
				if paths, ok = ui.ChooseOpenPaths(); !ok {
					continue
				}
			}
			if _, err := w.OpenFiles(paths); err != nil {
				fmt.Printf("! %v\n", err)
			}
			printTabs(w)
		case "switch":
			if i, ok := argIndex(args); ok {
				w.Tabs().SwitchTo(i)
			}
			printTabs(w)
		case "save":
			reportErr(w.Save(targetBuffer(w, args)))
		case "saveas":
			reportErr(w.SaveAs(targetBuffer(w, args)))
		case "saveall":
			reportErr(w.SaveAll())
		case "rename":
			reportErr(w.RenameFile(targetBuffer(w, args)))
		case "reload":
			reportErr(w.ReloadFile(targetBuffer(w, args)))
		case "close":
			if i, ok := argIndex(args); ok {
				reportErr(w.CloseFile(i))
			} else {
				reportErr(w.CloseCurrent())
			}
			printTabs(w)
		case "closeall":
			reportErr(w.CloseAll())
			printTabs(w)
		case "recent":
			for _, p := range w.RecentlyClosed() {
				fmt.Println(p)
			}
		case "restore":
			if _, err := w.RestoreLastClosed(); err != nil {
				reportErr(err)
			}
			printTabs(w)
		case "check":
			w.OnFocusIn()
		case "quit", "exit", "q":
			if err := w.CloseAllForExit(); err != nil {
				if !errors.Is(err, app.ErrUserCancelled) {
					fmt.Printf("! %v\n", err)
				}
				continue
			}
			return 0
		default:
			fmt.Printf("unknown command %q, try 'help'\n", cmd)
		}
	}
}

// targetBuffer resolves an optional tab index argument, defaulting to
// the current tab.
func targetBuffer(w *app.Workbench, args []string) *buffer.Buffer {
	if i, ok := argIndex(args); ok {
		return w.Tabs().At(i)
	}
	return w.Current()
}

func argIndex(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return i, true
}

func reportErr(err error) {
	if err != nil && !errors.Is(err, app.ErrUserCancelled) {
		fmt.Printf("! %v\n", err)
	}
}

func printTabs(w *app.Workbench) {
	for i, b := range w.Tabs().Buffers() {
		marker := " "
		if i == w.Tabs().CurrentIndex() {
			marker = "*"
		}
		dirty := ""
		if !b.AtSavePoint() {
			dirty = " [+]"
		}
		language := b.Language
		if language == "" {
			language = "plain"
		}
		fmt.Printf("%s %d: %s%s (%s)\n", marker, i, b.Name(), dirty, language)
	}
}

func printHelp() {
	fmt.Println(`commands:
  ls                     list tabs
  new                    new untitled buffer
  open [paths...]        open files
  switch <i>             select tab i
  save [i]               save buffer (current by default)
  saveas [i]             save buffer under a new path
  saveall                save every modified buffer
  rename [i]             move the buffer's file
  reload [i]             re-read the buffer from disk
  close [i]              close buffer
  closeall               close every buffer
  recent                 list recently closed files
  restore                reopen the last closed file
  check                  reconcile buffers with the file system
  quit                   close everything and exit`)
}

func parseFlags() (configPath, logLevel string) {
	var showVersion, showHelp bool

	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Quill - multi-document editor core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: quill [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("Quill %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}
	return configPath, logLevel
}

// buildLogger creates the application logger, writing to the
// configured log file when one is set.
func buildLogger(cfg config.Config) (*app.Logger, func(), error) {
	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = app.ParseLogLevel(cfg.LogLevel)

	closeLog := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		logCfg.Output = f
		closeLog = func() { _ = f.Close() }
	}
	return app.NewLogger(logCfg), closeLog, nil
}
