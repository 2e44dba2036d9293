// Package main is the entry point for the imview image viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dshills/imview/internal/app"
	"github.com/dshills/imview/internal/config"
	"github.com/dshills/imview/internal/navigator"
	"github.com/dshills/imview/internal/renderer"
	"github.com/dshills/imview/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks command line mistakes.
var errUsage = errors.New("usage")

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	cmd, _ := newRootCommand()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

type flags struct {
	fullscreen bool
	recursive  bool
	overlay    bool
	resize     bool
	recenter   bool
	noLoop     bool
	listFiles  bool
	start      string
	scaling    string
	upscaling  string
	background string
	slideshow  string
	workers    int

	configPath string
	scriptPath string
	logLevel   string
	logFile    string
	noWatch    bool
}

func newRootCommand() (*cobra.Command, *flags) {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "imview [options] [paths...]",
		Short: "imview - terminal image viewer",
		Long: `imview shows images in the terminal.

Paths may be files or directories. "-" reads image data from stdin. With
no paths, paths are read from stdin one per line.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args)
		},
	}
	cmd.SetVersionTemplate("imview {{.Version}}\n")

	fs := cmd.Flags()
	fs.BoolVarP(&f.fullscreen, "fullscreen", "f", false, "start fullscreen")
	fs.BoolVarP(&f.recursive, "recursive", "r", false, "expand directories recursively")
	fs.BoolVarP(&f.overlay, "overlay", "d", false, "show the overlay")
	fs.BoolVarP(&f.resize, "resize", "w", false, "resize the window to each image")
	fs.BoolVarP(&f.recenter, "recenter", "W", false, "resize and recenter the window for each image")
	fs.BoolVarP(&f.noLoop, "no-loop", "x", false, "exit after the last image instead of wrapping")
	fs.BoolVarP(&f.listFiles, "list", "l", false, "print the remaining paths on exit")
	fs.StringVarP(&f.start, "start", "n", "", "start at this path or 1-based index")
	fs.StringVarP(&f.scaling, "scaling", "s", "", "scaling mode: none, shrink or full")
	fs.StringVarP(&f.upscaling, "upscaling", "u", "", "upscaling method: linear or nearest_neighbour")
	fs.StringVarP(&f.background, "background", "b", "", "background: checks or a hex color")
	fs.StringVarP(&f.slideshow, "slideshow", "t", "", "slideshow duration in seconds")
	fs.IntVar(&f.workers, "workers", 0, "decode on a pool of n workers (0 spawns per task)")

	fs.StringVar(&f.configPath, "config", "", "path to the configuration file")
	fs.StringVar(&f.scriptPath, "script", "", "Lua script to run at startup")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&f.logFile, "log-file", "", "append log output to this file")
	fs.BoolVar(&f.noWatch, "no-watch", false, "do not reload the config file when it changes")

	return cmd, f
}

// optionFlags maps flags to the option they set and the value they set
// it to. Flags apply only when given, after the config file and the
// environment.
var optionFlags = []struct {
	flag   string
	option string
	value  func(f *flags) string
}{
	{"fullscreen", "fullscreen", func(*flags) string { return "true" }},
	{"recursive", "recursive", func(*flags) string { return "true" }},
	{"overlay", "overlay", func(*flags) string { return "true" }},
	{"resize", "autoresize", func(*flags) string { return app.ResizeToImage.String() }},
	{"recenter", "autoresize", func(*flags) string { return app.ResizeRecenter.String() }},
	{"no-loop", "loop_input", func(*flags) string { return "false" }},
	{"list", "list_files_at_exit", func(*flags) string { return "true" }},
	{"scaling", "scaling_mode", func(f *flags) string { return f.scaling }},
	{"upscaling", "upscaling_method", func(f *flags) string { return f.upscaling }},
	{"background", "background", func(f *flags) string { return f.background }},
	{"slideshow", "slideshow_duration", func(f *flags) string { return f.slideshow }},
	{"workers", "workers", func(f *flags) string { return fmt.Sprint(f.workers) }},
}

// flagOverrides returns the options set by the flags that were given.
func flagOverrides(f *flags, changed func(name string) bool) []config.Entry {
	var out []config.Entry
	for _, of := range optionFlags {
		if changed(of.flag) {
			out = append(out, config.Entry{Key: of.option, Value: of.value(f)})
		}
	}
	return out
}

// readStdinData returns the image data "-" stands for, or nil when no
// argument is "-".
func readStdinData(args []string, stdin io.Reader) ([]byte, error) {
	n := 0
	for _, a := range args {
		if a == navigator.StdinPath {
			n++
		}
	}
	switch n {
	case 0:
		return nil, nil
	case 1:
		return io.ReadAll(stdin)
	}
	return nil, fmt.Errorf("%w: image data can only be read from stdin once", errUsage)
}

func run(cmd *cobra.Command, f *flags, args []string) error {
	awaitPaths := len(args) == 0
	if awaitPaths && (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) {
		return fmt.Errorf("%w: no paths given and stdin is a terminal", errUsage)
	}

	stdinData, err := readStdinData(args, os.Stdin)
	if err != nil {
		return err
	}

	// Log output is held while the screen is active.
	var logTarget io.Writer = os.Stderr
	if f.logFile != "" {
		lf, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return app.NewOperationError("open", f.logFile, err).WithContext("log file")
		}
		defer lf.Close()
		logTarget = lf
	}
	logWriter := app.NewDeferredWriter(logTarget)
	defer func() { _ = logWriter.Release() }()

	logCfg := app.DefaultLoggerConfig()
	logCfg.Level = f.logLevel
	logCfg.Output = logWriter
	log, err := app.NewLogger(logCfg)
	if err != nil {
		return err
	}

	configPath, err := config.Find(f.configPath)
	if err != nil {
		return err
	}
	var cfgFile *config.File
	if configPath != "" {
		if cfgFile, err = config.Load(configPath); err != nil {
			return err
		}
	}

	term, err := backend.NewTerminal()
	if err != nil {
		return &app.InitError{Component: "terminal", Err: err}
	}
	if err := term.Init(); err != nil {
		return &app.InitError{Component: "terminal", Err: err}
	}
	var restoreOnce sync.Once
	restore := func() {
		restoreOnce.Do(func() {
			term.Shutdown()
			_ = logWriter.Release()
		})
	}
	defer restore()
	if f.logFile == "" {
		logWriter.Hold()
	}

	viewer, err := app.New(app.Config{
		Renderer:   renderer.New(term),
		Logger:     log,
		StdinData:  stdinData,
		AwaitPaths: awaitPaths,
		ConfigPath: configPath,
	})
	if err != nil {
		return err
	}
	defer viewer.Close()

	if cfgFile != nil {
		if err := viewer.ApplyConfig(cfgFile); err != nil {
			log.WithError(err).Error("config has errors")
		}
	}
	if err := viewer.ApplyEnv(os.Environ()); err != nil {
		log.WithError(err).Error("environment overrides have errors")
	}
	for _, o := range flagOverrides(f, cmd.Flags().Changed) {
		if err := viewer.SetOption(o.Key, o.Value); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}

	if f.scriptPath != "" {
		if err := viewer.LoadScript(f.scriptPath); err != nil {
			return err
		}
	}

	if configPath != "" && !f.noWatch {
		w, err := viewer.WatchConfig(configPath)
		if err != nil {
			log.WithError(err).Warn("cannot watch config file")
		} else {
			defer w.Close()
		}
	}

	for _, p := range args {
		viewer.AddPath(p)
	}
	if f.start != "" {
		if err := viewer.SelectStart(f.start); err != nil {
			log.WithError(err).Error("invalid starting image")
		}
	}

	if awaitPaths {
		log.Info("reading paths from stdin")
		go app.ReadPaths(os.Stdin, viewer.Channel())
	}
	go app.PollInput(term, viewer.Channel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = viewer.Run(ctx)
	restore()

	if lerr := viewer.ListFiles(os.Stdout); lerr != nil {
		log.WithError(lerr).Error("listing files")
	}

	if app.IsQuit(err) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
