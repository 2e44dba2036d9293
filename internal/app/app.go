// Package app drives an image viewing session. It wires the navigator,
// the backend chain, the message channel, the command registry, the bind
// table and the viewport together and runs the main loop that owns them.
//
// Everything in Application is touched only by the goroutine that calls
// Run. Background work (decoding, reading paths from stdin, polling the
// terminal, watching the config file, running shell commands) reaches it
// by posting to the message channel.
package app

import (
	"context"
	"errors"
	"image"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/imview/internal/command"
	"github.com/dshills/imview/internal/input/bind"
	"github.com/dshills/imview/internal/input/mouse"
	"github.com/dshills/imview/internal/message"
	"github.com/dshills/imview/internal/navigator"
	"github.com/dshills/imview/internal/plugin/lua"
	"github.com/dshills/imview/internal/renderer"
	"github.com/dshills/imview/internal/renderer/viewport"
	"github.com/dshills/imview/internal/source"
	"github.com/dshills/imview/internal/source/codec"
)

// Renderer is the surface the session draws to.
// *renderer.Renderer implements it.
type Renderer interface {
	// WindowSize returns the drawable area in image pixels.
	WindowSize() viewport.Size
	// Draw composes and shows one frame.
	Draw(scene renderer.Scene)
	SetTitle(title string)
	ResizeWindow(width, height int, center bool)
	SetFullscreen(on bool)
}

// Config supplies the collaborators of an Application.
type Config struct {
	// Renderer is required.
	Renderer Renderer

	// Channel carries messages to the main loop. A new one is created
	// when nil.
	Channel *message.Channel

	// Runner runs decode tasks and shell commands. When nil, a Spawner or
	// a Pool is chosen from the workers option on first use.
	Runner source.Runner

	// Backends are tried in order. Defaults to codec.Default().
	Backends []source.Backend

	// Logger defaults to a discarding logger.
	Logger *logrus.Entry

	// StdinData is the image data "-" stands for.
	StdinData []byte

	// AwaitPaths keeps the session alive with an empty list until a
	// PathsDone message arrives.
	AwaitPaths bool

	// ConfigPath is the file reloaded on ConfigChanged.
	ConfigPath string
}

// MaxPromptLen caps the command prompt buffer in bytes.
const MaxPromptLen = 1024

// Application is one viewing session.
type Application struct {
	log  *logrus.Entry
	opts Options

	nav      *navigator.Navigator
	chain    *source.Chain
	ch       *message.Channel
	commands *command.Registry[*Application]
	binds    *bind.Table
	view     *viewport.Viewport
	render   Renderer
	metrics  *Metrics

	runner source.Runner
	pool   *source.Pool

	configPath string
	script     *lua.State

	current     *source.Source
	currentPath string

	image     image.Image
	imageSize viewport.Size

	pending          *message.Bitmap
	pendingFrametime time.Duration

	// nextLoading is set while a next-frame load for current is queued
	// or running.
	nextLoading bool

	// frameDue is meaningful only while frameDueSet; the zero time means
	// as soon as possible.
	frameDue    time.Time
	frameDueSet bool

	loading     bool
	needRedraw  bool
	needRescale bool
	ignoreInput bool

	promptActive bool
	prompt       string

	stdinData     []byte
	awaitingPaths bool

	slideshowElapsed time.Duration
	lastStep         time.Time

	mouse *mouse.Tracker

	quit    bool
	running atomic.Bool
}

// New creates a session. Paths are added with AddPath before Run.
func New(cfg Config) (*Application, error) {
	if cfg.Renderer == nil {
		return nil, &InitError{Component: "renderer", Err: errors.New("no renderer")}
	}
	if cfg.Channel == nil {
		cfg.Channel = message.NewChannel()
	}
	if cfg.Logger == nil {
		cfg.Logger = NullLogger()
	}
	if cfg.Backends == nil {
		cfg.Backends = codec.Default()
	}

	a := &Application{
		log:           cfg.Logger,
		opts:          DefaultOptions(),
		nav:           navigator.New(),
		ch:            cfg.Channel,
		commands:      command.NewRegistry[*Application](),
		binds:         bind.NewTable(),
		mouse:         mouse.NewTracker(),
		render:        cfg.Renderer,
		metrics:       NewMetrics(),
		runner:        cfg.Runner,
		configPath:    cfg.ConfigPath,
		stdinData:     cfg.StdinData,
		awaitingPaths: cfg.AwaitPaths,
	}

	a.chain = source.NewChain(a.ch)
	for _, b := range cfg.Backends {
		a.chain.Append(b)
	}

	navLog := WithComponent(a.log, "navigator")
	a.nav.OnError(func(path string, err error) {
		navLog.WithError(err).WithField("path", path).Debug("skipping unreadable directory")
	})

	vcfg := viewport.DefaultConfig()
	vcfg.ZoomStep = a.opts.ZoomStep
	vcfg.PanMargin = a.opts.PanMargin
	a.view = viewport.New(a.render.WindowSize(), vcfg)

	a.binds.SetChordTimeout(a.opts.ChordTimeout)
	a.registerCommands()
	a.installDefaultBinds()

	return a, nil
}

// AddPath appends a path given on the command line or by a script.
func (a *Application) AddPath(path string) {
	a.nav.Add(path, a.opts.Recursive)
}

// SelectStart selects the image the session opens first: a path in the
// list, or a 1-based index.
func (a *Application) SelectStart(start string) error {
	if i, ok := a.nav.Find(start); ok {
		a.nav.SelectAbsolute(i)
		return nil
	}
	n, err := strconv.Atoi(start)
	if err != nil || n < 1 || n > a.nav.Len() {
		return NewOperationError("select", start, ErrInvalidOption).WithContext("starting image")
	}
	a.nav.SelectAbsolute(n - 1)
	return nil
}

// Paths returns the paths still in the list.
func (a *Application) Paths() []string {
	return a.nav.Paths()
}

// Channel returns the channel producers post to.
func (a *Application) Channel() *message.Channel {
	return a.ch
}

// Metrics returns the session counters.
func (a *Application) Metrics() *Metrics {
	return a.metrics
}

// Execute runs command text, which may hold several statements.
func (a *Application) Execute(text string) error {
	return a.commands.ExecuteList(a, []string{text})
}

// Bind binds keys to command text, replacing any earlier bind.
func (a *Application) Bind(keys, commands string) error {
	return a.binds.Bind(keys, commands)
}

// Alias makes name expand to replacement.
func (a *Application) Alias(name, replacement string) error {
	return a.commands.Alias(name, replacement)
}

// RegisterCommand adds a command implemented outside the package.
func (a *Application) RegisterCommand(name string, fn func(args []string, raw string) error) error {
	return a.commands.Register(name, func(_ *Application, args []string, raw string) error {
		return fn(args, raw)
	})
}

// ListFiles writes the remaining paths to w, one per line, when
// list_files_at_exit is set. Call it after the terminal is restored.
func (a *Application) ListFiles(w io.Writer) error {
	if !a.opts.ListFilesAtExit {
		return nil
	}
	for _, p := range a.nav.Paths() {
		if _, err := io.WriteString(w, p+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// getRunner returns the task runner, creating it on first use.
func (a *Application) getRunner() source.Runner {
	if a.runner != nil {
		return a.runner
	}
	if a.opts.Workers > 0 {
		runLog := WithComponent(a.log, "runner")
		a.pool = source.NewPool(
			source.WithWorkers(a.opts.Workers),
			source.WithPanicHandler(func(r any, stack []byte) {
				runLog.WithField("panic", r).Errorf("task panicked\n%s", stack)
			}),
		)
		a.runner = a.pool
	} else {
		a.runner = source.Spawner{}
	}
	return a.runner
}

// closeRunner frees the current source and stops a pool runner.
func (a *Application) closeRunner() {
	if a.current != nil {
		a.current.Free()
		a.current = nil
	}
	if a.pool == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.pool.Close(ctx); err != nil {
		a.log.WithError(err).Warn("runner did not stop cleanly")
	}
}

func (a *Application) setFullscreen(on bool) {
	a.view.SetFullscreen(on)
	a.render.SetFullscreen(on)
	a.needRedraw = true
}

func (a *Application) closePrompt() {
	a.promptActive = false
	a.prompt = ""
	a.needRedraw = true
}
