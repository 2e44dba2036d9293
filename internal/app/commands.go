package app

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/imview/internal/command"
	"github.com/dshills/imview/internal/renderer/viewport"
)

// builtinCommands are registered on every session. Handlers ignore calls
// with the wrong number of arguments.
var builtinCommands = map[string]command.Handler[*Application]{
	"quit":               cmdQuit,
	"pan":                cmdPan,
	"select_rel":         cmdSelectRel,
	"select_abs":         cmdSelectAbs,
	"zoom":               cmdZoom,
	"open":               cmdOpen,
	"close":              cmdClose,
	"fullscreen":         cmdFullscreen,
	"overlay":            cmdOverlay,
	"exec":               cmdExec,
	"center":             cmdCenter,
	"top":                cmdTop,
	"bottom":             cmdBottom,
	"reset":              cmdReset,
	"next_frame":         cmdNextFrame,
	"toggle_playing":     cmdTogglePlaying,
	"scaling_mode":       cmdScalingMode,
	"slideshow_duration": cmdSlideshowDuration,
	"set":                cmdSet,
	"bind":               cmdBind,
	"alias":              cmdAlias,
}

func (a *Application) registerCommands() {
	for name, h := range builtinCommands {
		if err := a.commands.Register(name, h); err != nil {
			a.log.WithError(err).Error("register command")
		}
	}
}

// atoi parses a leading integer the way strtol does: junk yields 0.
func atoi(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func cmdQuit(a *Application, _ []string, _ string) error {
	a.quit = true
	return nil
}

func cmdPan(a *Application, args []string, _ string) error {
	if len(args) != 3 {
		return nil
	}
	a.view.Move(atoi(args[1]), atoi(args[2]), a.imageSize)
	return nil
}

func cmdSelectRel(a *Application, args []string, _ string) error {
	if len(args) != 2 {
		return nil
	}
	a.nav.SelectRelative(atoi(args[1]))
	a.slideshowElapsed = 0
	return nil
}

func cmdSelectAbs(a *Application, args []string, _ string) error {
	if len(args) != 2 {
		return nil
	}
	a.nav.SelectAbsolute(atoi(args[1]))
	a.slideshowElapsed = 0
	return nil
}

func cmdZoom(a *Application, args []string, _ string) error {
	if len(args) != 2 {
		return nil
	}
	if args[1] == "actual" {
		a.view.ScaleToActual(a.imageSize)
		return nil
	}
	a.view.Zoom(viewport.ZoomKeyboard, atoi(args[1]), viewport.Point{}, a.imageSize)
	return nil
}

// cmdOpen adds paths to the list. "-r" as the first argument expands
// directories recursively.
func cmdOpen(a *Application, args []string, _ string) error {
	recursive := a.opts.Recursive
	for i, arg := range args[1:] {
		if i == 0 && arg == "-r" {
			recursive = true
			continue
		}
		for _, path := range a.expandPath(arg) {
			a.nav.Add(path, recursive)
		}
	}
	return nil
}

// expandPath expands variables, a leading ~ and glob patterns. A pattern
// with no matches is returned unchanged.
func (a *Application) expandPath(arg string) []string {
	path := a.Expand(arg)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if strings.ContainsAny(path, "*?[") {
		if matches, err := filepath.Glob(path); err == nil && len(matches) > 0 {
			return matches
		}
	}
	return []string{path}
}

func cmdClose(a *Application, _ []string, _ string) error {
	if a.nav.Len() > 0 {
		a.nav.Remove(a.nav.Selection())
	}
	a.slideshowElapsed = 0
	return nil
}

func cmdFullscreen(a *Application, _ []string, _ string) error {
	a.setFullscreen(!a.view.Fullscreen())
	return nil
}

func cmdOverlay(a *Application, _ []string, _ string) error {
	a.opts.Overlay = !a.opts.Overlay
	a.needRedraw = true
	return nil
}

// cmdExec runs raw through the user's shell with the template variables
// in its environment. Output goes to the log.
func cmdExec(a *Application, _ []string, raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	env := a.environ()
	execLog := WithComponent(a.log, "exec").WithField("command", text)

	a.getRunner().Go(func() {
		cmd := exec.Command(shell, "-c", text)
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		if s := strings.TrimRight(string(out), "\n"); s != "" {
			execLog.Info(s)
		}
		if err != nil {
			execLog.WithError(NewOperationError("exec", shell, err)).Warn("command failed")
		}
	})
	return nil
}

func cmdCenter(a *Application, _ []string, _ string) error {
	a.view.Center(a.imageSize)
	return nil
}

func cmdTop(a *Application, _ []string, _ string) error {
	a.view.Top(a.imageSize)
	return nil
}

func cmdBottom(a *Application, _ []string, _ string) error {
	a.view.Bottom(a.imageSize)
	return nil
}

func cmdReset(a *Application, _ []string, _ string) error {
	a.needRescale = true
	a.needRedraw = true
	return nil
}

// cmdNextFrame shows the next animation frame as soon as it is decoded.
// A load already in flight is reused.
func cmdNextFrame(a *Application, _ []string, _ string) error {
	if a.current == nil || !a.current.CanLoadNext() {
		return nil
	}
	if a.pending == nil {
		a.loadNextFrame()
	}
	a.frameDue = time.Time{}
	a.frameDueSet = true
	return nil
}

func cmdTogglePlaying(a *Application, _ []string, _ string) error {
	a.view.TogglePlaying()
	return nil
}

func cmdScalingMode(a *Application, args []string, _ string) error {
	if len(args) != 2 {
		return nil
	}
	if args[1] == "next" {
		a.opts.Scaling = a.opts.Scaling.Next()
	} else {
		m, err := ParseScalingMode(args[1])
		if err != nil {
			return nil
		}
		a.opts.Scaling = m
	}
	a.needRescale = true
	a.needRedraw = true
	return nil
}

// cmdSlideshowDuration adds whole seconds to the slideshow duration,
// stopping at zero.
func cmdSlideshowDuration(a *Application, args []string, _ string) error {
	if len(args) != 2 {
		return nil
	}
	delta := time.Duration(atoi(args[1])) * time.Second
	if delta < 0 && -delta > a.opts.SlideshowDuration {
		a.opts.SlideshowDuration = 0
	} else {
		a.opts.SlideshowDuration += delta
	}
	a.needRedraw = true
	return nil
}

func cmdSet(a *Application, args []string, _ string) error {
	if len(args) < 3 {
		return nil
	}
	return a.SetOption(args[1], strings.Join(args[2:], " "))
}

func cmdBind(a *Application, args []string, _ string) error {
	if len(args) < 3 {
		return nil
	}
	return a.Bind(args[1], strings.Join(args[2:], " "))
}

func cmdAlias(a *Application, args []string, _ string) error {
	if len(args) < 3 {
		return nil
	}
	return a.Alias(args[1], strings.Join(args[2:], " "))
}
