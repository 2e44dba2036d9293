package app

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/dshills/imview/internal/command"
	"github.com/dshills/imview/internal/input/key"
	"github.com/dshills/imview/internal/input/mouse"
	"github.com/dshills/imview/internal/message"
	"github.com/dshills/imview/internal/navigator"
	"github.com/dshills/imview/internal/renderer/backend"
	"github.com/dshills/imview/internal/renderer/viewport"
)

// handleMessage applies one message from the channel.
func (a *Application) handleMessage(m message.Message, now time.Time) {
	switch m := m.(type) {
	case message.NewFrame:
		a.handleNewFrame(m, now)
	case message.BadImage:
		a.handleBadImage(m)
	case message.NewPath:
		a.nav.AddEntry(navigator.Entry{Path: m.Path, FromStdin: true}, a.opts.Recursive)
		a.needRedraw = true
	case message.PathsDone:
		a.awaitingPaths = false
		if m.Err != nil {
			WithComponent(a.log, "stdin").WithError(m.Err).Warn("reading paths failed")
		}
	case message.EnableInput:
		a.ignoreInput = false
	case message.Input:
		if a.ignoreInput {
			return
		}
		a.metrics.inputs.Add(1)
		a.handleInput(m.Event)
	case message.ConfigChanged:
		path := m.Path
		if path == "" {
			path = a.configPath
		}
		a.reloadConfig(path)
	}
}

// isCurrent reports whether gen belongs to the source being shown.
// Results from replaced sources are dropped.
func (a *Application) isCurrent(gen message.Generation) bool {
	return a.current != nil && gen == a.current.Generation()
}

func (a *Application) handleNewFrame(m message.NewFrame, now time.Time) {
	if !a.isCurrent(m.Gen) {
		a.metrics.staleFrames.Add(1)
		return
	}

	a.nextLoading = false
	if !m.NewImage {
		a.pending = m.Bitmap
		a.pendingFrametime = m.Frametime
		return
	}

	a.showBitmap(m.Bitmap)
	a.needRescale = true

	if a.opts.Autoresize != ResizeNone {
		a.render.ResizeWindow(m.Bitmap.Width, m.Bitmap.Height, a.opts.Autoresize == ResizeRecenter)
	}

	a.loading = false
	a.frameDueSet = m.Frametime > 0
	a.frameDue = now.Add(m.Frametime)
	a.pending = nil
	a.pendingFrametime = 0

	if m.Frametime > 0 {
		a.loadNextFrame()
	}
}

// loadNextFrame queues a next-frame load for the current source unless
// one is already in flight.
func (a *Application) loadNextFrame() {
	if a.nextLoading || a.current == nil || !a.current.CanLoadNext() {
		return
	}
	a.nextLoading = true
	a.getRunner().Go(a.current.LoadNextFrame)
}

func (a *Application) handleBadImage(m message.BadImage) {
	if !a.isCurrent(m.Gen) {
		return
	}
	a.metrics.decodeErrors.Add(1)
	a.nextLoading = false

	path := a.currentPath
	if path == navigator.StdinPath {
		a.stdinData = nil
		a.log.WithError(m.Err).Error("failed to load image from stdin")
	} else {
		WithComponent(a.log, "source").WithError(m.Err).WithField("path", path).Warn("cannot decode image")
	}

	a.loading = false
	a.nav.Remove(path)
}

// handleInput dispatches a terminal event.
func (a *Application) handleInput(ev backend.Event) {
	switch ev.Type {
	case backend.EventKey:
		a.handleKey(ev.Key)
	case backend.EventMouse:
		a.handleMouse(ev)
	case backend.EventResize:
		a.handleResize()
	case backend.EventFocus:
		a.handleFocus(ev.Focused)
	}
}

func (a *Application) handleKey(k key.Event) {
	if a.promptActive {
		a.handlePromptKey(k)
		return
	}

	if k.IsChar() && k.Rune == ':' {
		a.binds.Reset()
		a.promptActive = true
		a.prompt = ""
		a.needRedraw = true
		return
	}

	if cmds := a.binds.HandleEvent(k); len(cmds) > 0 {
		a.runCommands(cmds)
	}
}

func (a *Application) handlePromptKey(k key.Event) {
	switch {
	case k.IsEscape():
		a.closePrompt()
	case k.IsEnter():
		text := a.prompt
		a.closePrompt()
		a.runCommands([]string{text})
	case k.IsBackspace():
		if _, size := utf8.DecodeLastRuneInString(a.prompt); size > 0 {
			a.prompt = a.prompt[:len(a.prompt)-size]
		}
		a.needRedraw = true
	case k.IsChar():
		if len(a.prompt)+utf8.RuneLen(k.Rune) <= MaxPromptLen {
			a.prompt += string(k.Rune)
			a.needRedraw = true
		}
	}
}

// handleMouse zooms on the wheel and pans on a left-button drag.
func (a *Application) handleMouse(ev backend.Event) {
	g := a.mouse.Handle(ev)
	switch g.Kind {
	case mouse.Wheel:
		a.view.Zoom(viewport.ZoomMouse, g.Notches, viewport.Point{X: g.Pos.X, Y: g.Pos.Y}, a.imageSize)
	case mouse.Drag:
		a.view.Move(g.DX, g.DY, a.imageSize)
	}
}

func (a *Application) handleResize() {
	a.view.SetWindow(a.render.WindowSize())
	a.view.Update(a.imageSize)
	if !a.view.Locked() {
		a.needRescale = true
	}
}

func (a *Application) handleFocus(focused bool) {
	if focused {
		// Events queued before the focus change are stale; drop them
		// until the fence comes back around.
		a.ignoreInput = true
		a.ch.Post(message.EnableInput{})
	} else if a.view.Fullscreen() && !a.opts.StayFullscreenOnFocusLoss {
		a.setFullscreen(false)
	}
	a.view.Update(a.imageSize)
}

// runCommands executes command text and logs each failure. Unknown
// commands are only worth a debug line.
func (a *Application) runCommands(cmds []string) {
	err := a.commands.ExecuteList(a, cmds)
	if err == nil {
		return
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	cmdLog := WithComponent(a.log, "command")
	for _, err := range errs {
		a.metrics.commandErrors.Add(1)

		var unknown *command.UnknownCommandError
		if errors.As(err, &unknown) {
			entry := cmdLog.WithField("command", unknown.Name)
			if s := a.commands.Suggest(unknown.Name); s != "" {
				entry = entry.WithField("suggestion", s)
			}
			entry.Debug("unknown command")
			continue
		}
		cmdLog.WithError(err).Error("command failed")
	}
}
