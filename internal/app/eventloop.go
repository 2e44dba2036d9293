package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/imview/internal/message"
	"github.com/dshills/imview/internal/navigator"
	"github.com/dshills/imview/internal/renderer"
	"github.com/dshills/imview/internal/renderer/viewport"
	"github.com/dshills/imview/internal/source"
)

// idleTimeout is the longest the loop sleeps with nothing scheduled.
const idleTimeout = time.Second

// errNoStdinData is reported when "-" is selected but nothing was read.
var errNoStdinData = errors.New("no image data on stdin")

// Run drives the session until quit, until the list runs out, or until
// ctx is done. A normal end returns ErrQuit or ErrNoInput; IsQuit
// recognizes both.
func (a *Application) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)
	defer a.closeRunner()
	defer func() {
		a.log.WithFields(a.metrics.Snapshot().Fields()).Debug("session finished")
	}()

	a.view.SetWindow(a.render.WindowSize())
	a.lastStep = time.Now()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		timeout, err := a.step(time.Now())
		if err != nil {
			return err
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(timeout)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.ch.Ready():
		case <-timer.C:
		}
	}
}

// step runs one iteration of the main loop and returns how long to sleep
// before the next one. A non-nil error ends the session.
func (a *Application) step(now time.Time) (time.Duration, error) {
	for !a.quit {
		m, ok := a.ch.TryRecv()
		if !ok {
			break
		}
		a.handleMessage(m, now)
	}
	if a.quit {
		return 0, ErrQuit
	}

	if !a.opts.LoopInput && a.nav.Wrapped() {
		return 0, ErrQuit
	}

	if a.nav.Len() == 0 && !a.awaitingPaths {
		a.log.Info("no input files left")
		return 0, ErrNoInput
	}

	for a.nav.PollChanged() {
		a.openSelection()
	}

	if a.needRescale {
		a.needRescale = false
		a.rescale()
	}

	if a.view.Playing() && a.pending != nil && a.frameDueSet && !now.Before(a.frameDue) {
		a.showBitmap(a.pending)
		a.frameDue = now.Add(a.pendingFrametime)
		a.pending = nil
		a.pendingFrametime = 0
		a.loadNextFrame()
	}

	dt := now.Sub(a.lastStep)
	if dt < 0 {
		dt = 0
	}
	a.lastStep = now

	advanced := false
	if a.opts.SlideshowDuration > 0 {
		a.slideshowElapsed += dt
		a.needRedraw = true
		if a.slideshowElapsed >= a.opts.SlideshowDuration {
			a.nav.SelectRelative(1)
			a.slideshowElapsed = 0
			advanced = true
		}
	}

	if a.view.NeedsRedraw() {
		a.needRedraw = true
	}
	if a.needRedraw {
		a.draw()
		a.needRedraw = false
	}

	if advanced {
		return 0, nil
	}
	return a.timeout(now), nil
}

// openSelection opens the selected path and starts loading it. A path no
// backend can open is dropped from the list.
func (a *Application) openSelection() {
	entry, ok := a.nav.Current()
	if !ok {
		return
	}
	path := entry.Path
	openLog := WithComponent(a.log, "source").WithField("path", path)

	var (
		src *source.Source
		err error
	)
	if path == navigator.StdinPath {
		if a.stdinData == nil {
			err = errNoStdinData
		} else {
			src, err = a.chain.OpenMemory(a.stdinData)
		}
	} else {
		src, err = a.chain.OpenPath(path)
	}
	if err != nil {
		a.metrics.openErrors.Add(1)
		openLog.WithError(err).Warn("cannot open image")
		a.nav.Remove(path)
		return
	}

	if old := a.current; old != nil {
		a.getRunner().Go(old.Free)
	}
	a.current = src
	a.currentPath = path
	a.pending = nil
	a.nextLoading = false
	a.frameDueSet = false

	openLog.WithField("backend", src.Backend()).Debug("opened image")
	a.getRunner().Go(src.LoadFirstFrame)

	a.loading = true
	a.view.SetPlaying(true)
	a.render.SetTitle(a.Expand(a.opts.TitleText))
}

// rescale fits the current image according to the scaling mode.
func (a *Application) rescale() {
	win := a.view.Window()
	if a.opts.Scaling == ScaleNone ||
		(a.opts.Scaling == ScaleShrink && win.Width > a.imageSize.Width && win.Height > a.imageSize.Height) {
		a.view.ScaleToActual(a.imageSize)
		return
	}
	a.view.ScaleToWindow(a.imageSize)
}

// showBitmap makes b the displayed image.
func (a *Application) showBitmap(b *message.Bitmap) {
	a.image = b.Image
	a.imageSize = viewport.Size{Width: b.Width, Height: b.Height}
	a.needRedraw = true
	a.metrics.framesShown.Add(1)
}

// timeout returns how long to sleep: at most idleTimeout, less when an
// animation frame or a slide change is due sooner.
func (a *Application) timeout(now time.Time) time.Duration {
	timeout := idleTimeout
	if a.view.Playing() && a.frameDueSet && a.frameDue.After(now) {
		if d := a.frameDue.Sub(now); d < timeout {
			timeout = d
		}
	}
	if d := a.opts.SlideshowDuration; d > 0 {
		if left := d - a.slideshowElapsed; left < timeout {
			timeout = left
		}
	}
	if timeout < 0 {
		timeout = 0
	}
	return timeout
}

// draw renders the current state and refreshes the title.
func (a *Application) draw() {
	start := time.Now()

	a.render.SetTitle(a.Expand(a.opts.TitleText))

	x, y := a.view.Offset()
	scene := renderer.Scene{
		Image:        a.image,
		X:            x,
		Y:            y,
		Scale:        a.view.Scale(),
		Background:   a.opts.Background,
		Upscaling:    a.opts.Upscaling,
		Prompt:       a.prompt,
		PromptActive: a.promptActive,
	}
	if a.opts.Overlay {
		scene.Overlay = a.Expand(a.opts.OverlayText)
	}
	a.render.Draw(scene)

	a.metrics.RecordRender(time.Since(start))
}
