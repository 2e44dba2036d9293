package app

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/imview/internal/renderer"
)

// ScalingMode decides how a newly shown image is fitted to the window.
type ScalingMode int

const (
	// ScaleNone shows images at their actual size.
	ScaleNone ScalingMode = iota
	// ScaleShrink shrinks images larger than the window and leaves the
	// rest at actual size.
	ScaleShrink
	// ScaleFull fits every image to the window.
	ScaleFull
)

// ParseScalingMode parses none, shrink or full.
func ParseScalingMode(s string) (ScalingMode, error) {
	switch s {
	case "none":
		return ScaleNone, nil
	case "shrink":
		return ScaleShrink, nil
	case "full":
		return ScaleFull, nil
	}
	return 0, fmt.Errorf("%w: scaling mode %q", ErrInvalidOption, s)
}

// String returns the option value for m.
func (m ScalingMode) String() string {
	switch m {
	case ScaleNone:
		return "none"
	case ScaleShrink:
		return "shrink"
	case ScaleFull:
		return "full"
	}
	return "unknown"
}

// Label returns the human readable description used in templates.
func (m ScalingMode) Label() string {
	switch m {
	case ScaleNone:
		return "actual size"
	case ScaleShrink:
		return "shrink to fit"
	case ScaleFull:
		return "scale to fit"
	}
	return "unknown"
}

// Next returns the following mode: none, shrink, full, then none again.
func (m ScalingMode) Next() ScalingMode {
	switch m {
	case ScaleNone:
		return ScaleShrink
	case ScaleShrink:
		return ScaleFull
	}
	return ScaleNone
}

// ResizePolicy decides what happens to the window when an image loads.
type ResizePolicy int

const (
	// ResizeNone leaves the window alone.
	ResizeNone ResizePolicy = iota
	// ResizeToImage resizes the window to the image.
	ResizeToImage
	// ResizeRecenter resizes the window and centers it on screen.
	ResizeRecenter
)

// ParseResizePolicy parses none, resize or recenter.
func ParseResizePolicy(s string) (ResizePolicy, error) {
	switch s {
	case "none":
		return ResizeNone, nil
	case "resize":
		return ResizeToImage, nil
	case "recenter":
		return ResizeRecenter, nil
	}
	return 0, fmt.Errorf("%w: autoresize %q", ErrInvalidOption, s)
}

// String returns the option value for p.
func (p ResizePolicy) String() string {
	switch p {
	case ResizeToImage:
		return "resize"
	case ResizeRecenter:
		return "recenter"
	default:
		return "none"
	}
}

// Default template texts.
const (
	DefaultTitleText = "imview - [${imview_current_index}/${imview_file_count}]" +
		" [${imview_width}x${imview_height}] [${imview_scale}%]" +
		" $imview_current_file [$imview_scaling_mode]"

	DefaultOverlayText = "[${imview_current_index}/${imview_file_count}]" +
		" [${imview_width}x${imview_height}] [${imview_scale}%]" +
		" $imview_current_file [$imview_scaling_mode]"
)

// Options holds every setting reachable through SetOption.
type Options struct {
	Scaling    ScalingMode
	Upscaling  renderer.Method
	Autoresize ResizePolicy
	Background renderer.Background

	// SlideshowDuration is how long each image is shown; zero disables
	// the slideshow.
	SlideshowDuration time.Duration

	LoopInput                 bool
	Recursive                 bool
	ListFilesAtExit           bool
	Fullscreen                bool
	Overlay                   bool
	StayFullscreenOnFocusLoss bool
	SuppressDefaultBinds      bool

	// Width and Height are the initial window request.
	Width, Height int

	TitleText   string
	OverlayText string

	ZoomStep     float64
	PanMargin    int
	ChordTimeout time.Duration

	// Exclude filters files found while expanding directories.
	Exclude []string

	// Workers selects a Pool runner when positive.
	Workers int
}

// DefaultOptions returns the settings used before any config is applied.
func DefaultOptions() Options {
	return Options{
		Scaling:      ScaleFull,
		Upscaling:    renderer.Linear,
		Autoresize:   ResizeNone,
		Background:   renderer.DefaultBackground,
		LoopInput:    true,
		Width:        1280,
		Height:       720,
		TitleText:    DefaultTitleText,
		OverlayText:  DefaultOverlayText,
		ZoomStep:     1.1,
		PanMargin:    16,
		ChordTimeout: time.Second,
	}
}

// optionSetter applies one option value to the application.
type optionSetter func(a *Application, value string) error

var optionSetters = map[string]optionSetter{
	"scaling_mode": func(a *Application, v string) error {
		m, err := ParseScalingMode(v)
		if err != nil {
			return err
		}
		a.opts.Scaling = m
		a.needRescale = true
		a.needRedraw = true
		return nil
	},
	"upscaling_method": func(a *Application, v string) error {
		m, err := renderer.ParseMethod(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		a.opts.Upscaling = m
		a.needRedraw = true
		return nil
	},
	"autoresize": func(a *Application, v string) error {
		p, err := ParseResizePolicy(v)
		if err != nil {
			return err
		}
		a.opts.Autoresize = p
		return nil
	},
	"background": func(a *Application, v string) error {
		bg, err := renderer.ParseBackground(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		a.opts.Background = bg
		a.needRedraw = true
		return nil
	},
	"slideshow_duration": func(a *Application, v string) error {
		d, err := parseSeconds(v)
		if err != nil {
			return err
		}
		a.opts.SlideshowDuration = d
		a.slideshowElapsed = 0
		a.needRedraw = true
		return nil
	},
	"loop_input": boolOption(func(a *Application, on bool) { a.opts.LoopInput = on }),
	"recursive":  boolOption(func(a *Application, on bool) { a.opts.Recursive = on }),
	"list_files_at_exit": boolOption(func(a *Application, on bool) {
		a.opts.ListFilesAtExit = on
	}),
	"fullscreen": boolOption(func(a *Application, on bool) {
		a.opts.Fullscreen = on
		a.setFullscreen(on)
	}),
	"overlay": boolOption(func(a *Application, on bool) {
		a.opts.Overlay = on
		a.needRedraw = true
	}),
	"stay_fullscreen_on_focus_loss": boolOption(func(a *Application, on bool) {
		a.opts.StayFullscreenOnFocusLoss = on
	}),
	"suppress_default_binds": boolOption(func(a *Application, on bool) {
		a.opts.SuppressDefaultBinds = on
		if on {
			a.removeDefaultBinds()
		}
	}),
	"width":  intOption(1, func(a *Application, n int) { a.opts.Width = n }),
	"height": intOption(1, func(a *Application, n int) { a.opts.Height = n }),
	"title_text": func(a *Application, v string) error {
		a.opts.TitleText = v
		a.needRedraw = true
		return nil
	},
	"overlay_text": func(a *Application, v string) error {
		a.opts.OverlayText = v
		a.needRedraw = true
		return nil
	},
	"zoom_step": func(a *Application, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 1 || math.IsInf(f, 0) {
			return fmt.Errorf("%w: zoom_step %q", ErrInvalidOption, v)
		}
		a.opts.ZoomStep = f
		a.view.SetZoomStep(f)
		return nil
	},
	"pan_margin": intOption(0, func(a *Application, n int) {
		a.opts.PanMargin = n
		a.view.SetPanMargin(n)
	}),
	"chord_timeout": func(a *Application, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: chord_timeout %q", ErrInvalidOption, v)
		}
		a.opts.ChordTimeout = d
		a.binds.SetChordTimeout(d)
		return nil
	},
	"exclude": func(a *Application, v string) error {
		var patterns []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		if err := a.nav.SetExclude(patterns); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOption, err)
		}
		a.opts.Exclude = patterns
		return nil
	},
	"workers": intOption(0, func(a *Application, n int) {
		if a.runner != nil && n != a.opts.Workers {
			a.log.WithField("workers", n).Warn("runner already started; workers takes effect next session")
		}
		a.opts.Workers = n
	}),
}

// OptionNames returns every option SetOption accepts, sorted.
func OptionNames() []string {
	names := make([]string, 0, len(optionSetters))
	for name := range optionSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetOption sets a named option from its text form. It is the single
// entry point for config files, environment overrides, flags, scripts and
// the set command.
func (a *Application) SetOption(name, value string) error {
	set, ok := optionSetters[name]
	if !ok {
		return NewOperationError("set", name, ErrUnknownOption)
	}
	if err := set(a, strings.TrimSpace(value)); err != nil {
		return NewOperationError("set", name, err)
	}
	return nil
}

// Options returns a copy of the current settings.
func (a *Application) Options() Options {
	opts := a.opts
	opts.Exclude = append([]string(nil), a.opts.Exclude...)
	return opts
}

// ParseBool reports whether s is 1, yes, true or on. Anything else is
// false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true", "on":
		return true
	}
	return false
}

func boolOption(apply func(a *Application, on bool)) optionSetter {
	return func(a *Application, v string) error {
		apply(a, ParseBool(v))
		return nil
	}
}

func intOption(min int, apply func(a *Application, n int)) optionSetter {
	return func(a *Application, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < min {
			return fmt.Errorf("%w: %q", ErrInvalidOption, v)
		}
		apply(a, n)
		return nil
	}
}

// maxMillis is the longest duration parseSeconds accepts, in
// milliseconds.
const maxMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// parseSeconds parses a non-negative number of seconds with millisecond
// precision.
func parseSeconds(v string) (time.Duration, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.Round(f*1000) >= maxMillis {
		return 0, fmt.Errorf("%w: duration %q", ErrInvalidOption, v)
	}
	return time.Duration(math.Round(f*1000)) * time.Millisecond, nil
}
