package app

import (
	"os"
	"strconv"
	"strings"
)

// VariablePrefix starts every template variable name.
const VariablePrefix = "imview_"

// Variables returns the live template variables, keyed by full name.
func (a *Application) Variables() map[string]string {
	index := 0
	if a.nav.Len() > 0 {
		index = a.nav.Index() + 1
	}
	loading := "0"
	if a.loading {
		loading = "1"
	}

	return map[string]string{
		VariablePrefix + "current_file":       a.nav.Selection(),
		VariablePrefix + "current_index":      strconv.Itoa(index),
		VariablePrefix + "file_count":         strconv.Itoa(a.nav.Len()),
		VariablePrefix + "width":              strconv.Itoa(a.imageSize.Width),
		VariablePrefix + "height":             strconv.Itoa(a.imageSize.Height),
		VariablePrefix + "scale":              strconv.Itoa(int(a.view.Scale() * 100)),
		VariablePrefix + "scaling_mode":       a.opts.Scaling.Label(),
		VariablePrefix + "loading":            loading,
		VariablePrefix + "slideshow_duration": strconv.Itoa(int(a.opts.SlideshowDuration.Seconds())),
		VariablePrefix + "slideshow_elapsed":  strconv.Itoa(int(a.slideshowElapsed.Seconds())),
	}
}

// Variable returns one template variable. The prefix may be omitted.
func (a *Application) Variable(name string) string {
	if !strings.HasPrefix(name, VariablePrefix) {
		name = VariablePrefix + name
	}
	return a.Variables()[name]
}

// Expand replaces $name and ${name} in text with template variables,
// falling back to the process environment.
func (a *Application) Expand(text string) string {
	vars := a.Variables()
	return os.Expand(text, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	})
}

// environ returns the process environment with the template variables
// added, for commands run through exec.
func (a *Application) environ() []string {
	env := os.Environ()
	for k, v := range a.Variables() {
		env = append(env, k+"="+v)
	}
	return env
}
