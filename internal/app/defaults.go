package app

import (
	"slices"

	"github.com/dshills/imview/internal/input/key"
)

// defaultBinds are installed unless suppress_default_binds is set.
var defaultBinds = []struct {
	keys     string
	commands string
}{
	{"q", "quit"},
	{"<Left>", "select_rel -1"},
	{"<LeftSquareBracket>", "select_rel -1"},
	{"<Right>", "select_rel 1"},
	{"<RightSquareBracket>", "select_rel 1"},
	{"gg", "select_abs 0"},
	{"<Shift+g>", "select_abs -1"},
	{"j", "pan 0 -50"},
	{"k", "pan 0 50"},
	{"h", "pan 50 0"},
	{"l", "pan -50 0"},
	{"x", "close"},
	{"f", "fullscreen"},
	{"d", "overlay"},
	{"p", "exec echo $imview_current_file"},
	{"<Equals>", "zoom 1"},
	{"<Up>", "zoom 1"},
	{"+", "zoom 1"},
	{"i", "zoom 1"},
	{"<Down>", "zoom -1"},
	{"-", "zoom -1"},
	{"o", "zoom -1"},
	{"c", "center"},
	{"s", "scaling_mode next"},
	{"a", "zoom actual"},
	{"r", "reset"},
	{".", "next_frame"},
	{"<Space>", "toggle_playing"},
	{"t", "slideshow_duration +1"},
	{"<Shift+t>", "slideshow_duration -1"},
}

// installDefaultBinds adds the default binds to the table.
func (a *Application) installDefaultBinds() {
	for _, b := range defaultBinds {
		if err := a.binds.Bind(b.keys, b.commands); err != nil {
			a.log.WithError(err).WithField("keys", b.keys).Error("invalid default bind")
		}
	}
}

// removeDefaultBinds clears every default bind that still holds its
// default commands. Binds made by the config or a script are kept.
func (a *Application) removeDefaultBinds() {
	for _, b := range defaultBinds {
		seq, err := key.ParseSequence(b.keys)
		if err != nil {
			continue
		}
		if slices.Equal(a.binds.Lookup(seq), []string{b.commands}) {
			a.binds.Clear(seq)
		}
	}
}
