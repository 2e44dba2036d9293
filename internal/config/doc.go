// Package config loads the viewer's configuration file and watches it for
// changes.
//
// # Configuration Files
//
// A config file has three tables. Options are applied through the same
// setter the command line uses; binds map key sequences to command text;
// aliases map a command name to its replacement.
//
//	# ~/.config/imview/config.toml
//	[options]
//	background = "checks"
//	slideshow_duration = 2.5
//	overlay = true
//
//	[binds]
//	"<Shift+w>" = "exec wallpaper \"$imview_current_file\""
//	"gd" = "close; select_rel 0"
//
//	[aliases]
//	n = "select_rel 1"
//
// YAML files use the same three mappings.
//
// # Search Order
//
// Find returns the first file that exists among:
//
//	the explicit --config path
//	$IMVIEW_CONFIG
//	$XDG_CONFIG_HOME/imview/config.{toml,yaml,yml}
//	~/.config/imview/config.{toml,yaml,yml}
//	~/.imview.toml
//	/etc/imview/config.toml
//
// # Environment
//
// IMVIEW_<OPTION> variables override options from the file, so
// IMVIEW_SCALING_MODE=shrink sets scaling_mode.
//
// # Live Reload
//
// Watcher reports writes to the chosen file, debounced, so the viewer can
// re-apply it without restarting.
package config
