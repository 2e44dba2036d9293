package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dshills/imview/internal/config"
	"github.com/dshills/imview/internal/message"
	"github.com/dshills/imview/internal/plugin/lua"
)

// ApplyConfig applies a config file's options, then its aliases, then its
// binds. Every entry is attempted; failures are joined.
func (a *Application) ApplyConfig(f *config.File) error {
	var errs []error
	for _, e := range f.Options {
		if err := a.SetOption(e.Key, e.Value); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range f.Aliases {
		if err := a.Alias(e.Key, e.Value); err != nil {
			errs = append(errs, NewOperationError("alias", e.Key, err))
		}
	}
	for _, e := range f.Binds {
		if err := a.Bind(e.Key, e.Value); err != nil {
			errs = append(errs, NewOperationError("bind", e.Key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config %s: %w", f.Path, err)
	}
	return nil
}

// ApplyEnv applies IMVIEW_<OPTION> overrides from environ.
func (a *Application) ApplyEnv(environ []string) error {
	var errs []error
	for _, e := range config.EnvOverrides(environ) {
		if err := a.SetOption(e.Key, e.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// processEnv is read on reload.
var processEnv = os.Environ

// reloadConfig re-reads the config file after it changed on disk.
// Environment overrides are re-applied so they keep precedence.
func (a *Application) reloadConfig(path string) {
	cfgLog := WithComponent(a.log, "config").WithField("path", path)

	f, err := config.Load(path)
	if err != nil {
		cfgLog.WithError(err).Error("reload failed")
		return
	}
	if err := a.ApplyConfig(f); err != nil {
		cfgLog.WithError(err).Error("config has errors")
	}
	if err := a.ApplyEnv(processEnv()); err != nil {
		cfgLog.WithError(err).Error("environment overrides have errors")
	}
	a.needRedraw = true
	cfgLog.Info("config reloaded")
}

// WatchConfig posts ConfigChanged whenever the file at path changes.
// The caller closes the returned watcher.
func (a *Application) WatchConfig(path string) (*config.Watcher, error) {
	cfgLog := WithComponent(a.log, "config")
	return config.NewWatcher(path,
		func(p string) {
			a.ch.Post(message.ConfigChanged{Path: p})
		},
		config.WithErrorHandler(func(err error) {
			cfgLog.WithError(err).Warn("watch error")
		}),
	)
}

// scriptHost exposes the session to a Lua script.
type scriptHost struct {
	*Application
	log *logrus.Entry
}

// Log writes a script message at the named level. Unknown levels log
// at info.
func (h scriptHost) Log(level, msg string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	h.log.Log(lvl, msg)
}

// LoadScript runs a Lua init script against the session. The state stays
// open so commands the script registered keep working; Close releases it.
func (a *Application) LoadScript(path string) error {
	if a.script == nil {
		a.script = lua.NewState()
		lua.Install(a.script, scriptHost{
			Application: a,
			log:         WithComponent(a.log, "script").WithField("script", path),
		})
	}
	if err := a.script.DoFile(path); err != nil {
		return NewOperationError("load", path, err)
	}
	return nil
}

// Close releases resources held outside the main loop.
func (a *Application) Close() error {
	if a.script == nil {
		return nil
	}
	err := a.script.Close()
	a.script = nil
	return err
}
