package command

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"unicode"
)

// Handler executes a command. args holds the tokenized statement with the
// command name at args[0]; raw is the unparsed text after the name.
type Handler[C any] func(ctx C, args []string, raw string) error

// Registry maps command names to handlers and aliases to replacement text.
type Registry[C any] struct {
	handlers map[string]Handler[C]
	aliases  map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		handlers: make(map[string]Handler[C]),
		aliases:  make(map[string]string),
	}
}

// Register adds or replaces the handler for name.
func (r *Registry[C]) Register(name string, h Handler[C]) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if h == nil {
		return fmt.Errorf("%w: nil handler for %q", ErrInvalidName, name)
	}
	r.handlers[name] = h
	return nil
}

// Unregister removes the handler for name.
func (r *Registry[C]) Unregister(name string) {
	delete(r.handlers, name)
}

// Alias makes name expand to replacement. An alias takes precedence over
// a handler of the same name. Aliases are expanded once; a replacement
// whose first word is the alias itself is rejected.
func (r *Registry[C]) Alias(name, replacement string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	first, _ := splitName(replacement)
	if first == "" {
		return fmt.Errorf("%w: empty replacement for alias %q", ErrInvalidName, name)
	}
	if first == name {
		return fmt.Errorf("%w: %q", ErrAliasLoop, name)
	}
	r.aliases[name] = strings.TrimSpace(replacement)
	return nil
}

// Has returns true if name is a registered command or alias.
func (r *Registry[C]) Has(name string) bool {
	if _, ok := r.handlers[name]; ok {
		return true
	}
	_, ok := r.aliases[name]
	return ok
}

// Names returns all command and alias names, sorted.
func (r *Registry[C]) Names() []string {
	names := make([]string, 0, len(r.handlers)+len(r.aliases))
	for name := range r.handlers {
		names = append(names, name)
	}
	for name := range r.aliases {
		if _, dup := r.handlers[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Execute runs a single statement. Empty statements are a no-op.
func (r *Registry[C]) Execute(ctx C, text string) error {
	name, rest := splitName(text)
	if name == "" {
		return nil
	}

	if replacement, ok := r.aliases[name]; ok {
		text = replacement
		if rest != "" {
			text += " " + rest
		}
		name, rest = splitName(text)
		if name == "" {
			return nil
		}
	}

	h, ok := r.handlers[name]
	if !ok {
		return &UnknownCommandError{Name: name}
	}

	args := Tokenize(text)
	if len(args) == 0 || args[0] != name {
		args = append([]string{name}, Tokenize(rest)...)
	}
	return r.call(h, ctx, args, rest)
}

// ExecuteList runs every statement of every entry in order. A failing
// statement does not stop the ones after it; all failures are joined.
func (r *Registry[C]) ExecuteList(ctx C, cmds []string) error {
	var errs []error
	for _, cmd := range cmds {
		for _, stmt := range SplitStatements(cmd) {
			if err := r.Execute(ctx, stmt); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// call executes a handler with panic recovery.
func (r *Registry[C]) call(h Handler[C], ctx C, args []string, raw string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			err = fmt.Errorf("%w: %s: %v\n%s", ErrPanic, args[0], p, stack[:n])
		}
	}()
	return h(ctx, args, raw)
}

func validName(name string) bool {
	return name != "" && strings.IndexFunc(name, unicode.IsSpace) < 0
}
