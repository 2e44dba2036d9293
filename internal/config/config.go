package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair from a table.
type Entry struct {
	Key   string
	Value string
}

// File is a parsed configuration file. Each table is sorted by key.
type File struct {
	Path    string
	Options []Entry
	Binds   []Entry
	Aliases []Entry
}

// Option returns the value of an option and whether it was set.
func (f *File) Option(name string) (string, bool) {
	for _, e := range f.Options {
		if e.Key == name {
			return e.Value, true
		}
	}
	return "", false
}

// document is the shape shared by both formats.
type document struct {
	Options map[string]any    `toml:"options" yaml:"options"`
	Binds   map[string]string `toml:"binds" yaml:"binds"`
	Aliases map[string]string `toml:"aliases" yaml:"aliases"`
}

// Load reads and parses the file at path. The format is chosen by
// extension: .toml, .yaml or .yml.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses data as the format implied by path's extension.
func Parse(path string, data []byte) (*File, error) {
	var doc document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, tomlError(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f := &File{
		Path:    path,
		Binds:   entries(doc.Binds),
		Aliases: entries(doc.Aliases),
	}
	for k, v := range doc.Options {
		f.Options = append(f.Options, Entry{Key: k, Value: formatValue(v)})
	}
	sortEntries(f.Options)
	return f, nil
}

func tomlError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

func entries(m map[string]string) []Entry {
	out := make([]Entry, 0, len(m))
	for k, v := range m {
		out = append(out, Entry{Key: k, Value: v})
	}
	sortEntries(out)
	return out
}

func sortEntries(e []Entry) {
	sort.Slice(e, func(i, j int) bool { return e[i].Key < e[j].Key })
}

// formatValue renders a decoded scalar the way it would be typed on the
// command line.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
