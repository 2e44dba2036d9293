package config

import (
	"strings"
)

// EnvPrefix is the prefix of option override variables.
const EnvPrefix = "IMVIEW_"

// EnvOverrides returns the options set through IMVIEW_<OPTION> variables
// in environ, sorted by option name. IMVIEW_CONFIG is not an option and is
// skipped. Empty values are kept.
func EnvOverrides(environ []string) []Entry {
	var out []Entry
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) || name == EnvConfig {
			continue
		}
		option := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		if option == "" {
			continue
		}
		out = append(out, Entry{Key: option, Value: value})
	}
	sortEntries(out)
	return out
}
