package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the optional "oberonc.yaml" override (SPEC_FULL.md §A.3):
// a search path list and the normalize_pointers default, loaded with the
// teacher's yaml dependency repurposed for the compiler's own settings file
// rather than a guest-language "yaml" builtin.
type Settings struct {
	SearchPath        []string `yaml:"search_path"`
	NormalizePointers bool     `yaml:"normalize_pointers"`
}

// DefaultSettings returns the settings in effect when no oberonc.yaml is
// found: the built-in search path, normalize_pointers off (spec.md §4.7's
// default is to stop at pointer boundaries).
func DefaultSettings() Settings {
	return Settings{SearchPath: append([]string(nil), DefaultSearchPath...)}
}

// LoadSettings reads path as a YAML settings file. A missing file is not an
// error: it returns DefaultSettings() unchanged. An empty SearchPath in the
// file falls back to DefaultSearchPath rather than leaving the search list
// empty.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return s, err
	}
	if len(loaded.SearchPath) > 0 {
		s.SearchPath = loaded.SearchPath
	}
	s.NormalizePointers = loaded.NormalizePointers
	return s, nil
}
