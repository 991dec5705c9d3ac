// Package config holds the small set of constants the loader and IO manager
// need to find source files and apply settings overrides: recognized
// extensions, the default search path, and normalization mode. Modeled on
// the teacher's internal/config/constants.go.
package config

// SourceFileExt is the canonical extension used when none is specified.
const SourceFileExt = ".Mod"

// SourceFileExtensions are all recognized source file extensions, in the
// order spec.md §6 requires them tried: "M.Mod", "M.mod", "M.def".
var SourceFileExtensions = []string{".Mod", ".mod", ".def"}

// DefFileExt is the extension identifying a restricted definition file
// (spec.md §4.4/§6): declarations only, every export implicit.
const DefFileExt = ".def"

// HasSourceExt reports whether path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// TrimSourceExt removes a recognized source extension from name, if
// present.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// IsDefFile reports whether path names a ".def" definition file.
func IsDefFile(path string) bool {
	return len(path) >= len(DefFileExt) && path[len(path)-len(DefFileExt):] == DefFileExt
}

// DefaultSearchPath is the directory list searched, in order, when no
// oberonc.yaml override is present: the current working directory, then a
// fixed system path (spec.md §6).
var DefaultSearchPath = []string{".", "/usr/local/lib/oberon"}

// IsTestMode mirrors the teacher's config.IsTestMode flag. Nothing in this
// module reads it; search-path defaults are the same whether it is set or
// not.
var IsTestMode = false
