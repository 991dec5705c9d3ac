// Package loader resolves Oberon's module-name import graph on demand:
// given a module name, it searches a configured directory list for a
// matching source file, parses it, recursively loads its imports, builds
// and analyzes its ModuleTable, and caches the result by name (spec.md
// §4.4). Grounded on the teacher's internal/modules/loader.go: the
// cache-by-name map, the depth-first recursive Load, and a Processing set
// for cycle detection are reused nearly verbatim, adapted from Funxy's
// package-directory convention to Oberon's flat per-file module search.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/oberon-fe/oberonc/internal/analyzer"
	"github.com/oberon-fe/oberonc/internal/ast"
	"github.com/oberon-fe/oberonc/internal/config"
	"github.com/oberon-fe/oberonc/internal/diag"
	"github.com/oberon-fe/oberonc/internal/grammar"
	"github.com/oberon-fe/oberonc/internal/position"
	"github.com/oberon-fe/oberonc/internal/symbols"
)

// Loader owns the module-name → ModuleTable cache and the per-file
// diagnostic bags and position indexes produced along the way. Spec.md §5:
// "the module loader cache is the sole shared resource" — a Loader is
// scoped to one analysis session, never a process-wide singleton, so tests
// stay hermetic (spec.md §9's "keep it local" design note).
type Loader struct {
	SearchPath        []string
	NormalizePointers bool

	cache      map[string]*symbols.ModuleTable
	processing map[string]bool

	// TopLevelErrors collects file-not-found and unreadable-directory
	// failures (spec.md §7's third error taxonomy), in the order raised.
	TopLevelErrors []string

	// Diagnostics holds one Bag per successfully-opened file, keyed by its
	// path, so a caller can render every file's findings after Load
	// returns.
	Diagnostics map[string]*diag.Bag

	// Indexes holds the position.Index for every opened file, keyed by
	// path, for diagnostic rendering.
	Indexes map[string]*position.Index

	// FileOrder lists opened file paths in the order they were first read,
	// so a report can render them deterministically instead of iterating
	// Diagnostics' map order.
	FileOrder []string
}

// New returns a Loader configured from settings.
func New(settings config.Settings) *Loader {
	return &Loader{
		SearchPath:        settings.SearchPath,
		NormalizePointers: settings.NormalizePointers,
		cache:             make(map[string]*symbols.ModuleTable),
		processing:        make(map[string]bool),
		Diagnostics:       make(map[string]*diag.Bag),
		Indexes:           make(map[string]*position.Index),
	}
}

// Load resolves name to a source file, parses and analyzes it (recursively
// loading its imports first), and returns the resulting ModuleTable. A
// cached result is returned directly without re-reading its file. Failure
// returns (nil, false); the reason is either appended to TopLevelErrors
// (file not found, cycle) or recorded as a diagnostic in Diagnostics (parse
// or semantic failure).
func (l *Loader) Load(name string) (*symbols.ModuleTable, bool) {
	if table, ok := l.cache[name]; ok {
		log.WithField("module", name).Debug("loader: cache hit")
		return table, true
	}
	if l.processing[name] {
		l.topLevelError("Cyclic import involving module '%s'", name)
		return nil, false
	}

	path, ok := l.resolve(name)
	if !ok {
		l.topLevelError("File with module name '%s' not found", name)
		return nil, false
	}
	log.WithFields(log.Fields{"module": name, "path": path}).Debug("loader: resolved")

	src, err := os.ReadFile(path)
	if err != nil {
		l.topLevelError("Cannot read file '%s': %s", path, err.Error())
		return nil, false
	}

	idx := position.NewIndex(path, string(src))
	l.Indexes[path] = idx
	bag := diag.NewBag()
	l.Diagnostics[path] = bag
	l.FileOrder = append(l.FileOrder, path)

	result := grammar.ParseFile(path, string(src))
	if !result.OK {
		bag.Add(diag.NewError(diag.LParse, result.Err.Place, "%s", result.Err.Message(foundToken(string(src), result.Err.Place.Index))))
		return nil, false
	}

	l.processing[name] = true
	defer delete(l.processing, name)

	switch unit := result.Value.(type) {
	case *ast.Module:
		return l.buildModule(name, unit, bag)
	case *ast.DefinitionModule:
		return l.buildDefinitionModule(name, unit, bag)
	default:
		panic(fmt.Sprintf("loader: unrecognized parse result %T", unit))
	}
}

// foundToken returns a short, human-readable fragment of src at index, for
// the "found X" half of a parse-error message.
func foundToken(src string, index int) string {
	if index >= len(src) {
		return "end of input"
	}
	end := index + 16
	if end > len(src) {
		end = len(src)
	}
	frag := src[index:end]
	if nl := strings.IndexByte(frag, '\n'); nl >= 0 {
		frag = frag[:nl]
	}
	if frag == "" {
		return "end of input"
	}
	return "'" + frag + "'"
}

func (l *Loader) topLevelError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warn("loader: " + msg)
	l.TopLevelErrors = append(l.TopLevelErrors, msg)
}

// resolve searches SearchPath in order for name+ext, trying extensions in
// config.SourceFileExtensions order. The first match wins (spec.md §6).
func (l *Loader) resolve(name string) (string, bool) {
	for _, dir := range l.SearchPath {
		for _, ext := range config.SourceFileExtensions {
			candidate := filepath.Join(dir, name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}
	return "", false
}

// loadImports loads every entry of imports, returning the resolved
// dependency tables keyed by local alias, and false if any import failed to
// load (spec.md §4.4 step 4: "abort if any fails").
func (l *Loader) loadImports(imports []ast.ImportSpec) (map[string]*symbols.ModuleTable, bool) {
	deps := make(map[string]*symbols.ModuleTable, len(imports))
	for _, imp := range imports {
		dep, ok := l.Load(imp.Name.Name)
		if !ok {
			return nil, false
		}
		deps[imp.LocalName()] = dep
	}
	return deps, true
}

func (l *Loader) buildModule(name string, mod *ast.Module, bag *diag.Bag) (*symbols.ModuleTable, bool) {
	deps, ok := l.loadImports(mod.Imports)
	if !ok {
		return nil, false
	}
	table := symbols.NewModuleTable(mod.Name.Name)
	for alias, dep := range deps {
		table.AddImport(alias, dep)
	}
	analyzer.AnalyzeModule(mod, table, bag, l.NormalizePointers)
	if bag.HasErrors() {
		return nil, false
	}
	l.cache[name] = table
	log.WithField("module", name).Debug("loader: cached")
	return table, true
}

// buildDefinitionModule handles a ".def" restricted module: same import
// resolution as a full module, but every declared PROCEDURE becomes a VAR
// of ProcedureType with no body to check (spec.md §6, SPEC_FULL.md §C.1),
// and every declaration is implicitly exported.
func (l *Loader) buildDefinitionModule(name string, def *ast.DefinitionModule, bag *diag.Bag) (*symbols.ModuleTable, bool) {
	deps, ok := l.loadImports(def.Imports)
	if !ok {
		return nil, false
	}
	table := symbols.NewModuleTable(def.Name.Name)
	for alias, dep := range deps {
		table.AddImport(alias, dep)
	}
	analyzer.AnalyzeDefinitionModule(def, table, bag, l.NormalizePointers)
	if bag.HasErrors() {
		return nil, false
	}
	l.cache[name] = table
	log.WithField("module", name).Debug("loader: cached (definition)")
	return table, true
}
