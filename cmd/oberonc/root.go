// Package main is the thin CLI driver wiring config, the loader, and the IO
// manager together (spec.md §1 keeps the full CLI argument-handling UX
// external to the core; this is the minimal cobra entry point the rest of
// the pack uses to reach a library, grounded on
// _examples/Consensys-go-corset/pkg/cmd/root.go's rootCmd/Execute shape).
package main

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oberon-fe/oberonc/internal/config"
	"github.com/oberon-fe/oberonc/internal/ioman"
)

var rootCmd = &cobra.Command{
	Use:   "oberonc",
	Short: "Semantic front-end for Oberon-07.",
	Long:  "Parses, resolves, and type-checks Oberon-07 modules without generating code.",
}

var checkCmd = &cobra.Command{
	Use:   "check <module-or-file>...",
	Short: "Parse and analyze one or more modules, reporting diagnostics on stderr.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("normalize-pointers", false, "normalize type names across pointer boundaries during type checking")
	checkCmd.Flags().String("config", "", "path to an oberonc.yaml settings file")
	checkCmd.Flags().Bool("verbose", false, "enable debug-level tracing of module resolution")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(log.DebugLevel)
	}

	settingsPath, _ := cmd.Flags().GetString("config")
	if settingsPath == "" {
		settingsPath = "oberonc.yaml"
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", settingsPath, err)
	}
	if normalize, _ := cmd.Flags().GetBool("normalize-pointers"); normalize {
		settings.NormalizePointers = true
	}

	// Each argument may be a bare module name or a path to a source file;
	// a path contributes its directory to the search path so the loader
	// finds it by name, per spec.md §6.
	names := make([]string, 0, len(args))
	for _, arg := range args {
		dir := filepath.Dir(arg)
		if dir != "." && dir != "" {
			settings.SearchPath = append([]string{dir}, settings.SearchPath...)
		}
		base := filepath.Base(arg)
		names = append(names, config.TrimSourceExt(base))
	}

	mgr := ioman.New(settings)
	report := mgr.Check(names...)
	if text := report.String(); text != "" {
		fmt.Fprintln(os.Stderr, text)
	}
	if !report.OK {
		os.Exit(1)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
