package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goplus/cmakepkg"
	"github.com/goplus/cmakepkg/target"
)

var (
	findMinVersion  string
	findComponents  []string
	findTarget      string
	findPrefixPaths []string
	findJSON        bool
	findStableOrder bool
	findVerbose     bool
)

var findCmd = &cobra.Command{
	Use:   "find [package]",
	Short: "Find a CMake package and print its build configuration",
	Long: `Find locates a CMake package on the host. Without --target it prints the
package name and version; with --target it resolves the imported target's
transitive interface properties and prints them as compiler and linker
flags (or as JSON with --json).`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	findCmd.Flags().StringVar(&findMinVersion, "min-version", "", "Minimum acceptable package version")
	findCmd.Flags().StringSliceVar(&findComponents, "components", nil, "Required package components")
	findCmd.Flags().StringVar(&findTarget, "target", "", "Imported target to resolve (e.g. OpenSSL::SSL)")
	findCmd.Flags().StringSliceVar(&findPrefixPaths, "prefix-path", nil, "Extra CMAKE_PREFIX_PATH entries")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "Print the result as JSON")
	findCmd.Flags().BoolVar(&findStableOrder, "stable-link-order", false,
		"Keep first-occurrence link library order instead of sorting")
	findCmd.Flags().BoolVarP(&findVerbose, "verbose", "v", false, "Stream cmake output")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	opts := cmakepkg.Options{
		MinVersion:  findMinVersion,
		Components:  findComponents,
		PrefixPaths: findPrefixPaths,
		Verbose:     findVerbose,
	}
	if findStableOrder {
		opts.Dedup = target.StableDedup
	}

	pkg, err := cmakepkg.Find(args[0], opts)
	if err != nil {
		return fmt.Errorf("find %s: %w", args[0], err)
	}
	defer pkg.Close()

	if findTarget == "" {
		return printPackage(pkg)
	}

	resolved, err := pkg.Target(findTarget)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", findTarget, err)
	}
	if findJSON {
		return printJSON(resolved)
	}
	flags := cmakepkg.Flags(resolved)
	fmt.Printf("CFLAGS=%s\n", strings.Join(flags.CFlags, " "))
	fmt.Printf("LDFLAGS=%s\n", strings.Join(flags.LDFlags, " "))
	return nil
}

func printPackage(pkg *cmakepkg.Package) error {
	if findJSON {
		return printJSON(map[string]any{
			"name":       pkg.Name,
			"version":    pkg.Version,
			"components": pkg.Components,
		})
	}
	fmt.Printf("name: %s\n", pkg.Name)
	if pkg.Version != nil {
		fmt.Printf("version: %s\n", pkg.Version)
	}
	if len(pkg.Components) > 0 {
		fmt.Printf("components: %s\n", strings.Join(pkg.Components, ", "))
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
