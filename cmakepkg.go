// Package cmakepkg discovers CMake packages already installed on the host
// and extracts, per imported target, the compile and link configuration
// needed to consume them.
//
// Find stages a small probe project in a temporary directory and runs the
// host cmake against it: once to find the package, and once per queried
// target to serialize the target's properties and those of its transitive
// link dependencies into JSON. The decoded graph is then resolved into a
// flat, configuration-specific view (see the target package).
//
// The build configuration is selected from the PROFILE, OPT_LEVEL and DEBUG
// environment variables, mirroring how build scripts usually receive their
// profile intent.
package cmakepkg

import (
	"fmt"
	"log/slog"

	"github.com/goplus/cmakepkg/buildcfg"
	"github.com/goplus/cmakepkg/internal/cmakexec"
	"github.com/goplus/cmakepkg/target"
	"github.com/goplus/cmakepkg/version"
)

// MinCMakeVersion is the minimum cmake version required by the probe.
const MinCMakeVersion = cmakexec.MinCMakeVersion

// Errors surfaced by Find and Package.Target. Version floors are reported
// with *version.TooOldError instead, carrying the version actually found.
var (
	ErrCMakeNotFound           = cmakexec.ErrCMakeNotFound
	ErrUnsupportedCMakeVersion = cmakexec.ErrUnsupportedCMakeVersion
	ErrPackageNotFound         = cmakexec.ErrPackageNotFound
	ErrTargetNotFound          = cmakexec.ErrTargetNotFound
)

// Options configures Find. All fields are optional; the zero value finds any
// version of the package with the default policies.
type Options struct {
	// MinVersion is the minimum acceptable package version, e.g. "1.0".
	MinVersion string
	// Components are required package components; a package missing any of
	// them counts as not found.
	Components []string
	// PrefixPaths are extra CMAKE_PREFIX_PATH entries for the probe.
	PrefixPaths []string
	// Dedup selects the link-library finishing policy.
	Dedup target.DedupPolicy
	// Verbose streams cmake's output while probing.
	Verbose bool
	// Logger receives command traces; slog.Default when nil.
	Logger *slog.Logger
}

// Package is a CMake package found on the host. It holds the probe session
// open so targets can be queried; Close releases the working directory.
type Package struct {
	// Name of the package as reported by cmake.
	Name string
	// Version found on the host; nil when the package reports none.
	Version *version.Version
	// Components as requested in Options.
	Components []string

	session *cmakexec.Session
	query   cmakexec.PackageQuery
	cfg     buildcfg.Config
	dedup   target.DedupPolicy
}

// Find locates a CMake package on the host.
//
// It returns ErrCMakeNotFound or ErrUnsupportedCMakeVersion when no usable
// cmake is available, ErrPackageNotFound when the package (or one of the
// requested components) is missing, and *version.TooOldError when the found
// package is older than opts.MinVersion. A package that reports no version
// satisfies any floor.
func Find(name string, opts Options) (*Package, error) {
	query := cmakexec.PackageQuery{Name: name, Components: opts.Components}
	if opts.MinVersion != "" {
		v, err := version.Parse(opts.MinVersion)
		if err != nil {
			return nil, fmt.Errorf("minimum version: %w", err)
		}
		query.MinVersion = &v
	}

	prog, err := cmakexec.Find()
	if err != nil {
		return nil, err
	}
	cfg := buildcfg.FromEnv()
	session, err := cmakexec.NewSession(prog, cmakexec.Options{
		Config:      cfg,
		PrefixPaths: opts.PrefixPaths,
		Verbose:     opts.Verbose,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	info, err := session.FindPackage(query)
	if err != nil {
		session.Close()
		return nil, err
	}
	return &Package{
		Name:       info.Name,
		Version:    info.Version,
		Components: info.Components,
		session:    session,
		query:      query,
		cfg:        cfg,
		dedup:      opts.Dedup,
	}, nil
}

// Target queries one imported target of the package and resolves the
// transitive closure of its interface properties for the selected build
// configuration. Returns ErrTargetNotFound when the package does not define
// the target.
func (p *Package) Target(name string) (*target.ResolvedTarget, error) {
	t, err := p.session.QueryTarget(p.query, name)
	if err != nil {
		return nil, err
	}
	r := target.Resolver{Config: p.cfg, Dedup: p.dedup}
	return r.Resolve(t)
}

// Close removes the probe working directory. The package can no longer be
// queried afterwards.
func (p *Package) Close() error {
	return p.session.Close()
}
