package cmakexec

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	_ "embed"

	"github.com/goplus/cmakepkg/buildcfg"
	"github.com/goplus/cmakepkg/target"
	"github.com/goplus/cmakepkg/version"
)

//go:embed scripts/find_package.cmake
var probeScript []byte

// Options configures a Session. The zero value is usable: default build
// configuration from the ambient environment, no extra prefix paths, quiet
// output.
type Options struct {
	// Config is the build configuration passed to the probe as
	// CMAKE_BUILD_TYPE and used to pick per-configuration locations.
	Config buildcfg.Config
	// PrefixPaths are prepended to CMAKE_PREFIX_PATH for the probe runs,
	// so packages installed outside the system prefix can be found.
	PrefixPaths []string
	// Verbose streams cmake's own output to stdout/stderr.
	Verbose bool
	// Logger receives command traces; slog.Default when nil.
	Logger *slog.Logger
}

// Session is a staged probe project in a temporary directory, ready to run
// package and target queries. Runs against the shared working directory are
// serialized internally; Close removes the directory.
type Session struct {
	prog Program
	opts Options
	dir  string
	log  *slog.Logger

	mu sync.Mutex
}

// NewSession creates the working directory and stages the probe CMakeLists.
func NewSession(prog Program, opts Options) (*Session, error) {
	dir, err := os.MkdirTemp("", "cmakepkg-")
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), probeScript, 0o644); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("stage probe project: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{prog: prog, opts: opts, dir: dir, log: log}, nil
}

// Dir returns the session's working directory.
func (s *Session) Dir() string { return s.dir }

// Close removes the working directory.
func (s *Session) Close() error { return os.RemoveAll(s.dir) }

// PackageQuery describes the package to find.
type PackageQuery struct {
	Name       string
	MinVersion *version.Version // nil means any version
	Components []string
}

// PackageInfo is the probe's answer for a found package. Version is nil when
// the package does not report one; that is not an error.
type PackageInfo struct {
	Name       string
	Version    *version.Version
	Components []string
}

type packageResult struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Components []string `json:"components"`
}

// FindPackage runs the probe in package mode and decodes the result.
// A missing package yields ErrPackageNotFound; a package older than
// q.MinVersion yields a version.TooOldError carrying the found version.
// A found package that reports no version satisfies any MinVersion.
func (s *Session) FindPackage(q PackageQuery) (*PackageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outputFile := filepath.Join(s.dir, "package.json")
	if err := s.run(s.args(q, "", outputFile)); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("read package result: %w", err)
	}
	var res packageResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode package result: %w", err)
	}
	if res.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, q.Name)
	}

	info := PackageInfo{Name: res.Name, Components: res.Components}
	if res.Version != "" {
		v, err := version.Parse(res.Version)
		if err != nil {
			return nil, fmt.Errorf("package %s reports version %q: %w", res.Name, res.Version, err)
		}
		info.Version = &v
	}
	if q.MinVersion != nil && info.Version != nil {
		if info.Version.Compare(*q.MinVersion) < 0 {
			return nil, &version.TooOldError{Found: *info.Version, Min: *q.MinVersion}
		}
	}
	return &info, nil
}

// QueryTarget runs the probe in target mode and decodes the serialized
// target graph. The package query must be the one the session found the
// package with, so find_package resolves identically on the rerun.
func (s *Session) QueryTarget(q PackageQuery, name string) (*target.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outputFile := filepath.Join(s.dir, targetFileName(name))
	if err := s.run(s.args(q, name, outputFile)); err != nil {
		return nil, err
	}

	t, err := target.Parse(outputFile, nil)
	if err != nil {
		return nil, fmt.Errorf("decode target result: %w", err)
	}
	if t.Name == "" {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, name)
	}
	return t, nil
}

// targetFileName derives a per-target output file name, e.g.
// "target_openssl__ssl.json" for OpenSSL::SSL.
func targetFileName(name string) string {
	return "target_" + strings.ReplaceAll(strings.ToLower(name), ":", "_") + ".json"
}

func (s *Session) args(q PackageQuery, targetName, outputFile string) []string {
	args := []string{"."}
	args = append(args,
		define("CMAKE_BUILD_TYPE", s.opts.Config.String()),
		define("CMAKE_MIN_VERSION", MinCMakeVersion),
		define("PACKAGE", q.Name),
		define("OUTPUT_FILE", outputFile),
	)
	if targetName != "" {
		args = append(args, define("TARGET", targetName))
	}
	if q.MinVersion != nil {
		args = append(args, define("VERSION", q.MinVersion.String()))
	}
	if len(q.Components) > 0 {
		args = append(args, define("COMPONENTS", strings.Join(q.Components, ";")))
	}
	return args
}

func define(key, value string) string {
	return "-D" + key + "=" + value
}

// run executes cmake in the working directory. A non-zero exit is not an
// error by itself: the probe reports "not found" through the JSON output
// even when the configure step fails.
func (s *Session) run(args []string) error {
	cmd := exec.Command(s.prog.Path, args...)
	cmd.Dir = s.dir
	if len(s.opts.PrefixPaths) > 0 {
		cmd.Env = append(os.Environ(),
			"CMAKE_PREFIX_PATH="+prependPaths(os.Getenv("CMAKE_PREFIX_PATH"), s.opts.PrefixPaths))
	}
	if s.opts.Verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	s.log.Debug("running cmake", "path", s.prog.Path, "args", args, "dir", s.dir)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return fmt.Errorf("run cmake: %w", err)
		}
		s.log.Debug("cmake exited non-zero", "err", err)
	}
	return nil
}

// prependPaths builds a PATH-style value with extra entries ahead of the
// current one.
func prependPaths(current string, extra []string) string {
	parts := append([]string{}, extra...)
	if current != "" {
		parts = append(parts, current)
	}
	return strings.Join(parts, string(os.PathListSeparator))
}
