// Package cmakexec runs the host cmake to discover installed packages and to
// serialize imported-target properties into JSON documents.
package cmakexec

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/goplus/cmakepkg/version"
)

// MinCMakeVersion is the oldest cmake the probe project works with; the
// string(JSON) commands it relies on appeared in 3.19.
const MinCMakeVersion = "3.19"

var (
	// ErrCMakeNotFound means no cmake executable was found in PATH.
	ErrCMakeNotFound = errors.New("cmake executable not found in PATH")
	// ErrUnsupportedCMakeVersion means the cmake found is older than
	// MinCMakeVersion.
	ErrUnsupportedCMakeVersion = errors.New("unsupported cmake version")
	// ErrPackageNotFound means cmake could not find the requested package,
	// or found it without one of the requested components.
	ErrPackageNotFound = errors.New("package not found")
	// ErrTargetNotFound means the package does not define the requested
	// imported target.
	ErrTargetNotFound = errors.New("target not found")
)

// Program is the cmake executable found on the system.
type Program struct {
	Path    string
	Version version.Version
}

// Find locates cmake in PATH and checks that it is at least MinCMakeVersion.
func Find() (Program, error) {
	path, err := exec.LookPath("cmake")
	if err != nil {
		return Program{}, ErrCMakeNotFound
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return Program{}, fmt.Errorf("run cmake --version: %w", err)
	}
	v, err := parseVersionOutput(string(out))
	if err != nil {
		return Program{}, fmt.Errorf("%w: %v", ErrUnsupportedCMakeVersion, err)
	}
	if v.Compare(version.MustParse(MinCMakeVersion)) < 0 {
		return Program{}, fmt.Errorf("%w: found %s, need at least %s",
			ErrUnsupportedCMakeVersion, v, MinCMakeVersion)
	}
	return Program{Path: path, Version: v}, nil
}

// parseVersionOutput extracts the version from the first line of
// "cmake --version" output, e.g. "cmake version 3.28.3". Release-candidate
// and vendor suffixes after "-" are ignored.
func parseVersionOutput(out string) (version.Version, error) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return version.Version{}, fmt.Errorf("empty cmake version output")
	}
	raw := fields[len(fields)-1]
	raw, _, _ = strings.Cut(raw, "-")
	return version.Parse(raw)
}
