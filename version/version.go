// Package version implements the dotted version numbers used by CMake
// packages, e.g. "3.19" or "1.2.3".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVersion reports a version string that is not one to three
// dot-separated non-negative integers.
var ErrInvalidVersion = errors.New("invalid version")

// Version is a three-component version number. Versions parsed from fewer
// components have the missing components set to zero, so "1.2" and "1.2.0"
// are the same value.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a dot-separated version string. One to three numeric
// components are accepted; missing trailing components default to zero.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		nums[i] = int(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParse is like Parse but panics on invalid input.
// Intended for version literals.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version with all three components, regardless of how
// many were present in the parsed input.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 depending on whether v is ordered before, equal
// to, or after o. Versions order lexicographically by (major, minor, patch).
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmpInt(v.Patch, o.Patch)
}

// Compare is a convenience wrapper around the Compare method, usable as a
// comparator function.
func Compare(a, b Version) int {
	return a.Compare(b)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// TooOldError reports a version that does not satisfy a required minimum.
// Found carries the version that was actually discovered so callers can
// report it.
type TooOldError struct {
	Found Version
	Min   Version
}

func (e *TooOldError) Error() string {
	return fmt.Sprintf("version %s is older than required minimum %s", e.Found, e.Min)
}
