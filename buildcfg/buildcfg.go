// Package buildcfg maps the ambient build-profile signals of a host build
// (profile intent, optimization level, debug info) to one of the four
// standard CMake build configurations.
package buildcfg

import "os"

// Config is a CMake build configuration.
type Config int

const (
	Debug Config = iota
	Release
	RelWithDebInfo
	MinSizeRel
)

// String renders the configuration with CMake's spelling, suitable for
// CMAKE_BUILD_TYPE and for LOCATION_<config> property suffixes.
func (c Config) String() string {
	switch c {
	case Release:
		return "Release"
	case RelWithDebInfo:
		return "RelWithDebInfo"
	case MinSizeRel:
		return "MinSizeRel"
	}
	return "Debug"
}

// Select maps the three ambient build signals to a configuration.
//
// A profile other than "release" always selects Debug. Under the release
// profile, an optimization level of "s" or "z" means "optimize for size" and
// selects MinSizeRel; size optimization wins over debug info because CMake
// cannot express both in one configuration. Otherwise any debug value except
// "", "0", "false" and "none" selects RelWithDebInfo, and everything else is
// plain Release.
func Select(profile, optLevel, debug string) Config {
	if profile != "release" {
		return Debug
	}
	if optLevel == "s" || optLevel == "z" {
		return MinSizeRel
	}
	switch debug {
	case "", "0", "false", "none":
		return Release
	}
	return RelWithDebInfo
}

// FromEnv selects a configuration from the PROFILE, OPT_LEVEL and DEBUG
// environment variables. Unset variables take the documented defaults:
// non-release profile, no size optimization, debug info disabled.
func FromEnv() Config {
	return Select(os.Getenv("PROFILE"), os.Getenv("OPT_LEVEL"), os.Getenv("DEBUG"))
}
