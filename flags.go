package cmakepkg

import (
	"regexp"
	"runtime"

	"github.com/goplus/cmakepkg/target"
)

// BuildFlags is a resolved target rendered as compiler and linker argument
// lists, ready to hand to a build orchestrator (CGO_CFLAGS/CGO_LDFLAGS, a cc
// invocation, or a generated build file).
type BuildFlags struct {
	CFlags  []string
	LDFlags []string
}

// Flags renders t into flag lists: -D for each compile definition, the
// compile options verbatim and -I for each include directory; then -L for
// each link directory, the link options verbatim and finally the libraries.
// A library path matching lib<name>.so[.*] is rewritten to -l<name> so the
// linker resolves it by soname; everything else passes through unchanged.
func Flags(t *target.ResolvedTarget) BuildFlags {
	var f BuildFlags
	for _, def := range t.CompileDefinitions {
		f.CFlags = append(f.CFlags, "-D"+def)
	}
	f.CFlags = append(f.CFlags, t.CompileOptions...)
	for _, dir := range t.IncludeDirectories {
		f.CFlags = append(f.CFlags, "-I"+dir)
	}

	for _, dir := range t.LinkDirectories {
		f.LDFlags = append(f.LDFlags, "-L"+dir)
	}
	f.LDFlags = append(f.LDFlags, t.LinkOptions...)
	for _, lib := range t.LinkLibraries {
		if name, ok := linkName(lib); ok {
			f.LDFlags = append(f.LDFlags, "-l"+name)
		} else {
			f.LDFlags = append(f.LDFlags, lib)
		}
	}
	return f
}

var soNameRE = regexp.MustCompile(`lib([^/]+)\.so.*`)

// linkName turns /usr/lib/libfoo.so.5 into foo. Windows import libraries
// are always passed through as full paths.
func linkName(lib string) (string, bool) {
	if runtime.GOOS == "windows" {
		return "", false
	}
	m := soNameRE.FindStringSubmatch(lib)
	if m == nil {
		return "", false
	}
	return m[1], true
}
