package cmakepkg

import (
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goplus/cmakepkg/target"
	"github.com/goplus/cmakepkg/version"
)

func TestFlags(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("soname rewriting is disabled on windows")
	}
	resolved := &target.ResolvedTarget{
		Name:               "foo",
		CompileDefinitions: []string{"DEBUG_FOO", "USE_BAR=1"},
		CompileOptions:     []string{"-fexceptions"},
		IncludeDirectories: []string{"/usr/include/foo"},
		LinkDirectories:    []string{"/usr/lib64"},
		LinkOptions:        []string{"-Wl,--as-needed"},
		LinkLibraries:      []string{"/usr/lib/libbar.so", "/usr/lib64/libfoo.so.5", "m"},
	}

	got := Flags(resolved)
	want := BuildFlags{
		CFlags:  []string{"-DDEBUG_FOO", "-DUSE_BAR=1", "-fexceptions", "-I/usr/include/foo"},
		LDFlags: []string{"-L/usr/lib64", "-Wl,--as-needed", "-lbar", "-lfoo", "m"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flags (-want +got):\n%s", diff)
	}
}

func TestLinkName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("soname rewriting is disabled on windows")
	}
	for _, tc := range []struct {
		lib  string
		want string
		ok   bool
	}{
		{"/usr/lib/libfoo.so.5", "foo", true},
		{"/usr/lib/libssl.so", "ssl", true},
		{"libz.so.1.2.11", "z", true},
		{"m", "", false},
		{"/usr/lib/foo.a", "", false},
	} {
		got, ok := linkName(tc.lib)
		if got != tc.want || ok != tc.ok {
			t.Errorf("linkName(%q) = %q, %v; want %q, %v", tc.lib, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFindRejectsInvalidMinVersion(t *testing.T) {
	_, err := Find("Foo", Options{MinVersion: "a.b"})
	if !errors.Is(err, version.ErrInvalidVersion) {
		t.Errorf("Find with bad MinVersion: got err %v, want ErrInvalidVersion", err)
	}
}
