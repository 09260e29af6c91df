package cmakexec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goplus/cmakepkg/buildcfg"
	"github.com/goplus/cmakepkg/version"
)

func TestParseVersionOutput(t *testing.T) {
	for _, tc := range []struct {
		out  string
		want version.Version
	}{
		{"cmake version 3.28.3\n\nCMake suite maintained...", version.MustParse("3.28.3")},
		{"cmake version 3.19.0-rc2\n", version.MustParse("3.19.0")},
		{"cmake version 3.30\n", version.MustParse("3.30")},
	} {
		got, err := parseVersionOutput(tc.out)
		require.NoError(t, err, "parseVersionOutput(%q)", tc.out)
		require.Equal(t, tc.want, got, "parseVersionOutput(%q)", tc.out)
	}

	_, err := parseVersionOutput("")
	require.Error(t, err)
	_, err = parseVersionOutput("not a version line\n")
	require.Error(t, err)
}

func TestTargetFileName(t *testing.T) {
	require.Equal(t, "target_openssl__ssl.json", targetFileName("OpenSSL::SSL"))
	require.Equal(t, "target_zlib.json", targetFileName("ZLIB"))
}

func TestSessionArgs(t *testing.T) {
	s := &Session{opts: Options{Config: buildcfg.RelWithDebInfo}}
	min := version.MustParse("1.1")
	q := PackageQuery{
		Name:       "OpenSSL",
		MinVersion: &min,
		Components: []string{"SSL", "Crypto"},
	}

	args := s.args(q, "", "/tmp/package.json")
	require.Equal(t, []string{
		".",
		"-DCMAKE_BUILD_TYPE=RelWithDebInfo",
		"-DCMAKE_MIN_VERSION=" + MinCMakeVersion,
		"-DPACKAGE=OpenSSL",
		"-DOUTPUT_FILE=/tmp/package.json",
		"-DVERSION=1.1.0",
		"-DCOMPONENTS=SSL;Crypto",
	}, args)

	args = s.args(PackageQuery{Name: "ZLIB"}, "ZLIB::ZLIB", "/tmp/target_zlib.json")
	require.Contains(t, args, "-DTARGET=ZLIB::ZLIB")
	require.NotContains(t, strings.Join(args, " "), "-DVERSION")
}

func TestNewSessionStagesProbe(t *testing.T) {
	s, err := NewSession(Program{Path: "cmake"}, Options{})
	require.NoError(t, err)
	defer s.Close()

	data, err := os.ReadFile(filepath.Join(s.Dir(), "CMakeLists.txt"))
	require.NoError(t, err)
	require.Contains(t, string(data), "find_package(${PACKAGE}")
	require.Contains(t, string(data), "serialize_target")

	require.NoError(t, s.Close())
	_, err = os.Stat(s.Dir())
	require.True(t, os.IsNotExist(err), "working directory should be removed")
}

func TestPrependPaths(t *testing.T) {
	sep := string(os.PathListSeparator)
	require.Equal(t, "/opt/foo", prependPaths("", []string{"/opt/foo"}))
	require.Equal(t, "/opt/foo"+sep+"/usr", prependPaths("/usr", []string{"/opt/foo"}))
	require.Equal(t, "/a"+sep+"/b"+sep+"/usr", prependPaths("/usr", []string{"/a", "/b"}))
}
