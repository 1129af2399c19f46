package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDirPrecedence(t *testing.T) {
	t.Setenv(EnvConfigDir, "/env/config")

	got, err := ResolveConfigDir("/flag/config")
	require.NoError(t, err)
	assert.Equal(t, "/flag/config", got, "flag beats env")

	got, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/env/config", got, "env beats default")
}

func TestResolveConfigDirDefaultXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is linux-specific")
	}
	t.Setenv(EnvConfigDir, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	got, err := ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg/config", "barricade"), got)
}

func TestResolveConfigDirHomeFallback(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is linux-specific")
	}
	t.Setenv(EnvConfigDir, "")
	t.Setenv("XDG_CONFIG_HOME", "")

	orig := platformDir.homeDir
	platformDir.homeDir = func() (string, error) { return "/home/tester", nil }
	t.Cleanup(func() { platformDir.homeDir = orig })

	got, err := ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "barricade"), got)
}

func TestDefaultDataDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is linux-specific")
	}
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	got, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg/data", "barricade"), got)
}

func TestResolveDataDirPrecedence(t *testing.T) {
	t.Setenv(EnvDataDir, "/env/data")

	got, err := ResolveDataDir("/flag/data", "/yaml/data")
	require.NoError(t, err)
	assert.Equal(t, "/flag/data", got, "flag beats everything")

	got, err = ResolveDataDir("", "/yaml/data")
	require.NoError(t, err)
	assert.Equal(t, "/yaml/data", got, "config value beats env")

	got, err = ResolveDataDir("", "")
	require.NoError(t, err)
	assert.Equal(t, "/env/data", got, "env beats the CWD default")
}

func TestResolveDataDirDefault(t *testing.T) {
	t.Setenv(EnvDataDir, "")

	got, err := ResolveDataDir("", "")
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, DefaultDataDirName), got)
}

func TestResolveRelativePathsAreAbsolute(t *testing.T) {
	got, err := ResolveConfigDir("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))

	got, err = ResolveDataDir("", "relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
