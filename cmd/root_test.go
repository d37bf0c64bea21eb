package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMountRequiresConfigFlag(t *testing.T) {
	err := runMount(&flags{}, []string{"/mnt/execfs"})
	assert.ErrorContains(t, err, "-c/--config is required")
}

func TestRunMountRejectsMissingConfigFile(t *testing.T) {
	err := runMount(&flags{configFile: "/nonexistent/execfs.ini"}, []string{"/mnt/execfs"})
	assert.ErrorContains(t, err, "loading configuration")
}

func TestRunMountRejectsMissingMountPoint(t *testing.T) {
	path := writeConfig(t, "[date]\naccess = 555\ncommand = date +%Y\n")
	err := runMount(&flags{configFile: path}, nil)
	assert.ErrorContains(t, err, "parsing fuse arguments")
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "execfs.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
