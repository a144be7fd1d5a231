package asynclog

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultService drives the package-level functions end to end
func TestDefaultService(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.log")

	require.NoError(t, Init(LevelDebug, FileLog, path, 0))
	defer Close(false)
	assert.Same(t, defaultService, Default())

	Debug("package debug")
	InfoFunc(func() any { return "package deferred" })
	require.NoError(t, SetLogLevel(LevelError))
	Warning("filtered")
	Error("package error")
	require.NoError(t, Flush(time.Second))

	lines := readLines(t, path)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "default_test.go.TestDefaultService(L:")
	assert.True(t, strings.HasSuffix(lines[1], "): package deferred"))
	assert.True(t, strings.HasSuffix(lines[2], "): package error"))
}

// TestDefaultConfigFile loads and saves the default service configuration
func TestDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "cfg.log")
	cfgPath := filepath.Join(dir, "log.toml")

	require.NoError(t, ApplyConfigString("level=warning", "enable_console=false", "enable_file=true", "file_path="+logPath))
	defer Close(false)
	require.NoError(t, SaveConfig(cfgPath))

	require.NoError(t, LoadConfig(cfgPath))
	cfg := Default().GetConfig()
	assert.Equal(t, "Warning", cfg.Level)
	assert.Equal(t, logPath, cfg.FilePath)
	assert.False(t, cfg.EnableConsole)
}
