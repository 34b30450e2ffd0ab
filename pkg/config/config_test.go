package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quanta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	assert.Equal(t, 2, c.Level())
	assert.False(t, c.WarningsAsErrors)
	assert.False(t, c.StripDebugInfo)
	assert.Empty(t, c.Passes.Enable)
	assert.False(t, c.Emit.Bytecode)
}

func TestExplicitZeroLevelSurvivesDefaults(t *testing.T) {
	zero := 0
	c := Config{OptimizationLevel: &zero}.WithDefaults()
	assert.Equal(t, 0, c.Level())
}

func TestLoad(t *testing.T) {
	path := write(t, `
optimizationLevel: 3
warningsAsErrors: true
stripDebugInfo: true
passes:
  enable:
    - rotation-canonicalization
  disable:
    - dead-gate-elimination
emit:
  ir: true
  optimizedBytecode: true
logFile: /tmp/quanta.log
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Level())
	assert.True(t, c.WarningsAsErrors)
	assert.True(t, c.StripDebugInfo)
	assert.Equal(t, []string{"rotation-canonicalization"}, c.Passes.Enable)
	assert.Equal(t, []string{"dead-gate-elimination"}, c.Passes.Disable)
	assert.True(t, c.Emit.IR)
	assert.False(t, c.Emit.OptimizedIR)
	assert.True(t, c.Emit.OptimizedBytecode)
	assert.Equal(t, "/tmp/quanta.log", c.LogFile)
}

func TestLoadAppliesDefaultLevel(t *testing.T) {
	c, err := Load(write(t, "warningsAsErrors: true\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Level())
}

func TestLoadRejectsOutOfRangeLevel(t *testing.T) {
	_, err := Load(write(t, "optimizationLevel: 4\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = Load(write(t, "optimizationLevel: -1\n"))
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(write(t, "passes: [broken\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
