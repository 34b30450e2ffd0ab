package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToLogFile(t *testing.T) {
	prev := defaultLogger
	defer func() { defaultLogger = prev }()

	path := filepath.Join(t.TempDir(), "quanta.log")
	require.NoError(t, Init(Config{LogFile: path}))

	Info("compilation started", "input", "bell.qn")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "compilation started")
	assert.Contains(t, string(data), "bell.qn")
}

func TestInitRejectsUnopenableLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "quanta.log")
	err := Init(Config{LogFile: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build logger")
}
