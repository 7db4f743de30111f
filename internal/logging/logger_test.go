package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_ConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetConsoleOutput(&buf)
	Configure("", WARN)
	t.Cleanup(func() {
		SetConsoleOutput(os.Stdout)
		Configure("", INFO)
	})

	logger, err := NewLogger("test")
	require.NoError(t, err)

	logger.Info("скрытое сообщение")
	logger.Warn("видимое %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "скрытое")
	assert.Contains(t, out, "[WARN] видимое 42")
	assert.Contains(t, out, "[test]")
}

func TestLogger_FileSink(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	SetConsoleOutput(&buf)
	Configure(dir, ERROR)
	t.Cleanup(func() {
		SetConsoleOutput(os.Stdout)
		Configure("", INFO)
	})

	logger, err := NewLogger("filesink")
	require.NoError(t, err)
	logger.Debug("в файл")
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "filesink_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] в файл")
	assert.Empty(t, buf.String(), "DEBUG не должен попадать в консоль")
}

func TestLoggerManager_ReusesLoggers(t *testing.T) {
	lm := &LoggerManager{loggers: make(map[string]*Logger)}

	a, err := lm.GetLogger("loader")
	require.NoError(t, err)
	b, err := lm.GetLogger("loader")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = lm.GetLogger("meshing")
	require.NoError(t, err)
	assert.Equal(t, []string{"loader", "meshing"}, lm.ListComponents())

	assert.Error(t, lm.SetLogLevel("unknown", DEBUG, DEBUG))
	assert.NoError(t, lm.SetLogLevel("loader", DEBUG, DEBUG))

	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}

func TestComponentLoggers(t *testing.T) {
	world := GetWorldLogger()
	assert.Equal(t, "world", world.Component())
	assert.Same(t, world, GetWorldLogger())
	assert.Equal(t, "loader", GetLoaderLogger().Component())
	assert.Equal(t, "meshing", GetMeshingLogger().Component())
	assert.Contains(t, GetLoggerManager().ListComponents(), "world")
}
