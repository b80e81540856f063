package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "logs", "a.log"), ExpandHome(" ~/logs/a.log "))
	assert.Equal(t, "/var/log/a.log", ExpandHome("/var/log/a.log"))
	assert.Equal(t, "~other/a.log", ExpandHome("~other/a.log"))
	assert.Empty(t, ExpandHome("  "))
}

func TestLogsDir(t *testing.T) {
	t.Setenv(EnvLogDir, "")
	assert.Equal(t, filepath.Join(".dispatch", "logs"), LogsDir())

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvLogDir, "~/dispatch/logs/")
	assert.Equal(t, filepath.Join(home, "dispatch", "logs"), LogsDir())
}

func TestLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvLogDir, "/srv/logs")

	assert.Empty(t, LogFile(""))
	assert.Equal(t, filepath.Join("/srv/logs", "weather.log"), LogFile("weather.log"))
	assert.Equal(t, "/tmp/x.log", LogFile("/tmp/x.log"))
	assert.Equal(t, filepath.Join("logs", "x.log"), LogFile("logs/./x.log"))
	assert.Equal(t, filepath.Join(home, "x.log"), LogFile("~/x.log"))
}
