package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
classpath:
  - lib/guava.jar
  - /opt/jdk/classes
sources: src/main/java
maven:
  repository: m2
  artifacts:
    - com.google.guava:guava:33.0.0-jre
log:
  verbosity: 2
  file: whatis.log
watch:
  enabled: true
  mode: notify
  interval: 250ms
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "lib", "guava.jar"), "/opt/jdk/classes"}, config.Classpath)
	assert.Equal(t, filepath.Join(dir, "src", "main", "java"), config.Sources)
	assert.Equal(t, LogConfig{Verbosity: 2, File: "whatis.log"}, config.Log)
	assert.Equal(t, 250*time.Millisecond, config.PollInterval())
	assert.Equal(t, WatchNotify, config.Watch.Mode)
	assert.Equal(t, Maven{
		Repository: filepath.Join(dir, "m2"),
		Artifacts:  []string{"com.google.guava:guava:33.0.0-jre"},
	}, config.Maven)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	config, err := LoadConfig(writeConfig(t, dir, "watch:\n  enabled: true\n"))
	require.NoError(t, err)
	assert.Equal(t, dir, config.Sources)
	assert.Empty(t, config.Classpath)
	assert.Equal(t, 0, config.Log.Verbosity)
	assert.Equal(t, DefaultPollInterval, config.PollInterval())
	assert.Equal(t, WatchPoll, config.Watch.Mode)

	assert.Zero(t, Default().PollInterval(), "watching is off by default")
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "malformed yaml", content: "classpath: [unterminated"},
		{name: "wrong type", content: "log:\n  verbosity: loud\n"},
		{name: "verbosity too high", content: "log:\n  verbosity: 3\n", invalid: true},
		{name: "unknown watch mode", content: "watch:\n  mode: inotify\n", invalid: true},
		{name: "negative interval", content: "watch:\n  interval: -1s\n", invalid: true},
		{name: "empty classpath entry", content: "classpath:\n  - \"\"\n", invalid: true},
		{name: "bad maven coordinate", content: "maven:\n  artifacts: [guava]\n", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, t.TempDir(), tt.content))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscoverAndResolve(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, "", Discover(nested))
	config, err := Resolve(nested)
	require.NoError(t, err)
	assert.Equal(t, nested, config.Sources)

	path := writeConfig(t, root, "sources: a\n")
	assert.Equal(t, path, Discover(nested))
	config, err = Resolve(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a"), config.Sources)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	config := Default()
	config.Classpath = []string{"/abs/lib.jar"}
	config.Sources = "/abs/src"
	config.Watch.Enabled = true
	require.NoError(t, SaveConfig(config, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)

	config.Log.Verbosity = -9
	assert.ErrorIs(t, SaveConfig(config, path), ErrInvalidConfig)
	assert.ErrorIs(t, SaveConfig(nil, path), ErrInvalidConfig)
}
