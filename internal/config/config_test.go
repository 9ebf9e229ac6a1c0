package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8181
  shutdown_timeout: 5s
log:
  level: debug
  format: json
costing:
  policy: weighted_average
advisory:
  provider: github_models
  model: gpt-4o
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.AdvisoryTimeout, "unset values keep defaults")
	assert.Equal(t, "weighted_average", cfg.Costing.Policy)
	assert.Equal(t, 6, cfg.Costing.PriceHistoryMonths)
	assert.Equal(t, "github_models", cfg.Advisory.Provider)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 0
costing:
  policy: fifo
advisory:
  provider: gemini
`)

	_, err := Load(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Path)
	assert.Contains(t, err.Error(), "server: port")
	assert.Contains(t, err.Error(), "costing: policy")
	assert.Contains(t, err.Error(), "advisory: unsupported provider")
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "explicit paths must exist")

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: ["))
	assert.Error(t, err)
}

func TestLogConfig_NewLogger(t *testing.T) {
	lc := LogConfig{Level: "warn", Format: "json"}
	log, err := lc.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	bad := LogConfig{Level: "loud", Format: "text"}
	assert.Error(t, bad.Validate())
	_, err = bad.NewLogger()
	assert.Error(t, err)
}

func TestMetricsConfig_DisabledSkipsChecks(t *testing.T) {
	m := MetricsConfig{Enabled: false, Port: -1}
	assert.NoError(t, m.Validate())

	m.Enabled = true
	assert.Error(t, m.Validate())
}
