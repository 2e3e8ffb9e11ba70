package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/11090815/x509cert/core/config"
	"github.com/11090815/x509cert/core/config/configtest"
	"github.com/stretchr/testify/require"
)

func TestLoadSampleConfig(t *testing.T) {
	conf, err := config.Load(configtest.GetDevConfigFile())
	require.NoError(t, err)
	require.False(t, conf.Decoder.Strict)
	require.Equal(t, 100, conf.Cache.Size)
	require.Equal(t, "console", conf.Logging.Format)
	require.Equal(t, "info", conf.Logging.Spec)
	require.Equal(t, "disabled", conf.Metrics.Provider)
	require.Equal(t, config.Statsd{
		Network:       "udp",
		Address:       "127.0.0.1:8125",
		WriteInterval: 10 * time.Second,
		Prefix:        "certdump",
	}, conf.Metrics.Statsd)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "x509cert.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	conf, err := config.Load(writeConfig(t, "Decoder:\n  Strict: true\n"))
	require.NoError(t, err)
	require.True(t, conf.Decoder.Strict)

	expected := config.Default()
	expected.Decoder.Strict = true
	require.Equal(t, expected, conf)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed reading config file")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "Decoder: [\n"))
	require.ErrorContains(t, err, "failed unmarshaling config file")

	_, err = config.Load(writeConfig(t, "Metrics:\n  Provider: graphite\n"))
	require.ErrorContains(t, err, "unknown metrics provider [graphite]")

	_, err = config.Load(writeConfig(t, "Metrics:\n  Provider: statsd\n  Statsd:\n    Address: \"\"\n"))
	require.ErrorContains(t, err, "statsd address must be set")

	_, err = config.Load(writeConfig(t, "Cache:\n  Size: -1\n"))
	require.ErrorContains(t, err, "cache size must not be negative")
}
