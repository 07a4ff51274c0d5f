// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cli "gopkg.in/urfave/cli.v1"
)

const testContract = "0x0000000000000000000000000000000000001234"

// runConfig parses args with the global flags and loads the config from
// within a subcommand, the way real commands do.
func runConfig(t *testing.T, args ...string) (*Config, error) {
	app := newApp()
	var (
		cfg     *Config
		loadErr error
	)
	app.Commands = []cli.Command{{
		Name: "noop",
		Action: func(ctx *cli.Context) error {
			cfg, loadErr = loadConfig(ctx)
			return nil
		},
	}}
	require.NoError(t, app.Run(append(append([]string{"pollbet"}, args...), "noop")))
	return cfg, loadErr
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := runConfig(t, "--contract", testContract)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8669", cfg.Node)
	assert.Equal(t, "1", cfg.ABIVersion)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.LateWindow)
	assert.Equal(t, "localhost:8680", cfg.APIAddr)
	assert.Equal(t, 3, cfg.Verbosity)
	assert.False(t, cfg.EnableMetrics)
}

func TestConfigPrecedence(t *testing.T) {
	path := writeFile(t, "pollbet.yaml", `
node: http://yaml:8669
contract: `+testContract+`
cache-size: 16
poll-interval: 250ms
enable-metrics: true
api-cors: "*"
`)

	cfg, err := runConfig(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "http://yaml:8669", cfg.Node)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, "*", cfg.APICors)
	// untouched by the file
	assert.Equal(t, "localhost:8680", cfg.APIAddr)

	cfg, err = runConfig(t, "--config", path, "--node", "http://flag:8669", "--cache-size", "8")
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8669", cfg.Node)
	assert.Equal(t, 8, cfg.CacheSize)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)

	t.Setenv(envVar("POLL_INTERVAL"), "2s")
	cfg, err = runConfig(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
}

func TestConfigErrors(t *testing.T) {
	_, err := runConfig(t)
	assert.ErrorContains(t, err, "contract address required")

	_, err = runConfig(t, "--contract", testContract, "--key-file", "a", "--keystore", "b")
	assert.ErrorContains(t, err, "exclusive")

	_, err = runConfig(t, "--config", writeFile(t, "bad.yaml", "nodes: x\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = runConfig(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	// an empty file keeps the defaults
	cfg, err := runConfig(t, "--contract", testContract, "--config", writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.CacheSize)
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, loadDotEnv())

	t.Setenv(envVar("CONTRACT"), "")
	os.Unsetenv(envVar("CONTRACT"))
	t.Setenv(envVar("ENV_FILE"), writeFile(t, "test.env", envVar("CONTRACT")+"="+testContract+"\n"))
	require.NoError(t, loadDotEnv())
	assert.Equal(t, testContract, os.Getenv(envVar("CONTRACT")))

	cfg, err := runConfig(t)
	require.NoError(t, err)
	assert.Equal(t, testContract, cfg.Contract)

	t.Setenv(envVar("ENV_FILE"), filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, loadDotEnv())
}
