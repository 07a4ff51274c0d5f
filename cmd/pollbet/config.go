// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"
)

// Config holds the global settings. Values come from flag defaults, then the
// yaml config file, then explicitly set flags or their environment variables.
type Config struct {
	Node          string        `yaml:"node"`
	Contract      string        `yaml:"contract"`
	ABIVersion    string        `yaml:"abi-version"`
	KeyFile       string        `yaml:"key-file"`
	Keystore      string        `yaml:"keystore"`
	CacheSize     int           `yaml:"cache-size"`
	MaxAge        time.Duration `yaml:"max-age"`
	PollInterval  time.Duration `yaml:"poll-interval"`
	LateWindow    time.Duration `yaml:"late-window"`
	APIAddr       string        `yaml:"api-addr"`
	APICors       string        `yaml:"api-cors"`
	EnableAPILogs bool          `yaml:"enable-api-logs"`
	EnableMetrics bool          `yaml:"enable-metrics"`
	MetricsAddr   string        `yaml:"metrics-addr"`
	NTPServer     string        `yaml:"ntp-server"`
	Verbosity     int           `yaml:"verbosity"`
	JSONLogs      bool          `yaml:"json-logs"`
}

// loadDotEnv exports the variables of the env file, if any, without
// overriding the ones already set.
func loadDotEnv() error {
	file := os.Getenv(envVar("ENV_FILE"))
	explicit := file != ""
	if !explicit {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "load env file %v", file)
	}
	return nil
}

// isSet reports whether the flag was given on the command line or through
// its environment variable.
func isSet(ctx *cli.Context, name, env string) bool {
	if ctx.GlobalIsSet(name) {
		return true
	}
	v, ok := os.LookupEnv(env)
	return ok && v != ""
}

func loadConfig(ctx *cli.Context) (*Config, error) {
	cfg := &Config{
		Node:         nodeFlag.Value,
		ABIVersion:   abiVersionFlag.Value,
		CacheSize:    cacheSizeFlag.Value,
		PollInterval: pollIntervalFlag.Value,
		LateWindow:   lateWindowFlag.Value,
		APIAddr:      apiAddrFlag.Value,
		MetricsAddr:  metricsAddrFlag.Value,
		NTPServer:    ntpServerFlag.Value,
		Verbosity:    verbosityFlag.Value,
	}

	if path := ctx.GlobalString(configFlag.Name); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(err, "parse config %v", path)
		}
	}

	setString := func(f cli.StringFlag, dst *string) {
		if isSet(ctx, f.Name, f.EnvVar) {
			*dst = ctx.GlobalString(f.Name)
		}
	}
	setDuration := func(f cli.DurationFlag, dst *time.Duration) {
		if isSet(ctx, f.Name, f.EnvVar) {
			*dst = ctx.GlobalDuration(f.Name)
		}
	}
	setBool := func(f cli.BoolFlag, dst *bool) {
		if isSet(ctx, f.Name, f.EnvVar) {
			*dst = ctx.GlobalBool(f.Name)
		}
	}
	setInt := func(f cli.IntFlag, dst *int) {
		if isSet(ctx, f.Name, f.EnvVar) {
			*dst = ctx.GlobalInt(f.Name)
		}
	}

	setString(nodeFlag, &cfg.Node)
	setString(contractFlag, &cfg.Contract)
	setString(abiVersionFlag, &cfg.ABIVersion)
	setString(keyFileFlag, &cfg.KeyFile)
	setString(keystoreFlag, &cfg.Keystore)
	setInt(cacheSizeFlag, &cfg.CacheSize)
	setDuration(maxAgeFlag, &cfg.MaxAge)
	setDuration(pollIntervalFlag, &cfg.PollInterval)
	setDuration(lateWindowFlag, &cfg.LateWindow)
	setString(apiAddrFlag, &cfg.APIAddr)
	setString(apiCorsFlag, &cfg.APICors)
	setBool(enableAPILogsFlag, &cfg.EnableAPILogs)
	setBool(enableMetricsFlag, &cfg.EnableMetrics)
	setString(metricsAddrFlag, &cfg.MetricsAddr)
	setString(ntpServerFlag, &cfg.NTPServer)
	setInt(verbosityFlag, &cfg.Verbosity)
	setBool(jsonLogsFlag, &cfg.JSONLogs)

	if cfg.Contract == "" {
		return nil, errors.New("contract address required (--contract)")
	}
	if cfg.KeyFile != "" && cfg.Keystore != "" {
		return nil, errors.New("--key-file and --keystore are exclusive")
	}
	return cfg, nil
}
