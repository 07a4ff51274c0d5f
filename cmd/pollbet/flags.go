// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

func envVar(name string) string {
	return "POLLBET_" + name
}

var (
	configFlag = cli.StringFlag{
		Name:   "config",
		Usage:  "path to a yaml config file, explicit flags take precedence",
		EnvVar: envVar("CONFIG"),
	}
	nodeFlag = cli.StringFlag{
		Name:   "node",
		Value:  "http://localhost:8669",
		Usage:  "API address of the ledger node",
		EnvVar: envVar("NODE"),
	}
	contractFlag = cli.StringFlag{
		Name:   "contract",
		Usage:  "address of the deployed PollBet contract",
		EnvVar: envVar("CONTRACT"),
	}
	abiVersionFlag = cli.StringFlag{
		Name:   "abi-version",
		Value:  "1",
		Usage:  "expected PollBet ABI schema version",
		EnvVar: envVar("ABI_VERSION"),
	}
	keyFileFlag = cli.StringFlag{
		Name:   "key-file",
		Usage:  "file holding the hex encoded private key of the sender",
		EnvVar: envVar("KEY_FILE"),
	}
	keystoreFlag = cli.StringFlag{
		Name:   "keystore",
		Usage:  "encrypted keystore file of the sender, the password is prompted",
		EnvVar: envVar("KEYSTORE"),
	}
	cacheSizeFlag = cli.IntFlag{
		Name:   "cache-size",
		Value:  256,
		Usage:  "number of polls kept in cache",
		EnvVar: envVar("CACHE_SIZE"),
	}
	maxAgeFlag = cli.DurationFlag{
		Name:   "max-age",
		Usage:  "refetch cached polls older than this, 0 keeps them until invalidated",
		EnvVar: envVar("MAX_AGE"),
	}
	pollIntervalFlag = cli.DurationFlag{
		Name:   "poll-interval",
		Value:  time.Second,
		Usage:  "receipt polling interval when no block notification arrives",
		EnvVar: envVar("POLL_INTERVAL"),
	}
	lateWindowFlag = cli.DurationFlag{
		Name:   "late-window",
		Value:  10 * time.Minute,
		Usage:  "how long timed out writes are still followed",
		EnvVar: envVar("LATE_WINDOW"),
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8680",
		Usage:  "API service listening address",
		EnvVar: envVar("API_ADDR"),
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: envVar("API_CORS"),
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: envVar("ENABLE_API_LOGS"),
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: envVar("ENABLE_METRICS"),
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: envVar("METRICS_ADDR"),
	}
	ntpServerFlag = cli.StringFlag{
		Name:   "ntp-server",
		Value:  "pool.ntp.org",
		Usage:  "NTP server used to correct the local clock, empty disables",
		EnvVar: envVar("NTP_SERVER"),
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-9)",
		EnvVar: envVar("VERBOSITY"),
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: envVar("JSON_LOGS"),
	}

	// command flags
	retriesFlag = cli.IntFlag{
		Name:  "retries",
		Usage: "retry network failures this many times with exponential backoff",
	}
	retryDelayFlag = cli.DurationFlag{
		Name:  "retry-delay",
		Value: 500 * time.Millisecond,
		Usage: "delay before the first retry",
	}
	questionFlag = cli.StringFlag{
		Name:  "question",
		Usage: "poll question",
	}
	answerFlag = cli.StringSliceFlag{
		Name:  "answer",
		Usage: "poll answer, repeat for each option",
	}
	startFlag = cli.StringFlag{
		Name:  "start",
		Usage: "RFC3339 start time, defaults to now",
	}
	durationFlag = cli.DurationFlag{
		Name:  "duration",
		Value: 24 * time.Hour,
		Usage: "how long the poll stays open",
	}
	optionFlag = cli.IntFlag{
		Name:  "option",
		Value: -1,
		Usage: "index of the option voted for",
	}
	kindFlag = cli.StringFlag{
		Name:  "kind",
		Value: "vote",
		Usage: "kind of the reconciled write (create|vote)",
	}
	pollFlag = cli.Int64Flag{
		Name:  "poll",
		Value: -1,
		Usage: "poll a reconciled vote was cast for",
	}
	waitFlag = cli.DurationFlag{
		Name:  "wait",
		Usage: "wait this long for the write to confirm, 0 returns once submitted",
	}
	timeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Value: 30 * time.Second,
		Usage: "how long to wait for confirmation",
	}
)
