// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the pool database",
		EnvVar: "STAKEPOOL_DATA_DIR",
	}
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to the pool genesis file, required on first start",
		EnvVar: "STAKEPOOL_GENESIS",
	}
	devFlag = cli.BoolFlag{
		Name:   "dev",
		Usage:  "start a development pool with pre-funded accounts",
		EnvVar: "STAKEPOOL_DEV",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Value:  4096,
		Usage:  "number of storage entries kept in memory",
		EnvVar: "STAKEPOOL_CACHE",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8680",
		Usage:  "API service listening address",
		EnvVar: "STAKEPOOL_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "STAKEPOOL_API_CORS",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		Value:  10000,
		Usage:  "API request timeout value in milliseconds",
		EnvVar: "STAKEPOOL_API_TIMEOUT",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "STAKEPOOL_ENABLE_API_LOGS",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		Value:  0,
		Usage:  "log the API requests slower than this value in milliseconds, 0 to disable",
		EnvVar: "STAKEPOOL_API_SLOW_QUERIES_THRESHOLD",
	}

	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		Usage:  "log verbosity (0-9)",
		EnvVar: "STAKEPOOL_VERBOSITY",
	}
	verbosityStakerFlag = cli.Uint64Flag{
		Name:   "verbosity-staker",
		Value:  log.LegacyLevelError,
		Usage:  "log verbosity for the staking operations (0-9)",
		EnvVar: "STAKEPOOL_VERBOSITY_STAKER",
	}
	logFormatFlag = cli.StringFlag{
		Name:   "log-format",
		Value:  "auto",
		Usage:  "log output format (auto|logfmt|json), auto picks logfmt on a terminal",
		EnvVar: "STAKEPOOL_LOG_FORMAT",
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "STAKEPOOL_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "STAKEPOOL_METRICS_ADDR",
	}

	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Usage:  "operator admin API listening address, empty to disable",
		EnvVar: "STAKEPOOL_ADMIN_ADDR",
	}

	ntpServerFlag = cli.StringFlag{
		Name:   "ntp-server",
		Value:  "pool.ntp.org",
		Usage:  "NTP server used to watch the clock offset, empty to disable",
		EnvVar: "STAKEPOOL_NTP_SERVER",
	}
)
