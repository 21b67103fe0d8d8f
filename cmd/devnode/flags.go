// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/thor"
)

var (
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with execution time(ms) above threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log API requests answered with a 5xx status",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of logs returned by /logs API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	blockIntervalFlag = cli.Uint64Flag{
		Name:  "block-interval",
		Usage: "mine a block every n seconds (automine if set to 0)",
	}
	noAutoMineFlag = cli.BoolFlag{
		Name:  "no-automine",
		Usage: "do not mine a block on each submitted tx",
	}
	autoImpersonateFlag = cli.BoolFlag{
		Name:  "auto-impersonate",
		Usage: "accept txs from any sender",
	}
	maxTxsPerBlockFlag = cli.IntFlag{
		Name:  "max-txs-per-block",
		Value: thor.DefaultMaxTxsPerBlock,
		Usage: "maximum number of txs packed in a block",
	}
	gasLimitFlag = cli.Uint64Flag{
		Name:  "gas-limit",
		Value: thor.DefaultGasLimit,
		Usage: "block gas limit of the dev network, ignored with --genesis",
	}
	chainIDFlag = cli.Uint64Flag{
		Name:  "chain-id",
		Value: thor.DefaultChainID,
		Usage: "chain id txs are bound to",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a custom genesis file (YAML or JSON), the dev network if not set",
	}
	stateFlag = cli.StringFlag{
		Name:  "state",
		Usage: "state file loaded at start and written at exit",
	}
	txPoolLimitFlag = cli.IntFlag{
		Name:  "txpool-limit",
		Value: thor.DefaultPoolLimit,
		Usage: "set tx limit in pool",
	}
	txPoolLimitPerAccountFlag = cli.IntFlag{
		Name:  "txpool-limit-per-account",
		Value: thor.DefaultPoolPerAccount,
		Usage: "set tx limit per account in pool",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
)
