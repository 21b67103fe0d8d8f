// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/devnode/api"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/metrics"
	"github.com/vechain/devnode/node"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "devnode")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "DevNode",
		Usage:     "Local single node chain for test & dev",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			apiAddrFlag,
			apiCorsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			blockIntervalFlag,
			noAutoMineFlag,
			autoImpersonateFlag,
			maxTxsPerBlockFlag,
			gasLimitFlag,
			chainIDFlag,
			genesisFlag,
			stateFlag,
			txPoolLimitFlag,
			txPoolLimitPerAccountFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	n, err := node.New(nodeOptions(ctx, gene))
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing node..."); n.Close() }()

	statePath := ctx.String(stateFlag.Name)
	if statePath != "" {
		if err := loadStateFile(n, statePath); err != nil {
			return err
		}
	}

	enableReqLogger := &atomic.Bool{}
	enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiClose := api.New(n, api.Options{
		AllowedOrigins:       parseOrigins(ctx.String(apiCorsFlag.Name)),
		EnableMetrics:        enableMetrics,
		EnableReqLogger:      enableReqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
	})
	apiSrv, apiListener, apiURL, err := httpServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}

	var (
		metricsSrv      *http.Server
		metricsListener net.Listener
		metricsURL      string
	)
	if enableMetrics {
		metricsSrv, metricsListener, metricsURL, err = httpServer(ctx.String(metricsAddrFlag.Name), metricsHandler())
		if err != nil {
			apiListener.Close()
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(exitCtx)
	group.Go(func() error {
		// subscriptions hold hijacked conns the server does not track
		defer apiClose()
		return serve(groupCtx, apiSrv, apiListener)
	})
	if metricsSrv != nil {
		group.Go(func() error {
			return serve(groupCtx, metricsSrv, metricsListener)
		})
	}

	mining := "on demand"
	if interval := n.IntervalMining(); interval > 0 {
		mining = fmt.Sprintf("every %ds", interval)
	} else if n.AutoMine() {
		mining = "automine"
	}

	printStartupMessage(gene, ctx.String(genesisFlag.Name) == "", n, mining, apiURL, metricsURL)

	err = group.Wait()
	logger.Info("stopping services...")
	n.SetIntervalMining(0)

	if statePath != "" {
		if dumpErr := dumpStateFile(n, statePath); dumpErr != nil {
			logger.Error("failed to save state", "err", dumpErr)
		}
	}
	return err
}
