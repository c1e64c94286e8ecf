// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/admin"
	"github.com/vechain/stakepool/api"
	"github.com/vechain/stakepool/co"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
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
		Name:      "Stakepool",
		Usage:     "Staking pool with halving reward emission",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			devFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			verbosityFlag,
			verbosityStakerFlag,
			logFormatFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			ntpServerFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "info",
				Usage: "Print the pool state stored in the data dir",
				Flags: []cli.Flag{
					dataDirFlag,
					cacheFlag,
				},
				Action: infoAction,
			},
			{
				Name:      "genesis-check",
				Usage:     "Validate a genesis file and print its id",
				ArgsUsage: "<genesis file>",
				Action:    genesisCheckAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevels, err := initLogger(ctx)
	if err != nil {
		return err
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	// meters bind to the provider on first use
	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	healthStatus := health.New(maxClockOffset)
	p, err := openPool(ctx, mainDB, gene, healthStatus)
	if err != nil {
		return err
	}

	handler := api.New(p, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        enableMetrics,
		Health:               healthStatus,
	})
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}

	handler = requestBodyLimit(handler)

	apiSrv, apiURL, err := startServer("API", ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); apiSrv.Close() }()

	adminURL := "disabled"
	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		url, stop, err := admin.StartServer(addr, logLevels)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	metricsURL := "disabled"
	if enableMetrics {
		metricsSrv, url, err := startServer("metrics", ctx.String(metricsAddrFlag.Name), metrics.HTTPHandler())
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); metricsSrv.Close() }()
		metricsURL = url
	}

	info, err := p.PoolInfo()
	if err != nil {
		return err
	}
	printPoolInfo(os.Stdout, p.GenesisID(), info)
	fmt.Printf(`    Data dir      [ %v ]
    API portal    [ %v ]
    Metrics       [ %v ]
    Admin         [ %v ]
`, dataDir, apiURL, metricsURL, adminURL)
	if ctx.Bool(devFlag.Name) {
		printDevAccounts(os.Stdout)
	}

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		p.RunMetrics(groupCtx)
		return nil
	})

	var goes co.Goes
	if server := strings.TrimSpace(ctx.String(ntpServerFlag.Name)); server != "" {
		goes.Every(groupCtx, 10*time.Minute, checkClockOffset(server, healthStatus))
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return apiSrv.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	goes.Wait()
	return err
}

func infoAction(ctx *cli.Context) error {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(dataDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	p, err := openPool(ctx, mainDB, nil, nil)
	if err != nil {
		return err
	}
	info, err := p.PoolInfo()
	if err != nil {
		return err
	}
	printPoolInfo(os.Stdout, p.GenesisID(), info)
	return nil
}

func genesisCheckAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("expected exactly one genesis file", 1)
	}
	gene, err := genesis.Load(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Printf("Genesis       [ %v ]\n", gene.ID())
	fmt.Printf("    Tokens        [ %v ]\n", len(gene.Tokens))
	fmt.Printf("    Admins        [ %v ]\n", len(gene.Admins))
	fmt.Printf("    Stake/Reward  [ %v / %v ]\n", gene.Pool.StakeToken, gene.Pool.RewardToken)
	return nil
}
