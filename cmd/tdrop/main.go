// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/thetatoken/tdrop-governance/api"
	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/genesis"
	"github.com/thetatoken/tdrop-governance/health"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/lvldb"
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
		Version: fullVersion(),
		Name:    "TDrop",
		Usage:   "Staking pool and governance node",
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run a single node chain with the REST API",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					persistFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiLogsLimitFlag,
					apiBacktraceLimitFlag,
					apiReadOnlyFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					onDemandFlag,
					blockIntervalFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: soloAction,
			},
			{
				Name:   "genesis",
				Usage:  "print the devnet genesis YAML",
				Action: genesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func genesisAction(*cli.Context) error {
	data, err := genesis.DevConfig().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func soloAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	gene := loadGenesis(ctx)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(instanceDir)
		logDB = openLogDB(instanceDir)
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	interval := ctx.Uint64(blockIntervalFlag.Name)
	if interval == 0 {
		return fmt.Errorf("invalid %v: must be positive", blockIntervalFlag.Name)
	}
	onDemand := ctx.Bool(onDemandFlag.Name)
	c, err := chain.New(mainDB, logDB, gene, chain.Options{
		BlockInterval: interval,
		OnDemand:      onDemand,
	})
	if err != nil {
		return err
	}

	timeBetweenBlocks := time.Duration(interval) * time.Second
	if onDemand {
		timeBetweenBlocks = 0
	}
	healthStatus := health.New(timeBetweenBlocks)

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	handler, closeAPI := api.New(c, logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		BacktraceLimit:  uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   enableMetrics,
		DevMode:         !ctx.Bool(apiReadOnlyFlag.Name),
		Health:          healthStatus,
	})
	defer closeAPI()

	exitCtx, stop := handleExitSignal()
	defer stop()
	group, groupCtx := errgroup.WithContext(exitCtx)

	group.Go(func() error { return healthStatus.Watch(groupCtx, c) })

	apiURL, serveAPI := startServer(ctx.String(apiAddrFlag.Name), handler)
	group.Go(func() error { return serveAPI(groupCtx) })

	if enableMetrics {
		metricsURL, serveMetrics := startServer(ctx.String(metricsAddrFlag.Name), metricsHandler())
		logger.Info("metrics server started", "url", metricsURL+"metrics")
		group.Go(func() error { return serveMetrics(groupCtx) })
	}

	if !onDemand {
		group.Go(func() error {
			return c.Run(groupCtx, timeBetweenBlocks)
		})
	}

	printSoloStartupMessage(gene, c, instanceDir, apiURL)
	return group.Wait()
}
