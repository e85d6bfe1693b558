// Copyright (c) 2026 The TDrop Governance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/thetatoken/tdrop-governance/chain"
	"github.com/thetatoken/tdrop-governance/genesis"
	"github.com/thetatoken/tdrop-governance/log"
	"github.com/thetatoken/tdrop-governance/logdb"
	"github.com/thetatoken/tdrop-governance/lvldb"
	"github.com/thetatoken/tdrop-governance/metrics"
	"github.com/thetatoken/tdrop-governance/tdrop"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	lvl := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	if ctx.Bool(jsonLogsFlag.Name) {
		log.SetDefault(log.NewLogger(log.NewJSONHandler(os.Stdout, lvl)))
	} else {
		log.SetDefault(log.NewLogger(log.NewTerminalHandler(os.Stdout, lvl)))
	}
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".tdrop")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func loadGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet()
	}
	cfg, err := genesis.LoadConfig(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis [%v]: %v", path, err))
	}
	gene, err := genesis.New(filepath.Base(path), cfg)
	if err != nil {
		fatal(fmt.Sprintf("init genesis [%v]: %v", path, err))
	}
	return gene
}

// instanceDirName names the data directory of a chain after the tail of its genesis id.
func instanceDirName(gene *genesis.Genesis) string {
	return fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:])
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal("unable to infer default data dir, use -data-dir to specify")
	}
	instanceDir := filepath.Join(dataDir, instanceDirName(gene))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(instanceDir string) *lvldb.LevelDB {
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: 128, OpenFilesCacheCapacity: 64})
	if err != nil {
		fatal(fmt.Sprintf("open chain database [%v]: %v", dir, err))
	}
	return db
}

func openLogDB(instanceDir string) *logdb.LogDB {
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open chain database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// startServer listens on addr and serves handler until ctx is done.
func startServer(addr string, handler http.Handler) (string, func(ctx context.Context) error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen [%v]: %v", addr, err))
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       10 * time.Second,
	}
	return "http://" + listener.Addr().String() + "/", func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Serve(listener)
		}()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
}

func metricsHandler() http.Handler {
	metrics.InitializePrometheusMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return mux
}

func printSoloStartupMessage(gene *genesis.Genesis, c *chain.Chain, dataDir, apiURL string) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	head := c.Head()
	info := fmt.Sprintf(`Starting %v
    Network     [ %v %v ]
    Best block  [ %v #%v @%v ]
    Data dir    [ %v ]
    API portal  [ %v ]`,
		"TDrop solo "+fullVersion(),
		gene.ID(), gene.Name(),
		head.ID, head.Number, time.Unix(int64(head.Timestamp), 0).UTC(),
		dataDir,
		apiURL)

	if gene.Name() == "devnet" {
		info += tableHead
		for _, a := range genesis.DevAccounts() {
			info += fmt.Sprintf(tableContent,
				a.Address,
				tdrop.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
			)
		}
		info += tableEnd
	}
	fmt.Println(info)
}
