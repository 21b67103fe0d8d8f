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
	"runtime"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/devnode/genesis"
	"github.com/vechain/devnode/log"
	"github.com/vechain/devnode/metrics"
	"github.com/vechain/devnode/node"
	"github.com/vechain/devnode/thor"
)

func initLogger(ctx *cli.Context) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewHandler(
		os.Stderr,
		ctx.Uint64(verbosityFlag.Name),
		ctx.Bool(jsonLogsFlag.Name),
		useColor,
	))
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(0, ctx.Uint64(gasLimitFlag.Name)), nil
	}
	gen, err := genesis.LoadCustomGenesis(path)
	if err != nil {
		return nil, err
	}
	return genesis.NewCustomNet(gen)
}

func nodeOptions(ctx *cli.Context, gene *genesis.Genesis) node.Options {
	opts := node.DefaultOptions()
	opts.Genesis = gene
	opts.ChainID = ctx.Uint64(chainIDFlag.Name)
	opts.MaxTxsPerBlock = ctx.Int(maxTxsPerBlockFlag.Name)
	opts.BlockInterval = ctx.Uint64(blockIntervalFlag.Name)
	// interval mining replaces automine
	opts.AutoMine = !ctx.Bool(noAutoMineFlag.Name) && opts.BlockInterval == 0
	opts.AutoImpersonate = ctx.Bool(autoImpersonateFlag.Name)
	opts.TxPool.Limit = ctx.Int(txPoolLimitFlag.Name)
	opts.TxPool.LimitPerAccount = ctx.Int(txPoolLimitPerAccountFlag.Name)
	return opts
}

// loadStateFile restores a state file written by dumpStateFile. A missing file is not an error.
func loadStateFile(n *node.Node, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("state file not found, starting from genesis", "path", path)
			return nil
		}
		return errors.Wrap(err, "read state file")
	}
	if err := n.LoadState(data); err != nil {
		return errors.Wrap(err, "load state file")
	}
	logger.Info("state file loaded", "path", path, "best", n.BestBlock().Header().Number())
	return nil
}

func dumpStateFile(n *node.Node, path string) error {
	data, err := n.DumpState()
	if err != nil {
		return errors.Wrap(err, "dump state")
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "write state file")
	}
	logger.Info("state file saved", "path", path)
	return nil
}

func parseOrigins(s string) string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return strings.Join(origins, ",")
}

// httpServer binds addr and returns the server along with the URL it listens on.
func httpServer(addr string, handler http.Handler) (*http.Server, net.Listener, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, "", errors.Wrapf(err, "listen [%v]", addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}
	return srv, listener, "http://" + listener.Addr().String() + "/", nil
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, listener net.Listener) error {
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
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
		if err := <-errCh; err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func printStartupMessage(gene *genesis.Genesis, isDev bool, n *node.Node, mining, apiURL, metricsURL string) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	best := n.BestBlock().Header()

	info := fmt.Sprintf(`Starting %v
    Network     [ %v %v ]
    Chain ID    [ %v ]
    Best block  [ %v #%v @%v ]
    Gas limit   [ %v ]
    Mining      [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]`,
		fmt.Sprintf("DevNode/%v/%v", fullVersion(), runtime.Version()),
		gene.ID(), gene.Name(),
		n.ChainID(),
		best.ID(), best.Number(), time.Unix(int64(best.Timestamp()), 0),
		n.GasLimit(),
		mining,
		apiURL,
		func() string {
			if metricsURL == "" {
				return "Disabled"
			}
			return metricsURL + "metrics"
		}(),
	)

	// only the dev network accounts have known keys
	if isDev {
		info += tableHead
		for _, a := range genesis.DevAccounts() {
			info += fmt.Sprintf(tableContent,
				a.Address,
				thor.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
			)
		}
		info += tableEnd
	}
	info += "\r\n"

	fmt.Print(info)
}
