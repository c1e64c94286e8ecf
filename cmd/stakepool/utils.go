// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/admin"
	"github.com/vechain/stakepool/builtin/staker"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pool"
	"github.com/vechain/stakepool/thor"
)

// devLaunchTime is fixed so the dev genesis keeps its id across restarts.
const devLaunchTime = 1735689600

const maxClockOffset = 5 * time.Second

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func newLogHandler(format string, w io.Writer, terminal bool, level *slog.LevelVar) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", "auto":
		if terminal {
			return log.LogfmtHandlerWithLevel(w, level), nil
		}
		return log.JSONHandlerWithLevel(w, level), nil
	case "logfmt":
		return log.LogfmtHandlerWithLevel(w, level), nil
	case "json":
		return log.JSONHandlerWithLevel(w, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

func initLogger(ctx *cli.Context) (admin.LogLevels, error) {
	terminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	format := ctx.String(logFormatFlag.Name)

	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))
	handler, err := newLogHandler(format, os.Stderr, terminal, &level)
	if err != nil {
		return nil, err
	}
	log.SetDefault(log.NewLogger(handler))

	var stakerLevel slog.LevelVar
	stakerLevel.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityStakerFlag.Name))))
	stakerHandler, err := newLogHandler(format, os.Stderr, terminal, &stakerLevel)
	if err != nil {
		return nil, err
	}
	staker.SetLogger(log.NewLogger(stakerHandler).With("pkg", "staker"))

	return admin.LogLevels{
		admin.DefaultLogger: &level,
		"staker":            &stakerLevel,
	}, nil
}

// selectGenesis returns nil when neither a file nor dev mode is given,
// the store must then be initialised already.
func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	if path := ctx.String(genesisFlag.Name); path != "" {
		if ctx.Bool(devFlag.Name) {
			return nil, errors.New("--dev and --genesis are mutually exclusive")
		}
		return genesis.Load(path)
	}
	if ctx.Bool(devFlag.Name) {
		return genesis.Devnet(devLaunchTime), nil
	}
	return nil, nil
}

func defaultDataDir() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "org.vechain.stakepool")
	}
	return filepath.Join(home, ".org.vechain.stakepool")
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

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(dataDir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func openPool(ctx *cli.Context, db *lvldb.LevelDB, gene *genesis.Genesis, healthStatus *health.Health) (*pool.Pool, error) {
	p, err := pool.Open(db, gene, pool.NewSystemClock(), pool.Options{
		CacheSize: ctx.Int(cacheFlag.Name),
		Health:    healthStatus,
	})
	if errors.Is(err, pool.ErrNotInitialised) {
		return nil, fmt.Errorf("%w: start with -%s or -%s", err, genesisFlag.Name, devFlag.Name)
	}
	return p, err
}

func startServer(name, addr string, handler http.Handler) (*http.Server, string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "server", name, "err", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/", nil
}

const maxRequestBodySize = 64 * 1024

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, timeout, "request timeout")
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		h.ServeHTTP(w, r)
	})
}

func checkClockOffset(server string, healthStatus *health.Health) func(context.Context) {
	return func(context.Context) {
		resp, err := ntp.Query(server)
		if err != nil {
			logger.Debug("failed to access NTP", "server", server, "err", err)
			return
		}
		healthStatus.ClockOffset(resp.ClockOffset)
		offset := resp.ClockOffset
		if offset < 0 {
			offset = -offset
		}
		if offset > maxClockOffset {
			logger.Warn("clock offset detected", "offset", resp.ClockOffset.String())
		}
	}
}

func formatAmount(v *big.Int) string {
	whole, frac := new(big.Int).QuoRem(v, big.NewInt(1e18), new(big.Int))
	if frac.Sign() == 0 {
		return whole.String()
	}
	digits := new(big.Int).Abs(frac).String()
	digits = strings.TrimRight(strings.Repeat("0", 18-len(digits))+digits, "0")
	return fmt.Sprintf("%v.%v", whole, digits)
}

func formatTime(ts uint64) string {
	return fmt.Sprintf("%v (%v)", ts, time.Unix(int64(ts), 0).UTC().Format(time.RFC3339))
}

func printPoolInfo(w io.Writer, genesisID thor.Bytes32, info *staker.PoolInfo) {
	fmt.Fprintf(w, `Pool          [ %v ]
    Stake token   [ %v ]
    Reward token  [ %v ]
    Start time    [ %v ]
    Produce time  [ %v ]
    Epoch         [ %vs, halving every %vs ]
    Rate          [ %v per epoch ]
    Total staked  [ %v ]
    Produced      [ %v ]
    Distributed   [ %v ]
    Fine          [ %v%%, cooldown %vs, accumulated %v ]
    Availability  [ stake %v, unstake %v, claim %v ]
`,
		genesisID,
		info.StakeToken,
		info.RewardToken,
		formatTime(info.StartTime),
		formatTime(info.ProduceTime),
		info.EpochDuration, info.HalvingDuration,
		formatAmount(info.StartingRewardRate),
		formatAmount(info.TotalStaked),
		formatAmount(info.RewardProduced),
		formatAmount(info.TotalDistributed),
		formatAmount(info.FinePercent),
		info.FineCooldownTime,
		formatAmount(info.AccumulatedFine),
		info.Availability.Stake, info.Availability.Unstake, info.Availability.Claim,
	)
}

func printDevAccounts(w io.Writer) {
	fmt.Fprintln(w, "Dev accounts")
	for _, a := range genesis.DevAccounts() {
		fmt.Fprintf(w, "    %v  %v\n", a.Address, thor.BytesToBytes32(a.PrivateKey.D.FillBytes(make([]byte, 32))))
	}
}
