// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Command lightclient runs a standalone beacon chain light client: it
// bootstraps from a trusted checkpoint, catches up on historical sync
// committee periods and then keeps following finalized and optimistic
// heads from a single upstream beacon node.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/leonardovona/beacon-bridge/beacon/light"
	"github.com/leonardovona/beacon-bridge/beacon/light/api"
	lightsync "github.com/leonardovona/beacon-bridge/beacon/light/sync"
	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// openStore opens the on-disk leveldb store at datadir, or an in-memory
// store if datadir is empty.
func openStore(datadir string) (ethdb.KeyValueStore, error) {
	if datadir == "" {
		return memorydb.New(), nil
	}
	return leveldb.New(datadir, 256, 0, "lightclient/", false)
}

// verbosityToLevel maps the legacy 0 (crit) .. 5 (trace) verbosity scale
// used by go-ethereum's CLI flags onto the slog-based log.Level constants.
func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return log.LevelCrit
	case v == 1:
		return log.LevelError
	case v == 2:
		return log.LevelWarn
	case v == 3:
		return log.LevelInfo
	case v == 4:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}

var (
	beaconURLFlag = &cli.StringFlag{
		Name:     "beacon-url",
		Usage:    "base URL of the upstream beacon node API",
		Required: true,
	}
	trustedRootFlag = &cli.StringFlag{
		Name:     "trusted-root",
		Usage:    "hex block root of the trusted checkpoint to bootstrap from",
		Required: true,
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "fork schedule to use (mainnet is the only built-in preset)",
		Value: "mainnet",
	}
	dataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "directory to persist the light client store in (in-memory if unset)",
	}
	verbosityFlag = &cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity (0=crit, 5=trace)",
		Value: 3,
	}
)

func main() {
	app := &cli.App{
		Name:  "lightclient",
		Usage: "a beacon chain sync committee light client",
		Flags: []cli.Flag{beaconURLFlag, trustedRootFlag, networkFlag, dataDirFlag, verbosityFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, verbosityToLevel(ctx.Int(verbosityFlag.Name)), true)))

	if ctx.String(networkFlag.Name) != "mainnet" {
		return fmt.Errorf("unsupported network %q: only mainnet is built in", ctx.String(networkFlag.Name))
	}
	config := &params.ChainConfig{Forks: params.MainnetForkSchedule()}
	if err := config.Validate(); err != nil {
		return err
	}

	trustedRoot := common.HexToHash(ctx.String(trustedRootFlag.Name))
	client := api.New(ctx.String(beaconURLFlag.Name))

	genesis, err := client.GetGenesis(ctx.Context)
	if err != nil {
		return fmt.Errorf("fetch genesis info: %w", err)
	}
	config.GenesisValidatorsRoot = genesis.GenesisValidatorsRoot

	db, err := openStore(ctx.String(dataDirFlag.Name))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	lcConfig := &light.Config{ChainConfig: config}

	syncer := lightsync.New(client, mclock.System{})
	if resumed, err := light.LoadStore(db, lcConfig); err != nil {
		return fmt.Errorf("load persisted store: %w", err)
	} else if resumed != nil {
		log.Info("Resuming light client from persisted store", "slot", resumed.FinalizedHeader.Beacon.Slot)
		syncer.Resume(resumed)
	} else {
		if err := syncer.Bootstrap(ctx.Context, config, trustedRoot); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		log.Info("Bootstrapped light client", "slot", syncer.Store().FinalizedHeader.Beacon.Slot)
	}
	defer func() {
		if err := syncer.Store().Persist(db); err != nil {
			log.Warn("Failed to persist light client store", "err", err)
		}
	}()

	slotClock := &lightsync.SlotClock{GenesisTime: params.MinGenesisTime, Now: time.Now}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	currentPeriod := slotClock.CurrentSlot() / (params.SlotsPerEpoch * params.EpochsPerSyncCommitteePeriod)
	if err := syncer.SyncHistorical(runCtx, currentPeriod, slotClock.CurrentSlot()); err != nil {
		return fmt.Errorf("historical sync: %w", err)
	}

	syncer.Run(runCtx, slotClock)
	return nil
}
