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

package sync

import (
	"context"
	"time"

	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/ethereum/go-ethereum/log"
)

// SlotClock derives slot/epoch numbers from genesis time using its Now
// function, so that tests can supply a fixed time instead of time.Now.
type SlotClock struct {
	GenesisTime uint64
	Now         func() time.Time
}

// CurrentSlot returns floor((now - genesis_time) / SECONDS_PER_SLOT),
// or 0 before genesis.
func (c *SlotClock) CurrentSlot() uint64 {
	now := uint64(c.Now().Unix())
	if now < c.GenesisTime {
		return 0
	}
	return (now - c.GenesisTime) / params.SecondsPerSlot
}

// CurrentEpoch returns the epoch containing CurrentSlot().
func (c *SlotClock) CurrentEpoch() uint64 {
	return params.ComputeEpochAtSlot(c.CurrentSlot())
}

// Run drives the three cooperative polling loops described in §4.7 until
// ctx is canceled or Close is called: an optimistic-update poll roughly
// every SECONDS_PER_SLOT, a finality-update poll roughly every
// FINALITY_UPDATE_POLL_INTERVAL seconds, and a committee-lookahead check
// once per epoch. All three run on the goroutine that calls Run, so no
// locking is needed around the store (§5).
func (s *Syncer) Run(ctx context.Context, clock *SlotClock) {
	optimisticTicker := time.NewTicker(params.SecondsPerSlot * time.Second)
	finalityTicker := time.NewTicker(finalityUpdatePollInterval * time.Second)
	lookaheadTicker := time.NewTicker(params.SlotsPerEpoch * params.SecondsPerSlot * time.Second)
	defer optimisticTicker.Stop()
	defer finalityTicker.Stop()
	defer lookaheadTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closeCh:
			return
		case <-optimisticTicker.C:
			if err := s.PollOptimistic(ctx, clock.CurrentSlot()); err != nil {
				log.Warn("Optimistic update poll failed", "err", err)
			}
		case <-finalityTicker.C:
			if err := s.PollFinality(ctx, clock.CurrentSlot()); err != nil {
				log.Warn("Finality update poll failed", "err", err)
			}
		case <-lookaheadTicker.C:
			if s.NeedsCommitteeLookahead(clock.CurrentEpoch()) {
				if err := s.PollCommitteeLookahead(ctx, clock.CurrentSlot()); err != nil {
					log.Warn("Committee lookahead poll failed", "err", err)
				}
			}
		}
	}
}

// finalityUpdatePollInterval is bridge.py's FINALITY_UPDATE_POLL_INTERVAL,
// expressed in seconds.
const finalityUpdatePollInterval = 48
