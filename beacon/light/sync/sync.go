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

// Package sync implements the light client's sync orchestrator: bootstrap,
// chunked historical catch-up across sync committee periods and the three
// cooperative polling loops that keep the store current, see §4.7 and §5.
//
// There is deliberately no multi-peer request scheduler here (the
// teacher's beacon/light/sync carries one for exactly that purpose) --
// peer-to-peer networking is a non-goal of this system, which talks to a
// single configured beacon node.
package sync

import (
	"context"
	"fmt"

	"github.com/leonardovona/beacon-bridge/beacon/light"
	"github.com/leonardovona/beacon-bridge/beacon/light/api"
	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
)

// Event constants published on the Syncer's feeds, named after the
// equivalent EvNewHead/EvNewSignedHead vocabulary of the teacher's
// beacon/light/sync package.
const (
	EvNewOptimisticHead = "new-optimistic-head"
	EvNewFinalizedHead  = "new-finalized-head"
)

// HeadEvent is published whenever the store's optimistic or finalized
// header advances.
type HeadEvent struct {
	Kind string
	Slot uint64
	Root common.Hash
}

// Syncer owns a single Store and drives it forward by polling a single
// upstream beacon node. Syncer starts no goroutine of its own and does no
// locking: all store mutation happens on the goroutine that calls
// Bootstrap, SyncHistorical, the Poll methods and Run (§5).
type Syncer struct {
	client *api.Client
	clock  mclock.Clock

	store *light.Store
	feed  event.Feed

	closeCh chan struct{}
}

// New creates a Syncer against client. clock is stored on the Syncer but
// not consulted: Run times its polls with time.Ticker and derives slots
// from the SlotClock it is given.
func New(client *api.Client, clock mclock.Clock) *Syncer {
	return &Syncer{client: client, clock: clock, closeCh: make(chan struct{})}
}

// SubscribeHeadEvents registers ch to receive HeadEvents published by
// the syncer.
func (s *Syncer) SubscribeHeadEvents(ch chan<- HeadEvent) event.Subscription {
	return s.feed.Subscribe(ch)
}

// Resume adopts a previously persisted store instead of bootstrapping
// from a trusted checkpoint, letting a restart pick up where it left
// off (§6 persisted state layout).
func (s *Syncer) Resume(store *light.Store) {
	s.store = store
}

// Store returns the syncer's current store. Callers must not mutate it.
// The syncer updates its fields in place without synchronization, so it
// is not safe to read from another goroutine while Run or a Poll method
// is executing.
func (s *Syncer) Store() *light.Store {
	return s.store
}

// Bootstrap initializes the store from a trusted checkpoint block root,
// the entry point of bridge.py's bootstrap().
func (s *Syncer) Bootstrap(ctx context.Context, config *params.ChainConfig, trustedBlockRoot common.Hash) error {
	data, err := s.client.GetBootstrap(ctx, trustedBlockRoot)
	if err != nil {
		return fmt.Errorf("fetch bootstrap data: %w", err)
	}
	store, err := light.Bootstrap(config, trustedBlockRoot, data)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	s.store = store
	return nil
}

// chunkifyRange splits [fromPeriod, toPeriod) into contiguous chunks of
// at most itemsPerChunk periods each, the Go equivalent of bridge.py's
// chunkify_range. An empty or backwards range yields no chunks.
func chunkifyRange(fromPeriod, toPeriod uint64, itemsPerChunk int) [][2]uint64 {
	if toPeriod <= fromPeriod || itemsPerChunk <= 0 {
		return nil
	}
	var chunks [][2]uint64
	for start := fromPeriod; start < toPeriod; start += uint64(itemsPerChunk) {
		end := start + uint64(itemsPerChunk)
		if end > toPeriod {
			end = toPeriod
		}
		chunks = append(chunks, [2]uint64{start, end})
	}
	return chunks
}

// SyncHistorical fetches and applies every period update from the
// store's current finalized period (or the period after it, once the
// next sync committee is already known) up to (but not including)
// currentPeriod, in chunks of at most MAX_REQUEST_LIGHT_CLIENT_UPDATES,
// the Go equivalent of bridge.py's sync(). currentSlot is used to drive
// the force-update timeout check after each applied update.
func (s *Syncer) SyncHistorical(ctx context.Context, currentPeriod, currentSlot uint64) error {
	fromPeriod := s.store.FinalizedPeriod()
	if s.store.NextSyncCommittee != nil {
		fromPeriod++
	}
	for _, chunk := range chunkifyRange(fromPeriod, currentPeriod, params.MaxRequestLightClientUpdates) {
		start, end := chunk[0], chunk[1]
		updates, err := s.client.GetUpdates(ctx, start, int(end-start))
		if err != nil {
			return fmt.Errorf("fetch updates [%d,%d): %w", start, end, err)
		}
		for _, update := range updates {
			if err := s.store.ProcessLightClientUpdate(update, currentSlot); err != nil {
				return fmt.Errorf("apply historical update: %w", err)
			}
		}
		log.Info("Synced historical light client updates", "from", start, "to", end)
	}
	return nil
}

// PollOptimistic fetches and applies the latest optimistic update; it is
// meant to be called roughly every SECONDS_PER_SLOT seconds (§4.7).
func (s *Syncer) PollOptimistic(ctx context.Context, currentSlot uint64) error {
	update, err := s.client.GetOptimisticUpdate(ctx)
	if err != nil {
		return fmt.Errorf("fetch optimistic update: %w", err)
	}
	before := s.store.OptimisticHeader.Beacon.Slot
	if err := s.store.ProcessLightClientOptimisticUpdate(update, currentSlot); err != nil {
		return fmt.Errorf("apply optimistic update: %w", err)
	}
	if s.store.OptimisticHeader.Beacon.Slot != before {
		s.feed.Send(HeadEvent{Kind: EvNewOptimisticHead, Slot: s.store.OptimisticHeader.Beacon.Slot, Root: s.store.OptimisticHeader.Beacon.HashTreeRoot()})
	}
	return nil
}

// PollFinality fetches and applies the latest finality update; it is
// meant to be called roughly every FINALITY_UPDATE_POLL_INTERVAL
// seconds (§4.7), matching bridge.py's handle_finality_updates loop.
func (s *Syncer) PollFinality(ctx context.Context, currentSlot uint64) error {
	update, err := s.client.GetFinalityUpdate(ctx)
	if err != nil {
		return fmt.Errorf("fetch finality update: %w", err)
	}
	before := s.store.FinalizedHeader.Beacon.Slot
	if err := s.store.ProcessLightClientFinalityUpdate(update, currentSlot); err != nil {
		return fmt.Errorf("apply finality update: %w", err)
	}
	if s.store.FinalizedHeader.Beacon.Slot != before {
		s.feed.Send(HeadEvent{Kind: EvNewFinalizedHead, Slot: s.store.FinalizedHeader.Beacon.Slot, Root: s.store.FinalizedHeader.Beacon.HashTreeRoot()})
	}
	return nil
}

// NeedsCommitteeLookahead reports whether the store should start
// fetching the next period's sync committee update: true once within
// LOOKAHEAD_EPOCHS_COMMITTEE_SYNC epochs of the current period's end and
// the next committee is not yet known, mirroring bridge.py's epoch-based
// lookahead check in main().
func (s *Syncer) NeedsCommitteeLookahead(currentEpoch uint64) bool {
	if s.store.NextSyncCommittee != nil {
		return false
	}
	periodEndEpoch := (s.store.FinalizedPeriod() + 1) * params.EpochsPerSyncCommitteePeriod
	return currentEpoch+params.LookaheadEpochsCommitteeSync >= periodEndEpoch
}

// PollCommitteeLookahead fetches and applies the update carrying the
// store's current sync committee period, which is expected to include
// the next period's committee once enough of the period has elapsed.
func (s *Syncer) PollCommitteeLookahead(ctx context.Context, currentSlot uint64) error {
	updates, err := s.client.GetUpdates(ctx, s.store.FinalizedPeriod(), 1)
	if err != nil {
		return fmt.Errorf("fetch committee lookahead update: %w", err)
	}
	for _, update := range updates {
		if err := s.store.ProcessLightClientUpdate(update, currentSlot); err != nil {
			return fmt.Errorf("apply committee lookahead update: %w", err)
		}
	}
	return nil
}

// Close makes a running Run return.
func (s *Syncer) Close() {
	close(s.closeCh)
}
