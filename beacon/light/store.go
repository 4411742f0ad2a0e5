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

package light

import (
	"fmt"

	"github.com/leonardovona/beacon-bridge/beacon/merkle"
	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// Config bundles the chain configuration a Store needs to validate
// updates; it exists separately from params.ChainConfig so that
// persistence helpers (LoadStore) don't need to import the sync
// orchestrator's broader configuration.
type Config struct {
	ChainConfig *params.ChainConfig
}

// Store is the light client's locally verified view of the chain: the
// finalized and optimistic headers, the current and (if known) next
// sync committee, and the bookkeeping needed to drive the force-update
// timeout, see §3 LightClientStore.
type Store struct {
	Config *params.ChainConfig

	FinalizedHeader  types.LightClientHeader
	CurrentSyncCommittee *types.SyncCommittee
	NextSyncCommittee    *types.SyncCommittee

	BestValidUpdate *types.LightClientUpdate

	OptimisticHeader types.LightClientHeader

	PreviousMaxActiveParticipants int
	CurrentMaxActiveParticipants  int
}

// Bootstrap initializes a Store from a trusted checkpoint, the Go
// equivalent of initialize_light_client_store. The bootstrap header's own
// execution payload proof and the bootstrap's current sync committee are
// both verified against the header's state root before being accepted.
func Bootstrap(config *params.ChainConfig, trustedBlockRoot common.Hash, bootstrap *types.LightClientBootstrap) (*Store, error) {
	if err := validateExecutionPayload(config, &bootstrap.Header); err != nil {
		return nil, fmt.Errorf("bootstrap header: %w", err)
	}
	if bootstrap.Header.Beacon.HashTreeRoot() != trustedBlockRoot {
		return nil, fmt.Errorf("%w: bootstrap header root does not match trusted checkpoint", ErrValidation)
	}
	if !merkle.IsValidMerkleBranch(
		bootstrap.CurrentSyncCommittee.HashTreeRoot(),
		bootstrap.CurrentSyncCommitteeBranch,
		params.FloorLog2(params.CurrentSyncCommitteeIndex),
		params.CurrentSyncCommitteeIndex,
		bootstrap.Header.Beacon.StateRoot,
	) {
		return nil, fmt.Errorf("%w: invalid current sync committee branch", ErrValidation)
	}

	committee, err := types.NewSyncCommittee(bootstrap.CurrentSyncCommittee)
	if err != nil {
		return nil, fmt.Errorf("bootstrap sync committee: %w", err)
	}

	log.Info("Initialized light client store", "slot", bootstrap.Header.Beacon.Slot, "root", trustedBlockRoot)

	return &Store{
		Config:               config,
		FinalizedHeader:      bootstrap.Header,
		CurrentSyncCommittee: committee,
		OptimisticHeader:     bootstrap.Header,
	}, nil
}

// FinalizedPeriod returns the sync committee period of the store's
// finalized header.
func (s *Store) FinalizedPeriod() uint64 {
	return s.FinalizedHeader.Beacon.SyncPeriod()
}

// committeeForPeriod returns the sync committee that must have signed an
// update whose signature was produced in the given period, or nil if the
// store does not yet know it (KindUnknownSigningCommittee).
func (s *Store) committeeForPeriod(period uint64) *types.SyncCommittee {
	switch period {
	case s.FinalizedPeriod():
		return s.CurrentSyncCommittee
	case s.FinalizedPeriod() + 1:
		return s.NextSyncCommittee
	default:
		return nil
	}
}
