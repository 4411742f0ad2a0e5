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

	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/types"
	"github.com/ethereum/go-ethereum/log"
)

// safetyThreshold returns get_safety_threshold(store): half of the
// larger of the previous and current period's highest observed
// participation, the bar an update's participation must exceed for its
// attested header to become the optimistic header.
func (s *Store) safetyThreshold() int {
	max := s.PreviousMaxActiveParticipants
	if s.CurrentMaxActiveParticipants > max {
		max = s.CurrentMaxActiveParticipants
	}
	return max / 2
}

// Apply commits an already-validated update to the store: it rotates
// the sync committee across a period boundary and advances the
// finalized (and, transitively, optimistic) header, the Go equivalent
// of apply_light_client_update. Callers must validate the update first.
func (s *Store) Apply(update *types.LightClientUpdate) {
	storePeriod := s.FinalizedPeriod()
	updatePeriod := update.FinalizedHeader.Beacon.SyncPeriod()

	switch {
	case s.NextSyncCommittee == nil:
		if updatePeriod == storePeriod && update.NextSyncCommittee != nil {
			committee, err := types.NewSyncCommittee(*update.NextSyncCommittee)
			if err == nil {
				s.NextSyncCommittee = committee
			}
		}
	case updatePeriod == storePeriod+1:
		s.CurrentSyncCommittee = s.NextSyncCommittee
		s.NextSyncCommittee = nil
		if update.NextSyncCommittee != nil {
			if committee, err := types.NewSyncCommittee(*update.NextSyncCommittee); err == nil {
				s.NextSyncCommittee = committee
			}
		}
		s.PreviousMaxActiveParticipants = s.CurrentMaxActiveParticipants
		s.CurrentMaxActiveParticipants = 0
	}

	if update.FinalizedHeader.Beacon.Slot > s.FinalizedHeader.Beacon.Slot {
		s.FinalizedHeader = update.FinalizedHeader
		if s.FinalizedHeader.Beacon.Slot > s.OptimisticHeader.Beacon.Slot {
			s.OptimisticHeader = s.FinalizedHeader
		}
		log.Info("Advanced finalized light client header", "slot", s.FinalizedHeader.Beacon.Slot)
	}
}

// ProcessForceUpdate applies the store's best known update once more
// than UPDATE_TIMEOUT slots have passed since the store's finalized
// header without a normal apply, the Go equivalent of
// process_light_client_store_force_update. currentSlot is the caller's
// current wall-clock slot estimate (§4.7/§5).
func (s *Store) ProcessForceUpdate(currentSlot uint64) {
	if s.BestValidUpdate == nil {
		return
	}
	if currentSlot <= s.FinalizedHeader.Beacon.Slot+params.UpdateTimeout {
		return
	}
	// The apply logic only advances the finalized header when the
	// update's finalized header is newer; in extended periods of
	// non-finality best_valid_update's own finalized header never
	// catches up. Treat its attested header as finalized so the store
	// still progresses into later sync committee periods.
	if s.BestValidUpdate.FinalizedHeader.Beacon.Slot <= s.FinalizedHeader.Beacon.Slot {
		s.BestValidUpdate.FinalizedHeader = s.BestValidUpdate.AttestedHeader
	}
	log.Warn("Force-updating light client store after timeout", "slot", currentSlot, "finalizedSlot", s.FinalizedHeader.Beacon.Slot)
	s.Apply(s.BestValidUpdate)
	s.BestValidUpdate = nil
}

// ProcessLightClientUpdate validates update and, if it is the best
// candidate seen so far, records it. If its participation clears the
// safety threshold and its attested header is newer, the optimistic
// header advances; if its participation clears the 2/3 supermajority and
// it either advances the finalized header or carries a next sync
// committee finalized in its own period, it is applied immediately. It
// then runs the force-update check, the Go equivalent of
// process_light_client_update.
func (s *Store) ProcessLightClientUpdate(update *types.LightClientUpdate, currentSlot uint64) error {
	if err := s.Validate(update, currentSlot); err != nil {
		return fmt.Errorf("process update: %w", err)
	}

	if s.BestValidUpdate == nil || IsBetterUpdate(update, s.BestValidUpdate) {
		s.BestValidUpdate = update
	}

	participants := update.SyncAggregate.ParticipantCount()
	if participants > s.CurrentMaxActiveParticipants {
		s.CurrentMaxActiveParticipants = participants
	}

	if participants > s.safetyThreshold() && update.AttestedHeader.Beacon.Slot > s.OptimisticHeader.Beacon.Slot {
		s.OptimisticHeader = update.AttestedHeader
		log.Debug("Advanced optimistic light client header", "slot", s.OptimisticHeader.Beacon.Slot)
	}

	// Normal update through the 2/3 supermajority threshold: either the
	// finalized header itself advances, or this is the first update to
	// carry a next sync committee finalized in the attested header's own
	// period (update_has_finalized_next_sync_committee).
	updateHasFinalizedNextSyncCommittee := s.NextSyncCommittee == nil &&
		update.IsSyncCommitteeUpdate() && update.IsFinalityUpdate() &&
		update.FinalizedHeader.Beacon.SyncPeriod() == update.AttestedHeader.Beacon.SyncPeriod()

	if participants*3 >= params.SyncCommitteeSize*2 &&
		(update.FinalizedHeader.Beacon.Slot > s.FinalizedHeader.Beacon.Slot || updateHasFinalizedNextSyncCommittee) {
		s.Apply(update)
		s.BestValidUpdate = nil
	}

	s.ProcessForceUpdate(currentSlot)
	return nil
}

// ProcessLightClientFinalityUpdate validates a finality update and
// feeds it through the common update pipeline, the Go equivalent of
// process_light_client_finality_update.
func (s *Store) ProcessLightClientFinalityUpdate(update *types.LightClientFinalityUpdate, currentSlot uint64) error {
	return s.ProcessLightClientUpdate(update.AsUpdate(), currentSlot)
}

// ProcessLightClientOptimisticUpdate validates an optimistic update and,
// if its participation clears the safety threshold and its attested
// header is newer, advances the optimistic head, the Go equivalent of
// process_light_client_optimistic_update. Unlike a full update this
// never touches the finalized header, sync committees or
// best_valid_update.
func (s *Store) ProcessLightClientOptimisticUpdate(update *types.LightClientOptimisticUpdate, currentSlot uint64) error {
	full := update.AsUpdate()
	if err := s.Validate(full, currentSlot); err != nil {
		return fmt.Errorf("process optimistic update: %w", err)
	}

	participants := update.SyncAggregate.ParticipantCount()
	if participants > s.safetyThreshold() && update.AttestedHeader.Beacon.Slot > s.OptimisticHeader.Beacon.Slot {
		s.OptimisticHeader = update.AttestedHeader
		log.Debug("Advanced optimistic light client header", "slot", s.OptimisticHeader.Beacon.Slot)
	}
	return nil
}
