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
	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/types"
)

// IsBetterUpdate reports whether newUpdate should replace oldUpdate as
// the store's best_valid_update, the Go equivalent of is_better_update.
// Comparison proceeds through eight tiers, each breaking ties left by
// the previous one: supermajority participation, raw participation when
// neither side has a supermajority, relevance of an included next sync
// committee, presence of finality, sync-committee finality, raw
// participation, attested slot and finally signature slot.
func IsBetterUpdate(newUpdate, oldUpdate *types.LightClientUpdate) bool {
	maxParticipants := len(newUpdate.SyncAggregate.SyncCommitteeBits) * 8
	newParticipants := newUpdate.SyncAggregate.ParticipantCount()
	oldParticipants := oldUpdate.SyncAggregate.ParticipantCount()

	newSupermajority := newParticipants*3 >= maxParticipants*2
	oldSupermajority := oldParticipants*3 >= maxParticipants*2
	if newSupermajority != oldSupermajority {
		return newSupermajority
	}
	if !newSupermajority && newParticipants != oldParticipants {
		return newParticipants > oldParticipants
	}

	newRelevant := newUpdate.IsSyncCommitteeUpdate() && sameSigningPeriod(newUpdate)
	oldRelevant := oldUpdate.IsSyncCommitteeUpdate() && sameSigningPeriod(oldUpdate)
	if newRelevant != oldRelevant {
		return newRelevant
	}

	newFinality := newUpdate.IsFinalityUpdate()
	oldFinality := oldUpdate.IsFinalityUpdate()
	if newFinality != oldFinality {
		return newFinality
	}

	if newFinality {
		newCommitteeFinality := params.ComputeSyncCommitteePeriodAtSlot(newUpdate.FinalizedHeader.Beacon.Slot) ==
			params.ComputeSyncCommitteePeriodAtSlot(newUpdate.AttestedHeader.Beacon.Slot)
		oldCommitteeFinality := params.ComputeSyncCommitteePeriodAtSlot(oldUpdate.FinalizedHeader.Beacon.Slot) ==
			params.ComputeSyncCommitteePeriodAtSlot(oldUpdate.AttestedHeader.Beacon.Slot)
		if newCommitteeFinality != oldCommitteeFinality {
			return newCommitteeFinality
		}
	}

	if newParticipants != oldParticipants {
		return newParticipants > oldParticipants
	}

	if newUpdate.AttestedHeader.Beacon.Slot != oldUpdate.AttestedHeader.Beacon.Slot {
		return newUpdate.AttestedHeader.Beacon.Slot < oldUpdate.AttestedHeader.Beacon.Slot
	}
	return newUpdate.SignatureSlot < oldUpdate.SignatureSlot
}

// sameSigningPeriod reports whether an update's attested header and its
// signature were produced within the same sync committee period, the
// condition under which an included next sync committee is considered
// "relevant" rather than merely present.
func sameSigningPeriod(u *types.LightClientUpdate) bool {
	return params.ComputeSyncCommitteePeriodAtSlot(u.AttestedHeader.Beacon.Slot) ==
		params.ComputeSyncCommitteePeriodAtSlot(u.SignatureSlot)
}
