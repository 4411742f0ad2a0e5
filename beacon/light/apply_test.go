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
	"testing"

	"github.com/leonardovona/beacon-bridge/beacon/params"
)

func TestProcessLightClientUpdateAdvancesFinalizedHeader(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, params.SyncCommitteeSize)
	if err := store.ProcessLightClientUpdate(update, 101); err != nil {
		t.Fatalf("ProcessLightClientUpdate failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Errorf("finalized header slot = %d, want 64", store.FinalizedHeader.Beacon.Slot)
	}
	if store.BestValidUpdate != nil {
		t.Error("expected best_valid_update to be cleared after applying")
	}
}

func TestProcessLightClientUpdateKeepsLowParticipationAsBestOnly(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	// On a fresh store the safety threshold is 0, so any participant
	// count > 0 clears it. First apply a high-participation update to
	// raise the bar, then a low one that should only become
	// best_valid_update.
	high := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, params.SyncCommitteeSize)
	if err := store.ProcessLightClientUpdate(high, 101); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	low := makeFinalityUpdate(t, store.Config, signer, 200, 64, 201, 1)
	if err := store.ProcessLightClientUpdate(low, 201); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Errorf("finalized header should not have advanced further, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
	if store.BestValidUpdate == nil {
		t.Error("expected low-participation update to become best_valid_update")
	}
}

func TestProcessForceUpdateAppliesBestValidAfterTimeout(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	store.CurrentMaxActiveParticipants = params.SyncCommitteeSize
	low := makeFinalityUpdate(t, store.Config, signer, 200, 64, 201, 1)
	if err := store.ProcessLightClientUpdate(low, 201); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 1 {
		t.Fatalf("sanity: expected no immediate advance, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
	if store.BestValidUpdate == nil {
		t.Fatal("expected best_valid_update to be recorded")
	}

	forceSlot := store.FinalizedHeader.Beacon.Slot + params.UpdateTimeout + 1
	store.ProcessForceUpdate(forceSlot)
	if store.BestValidUpdate != nil {
		t.Error("expected best_valid_update to be cleared after force-update")
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Errorf("expected force-update to apply best_valid_update, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
}

// TestProcessLightClientUpdateRequiresSupermajorityToApply checks that an
// update clearing the safety threshold but not the 2/3 supermajority
// becomes best_valid_update rather than being applied outright, even
// though its finalized header is newer than the store's.
func TestProcessLightClientUpdateRequiresSupermajorityToApply(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	store.CurrentMaxActiveParticipants = 340
	update := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, 340)
	if err := store.ProcessLightClientUpdate(update, 101); err != nil {
		t.Fatalf("ProcessLightClientUpdate failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 1 {
		t.Errorf("sub-supermajority update should not have applied, finalized slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
	if store.BestValidUpdate == nil {
		t.Error("expected sub-supermajority update to remain best_valid_update")
	}
	if store.OptimisticHeader.Beacon.Slot != 100 {
		t.Errorf("optimistic header slot = %d, want 100 (safety threshold cleared)", store.OptimisticHeader.Beacon.Slot)
	}
}

// TestProcessLightClientUpdateAdvancesOptimisticToAttestedSlot checks that
// the optimistic header is promoted to the update's attested slot, not
// the finalized slot it also advances to in the same call.
func TestProcessLightClientUpdateAdvancesOptimisticToAttestedSlot(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, signer, 164, 64, 165, params.SyncCommitteeSize)
	if err := store.ProcessLightClientUpdate(update, 165); err != nil {
		t.Fatalf("ProcessLightClientUpdate failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Fatalf("sanity: expected finalized header to advance, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
	if store.OptimisticHeader.Beacon.Slot != 164 {
		t.Errorf("optimistic header slot = %d, want 164 (attested slot)", store.OptimisticHeader.Beacon.Slot)
	}
}

// TestProcessForceUpdateAdvancesFinalizedDuringExtendedNonFinality checks
// that force-update still progresses the finalized header when
// best_valid_update's own finalized header never outran the store's --
// the case of an extended period without finality.
func TestProcessForceUpdateAdvancesFinalizedDuringExtendedNonFinality(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	first := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, params.SyncCommitteeSize)
	if err := store.ProcessLightClientUpdate(first, 101); err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Fatalf("sanity: expected finalized header at 64, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}

	stuck := makeFinalityUpdate(t, store.Config, signer, 200, 64, 201, 100)
	if err := store.ProcessLightClientUpdate(stuck, 201); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Fatalf("sanity: finalized header should still be stuck at 64, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
	if store.BestValidUpdate == nil {
		t.Fatal("expected the non-finalizing update to become best_valid_update")
	}

	forceSlot := store.FinalizedHeader.Beacon.Slot + params.UpdateTimeout + 1
	store.ProcessForceUpdate(forceSlot)
	if store.BestValidUpdate != nil {
		t.Error("expected best_valid_update to be cleared after force-update")
	}
	if store.FinalizedHeader.Beacon.Slot != 200 {
		t.Errorf("expected force-update to promote the attested header to finalized, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}
}
