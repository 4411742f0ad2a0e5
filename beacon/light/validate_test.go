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
	"github.com/leonardovona/beacon-bridge/beacon/types"
	"github.com/ethereum/go-ethereum/common"
)

// makeFinalityUpdate builds a finality update in which finalizedSlot is
// authenticated inside attestedSlot's state root and signed by signer
// at signatureSlot, with the first participantCount members
// participating.
func makeFinalityUpdate(t *testing.T, config *params.ChainConfig, signer *syncCommitteeSigner, attestedSlot, finalizedSlot, signatureSlot uint64, participantCount int) *types.LightClientUpdate {
	t.Helper()
	finalizedHeader := testHeader(finalizedSlot, common.Hash{})
	finalizedRoot := finalizedHeader.HashTreeRoot()

	stateRoot, branch := merkleizeSingleLeaf(finalizedRoot, params.FinalityBranchNumOfLeaves, params.FinalizedRootIndex)
	attestedHeader := testHeader(attestedSlot, stateRoot)

	domain := params.ComputeDomain(params.DomainSyncCommittee, params.ComputeForkVersion(config.Forks, params.ComputeEpochAtSlot(signatureSlot)), config.GenesisValidatorsRoot)
	signingRoot := params.ComputeSigningRoot(attestedHeader.HashTreeRoot(), domain)
	aggregate := signer.sign(t, signingRoot, participantCount)

	return &types.LightClientUpdate{
		AttestedHeader:  types.LightClientHeader{Beacon: attestedHeader},
		FinalizedHeader: types.LightClientHeader{Beacon: finalizedHeader},
		FinalityBranch:  branch,
		SyncAggregate:   aggregate,
		SignatureSlot:   signatureSlot,
	}
}

func bootstrappedStore(t *testing.T, signer *syncCommitteeSigner) *Store {
	t.Helper()
	config := testConfig()
	bootstrap := makeBootstrap(t, signer, 1)
	store, err := Bootstrap(config, bootstrap.Header.Beacon.HashTreeRoot(), bootstrap)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	return store
}

func TestValidateAcceptsValidFinalityUpdate(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, params.SyncCommitteeSize)
	if err := store.Validate(update, 101); err != nil {
		t.Fatalf("expected valid update, got %v", err)
	}
}

func TestValidateRejectsStaleSignatureSlot(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, signer, 100, 64, 100, params.SyncCommitteeSize)
	err := store.Validate(update, 100)
	var verr *ValidationError
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !asValidationError(err, &verr) || verr.Kind != KindStaleSignatureSlot {
		t.Fatalf("expected KindStaleSignatureSlot, got %v", err)
	}
}

func TestValidateRejectsInsufficientParticipants(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, 0)
	err := store.Validate(update, 101)
	var verr *ValidationError
	if !asValidationError(err, &verr) || verr.Kind != KindInsufficientParticipants {
		t.Fatalf("expected KindInsufficientParticipants, got %v", err)
	}
}

func TestValidateRejectsBadSignature(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	other := newSyncCommitteeSigner(t, 2)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, other, 100, 64, 101, params.SyncCommitteeSize)
	err := store.Validate(update, 101)
	var verr *ValidationError
	if !asValidationError(err, &verr) || verr.Kind != KindBadSignature {
		t.Fatalf("expected KindBadSignature, got %v", err)
	}
}

func TestValidateRejectsInvalidFinalityBranch(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	update := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, params.SyncCommitteeSize)
	update.FinalityBranch[0] = [32]byte{0xff}
	err := store.Validate(update, 101)
	var verr *ValidationError
	if !asValidationError(err, &verr) || verr.Kind != KindInvalidFinalityBranch {
		t.Fatalf("expected KindInvalidFinalityBranch, got %v", err)
	}
}

func TestValidateRejectsNotRelevantUpdate(t *testing.T) {
	signer := newSyncCommitteeSigner(t, 1)
	store := bootstrappedStore(t, signer)

	applied := makeFinalityUpdate(t, store.Config, signer, 100, 64, 101, params.SyncCommitteeSize)
	if err := store.ProcessLightClientUpdate(applied, 101); err != nil {
		t.Fatalf("setup update failed: %v", err)
	}
	if store.FinalizedHeader.Beacon.Slot != 64 {
		t.Fatalf("sanity: expected finalized header at 64, slot = %d", store.FinalizedHeader.Beacon.Slot)
	}

	stale := makeFinalityUpdate(t, store.Config, signer, 64, 50, 201, params.SyncCommitteeSize)
	err := store.Validate(stale, 201)
	var verr *ValidationError
	if !asValidationError(err, &verr) || verr.Kind != KindNotRelevant {
		t.Fatalf("expected KindNotRelevant, got %v", err)
	}
}

func asValidationError(err error, target **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok {
		*target = ve
	}
	return ok
}
