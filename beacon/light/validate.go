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
	"github.com/leonardovona/beacon-bridge/beacon/bls"
	"github.com/leonardovona/beacon-bridge/beacon/merkle"
	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/types"
)

// Validate runs the full validation pipeline of validate_light_client_update
// against the current state of the store. currentSlot is the caller's
// current wall-clock slot estimate, used to reject updates signed in the
// future. Validate never mutates the store; callers apply side effects
// separately via Apply/ProcessLightClientUpdate.
func (s *Store) Validate(update *types.LightClientUpdate, currentSlot uint64) error {
	// 1. Branch lengths must match their fixed depths before any
	// merkle check runs.
	if update.IsFinalityUpdate() {
		if uint64(len(update.FinalityBranch)) != params.FinalityBranchNumOfLeaves {
			return newValidationError(KindBadFinalityBranchLength, "")
		}
	} else if len(update.FinalityBranch) != 0 {
		return newValidationError(KindBadFinalityBranchLength, "non-empty branch on empty finality update")
	}
	if update.IsSyncCommitteeUpdate() {
		if uint64(len(update.NextSyncCommitteeBranch)) != params.NextSyncCommitteeBranchNumOfLeaves {
			return newValidationError(KindBadNextCommitteeBranchLength, "")
		}
	}

	// 2. current_slot >= signature_slot > attested_slot >= finalized_slot.
	if currentSlot < update.SignatureSlot {
		return newValidationError(KindFutureSignatureSlot, "")
	}
	if update.SignatureSlot <= update.AttestedHeader.Beacon.Slot {
		return newValidationError(KindStaleSignatureSlot, "")
	}
	if update.AttestedHeader.Beacon.Slot < update.FinalizedHeader.Beacon.Slot {
		return newValidationError(KindAttestedNotNewer, "")
	}

	// 3. The update's signature period must be the store's current
	// period, or -- only once the next committee is already known --
	// exactly the next one.
	storePeriod := s.FinalizedPeriod()
	signaturePeriod := params.ComputeSyncCommitteePeriodAtSlot(update.SignatureSlot)
	if s.NextSyncCommittee != nil {
		if signaturePeriod != storePeriod && signaturePeriod != storePeriod+1 {
			return newValidationError(KindUnknownCommitteePeriod, "")
		}
	} else if signaturePeriod != storePeriod {
		return newValidationError(KindUnknownCommitteePeriod, "")
	}

	// 4. The update must be relevant: it either advances the finalized
	// header, or it is the first update to carry a next sync committee
	// for the store's current period.
	updateAttestedPeriod := update.AttestedHeader.Beacon.SyncPeriod()
	updateHasNextSyncCommittee := s.NextSyncCommittee == nil &&
		update.IsSyncCommitteeUpdate() && updateAttestedPeriod == storePeriod
	if update.AttestedHeader.Beacon.Slot <= s.FinalizedHeader.Beacon.Slot && !updateHasNextSyncCommittee {
		return newValidationError(KindNotRelevant, "")
	}

	// 5. If the store already knows the next committee for this
	// period, a conflicting root in the update is rejected outright.
	if update.IsSyncCommitteeUpdate() && updateAttestedPeriod == storePeriod && s.NextSyncCommittee != nil {
		knownRoot := s.NextSyncCommittee.Serialized.HashTreeRoot()
		newRoot := update.NextSyncCommittee.HashTreeRoot()
		if knownRoot != newRoot {
			return newValidationError(KindNextCommitteeMismatch, "")
		}
	}

	// 6. Finality merkle branch.
	if update.IsFinalityUpdate() {
		if !merkle.IsValidMerkleBranch(
			update.FinalizedHeader.Beacon.HashTreeRoot(),
			update.FinalityBranch,
			params.FinalityBranchNumOfLeaves,
			params.FinalizedRootIndex,
			update.AttestedHeader.Beacon.StateRoot,
		) {
			return newValidationError(KindInvalidFinalityBranch, "")
		}
		if err := validateExecutionPayload(s.Config, &update.FinalizedHeader); err != nil {
			return err
		}
	}

	// 7. Next sync committee merkle branch.
	if update.IsSyncCommitteeUpdate() {
		if !merkle.IsValidMerkleBranch(
			update.NextSyncCommittee.HashTreeRoot(),
			update.NextSyncCommitteeBranch,
			params.NextSyncCommitteeBranchNumOfLeaves,
			params.NextSyncCommitteeIndex,
			update.AttestedHeader.Beacon.StateRoot,
		) {
			return newValidationError(KindInvalidNextCommitteeBranch, "")
		}
	}

	if err := validateExecutionPayload(s.Config, &update.AttestedHeader); err != nil {
		return err
	}

	// 8. Sync aggregate: participation threshold, known signer
	// committee and BLS signature.
	participants := update.SyncAggregate.ParticipantCount()
	if participants < params.MinSyncCommitteeParticipants {
		return newValidationError(KindInsufficientParticipants, "")
	}

	committee := s.committeeForPeriod(signaturePeriod)
	if committee == nil {
		return newValidationError(KindUnknownSigningCommittee, "")
	}

	keys := committee.ParticipantKeys(update.SyncAggregate.SyncCommitteeBits)
	domain := params.ComputeDomain(
		params.DomainSyncCommittee,
		params.ComputeForkVersion(s.Config.Forks, params.ComputeEpochAtSlot(update.SignatureSlot)),
		s.Config.GenesisValidatorsRoot,
	)
	signingRoot := params.ComputeSigningRoot(update.AttestedHeader.Beacon.HashTreeRoot(), domain)

	sig, err := bls.ParseSignature(update.SyncAggregate.SyncCommitteeSignature)
	if err != nil {
		return newValidationError(KindBadSignature, err.Error())
	}
	if !bls.FastAggregateVerify(keys, signingRoot, sig) {
		return newValidationError(KindBadSignature, "")
	}

	return nil
}

// validateExecutionPayload enforces §4.3: headers at or after the
// CAPELLA fork epoch must carry a verifying execution payload proof;
// earlier headers must carry none.
func validateExecutionPayload(config *params.ChainConfig, header *types.LightClientHeader) error {
	capellaEpoch, hasCapella := params.CapellaForkEpoch(config.Forks)
	postCapella := hasCapella && header.Beacon.Epoch() >= capellaEpoch

	if !postCapella {
		if header.HasExecution() {
			return newValidationError(KindInvalidExecutionPayload, "execution payload present before Capella")
		}
		return nil
	}
	if !header.HasExecution() {
		return newValidationError(KindInvalidExecutionPayload, "missing execution payload at or after Capella")
	}
	if uint64(len(header.ExecutionBranch)) != params.ExecutionBranchNumOfLeaves {
		return newValidationError(KindInvalidExecutionPayload, "bad execution branch length")
	}
	if !merkle.IsValidMerkleBranch(
		executionPayloadRoot(header.ExecutionPayload),
		header.ExecutionBranch,
		params.ExecutionBranchNumOfLeaves,
		params.ExecutionPayloadIndex,
		header.Beacon.BodyRoot,
	) {
		return newValidationError(KindInvalidExecutionPayload, "invalid execution payload branch")
	}
	return nil
}

// executionPayloadRoot computes the leaf value the execution payload
// branch authenticates: the payload's block hash, the one execution
// field the light client protocol itself relies on.
func executionPayloadRoot(payload *types.ExecutionPayloadHeader) (root [32]byte) {
	copy(root[:], payload.BlockHash[:])
	return root
}
