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

package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// LightClientBootstrap is the response to a bootstrap request: the
// trusted header, its current sync committee and the committee's
// merkle proof, see §3 LightClientBootstrap.
type LightClientBootstrap struct {
	Header                     LightClientHeader       `json:"header"`
	CurrentSyncCommittee       SerializedSyncCommittee `json:"current_sync_committee"`
	CurrentSyncCommitteeBranch []common.Hash           `json:"current_sync_committee_branch"`
}

// LightClientUpdate is the full update message a server returns for a
// given sync committee period, see §3 LightClientUpdate.
type LightClientUpdate struct {
	AttestedHeader          LightClientHeader
	NextSyncCommittee       *SerializedSyncCommittee // nil if not provided
	NextSyncCommitteeBranch []common.Hash
	FinalizedHeader         LightClientHeader // zero value if not a finality update
	FinalityBranch          []common.Hash
	SyncAggregate           SyncAggregate
	SignatureSlot           uint64
}

type jsonLightClientUpdate struct {
	AttestedHeader          LightClientHeader        `json:"attested_header"`
	NextSyncCommittee       *SerializedSyncCommittee `json:"next_sync_committee,omitempty"`
	NextSyncCommitteeBranch []common.Hash            `json:"next_sync_committee_branch,omitempty"`
	FinalizedHeader         *LightClientHeader       `json:"finalized_header,omitempty"`
	FinalityBranch          []common.Hash            `json:"finality_branch,omitempty"`
	SyncAggregate           SyncAggregate            `json:"sync_aggregate"`
	SignatureSlot           common.Decimal           `json:"signature_slot"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (u *LightClientUpdate) MarshalJSON() ([]byte, error) {
	dec := jsonLightClientUpdate{
		AttestedHeader:          u.AttestedHeader,
		NextSyncCommittee:       u.NextSyncCommittee,
		NextSyncCommitteeBranch: u.NextSyncCommitteeBranch,
		FinalityBranch:          u.FinalityBranch,
		SyncAggregate:           u.SyncAggregate,
		SignatureSlot:           common.Decimal(u.SignatureSlot),
	}
	if u.IsFinalityUpdate() {
		dec.FinalizedHeader = &u.FinalizedHeader
	}
	return json.Marshal(&dec)
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (u *LightClientUpdate) UnmarshalJSON(input []byte) error {
	var dec jsonLightClientUpdate
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	u.AttestedHeader = dec.AttestedHeader
	u.NextSyncCommittee = dec.NextSyncCommittee
	u.NextSyncCommitteeBranch = dec.NextSyncCommitteeBranch
	if dec.FinalizedHeader != nil {
		u.FinalizedHeader = *dec.FinalizedHeader
	}
	u.FinalityBranch = dec.FinalityBranch
	u.SyncAggregate = dec.SyncAggregate
	u.SignatureSlot = uint64(dec.SignatureSlot)
	return nil
}

// IsSyncCommitteeUpdate reports whether the update carries a next sync
// committee, see is_sync_committee_update in the consensus specs.
func (u *LightClientUpdate) IsSyncCommitteeUpdate() bool {
	return u.NextSyncCommittee != nil
}

// IsFinalityUpdate reports whether the update carries a non-empty
// finalized header, see is_finality_update in the consensus specs.
func (u *LightClientUpdate) IsFinalityUpdate() bool {
	return u.FinalizedHeader.Beacon != (BeaconBlockHeader{})
}

// LightClientFinalityUpdate is the lightweight push notification a
// server sends whenever a new finalized header becomes available, see
// §3 LightClientFinalityUpdate.
type LightClientFinalityUpdate struct {
	AttestedHeader  LightClientHeader
	FinalizedHeader LightClientHeader
	FinalityBranch  []common.Hash
	SyncAggregate   SyncAggregate
	SignatureSlot   uint64
}

type jsonLightClientFinalityUpdate struct {
	AttestedHeader  LightClientHeader `json:"attested_header"`
	FinalizedHeader LightClientHeader `json:"finalized_header"`
	FinalityBranch  []common.Hash     `json:"finality_branch"`
	SyncAggregate   SyncAggregate     `json:"sync_aggregate"`
	SignatureSlot   common.Decimal    `json:"signature_slot"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (u *LightClientFinalityUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonLightClientFinalityUpdate{
		AttestedHeader:  u.AttestedHeader,
		FinalizedHeader: u.FinalizedHeader,
		FinalityBranch:  u.FinalityBranch,
		SyncAggregate:   u.SyncAggregate,
		SignatureSlot:   common.Decimal(u.SignatureSlot),
	})
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (u *LightClientFinalityUpdate) UnmarshalJSON(input []byte) error {
	var dec jsonLightClientFinalityUpdate
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	u.AttestedHeader = dec.AttestedHeader
	u.FinalizedHeader = dec.FinalizedHeader
	u.FinalityBranch = dec.FinalityBranch
	u.SyncAggregate = dec.SyncAggregate
	u.SignatureSlot = uint64(dec.SignatureSlot)
	return nil
}

// AsUpdate promotes a finality update to the general LightClientUpdate
// shape used by the shared validation/apply pipeline, zero-filling the
// sync committee fields exactly as bridge.py's
// process_light_client_finality_update does.
func (u *LightClientFinalityUpdate) AsUpdate() *LightClientUpdate {
	return &LightClientUpdate{
		AttestedHeader:  u.AttestedHeader,
		FinalizedHeader: u.FinalizedHeader,
		FinalityBranch:  u.FinalityBranch,
		SyncAggregate:   u.SyncAggregate,
		SignatureSlot:   u.SignatureSlot,
	}
}

// LightClientOptimisticUpdate is the lightweight push notification a
// server sends for every new attested head, see §3
// LightClientOptimisticUpdate.
type LightClientOptimisticUpdate struct {
	AttestedHeader LightClientHeader
	SyncAggregate  SyncAggregate
	SignatureSlot  uint64
}

type jsonLightClientOptimisticUpdate struct {
	AttestedHeader LightClientHeader `json:"attested_header"`
	SyncAggregate  SyncAggregate     `json:"sync_aggregate"`
	SignatureSlot  common.Decimal    `json:"signature_slot"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (u *LightClientOptimisticUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonLightClientOptimisticUpdate{
		AttestedHeader: u.AttestedHeader,
		SyncAggregate:  u.SyncAggregate,
		SignatureSlot:  common.Decimal(u.SignatureSlot),
	})
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (u *LightClientOptimisticUpdate) UnmarshalJSON(input []byte) error {
	var dec jsonLightClientOptimisticUpdate
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	u.AttestedHeader = dec.AttestedHeader
	u.SyncAggregate = dec.SyncAggregate
	u.SignatureSlot = uint64(dec.SignatureSlot)
	return nil
}

// AsUpdate promotes an optimistic update to the general
// LightClientUpdate shape, zero-filling the finality and sync committee
// fields exactly as bridge.py's process_light_client_optimistic_update
// does.
func (u *LightClientOptimisticUpdate) AsUpdate() *LightClientUpdate {
	return &LightClientUpdate{
		AttestedHeader: u.AttestedHeader,
		SyncAggregate:  u.SyncAggregate,
		SignatureSlot:  u.SignatureSlot,
	}
}
