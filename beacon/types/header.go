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

// Package types holds the beacon light client data model: headers, sync
// committees and the bootstrap/update wire messages of §3.
package types

import (
	"encoding/json"

	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/ssz"
	"github.com/ethereum/go-ethereum/common"
)

// BeaconBlockHeader is the lightweight block header signed by the sync
// committee, see §3 BeaconBlockHeader.
type BeaconBlockHeader struct {
	Slot          uint64
	ProposerIndex uint64
	ParentRoot    common.Hash
	StateRoot     common.Hash
	BodyRoot      common.Hash
}

type jsonBeaconBlockHeader struct {
	Slot          common.Decimal `json:"slot"`
	ProposerIndex common.Decimal `json:"proposer_index"`
	ParentRoot    common.Hash    `json:"parent_root"`
	StateRoot     common.Hash    `json:"state_root"`
	BodyRoot      common.Hash    `json:"body_root"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (h *BeaconBlockHeader) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonBeaconBlockHeader{
		Slot:          common.Decimal(h.Slot),
		ProposerIndex: common.Decimal(h.ProposerIndex),
		ParentRoot:    h.ParentRoot,
		StateRoot:     h.StateRoot,
		BodyRoot:      h.BodyRoot,
	})
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (h *BeaconBlockHeader) UnmarshalJSON(input []byte) error {
	var dec jsonBeaconBlockHeader
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	h.Slot = uint64(dec.Slot)
	h.ProposerIndex = uint64(dec.ProposerIndex)
	h.ParentRoot = dec.ParentRoot
	h.StateRoot = dec.StateRoot
	h.BodyRoot = dec.BodyRoot
	return nil
}

// HashTreeRoot computes the SSZ hash-tree-root of the header, i.e. the
// beacon block root that sync committee signatures commit to.
func (h *BeaconBlockHeader) HashTreeRoot() common.Hash {
	leaves := []common.Hash{
		ssz.Uint64Root(h.Slot),
		ssz.Uint64Root(h.ProposerIndex),
		h.ParentRoot,
		h.StateRoot,
		h.BodyRoot,
	}
	return ssz.MerkleizeLeaves(leaves)
}

// Epoch returns the epoch the header's slot belongs to.
func (h *BeaconBlockHeader) Epoch() uint64 {
	return params.ComputeEpochAtSlot(h.Slot)
}

// SyncPeriod returns the sync committee period the header's slot belongs to.
func (h *BeaconBlockHeader) SyncPeriod() uint64 {
	return params.ComputeSyncCommitteePeriodAtSlot(h.Slot)
}

// ExecutionPayloadHeader is the subset of the Bellatrix/Capella execution
// payload header fields the light client tracks, see §3
// ExecutionPayloadHeader. Only BlockHash is consulted by the protocol
// itself; the remaining fields are retained for downstream consumers.
type ExecutionPayloadHeader struct {
	ParentHash    common.Hash
	FeeRecipient  common.Address
	StateRoot     common.Hash
	ReceiptsRoot  common.Hash
	BlockNumber   uint64
	GasLimit      uint64
	GasUsed       uint64
	Timestamp     uint64
	BaseFeePerGas *uint256Wrapper
	BlockHash     common.Hash
}

type jsonExecutionPayloadHeader struct {
	ParentHash    common.Hash     `json:"parent_hash"`
	FeeRecipient  common.Address  `json:"fee_recipient"`
	StateRoot     common.Hash     `json:"state_root"`
	ReceiptsRoot  common.Hash     `json:"receipts_root"`
	BlockNumber   common.Decimal  `json:"block_number"`
	GasLimit      common.Decimal  `json:"gas_limit"`
	GasUsed       common.Decimal  `json:"gas_used"`
	Timestamp     common.Decimal  `json:"timestamp"`
	BaseFeePerGas *uint256Wrapper `json:"base_fee_per_gas,omitempty"`
	BlockHash     common.Hash     `json:"block_hash"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (h *ExecutionPayloadHeader) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonExecutionPayloadHeader{
		ParentHash:    h.ParentHash,
		FeeRecipient:  h.FeeRecipient,
		StateRoot:     h.StateRoot,
		ReceiptsRoot:  h.ReceiptsRoot,
		BlockNumber:   common.Decimal(h.BlockNumber),
		GasLimit:      common.Decimal(h.GasLimit),
		GasUsed:       common.Decimal(h.GasUsed),
		Timestamp:     common.Decimal(h.Timestamp),
		BaseFeePerGas: h.BaseFeePerGas,
		BlockHash:     h.BlockHash,
	})
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (h *ExecutionPayloadHeader) UnmarshalJSON(input []byte) error {
	var dec jsonExecutionPayloadHeader
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	h.ParentHash = dec.ParentHash
	h.FeeRecipient = dec.FeeRecipient
	h.StateRoot = dec.StateRoot
	h.ReceiptsRoot = dec.ReceiptsRoot
	h.BlockNumber = uint64(dec.BlockNumber)
	h.GasLimit = uint64(dec.GasLimit)
	h.GasUsed = uint64(dec.GasUsed)
	h.Timestamp = uint64(dec.Timestamp)
	h.BaseFeePerGas = dec.BaseFeePerGas
	h.BlockHash = dec.BlockHash
	return nil
}

// uint256Wrapper avoids pulling in a big-int dependency purely for JSON
// round tripping of a field the protocol itself never inspects.
type uint256Wrapper struct {
	Hex string
}

// MarshalJSON marshals the stored value back as a JSON string.
func (w *uint256Wrapper) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Hex)
}

// UnmarshalJSON keeps the beacon API's string-encoded value verbatim.
func (w *uint256Wrapper) UnmarshalJSON(input []byte) error {
	return json.Unmarshal(input, &w.Hex)
}

// LightClientHeader wraps a beacon block header with an optional,
// version-gated execution payload proof, see §3 LightClientHeader. Pre
// Capella headers carry a nil ExecutionBranch/ExecutionPayload.
type LightClientHeader struct {
	Beacon           BeaconBlockHeader       `json:"beacon"`
	ExecutionPayload *ExecutionPayloadHeader `json:"execution,omitempty"`
	ExecutionBranch  []common.Hash           `json:"execution_branch,omitempty"`
}

// HasExecution reports whether the header carries a Capella-or-later
// execution payload proof.
func (h *LightClientHeader) HasExecution() bool {
	return h.ExecutionPayload != nil
}
