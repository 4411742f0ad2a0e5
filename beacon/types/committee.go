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
	"fmt"

	"github.com/leonardovona/beacon-bridge/beacon/bls"
	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/ssz"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SerializedSyncCommittee is the wire representation of a sync committee:
// 512 compressed 48 byte pubkeys plus one aggregate pubkey, exactly as it
// appears in a beacon API response or in SSZ.
type SerializedSyncCommittee struct {
	Pubkeys        [params.SyncCommitteeSize][48]byte
	AggregatePubkey [48]byte
}

type jsonSerializedSyncCommittee struct {
	Pubkeys         []hexutil.Bytes `json:"pubkeys"`
	AggregatePubkey hexutil.Bytes   `json:"aggregate_pubkey"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (s *SerializedSyncCommittee) MarshalJSON() ([]byte, error) {
	dec := jsonSerializedSyncCommittee{
		Pubkeys:         make([]hexutil.Bytes, params.SyncCommitteeSize),
		AggregatePubkey: s.AggregatePubkey[:],
	}
	for i := range s.Pubkeys {
		dec.Pubkeys[i] = s.Pubkeys[i][:]
	}
	return json.Marshal(&dec)
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (s *SerializedSyncCommittee) UnmarshalJSON(input []byte) error {
	var dec jsonSerializedSyncCommittee
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if len(dec.Pubkeys) != params.SyncCommitteeSize {
		return fmt.Errorf("sync committee has %d pubkeys, want %d", len(dec.Pubkeys), params.SyncCommitteeSize)
	}
	for i, pk := range dec.Pubkeys {
		if len(pk) != 48 {
			return fmt.Errorf("pubkey %d has length %d, want 48", i, len(pk))
		}
		copy(s.Pubkeys[i][:], pk)
	}
	if len(dec.AggregatePubkey) != 48 {
		return fmt.Errorf("aggregate pubkey has length %d, want 48", len(dec.AggregatePubkey))
	}
	copy(s.AggregatePubkey[:], dec.AggregatePubkey)
	return nil
}

// HashTreeRoot computes the SSZ hash-tree-root of the committee container
// (the pubkey vector, then the aggregate pubkey), used to verify a
// committee against its generalized-index merkle branch.
func (s *SerializedSyncCommittee) HashTreeRoot() common.Hash {
	leaves := make([]common.Hash, params.SyncCommitteeSize)
	for i, pk := range s.Pubkeys {
		leaves[i] = pubkeyLeafRoot(pk)
	}
	return ssz.MerkleizeLeaves([]common.Hash{ssz.MerkleizeLeaves(leaves), pubkeyLeafRoot(s.AggregatePubkey)})
}

// pubkeyLeafRoot returns the SSZ root of a 48 byte BLSPubkey vector
// element: the raw bytes zero padded to 32+32=64 bytes merkleized as two
// chunks, per the SSZ Vector[uint8, 48] leaf convention.
func pubkeyLeafRoot(pk [48]byte) common.Hash {
	var chunk0, chunk1 common.Hash
	copy(chunk0[:], pk[:32])
	copy(chunk1[:], pk[32:])
	return ssz.MerkleizeLeaves([]common.Hash{chunk0, chunk1})
}

// SyncCommittee is the deserialized, verification-ready form of a sync
// committee: each member's BLS public key parsed once at load time rather
// than on every signature check.
type SyncCommittee struct {
	Serialized      SerializedSyncCommittee
	Members         [params.SyncCommitteeSize]*bls.PublicKey
	AggregatePubkey *bls.PublicKey
}

// NewSyncCommittee parses every member public key of a serialized
// committee. It fails fast (§7 CryptoError) if any pubkey is malformed.
func NewSyncCommittee(s SerializedSyncCommittee) (*SyncCommittee, error) {
	sc := &SyncCommittee{Serialized: s}
	for i, raw := range s.Pubkeys {
		pk, err := bls.ParsePublicKey(raw)
		if err != nil {
			return nil, fmt.Errorf("sync committee member %d: %w", i, err)
		}
		sc.Members[i] = pk
	}
	aggregate, err := bls.ParsePublicKey(s.AggregatePubkey)
	if err != nil {
		return nil, fmt.Errorf("sync committee aggregate pubkey: %w", err)
	}
	sc.AggregatePubkey = aggregate
	return sc, nil
}

// ParticipantKeys returns the subset of member public keys whose
// corresponding bit is set in the sync aggregate's participation
// bitmask, in committee order, matching the consensus spec's
// eth_fast_aggregate_verify signer-set construction.
func (sc *SyncCommittee) ParticipantKeys(bits [params.SyncCommitteeBitmaskSize]byte) []*bls.PublicKey {
	var keys []*bls.PublicKey
	for i := 0; i < params.SyncCommitteeSize; i++ {
		byteIndex, bitIndex := i/8, uint(i%8)
		if bits[byteIndex]&(1<<bitIndex) != 0 {
			keys = append(keys, sc.Members[i])
		}
	}
	return keys
}

// SyncAggregate is the sync committee signature attached to an update,
// see §3 SyncAggregate.
type SyncAggregate struct {
	SyncCommitteeBits      [params.SyncCommitteeBitmaskSize]byte
	SyncCommitteeSignature [96]byte
}

type jsonSyncAggregate struct {
	SyncCommitteeBits      hexutil.Bytes `json:"sync_committee_bits"`
	SyncCommitteeSignature hexutil.Bytes `json:"sync_committee_signature"`
}

// MarshalJSON marshals as the standard beacon API JSON representation.
func (a *SyncAggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonSyncAggregate{
		SyncCommitteeBits:      a.SyncCommitteeBits[:],
		SyncCommitteeSignature: a.SyncCommitteeSignature[:],
	})
}

// UnmarshalJSON unmarshals from the standard beacon API JSON representation.
func (a *SyncAggregate) UnmarshalJSON(input []byte) error {
	var dec jsonSyncAggregate
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if len(dec.SyncCommitteeBits) != params.SyncCommitteeBitmaskSize {
		return fmt.Errorf("sync committee bits has length %d, want %d", len(dec.SyncCommitteeBits), params.SyncCommitteeBitmaskSize)
	}
	if len(dec.SyncCommitteeSignature) != 96 {
		return fmt.Errorf("sync committee signature has length %d, want 96", len(dec.SyncCommitteeSignature))
	}
	copy(a.SyncCommitteeBits[:], dec.SyncCommitteeBits)
	copy(a.SyncCommitteeSignature[:], dec.SyncCommitteeSignature)
	return nil
}

// ParticipantCount returns the number of set bits in the participation
// bitmask, used by the safety threshold and update comparator logic.
func (a *SyncAggregate) ParticipantCount() int {
	count := 0
	for _, b := range a.SyncCommitteeBits {
		for b != 0 {
			count += int(b & 1)
			b >>= 1
		}
	}
	return count
}
