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
	blst "github.com/protolambda/bls12-381-util"
)

// syncCommitteeSigner generates a deterministic sync committee and signs
// arbitrary messages with its members, mirroring the teacher's
// syncCommitteeSigner helper in beacon/light/chain_test.go.
type syncCommitteeSigner struct {
	secretKeys [params.SyncCommitteeSize]*blst.SecretKey
	committee  types.SerializedSyncCommittee
}

func newSyncCommitteeSigner(t *testing.T, seed byte) *syncCommitteeSigner {
	t.Helper()
	s := &syncCommitteeSigner{}
	for i := 0; i < params.SyncCommitteeSize; i++ {
		var ikm [32]byte
		ikm[0] = seed
		ikm[1] = byte(i)
		ikm[2] = byte(i >> 8)
		sk, err := blst.KeyGen(ikm[:])
		if err != nil {
			t.Fatalf("keygen failed: %v", err)
		}
		s.secretKeys[i] = sk
		pub, err := blst.SkToPk(sk)
		if err != nil {
			t.Fatalf("derive pubkey failed: %v", err)
		}
		s.committee.Pubkeys[i] = pub.Serialize()
	}
	// aggregate pubkey is never checked by the validation pipeline
	// directly (only individual member keys are), so any well-formed
	// compressed point works here.
	s.committee.AggregatePubkey = s.committee.Pubkeys[0]
	return s
}

// signAll returns a sync aggregate in which every committee member
// signed message, with all bits set.
func (s *syncCommitteeSigner) signAll(t *testing.T, message [32]byte) types.SyncAggregate {
	return s.sign(t, message, params.SyncCommitteeSize)
}

// sign returns a sync aggregate in which the first count members (in
// committee order) signed message.
func (s *syncCommitteeSigner) sign(t *testing.T, message [32]byte, count int) types.SyncAggregate {
	t.Helper()
	var sigs []*blst.Signature
	var bits [params.SyncCommitteeBitmaskSize]byte
	for i := 0; i < count; i++ {
		sigs = append(sigs, blst.Sign(s.secretKeys[i], message[:]))
		bits[i/8] |= 1 << uint(i%8)
	}
	var agg types.SyncAggregate
	agg.SyncCommitteeBits = bits
	if len(sigs) > 0 {
		aggregated, err := blst.Aggregate(sigs)
		if err != nil {
			t.Fatalf("aggregate failed: %v", err)
		}
		enc := aggregated.Serialize()
		copy(agg.SyncCommitteeSignature[:], enc[:])
	}
	return agg
}

func testHeader(slot uint64, stateRoot common.Hash) types.BeaconBlockHeader {
	return types.BeaconBlockHeader{
		Slot:       slot,
		StateRoot:  stateRoot,
		ParentRoot: common.Hash{byte(slot)},
		BodyRoot:   common.Hash{byte(slot), 1},
	}
}

func testConfig() *params.ChainConfig {
	return &params.ChainConfig{
		GenesisValidatorsRoot: common.Hash{1, 2, 3},
		Forks:                 params.Forks{{Name: "GENESIS", Epoch: 0, Version: []byte{0, 0, 0, 0}}},
	}
}
