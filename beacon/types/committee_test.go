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
	"testing"

	blst "github.com/protolambda/bls12-381-util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardovona/beacon-bridge/beacon/params"
)

func testCommittee(t *testing.T) SerializedSyncCommittee {
	t.Helper()
	var sc SerializedSyncCommittee
	for i := 0; i < params.SyncCommitteeSize; i++ {
		var ikm [32]byte
		ikm[0] = byte(i)
		ikm[1] = byte(i >> 8)
		sk, err := blst.KeyGen(ikm[:])
		require.NoError(t, err)
		pk, err := blst.SkToPk(sk)
		require.NoError(t, err)
		sc.Pubkeys[i] = pk.Serialize()
	}
	sc.AggregatePubkey = sc.Pubkeys[0]
	return sc
}

func TestSerializedSyncCommitteeJSONRoundTrip(t *testing.T) {
	sc := testCommittee(t)
	data, err := json.Marshal(&sc)
	require.NoError(t, err)

	var out SerializedSyncCommittee
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, sc, out)
}

func TestSerializedSyncCommitteeUnmarshalRejectsWrongCount(t *testing.T) {
	bad := `{"pubkeys":["0x00"],"aggregate_pubkey":"0x00"}`
	var sc SerializedSyncCommittee
	assert.Error(t, json.Unmarshal([]byte(bad), &sc))
}

func TestSerializedSyncCommitteeHashTreeRootDeterministic(t *testing.T) {
	sc := testCommittee(t)
	r1 := sc.HashTreeRoot()
	r2 := sc.HashTreeRoot()
	assert.Equal(t, r1, r2)

	sc2 := sc
	sc2.Pubkeys[0][0] ^= 0xff
	assert.NotEqual(t, r1, sc2.HashTreeRoot())
}

func TestNewSyncCommitteeParsesAllMembers(t *testing.T) {
	sc := testCommittee(t)
	parsed, err := NewSyncCommittee(sc)
	require.NoError(t, err)
	for i, m := range parsed.Members {
		require.NotNilf(t, m, "member %d", i)
	}
	require.NotNil(t, parsed.AggregatePubkey)
}

func TestNewSyncCommitteeRejectsBadPubkey(t *testing.T) {
	sc := testCommittee(t)
	sc.Pubkeys[0] = [48]byte{} // all-zero is not a valid compressed point
	_, err := NewSyncCommittee(sc)
	assert.Error(t, err)
}

func TestSyncCommitteeParticipantKeys(t *testing.T) {
	sc := testCommittee(t)
	parsed, err := NewSyncCommittee(sc)
	require.NoError(t, err)

	var bits [params.SyncCommitteeBitmaskSize]byte
	bits[0] = 0b00000101 // members 0 and 2
	keys := parsed.ParticipantKeys(bits)
	require.Len(t, keys, 2)
	assert.Same(t, parsed.Members[0], keys[0])
	assert.Same(t, parsed.Members[2], keys[1])
}

func TestSyncAggregateParticipantCount(t *testing.T) {
	var a SyncAggregate
	a.SyncCommitteeBits[0] = 0b00000111
	a.SyncCommitteeBits[1] = 0b00000001
	assert.Equal(t, 4, a.ParticipantCount())
}

func TestSyncAggregateJSONRoundTrip(t *testing.T) {
	var a SyncAggregate
	a.SyncCommitteeBits[0] = 1
	a.SyncCommitteeSignature[0] = 2
	data, err := json.Marshal(&a)
	require.NoError(t, err)

	var out SyncAggregate
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, a, out)
}
