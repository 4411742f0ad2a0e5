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

// Package bls wraps the BLS12-381 operations the light client needs:
// public key deserialization and fast aggregate signature verification
// over the sync committee.
package bls

import (
	"fmt"

	blst "github.com/protolambda/bls12-381-util"
)

// PublicKey is a deserialized BLS public key.
type PublicKey = blst.Pubkey

// Signature is a deserialized BLS signature.
type Signature = blst.Signature

// ParsePublicKey deserializes a compressed 48 byte BLS public key.
func ParsePublicKey(raw [48]byte) (*PublicKey, error) {
	var pk PublicKey
	if err := pk.Deserialize(&raw); err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return &pk, nil
}

// ParseSignature deserializes a compressed 96 byte BLS signature.
func ParseSignature(raw [96]byte) (*Signature, error) {
	var sig Signature
	if err := sig.Deserialize(&raw); err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	return &sig, nil
}

// FastAggregateVerify checks that signature is a valid aggregate BLS
// signature of message under the given set of public keys, the BLS
// equivalent of fast_aggregate_verify from the consensus specs. An empty
// set of public keys is never valid, matching the spec's explicit
// rejection of a vacuous signer set.
func FastAggregateVerify(pubkeys []*PublicKey, message [32]byte, signature *Signature) bool {
	if len(pubkeys) == 0 {
		return false
	}
	return blst.FastAggregateVerify(pubkeys, message[:], signature)
}
