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

// Package merkle implements fixed-depth binary merkle branch verification
// against a generalized index, the single primitive the light client
// protocol needs out of SSZ merkleization.
package merkle

import (
	"github.com/ethereum/go-ethereum/common"
	sha256 "github.com/minio/sha256-simd"
)

// Value is a 32 byte merkle tree node or leaf.
type Value [32]byte

// Values is a list of merkle tree nodes.
type Values []Value

// GetSubtreeIndex returns the index of generalizedIndex within its depth
// level of the tree, i.e. generalizedIndex with its leading bit cleared.
func GetSubtreeIndex(generalizedIndex uint64) uint64 {
	return generalizedIndex % PowerOfTwo(FloorLog2(generalizedIndex))
}

// FloorLog2 returns floor(log2(x)) for x >= 1.
func FloorLog2(x uint64) uint64 {
	var n uint64
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// PowerOfTwo returns 2^n.
func PowerOfTwo(n uint64) uint64 {
	return 1 << n
}

// hashPair returns sha256(left || right).
func hashPair(left, right Value) Value {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out Value
	h.Sum(out[:0])
	return out
}

// IsValidMerkleBranch verifies that leaf occurs at generalizedIndex within
// a tree whose root is root, given a branch of sibling hashes from the
// leaf up to the root. This is the Go equivalent of is_valid_merkle_branch
// from the consensus specs.
//
// depth must equal floor(log2(generalizedIndex)); branch must carry
// exactly depth entries.
func IsValidMerkleBranch(leaf common.Hash, branch []common.Hash, depth uint64, generalizedIndex uint64, root common.Hash) bool {
	if uint64(len(branch)) != depth {
		return false
	}
	value := Value(leaf)
	index := generalizedIndex
	for i := uint64(0); i < depth; i++ {
		sibling := Value(branch[i])
		if index%2 == 1 {
			value = hashPair(sibling, value)
		} else {
			value = hashPair(value, sibling)
		}
		index /= 2
	}
	return common.Hash(value) == root
}
