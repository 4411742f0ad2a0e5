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

// Package ssz implements the small subset of SSZ hash-tree-root
// merkleization the light client needs: fixed-size container roots and
// the bitvector root of a sync committee participation bitmask. It does
// not implement general SSZ encoding/decoding.
package ssz

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	sha256 "github.com/minio/sha256-simd"
)

func hashPair(left, right common.Hash) common.Hash {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// zeroHashes[i] is the root of an empty subtree of depth i.
var zeroHashes = buildZeroHashes(64)

func buildZeroHashes(n int) []common.Hash {
	hashes := make([]common.Hash, n)
	for i := 1; i < n; i++ {
		hashes[i] = hashPair(hashes[i-1], hashes[i-1])
	}
	return hashes
}

// NextPowerOfTwo returns the smallest power of two that is >= n.
func NextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// floorLog2 returns floor(log2(x)) for x >= 1.
func floorLog2(x uint64) int {
	var n int
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// MerkleizeLeaves computes the hash-tree-root of a vector of leaves by
// padding it up to the next power of two with zero subtrees and hashing
// pairs bottom-up, the general merkleize() operation of SSZ.
func MerkleizeLeaves(leaves []common.Hash) common.Hash {
	if len(leaves) == 0 {
		return zeroHashes[0]
	}
	size := NextPowerOfTwo(uint64(len(leaves)))
	depth := floorLog2(size)

	layer := make([]common.Hash, size)
	copy(layer, leaves)
	for i := len(leaves); i < int(size); i++ {
		layer[i] = zeroHashes[0]
	}
	for d := 0; d < depth; d++ {
		next := make([]common.Hash, len(layer)/2)
		for i := range next {
			next[i] = hashPair(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	return layer[0]
}

// Uint64Root returns the SSZ leaf root of a uint64 value: the little
// endian encoding of the value, zero padded to 32 bytes.
func Uint64Root(v uint64) common.Hash {
	var out common.Hash
	binary.LittleEndian.PutUint64(out[:8], v)
	return out
}

// BitvectorRoot computes the hash-tree-root of a fixed-length SSZ
// Bitvector, packing bits into 32 byte chunks before merkleizing -- used
// for the sync committee participation bitmask.
func BitvectorRoot(bits []byte) common.Hash {
	numChunks := (len(bits) + 31) / 32
	if numChunks == 0 {
		numChunks = 1
	}
	chunks := make([]common.Hash, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * 32
		end := start + 32
		if end > len(bits) {
			end = len(bits)
		}
		copy(chunks[i][:], bits[start:end])
	}
	return MerkleizeLeaves(chunks)
}
