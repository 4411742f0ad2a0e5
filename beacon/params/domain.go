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

package params

import (
	"github.com/ethereum/go-ethereum/common"
	sha256 "github.com/minio/sha256-simd"
)

// ComputeEpochAtSlot returns the epoch that a slot belongs to.
func ComputeEpochAtSlot(slot uint64) uint64 {
	return slot / SlotsPerEpoch
}

// ComputeSyncCommitteePeriodAtSlot returns the sync committee period a
// slot belongs to.
func ComputeSyncCommitteePeriodAtSlot(slot uint64) uint64 {
	return ComputeSyncCommitteePeriod(ComputeEpochAtSlot(slot))
}

// ComputeSyncCommitteePeriod returns the sync committee period an epoch
// belongs to.
func ComputeSyncCommitteePeriod(epoch uint64) uint64 {
	return epoch / EpochsPerSyncCommitteePeriod
}

// ComputeForkVersion returns the fork version active at the given epoch,
// per the configured fork schedule; see the GENESIS/ALTAIR/BELLATRIX/
// CAPELLA schedule in MainnetForkSchedule.
func ComputeForkVersion(forks Forks, epoch uint64) []byte {
	return forks.VersionAtEpoch(epoch)
}

// ComputeForkDataRoot returns hash_tree_root(ForkData(currentVersion,
// genesisValidatorsRoot)): sha256(currentVersion padded to 32 bytes ||
// genesisValidatorsRoot).
func ComputeForkDataRoot(currentVersion []byte, genesisValidatorsRoot common.Hash) common.Hash {
	var versionPadded [32]byte
	copy(versionPadded[:4], currentVersion)

	h := sha256.New()
	h.Write(versionPadded[:])
	h.Write(genesisValidatorsRoot[:])
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// ComputeDomain returns the signing domain for domainType at the fork
// active at currentVersion, mixed with genesisValidatorsRoot: the first 4
// bytes of domainType concatenated with the first 28 bytes of the
// corresponding fork data root.
func ComputeDomain(domainType DomainType, currentVersion []byte, genesisValidatorsRoot common.Hash) [32]byte {
	forkDataRoot := ComputeForkDataRoot(currentVersion, genesisValidatorsRoot)
	var domain [32]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain
}

// ComputeSigningRoot returns hash_tree_root(SigningData(objectRoot,
// domain)): sha256(objectRoot || domain).
func ComputeSigningRoot(objectRoot common.Hash, domain [32]byte) common.Hash {
	h := sha256.New()
	h.Write(objectRoot[:])
	h.Write(domain[:])
	var out common.Hash
	h.Sum(out[:0])
	return out
}
