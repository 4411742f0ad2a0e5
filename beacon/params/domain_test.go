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

import "testing"

func TestComputeEpochAtSlot(t *testing.T) {
	if got := ComputeEpochAtSlot(63); got != 1 {
		t.Errorf("ComputeEpochAtSlot(63) = %d, want 1", got)
	}
	if got := ComputeEpochAtSlot(64); got != 2 {
		t.Errorf("ComputeEpochAtSlot(64) = %d, want 2", got)
	}
}

func TestComputeSyncCommitteePeriod(t *testing.T) {
	if got := ComputeSyncCommitteePeriod(255); got != 0 {
		t.Errorf("ComputeSyncCommitteePeriod(255) = %d, want 0", got)
	}
	if got := ComputeSyncCommitteePeriod(256); got != 1 {
		t.Errorf("ComputeSyncCommitteePeriod(256) = %d, want 1", got)
	}
}

func TestComputeDomainDeterministic(t *testing.T) {
	genesisRoot := [32]byte{1, 2, 3}
	version := []byte{0x01, 0x00, 0x00, 0x00}

	d1 := ComputeDomain(DomainSyncCommittee, version, genesisRoot)
	d2 := ComputeDomain(DomainSyncCommittee, version, genesisRoot)
	if d1 != d2 {
		t.Error("ComputeDomain is not deterministic")
	}
	if d1[0] != DomainSyncCommittee[0] || d1[1] != DomainSyncCommittee[1] {
		t.Error("domain does not start with the domain type")
	}

	otherVersion := []byte{0x02, 0x00, 0x00, 0x00}
	d3 := ComputeDomain(DomainSyncCommittee, otherVersion, genesisRoot)
	if d1 == d3 {
		t.Error("different fork versions produced the same domain")
	}
}

func TestComputeSigningRootDiffersByDomain(t *testing.T) {
	objectRoot := [32]byte{9}
	var domainA, domainB [32]byte
	domainA[0] = 1
	domainB[0] = 2

	rootA := ComputeSigningRoot(objectRoot, domainA)
	rootB := ComputeSigningRoot(objectRoot, domainB)
	if rootA == rootB {
		t.Error("signing root did not change with domain")
	}
}
