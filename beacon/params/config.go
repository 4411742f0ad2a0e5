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

// Package params holds the protocol constants, the generalized merkle
// indices and the fork schedule of the light client protocol.
package params

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Preset and constant vars, see the beacon chain altair/capella specs.
const (
	SlotsPerEpoch                = 32
	EpochsPerSyncCommitteePeriod = 256
	SyncCommitteeSize            = 512
	SecondsPerSlot                = 12
	MinGenesisTime                = 1606824000
	UpdateTimeout                  = 8192
	MinSyncCommitteeParticipants = 1
	MaxRequestLightClientUpdates = 128
	GenesisSlot                    = 0

	LookaheadEpochsCommitteeSync = 8

	// BLSPubkeySize and BLSSignatureSize are the wire sizes of the
	// corresponding cryptographic values.
	BLSPubkeySize     = 48
	BLSSignatureSize  = 96
	SyncCommitteeBitmaskSize = SyncCommitteeSize / 8
)

// Generalized indices of the beacon state merkle tree, as defined by the
// altair/capella light client sync protocol.
const (
	FinalizedRootIndex        = 105
	CurrentSyncCommitteeIndex = 54
	NextSyncCommitteeIndex    = 55
	ExecutionPayloadIndex     = 25
)

// FloorLog2 returns floor(log2(x)) for x >= 1, matching the consensus-spec
// helper of the same name.
func FloorLog2(x uint64) uint64 {
	if x < 1 {
		panic("FloorLog2: x must be >= 1")
	}
	var n uint64
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// FinalityBranchNumOfLeaves, NextSyncCommitteeBranchNumOfLeaves and
// ExecutionBranchNumOfLeaves are the fixed merkle-proof depths implied by
// the generalized indices above.
var (
	FinalityBranchNumOfLeaves        = FloorLog2(FinalizedRootIndex)
	NextSyncCommitteeBranchNumOfLeaves = FloorLog2(NextSyncCommitteeIndex)
	ExecutionBranchNumOfLeaves        = FloorLog2(ExecutionPayloadIndex)
)

// DomainType identifies the kind of signed data, see compute_domain in the
// consensus specs.
type DomainType [4]byte

// DomainSyncCommittee is the domain type used for sync committee signatures.
var DomainSyncCommittee = DomainType{0x07, 0x00, 0x00, 0x00}

// Fork describes one entry of the fork schedule: the epoch at which
// `Version` becomes the active fork version.
type Fork struct {
	Name    string
	Epoch   uint64
	Version []byte
}

// Forks is a fork schedule ordered by ascending epoch.
type Forks []*Fork

// VersionAtEpoch returns the fork version active at the given epoch: the
// version belonging to the highest-epoch fork whose activation epoch is
// <= epoch.
func (fs Forks) VersionAtEpoch(epoch uint64) []byte {
	var best *Fork
	for _, f := range fs {
		if f.Epoch <= epoch && (best == nil || f.Epoch > best.Epoch) {
			best = f
		}
	}
	if best == nil {
		return nil
	}
	return best.Version
}

// ChainConfig bundles the genesis validators root with the fork schedule;
// together they parameterize domain and signing-root computation (§4.2).
type ChainConfig struct {
	GenesisValidatorsRoot common.Hash
	Forks                 Forks
}

// AddFork appends a fork to the schedule, keeping it sorted by epoch. It is
// a ConfigError to add two forks with the same name; AddFork itself does
// not check this (panics are not used), Validate reports it afterwards.
func (c *ChainConfig) AddFork(name string, epoch uint64, version []byte) {
	c.Forks = append(c.Forks, &Fork{Name: name, Epoch: epoch, Version: version})
	sort.Slice(c.Forks, func(i, j int) bool { return c.Forks[i].Epoch < c.Forks[j].Epoch })
}

// Validate enforces the ConfigError-worthy invariants of a fork schedule:
// no duplicate fork names and a 4 byte version for every fork. The order
// of epochs and versions is not checked.
func (c *ChainConfig) Validate() error {
	seen := make(map[string]bool)
	for _, f := range c.Forks {
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate fork %q", ErrConfig, f.Name)
		}
		seen[f.Name] = true
		if len(f.Version) != 4 {
			return fmt.Errorf("%w: fork %q has version of length %d, want 4", ErrConfig, f.Name, len(f.Version))
		}
	}
	return nil
}

// LoadForks parses the line-oriented consensus-spec preset format used by
// mainnet/testnet config files, e.g.:
//
//	ALTAIR_FORK_VERSION: 0x01000000
//	ALTAIR_FORK_EPOCH: 74240
//
// Unrecognized lines (including the non-fork preset values such as
// BLOB_SCHEDULE) are ignored; only "<NAME>_FORK_VERSION"/"<NAME>_FORK_EPOCH"
// pairs are extracted, mirroring the teacher's ChainConfig.LoadForks.
func (c *ChainConfig) LoadForks(data []byte) error {
	versions := make(map[string][]byte)
	epochs := make(map[string]uint64)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch {
		case strings.HasSuffix(key, "_FORK_VERSION"):
			name := strings.TrimSuffix(key, "_FORK_VERSION")
			v, err := hexutil.Decode(value)
			if err != nil {
				return fmt.Errorf("%w: fork version %q: %v", ErrConfig, key, err)
			}
			versions[name] = v
		case strings.HasSuffix(key, "_FORK_EPOCH"):
			name := strings.TrimSuffix(key, "_FORK_EPOCH")
			e, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: fork epoch %q: %v", ErrConfig, key, err)
			}
			epochs[name] = e
		}
	}

	for name, version := range versions {
		epoch, ok := epochs[name]
		if !ok {
			return fmt.Errorf("%w: fork %q has a version but no epoch", ErrConfig, name)
		}
		c.AddFork(name, epoch, version)
	}
	return c.Validate()
}

// ErrConfig marks a fatal, startup-time configuration problem (§7
// ConfigError): an inconsistent fork schedule or malformed config file.
var ErrConfig = fmt.Errorf("config error")

// MainnetForkSchedule is the canonical Ethereum mainnet fork schedule
// referenced by §4.2: {GENESIS, ALTAIR at 74240, BELLATRIX at 144896,
// CAPELLA at 194048}.
func MainnetForkSchedule() Forks {
	return Forks{
		{Name: "GENESIS", Epoch: 0, Version: []byte{0x00, 0x00, 0x00, 0x00}},
		{Name: "ALTAIR", Epoch: 74240, Version: []byte{0x01, 0x00, 0x00, 0x00}},
		{Name: "BELLATRIX", Epoch: 144896, Version: []byte{0x02, 0x00, 0x00, 0x00}},
		{Name: "CAPELLA", Epoch: 194048, Version: []byte{0x03, 0x00, 0x00, 0x00}},
	}
}

// CapellaForkEpoch returns the activation epoch of the CAPELLA fork in the
// given schedule, used by §4.3's execution-payload validity switch. It
// returns (0, false) if the schedule carries no CAPELLA entry, in which
// case every header is treated as pre-Capella.
func CapellaForkEpoch(forks Forks) (uint64, bool) {
	for _, f := range forks {
		if f.Name == "CAPELLA" {
			return f.Epoch, true
		}
	}
	return 0, false
}

// EqualVersion reports whether two fork versions are byte-equal; defined
// here (rather than relying on slice equality at call sites) because fork
// versions arrive from two different decoders (YAML config and JSON wire
// format) that may produce slices of different capacity.
func EqualVersion(a, b []byte) bool {
	return bytes.Equal(a, b)
}
