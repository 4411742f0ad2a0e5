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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors the subset of a consensus-spec network config.yaml
// the light client cares about: the genesis validators root and the
// fork schedule. Unrecognized keys (preset values the light client
// never consults, like DEPOSIT_CHAIN_ID) are ignored.
type yamlConfig struct {
	GenesisValidatorsRoot string `yaml:"GENESIS_VALIDATORS_ROOT"`

	AltairForkVersion    string `yaml:"ALTAIR_FORK_VERSION"`
	AltairForkEpoch      uint64 `yaml:"ALTAIR_FORK_EPOCH"`
	BellatrixForkVersion string `yaml:"BELLATRIX_FORK_VERSION"`
	BellatrixForkEpoch   uint64 `yaml:"BELLATRIX_FORK_EPOCH"`
	CapellaForkVersion   string `yaml:"CAPELLA_FORK_VERSION"`
	CapellaForkEpoch     uint64 `yaml:"CAPELLA_FORK_EPOCH"`
	GenesisForkVersion   string `yaml:"GENESIS_FORK_VERSION"`
}

// LoadYAMLConfig parses a full consensus-spec network config.yaml, the
// alternative to LoadForks's minimal line-oriented preset format. It is
// the preferred loader for networks (testnets, devnets) that publish a
// complete config.yaml rather than just a fork schedule.
func LoadYAMLConfig(data []byte) (*ChainConfig, error) {
	var dec yamlConfig
	if err := yaml.Unmarshal(data, &dec); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", ErrConfig, err)
	}

	c := &ChainConfig{}
	if dec.GenesisValidatorsRoot != "" {
		root, err := hexutil.Decode(dec.GenesisValidatorsRoot)
		if err != nil {
			return nil, fmt.Errorf("%w: genesis validators root: %v", ErrConfig, err)
		}
		c.GenesisValidatorsRoot = common.BytesToHash(root)
	}

	forks := []struct {
		name    string
		epoch   uint64
		version string
	}{
		{"GENESIS", 0, dec.GenesisForkVersion},
		{"ALTAIR", dec.AltairForkEpoch, dec.AltairForkVersion},
		{"BELLATRIX", dec.BellatrixForkEpoch, dec.BellatrixForkVersion},
		{"CAPELLA", dec.CapellaForkEpoch, dec.CapellaForkVersion},
	}
	for _, f := range forks {
		if f.version == "" {
			continue
		}
		version, err := hexutil.Decode(f.version)
		if err != nil {
			return nil, fmt.Errorf("%w: fork version %q: %v", ErrConfig, f.name, err)
		}
		c.AddFork(f.name, f.epoch, version)
	}
	return c, c.Validate()
}
