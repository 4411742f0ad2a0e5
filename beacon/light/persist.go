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
	"encoding/json"

	"github.com/leonardovona/beacon-bridge/beacon/params"
	"github.com/leonardovona/beacon-bridge/beacon/types"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/pkg/errors"
)

// storeKey is the single key the light client uses to persist its store
// snapshot; there is exactly one store per database, so no further
// namespacing is needed.
var storeKey = []byte("light-client-store")

// Snapshot is the on-disk representation of a Store, letting a restart
// resume from the last optimistic/finalized head instead of
// re-bootstrapping, per §6 persisted state layout.
type Snapshot struct {
	FinalizedHeader      types.LightClientHeader
	OptimisticHeader     types.LightClientHeader
	CurrentSyncCommittee types.SerializedSyncCommittee
	NextSyncCommittee    *types.SerializedSyncCommittee

	PreviousMaxActiveParticipants int
	CurrentMaxActiveParticipants  int
}

// Persist writes a snapshot of the store to db, overwriting any
// snapshot already present.
func (s *Store) Persist(db ethdb.KeyValueWriter) error {
	snap := Snapshot{
		FinalizedHeader:               s.FinalizedHeader,
		OptimisticHeader:              s.OptimisticHeader,
		PreviousMaxActiveParticipants: s.PreviousMaxActiveParticipants,
		CurrentMaxActiveParticipants:  s.CurrentMaxActiveParticipants,
	}
	if s.CurrentSyncCommittee != nil {
		snap.CurrentSyncCommittee = s.CurrentSyncCommittee.Serialized
	}
	if s.NextSyncCommittee != nil {
		serialized := s.NextSyncCommittee.Serialized
		snap.NextSyncCommittee = &serialized
	}

	enc, err := json.Marshal(&snap)
	if err != nil {
		return errors.Wrap(err, "encode light client store snapshot")
	}
	if err := db.Put(storeKey, enc); err != nil {
		return errors.Wrap(err, "persist light client store snapshot")
	}
	return nil
}

// LoadStore reconstructs a Store from a previously persisted snapshot.
// It returns (nil, nil) if the database holds no snapshot yet, signaling
// the caller to bootstrap from a trusted checkpoint instead. A snapshot
// whose finalized header is newer than its optimistic header, or whose
// participant maxima exceed the sync committee size, is rejected.
func LoadStore(db ethdb.KeyValueReader, config *Config) (*Store, error) {
	has, err := db.Has(storeKey)
	if err != nil {
		return nil, errors.Wrap(err, "check light client store snapshot")
	}
	if !has {
		return nil, nil
	}
	enc, err := db.Get(storeKey)
	if err != nil {
		return nil, errors.Wrap(err, "load light client store snapshot")
	}
	var snap Snapshot
	if err := json.Unmarshal(enc, &snap); err != nil {
		return nil, errors.Wrap(err, "decode light client store snapshot")
	}

	current, err := types.NewSyncCommittee(snap.CurrentSyncCommittee)
	if err != nil {
		return nil, errors.Wrap(err, "decode current sync committee")
	}
	store := &Store{
		Config:                        config.ChainConfig,
		FinalizedHeader:               snap.FinalizedHeader,
		OptimisticHeader:              snap.OptimisticHeader,
		CurrentSyncCommittee:          current,
		PreviousMaxActiveParticipants: snap.PreviousMaxActiveParticipants,
		CurrentMaxActiveParticipants:  snap.CurrentMaxActiveParticipants,
	}
	if snap.NextSyncCommittee != nil {
		next, err := types.NewSyncCommittee(*snap.NextSyncCommittee)
		if err != nil {
			return nil, errors.Wrap(err, "decode next sync committee")
		}
		store.NextSyncCommittee = next
	}
	if store.FinalizedHeader.Beacon.Slot > store.OptimisticHeader.Beacon.Slot {
		return nil, errors.New("invalid light client store snapshot: finalized header newer than optimistic header")
	}
	if store.CurrentMaxActiveParticipants > params.SyncCommitteeSize || store.PreviousMaxActiveParticipants > params.SyncCommitteeSize {
		return nil, errors.New("invalid light client store snapshot: participant count exceeds sync committee size")
	}
	return store, nil
}
