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

// Package api implements a client for the subset of the standard beacon
// node API the light client needs: genesis info, checkpoint resolution,
// bootstrap data and the update/finality/optimistic update streams, see
// §6 External Interfaces.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/leonardovona/beacon-bridge/beacon/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// httpDoer abstracts http.Client.Do so tests can inject a fake
// transport, the same pattern used by go-ethereum's BeaconLightApi.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNotFound is returned when the beacon node responds 404, most
// commonly meaning "no finalized update available yet".
var ErrNotFound = errors.New("beacon api: not found")

// Client talks to a single upstream beacon node's HTTP API. It carries
// no mutable state and is safe for concurrent use, though the sync
// orchestrator only ever calls it from its single owning goroutine
// (§5).
type Client struct {
	url    string
	client httpDoer
}

// New creates a Client against the given beacon node base URL (e.g.
// "http://localhost:5052").
func New(url string) *Client {
	return &Client{url: url, client: http.DefaultClient}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "network error")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("beacon api: unexpected status %d from %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// GenesisInfo is the subset of GET /eth/v1/beacon/genesis the light
// client needs: the genesis validators root that seeds every domain
// computation (§4.2).
type GenesisInfo struct {
	GenesisValidatorsRoot common.Hash `json:"genesis_validators_root"`
}

// GetGenesis fetches the genesis validators root.
func (c *Client) GetGenesis(ctx context.Context) (*GenesisInfo, error) {
	var env dataEnvelope[GenesisInfo]
	if err := c.get(ctx, "/eth/v1/beacon/genesis", &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetBlockRoot fetches the beacon block root for a named checkpoint such
// as "finalized" or a slot number, used to resolve a human-supplied
// trusted checkpoint to a root before bootstrapping.
func (c *Client) GetBlockRoot(ctx context.Context, blockID string) (common.Hash, error) {
	var env dataEnvelope[struct {
		Root common.Hash `json:"root"`
	}]
	if err := c.get(ctx, "/eth/v1/beacon/blocks/"+blockID+"/root", &env); err != nil {
		return common.Hash{}, err
	}
	return env.Data.Root, nil
}

// GetBootstrap fetches the bootstrap data for a trusted block root, see
// GET /eth/v1/beacon/light_client/bootstrap/{block_root}.
func (c *Client) GetBootstrap(ctx context.Context, blockRoot common.Hash) (*types.LightClientBootstrap, error) {
	var env dataEnvelope[types.LightClientBootstrap]
	if err := c.get(ctx, "/eth/v1/beacon/light_client/bootstrap/"+blockRoot.Hex(), &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetUpdates fetches up to count consecutive per-period updates
// starting at startPeriod, see GET
// /eth/v1/beacon/light_client/updates?start_period&count. The server
// may return fewer than count entries if fewer periods exist.
func (c *Client) GetUpdates(ctx context.Context, startPeriod uint64, count int) ([]*types.LightClientUpdate, error) {
	path := fmt.Sprintf("/eth/v1/beacon/light_client/updates?start_period=%d&count=%d", startPeriod, count)
	var updates []struct {
		Data types.LightClientUpdate `json:"data"`
	}
	if err := c.get(ctx, path, &updates); err != nil {
		return nil, err
	}
	out := make([]*types.LightClientUpdate, len(updates))
	for i := range updates {
		out[i] = &updates[i].Data
	}
	return out, nil
}

// GetFinalityUpdate fetches the latest finality update, see GET
// /eth/v1/beacon/light_client/finality_update.
func (c *Client) GetFinalityUpdate(ctx context.Context) (*types.LightClientFinalityUpdate, error) {
	var env dataEnvelope[types.LightClientFinalityUpdate]
	if err := c.get(ctx, "/eth/v1/beacon/light_client/finality_update", &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// GetOptimisticUpdate fetches the latest optimistic update, see GET
// /eth/v1/beacon/light_client/optimistic_update.
func (c *Client) GetOptimisticUpdate(ctx context.Context) (*types.LightClientOptimisticUpdate, error) {
	var env dataEnvelope[types.LightClientOptimisticUpdate]
	if err := c.get(ctx, "/eth/v1/beacon/light_client/optimistic_update", &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
