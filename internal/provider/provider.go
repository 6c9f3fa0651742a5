// Package provider resolves a connected blockchain provider for a migration
// session. Resolution is a reachability probe, not a client: the migration
// engine owns all real chain traffic.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNoProvider signals that no connected provider is available. Every
// resolution failure collapses into it — a bad URL, an unreachable endpoint,
// a rejected connection — matching the coarse classification the deployment
// flow relies on: the user connects a provider and retries, whatever the
// cause was.
var ErrNoProvider = errors.New("no web3 provider available")

// Provider describes a resolved chain endpoint and signing account.
type Provider struct {
	RPCURL  string
	ChainID int64
	Account string
}

// Resolver yields a connected provider or fails with ErrNoProvider.
type Resolver interface {
	Resolve(ctx context.Context) (*Provider, error)
}

// HTTPResolver probes a JSON-RPC endpoint with web3_clientVersion before
// handing it out.
type HTTPResolver struct {
	RPCURL  string
	ChainID int64
	Account string

	// Client defaults to a client with a short timeout; the probe should
	// fail fast so the user can retry.
	Client *http.Client
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *HTTPResolver) Resolve(ctx context.Context) (*Provider, error) {
	if r.RPCURL == "" {
		return nil, fmt.Errorf("no rpc url configured: %w", ErrNoProvider)
	}
	parsed, err := url.Parse(r.RPCURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid rpc url %q: %w", r.RPCURL, ErrNoProvider)
	}

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: "web3_clientVersion", Params: []any{}, ID: 1})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNoProvider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.RPCURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrNoProvider)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc endpoint unreachable: %w", ErrNoProvider)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc endpoint returned %s: %w", resp.Status, ErrNoProvider)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("invalid rpc response: %w", ErrNoProvider)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s: %w", rpcResp.Error.Code, rpcResp.Error.Message, ErrNoProvider)
	}

	return &Provider{
		RPCURL:  r.RPCURL,
		ChainID: r.ChainID,
		Account: r.Account,
	}, nil
}

// Static always resolves to a fixed provider. Used when the operator has
// already verified connectivity (and by tests).
type Static struct {
	Provider Provider
}

func (s *Static) Resolve(ctx context.Context) (*Provider, error) {
	p := s.Provider
	return &p, nil
}
