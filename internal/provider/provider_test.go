package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPResolverSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode rpc request: %v", err)
		}
		if req.Method != "web3_clientVersion" {
			t.Errorf("expected web3_clientVersion probe, got %q", req.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  "TestNode/v1.0.0",
		})
	}))
	defer srv.Close()

	r := &HTTPResolver{RPCURL: srv.URL, ChainID: 1337, Account: "0x1234"}
	prov, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if prov.RPCURL != srv.URL {
		t.Errorf("expected rpc url %q, got %q", srv.URL, prov.RPCURL)
	}
	if prov.ChainID != 1337 {
		t.Errorf("expected chain id 1337, got %d", prov.ChainID)
	}
	if prov.Account != "0x1234" {
		t.Errorf("expected account 0x1234, got %q", prov.Account)
	}
}

func TestHTTPResolverFailuresCollapseToNoProvider(t *testing.T) {
	errorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer errorSrv.Close()

	rpcErrorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32601, "message": "method not found"},
		})
	}))
	defer rpcErrorSrv.Close()

	garbageSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer garbageSrv.Close()

	unreachableSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	unreachableURL := unreachableSrv.URL
	unreachableSrv.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"empty url", ""},
		{"invalid url", "not a url"},
		{"missing scheme", "localhost:8545"},
		{"unreachable endpoint", unreachableURL},
		{"http error status", errorSrv.URL},
		{"rpc error response", rpcErrorSrv.URL},
		{"non-json response", garbageSrv.URL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &HTTPResolver{RPCURL: tt.url}
			prov, err := r.Resolve(context.Background())
			if prov != nil {
				t.Errorf("expected nil provider, got %+v", prov)
			}
			if !errors.Is(err, ErrNoProvider) {
				t.Errorf("expected ErrNoProvider, got %v", err)
			}
		})
	}
}

func TestStaticResolver(t *testing.T) {
	s := &Static{Provider: Provider{RPCURL: "http://localhost:8545", ChainID: 1}}
	prov, err := s.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if prov.RPCURL != "http://localhost:8545" || prov.ChainID != 1 {
		t.Errorf("unexpected provider %+v", prov)
	}

	// Returned provider is a copy
	prov.RPCURL = "mutated"
	again, _ := s.Resolve(context.Background())
	if again.RPCURL != "http://localhost:8545" {
		t.Error("Resolve should return a copy, not shared state")
	}
}
