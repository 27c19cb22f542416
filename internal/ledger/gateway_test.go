// File path: internal/ledger/gateway_test.go
package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestGateway(t *testing.T, handler http.Handler) (*GatewayClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewGatewayClient(context.Background(), Config{Endpoint: srv.URL, Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("new gateway client: %v", err)
	}
	if client == nil {
		t.Fatal("expected client, got nil")
	}
	return client, srv
}

func TestDeriveAccountRef(t *testing.T) {
	ref := DeriveAccountRef("build_123")
	if len(ref) != accountRefLen {
		t.Fatalf("expected %d characters, got %d", accountRefLen, len(ref))
	}
	for _, r := range ref {
		if !strings.ContainsRune(refAlphabet, r) {
			t.Fatalf("character %q outside alphabet", r)
		}
	}
	if ref != DeriveAccountRef("build_123") {
		t.Fatal("derivation not deterministic")
	}
	if ref == DeriveAccountRef("build_124") {
		t.Fatal("distinct build ids derived the same account ref")
	}
}

func TestGatewayInitializeBuild(t *testing.T) {
	var gotPath string
	var gotBody initializeRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/builds/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(txResponse{TxHash: "tx-abc"})
	})
	client, _ := newTestGateway(t, mux)

	tx, err := client.InitializeBuild(context.Background(), "build_42", "demo project")
	if err != nil {
		t.Fatalf("InitializeBuild: %v", err)
	}
	if tx != "tx-abc" {
		t.Fatalf("expected tx-abc, got %q", tx)
	}
	wantPath := "/v1/builds/" + DeriveAccountRef("build_42") + "/initialize"
	if gotPath != wantPath {
		t.Fatalf("expected path %q, got %q", wantPath, gotPath)
	}
	if gotBody.BuildID != "build_42" || gotBody.ProjectName != "demo project" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestGatewayLogActionEncodesHash(t *testing.T) {
	var gotBody logActionRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/builds/", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(txResponse{TxHash: "tx-log"})
	})
	client, _ := newTestGateway(t, mux)

	tx, err := client.LogAction(context.Background(), "build_42", "generate_code", "Anchor program generated", []byte{0xde, 0xad})
	if err != nil {
		t.Fatalf("LogAction: %v", err)
	}
	if tx != "tx-log" {
		t.Fatalf("expected tx-log, got %q", tx)
	}
	if gotBody.ContentHash != "dead" {
		t.Fatalf("expected hex content hash, got %q", gotBody.ContentHash)
	}
	if gotBody.Action != "generate_code" {
		t.Fatalf("unexpected action %q", gotBody.Action)
	}
}

func TestGatewayErrorResponses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/builds/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("rpc node unavailable"))
	})
	client, _ := newTestGateway(t, mux)

	if _, err := client.InitializeBuild(context.Background(), "build_42", "demo"); err == nil {
		t.Fatal("expected error from failing gateway")
	}
	if client.Available() {
		t.Fatal("expected client to be marked unavailable after failure")
	}
}

func TestGatewayUnconfiguredReturnsNil(t *testing.T) {
	client, err := NewGatewayClient(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client when endpoint unset")
	}
	if client.Available() {
		t.Fatal("nil client must report unavailable")
	}
}

func TestGatewayReadBuild(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/builds/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(BuildAccount{BuildID: "build_42", ProjectName: "demo", StepCount: 3, Status: "in_progress"})
	})
	client, _ := newTestGateway(t, mux)

	account, err := client.ReadBuild(context.Background(), "build_42")
	if err != nil {
		t.Fatalf("ReadBuild: %v", err)
	}
	if account.BuildID != "build_42" || account.StepCount != 3 {
		t.Fatalf("unexpected account: %+v", account)
	}
}
