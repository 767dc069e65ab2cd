package vault

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	vmerrors "github.com/veil-labs/veilmarket/pkg/errors"
	"github.com/veil-labs/veilmarket/pkg/record"
)

// fakeNode simulates one storage node of the cluster.
type fakeNode struct {
	server   *httptest.Server
	healthy  bool
	writes   int
	reads    int
	schemas  int
	lastAuth string
}

func newFakeNode(t *testing.T) *fakeNode {
	t.Helper()
	node := &fakeNode{healthy: true}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		node.lastAuth = r.Header.Get("Authorization")
		if !node.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/v1/schemas", func(w http.ResponseWriter, r *http.Request) {
		node.schemas++
		var req struct {
			ID string `json:"_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": req.ID},
		})
	})
	mux.HandleFunc("/api/v1/data/create", func(w http.ResponseWriter, r *http.Request) {
		node.writes++
		var req struct {
			Data []record.Record `json:"data"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		created := make([]string, 0, len(req.Data))
		for _, rec := range req.Data {
			id, _ := rec["_id"].(string)
			created = append(created, id)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"created": created},
		})
	})
	mux.HandleFunc("/api/v1/data/read", func(w http.ResponseWriter, r *http.Request) {
		node.reads++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []record.Record{{"_id": "rec-1", "category": "tutoring"}},
		})
	})
	node.server = httptest.NewServer(mux)
	t.Cleanup(node.server.Close)
	return node
}

func testConfig(nodes ...*fakeNode) Config {
	cfg := Config{
		Credentials: Credentials{SecretKey: "test-secret", OrgID: "org-1"},
	}
	for i, node := range nodes {
		cfg.Nodes = append(cfg.Nodes, Node{URL: node.server.URL, ID: "node-" + string(rune('a'+i))})
	}
	return cfg
}

func TestLazyInitialization(t *testing.T) {
	node := newFakeNode(t)
	client := NewClient(testConfig(node))

	if client.Ready() {
		t.Fatalf("client must start uninitialized")
	}
	if _, err := client.ReadRecords(context.Background(), "schema-1", nil); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !client.Ready() {
		t.Errorf("first use must establish the connection")
	}
	if !strings.HasPrefix(node.lastAuth, "Bearer ") {
		t.Errorf("expected bearer token on health check, got %q", node.lastAuth)
	}
}

func TestFailedInitStaysUninitialized(t *testing.T) {
	node := newFakeNode(t)
	node.healthy = false
	client := NewClient(testConfig(node))

	_, err := client.ReadRecords(context.Background(), "schema-1", nil)
	var me *vmerrors.MarketError
	if !errors.As(err, &me) || me.Code != vmerrors.CodeInitFailure {
		t.Fatalf("expected CodeInitFailure, got %v", err)
	}
	if client.Ready() {
		t.Errorf("failed establishment must leave the client uninitialized")
	}

	// The next operation retries and succeeds once the node recovers.
	node.healthy = true
	if _, err := client.ReadRecords(context.Background(), "schema-1", nil); err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
}

func TestConfigureResetsConnection(t *testing.T) {
	first := newFakeNode(t)
	second := newFakeNode(t)
	client := NewClient(testConfig(first))

	if _, err := client.ReadRecords(context.Background(), "schema-1", nil); err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := client.Configure(testConfig(second)); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if client.Ready() {
		t.Errorf("reconfiguration must force back to uninitialized")
	}
	if _, err := client.ReadRecords(context.Background(), "schema-1", nil); err != nil {
		t.Fatalf("read after reconfigure: %v", err)
	}
	if second.reads != 1 {
		t.Errorf("expected read against the new node, got %d", second.reads)
	}
}

func TestConfigureValidation(t *testing.T) {
	client := NewClient(Config{})

	err := client.Configure(Config{Credentials: Credentials{SecretKey: "s", OrgID: "o"}})
	var me *vmerrors.MarketError
	if !errors.As(err, &me) || me.Code != vmerrors.CodeConfigFailure {
		t.Errorf("expected CodeConfigFailure for empty node list, got %v", err)
	}

	err = client.Configure(Config{Nodes: []Node{{URL: "http://n", ID: "n"}}})
	if !errors.As(err, &me) || me.Code != vmerrors.CodeConfigFailure {
		t.Errorf("expected CodeConfigFailure for missing credentials, got %v", err)
	}
}

func TestWriteRecordsFansOutToAllNodes(t *testing.T) {
	a := newFakeNode(t)
	b := newFakeNode(t)
	c := newFakeNode(t)
	client := NewClient(testConfig(a, b, c))

	created, err := client.WriteRecords(context.Background(), "schema-1", []record.Record{
		{"_id": "rec-1"},
		{"_id": "rec-2"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if len(created) != 2 || created[0] != "rec-1" || created[1] != "rec-2" {
		t.Errorf("unexpected created ids: %v", created)
	}
	for i, node := range []*fakeNode{a, b, c} {
		if node.writes != 1 {
			t.Errorf("node %d received %d writes, expected 1", i, node.writes)
		}
	}
}

func TestCreateSchemaRegistersOnAllNodes(t *testing.T) {
	a := newFakeNode(t)
	b := newFakeNode(t)
	client := NewClient(testConfig(a, b))

	id, err := client.CreateSchema(context.Background(), record.KindListing, "listings")
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if id == "" {
		t.Errorf("expected an assigned schema identifier")
	}
	if a.schemas != 1 || b.schemas != 1 {
		t.Errorf("expected registration on every node, got %d/%d", a.schemas, b.schemas)
	}
}

func TestCreateSchemaUnknownKind(t *testing.T) {
	node := newFakeNode(t)
	client := NewClient(testConfig(node))

	_, err := client.CreateSchema(context.Background(), record.Kind("invoice"), "")
	var me *vmerrors.MarketError
	if !errors.As(err, &me) || me.Code != vmerrors.CodeSchemaFailure {
		t.Errorf("expected CodeSchemaFailure, got %v", err)
	}
}

func TestReadRecordsQueriesPrimaryOnly(t *testing.T) {
	a := newFakeNode(t)
	b := newFakeNode(t)
	client := NewClient(testConfig(a, b))

	records, err := client.ReadRecords(context.Background(), "schema-1", map[string]interface{}{"category": "tutoring"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if a.reads != 1 || b.reads != 0 {
		t.Errorf("expected the primary node to serve reads, got %d/%d", a.reads, b.reads)
	}
}
