package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/veil-labs/veilmarket/pkg/errors"
	"github.com/veil-labs/veilmarket/pkg/record"
)

// tokenTTL bounds the lifetime of a minted node token. Tokens are minted
// once per connection establishment, so reconfiguration also refreshes them.
const tokenTTL = time.Hour

// Client talks HTTP+JSON to the configured storage nodes. It starts
// uninitialized and establishes the connection lazily on first use; a failed
// establishment leaves it uninitialized so the next call retries with the
// same configuration. Configure resets it back to uninitialized.
//
// The connection handle is shared mutable state across actions; concurrent
// use across a reconfiguration is not guarded.
type Client struct {
	cfg        Config
	httpClient *http.Client
	conn       *connection
}

// connection is the ready state: one minted bearer token per node.
type connection struct {
	nodes  []Node
	tokens map[string]string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates an uninitialized client for the given configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Configure replaces the node list and credentials and forces the client
// back to uninitialized, so the next operation reconnects with the new
// parameters.
func (c *Client) Configure(cfg Config) error {
	if len(cfg.Nodes) == 0 {
		return errors.New(errors.CodeConfigFailure, "at least one storage node is required", nil)
	}
	for i, node := range cfg.Nodes {
		if node.URL == "" || node.ID == "" {
			return errors.New(errors.CodeConfigFailure, fmt.Sprintf("node %d needs both url and id", i), nil)
		}
	}
	if cfg.Credentials.SecretKey == "" || cfg.Credentials.OrgID == "" {
		return errors.New(errors.CodeConfigFailure, "credentials need both secret_key and org_id", nil)
	}
	c.cfg = cfg
	c.conn = nil
	return nil
}

// Ready reports whether the connection has been established.
func (c *Client) Ready() bool {
	return c.conn != nil
}

// ensureReady performs the uninitialized → ready transition: mint a bearer
// token per node and verify each node answers its health endpoint. On any
// failure the client stays uninitialized and the caller may simply try again.
func (c *Client) ensureReady(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	if len(c.cfg.Nodes) == 0 {
		return errors.New(errors.CodeInitFailure, "no storage nodes configured", nil)
	}
	tokens := make(map[string]string, len(c.cfg.Nodes))
	for _, node := range c.cfg.Nodes {
		token, err := c.mintToken(node)
		if err != nil {
			return errors.New(errors.CodeInitFailure, "minting node token failed", err).
				WithContext("node", node.ID)
		}
		tokens[node.ID] = token
	}
	for _, node := range c.cfg.Nodes {
		if err := c.checkHealth(ctx, node, tokens[node.ID]); err != nil {
			return errors.New(errors.CodeInitFailure, "storage node unreachable", err).
				WithContext("node", node.ID)
		}
	}
	c.conn = &connection{nodes: c.cfg.Nodes, tokens: tokens}
	return nil
}

// mintToken signs a short-lived bearer token for one node with the org
// secret key.
func (c *Client) mintToken(node Node) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.cfg.Credentials.OrgID,
		"aud": node.ID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.Credentials.SecretKey))
}

func (c *Client) checkHealth(ctx context.Context, node Node, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(node.URL, "/health"), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %s", resp.Status)
	}
	return nil
}

type schemaRequest struct {
	ID     string                 `json:"_id"`
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
}

type schemaResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreateSchema registers the structural schema document for a record kind on
// every node. The same client-minted identifier is sent to each node so the
// cluster agrees on it; the service echoes the assigned identifier back.
func (c *Client) CreateSchema(ctx context.Context, kind record.Kind, title string) (string, error) {
	if err := c.ensureReady(ctx); err != nil {
		return "", err
	}
	doc := record.RemoteSchemaDocument(kind)
	if doc == nil {
		return "", errors.New(errors.CodeSchemaFailure, fmt.Sprintf("no schema document for kind %q", kind), nil)
	}
	if title == "" {
		title = fmt.Sprintf("veilmarket %s records", kind)
	}
	req := schemaRequest{ID: uuid.NewString(), Name: title, Schema: doc}

	var assigned string
	for _, node := range c.conn.nodes {
		var resp schemaResponse
		if err := c.doJSON(ctx, node, "/api/v1/schemas", req, &resp); err != nil {
			return "", errors.New(errors.CodeSchemaFailure, "schema registration failed", err).
				WithContext("node", node.ID)
		}
		if assigned == "" {
			assigned = resp.Data.ID
		}
	}
	if assigned == "" {
		assigned = req.ID
	}
	return assigned, nil
}

type writeRequest struct {
	Schema string          `json:"schema"`
	Data   []record.Record `json:"data"`
}

type writeResponse struct {
	Data struct {
		Created []string `json:"created"`
	} `json:"data"`
}

// WriteRecords submits the batch to every node; each node stores its own
// shares of the marked fields. Identifiers come from the first node's
// response. There is no retry and no rollback on partial failure.
func (c *Client) WriteRecords(ctx context.Context, schemaID string, records []record.Record) ([]string, error) {
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}
	req := writeRequest{Schema: schemaID, Data: records}

	var created []string
	for _, node := range c.conn.nodes {
		var resp writeResponse
		if err := c.doJSON(ctx, node, "/api/v1/data/create", req, &resp); err != nil {
			return nil, errors.New(errors.CodeWriteFailure, "record write failed", err).
				WithContext("node", node.ID).
				WithContext("schema", schemaID)
		}
		if created == nil {
			created = resp.Data.Created
		}
	}
	return created, nil
}

type readRequest struct {
	Schema string                 `json:"schema"`
	Filter map[string]interface{} `json:"filter"`
}

type readResponse struct {
	Data []record.Record `json:"data"`
}

// ReadRecords queries the primary node for records matching the filter.
// Records are returned exactly as delivered.
func (c *Client) ReadRecords(ctx context.Context, schemaID string, filter map[string]interface{}) ([]record.Record, error) {
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}
	if filter == nil {
		filter = map[string]interface{}{}
	}
	node := c.conn.nodes[0]
	var resp readResponse
	if err := c.doJSON(ctx, node, "/api/v1/data/read", readRequest{Schema: schemaID, Filter: filter}, &resp); err != nil {
		return nil, errors.New(errors.CodeReadFailure, "record read failed", err).
			WithContext("node", node.ID).
			WithContext("schema", schemaID)
	}
	return resp.Data, nil
}

// doJSON posts a JSON payload to one node and decodes the JSON response.
func (c *Client) doJSON(ctx context.Context, node Node, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(node.URL, path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.conn.tokens[node.ID])
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("node returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

var _ Store = (*Client)(nil)
