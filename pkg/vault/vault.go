// Package vault is a thin façade over the external encrypted-storage
// service. Secret-sharing, node consensus, and share reconstruction all
// happen inside the external service; this package only prepares requests
// and passes records through.
package vault

import (
	"context"

	"github.com/veil-labs/veilmarket/pkg/record"
)

// Store is the narrow capability surface the marketplace actions need from
// the encrypted store. Implementations own connection management; they do
// not retry, cache, or reconcile.
type Store interface {
	// CreateSchema registers a structural schema document on every node and
	// returns the assigned remote schema identifier.
	CreateSchema(ctx context.Context, kind record.Kind, title string) (string, error)

	// WriteRecords submits a batch of prepared records under a remote schema
	// and returns the identifiers assigned to the created records.
	WriteRecords(ctx context.Context, schemaID string, records []record.Record) ([]string, error)

	// ReadRecords queries records matching the filter mapping. Records come
	// back exactly as delivered by the service, with no local decryption or
	// redaction.
	ReadRecords(ctx context.Context, schemaID string, filter map[string]interface{}) ([]record.Record, error)
}

// Node identifies one storage node of the cluster.
type Node struct {
	URL string `json:"url" koanf:"url"`
	ID  string `json:"id" koanf:"id"`
}

// Credentials authenticate the organization against every node.
type Credentials struct {
	SecretKey string `json:"secret_key" koanf:"secret_key"`
	OrgID     string `json:"org_id" koanf:"org_id"`
}

// Config is the connection configuration for the node cluster.
type Config struct {
	Nodes       []Node      `koanf:"nodes"`
	Credentials Credentials `koanf:"credentials"`
}
