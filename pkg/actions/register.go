package actions

import (
	"context"
	"encoding/json"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/veil-labs/veilmarket/pkg/mcp"
)

// Action names as exposed to the agent host.
const (
	ActionConfigureConnection = "configure-connection"
	ActionCreateRemoteSchema  = "create-remote-schema"
	ActionCreateListing       = "create-listing"
	ActionQueryListings       = "query-listings"
	ActionCreateBooking       = "create-booking"
	ActionUpdateBookingStatus = "update-booking-status"
	ActionGetBookingDetails   = "get-booking-details"
	ActionCreateFeedback      = "create-feedback"
	ActionResolveFeedback     = "resolve-feedback"
	ActionGetFeedback         = "get-feedback"
	ActionGenerateIdentifier  = "generate-identifier"
)

type toolDef struct {
	name        string
	description string
	schema      json.RawMessage
}

func toolDefs() []toolDef {
	return []toolDef{
		{
			name:        ActionConfigureConnection,
			description: "Configure the encrypted-storage connection: node list and organization credentials. Forces re-initialization on the next operation.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"nodes": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"url": {"type": "string"},
								"id": {"type": "string"}
							},
							"required": ["url", "id"],
							"additionalProperties": false
						},
						"minItems": 1
					},
					"credentials": {
						"type": "object",
						"properties": {
							"secret_key": {"type": "string"},
							"org_id": {"type": "string"}
						},
						"required": ["secret_key", "org_id"],
						"additionalProperties": false
					}
				},
				"required": ["nodes", "credentials"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionCreateRemoteSchema,
			description: "Register the structural schema for a record kind on every storage node and return the assigned remote schema identifier.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"schema_kind": {"type": "string", "enum": ["listing", "booking", "feedback"]},
					"title": {"type": "string"}
				},
				"required": ["schema_kind"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionCreateListing,
			description: "Create a service listing. Provider name, provider id, and contact info are stored encrypted.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"provider_name": {"type": "string"},
					"provider_id": {"type": "string"},
					"category": {"type": "string"},
					"service_details": {
						"type": "object",
						"properties": {
							"title": {"type": "string"},
							"description": {"type": "string"},
							"duration_minutes": {"type": "integer", "minimum": 15}
						},
						"required": ["title", "duration_minutes"],
						"additionalProperties": false
					},
					"availability": {
						"type": "object",
						"properties": {
							"date": {"type": "string"},
							"start_time": {"type": "string"},
							"end_time": {"type": "string"},
							"timezone": {"type": "string"}
						},
						"required": ["date", "start_time", "end_time"],
						"additionalProperties": false
					},
					"price": {
						"type": "object",
						"properties": {
							"amount": {"type": "number", "exclusiveMinimum": 0},
							"currency": {"type": "string"}
						},
						"required": ["amount", "currency"],
						"additionalProperties": false
					},
					"contact_info": {"type": "string"}
				},
				"required": ["provider_name", "provider_id", "category", "service_details", "availability", "price", "contact_info"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionQueryListings,
			description: "Query available service listings, optionally filtered by category, date, and maximum price.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"category": {"type": "string"},
					"date": {"type": "string"},
					"max_price": {"type": "number"}
				},
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionCreateBooking,
			description: "Book a service. Customer id, customer name, and the optional meeting link are stored encrypted.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"service_id": {"type": "string"},
					"customer_id": {"type": "string"},
					"customer_name": {"type": "string"},
					"meeting_link": {"type": "string"},
					"notes": {"type": "string"}
				},
				"required": ["service_id", "customer_id", "customer_name"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionUpdateBookingStatus,
			description: "Update the service status of a booking, with optional payment status, notes, and meeting link. The change is reported back but not persisted.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"booking_id": {"type": "string"},
					"service_status": {"type": "string", "enum": ["scheduled", "in_progress", "completed", "cancelled", "no_show"]},
					"payment_status": {"type": "string", "enum": ["pending", "paid", "refunded", "disputed"]},
					"notes": {"type": "string"},
					"meeting_link": {"type": "string"}
				},
				"required": ["booking_id", "service_status"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionGetBookingDetails,
			description: "Get the details of a booking. Currently answers example data for every identifier.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"booking_id": {"type": "string"}
				},
				"required": ["booking_id"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionCreateFeedback,
			description: "Record feedback for a booking. Ratings are 1-5; agent mediation notes are stored encrypted.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"booking_id": {"type": "string"},
					"provider_rating": {"type": "integer", "minimum": 1, "maximum": 5},
					"customer_rating": {"type": "integer", "minimum": 1, "maximum": 5},
					"provider_feedback": {"type": "string"},
					"customer_feedback": {"type": "string"},
					"agent_notes": {"type": "string"}
				},
				"required": ["booking_id"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionResolveFeedback,
			description: "Resolve a feedback record with a resolution status and optional notes. The resolution is reported back but not persisted.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"feedback_id": {"type": "string"},
					"resolution_status": {"type": "string", "enum": ["pending", "resolved", "disputed", "refunded"]},
					"notes": {"type": "string"}
				},
				"required": ["feedback_id", "resolution_status"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionGetFeedback,
			description: "Get a feedback record. Currently answers example data for every identifier.",
			schema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"feedback_id": {"type": "string"}
				},
				"required": ["feedback_id"],
				"additionalProperties": false
			}`),
		},
		{
			name:        ActionGenerateIdentifier,
			description: "Generate a fresh unique identifier.",
		},
	}
}

// Register wires every action onto the MCP server. Responses carry the
// action's human-readable string; failures are flagged as error results but
// still delivered as text, never as a transport error.
func Register(srv *mcp.Server, svc *Service) {
	for _, def := range toolDefs() {
		name := def.name
		srv.RegisterTool(name, def.description, def.schema, func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
			text := svc.Invoke(ctx, name, args)
			return &mcpgo.CallToolResult{
				IsError: strings.HasPrefix(text, "Error:"),
				Content: []mcpgo.Content{
					mcpgo.TextContent{Type: "text", Text: text},
				},
			}, nil
		})
	}
}
