// Package actions implements the marketplace action surface: every
// externally invokable operation an agent host can call. Each action
// validates its input, performs at most one vault interaction, and always
// answers with a human-readable string; no raw error ever crosses this
// boundary.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/veil-labs/veilmarket/pkg/config"
	"github.com/veil-labs/veilmarket/pkg/errors"
	"github.com/veil-labs/veilmarket/pkg/record"
	"github.com/veil-labs/veilmarket/pkg/telemetry"
	"github.com/veil-labs/veilmarket/pkg/vault"
)

// Configurator is the reconfiguration capability of the vault client,
// separate from Store so read/write call sites cannot reconfigure.
type Configurator interface {
	Configure(vault.Config) error
}

// Service owns the action surface. Configuration is passed in by the
// caller; nothing here is process-global, so independent Service values
// do not interfere.
type Service struct {
	store        vault.Store
	configurator Configurator
	schemas      config.SchemasConfig
	logger       *slog.Logger
	metrics      *telemetry.ActionMetrics
	now          func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithConfigurator enables the configure-connection action.
func WithConfigurator(c Configurator) Option {
	return func(s *Service) { s.configurator = c }
}

// WithSchemas seeds the remote schema identifiers from configuration.
func WithSchemas(schemas config.SchemasConfig) Option {
	return func(s *Service) { s.schemas = schemas }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the action metrics.
func WithMetrics(metrics *telemetry.ActionMetrics) Option {
	return func(s *Service) { s.metrics = metrics }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the action surface over the given vault store.
func NewService(store vault.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type handler func(ctx context.Context, args map[string]interface{}) (string, error)

// Invoke runs the named action and always returns a human-readable string.
// Failures are converted at this boundary into a one-line "Error: ..."
// response; unknown failure kinds surface as INTERNAL_ERROR.
func (s *Service) Invoke(ctx context.Context, action string, args map[string]interface{}) string {
	ctx, span := otel.Tracer("veilmarket/actions").Start(ctx, "action."+action,
		trace.WithAttributes(attribute.String("action", action)))
	defer span.End()

	s.metrics.RecordInvocation(ctx, action)

	fn, ok := s.handlers()[action]
	if !ok {
		err := errors.New(errors.CodeInvalidInput, fmt.Sprintf("unknown action %q", action), nil)
		return s.fail(ctx, action, err)
	}
	msg, err := fn(ctx, args)
	if err != nil {
		return s.fail(ctx, action, err)
	}
	s.logger.InfoContext(ctx, "action completed", "action", action)
	return msg
}

func (s *Service) fail(ctx context.Context, action string, err error) string {
	me := errors.AsMarketError(err)
	s.metrics.RecordFailure(ctx, action, string(me.Code))
	s.logger.ErrorContext(ctx, "action failed", "action", action, "code", string(me.Code), "error", me.Error())
	return "Error: " + me.Error()
}

func (s *Service) handlers() map[string]handler {
	return map[string]handler{
		ActionConfigureConnection: s.configureConnection,
		ActionCreateRemoteSchema:  s.createRemoteSchema,
		ActionCreateListing:       s.createListing,
		ActionQueryListings:       s.queryListings,
		ActionCreateBooking:       s.createBooking,
		ActionUpdateBookingStatus: s.updateBookingStatus,
		ActionGetBookingDetails:   s.getBookingDetails,
		ActionCreateFeedback:      s.createFeedback,
		ActionResolveFeedback:     s.resolveFeedback,
		ActionGetFeedback:         s.getFeedback,
		ActionGenerateIdentifier:  s.generateIdentifier,
	}
}

// requireSchema guards vault interactions on a provisioned remote schema
// identifier for the kind, failing with a missing-schema condition naming
// the kind when it has not been configured.
func (s *Service) requireSchema(kind record.Kind) (string, error) {
	var id string
	switch kind {
	case record.KindListing:
		id = s.schemas.Listing
	case record.KindBooking:
		id = s.schemas.Booking
	case record.KindFeedback:
		id = s.schemas.Feedback
	}
	if id == "" {
		return "", errors.New(errors.CodeMissingSchema,
			fmt.Sprintf("%s schema has not been provisioned; run %s first", kind, ActionCreateRemoteSchema), nil)
	}
	return id, nil
}

func (s *Service) rememberSchema(kind record.Kind, id string) {
	switch kind {
	case record.KindListing:
		s.schemas.Listing = id
	case record.KindBooking:
		s.schemas.Booking = id
	case record.KindFeedback:
		s.schemas.Feedback = id
	}
}

type configureInput struct {
	Nodes       []vault.Node      `json:"nodes"`
	Credentials vault.Credentials `json:"credentials"`
}

func (s *Service) configureConnection(ctx context.Context, args map[string]interface{}) (string, error) {
	if s.configurator == nil {
		return "", errors.New(errors.CodeConfigFailure, "connection reconfiguration is not available", nil)
	}
	var in configureInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if err := s.configurator.Configure(vault.Config{Nodes: in.Nodes, Credentials: in.Credentials}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Connection configured with %d nodes for organization %s. The next operation establishes a fresh connection.",
		len(in.Nodes), in.Credentials.OrgID), nil
}

type createSchemaInput struct {
	SchemaKind string `json:"schema_kind"`
	Title      string `json:"title,omitempty"`
}

func (s *Service) createRemoteSchema(ctx context.Context, args map[string]interface{}) (string, error) {
	var in createSchemaInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	kind, ok := record.ParseKind(in.SchemaKind)
	if !ok {
		return "", errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("schema_kind must be one of listing, booking, feedback; got %q", in.SchemaKind), nil)
	}
	id, err := s.store.CreateSchema(ctx, kind, in.Title)
	if err != nil {
		return "", err
	}
	s.rememberSchema(kind, id)
	return fmt.Sprintf("Created %s schema with id %s. Persist it as schemas.%s in the configuration so it survives restarts.",
		kind, id, kind), nil
}

func (s *Service) createListing(ctx context.Context, args map[string]interface{}) (string, error) {
	var in record.ListingInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	schemaID, err := s.requireSchema(record.KindListing)
	if err != nil {
		return "", err
	}
	rec := record.BuildListing(&in)
	created, err := s.store.WriteRecords(ctx, schemaID, []record.Record{rec})
	if err != nil {
		return "", err
	}
	id, _ := rec["_id"].(string)
	if len(created) > 0 {
		id = created[0]
	}
	return fmt.Sprintf("Service listing created with id %s in category %s. Provider identity and contact details are stored encrypted.",
		id, in.Category), nil
}

type queryListingsInput struct {
	Category string   `json:"category,omitempty"`
	Date     string   `json:"date,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

func (s *Service) queryListings(ctx context.Context, args map[string]interface{}) (string, error) {
	var in queryListingsInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	schemaID, err := s.requireSchema(record.KindListing)
	if err != nil {
		return "", err
	}

	// Listings are always filtered to available status.
	filter := map[string]interface{}{"status": string(record.ListingAvailable)}
	if in.Category != "" {
		filter["category"] = in.Category
	}
	if in.Date != "" {
		filter["availability.date"] = in.Date
	}
	records, err := s.store.ReadRecords(ctx, schemaID, filter)
	if err != nil {
		return "", err
	}
	if in.MaxPrice != nil {
		records = filterByMaxPrice(records, *in.MaxPrice)
	}
	if len(records) == 0 {
		return "No available listings match the given filters.", nil
	}
	return formatListings(records), nil
}

func (s *Service) createBooking(ctx context.Context, args map[string]interface{}) (string, error) {
	var in record.BookingInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	schemaID, err := s.requireSchema(record.KindBooking)
	if err != nil {
		return "", err
	}
	rec := record.BuildBooking(&in, s.now())
	created, err := s.store.WriteRecords(ctx, schemaID, []record.Record{rec})
	if err != nil {
		return "", errors.New(errors.CodeBookingFailure, "booking write failed", err)
	}
	id, _ := rec["_id"].(string)
	if len(created) > 0 {
		id = created[0]
	}
	return fmt.Sprintf("Booking %s created for service %s with status %s and payment %s. Customer identity is stored encrypted.",
		id, in.ServiceID, record.ServiceScheduled, record.PaymentPending), nil
}

type updateBookingInput struct {
	BookingID     string `json:"booking_id"`
	ServiceStatus string `json:"service_status"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Notes         string `json:"notes,omitempty"`
	MeetingLink   string `json:"meeting_link,omitempty"`
}

// updateBookingStatus echoes the requested transition without persisting it.
// There is no read-modify-write against the vault yet, so no transition
// table can be enforced either.
func (s *Service) updateBookingStatus(ctx context.Context, args map[string]interface{}) (string, error) {
	var in updateBookingInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if in.BookingID == "" {
		return "", errors.New(errors.CodeInvalidInput, "booking_id is required", nil)
	}
	serviceStatus, ok := record.ParseServiceStatus(in.ServiceStatus)
	if !ok {
		return "", errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("invalid service_status %q", in.ServiceStatus), nil)
	}
	var paymentStatus record.PaymentStatus
	if in.PaymentStatus != "" {
		paymentStatus, ok = record.ParsePaymentStatus(in.PaymentStatus)
		if !ok {
			return "", errors.New(errors.CodeInvalidInput,
				fmt.Sprintf("invalid payment_status %q", in.PaymentStatus), nil)
		}
	}
	if _, err := s.requireSchema(record.KindBooking); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Booking %s updated: service status %s", in.BookingID, serviceStatus)
	if paymentStatus != "" {
		fmt.Fprintf(&b, ", payment status %s", paymentStatus)
	}
	if in.Notes != "" {
		fmt.Fprintf(&b, ", notes recorded")
	}
	if in.MeetingLink != "" {
		fmt.Fprintf(&b, ", meeting link attached")
	}
	return b.String(), nil
}

type getBookingInput struct {
	BookingID string `json:"booking_id"`
}

// getBookingDetails answers with fixed example data for every identifier;
// record retrieval for bookings is not implemented.
func (s *Service) getBookingDetails(ctx context.Context, args map[string]interface{}) (string, error) {
	var in getBookingInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if in.BookingID == "" {
		return "", errors.New(errors.CodeInvalidInput, "booking_id is required", nil)
	}
	if _, err := s.requireSchema(record.KindBooking); err != nil {
		return "", err
	}
	return exampleBookingDetails, nil
}

func (s *Service) createFeedback(ctx context.Context, args map[string]interface{}) (string, error) {
	var in record.FeedbackInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if err := in.Validate(); err != nil {
		return "", err
	}
	schemaID, err := s.requireSchema(record.KindFeedback)
	if err != nil {
		return "", err
	}
	rec := record.BuildFeedback(&in)
	created, err := s.store.WriteRecords(ctx, schemaID, []record.Record{rec})
	if err != nil {
		return "", errors.New(errors.CodeFeedbackFailure, "feedback write failed", err)
	}
	id, _ := rec["_id"].(string)
	if len(created) > 0 {
		id = created[0]
	}
	return fmt.Sprintf("Feedback %s recorded for booking %s with resolution status %s.",
		id, in.BookingID, record.ResolutionPending), nil
}

type resolveFeedbackInput struct {
	FeedbackID       string `json:"feedback_id"`
	ResolutionStatus string `json:"resolution_status"`
	Notes            string `json:"notes,omitempty"`
}

// resolveFeedback reports the requested resolution without persisting it,
// matching the non-persistence of updateBookingStatus.
func (s *Service) resolveFeedback(ctx context.Context, args map[string]interface{}) (string, error) {
	var in resolveFeedbackInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if in.FeedbackID == "" {
		return "", errors.New(errors.CodeInvalidInput, "feedback_id is required", nil)
	}
	status, ok := record.ParseResolutionStatus(in.ResolutionStatus)
	if !ok {
		return "", errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("invalid resolution_status %q", in.ResolutionStatus), nil)
	}
	if _, err := s.requireSchema(record.KindFeedback); err != nil {
		return "", err
	}
	msg := fmt.Sprintf("Feedback %s resolved with status %s", in.FeedbackID, status)
	if in.Notes != "" {
		msg += "; mediation notes recorded"
	}
	return msg + ".", nil
}

type getFeedbackInput struct {
	FeedbackID string `json:"feedback_id"`
}

// getFeedback answers with fixed example data for every identifier; record
// retrieval for feedback is not implemented.
func (s *Service) getFeedback(ctx context.Context, args map[string]interface{}) (string, error) {
	var in getFeedbackInput
	if err := record.DecodeInput(args, &in); err != nil {
		return "", err
	}
	if in.FeedbackID == "" {
		return "", errors.New(errors.CodeInvalidInput, "feedback_id is required", nil)
	}
	if _, err := s.requireSchema(record.KindFeedback); err != nil {
		return "", err
	}
	return exampleFeedback, nil
}

func (s *Service) generateIdentifier(ctx context.Context, args map[string]interface{}) (string, error) {
	return fmt.Sprintf("Generated identifier: %s", uuid.NewString()), nil
}
