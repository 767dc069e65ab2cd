package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/veil-labs/veilmarket/pkg/errors"
)

// ServiceDetails is the nested service-detail block of a listing.
type ServiceDetails struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Availability is the nested availability block of a listing.
type Availability struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

// Price is the nested price block of a listing.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// ListingInput is the validated input for creating a service listing.
// Provider name, provider id, and contact info are confidential and get
// encryption-marked by the builder.
type ListingInput struct {
	ProviderName   string         `json:"provider_name"`
	ProviderID     string         `json:"provider_id"`
	Category       string         `json:"category"`
	ServiceDetails ServiceDetails `json:"service_details"`
	Availability   Availability   `json:"availability"`
	Price          Price          `json:"price"`
	ContactInfo    string         `json:"contact_info"`
}

// MinDurationMinutes is the shortest service a listing may offer.
const MinDurationMinutes = 15

// Validate enforces the listing schema contract.
func (in *ListingInput) Validate() error {
	for name, v := range map[string]string{
		"provider_name": in.ProviderName,
		"provider_id":   in.ProviderID,
		"category":      in.Category,
		"contact_info":  in.ContactInfo,
	} {
		if v == "" {
			return errors.New(errors.CodeInvalidInput, fmt.Sprintf("%s is required", name), nil)
		}
	}
	if in.ServiceDetails.Title == "" {
		return errors.New(errors.CodeInvalidInput, "service_details.title is required", nil)
	}
	if in.ServiceDetails.DurationMinutes < MinDurationMinutes {
		return errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("service_details.duration_minutes must be at least %d", MinDurationMinutes), nil)
	}
	if in.Availability.Date == "" || in.Availability.StartTime == "" || in.Availability.EndTime == "" {
		return errors.New(errors.CodeInvalidInput, "availability date, start_time and end_time are required", nil)
	}
	if in.Price.Amount <= 0 {
		return errors.New(errors.CodeInvalidInput, "price.amount must be positive", nil)
	}
	if in.Price.Currency == "" {
		return errors.New(errors.CodeInvalidInput, "price.currency is required", nil)
	}
	return nil
}

// BookingInput is the validated input for creating a booking. The referenced
// service identifier is not checked against existing listings. Customer id,
// customer name, and the optional meeting link are confidential.
type BookingInput struct {
	ServiceID    string `json:"service_id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	MeetingLink  string `json:"meeting_link,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Validate enforces the booking schema contract.
func (in *BookingInput) Validate() error {
	for name, v := range map[string]string{
		"service_id":    in.ServiceID,
		"customer_id":   in.CustomerID,
		"customer_name": in.CustomerName,
	} {
		if v == "" {
			return errors.New(errors.CodeInvalidInput, fmt.Sprintf("%s is required", name), nil)
		}
	}
	return nil
}

// FeedbackInput is the validated input for creating feedback on a booking.
// Ratings are optional; when present they must be 1..5. Agent mediation
// notes are confidential.
type FeedbackInput struct {
	BookingID        string `json:"booking_id"`
	ProviderRating   *int   `json:"provider_rating,omitempty"`
	CustomerRating   *int   `json:"customer_rating,omitempty"`
	ProviderFeedback string `json:"provider_feedback,omitempty"`
	CustomerFeedback string `json:"customer_feedback,omitempty"`
	AgentNotes       string `json:"agent_notes,omitempty"`
}

// Validate enforces the feedback schema contract.
func (in *FeedbackInput) Validate() error {
	if in.BookingID == "" {
		return errors.New(errors.CodeInvalidInput, "booking_id is required", nil)
	}
	for name, r := range map[string]*int{
		"provider_rating": in.ProviderRating,
		"customer_rating": in.CustomerRating,
	} {
		if r != nil && (*r < 1 || *r > 5) {
			return errors.New(errors.CodeInvalidInput, fmt.Sprintf("%s must be between 1 and 5", name), nil)
		}
	}
	return nil
}

// DecodeInput decodes a loose argument mapping into a typed input struct,
// rejecting unrecognized fields at any nesting level.
func DecodeInput(args map[string]interface{}, v interface{}) error {
	payload, err := json.Marshal(args)
	if err != nil {
		return errors.New(errors.CodeInvalidInput, "arguments are not serializable", err)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New(errors.CodeInvalidInput, "malformed arguments", err)
	}
	return nil
}
