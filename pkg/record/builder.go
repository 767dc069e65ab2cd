package record

import (
	"time"

	"github.com/google/uuid"
)

// Confidential field paths per kind. Each builder marks exactly these,
// and only once per field.
var (
	listingConfidential  = []string{"provider_name", "provider_id", "contact_info"}
	bookingConfidential  = []string{"customer_id", "customer_name"}
	feedbackConfidential = []string{"agent_notes"}
)

// BuildListing assembles a vault-ready service listing from validated input.
// A fresh identifier is minted and status starts at "available".
func BuildListing(in *ListingInput) Record {
	rec := Record{
		"_id":           uuid.NewString(),
		"provider_name": in.ProviderName,
		"provider_id":   in.ProviderID,
		"category":      in.Category,
		"service_details": map[string]interface{}{
			"title":            in.ServiceDetails.Title,
			"description":      in.ServiceDetails.Description,
			"duration_minutes": in.ServiceDetails.DurationMinutes,
		},
		"availability": map[string]interface{}{
			"date":       in.Availability.Date,
			"start_time": in.Availability.StartTime,
			"end_time":   in.Availability.EndTime,
			"timezone":   in.Availability.Timezone,
		},
		"price": map[string]interface{}{
			"amount":   in.Price.Amount,
			"currency": in.Price.Currency,
		},
		"contact_info": in.ContactInfo,
		"status":       string(ListingAvailable),
	}
	return MarkFields(rec, listingConfidential)
}

// BuildBooking assembles a vault-ready booking from validated input.
// Service status starts at "scheduled" and payment status at "pending".
// The optional meeting link is included, and marked, only when supplied.
func BuildBooking(in *BookingInput, now time.Time) Record {
	rec := Record{
		"_id":            uuid.NewString(),
		"service_id":     in.ServiceID,
		"customer_id":    in.CustomerID,
		"customer_name":  in.CustomerName,
		"booking_time":   now.UTC().Format(time.RFC3339),
		"payment_status": string(PaymentPending),
		"service_status": string(ServiceScheduled),
		"notes":          in.Notes,
	}
	paths := bookingConfidential
	if in.MeetingLink != "" {
		rec["meeting_link"] = in.MeetingLink
		paths = append(append([]string{}, paths...), "meeting_link")
	}
	return MarkFields(rec, paths)
}

// BuildFeedback assembles a vault-ready feedback record from validated
// input. Resolution status is forced to "pending". Agent mediation notes
// are included, and marked, only when supplied.
func BuildFeedback(in *FeedbackInput) Record {
	rec := Record{
		"_id":        uuid.NewString(),
		"booking_id": in.BookingID,
		"status":     string(ResolutionPending),
	}
	if in.ProviderRating != nil {
		rec["provider_rating"] = *in.ProviderRating
	}
	if in.CustomerRating != nil {
		rec["customer_rating"] = *in.CustomerRating
	}
	if in.ProviderFeedback != "" {
		rec["provider_feedback"] = in.ProviderFeedback
	}
	if in.CustomerFeedback != "" {
		rec["customer_feedback"] = in.CustomerFeedback
	}
	var paths []string
	if in.AgentNotes != "" {
		rec["agent_notes"] = in.AgentNotes
		paths = feedbackConfidential
	}
	return MarkFields(rec, paths)
}
