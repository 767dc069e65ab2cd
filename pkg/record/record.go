// Package record defines the three marketplace record kinds, their schema
// contracts, and the builders that assemble vault-ready records.
package record

// Kind discriminates the three record kinds stored in the vault.
type Kind string

const (
	KindListing  Kind = "listing"
	KindBooking  Kind = "booking"
	KindFeedback Kind = "feedback"
)

// ParseKind validates a kind discriminator at the boundary.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindListing, KindBooking, KindFeedback:
		return Kind(s), true
	}
	return "", false
}

// ListingStatus describes the lifecycle state of a service listing.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingBooked    ListingStatus = "booked"
	ListingCompleted ListingStatus = "completed"
	ListingCancelled ListingStatus = "cancelled"
)

// PaymentStatus describes the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentDisputed PaymentStatus = "disputed"
)

// ParsePaymentStatus validates a payment status discriminator.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentDisputed:
		return PaymentStatus(s), true
	}
	return "", false
}

// ServiceStatus describes the service delivery state of a booking.
type ServiceStatus string

const (
	ServiceScheduled  ServiceStatus = "scheduled"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceCancelled  ServiceStatus = "cancelled"
	ServiceNoShow     ServiceStatus = "no_show"
)

// ParseServiceStatus validates a service status discriminator.
func ParseServiceStatus(s string) (ServiceStatus, bool) {
	switch ServiceStatus(s) {
	case ServiceScheduled, ServiceInProgress, ServiceCompleted, ServiceCancelled, ServiceNoShow:
		return ServiceStatus(s), true
	}
	return "", false
}

// ResolutionStatus describes the mediation state of a feedback record.
type ResolutionStatus string

const (
	ResolutionPending  ResolutionStatus = "pending"
	ResolutionResolved ResolutionStatus = "resolved"
	ResolutionDisputed ResolutionStatus = "disputed"
	ResolutionRefunded ResolutionStatus = "refunded"
)

// ParseResolutionStatus validates a resolution status discriminator.
func ParseResolutionStatus(s string) (ResolutionStatus, bool) {
	switch ResolutionStatus(s) {
	case ResolutionPending, ResolutionResolved, ResolutionDisputed, ResolutionRefunded:
		return ResolutionStatus(s), true
	}
	return "", false
}

// Record is a vault-ready record: a field mapping with at most one level
// of nesting. Once submitted, the external vault owns the record; this
// codebase keeps no authoritative copy.
type Record map[string]interface{}
