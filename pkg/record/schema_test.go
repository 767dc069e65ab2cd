package record

import (
	"errors"
	"testing"

	vmerrors "github.com/veil-labs/veilmarket/pkg/errors"
)

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var me *vmerrors.MarketError
	if !errors.As(err, &me) {
		t.Fatalf("expected MarketError, got %T", err)
	}
	if me.Code != vmerrors.CodeInvalidInput {
		t.Errorf("expected CodeInvalidInput, got %v", me.Code)
	}
}

func TestListingValidate(t *testing.T) {
	in := validListingInput()
	if err := in.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	short := validListingInput()
	short.ServiceDetails.DurationMinutes = 10
	assertInvalidInput(t, short.Validate())

	noProvider := validListingInput()
	noProvider.ProviderName = ""
	assertInvalidInput(t, noProvider.Validate())

	freePrice := validListingInput()
	freePrice.Price.Amount = 0
	assertInvalidInput(t, freePrice.Validate())
}

func TestBookingValidate(t *testing.T) {
	in := &BookingInput{ServiceID: "svc-1", CustomerID: "c-1", CustomerName: "Bob"}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	assertInvalidInput(t, (&BookingInput{CustomerID: "c-1", CustomerName: "Bob"}).Validate())
}

func TestFeedbackValidate(t *testing.T) {
	in := &FeedbackInput{BookingID: "b-1"}
	if err := in.Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	high := 6
	assertInvalidInput(t, (&FeedbackInput{BookingID: "b-1", ProviderRating: &high}).Validate())
	low := 0
	assertInvalidInput(t, (&FeedbackInput{BookingID: "b-1", CustomerRating: &low}).Validate())
	assertInvalidInput(t, (&FeedbackInput{}).Validate())
}

func TestDecodeInputRejectsUnknownFields(t *testing.T) {
	var in BookingInput
	err := DecodeInput(map[string]interface{}{
		"service_id":    "svc-1",
		"customer_id":   "c-1",
		"customer_name": "Bob",
		"surprise":      true,
	}, &in)
	assertInvalidInput(t, err)
}

func TestDecodeInput(t *testing.T) {
	var in FeedbackInput
	err := DecodeInput(map[string]interface{}{
		"booking_id":      "b-1",
		"provider_rating": 5,
	}, &in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.BookingID != "b-1" {
		t.Errorf("unexpected booking_id: %q", in.BookingID)
	}
	if in.ProviderRating == nil || *in.ProviderRating != 5 {
		t.Errorf("unexpected provider_rating: %v", in.ProviderRating)
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"listing", "booking", "feedback"} {
		if _, ok := ParseKind(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	if _, ok := ParseKind("invoice"); ok {
		t.Errorf("expected unknown kind to be rejected")
	}
}

func TestRemoteSchemaDocument(t *testing.T) {
	for _, kind := range []Kind{KindListing, KindBooking, KindFeedback} {
		doc := RemoteSchemaDocument(kind)
		if doc == nil {
			t.Fatalf("expected schema document for %s", kind)
		}
		items, ok := doc["items"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected items object for %s", kind)
		}
		if items["additionalProperties"] != false {
			t.Errorf("schema for %s must reject additional properties", kind)
		}
	}
	if RemoteSchemaDocument(Kind("other")) != nil {
		t.Errorf("unknown kind must have no schema document")
	}
}
