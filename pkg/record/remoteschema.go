package record

// RemoteSchemaDocument returns the structural JSON Schema registered with the
// vault for a record kind. The vault validates every write server-side
// against the registered document; fields carrying the encryption marker are
// declared as share objects.
func RemoteSchemaDocument(kind Kind) map[string]interface{} {
	switch kind {
	case KindListing:
		return collectionSchema(map[string]interface{}{
			"_id":           schemaString(),
			"provider_name": shareObject(),
			"provider_id":   shareObject(),
			"category":      schemaString(),
			"service_details": schemaObject(map[string]interface{}{
				"title":            schemaString(),
				"description":      schemaString(),
				"duration_minutes": map[string]interface{}{"type": "integer", "minimum": MinDurationMinutes},
			}, "title", "duration_minutes"),
			"availability": schemaObject(map[string]interface{}{
				"date":       schemaString(),
				"start_time": schemaString(),
				"end_time":   schemaString(),
				"timezone":   schemaString(),
			}, "date", "start_time", "end_time"),
			"price": schemaObject(map[string]interface{}{
				"amount":   map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
				"currency": schemaString(),
			}, "amount", "currency"),
			"contact_info": shareObject(),
			"status":       enumString(ListingAvailable, ListingBooked, ListingCompleted, ListingCancelled),
		}, "_id", "provider_name", "provider_id", "category", "service_details", "availability", "price", "contact_info", "status")
	case KindBooking:
		return collectionSchema(map[string]interface{}{
			"_id":            schemaString(),
			"service_id":     schemaString(),
			"customer_id":    shareObject(),
			"customer_name":  shareObject(),
			"booking_time":   schemaString(),
			"payment_status": enumString(PaymentPending, PaymentPaid, PaymentRefunded, PaymentDisputed),
			"service_status": enumString(ServiceScheduled, ServiceInProgress, ServiceCompleted, ServiceCancelled, ServiceNoShow),
			"meeting_link":   shareObject(),
			"notes":          schemaString(),
		}, "_id", "service_id", "customer_id", "customer_name", "booking_time", "payment_status", "service_status")
	case KindFeedback:
		return collectionSchema(map[string]interface{}{
			"_id":               schemaString(),
			"booking_id":        schemaString(),
			"provider_rating":   ratingInteger(),
			"customer_rating":   ratingInteger(),
			"provider_feedback": schemaString(),
			"customer_feedback": schemaString(),
			"agent_notes":       shareObject(),
			"status":            enumString(ResolutionPending, ResolutionResolved, ResolutionDisputed, ResolutionRefunded),
		}, "_id", "booking_id", "status")
	}
	return nil
}

func collectionSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "array",
		"items": map[string]interface{}{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

func schemaString() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func schemaObject(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// shareObject declares a secret-shared field: the node stores a share under
// the marker key rather than the plaintext value.
func shareObject() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			AllotMarker: map[string]interface{}{"type": "string"},
		},
		"required": []string{AllotMarker},
	}
}

func ratingInteger() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5}
}

func enumString[T ~string](values ...T) map[string]interface{} {
	enum := make([]string, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return map[string]interface{}{"type": "string", "enum": enum}
}
