package actions

// Fixed example payloads answered by the detail and feedback lookups.
// These operations never query the vault; the payload is identical for
// every requested identifier.
const exampleBookingDetails = `Booking details (example data):
  service_id: svc-2f6a
  booking_time: 2026-08-30T09:00:00Z
  payment_status: pending
  service_status: scheduled
  notes: initial consultation
  customer identity and meeting link are stored encrypted`

const exampleFeedback = `Feedback (example data):
  booking_id: book-91c4
  provider_rating: 5
  customer_rating: 4
  provider_feedback: punctual and well prepared
  customer_feedback: great session, would book again
  status: pending
  agent mediation notes are stored encrypted`
