package models

const (
	EnrollmentEnrolled        = "enrolled"
	EnrollmentPaymentRequired = "payment_required"
	EnrollmentPaymentPending  = "payment_pending"
	EnrollmentPaymentFailed   = "payment_failed"
)

// EnrollmentState is the outcome of an enrollment request. For a paid course
// State is EnrollmentPaymentRequired and the caller must go through checkout.
type EnrollmentState struct {
	State string `json:"state"`
}
