package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	IntentPending   = "pending"
	IntentSucceeded = "succeeded"
	IntentFailed    = "failed"
)

// PaymentIntent is the local correlation record for a gateway intent. The ID
// is the gateway's intent id; status transitions follow the gateway's
// confirmation signal.
type PaymentIntent struct {
	ID        string
	CourseID  uuid.UUID
	UserID    uuid.UUID
	Amount    int64 // cents
	Currency  string
	Status    string
	CreatedAt time.Time
}

// CheckoutSession is what the client needs to complete a payment. The gateway
// secret key never leaves the adapter; only the publishable key is exposed.
type CheckoutSession struct {
	IntentID       string `json:"intent_id"`
	ClientSecret   string `json:"client_secret"`
	PublishableKey string `json:"publishable_key"`
}
