package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"  // created, awaiting screenshot and review
	PaymentStatusApproved PaymentStatus = "approved" // admin accepted the evidence; terminal
	PaymentStatusRejected PaymentStatus = "rejected" // admin declined; terminal
)

type PaymentMethod string

const (
	PaymentMethodSBP    PaymentMethod = "sbp"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodCrypto PaymentMethod = "crypto"
)

// KnownPaymentMethod reports whether m is one of the accepted methods.
func KnownPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodSBP, PaymentMethodCard, PaymentMethodCrypto:
		return true
	}
	return false
}

// Payment is a manually reviewed claim of payment. It is created pending,
// optionally gets a screenshot reference attached, and is resolved by an
// administrator into approved or rejected. Terminal states never change.
type Payment struct {
	ID            int64
	UserID        string
	Months        int
	Method        PaymentMethod
	ScreenshotRef *string
	Status        PaymentStatus
	CreatedAt     time.Time
	ReviewedAt    *time.Time
	ReviewedBy    *string
}

// Pending reports whether the payment can still be attached to or reviewed.
func (p *Payment) Pending() bool {
	return p.Status == PaymentStatusPending
}
