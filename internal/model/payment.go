package model

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status %q", s)
}

type PaymentMethod string

const (
	CreditCard   PaymentMethod = "credit_card"
	PayPal       PaymentMethod = "paypal"
	BankTransfer PaymentMethod = "bank_transfer"
	Crypto       PaymentMethod = "crypto"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case CreditCard, PayPal, BankTransfer, Crypto:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("invalid payment method %q", s)
}

// Payment records a purchase attempt for a course. The gateway interaction
// itself happens elsewhere; this is the ledger entry.
type Payment struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	CourseID      int64         `json:"course_id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TransactionID string        `json:"transaction_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (p *Payment) Shape() error {
	if p.UserID == 0 {
		return &FieldError{Field: "user_id", Reason: "required"}
	}
	if p.CourseID == 0 {
		return &FieldError{Field: "course_id", Reason: "required"}
	}
	if _, err := ParsePaymentStatus(string(p.Status)); err != nil {
		return &FieldError{Field: "status", Reason: err.Error()}
	}
	if _, err := ParsePaymentMethod(string(p.PaymentMethod)); err != nil {
		return &FieldError{Field: "payment_method", Reason: err.Error()}
	}
	return nil
}
