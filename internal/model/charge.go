package model

import "time"

// ChargeStatus represents the status of a charge.
type ChargeStatus string

// UpdateStatus only ever produces the canonical three. The gateway-facing
// statuses approved and refunded exist alongside them: approved marks a
// gateway-confirmed payment and is the only refundable state, refunded is set
// by the refund flow. The dashboard counts approved and paid as revenue.
const (
	ChargeStatusPending  ChargeStatus = "pending"
	ChargeStatusPaid     ChargeStatus = "paid"
	ChargeStatusCanceled ChargeStatus = "canceled"
	ChargeStatusApproved ChargeStatus = "approved"
	ChargeStatusRefunded ChargeStatus = "refunded"
)

// IsCanonical reports whether s is one of the statuses accepted by a manual
// status update.
func (s ChargeStatus) IsCanonical() bool {
	switch s {
	case ChargeStatusPending, ChargeStatusPaid, ChargeStatusCanceled:
		return true
	}
	return false
}

// Charge is a billing record owned by exactly one user. Ownership is enforced
// at the application layer; every query is scoped by UserID.
type Charge struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"-" gorm:"not null;index"`
	Client    string       `json:"client" gorm:"size:255;not null"`
	Value     string       `json:"value" gorm:"size:50;not null"`
	Message   string       `json:"message" gorm:"type:text"`
	Status    ChargeStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"-"`
}
