package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending        = "PENDING"
	StatusActionRequired = "ACTION_REQUIRED"
	StatusAuthorized     = "AUTHORIZED"
	StatusRefused        = "REFUSED"
)

// Payment is one gateway payment attempt for a checkout. ExtraData holds the
// serialized history of action records appended while the payment waits on
// shopper steps.
type Payment struct {
	ID           int64
	CheckoutID   uuid.UUID
	Reference    string
	Amount       decimal.Decimal
	Currency     string
	Status       string
	PSPReference string
	ExtraData    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
