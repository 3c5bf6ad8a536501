// FILE: internal/entity/credit_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransactionKind string

const (
	CreditKindPurchase    CreditTransactionKind = "purchase"
	CreditKindConsumption CreditTransactionKind = "consumption"
	CreditKindAdjustment  CreditTransactionKind = "adjustment"
	CreditKindRefund      CreditTransactionKind = "refund"
)

// CreditAccount is the live balance for one authenticated user.
// Invariant: Balance equals the sum of all transaction amounts for the
// account and is never negative.
type CreditAccount struct {
	Id        uuid.UUID // 1:1 with the authenticated user id
	Balance   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreditTransaction is one append-only ledger entry. Amount is signed:
// consumption entries are negative, purchase/refund/positive-adjustment
// entries are positive. Entries are immutable once written except for
// RelatedEntityId, which may be back-filled from NULL after the paid-for
// resource exists.
type CreditTransaction struct {
	Id              uuid.UUID
	AccountId       uuid.UUID
	Kind            CreditTransactionKind
	Amount          int
	RelatedEntityId *uuid.UUID
	Description     string
	CreatedAt       time.Time
}

type PurchaseStatus string

const (
	PurchaseStatusPending PurchaseStatus = "pending"
	PurchaseStatusSettled PurchaseStatus = "settled"
	PurchaseStatusFailed  PurchaseStatus = "failed"
)

// CreditPurchase tracks one credit-pack checkout from Snap token creation to
// webhook settlement. Its Id is the payment processor order id.
type CreditPurchase struct {
	Id        uuid.UUID
	AccountId uuid.UUID
	PackId    string
	Credits   int
	AmountIDR int64
	Status    PurchaseStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
