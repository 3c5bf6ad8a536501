// FILE: internal/dto/credit_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Balance / ledger read side ---

type BalanceResponse struct {
	AccountId uuid.UUID `json:"account_id"`
	Balance   int       `json:"balance"`
}

type TransactionView struct {
	Id              uuid.UUID  `json:"id"`
	Kind            string     `json:"kind"`
	Amount          int        `json:"amount"`
	RelatedEntityId *uuid.UUID `json:"related_entity_id,omitempty"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
}

// --- Pricing preview ---

type PriceActionRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=course voice_agent presentation"`
	Duration int    `json:"duration" validate:"required,min=1"`
}

type PriceActionResponse struct {
	Kind string `json:"kind"`
	Cost int    `json:"cost"`
}

// --- Async ledger patch ---

// PatchLedgerEntityMessage asks the patch worker to back-fill the
// related_entity_id column on a consumption entry once the paid-for
// resource exists.
type PatchLedgerEntityMessage struct {
	TransactionId   uuid.UUID `json:"transaction_id"`
	RelatedEntityId uuid.UUID `json:"related_entity_id"`
}

// --- Admin adjustment ---

type AdminAdjustBalanceRequest struct {
	AccountId   uuid.UUID `json:"account_id" validate:"required"`
	Delta       int       `json:"delta" validate:"required"`
	Description string    `json:"description" validate:"required,min=3"`
}

type AdminAdjustBalanceResponse struct {
	AccountId  uuid.UUID `json:"account_id"`
	NewBalance int       `json:"new_balance"`
}
