// FILE: internal/dto/payment_dto.go
package dto

import (
	"github.com/google/uuid"
)

type CreditPackResponse struct {
	Id       string `json:"id"`
	Credits  int    `json:"credits"`
	PriceIDR int64  `json:"price_idr"`
}

type CheckoutRequest struct {
	PackId string `json:"pack_id" validate:"required,oneof=pack_small pack_large"`
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
}

type CheckoutResponse struct {
	OrderId         uuid.UUID `json:"order_id"`
	SnapRedirectUrl string    `json:"snap_redirect_url"`
	SnapToken       string    `json:"snap_token"`
}

type MidtransWebhookRequest struct {
	TransactionStatus string `json:"transaction_status"`
	OrderId           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	// Signature validation fields
	SignatureKey string `json:"signature_key"`
	StatusCode   string `json:"status_code"`
	GrossAmount  string `json:"gross_amount"`
}
