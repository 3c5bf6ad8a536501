package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditPurchase struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"` // doubles as the payment order id
	AccountId uuid.UUID `gorm:"type:uuid;not null;index"`
	PackId    string    `gorm:"type:text;not null"`
	Credits   int       `gorm:"not null"`
	AmountIDR int64     `gorm:"not null"`
	Status    string    `gorm:"type:text;not null;default:'pending'"`
	CreatedAt time.Time `gorm:"default:now();not null"`
	UpdatedAt time.Time `gorm:"default:now();not null"`
}

func (CreditPurchase) TableName() string {
	return "credit_purchases"
}
