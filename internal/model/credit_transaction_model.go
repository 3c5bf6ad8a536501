package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditTransaction struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AccountId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Kind            string     `gorm:"type:credit_transaction_kind;not null"`
	Amount          int        `gorm:"not null"`
	RelatedEntityId *uuid.UUID `gorm:"type:uuid"`
	Description     string     `gorm:"type:text;not null"`
	CreatedAt       time.Time  `gorm:"default:now();not null;index"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
