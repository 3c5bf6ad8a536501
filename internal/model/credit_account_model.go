package model

import (
	"time"

	"github.com/google/uuid"
)

type CreditAccount struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Balance   int       `gorm:"not null;default:0;check:balance >= 0"`
	CreatedAt time.Time `gorm:"default:now();not null"`
	UpdatedAt time.Time `gorm:"default:now();not null"`
}

func (CreditAccount) TableName() string {
	return "credit_accounts"
}
