package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByAccount filters ledger entries by owning account
type ByAccount struct {
	AccountID uuid.UUID
}

func (s ByAccount) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("account_id = ?", s.AccountID)
}

// ByKind filters ledger entries by transaction kind
type ByKind struct {
	Kind string
}

func (s ByKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}

// OwnedBy filters content resources by owner
type OwnedBy struct {
	OwnerID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}
