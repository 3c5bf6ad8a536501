package unitofwork

import (
	"context"
	"fmt"

	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // The active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) CreditRepository() contract.CreditRepository {
	return implementation.NewCreditRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CourseRepository() contract.CourseRepository {
	return implementation.NewCourseRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PresentationRepository() contract.PresentationRepository {
	return implementation.NewPresentationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) VoiceAgentRepository() contract.VoiceAgentRepository {
	return implementation.NewVoiceAgentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PurchaseRepository() contract.PurchaseRepository {
	return implementation.NewPurchaseRepository(u.getDB())
}
