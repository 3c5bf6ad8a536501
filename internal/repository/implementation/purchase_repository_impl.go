package implementation

import (
	"context"
	"errors"
	"time"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/mapper"
	"ai-studio-be/internal/model"
	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewPurchaseRepository(db *gorm.DB) contract.PurchaseRepository {
	return &PurchaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *PurchaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PurchaseRepositoryImpl) Create(ctx context.Context, purchase *entity.CreditPurchase) error {
	modelPurchase := r.mapper.PurchaseToModel(purchase)
	if err := r.db.WithContext(ctx).Create(modelPurchase).Error; err != nil {
		return err
	}
	*purchase = *r.mapper.PurchaseToEntity(modelPurchase)
	return nil
}

func (r *PurchaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPurchase, error) {
	var modelPurchase model.CreditPurchase
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&modelPurchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PurchaseToEntity(&modelPurchase), nil
}

func (r *PurchaseRepositoryImpl) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.PurchaseStatus) (bool, error) {
	// One conditional UPDATE, same shape as the balance guard: the WHERE
	// clause carries the expected current status and RowsAffected tells us
	// whether this caller won the transition.
	result := r.db.WithContext(ctx).Model(&model.CreditPurchase{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
