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
	"gorm.io/gorm/clause"
)

type CreditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditMapper
}

func NewCreditRepository(db *gorm.DB) contract.CreditRepository {
	return &CreditRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditMapper(),
	}
}

func (r *CreditRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CreditRepositoryImpl) GetOrCreateAccount(ctx context.Context, id uuid.UUID) (*entity.CreditAccount, error) {
	acct := model.CreditAccount{Id: id}
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Attrs(model.CreditAccount{Balance: 0, CreatedAt: time.Now(), UpdatedAt: time.Now()}).
		FirstOrCreate(&acct).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.AccountToEntity(&acct), nil
}

func (r *CreditRepositoryImpl) FindAccount(ctx context.Context, id uuid.UUID) (*entity.CreditAccount, error) {
	var acct model.CreditAccount
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AccountToEntity(&acct), nil
}

// AdjustBalance is a single conditional UPDATE, never a read-modify-write
// split across round trips. The WHERE guard makes two concurrent debits on
// the same account serialize at the row: the loser either sees the reduced
// balance or affects zero rows.
func (r *CreditRepositoryImpl) AdjustBalance(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var acct model.CreditAccount
	res := r.db.WithContext(ctx).Model(&acct).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing row from a guarded rejection.
		existing, err := r.FindAccount(ctx, id)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return 0, contract.ErrAccountNotFound
		}
		return existing.Balance, contract.ErrInsufficientBalance
	}
	return acct.Balance, nil
}

func (r *CreditRepositoryImpl) AppendTransaction(ctx context.Context, txn *entity.CreditTransaction) (uuid.UUID, error) {
	if txn.Id == uuid.Nil {
		txn.Id = uuid.New()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	modelTxn := r.mapper.TransactionToModel(txn)
	if err := r.db.WithContext(ctx).Create(modelTxn).Error; err != nil {
		return uuid.Nil, err
	}
	*txn = *r.mapper.TransactionToEntity(modelTxn)
	return txn.Id, nil
}

// PatchRelatedEntity only fills the column when it is still NULL or already
// carries the same value, so a replayed patch is a no-op. Amount and kind are
// never touched.
func (r *CreditRepositoryImpl) PatchRelatedEntity(ctx context.Context, transactionId uuid.UUID, relatedEntityId uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.CreditTransaction{}).
		Where("id = ? AND (related_entity_id IS NULL OR related_entity_id = ?)", transactionId, relatedEntityId).
		UpdateColumn("related_entity_id", relatedEntityId).Error
}

func (r *CreditRepositoryImpl) FindTransactions(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditTransaction, error) {
	var modelTxns []*model.CreditTransaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&modelTxns).Error; err != nil {
		return nil, err
	}
	return r.mapper.TransactionsToEntities(modelTxns), nil
}

func (r *CreditRepositoryImpl) SumTransactions(ctx context.Context, accountId uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&model.CreditTransaction{}).
		Where("account_id = ?", accountId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *CreditRepositoryImpl) ListAccounts(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditAccount, error) {
	var modelAccts []*model.CreditAccount
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&modelAccts).Error; err != nil {
		return nil, err
	}
	accounts := make([]*entity.CreditAccount, len(modelAccts))
	for i, a := range modelAccts {
		accounts[i] = r.mapper.AccountToEntity(a)
	}
	return accounts, nil
}
