package mapper

import (
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/model"
)

type CreditMapper struct{}

func NewCreditMapper() *CreditMapper {
	return &CreditMapper{}
}

func (m *CreditMapper) AccountToEntity(a *model.CreditAccount) *entity.CreditAccount {
	if a == nil {
		return nil
	}
	return &entity.CreditAccount{
		Id:        a.Id,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *CreditMapper) AccountToModel(a *entity.CreditAccount) *model.CreditAccount {
	if a == nil {
		return nil
	}
	return &model.CreditAccount{
		Id:        a.Id,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *CreditMapper) TransactionToEntity(t *model.CreditTransaction) *entity.CreditTransaction {
	if t == nil {
		return nil
	}
	return &entity.CreditTransaction{
		Id:              t.Id,
		AccountId:       t.AccountId,
		Kind:            entity.CreditTransactionKind(t.Kind),
		Amount:          t.Amount,
		RelatedEntityId: t.RelatedEntityId,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *CreditMapper) TransactionToModel(t *entity.CreditTransaction) *model.CreditTransaction {
	if t == nil {
		return nil
	}
	return &model.CreditTransaction{
		Id:              t.Id,
		AccountId:       t.AccountId,
		Kind:            string(t.Kind),
		Amount:          t.Amount,
		RelatedEntityId: t.RelatedEntityId,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *CreditMapper) TransactionsToEntities(txns []*model.CreditTransaction) []*entity.CreditTransaction {
	entities := make([]*entity.CreditTransaction, len(txns))
	for i, t := range txns {
		entities[i] = m.TransactionToEntity(t)
	}
	return entities
}

func (m *CreditMapper) PurchaseToEntity(p *model.CreditPurchase) *entity.CreditPurchase {
	if p == nil {
		return nil
	}
	return &entity.CreditPurchase{
		Id:        p.Id,
		AccountId: p.AccountId,
		PackId:    p.PackId,
		Credits:   p.Credits,
		AmountIDR: p.AmountIDR,
		Status:    entity.PurchaseStatus(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *CreditMapper) PurchaseToModel(p *entity.CreditPurchase) *model.CreditPurchase {
	if p == nil {
		return nil
	}
	return &model.CreditPurchase{
		Id:        p.Id,
		AccountId: p.AccountId,
		PackId:    p.PackId,
		Credits:   p.Credits,
		AmountIDR: p.AmountIDR,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
