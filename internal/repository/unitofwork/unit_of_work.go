package unitofwork

import (
	"context"

	"ai-studio-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CreditRepository() contract.CreditRepository
	CourseRepository() contract.CourseRepository
	PresentationRepository() contract.PresentationRepository
	VoiceAgentRepository() contract.VoiceAgentRepository
	PurchaseRepository() contract.PurchaseRepository
}
