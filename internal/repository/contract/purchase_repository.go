package contract

import (
	"context"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.CreditPurchase) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CreditPurchase, error)
	// TransitionStatus flips the purchase status from one value to another in a
	// single conditional update. It reports false when the row was not in the
	// expected from status, which is how concurrent settlement notifications
	// are deduplicated.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.PurchaseStatus) (bool, error)
}
