package contract

import (
	"context"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PresentationRepository interface {
	Create(ctx context.Context, deck *entity.Presentation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Presentation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Presentation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
