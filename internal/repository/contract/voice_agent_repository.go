package contract

import (
	"context"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"

	"github.com/google/uuid"
)

type VoiceAgentRepository interface {
	Create(ctx context.Context, agent *entity.VoiceAgent) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceAgent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceAgent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
