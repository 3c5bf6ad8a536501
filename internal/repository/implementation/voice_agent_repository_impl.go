package implementation

import (
	"context"
	"errors"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/mapper"
	"ai-studio-be/internal/model"
	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoiceAgentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewVoiceAgentRepository(db *gorm.DB) contract.VoiceAgentRepository {
	return &VoiceAgentRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *VoiceAgentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *VoiceAgentRepositoryImpl) Create(ctx context.Context, agent *entity.VoiceAgent) error {
	modelAgent := r.mapper.VoiceAgentToModel(agent)
	if err := r.db.WithContext(ctx).Create(modelAgent).Error; err != nil {
		return err
	}
	*agent = *r.mapper.VoiceAgentToEntity(modelAgent)
	return nil
}

func (r *VoiceAgentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.VoiceAgent{}).Error
}

func (r *VoiceAgentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceAgent, error) {
	var modelAgent model.VoiceAgent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&modelAgent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.VoiceAgentToEntity(&modelAgent), nil
}

func (r *VoiceAgentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceAgent, error) {
	var modelAgents []*model.VoiceAgent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&modelAgents).Error; err != nil {
		return nil, err
	}
	return r.mapper.VoiceAgentsToEntities(modelAgents), nil
}

func (r *VoiceAgentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.VoiceAgent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
