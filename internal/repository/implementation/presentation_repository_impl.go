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

type PresentationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContentMapper
}

func NewPresentationRepository(db *gorm.DB) contract.PresentationRepository {
	return &PresentationRepositoryImpl{
		db:     db,
		mapper: mapper.NewContentMapper(),
	}
}

func (r *PresentationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PresentationRepositoryImpl) Create(ctx context.Context, deck *entity.Presentation) error {
	modelDeck := r.mapper.PresentationToModel(deck)
	if err := r.db.WithContext(ctx).Create(modelDeck).Error; err != nil {
		return err
	}
	*deck = *r.mapper.PresentationToEntity(modelDeck)
	return nil
}

func (r *PresentationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Presentation{}).Error
}

func (r *PresentationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Presentation, error) {
	var modelDeck model.Presentation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&modelDeck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PresentationToEntity(&modelDeck), nil
}

func (r *PresentationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Presentation, error) {
	var modelDecks []*model.Presentation
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&modelDecks).Error; err != nil {
		return nil, err
	}
	return r.mapper.PresentationsToEntities(modelDecks), nil
}

func (r *PresentationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Presentation{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
