package mapper

import (
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/model"

	"gorm.io/datatypes"
)

type ContentMapper struct{}

func NewContentMapper() *ContentMapper {
	return &ContentMapper{}
}

func (m *ContentMapper) CourseToEntity(c *model.Course) *entity.Course {
	if c == nil {
		return nil
	}
	return &entity.Course{
		Id:              c.Id,
		OwnerId:         c.OwnerId,
		Title:           c.Title,
		Topic:           c.Topic,
		DurationMinutes: c.DurationMinutes,
		Outline:         []byte(c.Outline),
		Status:          entity.ContentStatus(c.Status),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ContentMapper) CourseToModel(c *entity.Course) *model.Course {
	if c == nil {
		return nil
	}
	return &model.Course{
		Id:              c.Id,
		OwnerId:         c.OwnerId,
		Title:           c.Title,
		Topic:           c.Topic,
		DurationMinutes: c.DurationMinutes,
		Outline:         datatypes.JSON(c.Outline),
		Status:          string(c.Status),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ContentMapper) CoursesToEntities(courses []*model.Course) []*entity.Course {
	entities := make([]*entity.Course, len(courses))
	for i, c := range courses {
		entities[i] = m.CourseToEntity(c)
	}
	return entities
}

func (m *ContentMapper) PresentationToEntity(p *model.Presentation) *entity.Presentation {
	if p == nil {
		return nil
	}
	return &entity.Presentation{
		Id:         p.Id,
		OwnerId:    p.OwnerId,
		Title:      p.Title,
		Topic:      p.Topic,
		SlideCount: p.SlideCount,
		Slides:     []byte(p.Slides),
		Status:     entity.ContentStatus(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *ContentMapper) PresentationToModel(p *entity.Presentation) *model.Presentation {
	if p == nil {
		return nil
	}
	return &model.Presentation{
		Id:         p.Id,
		OwnerId:    p.OwnerId,
		Title:      p.Title,
		Topic:      p.Topic,
		SlideCount: p.SlideCount,
		Slides:     datatypes.JSON(p.Slides),
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *ContentMapper) PresentationsToEntities(decks []*model.Presentation) []*entity.Presentation {
	entities := make([]*entity.Presentation, len(decks))
	for i, p := range decks {
		entities[i] = m.PresentationToEntity(p)
	}
	return entities
}

func (m *ContentMapper) VoiceAgentToEntity(v *model.VoiceAgent) *entity.VoiceAgent {
	if v == nil {
		return nil
	}
	return &entity.VoiceAgent{
		Id:              v.Id,
		OwnerId:         v.OwnerId,
		Name:            v.Name,
		Persona:         v.Persona,
		DurationMinutes: v.DurationMinutes,
		Status:          entity.ContentStatus(v.Status),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func (m *ContentMapper) VoiceAgentToModel(v *entity.VoiceAgent) *model.VoiceAgent {
	if v == nil {
		return nil
	}
	return &model.VoiceAgent{
		Id:              v.Id,
		OwnerId:         v.OwnerId,
		Name:            v.Name,
		Persona:         v.Persona,
		DurationMinutes: v.DurationMinutes,
		Status:          string(v.Status),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func (m *ContentMapper) VoiceAgentsToEntities(agents []*model.VoiceAgent) []*entity.VoiceAgent {
	entities := make([]*entity.VoiceAgent, len(agents))
	for i, v := range agents {
		entities[i] = m.VoiceAgentToEntity(v)
	}
	return entities
}
