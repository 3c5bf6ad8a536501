package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Presentation struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title      string         `gorm:"type:text;not null"`
	Topic      string         `gorm:"type:text;not null"`
	SlideCount int            `gorm:"not null"`
	Slides     datatypes.JSON `gorm:"type:jsonb"`
	Status     string         `gorm:"type:text;not null;default:'ready'"`
	CreatedAt  time.Time      `gorm:"default:now();not null"`
	UpdatedAt  time.Time      `gorm:"default:now();not null"`
}

func (Presentation) TableName() string {
	return "presentations"
}
