package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerId         uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title           string         `gorm:"type:text;not null"`
	Topic           string         `gorm:"type:text;not null"`
	DurationMinutes int            `gorm:"not null"`
	Outline         datatypes.JSON `gorm:"type:jsonb"`
	Status          string         `gorm:"type:text;not null;default:'ready'"`
	CreatedAt       time.Time      `gorm:"default:now();not null"`
	UpdatedAt       time.Time      `gorm:"default:now();not null"`
}

func (Course) TableName() string {
	return "courses"
}
