package model

import (
	"time"

	"github.com/google/uuid"
)

type VoiceAgent struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:text;not null"`
	Persona         string    `gorm:"type:text;not null"`
	DurationMinutes int       `gorm:"not null"`
	Status          string    `gorm:"type:text;not null;default:'ready'"`
	CreatedAt       time.Time `gorm:"default:now();not null"`
	UpdatedAt       time.Time `gorm:"default:now();not null"`
}

func (VoiceAgent) TableName() string {
	return "voice_agents"
}
