// FILE: internal/entity/content_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContentStatus string

const (
	ContentStatusReady  ContentStatus = "ready"
	ContentStatusFailed ContentStatus = "failed"
)

type Course struct {
	Id              uuid.UUID
	OwnerId         uuid.UUID
	Title           string
	Topic           string
	DurationMinutes int
	Outline         []byte // generated outline, JSON
	Status          ContentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Presentation struct {
	Id         uuid.UUID
	OwnerId    uuid.UUID
	Title      string
	Topic      string
	SlideCount int
	Slides     []byte // generated deck, JSON
	Status     ContentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type VoiceAgent struct {
	Id              uuid.UUID
	OwnerId         uuid.UUID
	Name            string
	Persona         string
	DurationMinutes int
	Status          ContentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
