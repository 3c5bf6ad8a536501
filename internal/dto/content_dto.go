// FILE: internal/dto/content_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// --- Course ---

type CreateCourseRequest struct {
	Title           string `json:"title" validate:"required,min=3"`
	Topic           string `json:"topic" validate:"required,min=3"`
	DurationMinutes int    `json:"duration_minutes" validate:"required"`
}

type CourseResponse struct {
	Id               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Topic            string          `json:"topic"`
	DurationMinutes  int             `json:"duration_minutes"`
	Outline          json.RawMessage `json:"outline,omitempty"`
	Status           string          `json:"status"`
	CreditsSpent     int             `json:"credits_spent,omitempty"`
	RemainingBalance int             `json:"remaining_balance,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// --- Presentation ---

type CreatePresentationRequest struct {
	Title      string `json:"title" validate:"required,min=3"`
	Topic      string `json:"topic" validate:"required,min=3"`
	SlideCount int    `json:"slide_count" validate:"required"`
}

type PresentationResponse struct {
	Id               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Topic            string          `json:"topic"`
	SlideCount       int             `json:"slide_count"`
	Slides           json.RawMessage `json:"slides,omitempty"`
	Status           string          `json:"status"`
	CreditsSpent     int             `json:"credits_spent,omitempty"`
	RemainingBalance int             `json:"remaining_balance,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// --- Voice agent ---

type CreateVoiceAgentRequest struct {
	Name            string `json:"name" validate:"required,min=3"`
	Persona         string `json:"persona" validate:"required,min=3"`
	DurationMinutes int    `json:"duration_minutes" validate:"required"`
}

type VoiceAgentResponse struct {
	Id               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Persona          string    `json:"persona"`
	DurationMinutes  int       `json:"duration_minutes"`
	Status           string    `json:"status"`
	CreditsSpent     int       `json:"credits_spent,omitempty"`
	RemainingBalance int       `json:"remaining_balance,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
