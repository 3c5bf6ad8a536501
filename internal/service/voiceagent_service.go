// FILE: internal/service/voiceagent_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/pkg/genai"
	"ai-studio-be/pkg/pricing"

	"github.com/google/uuid"
)

type IVoiceAgentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateVoiceAgentRequest) (*dto.VoiceAgentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.VoiceAgentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.VoiceAgentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type voiceAgentService struct {
	uowFactory    unitofwork.RepositoryFactory
	creditService ICreditService
	provider      genai.Provider
}

func NewVoiceAgentService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	provider genai.Provider,
) IVoiceAgentService {
	return &voiceAgentService{
		uowFactory:    uowFactory,
		creditService: creditService,
		provider:      provider,
	}
}

func (c *voiceAgentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateVoiceAgentRequest) (*dto.VoiceAgentResponse, error) {
	var agent entity.VoiceAgent

	action := func(actionCtx context.Context) (uuid.UUID, error) {
		// The persona seed comes back as a JSON document; only its text field
		// is stored on the agent, the rest is provider bookkeeping.
		persona, err := c.provider.Generate(actionCtx, genai.Request{
			Kind:            genai.KindAgentPersona,
			Topic:           req.Persona,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("persona generation: %w", err)
		}

		agent = entity.VoiceAgent{
			Id:              uuid.New(),
			OwnerId:         userId,
			Name:            req.Name,
			Persona:         string(persona),
			DurationMinutes: req.DurationMinutes,
			Status:          entity.ContentStatusReady,
			CreatedAt:       time.Now(),
		}

		uow := c.uowFactory.NewUnitOfWork(actionCtx)
		if err := uow.VoiceAgentRepository().Create(actionCtx, &agent); err != nil {
			return uuid.Nil, fmt.Errorf("persist voice agent: %w", err)
		}
		return agent.Id, nil
	}

	result, err := c.creditService.ExecutePricedAction(
		ctx, userId, pricing.ActionVoiceAgent, req.DurationMinutes,
		fmt.Sprintf("voice agent creation: %s", req.Name),
		action,
	)
	if err != nil {
		return nil, err
	}

	return &dto.VoiceAgentResponse{
		Id:               agent.Id,
		Name:             agent.Name,
		Persona:          agent.Persona,
		DurationMinutes:  agent.DurationMinutes,
		Status:           string(agent.Status),
		CreditsSpent:     result.Cost,
		RemainingBalance: result.RemainingBalance,
		CreatedAt:        agent.CreatedAt,
	}, nil
}

func (c *voiceAgentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.VoiceAgentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	agent, err := uow.VoiceAgentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, nil // Not found
	}

	return &dto.VoiceAgentResponse{
		Id:              agent.Id,
		Name:            agent.Name,
		Persona:         agent.Persona,
		DurationMinutes: agent.DurationMinutes,
		Status:          string(agent.Status),
		CreatedAt:       agent.CreatedAt,
	}, nil
}

func (c *voiceAgentService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.VoiceAgentResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	agents, err := uow.VoiceAgentRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.VoiceAgentResponse, 0, len(agents))
	for _, agent := range agents {
		result = append(result, &dto.VoiceAgentResponse{
			Id:              agent.Id,
			Name:            agent.Name,
			DurationMinutes: agent.DurationMinutes,
			Status:          string(agent.Status),
			CreatedAt:       agent.CreatedAt,
		})
	}
	return result, nil
}

func (c *voiceAgentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	agent, err := uow.VoiceAgentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return err
	}
	if agent == nil {
		return nil
	}
	return uow.VoiceAgentRepository().Delete(ctx, id)
}
