// FILE: internal/service/presentation_service.go
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

type IPresentationService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreatePresentationRequest) (*dto.PresentationResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.PresentationResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.PresentationResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type presentationService struct {
	uowFactory    unitofwork.RepositoryFactory
	creditService ICreditService
	provider      genai.Provider
}

func NewPresentationService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	provider genai.Provider,
) IPresentationService {
	return &presentationService{
		uowFactory:    uowFactory,
		creditService: creditService,
		provider:      provider,
	}
}

// Presentations price on slide count, which plays the duration role in the
// pricing rule for this action family.
func (c *presentationService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreatePresentationRequest) (*dto.PresentationResponse, error) {
	var deck entity.Presentation

	action := func(actionCtx context.Context) (uuid.UUID, error) {
		slides, err := c.provider.Generate(actionCtx, genai.Request{
			Kind:       genai.KindSlideDeck,
			Topic:      req.Topic,
			SlideCount: req.SlideCount,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("deck generation: %w", err)
		}

		deck = entity.Presentation{
			Id:         uuid.New(),
			OwnerId:    userId,
			Title:      req.Title,
			Topic:      req.Topic,
			SlideCount: req.SlideCount,
			Slides:     slides,
			Status:     entity.ContentStatusReady,
			CreatedAt:  time.Now(),
		}

		uow := c.uowFactory.NewUnitOfWork(actionCtx)
		if err := uow.PresentationRepository().Create(actionCtx, &deck); err != nil {
			return uuid.Nil, fmt.Errorf("persist presentation: %w", err)
		}
		return deck.Id, nil
	}

	result, err := c.creditService.ExecutePricedAction(
		ctx, userId, pricing.ActionPresentation, req.SlideCount,
		fmt.Sprintf("presentation generation: %s", req.Title),
		action,
	)
	if err != nil {
		return nil, err
	}

	return &dto.PresentationResponse{
		Id:               deck.Id,
		Title:            deck.Title,
		Topic:            deck.Topic,
		SlideCount:       deck.SlideCount,
		Slides:           deck.Slides,
		Status:           string(deck.Status),
		CreditsSpent:     result.Cost,
		RemainingBalance: result.RemainingBalance,
		CreatedAt:        deck.CreatedAt,
	}, nil
}

func (c *presentationService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.PresentationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	deck, err := uow.PresentationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, nil // Not found
	}

	return &dto.PresentationResponse{
		Id:         deck.Id,
		Title:      deck.Title,
		Topic:      deck.Topic,
		SlideCount: deck.SlideCount,
		Slides:     deck.Slides,
		Status:     string(deck.Status),
		CreatedAt:  deck.CreatedAt,
	}, nil
}

func (c *presentationService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.PresentationResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	decks, err := uow.PresentationRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.PresentationResponse, 0, len(decks))
	for _, deck := range decks {
		result = append(result, &dto.PresentationResponse{
			Id:         deck.Id,
			Title:      deck.Title,
			Topic:      deck.Topic,
			SlideCount: deck.SlideCount,
			Status:     string(deck.Status),
			CreatedAt:  deck.CreatedAt,
		})
	}
	return result, nil
}

func (c *presentationService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	deck, err := uow.PresentationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return err
	}
	if deck == nil {
		return nil
	}
	return uow.PresentationRepository().Delete(ctx, id)
}
