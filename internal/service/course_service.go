// FILE: internal/service/course_service.go
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

type ICourseService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CourseResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.CourseResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type courseService struct {
	uowFactory    unitofwork.RepositoryFactory
	creditService ICreditService
	provider      genai.Provider
}

func NewCourseService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	provider genai.Provider,
) ICourseService {
	return &courseService{
		uowFactory:    uowFactory,
		creditService: creditService,
		provider:      provider,
	}
}

// Create runs the full priced cycle: the credit debit commits first, then the
// outline generation and the course row happen as the guarded action, and any
// failure there triggers an automatic refund inside ExecutePricedAction.
func (c *courseService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	var course entity.Course

	action := func(actionCtx context.Context) (uuid.UUID, error) {
		outline, err := c.provider.Generate(actionCtx, genai.Request{
			Kind:            genai.KindCourseOutline,
			Topic:           req.Topic,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("outline generation: %w", err)
		}

		course = entity.Course{
			Id:              uuid.New(),
			OwnerId:         userId,
			Title:           req.Title,
			Topic:           req.Topic,
			DurationMinutes: req.DurationMinutes,
			Outline:         outline,
			Status:          entity.ContentStatusReady,
			CreatedAt:       time.Now(),
		}

		uow := c.uowFactory.NewUnitOfWork(actionCtx)
		if err := uow.CourseRepository().Create(actionCtx, &course); err != nil {
			return uuid.Nil, fmt.Errorf("persist course: %w", err)
		}
		return course.Id, nil
	}

	result, err := c.creditService.ExecutePricedAction(
		ctx, userId, pricing.ActionCourse, req.DurationMinutes,
		fmt.Sprintf("course generation: %s", req.Title),
		action,
	)
	if err != nil {
		return nil, err
	}

	return &dto.CourseResponse{
		Id:               course.Id,
		Title:            course.Title,
		Topic:            course.Topic,
		DurationMinutes:  course.DurationMinutes,
		Outline:          course.Outline,
		Status:           string(course.Status),
		CreditsSpent:     result.Cost,
		RemainingBalance: result.RemainingBalance,
		CreatedAt:        course.CreatedAt,
	}, nil
}

func (c *courseService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.CourseResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	course, err := uow.CourseRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil // Not found
	}

	return &dto.CourseResponse{
		Id:              course.Id,
		Title:           course.Title,
		Topic:           course.Topic,
		DurationMinutes: course.DurationMinutes,
		Outline:         course.Outline,
		Status:          string(course.Status),
		CreatedAt:       course.CreatedAt,
	}, nil
}

func (c *courseService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.CourseResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	courses, err := uow.CourseRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		result = append(result, &dto.CourseResponse{
			Id:              course.Id,
			Title:           course.Title,
			Topic:           course.Topic,
			DurationMinutes: course.DurationMinutes,
			Status:          string(course.Status),
			CreatedAt:       course.CreatedAt,
		})
	}
	return result, nil
}

func (c *courseService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	course, err := uow.CourseRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return err
	}
	if course == nil {
		return nil // Already gone, deleting is idempotent
	}
	return uow.CourseRepository().Delete(ctx, id)
}
