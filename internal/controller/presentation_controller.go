// FILE: internal/controller/presentation_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPresentationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type presentationController struct {
	presentationService service.IPresentationService
}

func NewPresentationController(presentationService service.IPresentationService) IPresentationController {
	return &presentationController{
		presentationService: presentationService,
	}
}

func (c *presentationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/presentation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *presentationController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreatePresentationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.presentationService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create presentation", res))
}

func (c *presentationController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid presentation id")
	}

	res, err := c.presentationService.Show(ctx.Context(), userId, id)
	if err != nil {
		return mapServiceError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "presentation not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show presentation", res))
}

func (c *presentationController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.presentationService.GetAll(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch presentations", res))
}

func (c *presentationController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid presentation id")
	}

	if err := c.presentationService.Delete(ctx.Context(), userId, id); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete presentation", nil))
}
