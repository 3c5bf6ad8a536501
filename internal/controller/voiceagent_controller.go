// FILE: internal/controller/voiceagent_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVoiceAgentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type voiceAgentController struct {
	voiceAgentService service.IVoiceAgentService
}

func NewVoiceAgentController(voiceAgentService service.IVoiceAgentService) IVoiceAgentController {
	return &voiceAgentController{
		voiceAgentService: voiceAgentService,
	}
}

func (c *voiceAgentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice-agent/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *voiceAgentController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateVoiceAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.voiceAgentService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create voice agent", res))
}

func (c *voiceAgentController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid voice agent id")
	}

	res, err := c.voiceAgentService.Show(ctx.Context(), userId, id)
	if err != nil {
		return mapServiceError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "voice agent not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show voice agent", res))
}

func (c *voiceAgentController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.voiceAgentService.GetAll(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch voice agents", res))
}

func (c *voiceAgentController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid voice agent id")
	}

	if err := c.voiceAgentService.Delete(ctx.Context(), userId, id); err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete voice agent", nil))
}
