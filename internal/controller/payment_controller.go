// FILE: internal/controller/payment_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	GetPacks(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	paymentService service.IPaymentService
}

func NewPaymentController(paymentService service.IPaymentService) IPaymentController {
	return &paymentController{paymentService: paymentService}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment/v1")
	// The webhook authenticates with its signature, not a user token.
	h.Post("midtrans/notification", c.Webhook)
	h.Get("packs", c.GetPacks)
	h.Post("checkout", serverutils.JwtMiddleware, c.Checkout)
}

func (c *paymentController) GetPacks(ctx *fiber.Ctx) error {
	res := c.paymentService.GetPacks(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success fetch credit packs", res))
}

func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paymentService.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create checkout", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification payload")
	}

	if err := c.paymentService.HandleNotification(ctx.Context(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("OK", nil))
}
