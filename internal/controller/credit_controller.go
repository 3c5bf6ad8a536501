// FILE: internal/controller/credit_controller.go
package controller

import (
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/service"
	"ai-studio-be/pkg/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICreditController interface {
	RegisterRoutes(r fiber.Router)
	GetBalance(ctx *fiber.Ctx) error
	GetTransactions(ctx *fiber.Ctx) error
	PriceAction(ctx *fiber.Ctx) error
	AdminAdjust(ctx *fiber.Ctx) error
}

type creditController struct {
	creditService service.ICreditService
}

func NewCreditController(creditService service.ICreditService) ICreditController {
	return &creditController{
		creditService: creditService,
	}
}

func (c *creditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/credit/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("balance", c.GetBalance)
	h.Get("transactions", c.GetTransactions)
	h.Post("price", c.PriceAction)
	h.Post("admin/adjust", serverutils.AdminOnly, c.AdminAdjust)
}

func (c *creditController) GetBalance(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	balance, err := c.creditService.GetBalance(ctx.Context(), userId)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch balance", dto.BalanceResponse{
		AccountId: userId,
		Balance:   balance,
	}))
}

func (c *creditController) GetTransactions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	limit := ctx.QueryInt("limit", 20)

	res, err := c.creditService.ListRecentTransactions(ctx.Context(), userId, limit)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success fetch transactions", res))
}

// PriceAction is a dry-run: it quotes the cost of an action without touching
// the ledger.
func (c *creditController) PriceAction(ctx *fiber.Ctx) error {
	var req dto.PriceActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	cost, err := c.creditService.PriceAction(pricing.ActionKind(req.Kind), req.Duration)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success price action", dto.PriceActionResponse{
		Kind: req.Kind,
		Cost: cost,
	}))
}

func (c *creditController) AdminAdjust(ctx *fiber.Ctx) error {
	var req dto.AdminAdjustBalanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	newBalance, err := c.creditService.AdjustBalanceAdmin(ctx.Context(), req.AccountId, req.Delta, req.Description)
	if err != nil {
		return mapServiceError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success adjust balance", dto.AdminAdjustBalanceResponse{
		AccountId:  req.AccountId,
		NewBalance: newBalance,
	}))
}
