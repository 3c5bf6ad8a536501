// FILE: internal/controller/error_mapping.go
package controller

import (
	"errors"

	"ai-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// mapServiceError translates the credit service error taxonomy into HTTP
// errors. Anything unrecognized falls through to the generic 500 handler.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	var invalid *service.InvalidActionParametersError
	if errors.As(err, &invalid) {
		return fiber.NewError(fiber.StatusBadRequest, invalid.Error())
	}

	var insufficient *service.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		return fiber.NewError(fiber.StatusPaymentRequired, insufficient.Error())
	}

	var debitFailed *service.DebitFailedError
	if errors.As(err, &debitFailed) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "credit debit could not be completed, no credits were charged")
	}

	var actionFailed *service.GuardedActionFailedError
	if errors.As(err, &actionFailed) {
		return fiber.NewError(fiber.StatusBadGateway, "generation failed, charged credits were refunded")
	}

	var refundFailed *service.RefundFailedError
	if errors.As(err, &refundFailed) {
		// The consumption entry id is the operator's reconciliation handle.
		return fiber.NewError(fiber.StatusInternalServerError,
			"generation failed and the refund could not be written, support has been notified (reference "+refundFailed.ConsumptionTxnId.String()+")")
	}

	return err
}
