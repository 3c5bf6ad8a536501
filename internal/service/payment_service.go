// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"errors"
	"fmt"
	"time"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/pkg/alerts"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/redis/go-redis/v9"
)

type IPaymentService interface {
	GetPacks(ctx context.Context) []*dto.CreditPackResponse
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory    unitofwork.RepositoryFactory
	creditService ICreditService
	cfg           config.PaymentConfig
	clientURL     string
	environment   string
	redisClient   *redis.Client
	alerts        alerts.Publisher
	logger        logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	creditService ICreditService,
	cfg config.PaymentConfig,
	clientURL string,
	environment string,
	redisClient *redis.Client,
	alertPublisher alerts.Publisher,
	sysLogger logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:    uowFactory,
		creditService: creditService,
		cfg:           cfg,
		clientURL:     clientURL,
		environment:   environment,
		redisClient:   redisClient,
		alerts:        alertPublisher,
		logger:        sysLogger,
	}
}

func (s *paymentService) GetPacks(ctx context.Context) []*dto.CreditPackResponse {
	return []*dto.CreditPackResponse{
		{Id: "pack_small", Credits: s.cfg.SmallPackCredits, PriceIDR: s.cfg.SmallPackPriceIDR},
		{Id: "pack_large", Credits: s.cfg.LargePackCredits, PriceIDR: s.cfg.LargePackPriceIDR},
	}
}

func (s *paymentService) packFor(packId string) (credits int, price int64, ok bool) {
	switch packId {
	case "pack_small":
		return s.cfg.SmallPackCredits, s.cfg.SmallPackPriceIDR, true
	case "pack_large":
		return s.cfg.LargePackCredits, s.cfg.LargePackPriceIDR, true
	}
	return 0, 0, false
}

// Checkout records a pending purchase, then asks Midtrans for a Snap token.
// The purchase id doubles as the payment order id so the webhook can map
// the notification back without extra bookkeeping.
func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	credits, price, ok := s.packFor(req.PackId)
	if !ok {
		return nil, &InvalidActionParametersError{Reason: fmt.Sprintf("unknown credit pack %q", req.PackId)}
	}

	purchase := &entity.CreditPurchase{
		Id:        uuid.New(),
		AccountId: userId,
		PackId:    req.PackId,
		Credits:   credits,
		AmountIDR: price,
		Status:    entity.PurchaseStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PurchaseRepository().Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	// External call after the local row exists, never inside a DB tx.
	var sClient snap.Client
	env := midtrans.Sandbox
	if s.environment == "production" {
		env = midtrans.Production
	}
	sClient.New(s.cfg.MidtransServerKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  purchase.Id.String(),
			GrossAmt: price,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/app/credits?payment=success", s.clientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Name,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.PackId,
				Price: price,
				Qty:   1,
				Name:  fmt.Sprintf("%d credits", credits),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &dto.CheckoutResponse{
		OrderId:         purchase.Id,
		SnapToken:       snapResp.Token,
		SnapRedirectUrl: snapResp.RedirectURL,
	}, nil
}

// webhookSignature is Midtrans's notification signature:
// SHA512(order_id + status_code + gross_amount + server_key).
func webhookSignature(orderId, statusCode, grossAmount, serverKey string) string {
	input := orderId + statusCode + grossAmount + serverKey
	return fmt.Sprintf("%x", sha512.Sum512([]byte(input)))
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.cfg.MidtransServerKey == "" {
		return errors.New("payment server key not configured")
	}

	expected := webhookSignature(req.OrderId, req.StatusCode, req.GrossAmount, s.cfg.MidtransServerKey)
	if req.SignatureKey != expected {
		s.logger.Warn("PAYMENT", "Webhook signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return errors.New("invalid signature")
	}

	orderId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return fmt.Errorf("invalid order id format: %s", req.OrderId)
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if req.FraudStatus == "challenge" || req.FraudStatus == "deny" {
			s.logger.Warn("PAYMENT", "Settlement held on fraud status", map[string]interface{}{
				"order_id":     req.OrderId,
				"fraud_status": req.FraudStatus,
			})
			return nil
		}
		return s.settle(ctx, orderId)
	case "deny", "cancel", "expire":
		return s.fail(ctx, orderId)
	case "pending":
		return nil
	default:
		s.logger.Warn("PAYMENT", "Unknown transaction status ignored", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}
}

// settle credits the purchased pack exactly once. A redis SETNX fast path
// absorbs notification replays; the durable guard is the conditional
// pending->settled transition, committed in the same transaction as the
// PURCHASE ledger entry so a crash can never separate the two.
func (s *paymentService) settle(ctx context.Context, orderId uuid.UUID) error {
	if s.redisClient != nil {
		key := "payment:settled:" + orderId.String()
		acquired, err := s.redisClient.SetNX(ctx, key, 1, 24*time.Hour).Result()
		if err != nil {
			// Redis down degrades to the DB guard only.
			s.logger.Warn("PAYMENT", "Redis idempotency check unavailable", map[string]interface{}{"error": err.Error()})
		} else if !acquired {
			return nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	purchase, err := uow.PurchaseRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return err
	}
	if purchase == nil {
		return fmt.Errorf("purchase not found: %s", orderId)
	}

	// Only the caller whose conditional update flips pending to settled gets
	// to credit. Replays and concurrent notifications see zero rows affected.
	won, err := uow.PurchaseRepository().TransitionStatus(ctx, orderId, entity.PurchaseStatusPending, entity.PurchaseStatusSettled)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	newBalance, err := s.creditService.ApplyPurchase(ctx, uow, purchase.AccountId, purchase.Credits, orderId,
		fmt.Sprintf("credit pack purchase: %s", purchase.PackId))
	if err != nil {
		return fmt.Errorf("apply purchase credits: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}
	s.creditService.InvalidateBalance(purchase.AccountId)

	s.logger.Info("PAYMENT", "Purchase settled", map[string]interface{}{
		"order_id":    orderId.String(),
		"account_id":  purchase.AccountId.String(),
		"credits":     purchase.Credits,
		"new_balance": newBalance,
	})
	s.alerts.PublishPurchaseSettled(ctx, purchase.AccountId, purchase.Credits, orderId.String())
	return nil
}

func (s *paymentService) fail(ctx context.Context, orderId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	// Pending is the only state that may fail; a settled purchase stays
	// settled even if a late deny arrives.
	_, err := uow.PurchaseRepository().TransitionStatus(ctx, orderId, entity.PurchaseStatusPending, entity.PurchaseStatusFailed)
	return err
}
