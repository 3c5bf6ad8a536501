// FILE: internal/service/credit_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/contract"
	"ai-studio-be/internal/repository/memory"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/pkg/alerts"
	"ai-studio-be/pkg/pricing"

	"github.com/google/uuid"
)

// GuardedAction is the caller-supplied step between debit and commit: create
// the course row, the voice-agent row, and so on. It returns the created
// resource id. Its success or failure is the sole input to the commit/refund
// branch.
type GuardedAction func(ctx context.Context) (uuid.UUID, error)

// ExecutionResult reports a committed priced action.
type ExecutionResult struct {
	ResourceId       uuid.UUID
	Cost             int
	RemainingBalance int
	ConsumptionTxnId uuid.UUID
}

type ICreditService interface {
	// PriceAction is a cost preview with no side effects.
	PriceAction(kind pricing.ActionKind, duration int) (int, error)

	// ExecutePricedAction runs one debit/perform/resolve cycle:
	// price -> debit (atomic balance + ledger write) -> guarded action ->
	// commit or compensating refund.
	ExecutePricedAction(ctx context.Context, accountId uuid.UUID, kind pricing.ActionKind, duration int, description string, action GuardedAction) (*ExecutionResult, error)

	GetBalance(ctx context.Context, accountId uuid.UUID) (int, error)
	ListRecentTransactions(ctx context.Context, accountId uuid.UUID, limit int) ([]*dto.TransactionView, error)

	// AdjustBalanceAdmin writes a manual ADJUSTMENT through the same atomic
	// balance+ledger step, bypassing cost calculation.
	AdjustBalanceAdmin(ctx context.Context, accountId uuid.UUID, delta int, description string) (int, error)

	// ApplyPurchase credits a settled credit-pack purchase as a PURCHASE entry.
	// It writes through the caller's already-begun unit of work so the credit
	// lands in the same transaction as the purchase status transition; the
	// caller commits and then calls InvalidateBalance.
	ApplyPurchase(ctx context.Context, uow unitofwork.UnitOfWork, accountId uuid.UUID, credits int, orderId uuid.UUID, description string) (int, error)

	// InvalidateBalance drops the cached balance so the next read goes to the
	// store. Callers that commit balance writes outside this service use it.
	InvalidateBalance(accountId uuid.UUID)
}

// adjustMaxRetries bounds retries of the atomic balance+ledger step on
// transient store errors before the attempt is surfaced as DebitFailed.
const adjustMaxRetries = 3

type creditService struct {
	uowFactory     unitofwork.RepositoryFactory
	balanceCache   *memory.BalanceCache
	patchPublisher IPublisherService
	alerts         alerts.Publisher
	logger         logger.ILogger
}

func NewCreditService(
	uowFactory unitofwork.RepositoryFactory,
	balanceCache *memory.BalanceCache,
	patchPublisher IPublisherService,
	alertPublisher alerts.Publisher,
	sysLogger logger.ILogger,
) ICreditService {
	return &creditService{
		uowFactory:     uowFactory,
		balanceCache:   balanceCache,
		patchPublisher: patchPublisher,
		alerts:         alertPublisher,
		logger:         sysLogger,
	}
}

func (s *creditService) PriceAction(kind pricing.ActionKind, duration int) (int, error) {
	rule, ok := pricing.RuleFor(kind)
	if !ok {
		return 0, &InvalidActionParametersError{Reason: fmt.Sprintf("unknown action kind %q", kind)}
	}
	if !rule.ValidDuration(duration) {
		return 0, &InvalidActionParametersError{
			Reason: fmt.Sprintf("duration %d outside allowed range %d-%d", duration, rule.MinDuration, rule.MaxDuration),
		}
	}
	return rule.Cost(duration), nil
}

func (s *creditService) ExecutePricedAction(ctx context.Context, accountId uuid.UUID, kind pricing.ActionKind, duration int, description string, action GuardedAction) (*ExecutionResult, error) {
	// PRICED
	cost, err := s.PriceAction(kind, duration)
	if err != nil {
		return nil, err
	}

	// DEBITED: the balance decrement and the CONSUMPTION entry commit as one
	// storage transaction, then the row lock is released. The debit must be
	// fully resolved before the guarded action runs because the action's
	// duration is unbounded.
	consumption := &entity.CreditTransaction{
		AccountId:   accountId,
		Kind:        entity.CreditKindConsumption,
		Amount:      -cost,
		Description: description,
	}
	newBalance, err := s.atomicAdjust(ctx, accountId, -cost, consumption)
	if err != nil {
		return nil, err
	}

	// Drop rather than overwrite the cached balance: a concurrent writer's
	// Set could land after ours and pin its older value for a full TTL.
	s.balanceCache.Invalidate(accountId)
	s.alerts.PublishCreditsDebited(ctx, accountId, cost, consumption.Id, newBalance)

	// Perform the guarded action. The caller's context is passed through so
	// the action can observe cancellation, but the debit is resolved either
	// way: a cancelled action takes the refund branch below on a context
	// that ignores the cancellation. A debited-and-abandoned state is never
	// left standing.
	resourceId, actionErr := action(ctx)
	if actionErr == nil {
		// COMMITTED: back-fill the ledger entry's related entity id off the
		// request path. Failure there is logged, never fatal.
		s.publishPatch(consumption.Id, resourceId)
		return &ExecutionResult{
			ResourceId:       resourceId,
			Cost:             cost,
			RemainingBalance: newBalance,
			ConsumptionTxnId: consumption.Id,
		}, nil
	}

	// REFUNDING: compensate on a cancellation-immune context.
	refundCtx := context.WithoutCancel(ctx)
	refund := &entity.CreditTransaction{
		AccountId:       accountId,
		Kind:            entity.CreditKindRefund,
		Amount:          cost,
		RelatedEntityId: &consumption.Id,
		Description:     fmt.Sprintf("refund for failed action: %s", description),
	}
	_, refundErr := s.atomicAdjust(refundCtx, accountId, cost, refund)
	if refundErr != nil {
		// REFUND FAILED: the one condition we cannot self-heal. Log with
		// enough context for manual reconciliation and raise an operator
		// alert; never report success.
		s.logger.Error("CREDITS", "Refund write failed after guarded action failure", map[string]interface{}{
			"account_id":         accountId.String(),
			"cost":               cost,
			"consumption_txn_id": consumption.Id.String(),
			"action_error":       actionErr.Error(),
			"refund_error":       refundErr.Error(),
		})
		s.alerts.PublishRefundFailed(refundCtx, accountId, cost, consumption.Id, actionErr.Error(), refundErr.Error())
		return nil, &RefundFailedError{
			AccountId:        accountId,
			Cost:             cost,
			ConsumptionTxnId: consumption.Id,
			OriginalErr:      actionErr,
			Err:              refundErr,
		}
	}

	// REFUNDED
	s.balanceCache.Invalidate(accountId)
	s.alerts.PublishCreditsRefunded(refundCtx, accountId, cost, consumption.Id, actionErr.Error())
	return nil, &GuardedActionFailedError{Err: actionErr, Refunded: true}
}

// atomicAdjust applies a balance delta and appends the matching ledger entry
// in a single storage transaction, retrying transient failures. On success
// txn.Id carries the appended entry id.
func (s *creditService) atomicAdjust(ctx context.Context, accountId uuid.UUID, delta int, txn *entity.CreditTransaction) (int, error) {
	var lastErr error
	for attempt := 0; attempt < adjustMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
		}

		newBalance, err := s.adjustOnce(ctx, accountId, delta, txn)
		if err == nil {
			return newBalance, nil
		}

		// Business rejections are not retriable.
		var insufficient *InsufficientCreditsError
		if errors.As(err, &insufficient) {
			return 0, err
		}
		lastErr = err
	}
	return 0, &DebitFailedError{Err: lastErr}
}

func (s *creditService) adjustOnce(ctx context.Context, accountId uuid.UUID, delta int, txn *entity.CreditTransaction) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	repo := uow.CreditRepository()
	if _, err := repo.GetOrCreateAccount(ctx, accountId); err != nil {
		return 0, fmt.Errorf("account lookup: %w", err)
	}

	newBalance, err := repo.AdjustBalance(ctx, accountId, delta)
	if err != nil {
		if errors.Is(err, contract.ErrInsufficientBalance) {
			// newBalance carries the untouched balance here.
			return 0, &InsufficientCreditsError{Required: -delta, Available: newBalance}
		}
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	if _, err := repo.AppendTransaction(ctx, txn); err != nil {
		return 0, fmt.Errorf("ledger write: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return newBalance, nil
}

func (s *creditService) publishPatch(transactionId, relatedEntityId uuid.UUID) {
	msg := dto.PatchLedgerEntityMessage{
		TransactionId:   transactionId,
		RelatedEntityId: relatedEntityId,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("CREDITS", "Failed to marshal ledger patch message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.patchPublisher.Publish(context.Background(), payload); err != nil {
		s.logger.Warn("CREDITS", "Failed to publish ledger patch message", map[string]interface{}{
			"transaction_id": transactionId.String(),
			"error":          err.Error(),
		})
	}
}

func (s *creditService) GetBalance(ctx context.Context, accountId uuid.UUID) (int, error) {
	if balance, found := s.balanceCache.Get(accountId); found {
		return balance, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, err := uow.CreditRepository().GetOrCreateAccount(ctx, accountId)
	if err != nil {
		return 0, fmt.Errorf("account lookup: %w", err)
	}
	s.balanceCache.Set(accountId, account.Balance)
	return account.Balance, nil
}

func (s *creditService) ListRecentTransactions(ctx context.Context, accountId uuid.UUID, limit int) ([]*dto.TransactionView, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	txns, err := uow.CreditRepository().FindTransactions(ctx,
		specification.ByAccount{AccountID: accountId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.TransactionView, len(txns))
	for i, t := range txns {
		views[i] = &dto.TransactionView{
			Id:              t.Id,
			Kind:            string(t.Kind),
			Amount:          t.Amount,
			RelatedEntityId: t.RelatedEntityId,
			Description:     t.Description,
			CreatedAt:       t.CreatedAt,
		}
	}
	return views, nil
}

func (s *creditService) AdjustBalanceAdmin(ctx context.Context, accountId uuid.UUID, delta int, description string) (int, error) {
	if delta == 0 {
		return 0, &InvalidActionParametersError{Reason: "delta must be non-zero"}
	}

	txn := &entity.CreditTransaction{
		AccountId:   accountId,
		Kind:        entity.CreditKindAdjustment,
		Amount:      delta,
		Description: description,
	}
	newBalance, err := s.atomicAdjust(ctx, accountId, delta, txn)
	if err != nil {
		return 0, err
	}

	s.balanceCache.Invalidate(accountId)
	s.alerts.PublishBalanceAdjusted(ctx, accountId, delta, newBalance, description)
	return newBalance, nil
}

func (s *creditService) ApplyPurchase(ctx context.Context, uow unitofwork.UnitOfWork, accountId uuid.UUID, credits int, orderId uuid.UUID, description string) (int, error) {
	if credits <= 0 {
		return 0, &InvalidActionParametersError{Reason: "purchase credits must be positive"}
	}

	// No Begin, no Commit, no retries here: the caller owns the transaction
	// so the purchase status flip and this credit land or roll back together.
	repo := uow.CreditRepository()
	if _, err := repo.GetOrCreateAccount(ctx, accountId); err != nil {
		return 0, fmt.Errorf("account lookup: %w", err)
	}

	txn := &entity.CreditTransaction{
		AccountId:       accountId,
		Kind:            entity.CreditKindPurchase,
		Amount:          credits,
		RelatedEntityId: &orderId,
		Description:     description,
	}
	newBalance, err := repo.AdjustBalance(ctx, accountId, credits)
	if err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}
	if _, err := repo.AppendTransaction(ctx, txn); err != nil {
		return 0, fmt.Errorf("ledger write: %w", err)
	}
	return newBalance, nil
}

func (s *creditService) InvalidateBalance(accountId uuid.UUID) {
	s.balanceCache.Invalidate(accountId)
}
