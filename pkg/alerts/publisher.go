package alerts

import (
	"context"
	"time"

	"ai-studio-be/internal/pkg/logger"
	pkgEvents "ai-studio-be/pkg/events"
	pktNats "ai-studio-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts operator-visible ledger alerts. A nil-safe
// implementation must never block a request path.
type Publisher interface {
	// PublishRefundFailed is the escalation for the one condition the
	// orchestrator cannot self-heal: a compensating refund that could not
	// be written. It carries everything needed for manual reconciliation.
	PublishRefundFailed(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, originalErr, refundErr string)

	// PublishCreditsDebited fires once per committed consumption debit, after
	// the balance decrement and ledger entry are durable.
	PublishCreditsDebited(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, newBalance int)

	// PublishCreditsRefunded fires when a compensating refund for a failed
	// guarded action has been written.
	PublishCreditsRefunded(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, reason string)

	PublishPurchaseSettled(ctx context.Context, accountId uuid.UUID, credits int, orderId string)

	PublishBalanceAdjusted(ctx context.Context, accountId uuid.UUID, delta, newBalance int, description string)
}

// NatsPublisher implements Publisher using NATS JetStream.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) PublishRefundFailed(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, originalErr, refundErr string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeRefundWriteFailed,
		Data: map[string]interface{}{
			"account_id":         accountId,
			"cost":               cost,
			"consumption_txn_id": consumptionTxnId,
			"original_error":     originalErr,
			"refund_error":       refundErr,
			"occurred_at":        now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ALERTS", "Failed to publish REFUND_WRITE_FAILED event", map[string]interface{}{
			"error":      err.Error(),
			"account_id": accountId.String(),
		})
	}
}

func (p *NatsPublisher) PublishCreditsDebited(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, newBalance int) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeCreditsDebited,
		Data: map[string]interface{}{
			"account_id":         accountId,
			"cost":               cost,
			"consumption_txn_id": consumptionTxnId,
			"new_balance":        newBalance,
			"occurred_at":        now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ALERTS", "Failed to publish CREDITS_DEBITED event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishCreditsRefunded(ctx context.Context, accountId uuid.UUID, cost int, consumptionTxnId uuid.UUID, reason string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeCreditsRefunded,
		Data: map[string]interface{}{
			"account_id":         accountId,
			"cost":               cost,
			"consumption_txn_id": consumptionTxnId,
			"reason":             reason,
			"occurred_at":        now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ALERTS", "Failed to publish CREDITS_REFUNDED event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishPurchaseSettled(ctx context.Context, accountId uuid.UUID, credits int, orderId string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypePurchaseSettled,
		Data: map[string]interface{}{
			"account_id":  accountId,
			"credits":     credits,
			"order_id":    orderId,
			"occurred_at": now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ALERTS", "Failed to publish PURCHASE_SETTLED event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishBalanceAdjusted(ctx context.Context, accountId uuid.UUID, delta, newBalance int, description string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: pkgEvents.TypeCreditsAdjusted,
		Data: map[string]interface{}{
			"account_id":  accountId,
			"delta":       delta,
			"new_balance": newBalance,
			"description": description,
			"occurred_at": now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ALERTS", "Failed to publish CREDITS_ADJUSTED event", map[string]interface{}{"error": err.Error()})
	}
}
