// FILE: internal/service/patch_consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"ai-studio-be/internal/dto"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPatchConsumerService interface {
	Consume(ctx context.Context) error
}

// patchConsumerService back-fills related_entity_id on consumption entries
// off the request path. The patch is idempotent at the store, so redelivery
// after a Nack is safe.
type patchConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPatchConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
) IPatchConsumerService {
	return &patchConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     sysLogger,
	}
}

func (cs *patchConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *patchConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PatchLedgerEntityMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("LEDGER_PATCH", "Failed to unmarshal patch message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed payloads never become valid on retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	err := uow.CreditRepository().PatchRelatedEntity(ctx, payload.TransactionId, payload.RelatedEntityId)
	if err != nil {
		cs.logger.Warn("LEDGER_PATCH", "Failed to patch ledger entry, will retry", map[string]interface{}{
			"transaction_id": payload.TransactionId.String(),
			"error":          err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Debug("LEDGER_PATCH", "Ledger entry patched", map[string]interface{}{
		"transaction_id":    payload.TransactionId.String(),
		"related_entity_id": payload.RelatedEntityId.String(),
	})
	msg.Ack()
}
