package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type catalogApplier func(ctx context.Context, ev model.CatalogEvent) (model.Book, error)

// Consumer applies catalog edits published on the catalog topic.
type Consumer struct {
	apply catalogApplier
	log   *zap.Logger
}

func NewConsumer(apply catalogApplier, log *zap.Logger) *Consumer {
	return &Consumer{
		apply: apply,
		log:   log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var ev model.CatalogEvent
			if err := json.Unmarshal(message.Value, &ev); err != nil {
				consumer.log.Error("bad catalog event", zap.Error(err), zap.ByteString("value", message.Value))
				session.MarkMessage(message, "")
				continue
			}

			if _, err := consumer.apply(session.Context(), ev); err != nil {
				if errs.HTTPStatus(err) >= http.StatusInternalServerError {
					// the offset stays on this message; ending the claim ends the
					// session and the group re-joins from the last committed offset
					consumer.log.Error("apply catalog event", zap.String("book", ev.BookID), zap.Error(err))
					return errors.Wrapf(err, "catalog event %s at offset %d", ev.BookID, message.Offset)
				}
				consumer.log.Warn("catalog event rejected", zap.String("book", ev.BookID), zap.Error(err))
			}

			consumer.log.Debug("message claimed",
				zap.String("topic", message.Topic),
				zap.Int64("offset", message.Offset),
				zap.Time("timestamp", message.Timestamp))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
