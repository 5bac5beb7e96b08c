package notifier

import (
	"context"
	"encoding/json"

	"github.com/Astemirdum/library-circulation/pkg/kafka"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type KafkaSender struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSender(producer sarama.SyncProducer) *KafkaSender {
	return &KafkaSender{
		producer: producer,
		topic:    kafka.NotificationTopic,
	}
}

// Send publishes msg keyed by recipient, so one user's notifications stay ordered.
func (s *KafkaSender) Send(_ context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(msg.UserEmail),
		Value: sarama.ByteEncoder(data),
	})
	return errors.Wrapf(err, "publish %s", msg.ID)
}

// LogSender writes notifications to the log. Used when no brokers are configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("notifications")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("notification",
		zap.String("id", msg.ID),
		zap.String("kind", string(msg.Kind)),
		zap.String("user", msg.UserEmail),
		zap.ByteString("payload", msg.Payload))
	return nil
}
