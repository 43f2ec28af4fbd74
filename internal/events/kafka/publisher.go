package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models"
	"github.com/sheikh-saqib/accounts-ledger-service/internal/models/events"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends one TransferNotification per notified account, keyed by
// account id so a party's notifications stay ordered within a partition.
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	})
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, now: time.Now}
}

func (p *Publisher) NotifyAboutTransfer(ctx context.Context, account models.Account, message string) error {
	event := events.TransferNotification{
		EventID:    uuid.New().String(),
		AccountID:  account.ID,
		Balance:    account.Balance,
		Message:    message,
		OccurredAt: p.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode transfer notification: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(account.ID),
		Value: data,
	}); err != nil {
		return fmt.Errorf("publish transfer notification: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ interfaces.Notifier = (*Publisher)(nil)
