package services

import (
	"context"
	"fmt"
	"log/slog"

	"kas/internal/amqp"
	"kas/internal/core"
	"kas/internal/ledger"
)

// LedgerService orchestrates transaction writes across storage and AMQP.
type LedgerService struct {
	writer     ledger.TransactionWriter
	reader     ledger.TransactionReader
	amqpClient *amqp.Client
}

func NewLedgerService(writer ledger.TransactionWriter, reader ledger.TransactionReader, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		writer:     writer,
		reader:     reader,
		amqpClient: amqpClient,
	}
}

// CreateTransaction saves a transaction and publishes a notification
// message. Publish failures are logged but do not fail the request; the
// transaction is already recorded.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	id, err := s.writer.Append(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publishCreated(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction created message",
			"id", id, "error", err)
	}

	return id, nil
}

// GetTransaction fetches a stored transaction by id.
func (s *LedgerService) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.reader.Get(ctx, id)
}

func (s *LedgerService) publishCreated(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping notification message")
		return nil
	}
	return s.amqpClient.PublishTransactionCreated(ctx, id)
}
