package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/aws"
	"github.com/NaylinHla/Dunder-Mifflin-Infinity/internal/orders"
)

// Processor consumes order-placed messages and confirms the orders.
type Processor struct {
	orderStore *orders.Store
	metrics    *aws.Metrics
	logger     zerolog.Logger
}

// NewProcessor wires the processor against the orders table.
func NewProcessor(db aws.DynamoDBAPI, ordersTable string, metrics *aws.Metrics, logger zerolog.Logger) *Processor {
	return &Processor{
		orderStore: orders.NewStore(db, ordersTable),
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle receives an SQS batch event and processes each message. A returned
// error makes the runtime retry the batch; exhausted retries go to the DLQ.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.logger.Error().Err(err).Str("message_id", rec.MessageId).Msg("worker error")
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg aws.OrderPlacedMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.logger.Info().
		Str("order_id", msg.OrderID).
		Str("correlation_id", msg.CorrelationID).
		Msg("processing order")

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("fetch order: %w", err)
	}
	if order == nil {
		// should never happen, let the message reach the DLQ
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	err = p.orderStore.UpdateStatus(ctx, msg.OrderID, orders.StatusPending, orders.StatusConfirmed)
	if errors.Is(err, orders.ErrStatusMismatch) {
		// already moved past pending: duplicates are swallowed, a cancelled
		// order is simply skipped
		current, getErr := p.orderStore.Get(ctx, msg.OrderID)
		if getErr != nil || current == nil {
			return fmt.Errorf("re-fetch order %s after status mismatch: %v", msg.OrderID, getErr)
		}
		switch current.Status {
		case orders.StatusConfirmed, orders.StatusShipped, orders.StatusDelivered:
			p.logger.Info().Str("order_id", msg.OrderID).Str("status", current.Status).Msg("order already confirmed")
			return nil
		case orders.StatusCancelled:
			p.logger.Info().Str("order_id", msg.OrderID).Msg("order cancelled before confirmation, skipping")
			return nil
		default:
			return fmt.Errorf("unexpected status for order %s: %s", msg.OrderID, current.Status)
		}
	}
	if err != nil {
		return fmt.Errorf("confirm order %s: %w", msg.OrderID, err)
	}

	if p.metrics != nil {
		if err := p.metrics.Count(ctx, aws.MetricOrdersConfirmed, 1); err != nil {
			p.logger.Warn().Err(err).Msg("metric emit failed")
		}
	}

	p.logger.Info().Str("order_id", msg.OrderID).Msg("order confirmed")
	return nil
}
