// Package amqp connects the web process and the worker: transaction
// notifications and report requests travel over one durable queue.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (c *Client) publish(ctx context.Context, msgType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Type:         msgType,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// PublishTransactionCreated publishes a notification message for a newly
// recorded transaction.
func (c *Client) PublishTransactionCreated(ctx context.Context, transactionID int64) error {
	msg := NewTransactionCreatedMessage(transactionID)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, TypeTransactionCreated, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published transaction created message",
		"message_id", msg.MessageID,
		"transaction_id", transactionID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishReportRequest publishes a period report request.
func (c *Client) PublishReportRequest(ctx context.Context, msg *ReportRequestMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, TypeReportRequested, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published report request message",
		"message_id", msg.MessageID,
		"start", msg.StartDate,
		"end", msg.EndDate,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// ConsumeMessages consumes from the queue until ctx is done, dispatching
// on the message type. Handler errors nack with requeue; unknown or
// malformed messages are dropped without requeue.
func (c *Client) ConsumeMessages(
	ctx context.Context,
	onTransactionCreated func(context.Context, *TransactionCreatedMessage) error,
	onReportRequested func(context.Context, *ReportRequestMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}
			c.dispatch(ctx, delivery, onTransactionCreated, onReportRequested)
		}
	}
}

func (c *Client) dispatch(
	ctx context.Context,
	delivery amqp091.Delivery,
	onTransactionCreated func(context.Context, *TransactionCreatedMessage) error,
	onReportRequested func(context.Context, *ReportRequestMessage) error,
) {
	switch delivery.Type {
	case TypeTransactionCreated:
		msg, err := TransactionCreatedMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal message", "type", delivery.Type, "error", err)
			delivery.Nack(false, false) // reject and don't requeue
			return
		}
		if err := onTransactionCreated(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to handle message",
				"type", delivery.Type,
				"message_id", msg.MessageID,
				"transaction_id", msg.TransactionID,
				"error", err)
			delivery.Nack(false, true) // reject and requeue
			return
		}
		delivery.Ack(false)
	case TypeReportRequested:
		msg, err := ReportRequestMessageFromJSON(delivery.Body)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to unmarshal message", "type", delivery.Type, "error", err)
			delivery.Nack(false, false)
			return
		}
		if err := onReportRequested(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to handle message",
				"type", delivery.Type,
				"message_id", msg.MessageID,
				"start", msg.StartDate,
				"end", msg.EndDate,
				"error", err)
			delivery.Nack(false, true)
			return
		}
		delivery.Ack(false)
	default:
		slog.WarnContext(ctx, "Unknown message type, dropping", "type", delivery.Type)
		delivery.Nack(false, false)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
