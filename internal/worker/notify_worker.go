// Package worker consumes queue messages and turns them into WhatsApp
// deliveries: per-transaction notifications and full period reports.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"kas/internal/amqp"
	"kas/internal/core"
	"kas/internal/messenger"
	"kas/internal/services"
)

// NotifyWorker handles queue messages for the notification pipeline.
type NotifyWorker struct {
	reports   *services.ReportService
	sender    messenger.Sender
	recipient string
}

func NewNotifyWorker(reports *services.ReportService, sender messenger.Sender, recipient string) *NotifyWorker {
	return &NotifyWorker{
		reports:   reports,
		sender:    sender,
		recipient: recipient,
	}
}

// HandleTransactionCreated renders and delivers the notification for a
// newly recorded transaction.
func (w *NotifyWorker) HandleTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error {
	slog.InfoContext(ctx, "Processing transaction created message",
		"message_id", msg.MessageID,
		"transaction_id", msg.TransactionID)

	body, err := w.reports.TransactionMessage(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("render transaction message: %w", err)
	}

	if err := w.sender.Send(ctx, w.recipient, body); err != nil {
		return fmt.Errorf("send transaction message: %w", err)
	}

	slog.InfoContext(ctx, "Transaction notification delivered",
		"transaction_id", msg.TransactionID,
		"bytes", len(body))
	return nil
}

// HandleReportRequested generates, archives and delivers a period report.
func (w *NotifyWorker) HandleReportRequested(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	slog.InfoContext(ctx, "Processing report request message",
		"message_id", msg.MessageID,
		"start", msg.StartDate,
		"end", msg.EndDate)

	period, err := core.ParsePeriod(msg.StartDate, msg.EndDate)
	if err != nil {
		return fmt.Errorf("parse report period: %w", err)
	}

	req := services.PeriodRequest{
		Period:               period,
		BookID:               msg.BookID,
		OrganizationName:     msg.OrganizationName,
		OrganizationLocation: msg.OrganizationLocation,
	}
	if msg.StartBalanceCents != nil {
		req.StartBalance = &core.Money{Cents: *msg.StartBalanceCents}
	}

	rep, err := w.reports.PeriodReport(ctx, req)
	if err != nil {
		return fmt.Errorf("generate period report: %w", err)
	}

	if err := w.sender.Send(ctx, w.recipient, rep.Body); err != nil {
		return fmt.Errorf("send period report: %w", err)
	}

	slog.InfoContext(ctx, "Period report delivered",
		"report_id", rep.ID,
		"start", msg.StartDate,
		"end", msg.EndDate,
		"ending_balance_cents", rep.EndingBalance.Cents)
	return nil
}
