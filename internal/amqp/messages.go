package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message type values, carried in the AMQP Type property so one queue can
// serve both kinds.
const (
	TypeTransactionCreated = "transaction.created"
	TypeReportRequested    = "report.requested"
)

// TransactionCreatedMessage tells the worker a transaction was recorded.
// Only the id travels; the worker fetches the row and formats the
// WhatsApp notification itself.
type TransactionCreatedMessage struct {
	MessageID     string    `json:"message_id"`
	TransactionID int64     `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(transactionID int64) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		MessageID:     uuid.NewString(),
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ReportRequestMessage asks the worker to render and send a period report.
// Dates are wire-format strings; StartBalanceCents nil means no starting
// balance line.
type ReportRequestMessage struct {
	MessageID            string    `json:"message_id"`
	StartDate            string    `json:"start_date"`
	EndDate              string    `json:"end_date"`
	StartBalanceCents    *int64    `json:"start_balance_cents,omitempty"`
	OrganizationName     string    `json:"organization_name,omitempty"`
	OrganizationLocation string    `json:"organization_location,omitempty"`
	BookID               int64     `json:"book_id,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

func NewReportRequestMessage(startDate, endDate string) *ReportRequestMessage {
	return &ReportRequestMessage{
		MessageID: uuid.NewString(),
		StartDate: startDate,
		EndDate:   endDate,
		Timestamp: time.Now(),
	}
}

func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (m *ReportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportRequestMessageFromJSON(data []byte) (*ReportRequestMessage, error) {
	var msg ReportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
