package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"kas/internal/core"
	"kas/internal/ledger"
)

type createTransactionRequest struct {
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	InOut         int    `json:"in_out"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Partner       string `json:"partner"`
	PaymentMethod string `json:"payment_method"`
	BookID        int64  `json:"book_id"`
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	AmountCents   int64  `json:"amount_cents"`
	Amount        string `json:"amount"`
	InOut         int64  `json:"in_out"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	Partner       string `json:"partner,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	BookID        int64  `json:"book_id,omitempty"`
}

func (s *Server) transactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Date:          t.Date.String(),
		AmountCents:   t.Amount.Cents,
		Amount:        s.format.WithSymbol(t.Amount),
		InOut:         t.Direction.InOut(),
		Description:   t.Description,
		Category:      t.CategoryName,
		Partner:       t.PartnerName,
		PaymentMethod: t.PaymentMethodName,
		BookID:        t.BookID,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date: expected YYYY-MM-DD")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	t := core.Transaction{
		Date:              date,
		Amount:            core.Money{Cents: cents},
		Direction:         core.Direction(req.InOut),
		Description:       sanitizeInput(req.Description),
		CategoryName:      sanitizeInput(req.Category),
		PartnerName:       sanitizeInput(req.Partner),
		PaymentMethodName: sanitizeInput(req.PaymentMethod),
		BookID:            req.BookID,
	}
	if err := t.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.ledgerSvc.CreateTransaction(r.Context(), t)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction create error", "error", err, "date", t.Date.String(), "amount_cents", t.Amount.Cents)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}

	t.ID = id
	writeJSON(w, http.StatusCreated, s.transactionResponse(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	period, err := core.ParsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid period: expected start and end as YYYY-MM-DD with start <= end")
		return
	}
	bookID := queryInt64(r, "book_id", 0)

	txs, err := s.backend.ListPeriod(r.Context(), period, bookID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error", "error", err, "start", period.Start.String(), "end", period.End.String())
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, s.transactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransactionMessage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid transaction id")
		return
	}

	body, err := s.reportSvc.TransactionMessage(r.Context(), id)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction message error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to render message")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
