package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kas/internal/core"
	"kas/internal/ledger"
	"kas/internal/services"
)

type balanceResponse struct {
	BalanceCents int64  `json:"balance_cents"`
	Balance      string `json:"balance"`
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	q := ledger.BalanceQuery{
		Category: sanitizeInput(r.URL.Query().Get("category")),
		BookID:   queryInt64(r, "book_id", 0),
	}

	if v := strings.TrimSpace(r.URL.Query().Get("as_of")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid as_of date: expected YYYY-MM-DD")
			return
		}
		q.AsOf = &d
	}
	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid from date: expected YYYY-MM-DD")
			return
		}
		q.RangeStart = &d
	}

	balance, err := s.backend.Balance(r.Context(), q)
	if err != nil {
		slog.ErrorContext(r.Context(), "Balance query error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute balance")
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		BalanceCents: balance.Cents,
		Balance:      s.format.WithSymbol(balance),
	})
}

func (s *Server) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	period, err := core.ParsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid period: expected start and end as YYYY-MM-DD with start <= end")
		return
	}
	bookID := queryInt64(r, "book_id", 0)

	req := services.PeriodRequest{Period: period, BookID: bookID}
	startBalanceParam := strings.TrimSpace(r.URL.Query().Get("start_balance"))
	switch startBalanceParam {
	case "":
	case "auto":
		req.AutoStartBalance = true
	default:
		cents, err := core.ParseDecimalToCents(startBalanceParam)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid start_balance: expected a decimal amount or 'auto'")
			return
		}
		req.StartBalance = &core.Money{Cents: cents}
	}

	cacheKey := period.Start.String() + "|" + period.End.String() + "|" + startBalanceParam + "|" + strconv.FormatInt(bookID, 10)
	if body, found := s.reportCache.Get(cacheKey); found {
		slog.DebugContext(r.Context(), "Report cache hit", "start", period.Start.String(), "end", period.End.String())
		writeReportText(w, body)
		return
	}

	rep, err := s.reportSvc.PeriodReport(r.Context(), req)
	if err != nil {
		slog.ErrorContext(r.Context(), "Period report error", "error", err, "start", period.Start.String(), "end", period.End.String())
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	s.reportCache.Set(cacheKey, rep.Body)
	writeReportText(w, rep.Body)
}

func writeReportText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

type categoryAmountResponse struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

type monthSummaryResponse struct {
	Year               int                      `json:"year"`
	Month              int                      `json:"month"`
	TotalIncomeCents   int64                    `json:"total_income_cents"`
	TotalIncome        string                   `json:"total_income"`
	TotalSpendingCents int64                    `json:"total_spending_cents"`
	TotalSpending      string                   `json:"total_spending"`
	NetCents           int64                    `json:"net_cents"`
	Net                string                   `json:"net"`
	IncomeByCategory   []categoryAmountResponse `json:"income_by_category"`
	SpendingByCategory []categoryAmountResponse `json:"spending_by_category"`
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := int(queryInt64(r, "year", int64(now.Year())))
	month := int(queryInt64(r, "month", int64(now.Month())))
	if month < 1 || month > 12 {
		writeError(w, http.StatusUnprocessableEntity, "invalid month: must be between 1 and 12")
		return
	}

	cacheKey := strconv.Itoa(year) + "-" + strconv.Itoa(month)
	summary, found := s.summaryCache.Get(cacheKey)
	if !found {
		var err error
		summary, err = s.backend.ReadMonthSummary(r.Context(), year, month)
		if err != nil {
			slog.ErrorContext(r.Context(), "Month summary error", "error", err, "year", year, "month", month)
			writeError(w, http.StatusInternalServerError, "failed to read month summary")
			return
		}
		s.summaryCache.Set(cacheKey, summary)
	}

	resp := monthSummaryResponse{
		Year:               summary.Year,
		Month:              summary.Month,
		TotalIncomeCents:   summary.TotalIncome.Cents,
		TotalIncome:        s.format.WithSymbol(summary.TotalIncome),
		TotalSpendingCents: summary.TotalSpending.Cents,
		TotalSpending:      s.format.WithSymbol(summary.TotalSpending),
		NetCents:           summary.Net().Cents,
		Net:                s.format.WithSymbol(summary.Net()),
	}
	for _, c := range summary.IncomeByCategory {
		resp.IncomeByCategory = append(resp.IncomeByCategory, categoryAmountResponse{
			Name:        c.Name,
			AmountCents: c.Amount.Cents,
			Amount:      s.format.WithSymbol(c.Amount),
		})
	}
	for _, c := range summary.SpendingByCategory {
		resp.SpendingByCategory = append(resp.SpendingByCategory, categoryAmountResponse{
			Name:        c.Name,
			AmountCents: c.Amount.Cents,
			Amount:      s.format.WithSymbol(c.Amount),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
