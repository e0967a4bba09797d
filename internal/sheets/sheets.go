// Package sheets archives generated period reports to a Google
// Spreadsheet, one row per report, so treasurers keep a history outside
// the database.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"kas/internal/ledger"
	"kas/internal/report"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	reportsSheet  string
}

var _ ledger.ReportArchiver = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables and a
// service account.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS for auth;
// GOOGLE_REPORTS_SHEET_NAME (default "Laporan").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	reportsSheet := strings.TrimSpace(os.Getenv("GOOGLE_REPORTS_SHEET_NAME"))
	if reportsSheet == "" {
		reportsSheet = "Laporan"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		reportsSheet:  reportsSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ArchiveReport implements ledger.ReportArchiver. Amounts are written as
// formatted strings so the row reads the same as the WhatsApp message.
func (c *Client) ArchiveReport(ctx context.Context, rep ledger.ArchivedReport) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	f := report.DefaultMoneyFormat()
	row := []any{
		rep.ID,
		rep.Period.Start.String(),
		rep.Period.End.String(),
		rep.OrganizationName,
		f.Format(rep.TotalIncome),
		f.Format(rep.TotalSpending),
		f.Format(rep.EndingBalance),
		rep.GeneratedAt.Format(time.RFC3339),
	}

	rng := fmt.Sprintf("%s!A:H", c.reportsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append report row to %s: %w", c.reportsSheet, err)
	}

	slog.InfoContext(ctx, "Report archived to spreadsheet",
		"id", rep.ID,
		"sheet", c.reportsSheet,
		"start", rep.Period.Start.String(),
		"end", rep.Period.End.String())
	return nil
}
