// kas-report renders a period report to stdout, for treasurers who want
// the WhatsApp text without running the web process.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"kas/internal/backend"
	"kas/internal/config"
	"kas/internal/core"
	applog "kas/internal/log"
	"kas/internal/services"
)

func main() {
	_ = godotenv.Load()

	var (
		startFlag   = flag.String("start", "", "period start date (YYYY-MM-DD)")
		endFlag     = flag.String("end", "", "period end date (YYYY-MM-DD)")
		balanceFlag = flag.String("balance", "", "starting balance as a decimal amount, or 'auto' to compute it")
		bookFlag    = flag.Int64("book", 0, "book id (0 for all books)")
	)
	flag.Parse()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentReport,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	period, err := core.ParsePeriod(*startFlag, *endFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid period: -start and -end must be YYYY-MM-DD with start <= end")
		os.Exit(2)
	}

	req := services.PeriodRequest{Period: period, BookID: *bookFlag}
	switch *balanceFlag {
	case "":
	case "auto":
		req.AutoStartBalance = true
	default:
		cents, err := core.ParseDecimalToCents(*balanceFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid -balance: expected a decimal amount or 'auto'")
			os.Exit(2)
		}
		req.StartBalance = &core.Money{Cents: cents}
	}

	ctx := context.Background()

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		PostgresDSN:  cfg.PostgresDSN,
	})
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	// One-shot rendering: no archive, the text goes to stdout only.
	reportSvc := services.NewReportService(
		result.Backend, result.Backend, result.Backend, nil,
		cfg.MoneyFormat(), cfg.Labels(),
		cfg.OrganizationName, cfg.OrganizationLocation,
	)

	rep, err := reportSvc.PeriodReport(ctx, req)
	if err != nil {
		logger.Error("Failed to generate report", "error", err)
		os.Exit(1)
	}

	fmt.Println(rep.Body)
}
