package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/report"
)

// Mailer sends a report email with one attachment.
// The gmail client implements this.
type Mailer interface {
	SendEmailWithAttachment(to, subject, body, filename, mimeType string, content []byte) error
}

// MonthlyReport aggregates the terminal shifts of a YYYY-MM month per driver
func MonthlyReport(ctx context.Context, store db.ShiftStore, logger *zap.Logger, month string) (*report.Monthly, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	end := start.AddDate(0, 1, -1)

	logger.Info("Building monthly report", zap.String("month", month))

	shifts, err := store.ListShifts(ctx, db.ShiftFilter{
		FromDate: start.Format("2006-01-02"),
		ToDate:   end.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	rollup := report.BuildMonthly(month, shifts)
	logger.Info("Monthly report built",
		zap.Int("shifts", rollup.TotalShifts),
		zap.Int("drivers", len(rollup.Drivers)))

	return rollup, nil
}

// EmailMonthlyReport builds the month's rollup and emails it as a CSV or
// XLSX attachment
func EmailMonthlyReport(
	ctx context.Context,
	store db.ShiftStore,
	mailer Mailer,
	logger *zap.Logger,
	month, to string,
	asXLSX bool,
) error {
	rollup, err := MonthlyReport(ctx, store, logger, month)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	filename := fmt.Sprintf("reporte-mensual-%s.csv", month)
	mimeType := "text/csv"
	if asXLSX {
		filename = fmt.Sprintf("reporte-mensual-%s.xlsx", month)
		mimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = report.WriteXLSX(&buf, rollup)
	} else {
		err = report.WriteCSV(&buf, rollup)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	subject := fmt.Sprintf("Reporte mensual %s", month)
	body := "Adjunto encontrarás el reporte mensual."
	if err := mailer.SendEmailWithAttachment(to, subject, body, filename, mimeType, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to email report: %w", err)
	}

	logger.Info("Monthly report emailed",
		zap.String("month", month),
		zap.String("to", to),
		zap.String("attachment", filename))
	return nil
}
