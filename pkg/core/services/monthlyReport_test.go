package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/core/model"
)

func reportStore() *mockStore {
	store := newMockStore()
	store.add(model.Shift{
		ID: "s1", DriverID: "ana", DriverEmail: "ana@example.com", Date: "2026-07-03",
		HoursWorked: 5, TotalTickets: 12, TotalEarned: 36.5, TotalCajaNeto: 40,
		Status: model.StatusReviewed,
	})
	store.add(model.Shift{
		ID: "s2", DriverID: "luis", DriverEmail: "luis@example.com", Date: "2026-07-28",
		HoursWorked: 4, TotalTickets: 8, TotalEarned: 28, TotalCajaNeto: -5,
		Status: model.StatusUnreviewed,
	})
	store.add(model.Shift{
		ID: "s3", DriverID: "ana", Date: "2026-08-01",
		TotalEarned: 99, Status: model.StatusReviewed,
	})
	return store
}

func TestMonthlyReport(t *testing.T) {
	rollup, err := MonthlyReport(context.Background(), reportStore(), zap.NewNop(), "2026-07")
	require.NoError(t, err)

	assert.Equal(t, "2026-07", rollup.Month)
	assert.Equal(t, 2, rollup.TotalShifts)
	assert.Equal(t, 1, rollup.Reviewed)
	assert.Equal(t, 1, rollup.Unreviewed)
	assert.InDelta(t, 64.5, rollup.TotalEarned, 1e-9)
	assert.Len(t, rollup.Drivers, 2)
}

func TestMonthlyReport_InvalidMonth(t *testing.T) {
	_, err := MonthlyReport(context.Background(), newMockStore(), zap.NewNop(), "julio-2026")
	assert.Error(t, err)
}

func TestMonthlyReport_StoreError(t *testing.T) {
	store := newMockStore()
	store.listErr = errors.New("boom")
	_, err := MonthlyReport(context.Background(), store, zap.NewNop(), "2026-07")
	assert.Error(t, err)
}

func TestEmailMonthlyReport_CSV(t *testing.T) {
	mailer := &mockMailer{}

	err := EmailMonthlyReport(context.Background(), reportStore(), mailer, zap.NewNop(), "2026-07", "admin@example.com", false)
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", mailer.to)
	assert.Equal(t, "Reporte mensual 2026-07", mailer.subject)
	assert.Equal(t, "reporte-mensual-2026-07.csv", mailer.filename)
	assert.Equal(t, "text/csv", mailer.mimeType)
	assert.Contains(t, string(mailer.content), "ana@example.com")
	assert.Contains(t, string(mailer.content), "TOTAL")
}

func TestEmailMonthlyReport_XLSX(t *testing.T) {
	mailer := &mockMailer{}

	err := EmailMonthlyReport(context.Background(), reportStore(), mailer, zap.NewNop(), "2026-07", "admin@example.com", true)
	require.NoError(t, err)

	assert.Equal(t, "reporte-mensual-2026-07.xlsx", mailer.filename)
	assert.NotEmpty(t, mailer.content)
}

func TestEmailMonthlyReport_MailerError(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}
	err := EmailMonthlyReport(context.Background(), reportStore(), mailer, zap.NewNop(), "2026-07", "admin@example.com", false)
	assert.Error(t, err)
}
