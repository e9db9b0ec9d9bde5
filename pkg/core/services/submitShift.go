package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/pkg/cache"
	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/core/shiftcalc"
	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/notify"
)

// Shift length bounds in hours, a hard submission precondition
const (
	MinShiftHours = 2.0
	MaxShiftHours = 7.0
)

// unsetClock is the form default; both times left on it means the driver
// never touched the time fields
const unsetClock = "00:00"

// ShiftInput is what the driver submits: raw form fields, order lists still
// comma-separated. Every derived figure is computed here, never trusted
// from the caller.
type ShiftInput struct {
	DriverID    string `json:"driverId"`
	DriverEmail string `json:"driverEmail"`
	Date        string `json:"date,omitempty"`
	EntryTime   string `json:"entryTime"`
	ExitTime    string `json:"exitTime"`

	HomeDeliveryOrders  string `json:"homeDeliveryOrders"`
	OnlineOrders        string `json:"onlineOrders"`
	MolaresExtraTrip    bool   `json:"molaresOrders"`
	MolaresOrderNumbers string `json:"molaresOrderNumbers"`

	TotalSalesDeclared float64 `json:"totalSalesPedidos"`
	TotalCardTerminal  float64 `json:"totalDatafono"`

	// CashChange is the till float the driver started with. It lives on
	// the draft only and never feeds payroll or reconciliation.
	CashChange float64 `json:"cambioCaja,omitempty"`

	Incidents string `json:"incidents,omitempty"`
}

// ValidateShiftInput runs the full business-rule set and returns every
// violated-rule message in order. The one exception is the "both times
// unset" case, which short-circuits and suppresses the rest.
func ValidateShiftInput(input ShiftInput) []string {
	missingTimes := input.EntryTime == "" || input.ExitTime == ""
	bothDefault := input.EntryTime == unsetClock && input.ExitTime == unsetClock
	if missingTimes || bothDefault {
		return []string{"ingrese los datos correctamente"}
	}

	var errors []string
	if input.EntryTime == input.ExitTime {
		errors = append(errors, "La hora de entrada y salida no deben ser las mismas")
	}

	hoursWorked := shiftcalc.HoursWorked(input.EntryTime, input.ExitTime)
	if hoursWorked < MinShiftHours {
		errors = append(errors, "El turno debe ser de mínimo 2 horas")
	}
	if hoursWorked > MaxShiftHours {
		errors = append(errors, "Horas inválidas: no puede exceder 7 horas")
	}

	report := shiftcalc.ValidateOrders(
		input.HomeDeliveryOrders,
		input.OnlineOrders,
		input.MolaresExtraTrip,
		input.MolaresOrderNumbers,
	)
	errors = append(errors, report.Messages...)

	if input.TotalSalesDeclared < 0 {
		errors = append(errors, "El total de ventas no puede ser negativo")
	}
	if input.TotalCardTerminal < 0 {
		errors = append(errors, "El total del datáfono no puede ser negativo")
	}

	return errors
}

// BuildShift derives the full shift record from validated input
func BuildShift(input ShiftInput, now time.Time) *model.Shift {
	report := shiftcalc.ValidateOrders(
		input.HomeDeliveryOrders,
		input.OnlineOrders,
		input.MolaresExtraTrip,
		input.MolaresOrderNumbers,
	)

	hoursWorked := shiftcalc.HoursWorked(input.EntryTime, input.ExitTime)
	totalTickets := len(report.HomeDelivery) + len(report.Online)

	return &model.Shift{
		ID:          uuid.New().String(),
		DriverID:    input.DriverID,
		DriverEmail: input.DriverEmail,
		Date:        input.Date,
		EntryTime:   input.EntryTime,
		ExitTime:    input.ExitTime,
		HoursWorked: hoursWorked,

		HomeDeliveryOrders:  report.HomeDelivery,
		OnlineOrders:        report.Online,
		MolaresExtraTrip:    input.MolaresExtraTrip,
		MolaresOrderNumbers: report.Molares,

		TotalTickets:     totalTickets,
		TotalOrderAmount: shiftcalc.OrderAmount(totalTickets),
		TotalEarned:      shiftcalc.TotalEarned(hoursWorked, totalTickets, input.MolaresExtraTrip),

		TotalSalesDeclared: input.TotalSalesDeclared,
		TotalCardTerminal:  input.TotalCardTerminal,
		TotalCajaNeto:      shiftcalc.CajaNeto(input.TotalSalesDeclared, input.TotalCardTerminal),

		Incidents: input.Incidents,
		Status:    model.StatusPending,
		CreatedAt: now.UTC(),
	}
}

// SubmitShift validates the driver's input and, when every rule passes,
// persists the shift in state pending, clears the draft mirror and emits a
// status event. Returns the violated-rule messages when validation blocks
// the submission; a non-nil error means a transport failure and the draft
// is left intact for retry.
func SubmitShift(
	ctx context.Context,
	store db.ShiftStore,
	mirror cache.Store,
	notifier notify.StatusNotifier,
	logger *zap.Logger,
	input ShiftInput,
) (*model.Shift, []string, error) {
	now := time.Now()
	if input.Date == "" {
		input.Date = now.Format("2006-01-02")
	}

	logger.Info("Submitting shift",
		zap.String("driver_id", input.DriverID),
		zap.String("date", input.Date))

	violations := ValidateShiftInput(input)
	if len(violations) == 1 && violations[0] == "ingrese los datos correctamente" {
		return nil, violations, nil
	}

	duplicate, err := store.HasShiftForDate(ctx, input.DriverID, input.Date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing shifts: %w", err)
	}
	if duplicate {
		violations = append(violations, "Ya tienes un turno registrado para esta fecha")
	}

	if len(violations) > 0 {
		logger.Info("Shift submission blocked",
			zap.String("driver_id", input.DriverID),
			zap.Strings("violations", violations))
		return nil, violations, nil
	}

	shift := BuildShift(input, now)

	if err := store.InsertShift(ctx, shift); err != nil {
		// The draft stays in the mirror so the driver can retry
		return nil, nil, fmt.Errorf("failed to save shift: %w", err)
	}

	if mirror != nil {
		if err := mirror.Remove(cache.DraftKey(input.DriverID)); err != nil {
			logger.Warn("Failed to clear shift draft", zap.Error(err))
		}
		if err := mirror.Set(cache.SubmittedFlagKey(input.DriverID), "true"); err != nil {
			logger.Warn("Failed to set submitted flag", zap.Error(err))
		}
		if err := mirror.Set(cache.LastKnownIDKey(input.DriverID), shift.ID); err != nil {
			logger.Warn("Failed to record shift id", zap.Error(err))
		}
	}

	notifyStatusChanged(ctx, notifier, logger, shift.ID, shift.DriverID, model.StatusPending)

	logger.Info("Shift submitted",
		zap.String("shift_id", shift.ID),
		zap.Float64("hours_worked", shift.HoursWorked),
		zap.Int("total_tickets", shift.TotalTickets),
		zap.Float64("total_earned", shift.TotalEarned))

	return shift, nil, nil
}

func notifyStatusChanged(ctx context.Context, notifier notify.StatusNotifier, logger *zap.Logger, shiftID, driverID string, status model.Status) {
	if notifier == nil {
		return
	}
	event := model.StatusChangedEvent{
		ShiftID:    shiftID,
		DriverID:   driverID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
	if err := notifier.ShiftStatusChanged(ctx, event); err != nil {
		logger.Warn("Failed to publish status event",
			zap.String("shift_id", shiftID),
			zap.Error(err))
	}
}
