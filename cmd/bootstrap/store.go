package bootstrap

import (
	"log/slog"

	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/infra/flatfile"
	"clinic-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewCapacityTable,
		NewBookingLog,
		NewPaymentLog,
		NewReportLog,
	),
	// 起動時にデータファイルを空にする（過去実行の記録は引き継がない）
	fx.Invoke(resetDataFiles),
)

func NewCapacityTable(cfg config.Config) (schedule.CapacityTable, error) {
	return schedule.NewCapacityTable(
		cfg.Clinic.Locations,
		cfg.Clinic.Treatments,
		cfg.Clinic.TreatmentCost,
		cfg.Clinic.DurationMin,
		cfg.Clinic.BaseCapacity,
	)
}

func NewBookingLog(cfg config.Config, logger *slog.Logger) *flatfile.BookingLog {
	return flatfile.NewBookingLog(cfg.Files.BookingPath, logger)
}

func NewPaymentLog(cfg config.Config, logger *slog.Logger) *flatfile.PaymentLog {
	return flatfile.NewPaymentLog(cfg.Files.PaymentPath, logger)
}

func NewReportLog(cfg config.Config, logger *slog.Logger) *flatfile.ReportLog {
	return flatfile.NewReportLog(cfg.Files.ReportPath, logger)
}

func resetDataFiles(bookings *flatfile.BookingLog, payments *flatfile.PaymentLog, reports *flatfile.ReportLog) error {
	if err := bookings.Reset(); err != nil {
		return err
	}
	if err := payments.Reset(); err != nil {
		return err
	}
	return reports.Reset()
}
