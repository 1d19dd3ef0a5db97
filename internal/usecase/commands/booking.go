package commands

import (
	"context"
	"log/slog"
	"sync"

	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/infra/flatfile"
	"clinic-booking/internal/pkg/clock"
	"clinic-booking/internal/pkg/errs"

	"github.com/jinzhu/copier"
)

const dateLayout = "2006-01-02"

var (
	ErrBookingNotPersisted = errs.New("booking could not be persisted")
	ErrCancelNotPersisted  = errs.New("cancellation could not be persisted")
	ErrPaymentNotPersisted = errs.New("payment could not be persisted")
)

type Decision int

const (
	Rejected Decision = iota
	Accepted
)

type AdmitRequest struct {
	Name          string
	ClientID      string
	Location      int
	TreatmentType int
	Time          schedule.TimeOfDay
}

// BookingSnapshot is a consistent point-in-time copy of the live intervals and
// the full payment history, safe to analyze without holding any lock.
type BookingSnapshot struct {
	Intervals []schedule.Interval
	Payments  []flatfile.PaymentRecord
}

type BookingCommands interface {
	// Admit returns the admitted interval alongside Accepted so the caller's
	// session can resolve a later Pay or Cancel without re-sending details.
	Admit(ctx context.Context, req AdmitRequest) (Decision, schedule.Interval, error)
	Pay(ctx context.Context, iv schedule.Interval) error
	Cancel(ctx context.Context, iv schedule.Interval) error
	Snapshot(ctx context.Context) (BookingSnapshot, error)
}

type bookingUseCaseImpl struct {
	table    schedule.CapacityTable
	bookings *flatfile.BookingLog
	payments *flatfile.PaymentLog
	clock    clock.Clock
	logger   *slog.Logger

	// bookingMu guards intervals and the booking log; paymentMu guards the
	// payment log. Paths taking both always take bookingMu first.
	bookingMu sync.Mutex
	paymentMu sync.Mutex
	intervals []schedule.Interval
}

func NewBookingCommands(
	table schedule.CapacityTable,
	bookings *flatfile.BookingLog,
	payments *flatfile.PaymentLog,
	clock clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCaseImpl{
		table:    table,
		bookings: bookings,
		payments: payments,
		clock:    clock,
		logger:   logger,
	}
}

// Admit decides a booking request against the capacity table. The candidate
// interval is provisionally inserted, the sweep-line maximum overlap for its
// (location, treatment) pair is computed, and the insert is kept only when the
// maximum stays within the configured limit. Out-of-range indices are input
// errors, not rejections.
func (u *bookingUseCaseImpl) Admit(_ context.Context, req AdmitRequest) (Decision, schedule.Interval, error) {
	if err := u.table.ValidateLocation(req.Location); err != nil {
		return Rejected, schedule.Interval{}, err
	}
	if err := u.table.ValidateTreatment(req.TreatmentType); err != nil {
		return Rejected, schedule.Interval{}, err
	}

	candidate := schedule.NewInterval(
		req.ClientID, req.Location, req.TreatmentType,
		req.Time, u.table.DurationMin(req.TreatmentType),
	)

	u.bookingMu.Lock()
	defer u.bookingMu.Unlock()

	u.intervals = append(u.intervals, candidate)
	pair := schedule.FilterByPair(u.intervals, req.Location, req.TreatmentType)
	if schedule.MaxOverlap(pair) > u.table.MaxConcurrent(req.Location, req.TreatmentType) {
		u.intervals = u.intervals[:len(u.intervals)-1]
		return Rejected, schedule.Interval{}, nil
	}

	rec := flatfile.BookingRecord{
		Name:          req.Name,
		ClientID:      req.ClientID,
		Date:          u.clock.Now().Format(dateLayout),
		Location:      req.Location,
		TreatmentType: req.TreatmentType,
		Time:          req.Time,
	}
	if err := u.bookings.Append(rec); err != nil {
		// The in-memory admit must not outlive a failed log write.
		u.intervals = u.intervals[:len(u.intervals)-1]
		return Rejected, schedule.Interval{}, errs.Mark(err, ErrBookingNotPersisted)
	}
	return Accepted, candidate, nil
}

// Pay records a payment for an admitted interval at the treatment's fixed
// cost, dated now. It never touches capacity state.
func (u *bookingUseCaseImpl) Pay(_ context.Context, iv schedule.Interval) error {
	rec := flatfile.PaymentRecord{
		Date:          u.clock.Now().Format(dateLayout),
		ClientID:      iv.ClientID,
		Amount:        u.table.Cost(iv.TreatmentType),
		Location:      iv.Location,
		TreatmentType: iv.TreatmentType,
		Time:          iv.Start(),
	}

	u.paymentMu.Lock()
	defer u.paymentMu.Unlock()

	if err := u.payments.Append(rec); err != nil {
		return errs.Mark(err, ErrPaymentNotPersisted)
	}
	return nil
}

// Cancel removes the matching open interval and its booking log line, then
// records a refund. A missing match is a no-op removal; the refund is emitted
// regardless, even when no payment was ever made for the booking.
func (u *bookingUseCaseImpl) Cancel(_ context.Context, iv schedule.Interval) error {
	start := iv.Start()

	u.bookingMu.Lock()
	defer u.bookingMu.Unlock()
	u.paymentMu.Lock()
	defer u.paymentMu.Unlock()

	if err := u.bookings.Remove(func(rec flatfile.BookingRecord) bool {
		return rec.ClientID == iv.ClientID &&
			rec.Location == iv.Location &&
			rec.TreatmentType == iv.TreatmentType &&
			rec.Time == start
	}); err != nil {
		return errs.Mark(err, ErrCancelNotPersisted)
	}

	for i, open := range u.intervals {
		if open.Matches(iv.ClientID, iv.Location, iv.TreatmentType, iv.StartMinute) {
			u.intervals = append(u.intervals[:i], u.intervals[i+1:]...)
			break
		}
	}

	refund := flatfile.PaymentRecord{
		Date:          u.clock.Now().Format(dateLayout),
		ClientID:      iv.ClientID,
		Amount:        -u.table.Cost(iv.TreatmentType),
		Location:      iv.Location,
		TreatmentType: iv.TreatmentType,
		Time:          start,
	}
	if err := u.payments.Append(refund); err != nil {
		return errs.Mark(err, ErrPaymentNotPersisted)
	}
	return nil
}

// Snapshot copies the interval collection and the full payment history under
// both locks (booking first), then releases them before returning.
func (u *bookingUseCaseImpl) Snapshot(_ context.Context) (BookingSnapshot, error) {
	u.bookingMu.Lock()
	defer u.bookingMu.Unlock()
	u.paymentMu.Lock()
	defer u.paymentMu.Unlock()

	var snap BookingSnapshot
	if err := copier.Copy(&snap.Intervals, u.intervals); err != nil {
		return BookingSnapshot{}, errs.Wrap(err, "copy interval collection")
	}
	payments, err := u.payments.ReadAll()
	if err != nil {
		return BookingSnapshot{}, errs.Wrap(err, "read payment history")
	}
	snap.Payments = payments
	return snap, nil
}
