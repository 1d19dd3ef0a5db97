package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/infra/flatfile"
	"clinic-booking/internal/pkg/clock"
	"clinic-booking/internal/pkg/errs"
	"clinic-booking/internal/usecase/commands"
)

const reportTimeLayout = "2006-01-02 15:04"

type TreatmentReport struct {
	TreatmentType int
	MaxAdmitted   int
	Bands         []schedule.Band
}

type LocationReport struct {
	Location   int
	TotalSold  int
	Unpaid     []schedule.Interval
	Booked     []schedule.Interval
	Treatments []TreatmentReport
}

// Report is one verification run over a consistent snapshot.
type Report struct {
	GeneratedAt time.Time
	Locations   []LocationReport
	// Violations lists locations whose recorded payments do not reconcile
	// with the booked intervals. A non-empty list is an internal consistency
	// fault, reported but never fatal.
	Violations []string
}

func (r *Report) Empty() bool {
	for _, loc := range r.Locations {
		if len(loc.Booked) > 0 {
			return false
		}
	}
	return true
}

type VerificationQueries interface {
	Verify(ctx context.Context) (*Report, error)
	Run(ctx context.Context) error
}

type verificationQueriesImpl struct {
	commands commands.BookingCommands
	table    schedule.CapacityTable
	reports  *flatfile.ReportLog
	clock    clock.Clock
	logger   *slog.Logger
}

func NewVerificationQueries(
	bookingCommands commands.BookingCommands,
	table schedule.CapacityTable,
	reports *flatfile.ReportLog,
	clock clock.Clock,
	logger *slog.Logger,
) VerificationQueries {
	return &verificationQueriesImpl{
		commands: bookingCommands,
		table:    table,
		reports:  reports,
		clock:    clock,
		logger:   logger,
	}
}

// Verify reconciles booked intervals against recorded payments on an atomic
// snapshot: per-location payment sums, per-location unpaid intervals, and the
// invariant paidSum == totalCost - unpaidCost for every location with at least
// one booking.
func (q *verificationQueriesImpl) Verify(ctx context.Context) (*Report, error) {
	snap, err := q.commands.Snapshot(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "snapshot booking state")
	}

	paymentSums := make(map[int]int)
	for _, p := range snap.Payments {
		paymentSums[p.Location] += p.Amount
	}

	report := &Report{GeneratedAt: q.clock.Now()}
	for location := 0; location < q.table.Locations(); location++ {
		loc := LocationReport{
			Location:  location,
			TotalSold: paymentSums[location],
		}
		for _, iv := range snap.Intervals {
			if iv.Location != location {
				continue
			}
			loc.Booked = append(loc.Booked, iv)
			if !hasMatchingPayment(snap.Payments, iv) {
				loc.Unpaid = append(loc.Unpaid, iv)
			}
		}
		for treatmentType := 0; treatmentType < q.table.Treatments(); treatmentType++ {
			pair := schedule.FilterByPair(loc.Booked, location, treatmentType)
			if len(pair) == 0 {
				continue
			}
			loc.Treatments = append(loc.Treatments, TreatmentReport{
				TreatmentType: treatmentType,
				MaxAdmitted:   schedule.MaxOverlap(pair),
				Bands:         schedule.OccupancyBands(pair),
			})
		}
		q.checkInvariant(report, loc)
		report.Locations = append(report.Locations, loc)
	}
	return report, nil
}

func (q *verificationQueriesImpl) checkInvariant(report *Report, loc LocationReport) {
	if len(loc.Booked) == 0 {
		// A zero sum is fine here: a paid-then-cancelled booking leaves a
		// payment and its refund behind with no interval.
		if loc.TotalSold != 0 {
			q.flagViolation(report, fmt.Sprintf(
				"location %d has a nonzero payment sum %d but no booked intervals",
				loc.Location, loc.TotalSold))
		}
		return
	}
	totalCost := 0
	for _, iv := range loc.Booked {
		totalCost += q.table.Cost(iv.TreatmentType)
	}
	unpaidCost := 0
	for _, iv := range loc.Unpaid {
		unpaidCost += q.table.Cost(iv.TreatmentType)
	}
	if loc.TotalSold != totalCost-unpaidCost {
		q.flagViolation(report, fmt.Sprintf(
			"location %d: recorded payments %d != booked cost %d - unpaid cost %d",
			loc.Location, loc.TotalSold, totalCost, unpaidCost))
	}
}

func (q *verificationQueriesImpl) flagViolation(report *Report, msg string) {
	report.Violations = append(report.Violations, msg)
	q.logger.Error("Verification invariant violated", slog.String("detail", msg))
}

// Run performs one verification cycle and appends the rendered block to the
// report log. An empty snapshot produces no block.
func (q *verificationQueriesImpl) Run(ctx context.Context) error {
	report, err := q.Verify(ctx)
	if err != nil {
		return err
	}
	if report.Empty() {
		return nil
	}
	return q.reports.Append(Render(report))
}

func hasMatchingPayment(payments []flatfile.PaymentRecord, iv schedule.Interval) bool {
	start := iv.Start()
	for _, p := range payments {
		if p.ClientID == iv.ClientID &&
			p.Location == iv.Location &&
			p.TreatmentType == iv.TreatmentType &&
			p.Time == start {
			return true
		}
	}
	return false
}

// Render produces the historical human-readable block format, byte for byte.
func Render(report *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", report.GeneratedAt.Format(reportTimeLayout))
	for _, loc := range report.Locations {
		fmt.Fprintf(&sb, "Location: %d ; Total Sold: %d\n", loc.Location, loc.TotalSold)
		if len(loc.Unpaid) == 0 {
			sb.WriteString("No unpaid programming\n")
		} else {
			sb.WriteString("Unpaid programming list: ")
			for _, iv := range loc.Unpaid {
				start := iv.Start()
				fmt.Fprintf(&sb, "[cnp: %s; location: %d; treatment: %d; time: %d:%d], ",
					iv.ClientID, iv.Location, iv.TreatmentType, start.Hour(), start.Minute())
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		for _, tr := range loc.Treatments {
			fmt.Fprintf(&sb, "Treatment type: %d ; Max admitted: %d ; ", tr.TreatmentType, tr.MaxAdmitted)
			for _, band := range tr.Bands {
				fmt.Fprintf(&sb, "[Interval: %d:%d - %d:%d ; Admitted: %d], ",
					band.Start.Hour(), band.Start.Minute(),
					band.End.Hour(), band.End.Minute(),
					band.Admitted)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
