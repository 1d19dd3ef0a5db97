package flatfile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/infra"
	"clinic-booking/internal/pkg/errs"
)

// PaymentRecord is one line of the payment log:
//
//	date;id;signedAmount;location;treatmentType;hour:minute
//
// A refund is a fresh record with a negated amount, never a mutation.
type PaymentRecord struct {
	Date          string // yyyy-mm-dd, kept as raw text; readers never interpret it
	ClientID      string
	Amount        int
	Location      int
	TreatmentType int
	Time          schedule.TimeOfDay
}

func (r PaymentRecord) encode() string {
	return fmt.Sprintf("%s;%s;%d;%d;%d;%d:%d\n",
		r.Date, r.ClientID, r.Amount, r.Location, r.TreatmentType,
		r.Time.Hour(), r.Time.Minute())
}

func parsePaymentLine(line string) (PaymentRecord, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 6 {
		return PaymentRecord{}, errs.New("payment line must have 6 fields")
	}
	amount, err := strconv.Atoi(parts[2])
	if err != nil {
		return PaymentRecord{}, errs.Wrap(err, "parse amount")
	}
	location, err := strconv.Atoi(parts[3])
	if err != nil {
		return PaymentRecord{}, errs.Wrap(err, "parse location")
	}
	treatmentType, err := strconv.Atoi(parts[4])
	if err != nil {
		return PaymentRecord{}, errs.Wrap(err, "parse treatment type")
	}
	t, err := parseTimeField(parts[5])
	if err != nil {
		return PaymentRecord{}, err
	}
	return PaymentRecord{
		Date:          parts[0],
		ClientID:      parts[1],
		Amount:        amount,
		Location:      location,
		TreatmentType: treatmentType,
		Time:          t,
	}, nil
}

// PaymentLog is the append-only payment file; callers serialize access via the
// payment lock in the admission engine.
type PaymentLog struct {
	path   string
	logger *slog.Logger
}

func NewPaymentLog(path string, logger *slog.Logger) *PaymentLog {
	return &PaymentLog{path: path, logger: logger}
}

func (l *PaymentLog) Reset() error {
	if err := truncateFile(l.path); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "truncate payment log", err)
	}
	return nil
}

func (l *PaymentLog) Append(rec PaymentRecord) error {
	if err := appendLine(l.path, rec.encode()); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "append payment record", err)
	}
	return nil
}

func (l *PaymentLog) ReadAll() ([]PaymentRecord, error) {
	lines, err := readLines(l.path)
	if err != nil {
		return nil, infra.WrapStoreErr(l.logger, infra.KindIOFailure, "read payment log", err)
	}
	records := make([]PaymentRecord, 0, len(lines))
	for _, line := range lines {
		rec, err := parsePaymentLine(line)
		if err != nil {
			return nil, infra.WrapStoreErr(l.logger, infra.KindCorruptRecord, "parse payment record", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
