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

// BookingRecord is one line of the booking log:
//
//	name;id;dateBooked;location;treatmentType;dateBooked;hour:minute
//
// The booking date appears twice, preserving the historical file format.
type BookingRecord struct {
	Name          string
	ClientID      string
	Date          string // yyyy-mm-dd
	Location      int
	TreatmentType int
	Time          schedule.TimeOfDay
}

func (r BookingRecord) encode() string {
	return fmt.Sprintf("%s;%s;%s;%d;%d;%s;%d:%d\n",
		r.Name, r.ClientID, r.Date, r.Location, r.TreatmentType, r.Date,
		r.Time.Hour(), r.Time.Minute())
}

func parseBookingLine(line string) (BookingRecord, error) {
	parts := strings.Split(line, ";")
	if len(parts) != 7 {
		return BookingRecord{}, errs.New("booking line must have 7 fields")
	}
	location, err := strconv.Atoi(parts[3])
	if err != nil {
		return BookingRecord{}, errs.Wrap(err, "parse location")
	}
	treatmentType, err := strconv.Atoi(parts[4])
	if err != nil {
		return BookingRecord{}, errs.Wrap(err, "parse treatment type")
	}
	t, err := parseTimeField(parts[6])
	if err != nil {
		return BookingRecord{}, err
	}
	return BookingRecord{
		Name:          parts[0],
		ClientID:      parts[1],
		Date:          parts[2],
		Location:      location,
		TreatmentType: treatmentType,
		Time:          t,
	}, nil
}

func parseTimeField(field string) (schedule.TimeOfDay, error) {
	hm := strings.Split(field, ":")
	if len(hm) != 2 {
		return schedule.TimeOfDay{}, errs.New("time field must be hour:minute")
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return schedule.TimeOfDay{}, errs.Wrap(err, "parse hour")
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return schedule.TimeOfDay{}, errs.Wrap(err, "parse minute")
	}
	t, err := schedule.NewTimeOfDay(hour, minute)
	if err != nil {
		return schedule.TimeOfDay{}, errs.Wrap(err, "invalid time field")
	}
	return t, nil
}

// BookingLog is the append-mostly booking file. Removal rewrites the whole
// file without the matching line; callers serialize access via the booking
// lock in the admission engine.
type BookingLog struct {
	path   string
	logger *slog.Logger
}

func NewBookingLog(path string, logger *slog.Logger) *BookingLog {
	return &BookingLog{path: path, logger: logger}
}

func (l *BookingLog) Reset() error {
	if err := truncateFile(l.path); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "truncate booking log", err)
	}
	return nil
}

func (l *BookingLog) Append(rec BookingRecord) error {
	if err := appendLine(l.path, rec.encode()); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "append booking record", err)
	}
	return nil
}

// Remove drops every record for which match returns true and rewrites the file.
func (l *BookingLog) Remove(match func(BookingRecord) bool) error {
	lines, err := readLines(l.path)
	if err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "read booking log", err)
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		rec, err := parseBookingLine(line)
		if err != nil {
			return infra.WrapStoreErr(l.logger, infra.KindCorruptRecord, "parse booking record", err)
		}
		if match(rec) {
			continue
		}
		kept = append(kept, line)
	}
	if err := rewriteLines(l.path, kept); err != nil {
		return infra.WrapStoreErr(l.logger, infra.KindIOFailure, "rewrite booking log", err)
	}
	return nil
}

func (l *BookingLog) ReadAll() ([]BookingRecord, error) {
	lines, err := readLines(l.path)
	if err != nil {
		return nil, infra.WrapStoreErr(l.logger, infra.KindIOFailure, "read booking log", err)
	}
	records := make([]BookingRecord, 0, len(lines))
	for _, line := range lines {
		rec, err := parseBookingLine(line)
		if err != nil {
			return nil, infra.WrapStoreErr(l.logger, infra.KindCorruptRecord, "parse booking record", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
