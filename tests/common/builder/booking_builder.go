package builder

import (
	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/handler/wire"
	"clinic-booking/internal/usecase/commands"
)

type BookingBuilder struct {
	name          string
	cnp           string
	location      int
	treatmentType int
	hour          int
	minute        int
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		name:          "Client-1",
		cnp:           "1960101223344",
		location:      0,
		treatmentType: 0,
		hour:          10,
		minute:        0,
	}
}

func (b *BookingBuilder) WithName(name string) *BookingBuilder {
	b.name = name
	return b
}

func (b *BookingBuilder) WithCNP(cnp string) *BookingBuilder {
	b.cnp = cnp
	return b
}

func (b *BookingBuilder) WithLocation(location int) *BookingBuilder {
	b.location = location
	return b
}

func (b *BookingBuilder) WithTreatmentType(treatmentType int) *BookingBuilder {
	b.treatmentType = treatmentType
	return b
}

func (b *BookingBuilder) WithTime(hour, minute int) *BookingBuilder {
	b.hour = hour
	b.minute = minute
	return b
}

func (b *BookingBuilder) BuildAdmitRequest() (commands.AdmitRequest, error) {
	t, err := schedule.NewTimeOfDay(b.hour, b.minute)
	if err != nil {
		return commands.AdmitRequest{}, err
	}
	return commands.AdmitRequest{
		Name:          b.name,
		ClientID:      b.cnp,
		Location:      b.location,
		TreatmentType: b.treatmentType,
		Time:          t,
	}, nil
}

func (b *BookingBuilder) BuildWireRequest() wire.BookingRequest {
	return wire.BookingRequest{
		Name:          b.name,
		CNP:           b.cnp,
		Location:      b.location,
		TreatmentType: b.treatmentType,
		Hour:          b.hour,
		Minute:        b.minute,
	}
}
