package schedule

// Interval is one admitted booking occupying a treatment slot. Fields are
// plain values; the admission engine owns the only mutable collection of them.
type Interval struct {
	ClientID      string
	Location      int
	TreatmentType int
	StartMinute   int
	EndMinute     int
}

func NewInterval(clientID string, location, treatmentType int, start TimeOfDay, durationMin int) Interval {
	startMinute := start.MinuteOfDay()
	return Interval{
		ClientID:      clientID,
		Location:      location,
		TreatmentType: treatmentType,
		StartMinute:   startMinute,
		EndMinute:     startMinute + durationMin,
	}
}

func (iv Interval) Start() TimeOfDay {
	return TimeFromMinute(iv.StartMinute)
}

// Matches reports whether this interval is the one identified by the given
// cancellation key. The booking name is deliberately not part of the key.
func (iv Interval) Matches(clientID string, location, treatmentType, startMinute int) bool {
	return iv.ClientID == clientID &&
		iv.Location == location &&
		iv.TreatmentType == treatmentType &&
		iv.StartMinute == startMinute
}
