package handler

import (
	"clinic-booking/internal/domain/schedule"

	"github.com/google/uuid"
)

// Session is the per-connection protocol state: the most recent successfully
// admitted booking, overwritten by each new success. It is owned by exactly
// one worker and never shared across connections.
type Session struct {
	id           uuid.UUID
	lastAdmitted *schedule.Interval
}

func NewSession() *Session {
	return &Session{id: uuid.New()}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) SetAdmitted(iv schedule.Interval) {
	s.lastAdmitted = &iv
}

// LastAdmitted returns the booking a Pay or Cancel message resolves to, and
// false when the connection has no successful booking yet.
func (s *Session) LastAdmitted() (schedule.Interval, bool) {
	if s.lastAdmitted == nil {
		return schedule.Interval{}, false
	}
	return *s.lastAdmitted, true
}
