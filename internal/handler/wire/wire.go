// Package wire defines the framed message schema spoken on a client
// connection. Every message is one frame: a 4-byte big-endian payload length,
// a 1-byte protocol version, a 1-byte message type, then a JSON payload.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"io"

	"clinic-booking/internal/pkg/errs"
)

const (
	ProtocolVersion byte = 1

	headerSize     = 6
	maxPayloadSize = 1 << 16
)

var (
	ErrUnsupportedVersion = errs.New("unsupported protocol version")
	ErrPayloadTooLarge    = errs.New("payload exceeds frame limit")
)

type MsgType byte

const (
	MsgBooking MsgType = iota + 1
	MsgPay
	MsgCancel
	MsgBookingResult
	MsgOk
	MsgError
	MsgStop
)

type BookingStatus string

const (
	StatusSuccess BookingStatus = "SUCCESS"
	StatusFail    BookingStatus = "FAIL"
)

// Error codes carried in ErrorResponse.
const (
	CodeNoActiveBooking = "NO_ACTIVE_BOOKING"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInternal        = "INTERNAL"
)

type BookingRequest struct {
	Name          string `json:"name"`
	CNP           string `json:"cnp"`
	Location      int    `json:"location"`
	TreatmentType int    `json:"treatment_type"`
	Hour          int    `json:"hour"`
	Minute        int    `json:"minute"`
}

type BookingResult struct {
	Status BookingStatus `json:"status"`
}

type OkResponse struct{}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StopNotification struct{}

// WriteMessage marshals payload and writes one frame. The frame is assembled
// into a single buffer so concurrent-unsafe writers still emit whole frames.
func WriteMessage(w io.Writer, msgType MsgType, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrap(err, "marshal payload")
	}
	if len(body) > maxPayloadSize {
		return ErrPayloadTooLarge
	}
	frame := make([]byte, headerSize+len(body))
	binary.BigEndian.PutUint32(frame[0:4], uint32(len(body)))
	frame[4] = ProtocolVersion
	frame[5] = byte(msgType)
	copy(frame[headerSize:], body)
	if _, err := w.Write(frame); err != nil {
		return errs.Wrap(err, "write frame")
	}
	return nil
}

// ReadMessage reads exactly one frame and returns its type and raw payload.
func ReadMessage(r io.Reader) (MsgType, []byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, err
	}
	size := binary.BigEndian.Uint32(header[0:4])
	if size > maxPayloadSize {
		return 0, nil, ErrPayloadTooLarge
	}
	if header[4] != ProtocolVersion {
		return 0, nil, ErrUnsupportedVersion
	}
	msgType := MsgType(header[5])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, errs.Wrap(err, "read frame payload")
	}
	return msgType, payload, nil
}

func DecodeBookingRequest(payload []byte) (BookingRequest, error) {
	var req BookingRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return BookingRequest{}, errs.Wrap(err, "decode booking request")
	}
	return req, nil
}
