package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"clinic-booking/internal/domain/schedule"
	"clinic-booking/internal/handler/wire"
	"clinic-booking/internal/usecase/commands"
)

// Worker drives one connection: read one frame, dispatch, write zero-or-one
// response, repeat. Messages on a connection are strictly in-order; all
// cross-connection coordination happens inside the admission engine.
type Worker struct {
	conn     net.Conn
	commands commands.BookingCommands
	session  *Session
	logger   *slog.Logger
}

func NewWorker(conn net.Conn, bookingCommands commands.BookingCommands, logger *slog.Logger) *Worker {
	session := NewSession()
	return &Worker{
		conn:     conn,
		commands: bookingCommands,
		session:  session,
		logger: logger.With(
			slog.String("session_id", session.ID().String()),
			slog.String("remote_addr", conn.RemoteAddr().String()),
		),
	}
}

// Run loops until the connection dies or ctx is canceled. On cancellation the
// in-flight message is finished, a Stop notification is sent, and the
// connection is closed from the server side.
func (w *Worker) Run(ctx context.Context) {
	defer w.conn.Close()

	for ctx.Err() == nil {
		msgType, payload, err := wire.ReadMessage(w.conn)
		if err != nil {
			if ctx.Err() != nil {
				break // shutdown unblocked the read
			}
			if errors.Is(err, io.EOF) {
				w.logger.Info("Client closed connection")
			} else {
				w.logger.Warn("Connection read failed", slog.String("error", err.Error()))
			}
			return
		}

		respType, resp := w.dispatch(ctx, msgType, payload)
		if resp == nil {
			continue
		}
		if err := wire.WriteMessage(w.conn, respType, resp); err != nil {
			w.logger.Warn("Connection write failed", slog.String("error", err.Error()))
			return
		}
	}

	if err := wire.WriteMessage(w.conn, wire.MsgStop, wire.StopNotification{}); err != nil {
		w.logger.Warn("Stop notification failed", slog.String("error", err.Error()))
	}
	w.logger.Info("Connection closed by server shutdown")
}

func (w *Worker) dispatch(ctx context.Context, msgType wire.MsgType, payload []byte) (wire.MsgType, any) {
	switch msgType {
	case wire.MsgBooking:
		return w.handleBooking(ctx, payload)
	case wire.MsgPay:
		return w.handlePay(ctx)
	case wire.MsgCancel:
		return w.handleCancel(ctx)
	default:
		w.logger.Warn("Unknown message type", slog.Int("type", int(msgType)))
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInvalidRequest, Message: "unknown message type"}
	}
}

func (w *Worker) handleBooking(ctx context.Context, payload []byte) (wire.MsgType, any) {
	req, err := wire.DecodeBookingRequest(payload)
	if err != nil {
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInvalidRequest, Message: "malformed booking request"}
	}
	t, err := schedule.NewTimeOfDay(req.Hour, req.Minute)
	if err != nil {
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInvalidRequest, Message: "invalid treatment time"}
	}

	decision, admitted, err := w.commands.Admit(ctx, commands.AdmitRequest{
		Name:          req.Name,
		ClientID:      req.CNP,
		Location:      req.Location,
		TreatmentType: req.TreatmentType,
		Time:          t,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidLocation) || errors.Is(err, schedule.ErrInvalidTreatment) {
			return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInvalidRequest, Message: err.Error()}
		}
		w.logger.Error("Admission failed", slog.String("error", err.Error()))
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInternal, Message: "booking could not be processed"}
	}

	if decision == commands.Accepted {
		w.session.SetAdmitted(admitted)
		return wire.MsgBookingResult, wire.BookingResult{Status: wire.StatusSuccess}
	}
	return wire.MsgBookingResult, wire.BookingResult{Status: wire.StatusFail}
}

func (w *Worker) handlePay(ctx context.Context) (wire.MsgType, any) {
	iv, ok := w.session.LastAdmitted()
	if !ok {
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeNoActiveBooking, Message: "no active booking"}
	}
	if err := w.commands.Pay(ctx, iv); err != nil {
		w.logger.Error("Payment failed", slog.String("error", err.Error()))
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInternal, Message: "payment could not be recorded"}
	}
	return wire.MsgOk, wire.OkResponse{}
}

func (w *Worker) handleCancel(ctx context.Context) (wire.MsgType, any) {
	iv, ok := w.session.LastAdmitted()
	if !ok {
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeNoActiveBooking, Message: "no active booking"}
	}
	if err := w.commands.Cancel(ctx, iv); err != nil {
		w.logger.Error("Cancellation failed", slog.String("error", err.Error()))
		return wire.MsgError, wire.ErrorResponse{Code: wire.CodeInternal, Message: "cancellation could not be recorded"}
	}
	return wire.MsgOk, wire.OkResponse{}
}
