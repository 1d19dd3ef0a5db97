//go:build unit

package wire_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"clinic-booking/internal/handler/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	t.Run("予約要求の往復", func(t *testing.T) {
		var buf bytes.Buffer
		sent := wire.BookingRequest{
			Name:          "Client-1",
			CNP:           "1960101223344",
			Location:      1,
			TreatmentType: 2,
			Hour:          10,
			Minute:        30,
		}
		require.NoError(t, wire.WriteMessage(&buf, wire.MsgBooking, sent))

		msgType, payload, err := wire.ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, wire.MsgBooking, msgType)

		got, err := wire.DecodeBookingRequest(payload)
		require.NoError(t, err)
		assert.Equal(t, sent, got)
	})

	t.Run("複数フレームは送信順に読み出される", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, wire.WriteMessage(&buf, wire.MsgPay, wire.OkResponse{}))
		require.NoError(t, wire.WriteMessage(&buf, wire.MsgCancel, wire.OkResponse{}))

		first, _, err := wire.ReadMessage(&buf)
		require.NoError(t, err)
		second, _, err := wire.ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, wire.MsgPay, first)
		assert.Equal(t, wire.MsgCancel, second)
	})

	t.Run("停止通知は空ペイロード", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, wire.WriteMessage(&buf, wire.MsgStop, wire.StopNotification{}))

		msgType, payload, err := wire.ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, wire.MsgStop, msgType)
		assert.Equal(t, "{}", string(payload))
	})
}

func TestReadMessageErrors(t *testing.T) {
	t.Run("未対応のバージョンを拒否", func(t *testing.T) {
		frame := []byte{0, 0, 0, 0, 99, byte(wire.MsgPay)}
		_, _, err := wire.ReadMessage(bytes.NewReader(frame))
		require.ErrorIs(t, err, wire.ErrUnsupportedVersion)
	})

	t.Run("過大なペイロード長を拒否", func(t *testing.T) {
		frame := make([]byte, 6)
		binary.BigEndian.PutUint32(frame[0:4], 1<<20)
		frame[4] = wire.ProtocolVersion
		frame[5] = byte(wire.MsgPay)
		_, _, err := wire.ReadMessage(bytes.NewReader(frame))
		require.ErrorIs(t, err, wire.ErrPayloadTooLarge)
	})

	t.Run("途中で切れたフレームはエラー", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, wire.WriteMessage(&buf, wire.MsgBooking, wire.BookingRequest{Name: "x"}))
		truncated := buf.Bytes()[:buf.Len()-3]
		_, _, err := wire.ReadMessage(bytes.NewReader(truncated))
		require.Error(t, err)
	})
}
