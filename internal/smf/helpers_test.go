package smf

import (
	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// encodeVLQ is the inverse of Cursor.ReadVLQ.
func encodeVLQ(v uint32) []byte {
	out := []byte{byte(v & 0x7F)}
	for v >>= 7; v > 0; v >>= 7 {
		out = append([]byte{byte(v&0x7F) | 0x80}, out...)
	}
	return out
}

func join(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func meta(delta uint32, metaType byte, payload ...byte) []byte {
	return join(encodeVLQ(delta), []byte{0xFF, metaType}, encodeVLQ(uint32(len(payload))), payload)
}

func text(delta uint32, metaType byte, s string) []byte {
	return meta(delta, metaType, []byte(s)...)
}

func noteOn(delta uint32, channel, id, velocity byte) []byte {
	return join(encodeVLQ(delta), []byte{0x90 | channel, id, velocity})
}

func noteOff(delta uint32, channel, id byte) []byte {
	return join(encodeVLQ(delta), []byte{0x80 | channel, id, 0x40})
}

func endOfTrack(delta uint32) []byte {
	return meta(delta, 0x2F)
}

func testOptions(opts ...contracts.Option) *contracts.ClientOptions {
	options := &contracts.ClientOptions{Logger: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func observedLogger() (contracts.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logger.NewZapLoggerFrom(zap.New(core))
	l.SetLevel(contracts.DebugLevel)
	return l, logs
}
