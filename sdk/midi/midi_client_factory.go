package midi

import (
	"github.com/leandrodaf/smfnotes/internal/decoder"
	"github.com/leandrodaf/smfnotes/internal/recorder"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

// NewDecoder returns a Standard MIDI File decoder.
//
// Unset options default to a zap production logger at Info level, GOMAXPROCS track
// workers, ClampPitch and no channel filter.
func NewDecoder(opts ...contracts.Option) (contracts.Decoder, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return decoder.NewDecoder(&options)
}

// NewMIDIClient creates a live input client for the current operating system.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	client, err := NewClient(&options)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// NewRecorder wraps client in a Recorder that builds a Track from its messages.
// Ticks are 1/TicksPerSecond seconds, 1000 per second unless configured.
func NewRecorder(client contracts.ClientMIDI, opts ...contracts.Option) (contracts.Recorder, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return recorder.New(client, &options), nil
}
