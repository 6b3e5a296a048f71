//go:build !windows
// +build !windows

package midiwindows

import (
	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a client whose device calls fail with contracts.ErrMIDIUnavailable.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy MIDI client for non-Windows system")
	return &dummyMIDIClient{
		logger: options.Logger,
	}, nil
}

func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

func (m *dummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client", m.logger.Field().Int("deviceID", deviceID))
	return contracts.ErrMIDIUnavailable
}

func (m *dummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) error {
	m.logger.Warn("StartCapture called on dummy MIDI client")
	return contracts.ErrMIDIUnavailable
}

func (m *dummyMIDIClient) Stop() error {
	m.logger.Warn("Stop called on dummy MIDI client")
	return nil
}
