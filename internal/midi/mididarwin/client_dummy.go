//go:build !darwin
// +build !darwin

package mididarwin

import (
	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

// DummyMIDIClient stands in for CoreMIDI on other platforms. Every device call fails with
// contracts.ErrMIDIUnavailable.
type DummyMIDIClient struct {
	logger contracts.Logger
}

func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	options.Logger.Info("Using dummy MIDI client for non-macOS system")
	return &DummyMIDIClient{
		logger: options.Logger,
	}, nil
}

func (m *DummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, contracts.ErrMIDIUnavailable
}

func (m *DummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client", m.logger.Field().Int("deviceID", deviceID))
	return contracts.ErrMIDIUnavailable
}

func (m *DummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) error {
	m.logger.Warn("StartCapture called on dummy MIDI client")
	return contracts.ErrMIDIUnavailable
}

func (m *DummyMIDIClient) Stop() error {
	m.logger.Warn("Stop called on dummy MIDI client")
	return nil
}
