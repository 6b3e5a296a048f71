//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/smfnotes/internal/smf"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

var (
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

type internalPortConnection interface {
	Disconnect()
}

// ClientMid captures live input from a CoreMIDI source on macOS.
type ClientMid struct {
	logger          contracts.Logger
	eventChannel    atomic.Value // chan contracts.MIDI
	client          coremidi.Client
	inputPort       coremidi.InputPort
	portConn        internalPortConnection
	midiEventFilter *contracts.MIDIEventFilter
	coreMIDIConfig  *contracts.CoreMIDIConfig
	mu              sync.Mutex
	capturing       bool
	wg              sync.WaitGroup

	wireMu  sync.Mutex
	running byte // Running status carried between packets.
}

// NewMIDIClient creates the CoreMIDI client named by options.CoreMIDIConfig.
func NewMIDIClient(options *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("clientName", options.CoreMIDIConfig.ClientName))

	return &ClientMid{
		logger:          options.Logger,
		client:          client,
		midiEventFilter: options.MIDIEventFilter,
		coreMIDIConfig:  options.CoreMIDIConfig,
	}, nil
}

// ListDevices returns every CoreMIDI source. A device's ID is its index in the list.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(contracts.ErrNoMIDIDevices.Error())
		return nil, contracts.ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to the source at deviceID, dropping any previous connection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(contracts.ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", contracts.ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handleMIDIMessage)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.wireMu.Lock()
	m.running = 0
	m.wireMu.Unlock()

	m.logger.Info("MIDI device successfully connected")
	return nil
}

// handleMIDIMessage splits one packet into channel messages and forwards the ones that
// pass the filter. A packet can hold several messages and may rely on running status.
func (m *ClientMid) handleMIDIMessage(source coremidi.Source, packet coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	eventChannel, _ := m.eventChannel.Load().(chan contracts.MIDI)
	if eventChannel == nil {
		m.logger.Warn("eventChannel not initialized or of invalid type")
		return
	}

	m.wireMu.Lock()
	events, err := smf.SplitWire(packet.Data, &m.running)
	m.wireMu.Unlock()
	if err != nil {
		m.logger.Warn(contracts.ErrIncompleteMIDIPacket.Error(),
			m.logger.Field().Int("bytes", len(packet.Data)),
			m.logger.Field().Error("error", err))
	}

	now := uint64(time.Now().UTC().UnixNano())
	for _, ev := range events {
		if !m.midiEventFilter.AllowsCommand(byte(ev.Kind)) || !m.midiEventFilter.AllowsChannel(ev.Channel) {
			continue
		}
		event := contracts.MIDI{
			Timestamp: now,
			Command:   byte(ev.Kind),
			Channel:   ev.Channel,
			Note:      ev.Data1,
			Velocity:  ev.Data2,
		}
		select {
		case eventChannel <- event:
		default:
			m.logger.Warn("Event buffer full; dropping MIDI event")
		}
	}
}

// StartCapture starts forwarding messages to eventChannel, replacing any running capture.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return contracts.ErrNilEventChannel
	}
	if m.portConn == nil {
		m.logger.Error(contracts.ErrNoDeviceSelected.Error())
		return contracts.ErrNoDeviceSelected
	}

	if m.capturing {
		m.logger.Warn("Capture already started; replacing event channel")
	}

	m.logger.Info("Starting MIDI event capture")
	m.eventChannel.Store(eventChannel)
	m.capturing = true
	return nil
}

// Stop disconnects the source and waits for in-flight packets. Calling it again is a no-op.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.capturing {
		return nil
	}
	m.logger.Info("Stopping MIDI capture")
	m.capturing = false

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	// Packets that arrive late hit an unread channel and are dropped by the select.
	m.eventChannel.Store(make(chan contracts.MIDI))
	m.wg.Wait()

	m.logger.Info("MIDI capture stopped")
	return nil
}
