package contracts

// MIDI is one live channel message captured from an input device.
type MIDI struct {
	Timestamp uint64 // Capture time in nanoseconds since the Unix epoch.
	Command   byte   // Status nibble (0x80..0xE0) with the channel stripped.
	Channel   uint8  // MIDI channel (0-15).
	Note      byte   // First data byte; the note number for note messages.
	Velocity  byte   // Second data byte; the velocity for note messages.
}

// ClientMIDI captures live MIDI input from a platform device.
type ClientMIDI interface {
	Stop() error                               // Stops the capture and releases the device.
	ListDevices() ([]DeviceInfo, error)        // Lists available input devices.
	SelectDevice(deviceID int) error           // Connects to the device at the given index.
	StartCapture(eventChannel chan MIDI) error // Starts forwarding messages to eventChannel.
}

// Recorder folds a live message stream into a Track of notes.
type Recorder interface {
	// Start begins consuming captured messages.
	Start() error
	// Snapshot returns a copy of the track recorded so far.
	Snapshot() Track
	// Stop ends the capture and returns the final track.
	Stop() (Track, error)
	// Updates signals, without blocking the recorder, that the track changed. Signals
	// are coalesced; the channel is closed by Stop.
	Updates() <-chan struct{}
}
