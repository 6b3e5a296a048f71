package contracts

// MIDICommand is a channel message status nibble.
type MIDICommand byte

const (
	NoteOff            MIDICommand = 0x80
	NoteOn             MIDICommand = 0x90
	PolyphonicPressure MIDICommand = 0xA0
	ControlChange      MIDICommand = 0xB0
	ProgramChange      MIDICommand = 0xC0
	ChannelPressure    MIDICommand = 0xD0
	PitchBend          MIDICommand = 0xE0
)

// MIDIEventFilter restricts which channel messages reach the note tracker.
// Empty slices allow everything.
type MIDIEventFilter struct {
	Commands []MIDICommand // Allowed commands; live capture only.
	Channels []uint8       // Allowed channels (0-15).
}

// AllowsCommand reports whether command passes the filter.
func (f *MIDIEventFilter) AllowsCommand(command byte) bool {
	if f == nil || len(f.Commands) == 0 {
		return true
	}
	for _, allowed := range f.Commands {
		if command&0xF0 == byte(allowed) {
			return true
		}
	}
	return false
}

// AllowsChannel reports whether channel passes the filter.
func (f *MIDIEventFilter) AllowsChannel(channel uint8) bool {
	if f == nil || len(f.Channels) == 0 {
		return true
	}
	for _, allowed := range f.Channels {
		if channel == allowed {
			return true
		}
	}
	return false
}

// PitchPolicy decides what happens to notes below MinNoteID.
type PitchPolicy int

const (
	// ClampPitch keeps the note and names it as C1.
	ClampPitch PitchPolicy = iota
	// RejectPitch drops the note-on.
	RejectPitch
)

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// ClientOptions is the configuration shared by decoders, live clients and recorders.
type ClientOptions struct {
	Logger          Logger           // Logger for decode warnings and device events.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	Workers         int              // Maximum tracks decoded concurrently.
	PitchPolicy     PitchPolicy      // Handling of notes below C1.
	MIDIEventFilter *MIDIEventFilter // Optional filter for channel events.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	TicksPerSecond  uint32           // Tick resolution of recorded tracks.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to path instead of stderr.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithWorkers bounds how many tracks of one file are decoded in parallel.
func WithWorkers(n int) Option {
	return func(opts *ClientOptions) {
		opts.Workers = n
	}
}

// WithPitchPolicy selects how notes below C1 are handled.
func WithPitchPolicy(p PitchPolicy) Option {
	return func(opts *ClientOptions) {
		opts.PitchPolicy = p
	}
}

// WithMIDIEventFilter sets the channel event filter.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *ClientOptions) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *ClientOptions) {
		opts.CoreMIDIConfig = &config
	}
}

// WithTicksPerSecond sets the tick resolution used by recorders.
func WithTicksPerSecond(tps uint32) Option {
	return func(opts *ClientOptions) {
		opts.TicksPerSecond = tps
	}
}
