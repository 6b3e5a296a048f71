package contracts

import "errors"

// Fatal decode errors. A track that fails with one of these produces no Track.
var (
	ErrOutOfBounds   = errors.New("read past end of chunk")
	ErrInvalidVLQ    = errors.New("variable-length quantity longer than 4 bytes")
	ErrInvalidHeader = errors.New("invalid MThd header")
	ErrMissingTracks = errors.New("file ended before all declared tracks")
)

// Recoverable decode conditions. They are reported through Track.Warnings and the logger,
// and never stop a decode.
var (
	ErrUnknownStatus    = errors.New("unknown status byte")
	ErrUnrecognizedMeta = errors.New("unrecognized meta event")
	ErrMetaLength       = errors.New("meta event length does not match its type")
	ErrPitchOutOfRange  = errors.New("note below C1 (24)")
	ErrUnmatchedNoteOff = errors.New("note off without a sounding note")
	ErrAlienChunk       = errors.New("skipped non-track chunk")
)

// Live input errors.
var (
	ErrUnsupportedOS        = errors.New("unsupported operating system")
	ErrNoMIDIDevices        = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice    = errors.New("invalid MIDI device")
	ErrMIDIUnavailable      = errors.New("MIDI input is not available on this platform")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
	ErrNoDeviceSelected     = errors.New("no MIDI device selected")
	ErrCaptureActive        = errors.New("MIDI capture already started")
	ErrNilEventChannel      = errors.New("nil MIDI event channel")
)
