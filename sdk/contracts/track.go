package contracts

import "fmt"

// MinNoteID is the lowest MIDI note number the pitch table names (C1).
const MinNoteID = 24

// Note is one sounded note, opened by a note-on and closed by the matching note-off.
type Note struct {
	ID        uint8   `json:"id"`        // MIDI note number (0-127).
	Velocity  uint8   `json:"velocity"`  // Note-on velocity.
	Channel   uint8   `json:"channel"`   // MIDI channel (0-15).
	Name      string  `json:"name"`      // Pitch class plus octave, e.g. "C#4".
	Frequency float32 `json:"frequency"` // Hz.
	Start     uint32  `json:"start"`     // Absolute tick of the note-on.
	Duration  uint32  `json:"duration"`  // Ticks until the note-off; 0 while open or when released on its start tick.
}

// End returns the absolute tick at which the note was released.
func (n Note) End() uint32 {
	return n.Start + n.Duration
}

// TimeSignature is the decoded payload of a 0x58 meta event.
type TimeSignature struct {
	Numerator               uint8 `json:"numerator"`
	Denominator             uint8 `json:"denominator"` // Already expanded: 2^value.
	ClocksPerClick          uint8 `json:"clocks_per_click"`
	ThirtySecondsPerQuarter uint8 `json:"thirty_seconds_per_quarter"`
}

func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
}

// KeySignature is the decoded payload of a 0x59 meta event.
type KeySignature struct {
	SharpsOrFlats int8 `json:"sharps_or_flats"` // Negative for flats.
	Minor         bool `json:"minor"`
}

// Track is the result of decoding one MTrk chunk.
type Track struct {
	Number        int            `json:"number"`
	Name          string         `json:"name"`
	Instrument    string         `json:"instrument"`
	Notes         []Note         `json:"notes"`
	TimePassed    uint32         `json:"time_passed"`
	Tempo         uint32         `json:"tempo,omitempty"` // Microseconds per quarter note.
	TimeSignature *TimeSignature `json:"time_signature,omitempty"`
	KeySignature  *KeySignature  `json:"key_signature,omitempty"`
	EndOfTrack    bool           `json:"end_of_track"`
	Warnings      []error        `json:"-"`
}

// BPM converts Tempo to beats per minute. It returns 0 when no tempo was set.
func (t *Track) BPM() float64 {
	if t.Tempo == 0 {
		return 0
	}
	return 60000000 / float64(t.Tempo)
}

// TimeDivision is the division field of the MThd chunk.
type TimeDivision uint16

// Metrical reports whether delta-times count ticks per quarter note.
func (d TimeDivision) Metrical() bool {
	return d&0x8000 == 0
}

// TicksPerQuarterNote returns 0 for SMPTE divisions.
func (d TimeDivision) TicksPerQuarterNote() uint16 {
	if !d.Metrical() {
		return 0
	}
	return uint16(d)
}

// SMPTE returns frames per second and ticks per frame, or 0, 0 for metrical divisions.
func (d TimeDivision) SMPTE() (fps uint8, ticksPerFrame uint8) {
	if d.Metrical() {
		return 0, 0
	}
	// The upper byte is a negative two's complement frame rate.
	return uint8(-int8(d >> 8)), uint8(d & 0xff)
}

func (d TimeDivision) String() string {
	if d.Metrical() {
		return fmt.Sprintf("%d ticks per quarter note", d.TicksPerQuarterNote())
	}
	fps, tpf := d.SMPTE()
	return fmt.Sprintf("%d frames per second, %d ticks per frame", fps, tpf)
}

// HeaderInfo is the decoded MThd payload.
type HeaderInfo struct {
	Format     uint16       `json:"format"`
	TrackCount uint16       `json:"track_count"`
	Division   TimeDivision `json:"division"`
}

// File is a fully decoded Standard MIDI File.
type File struct {
	Header HeaderInfo `json:"header"`
	Tracks []*Track   `json:"tracks"`
}
