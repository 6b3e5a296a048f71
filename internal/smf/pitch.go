package smf

import (
	"fmt"
	"strconv"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

type pitchClass struct {
	name string
	base float32 // Frequency in octave 1.
}

// Indexed by (id - 24 + 1) % 12, so B sits at 0 and C at 1.
var pitchTable = [12]pitchClass{
	{"B", 61.74}, {"C", 32.70}, {"C#", 34.65}, {"D", 36.71},
	{"D#", 38.89}, {"E", 41.20}, {"F", 43.65}, {"F#", 46.25},
	{"G", 49.00}, {"G#", 51.91}, {"A", 55.00}, {"A#", 58.27},
}

// PitchInfo returns the note name (pitch class and octave) and frequency of a MIDI note
// number. Each octave doubles the octave-1 table frequency. Notes below C1 (24) are
// outside the table and return ErrPitchOutOfRange.
func PitchInfo(id uint8) (string, float32, error) {
	if id < contracts.MinNoteID {
		return "", 0, fmt.Errorf("%w: %d", contracts.ErrPitchOutOfRange, id)
	}
	key := int(id) - contracts.MinNoteID + 1
	class := key % 12
	octave := key / 12
	if class != 0 {
		octave++
	}
	p := pitchTable[class]
	return p.name + strconv.Itoa(octave), p.base * float32(uint32(1)<<uint(octave-1)), nil
}
