package smf

import (
	"fmt"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

// NoteTracker turns note-on/note-off pairs into Notes against a running tick clock.
//
// Notes are stored append-only in note-on order. open[i] says whether notes[i] is still
// waiting for its note-off; a note released on the tick it started keeps duration 0 but
// is closed.
type NoteTracker struct {
	notes  []contracts.Note
	open   []bool
	now    uint32
	policy contracts.PitchPolicy
	warn   func(error)
}

// NewNoteTracker returns an empty tracker. warn receives pitch range warnings and may be nil.
func NewNoteTracker(policy contracts.PitchPolicy, warn func(error)) *NoteTracker {
	return &NoteTracker{policy: policy, warn: warn}
}

// Advance moves the clock forward by delta ticks.
func (t *NoteTracker) Advance(delta uint32) {
	t.now += delta
}

// Now returns the absolute tick of the clock.
func (t *NoteTracker) Now() uint32 {
	return t.now
}

// StartNote opens a note at the current tick.
func (t *NoteTracker) StartNote(id, velocity, channel uint8) {
	name, freq, err := PitchInfo(id)
	if err != nil {
		t.report(err)
		if t.policy == contracts.RejectPitch {
			return
		}
		name, freq, _ = PitchInfo(contracts.MinNoteID)
	}
	t.notes = append(t.notes, contracts.Note{
		ID:        id,
		Velocity:  velocity,
		Channel:   channel,
		Name:      name,
		Frequency: freq,
		Start:     t.now,
	})
	t.open = append(t.open, true)
}

// EndNote closes the most recently opened sounding note with the given id.
// It returns false when no such note exists.
func (t *NoteTracker) EndNote(id uint8) bool {
	for i := len(t.notes) - 1; i >= 0; i-- {
		if t.open[i] && t.notes[i].ID == id {
			t.notes[i].Duration = t.now - t.notes[i].Start
			t.open[i] = false
			return true
		}
	}
	return false
}

// Apply feeds a channel event to the tracker. Note-on with velocity 0 is a note-off;
// other kinds are ignored. An unmatched note-off returns ErrUnmatchedNoteOff.
func (t *NoteTracker) Apply(ev *ChannelEvent) error {
	switch ev.Kind {
	case contracts.NoteOn:
		if ev.Data2 != 0 {
			t.StartNote(ev.Data1, ev.Data2, ev.Channel)
			return nil
		}
	case contracts.NoteOff:
	default:
		return nil
	}
	if !t.EndNote(ev.Data1) {
		return fmt.Errorf("%w: note %d", contracts.ErrUnmatchedNoteOff, ev.Data1)
	}
	return nil
}

// Sounding returns how many notes are still open.
func (t *NoteTracker) Sounding() int {
	n := 0
	for _, o := range t.open {
		if o {
			n++
		}
	}
	return n
}

// Notes returns a copy of the notes in note-on order.
func (t *NoteTracker) Notes() []contracts.Note {
	out := make([]contracts.Note, len(t.notes))
	copy(out, t.notes)
	return out
}

func (t *NoteTracker) report(err error) {
	if t.warn != nil {
		t.warn(err)
	}
}
