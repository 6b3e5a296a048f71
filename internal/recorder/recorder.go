// Package recorder turns a live MIDI message stream into a Track.
package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/smfnotes/internal/smf"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"go.uber.org/multierr"
)

const (
	eventBuffer = 256
	trackName   = "Live recording"
)

var (
	ErrAlreadyStarted = errors.New("recorder already started")
	ErrNotStarted     = errors.New("recorder not started")
)

// Recorder implements contracts.Recorder on top of a contracts.ClientMIDI. Ticks count
// 1/TicksPerSecond seconds since the first captured message.
type Recorder struct {
	logger contracts.Logger
	client contracts.ClientMIDI
	filter *contracts.MIDIEventFilter
	tps    uint64

	mu       sync.Mutex
	tracker  *smf.NoteTracker
	warnings error
	first    uint64
	seen     bool
	events   chan contracts.MIDI
	done     chan struct{}
	stopped  bool
	updates  chan struct{}
}

// New returns a stopped Recorder. options must already carry defaults.
func New(client contracts.ClientMIDI, options *contracts.ClientOptions) *Recorder {
	r := &Recorder{
		logger:  options.Logger,
		client:  client,
		filter:  options.MIDIEventFilter,
		tps:     uint64(options.TicksPerSecond),
		updates: make(chan struct{}, 1),
	}
	if r.tps == 0 {
		r.tps = 1000
	}
	r.tracker = smf.NewNoteTracker(options.PitchPolicy, r.warn)
	return r
}

// Start hands a fresh event channel to the client and starts consuming it. A client that
// refuses the channel leaves the recorder stopped and startable again.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.events != nil || r.stopped {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.events = make(chan contracts.MIDI, eventBuffer)
	r.done = make(chan struct{})
	events, done := r.events, r.done
	r.mu.Unlock()

	if err := r.client.StartCapture(events); err != nil {
		r.mu.Lock()
		r.events, r.done = nil, nil
		r.mu.Unlock()
		return fmt.Errorf("starting capture: %w", err)
	}
	go r.consume(events, done)

	r.logger.Info("Recording started", r.logger.Field().Uint64("ticksPerSecond", r.tps))
	return nil
}

func (r *Recorder) consume(events <-chan contracts.MIDI, done chan<- struct{}) {
	defer close(done)
	for msg := range events {
		r.apply(msg)
	}
}

func (r *Recorder) apply(msg contracts.MIDI) {
	if !r.filter.AllowsCommand(msg.Command) || !r.filter.AllowsChannel(msg.Channel) {
		return
	}

	r.mu.Lock()
	if !r.seen {
		r.first = msg.Timestamp
		r.seen = true
	}
	if tick := r.tick(msg.Timestamp); tick > r.tracker.Now() {
		r.tracker.Advance(tick - r.tracker.Now())
	}
	ev := smf.ChannelEvent{
		Kind:    contracts.MIDICommand(msg.Command & 0xF0),
		Channel: msg.Channel & 0x0F,
		Data1:   msg.Note,
		Data2:   msg.Velocity,
	}
	err := r.tracker.Apply(&ev)
	r.mu.Unlock()

	if err != nil {
		r.logger.Debug("Ignoring note off",
			r.logger.Field().Uint8("note", msg.Note),
			r.logger.Field().Uint8("channel", msg.Channel))
		return
	}
	select {
	case r.updates <- struct{}{}:
	default:
	}
}

// tick converts a capture timestamp to ticks since the first message. Timestamps that
// run backwards map to tick 0.
func (r *Recorder) tick(ts uint64) uint32 {
	if ts <= r.first {
		return 0
	}
	return uint32((ts - r.first) * r.tps / uint64(time.Second))
}

// warn is called by the tracker with r.mu held.
func (r *Recorder) warn(err error) {
	r.logger.Warn("Recoverable recording event", r.logger.Field().Error("error", err))
	multierr.AppendInto(&r.warnings, err)
}

// Snapshot returns the track so far. Notes still sounding have a zero Duration.
func (r *Recorder) Snapshot() contracts.Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	return contracts.Track{
		Number:     1,
		Name:       trackName,
		Instrument: "Unknown",
		Notes:      r.tracker.Notes(),
		TimePassed: r.tracker.Now(),
		Warnings:   multierr.Errors(r.warnings),
	}
}

// Updates implements contracts.Recorder.
func (r *Recorder) Updates() <-chan struct{} {
	return r.updates
}

// Stop stops the client, drains buffered messages and returns the final track.
func (r *Recorder) Stop() (contracts.Track, error) {
	r.mu.Lock()
	if r.events == nil || r.stopped {
		r.mu.Unlock()
		return contracts.Track{}, ErrNotStarted
	}
	r.stopped = true
	events, done := r.events, r.done
	r.mu.Unlock()

	err := r.client.Stop()
	close(events)
	<-done
	close(r.updates)

	track := r.Snapshot()
	r.logger.Info("Recording stopped",
		r.logger.Field().Int("notes", len(track.Notes)),
		r.logger.Field().Uint32("ticks", track.TimePassed))
	return track, err
}
