package smf

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"go.uber.org/multierr"
)

const (
	defaultInstrument = "Unknown"
	trackNameFormat   = "Track %d"
)

// TrackDecoder decodes MTrk payloads. It holds no per-track state and can be shared
// between goroutines.
type TrackDecoder struct {
	logger contracts.Logger
	policy contracts.PitchPolicy
	filter *contracts.MIDIEventFilter
}

// NewTrackDecoder builds a TrackDecoder from already defaulted options.
func NewTrackDecoder(options *contracts.ClientOptions) *TrackDecoder {
	return &TrackDecoder{
		logger: options.Logger,
		policy: options.PitchPolicy,
		filter: options.MIDIEventFilter,
	}
}

// Decode runs one pass over a track chunk's bytes. It stops at an End-Of-Track meta event
// or when the bytes run out. Recoverable conditions end up in Track.Warnings; a read past
// the end of data aborts the decode and no Track is returned.
func (d *TrackDecoder) Decode(data []byte, number int) (*contracts.Track, error) {
	b := &trackBuilder{
		logger:  d.logger,
		filter:  d.filter,
		decoder: newEventDecoder(data),
		track: contracts.Track{
			Number:     number,
			Name:       fmt.Sprintf(trackNameFormat, number),
			Instrument: defaultInstrument,
		},
	}
	b.tracker = NewNoteTracker(d.policy, b.warn)

	if err := b.run(); err != nil {
		d.logger.Error("Track decode failed",
			d.logger.Field().Int("track", number),
			d.logger.Field().Int("offset", b.decoder.cursor.Offset()),
			d.logger.Field().Error("error", err))
		return nil, fmt.Errorf("track %d: %w", number, err)
	}

	track := b.track
	track.Notes = b.tracker.Notes()
	track.TimePassed = b.tracker.Now()
	track.Warnings = multierr.Errors(b.warnings)

	d.logger.Debug("Track decoded",
		d.logger.Field().Int("track", number),
		d.logger.Field().String("name", track.Name),
		d.logger.Field().Int("notes", len(track.Notes)),
		d.logger.Field().Uint32("ticks", track.TimePassed),
		d.logger.Field().Int("warnings", len(track.Warnings)))
	return &track, nil
}

type trackBuilder struct {
	logger   contracts.Logger
	filter   *contracts.MIDIEventFilter
	decoder  *eventDecoder
	tracker  *NoteTracker
	track    contracts.Track
	tempoSet bool
	warnings error
}

func (b *trackBuilder) run() error {
	for !b.decoder.done() {
		ev, err := b.decoder.next()
		if err != nil {
			return err
		}
		b.tracker.Advance(ev.DeltaTime())

		switch e := ev.(type) {
		case *ChannelEvent:
			b.channel(e)
		case *MetaEvent:
			if b.meta(e) {
				b.track.EndOfTrack = true
				return nil
			}
		case *SysExEvent:
		case *UnknownEvent:
			b.warn(fmt.Errorf("%w 0x%02X at offset %d", contracts.ErrUnknownStatus, e.Status, e.Offset))
		}
	}
	return nil
}

func (b *trackBuilder) channel(e *ChannelEvent) {
	if !b.filter.AllowsChannel(e.Channel) {
		return
	}
	if err := b.tracker.Apply(e); err != nil {
		b.logger.Debug("Ignoring note off",
			b.logger.Field().Int("track", b.track.Number),
			b.logger.Field().Uint8("note", e.Data1),
			b.logger.Field().Uint8("channel", e.Channel),
			b.logger.Field().Uint32("tick", b.tracker.Now()))
	}
}

// meta applies a meta event to the track and reports whether it ended the track.
func (b *trackBuilder) meta(e *MetaEvent) bool {
	switch e.Type {
	case MetaEndOfTrack:
		return true
	case MetaTrackName:
		b.track.Name = string(e.Payload)
	case MetaInstrument:
		b.track.Instrument = string(e.Payload)
	case MetaText, MetaCopyright, MetaLyrics, MetaMarker, MetaCue, MetaSequencer:
	case MetaSequenceNumber:
		if len(e.Payload) != 0 {
			b.expectLength(e, 2)
		}
	case MetaChannelPrefix:
		b.expectLength(e, 1)
	case MetaSMPTEOffset:
		b.expectLength(e, 5)
	case MetaTempo:
		if b.expectLength(e, 3) && !b.tempoSet {
			b.track.Tempo = uint32(e.Payload[0])<<16 | uint32(e.Payload[1])<<8 | uint32(e.Payload[2])
			b.tempoSet = true
		}
	case MetaTimeSignature:
		if b.expectLength(e, 4) && b.track.TimeSignature == nil {
			b.track.TimeSignature = &contracts.TimeSignature{
				Numerator:               e.Payload[0],
				Denominator:             denominator(e.Payload[1]),
				ClocksPerClick:          e.Payload[2],
				ThirtySecondsPerQuarter: e.Payload[3],
			}
		}
	case MetaKeySignature:
		if b.expectLength(e, 2) && b.track.KeySignature == nil {
			b.track.KeySignature = &contracts.KeySignature{
				SharpsOrFlats: int8(e.Payload[0]),
				Minor:         e.Payload[1] != 0,
			}
		}
	default:
		b.warn(fmt.Errorf("%w 0x%02X (%d bytes skipped)", contracts.ErrUnrecognizedMeta, uint8(e.Type), len(e.Payload)))
	}
	return false
}

func (b *trackBuilder) expectLength(e *MetaEvent, n int) bool {
	if len(e.Payload) == n {
		return true
	}
	b.warn(fmt.Errorf("%w: type 0x%02X declared %d bytes, expected %d",
		contracts.ErrMetaLength, uint8(e.Type), len(e.Payload), n))
	return false
}

func (b *trackBuilder) warn(err error) {
	fields := []contracts.Field{
		b.logger.Field().Int("track", b.track.Number),
		b.logger.Field().Int("offset", b.decoder.cursor.Offset()),
		b.logger.Field().Error("error", err),
	}
	if errors.Is(err, contracts.ErrPitchOutOfRange) {
		fields = append(fields, b.logger.Field().Uint32("tick", b.tracker.Now()))
	}
	b.logger.Warn("Recoverable track event", fields...)
	multierr.AppendInto(&b.warnings, err)
}

// denominator expands the log2 time signature denominator.
func denominator(pow uint8) uint8 {
	if pow > 7 {
		return 0
	}
	return 1 << pow
}
