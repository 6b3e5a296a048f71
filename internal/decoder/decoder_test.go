package decoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"go.uber.org/multierr"
)

func newTestDecoder(workers int) *Decoder {
	return New(&contracts.ClientOptions{Logger: logger.NewNopLogger(), Workers: workers})
}

func chunkBytes(name string, data []byte) []byte {
	out := append([]byte(name), 0, 0, 0, 0)
	binary.BigEndian.PutUint32(out[4:], uint32(len(data)))
	return append(out, data...)
}

func header(format, tracks, division uint16) []byte {
	data := make([]byte, 6)
	binary.BigEndian.PutUint16(data[0:], format)
	binary.BigEndian.PutUint16(data[2:], tracks)
	binary.BigEndian.PutUint16(data[4:], division)
	return chunkBytes("MThd", data)
}

// The format 1 example file printed in the Standard MIDI Files 1.0 document.
var referenceFile = []byte{
	0x4d, 0x54, 0x68, 0x64, 0, 0, 0, 6, 0, 1, 0, 4, 0, 0x60,
	0x4d, 0x54, 0x72, 0x6b, 0, 0, 0, 0x14,
	0, 0xff, 0x58, 4, 4, 2, 0x18, 8,
	0, 0xff, 0x51, 3, 7, 0xa1, 0x20,
	0x83, 0, 0xff, 0x2f, 0,
	0x4d, 0x54, 0x72, 0x6b, 0, 0, 0, 0x10,
	0, 0xc0, 5,
	0x81, 0x40, 0x90, 0x4c, 0x20,
	0x81, 0x40, 0x4c, 0,
	0, 0xff, 0x2f, 0,
	0x4d, 0x54, 0x72, 0x6b, 0, 0, 0, 0xf,
	0, 0xc1, 0x2e,
	0x60, 0x91, 0x43, 0x40,
	0x82, 0x20, 0x43, 0,
	0, 0xff, 0x2f, 0,
	0x4d, 0x54, 0x72, 0x6b, 0, 0, 0, 0x15,
	0, 0xc2, 0x46,
	0, 0x92, 0x30, 0x60,
	0, 0x3c, 0x60,
	0x83, 0, 0x30, 0,
	0, 0x3c, 0,
	0, 0xff, 0x2f, 0,
}

func TestDecodeReferenceFile(t *testing.T) {
	file, err := newTestDecoder(2).DecodeFile(bytes.NewReader(referenceFile))
	require.NoError(t, err)

	assert.Equal(t, contracts.HeaderInfo{Format: 1, TrackCount: 4, Division: 96}, file.Header)
	require.Len(t, file.Tracks, 4)

	conductor := file.Tracks[0]
	assert.Equal(t, "Track 1", conductor.Name)
	assert.Empty(t, conductor.Notes)
	assert.Equal(t, uint32(500000), conductor.Tempo)
	assert.Equal(t, "4/4", conductor.TimeSignature.String())
	assert.Equal(t, uint32(384), conductor.TimePassed)

	type span struct {
		name            string
		channel         uint8
		start, duration uint32
	}
	expected := [][]span{
		{{"E5", 0, 192, 192}},
		{{"G4", 1, 96, 288}},
		{{"C3", 2, 0, 384}, {"C4", 2, 0, 384}},
	}
	for i, want := range expected {
		track := file.Tracks[i+1]
		assert.Equal(t, fmt.Sprintf("Track %d", i+2), track.Name)
		assert.True(t, track.EndOfTrack)
		require.Len(t, track.Notes, len(want), track.Name)
		for j, w := range want {
			n := track.Notes[j]
			assert.Equal(t, w, span{n.Name, n.Channel, n.Start, n.Duration}, track.Name)
		}
	}
}

func TestDecodeGomidiFile(t *testing.T) {
	var conductor smf.Track
	conductor.Add(0, smf.MetaMeter(3, 4))
	conductor.Add(0, smf.MetaTempo(120))
	conductor.Close(192)

	var melody smf.Track
	melody.Add(0, smf.MetaTrackSequenceName("Melody"))
	melody.Add(0, smf.MetaInstrument("Flute"))
	melody.Add(0, midi.NoteOn(3, 60, 100))
	melody.Add(96, midi.NoteOff(3, 60))
	melody.Add(0, midi.NoteOn(3, 64, 90))
	melody.Add(48, midi.NoteOn(3, 64, 0))
	melody.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)
	require.NoError(t, s.Add(conductor))
	require.NoError(t, s.Add(melody))
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	file, err := newTestDecoder(0).DecodeFile(&buf)
	require.NoError(t, err)
	require.Len(t, file.Tracks, 2)
	assert.Equal(t, uint16(96), file.Header.Division.TicksPerQuarterNote())

	assert.Equal(t, uint32(500000), file.Tracks[0].Tempo)
	require.NotNil(t, file.Tracks[0].TimeSignature)
	assert.Equal(t, uint8(3), file.Tracks[0].TimeSignature.Numerator)
	assert.Equal(t, uint8(4), file.Tracks[0].TimeSignature.Denominator)
	assert.Equal(t, uint32(192), file.Tracks[0].TimePassed)

	track := file.Tracks[1]
	assert.Equal(t, "Melody", track.Name)
	assert.Equal(t, "Flute", track.Instrument)
	assert.Equal(t, uint32(144), track.TimePassed)
	require.Len(t, track.Notes, 2)
	assert.Equal(t, contracts.Note{ID: 60, Velocity: 100, Channel: 3, Name: "C4", Frequency: 32.70 * 8, Start: 0, Duration: 96}, track.Notes[0])
	assert.Equal(t, contracts.Note{ID: 64, Velocity: 90, Channel: 3, Name: "E4", Frequency: 41.20 * 8, Start: 96, Duration: 48}, track.Notes[1])
}

func TestTrackOrderWithManyWorkers(t *testing.T) {
	var file []byte
	file = append(file, header(1, 16, 480)...)
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("part %02d", i)
		data := append([]byte{0, 0xFF, 0x03, byte(len(name))}, name...)
		data = append(data, 0, 0x90, byte(40+i), 100, 0x10, 0x80, byte(40+i), 0)
		file = append(file, chunkBytes("MTrk", data)...)
	}

	decoded, err := newTestDecoder(3).DecodeFile(bytes.NewReader(file))
	require.NoError(t, err)
	require.Len(t, decoded.Tracks, 16)
	for i, track := range decoded.Tracks {
		assert.Equal(t, i+1, track.Number)
		assert.Equal(t, fmt.Sprintf("part %02d", i), track.Name)
		require.Len(t, track.Notes, 1)
		assert.Equal(t, uint8(40+i), track.Notes[0].ID)
	}
}

func TestAlienChunksAreSkipped(t *testing.T) {
	file := append(header(0, 1, 96), chunkBytes("XFIH", []byte{1, 2, 3})...)
	file = append(file, chunkBytes("MTrk", []byte{0, 0x90, 60, 1, 0, 0xFF, 0x2F, 0})...)

	decoded, err := newTestDecoder(1).DecodeFile(bytes.NewReader(file))
	require.NoError(t, err)
	require.Len(t, decoded.Tracks, 1)
	assert.Len(t, decoded.Tracks[0].Notes, 1)
}

func TestDecodeFileErrors(t *testing.T) {
	_, err := newTestDecoder(1).DecodeFile(bytes.NewReader(header(1, 3, 96)))
	assert.ErrorIs(t, err, contracts.ErrMissingTracks)

	_, err = newTestDecoder(1).DecodeFile(bytes.NewReader([]byte("RIFF\x00\x00\x00\x06abcdef")))
	assert.ErrorIs(t, err, contracts.ErrInvalidHeader)

	file := header(1, 3, 96)
	file = append(file, chunkBytes("MTrk", []byte{0, 0xFF, 0x2F, 0})...)
	file = append(file, chunkBytes("MTrk", []byte{0, 0x90, 60})...)
	file = append(file, chunkBytes("MTrk", []byte{0, 0xFF, 0x03, 9})...)
	_, err = newTestDecoder(2).DecodeFile(bytes.NewReader(file))
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrOutOfBounds)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "track 2")
	assert.Contains(t, err.Error(), "track 3")
}
