package midi

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions()
	require.NoError(t, err)

	assert.NotNil(t, options.Logger)
	assert.Equal(t, contracts.InfoLevel, options.LogLevel)
	assert.Equal(t, runtime.GOMAXPROCS(0), options.Workers)
	assert.Equal(t, contracts.ClampPitch, options.PitchPolicy)
	assert.Equal(t, "smfnotes", options.CoreMIDIConfig.ClientName)
	assert.Equal(t, uint32(1000), options.TicksPerSecond)
	assert.Nil(t, options.MIDIEventFilter)
}

func TestApplyOptionsOverrides(t *testing.T) {
	log := logger.NewNopLogger()
	options, err := applyDefaultOptions(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithWorkers(3),
		contracts.WithPitchPolicy(contracts.RejectPitch),
		contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: "studio"}),
		contracts.WithTicksPerSecond(48000),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{Channels: []uint8{9}}),
	)
	require.NoError(t, err)

	assert.Same(t, log, options.Logger)
	assert.Equal(t, contracts.DebugLevel, options.LogLevel)
	assert.Equal(t, 3, options.Workers)
	assert.Equal(t, contracts.RejectPitch, options.PitchPolicy)
	assert.Equal(t, "studio", options.CoreMIDIConfig.ClientName)
	assert.Equal(t, uint32(48000), options.TicksPerSecond)
	assert.Equal(t, []uint8{9}, options.MIDIEventFilter.Channels)
}

func TestNewDecoder(t *testing.T) {
	dec, err := NewDecoder(contracts.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)

	track, err := dec.DecodeTrack([]byte{0x00, 0x90, 0x3C, 0x40, 0x60, 0x80, 0x3C, 0x00}, 1)
	require.NoError(t, err)
	require.Len(t, track.Notes, 1)
	assert.Equal(t, "C4", track.Notes[0].Name)
	assert.Equal(t, uint32(96), track.Notes[0].Duration)

	_, err = dec.DecodeFile(bytes.NewReader(nil))
	assert.ErrorIs(t, err, contracts.ErrInvalidHeader)
}

func TestNewClientForUnsupportedOS(t *testing.T) {
	_, err := newClientFor("plan9", &contracts.ClientOptions{Logger: logger.NewNopLogger()})
	assert.ErrorIs(t, err, contracts.ErrUnsupportedOS)
}

func TestNewRecorder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs the dummy winmm client")
	}
	client, err := newClientFor("windows", &contracts.ClientOptions{Logger: logger.NewNopLogger()})
	require.NoError(t, err)

	rec, err := NewRecorder(client, contracts.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, rec.Start(), contracts.ErrMIDIUnavailable)
	_, err = rec.Stop()
	assert.Error(t, err)
}
