// Package decoder decodes whole Standard MIDI Files: the header chunk plus every track
// chunk, with tracks decoded concurrently.
package decoder

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/leandrodaf/smfnotes/internal/chunk"
	"github.com/leandrodaf/smfnotes/internal/smf"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"go.uber.org/multierr"
)

// Decoder implements contracts.Decoder.
type Decoder struct {
	logger  contracts.Logger
	workers int
	tracks  *smf.TrackDecoder
}

// NewDecoder builds a Decoder from already defaulted options.
func NewDecoder(options *contracts.ClientOptions) (contracts.Decoder, error) {
	return New(options), nil
}

// New returns the concrete Decoder.
func New(options *contracts.ClientOptions) *Decoder {
	workers := options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Decoder{
		logger:  options.Logger,
		workers: workers,
		tracks:  smf.NewTrackDecoder(options),
	}
}

// DecodeTrack decodes one MTrk payload.
func (d *Decoder) DecodeTrack(data []byte, number int) (*contracts.Track, error) {
	return d.tracks.Decode(data, number)
}

// DecodeFile reads the header, collects the declared number of MTrk chunks (skipping
// chunks of other types) and decodes them. Any fatal track error fails the whole file;
// the returned error lists every failed track.
func (d *Decoder) DecodeFile(r io.Reader) (*contracts.File, error) {
	header, err := chunk.ReadHeader(r)
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, 0, header.TrackCount)
	for len(payloads) < int(header.TrackCount) {
		c, err := chunk.Read(r)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: found %d of %d", contracts.ErrMissingTracks, len(payloads), header.TrackCount)
		}
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", len(payloads)+1, err)
		}
		if c.Name != chunk.TrackType {
			d.logger.Warn(contracts.ErrAlienChunk.Error(),
				d.logger.Field().String("chunk", c.Name),
				d.logger.Field().Uint32("size", c.Size))
			continue
		}
		payloads = append(payloads, c.Data)
	}

	tracks, err := d.decodeTracks(payloads)
	if err != nil {
		return nil, err
	}

	d.logger.Info("MIDI file decoded",
		d.logger.Field().Int("format", int(header.Format)),
		d.logger.Field().Int("tracks", len(tracks)),
		d.logger.Field().String("division", header.Division.String()))
	return &contracts.File{Header: header, Tracks: tracks}, nil
}

// decodeTracks runs at most d.workers track decodes at a time. Results keep chunk order.
func (d *Decoder) decodeTracks(payloads [][]byte) ([]*contracts.Track, error) {
	tracks := make([]*contracts.Track, len(payloads))
	errs := make([]error, len(payloads))
	sem := make(chan struct{}, d.workers)

	var wg sync.WaitGroup
	for i, data := range payloads {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, data []byte) {
			defer wg.Done()
			defer func() { <-sem }()
			tracks[i], errs[i] = d.tracks.Decode(data, i+1)
		}(i, data)
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}
	return tracks, nil
}
