package midi

import (
	"fmt"
	"runtime"

	"github.com/leandrodaf/smfnotes/internal/midi/mididarwin"
	"github.com/leandrodaf/smfnotes/internal/midi/midiwindows"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

var clientInitializers = map[string]func(*contracts.ClientOptions) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,
	"windows": midiwindows.NewMIDIClient,
}

// NewClient picks the live input client for runtime.GOOS.
func NewClient(opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	return newClientFor(runtime.GOOS, opts)
}

func newClientFor(goos string, opts *contracts.ClientOptions) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", contracts.ErrUnsupportedOS, goos)
}
