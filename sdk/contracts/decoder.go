package contracts

import "io"

// Decoder turns Standard MIDI File bytes into tracks of notes.
//
// A Decoder is safe for concurrent use; every call works on its own input.
type Decoder interface {
	// DecodeFile reads a complete file: the MThd header followed by its track chunks.
	DecodeFile(r io.Reader) (*File, error)
	// DecodeTrack decodes the payload of one MTrk chunk. number is the 1-based
	// track index used for the default "Track N" name.
	DecodeTrack(data []byte, number int) (*Track, error)
}
