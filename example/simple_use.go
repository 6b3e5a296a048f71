package main

import (
	"fmt"
	"os"

	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/leandrodaf/smfnotes/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	if len(os.Args) < 2 {
		fmt.Println("usage: simple_use <file.mid>")
		return
	}

	decoder, err := midi.NewDecoder(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{
			Channels: []uint8{0, 1, 2, 3},
		}),
	)
	if err != nil {
		log.Error("Failed to initialize decoder", log.Field().Error("error", err))
		return
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Error("Failed to open MIDI file", log.Field().Error("error", err))
		return
	}
	defer f.Close()

	file, err := decoder.DecodeFile(f)
	if err != nil {
		log.Error("Failed to decode MIDI file", log.Field().Error("error", err))
		return
	}

	for _, track := range file.Tracks {
		fmt.Printf("%s (%s): %d notes over %d ticks\n", track.Name, track.Instrument, len(track.Notes), track.TimePassed)
		for _, note := range track.Notes {
			log.Debug("Note",
				log.Field().String("Name", note.Name),
				log.Field().Float64("Frequency", float64(note.Frequency)),
				log.Field().Uint32("Start", note.Start),
				log.Field().Uint32("Duration", note.Duration),
			)
		}
	}
}
