package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/leandrodaf/smfnotes/sdk/midi"
	"github.com/spf13/cobra"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	decodeJSON  bool
	decodeTrack int
)

func init() {
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "print the decoded file as JSON")
	decodeCmd.Flags().IntVar(&decodeTrack, "track", 0, "only show this track (1-based)")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file>",
	Short: "Decode a MIDI file and print its tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, opts := setup()
		dec, err := midi.NewDecoder(opts...)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		file, err := dec.DecodeFile(bufio.NewReader(f))
		if err != nil {
			log.Error("Failed to decode MIDI file",
				log.Field().String("path", args[0]),
				log.Field().Error("error", err))
			return err
		}
		if err := selectTrack(file, decodeTrack); err != nil {
			return err
		}

		if decodeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(file)
		}
		writeSummary(cmd.OutOrStdout(), file)
		return nil
	},
}

// selectTrack narrows file to one track. number 0 keeps all of them.
func selectTrack(file *contracts.File, number int) error {
	if number == 0 {
		return nil
	}
	if number < 0 || number > len(file.Tracks) {
		return fmt.Errorf("track %d out of range, file has %d", number, len(file.Tracks))
	}
	file.Tracks = file.Tracks[number-1 : number]
	return nil
}

func writeSummary(w io.Writer, file *contracts.File) {
	fmt.Fprintf(w, "format %d, %d tracks, %s\n", file.Header.Format, file.Header.TrackCount, file.Header.Division)
	for _, t := range file.Tracks {
		fmt.Fprintf(w, "\n%d. %s (%s)\n", t.Number, t.Name, t.Instrument)
		fmt.Fprintf(w, "   notes: %d, ticks: %d", len(t.Notes), t.TimePassed)
		if t.Tempo != 0 {
			fmt.Fprintf(w, ", tempo: %.1f bpm", t.BPM())
		}
		if t.TimeSignature != nil {
			fmt.Fprintf(w, ", time: %s", t.TimeSignature)
		}
		fmt.Fprintln(w)

		if len(t.Notes) > 0 {
			ids := make([]uint8, len(t.Notes))
			for i, n := range t.Notes {
				ids[i] = n.ID
			}
			lo, hi := bounds(ids)
			fmt.Fprintf(w, "   range: %d-%d\n", lo, hi)
		}

		hist := channelHistogram(t.Notes)
		channels := maps.Keys(hist)
		slices.Sort(channels)
		for _, ch := range channels {
			fmt.Fprintf(w, "   channel %2d: %d notes\n", ch+1, hist[ch])
		}
		for _, warning := range t.Warnings {
			fmt.Fprintf(w, "   warning: %v\n", warning)
		}
	}
}

func channelHistogram(notes []contracts.Note) map[uint8]int {
	hist := make(map[uint8]int)
	for _, n := range notes {
		hist[n.Channel]++
	}
	return hist
}

// bounds returns the smallest and largest value of a non-empty slice.
func bounds[A constraints.Ordered](values []A) (A, A) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
