package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/leandrodaf/smfnotes/sdk/midi"
	"github.com/spf13/cobra"
)

const autosaveDelay = 2 * time.Second

var (
	recordDevice   int
	recordDuration time.Duration
)

func init() {
	recordCmd.Flags().IntVar(&recordDevice, "device", 0, "input device ID, see the devices command")
	recordCmd.Flags().DurationVar(&recordDuration, "duration", 0, "stop after this long (default: until interrupted)")
	rootCmd.AddCommand(recordCmd)
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record live MIDI input to a JSON track",
	Long: `Record notes from a live MIDI input device. The track is autosaved to
$` + outDirEnv + `/<uuid>.json while recording and saved once more on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, opts := setup()
		client, err := midi.NewMIDIClient(opts...)
		if err != nil {
			return err
		}
		if err := client.SelectDevice(recordDevice); err != nil {
			return err
		}
		rec, err := midi.NewRecorder(client, opts...)
		if err != nil {
			return err
		}

		dir := outDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, uuid.NewString()+".json")

		if err := rec.Start(); err != nil {
			return err
		}

		debounced := debounce.New(autosaveDelay)
		autosave := func() {
			if err := saveTrack(path, rec.Snapshot()); err != nil {
				log.Error("Autosave failed", log.Field().Error("error", err))
				return
			}
			log.Debug("Autosaved recording", log.Field().String("path", path))
		}
		go func() {
			for range rec.Updates() {
				debounced(autosave)
			}
		}()

		ctx := cmd.Context()
		if recordDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, recordDuration)
			defer cancel()
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Recording... press Ctrl+C to stop.")
		<-ctx.Done()

		track, stopErr := rec.Stop()
		if err := saveTrack(path, track); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d notes saved to %s\n", len(track.Notes), path)
		return stopErr
	},
}

// saveTrack replaces path atomically so autosaves never leave a partial file.
func saveTrack(path string, track contracts.Track) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".recording-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(track); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
