package main

import (
	"context"

	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:          "smfnotes",
	Short:        "Decode Standard MIDI Files into notes",
	Long:         `smfnotes turns Standard MIDI Files and live MIDI input into tracks of timed, named notes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

// setup builds the command logger and the SDK options that share it.
func setup() (contracts.Logger, []contracts.Option) {
	log := logger.NewZapLogger()
	level, ok := contracts.ParseLogLevel(logLevel)
	log.SetLevel(level)
	if logFile != "" {
		log.SetDestination(contracts.FileLog, logFile)
	}
	if !ok {
		log.Warn("Unknown log level, using info", log.Field().String("level", logLevel))
	}
	return log, []contracts.Option{contracts.WithLogger(log), contracts.WithLogLevel(level)}
}
