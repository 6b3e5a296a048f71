package midi

import (
	"runtime"

	"github.com/leandrodaf/smfnotes/internal/logger"
	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

const (
	defaultClientName     = "smfnotes"
	defaultTicksPerSecond = 1000
)

// applyDefaultOptions applies opts and fills in everything left unset.
func applyDefaultOptions(opts ...contracts.Option) (contracts.ClientOptions, error) {
	options := &contracts.ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	if options.Workers <= 0 {
		options.Workers = runtime.GOMAXPROCS(0)
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: defaultClientName}
	}
	if options.TicksPerSecond == 0 {
		options.TicksPerSecond = defaultTicksPerSecond
	}

	// The zero LogLevel is Info, so an unset level needs no special case.
	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
