package smf

import "github.com/leandrodaf/smfnotes/sdk/contracts"

const (
	statusSysEx       = 0xF0
	statusSysExEscape = 0xF7
	statusMeta        = 0xFF
)

// MetaType identifies a meta event (status 0xFF).
type MetaType uint8

const (
	MetaSequenceNumber MetaType = 0x00
	MetaText           MetaType = 0x01
	MetaCopyright      MetaType = 0x02
	MetaTrackName      MetaType = 0x03
	MetaInstrument     MetaType = 0x04
	MetaLyrics         MetaType = 0x05
	MetaMarker         MetaType = 0x06
	MetaCue            MetaType = 0x07
	MetaChannelPrefix  MetaType = 0x20
	MetaEndOfTrack     MetaType = 0x2F
	MetaTempo          MetaType = 0x51
	MetaSMPTEOffset    MetaType = 0x54
	MetaTimeSignature  MetaType = 0x58
	MetaKeySignature   MetaType = 0x59
	MetaSequencer      MetaType = 0x7F
)

// Event is one decoded track event. Every event carries the delta-time that preceded it.
type Event interface {
	DeltaTime() uint32
}

// ChannelEvent is a voice message addressed to one channel.
type ChannelEvent struct {
	Delta   uint32
	Kind    contracts.MIDICommand
	Channel uint8
	Data1   uint8
	Data2   uint8 // Zero for program change and channel pressure.
}

func (e *ChannelEvent) DeltaTime() uint32 { return e.Delta }

// MetaEvent is a non-sounding file event. Payload aliases the chunk buffer.
type MetaEvent struct {
	Delta   uint32
	Type    MetaType
	Payload []byte
}

func (e *MetaEvent) DeltaTime() uint32 { return e.Delta }

// SysExEvent is a system exclusive message (0xF0) or escape (0xF7).
type SysExEvent struct {
	Delta   uint32
	Status  byte
	Payload []byte
}

func (e *SysExEvent) DeltaTime() uint32 { return e.Delta }

// UnknownEvent marks a status byte that matches no event class. Nothing past the status
// byte was consumed.
type UnknownEvent struct {
	Delta  uint32
	Status byte
	Offset int
}

func (e *UnknownEvent) DeltaTime() uint32 { return e.Delta }

// dataLength returns how many data bytes follow a channel status.
func dataLength(kind contracts.MIDICommand) int {
	switch kind {
	case contracts.ProgramChange, contracts.ChannelPressure:
		return 1
	}
	return 2
}
