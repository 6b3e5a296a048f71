package smf

import (
	"fmt"

	"github.com/leandrodaf/smfnotes/sdk/contracts"
)

// SplitWire splits live MIDI wire bytes, such as one CoreMIDI packet, into channel
// messages. running carries running status across calls. Real-time bytes may appear
// anywhere and are dropped, as are sysex and system common messages. Delta is always 0.
func SplitWire(data []byte, running *byte) ([]ChannelEvent, error) {
	var out []ChannelEvent
	c := NewCursor(data)
	inSysEx := false
	for c.Remaining() {
		b, _ := c.ReadByte()
		if b >= 0xF8 {
			continue
		}
		if inSysEx {
			if b&0x80 == 0 {
				continue
			}
			inSysEx = false
			if b == statusSysExEscape {
				continue
			}
		}

		switch {
		case b == statusSysEx:
			inSysEx = true
			*running = 0
			continue
		case b > statusSysEx:
			*running = 0
			if _, err := c.ReadBytes(systemCommonLength(b)); err != nil {
				return out, fmt.Errorf("%w: system common 0x%02X", contracts.ErrIncompleteMIDIPacket, b)
			}
			continue
		case b&0x80 != 0:
			*running = b
		default:
			if *running == 0 {
				continue
			}
			c.Rewind(1)
		}

		ev := ChannelEvent{
			Kind:    contracts.MIDICommand(*running & 0xF0),
			Channel: *running & 0x0F,
		}
		payload, err := c.ReadBytes(dataLength(ev.Kind))
		if err != nil {
			return out, fmt.Errorf("%w: status 0x%02X", contracts.ErrIncompleteMIDIPacket, *running)
		}
		ev.Data1 = payload[0]
		if len(payload) == 2 {
			ev.Data2 = payload[1]
		}
		out = append(out, ev)
	}
	return out, nil
}

func systemCommonLength(status byte) int {
	switch status {
	case 0xF1, 0xF3:
		return 1
	case 0xF2:
		return 2
	}
	return 0
}
