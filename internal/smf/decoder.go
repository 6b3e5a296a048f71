package smf

import "github.com/leandrodaf/smfnotes/sdk/contracts"

// eventDecoder splits a track chunk into events, one per call to next.
// previousStatus carries running status between calls; sysex and meta events clear it.
type eventDecoder struct {
	cursor         *Cursor
	previousStatus byte
}

func newEventDecoder(data []byte) *eventDecoder {
	return &eventDecoder{cursor: NewCursor(data)}
}

func (d *eventDecoder) done() bool {
	return !d.cursor.Remaining()
}

// next decodes the event at the cursor. Errors are fatal for the track.
func (d *eventDecoder) next() (Event, error) {
	delta, err := d.cursor.ReadVLQ()
	if err != nil {
		return nil, err
	}
	offset := d.cursor.Offset()
	status, err := d.cursor.ReadByte()
	if err != nil {
		return nil, err
	}
	if status&0x80 == 0 {
		// Running status: the byte was data for the previous status.
		status = d.previousStatus
		d.cursor.Rewind(1)
	}

	prior := d.previousStatus
	d.previousStatus = status

	switch {
	case status >= 0x80 && status < 0xF0:
		return d.channelEvent(delta, status)
	case status == statusSysEx || status == statusSysExEscape:
		d.previousStatus = 0
		return d.sysExEvent(delta, status)
	case status == statusMeta:
		d.previousStatus = 0
		return d.metaEvent(delta)
	}

	d.previousStatus = prior
	return &UnknownEvent{Delta: delta, Status: status, Offset: offset}, nil
}

func (d *eventDecoder) channelEvent(delta uint32, status byte) (Event, error) {
	ev := &ChannelEvent{
		Delta:   delta,
		Kind:    contracts.MIDICommand(status & 0xF0),
		Channel: status & 0x0F,
	}
	var err error
	if ev.Data1, err = d.cursor.ReadByte(); err != nil {
		return nil, err
	}
	if dataLength(ev.Kind) == 2 {
		if ev.Data2, err = d.cursor.ReadByte(); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

func (d *eventDecoder) sysExEvent(delta uint32, status byte) (Event, error) {
	payload, err := d.lengthPrefixed()
	if err != nil {
		return nil, err
	}
	return &SysExEvent{Delta: delta, Status: status, Payload: payload}, nil
}

func (d *eventDecoder) metaEvent(delta uint32) (Event, error) {
	metaType, err := d.cursor.ReadByte()
	if err != nil {
		return nil, err
	}
	payload, err := d.lengthPrefixed()
	if err != nil {
		return nil, err
	}
	return &MetaEvent{Delta: delta, Type: MetaType(metaType), Payload: payload}, nil
}

// lengthPrefixed reads a VLQ length followed by that many bytes. Lengths under 128
// occupy a single byte.
func (d *eventDecoder) lengthPrefixed() ([]byte, error) {
	length, err := d.cursor.ReadVLQ()
	if err != nil {
		return nil, err
	}
	return d.cursor.ReadBytes(int(length))
}
