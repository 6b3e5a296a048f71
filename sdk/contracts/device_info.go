package contracts

// DeviceInfo describes a live MIDI input device as reported by the platform.
type DeviceInfo struct {
	ID           int    `json:"id"`           // Index accepted by ClientMIDI.SelectDevice.
	Name         string `json:"name"`         // Device name.
	Manufacturer string `json:"manufacturer"` // Device manufacturer.
	EntityName   string `json:"entity"`       // Name of the entity to which the device belongs.
}
