package emu

// Bus request operation flags. A request with neither OpNewAddress nor
// OpSameAddress asserts no address at all (internal CPU cycle).
const (
	// OpRead marks the request as a read; without it the request is a
	// write (or, with no select flag, a no-data cycle).
	OpRead uint16 = 1 << iota
	// OpNewAddress marks the first cycle a given address is driven.
	// Chip RAM slot arbitration applies only to these.
	OpNewAddress
	// OpSameAddress marks a continuation cycle holding the previous
	// address (e.g. the latter half of a read-modify-write).
	OpSameAddress
	// OpSelectByte drives a single byte lane, chosen by address bit 0.
	OpSelectByte
	// OpSelectWord drives both byte lanes.
	OpSelectWord
	// OpReset asserts the RESET output.
	OpReset
	// OpInterruptAcknowledge marks an autovectored interrupt
	// acknowledge cycle.
	OpInterruptAcknowledge
)

// defaultAccessCycles is the nominal length of a 68000 bus cycle in CPU
// clock cycles.
const defaultAccessCycles = 4

// BusRequest describes one CPU bus access. It is created per cycle by
// the CPU side of the bus and consumed immediately by the dispatcher;
// it is never retained.
//
// For byte-size requests the data byte is duplicated on both lanes of
// Value; consumers pick the live lane from address bit 0 (even = high
// lane, odd = low lane, as on the 68000).
type BusRequest struct {
	Operation uint16
	Address   uint32
	Value     uint16
	// Duration is the nominal cost of the cycle in CPU clock cycles,
	// excluding any arbitration delay the dispatcher adds.
	Duration int
}

// IsRead reports whether the request is a read.
func (r *BusRequest) IsRead() bool {
	return r.Operation&OpRead != 0
}

// Value8Low returns the low byte lane (odd addresses).
func (r *BusRequest) Value8Low() uint8 {
	return uint8(r.Value)
}

// Value8High returns the high byte lane (even addresses).
func (r *BusRequest) Value8High() uint8 {
	return uint8(r.Value >> 8)
}

// SetValue16 fills in a full word of read data.
func (r *BusRequest) SetValue16(v uint16) {
	r.Value = v
}

// SetValue8 fills in a byte of read data, duplicated on both lanes.
func (r *BusRequest) SetValue8(v uint8) {
	r.Value = uint16(v)<<8 | uint16(v)
}

// LaneByte returns the byte on the lane selected by the request's
// address parity.
func (r *BusRequest) LaneByte() uint8 {
	if r.Address&1 != 0 {
		return r.Value8Low()
	}
	return r.Value8High()
}
