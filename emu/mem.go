package emu

import "hash/crc32"

const (
	chipRAMSize   = 0x80000  // 512KB chip RAM
	kickstartSize = 0x80000  // 512KB kickstart window at 0xF80000
	addressMask   = 0xFFFFFF // 24-bit address bus

	// The region table partitions the 24-bit space into 512KB slots.
	regionShift = 19
	regionCount = (addressMask + 1) >> regionShift
)

// region is one 512KB slot of the address space. A nil contents slice
// routes the slot to the bus dispatcher's special-case decode; a zero
// writeMask with non-nil contents is read-only storage.
type region struct {
	contents  []byte
	writeMask uint16
}

// MemoryMap is the static partition of the 68000 address space.
//
// Address map (24-bit):
//
//	0x000000-0x07FFFF  chip RAM (512KB, DMA-contended; kickstart
//	                   overlay at reset until CIA A clears it)
//	0xA00000-0xBFFFFF  CIA window (decoded by the dispatcher)
//	0xDFF000-0xDFF1BE  chipset registers (decoded by the chipset)
//	0xF80000-0xFFFFFF  kickstart ROM (512KB, read-only)
//
// Everything else is open bus. The region count and extents are fixed
// at construction; only the overlay state and backing bytes mutate.
type MemoryMap struct {
	regions [regionCount]region

	chipRAM   [chipRAMSize]byte
	kickstart [kickstartSize]byte
	kickCRC   uint32

	overlay bool
}

// NewMemoryMap builds the region table around the given kickstart
// image. The image must validate (see ValidateKickstart); 256KB images
// are mirrored up to fill the 512KB window. The map starts with the
// kickstart overlaying chip RAM, as after a cold start.
func NewMemoryMap(kick []byte) (*MemoryMap, error) {
	if err := ValidateKickstart(kick); err != nil {
		return nil, err
	}

	m := &MemoryMap{kickCRC: crc32.ChecksumIEEE(kick)}
	for i := 0; i < kickstartSize; i += len(kick) {
		copy(m.kickstart[i:], kick)
	}

	m.regions[0xF80000>>regionShift] = region{contents: m.kickstart[:]}
	m.Reset()
	return m, nil
}

// Reset restores the fixed-image state: the kickstart overlay is
// re-enabled over chip RAM. Chip RAM contents are not cleared; only the
// routing reverts to its cold-start configuration.
func (m *MemoryMap) Reset() {
	m.SetOverlay(true)
}

// SetOverlay maps the kickstart image over address 0 (enabled) or
// restores chip RAM there (disabled). Driven by CIA A port A bit 0.
func (m *MemoryMap) SetOverlay(enabled bool) {
	m.overlay = enabled
	if enabled {
		m.regions[0] = region{contents: m.kickstart[:]}
	} else {
		m.regions[0] = region{contents: m.chipRAM[:], writeMask: 0xFFFF}
	}
}

// Overlay reports whether the kickstart overlay is active.
func (m *MemoryMap) Overlay() bool {
	return m.overlay
}

// lookup returns the region covering addr.
func (m *MemoryMap) lookup(addr uint32) *region {
	return &m.regions[(addr&addressMask)>>regionShift]
}

// perform applies a read or write request to directly-mapped storage.
// The caller guarantees the region has backing contents. Writes are
// masked by the region's write mask, so ROM regions silently drop them.
func (m *MemoryMap) perform(r *region, req *BusRequest) {
	offset := (req.Address & addressMask) & (1<<regionShift - 1)

	switch {
	case req.Operation&OpSelectWord != 0:
		offset &^= 1
		if req.IsRead() {
			req.SetValue16(uint16(r.contents[offset])<<8 | uint16(r.contents[offset+1]))
		} else if r.writeMask != 0 {
			v := req.Value & r.writeMask
			r.contents[offset] = byte(v >> 8)
			r.contents[offset+1] = byte(v)
		}
	case req.Operation&OpSelectByte != 0:
		if req.IsRead() {
			req.SetValue8(r.contents[offset])
		} else if r.writeMask != 0 {
			r.contents[offset] = req.LaneByte()
		}
	}
}

// WriteChipWord stores a big-endian word into chip RAM. Used by the
// chipset's DMA engines, which bypass the dispatcher and the overlay.
func (m *MemoryMap) WriteChipWord(addr uint32, v uint16) {
	offset := (addr & (chipRAMSize - 1)) &^ 1
	m.chipRAM[offset] = byte(v >> 8)
	m.chipRAM[offset+1] = byte(v)
}

// ReadChipWord fetches a big-endian word from chip RAM.
func (m *MemoryMap) ReadChipWord(addr uint32) uint16 {
	offset := (addr & (chipRAMSize - 1)) &^ 1
	return uint16(m.chipRAM[offset])<<8 | uint16(m.chipRAM[offset+1])
}

// ChipRAM returns a copy of the chip RAM contents.
func (m *MemoryMap) ChipRAM() []byte {
	out := make([]byte, chipRAMSize)
	copy(out, m.chipRAM[:])
	return out
}

// SetChipRAM loads chip RAM contents (e.g. from a save state).
func (m *MemoryMap) SetChipRAM(data []byte) {
	copy(m.chipRAM[:], data)
}

// KickstartCRC32 returns the CRC32 of the normalized kickstart image.
func (m *MemoryMap) KickstartCRC32() uint32 {
	return m.kickCRC
}
