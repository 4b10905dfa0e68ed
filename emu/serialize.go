package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"github.com/user-none/go-chip-m68k"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eAMISState\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + kickCRC(4) + dataCRC(4)
)

// Fixed serialization sizes for inline components
const (
	// chip RAM + overlay(1) + chipTime(8) + stall(4) + vpa(1) + intLevel(1)
	busSerializeFixedSize = chipRAMSize + 15
	// lastIPL(1)
	emulatorBaseSerializeSize = 1
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SerializeSize returns the total size in bytes needed for a save
// state. All sections are fixed-size, so this is a package-level
// constant in function form for the adapter's SystemInfo.
func SerializeSize() int {
	return stateHeaderSize +
		m68k.SerializeSize +
		busSerializeFixedSize +
		ChipsetSerializeSize +
		2*CIASerializeSize +
		emulatorBaseSerializeSize
}

// SerializeSize implements emucore.SaveStater.
func (e *Emulator) SerializeSize() int {
	return SerializeSize()
}

// Serialize creates a save state and returns it as a byte slice.
func (e *Emulator) Serialize() ([]byte, error) {
	size := e.SerializeSize()
	data := make([]byte, size)

	// Write header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], e.mem.kickCRC)

	offset := stateHeaderSize

	// M68K CPU
	if err := e.m68k.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += m68k.SerializeSize

	// Memory map and bus
	offset = e.serializeBus(data, offset)

	// Chipset
	if err := e.chipset.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += ChipsetSerializeSize

	// CIA pair
	if err := e.chipset.CIAA.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += CIASerializeSize
	if err := e.chipset.CIAB.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += CIASerializeSize

	// Emulator inline state
	data[offset] = uint8(e.lastIPL)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// serializeBus writes chip RAM, the overlay flag and the dispatcher's
// clock/stall state.
func (e *Emulator) serializeBus(data []byte, offset int) int {
	copy(data[offset:], e.mem.chipRAM[:])
	offset += chipRAMSize
	data[offset] = boolByte(e.mem.overlay)
	offset++
	binary.LittleEndian.PutUint64(data[offset:offset+8], e.bus.chipTime)
	offset += 8
	binary.LittleEndian.PutUint32(data[offset:offset+4], uint32(e.bus.stall))
	offset += 4
	data[offset] = boolByte(e.bus.vpa)
	offset++
	data[offset] = uint8(e.bus.intLevel)
	offset++
	return offset
}

// deserializeBus restores what serializeBus wrote. The overlay flag is
// applied through SetOverlay so region routing matches.
func (e *Emulator) deserializeBus(data []byte, offset int) int {
	copy(e.mem.chipRAM[:], data[offset:offset+chipRAMSize])
	offset += chipRAMSize
	e.mem.SetOverlay(data[offset] != 0)
	offset++
	e.bus.chipTime = binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8
	e.bus.stall = int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	e.bus.vpa = data[offset] != 0
	offset++
	e.bus.intLevel = int(data[offset])
	offset++
	return offset
}

// Deserialize restores emulator state from a save state byte slice.
// Region is NOT restored - the current region setting is preserved.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize

	// M68K CPU
	if err := e.m68k.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += m68k.SerializeSize

	// Memory map and bus
	offset = e.deserializeBus(data, offset)

	// Chipset
	if err := e.chipset.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += ChipsetSerializeSize

	// CIA pair
	if err := e.chipset.CIAA.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += CIASerializeSize
	if err := e.chipset.CIAB.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += CIASerializeSize

	e.lastIPL = int(data[offset])

	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	expectedSize := e.SerializeSize()
	if len(data) < expectedSize {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	kickCRC := binary.LittleEndian.Uint32(data[14:18])
	if kickCRC != e.mem.kickCRC {
		return errors.New("save state is for a different kickstart")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}
