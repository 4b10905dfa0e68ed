package emu

import (
	"errors"
	"fmt"
)

// ErrMissingKickstart is returned at machine construction when no
// kickstart image was supplied. The machine cannot start without one.
var ErrMissingKickstart = errors.New("kickstart ROM image is required")

// Accepted kickstart image sizes.
const (
	kickSize256 = 0x40000
	kickSize512 = 0x80000
)

// ValidateKickstart checks that the image looks like a kickstart ROM:
// a supported size and the reset-vector JMP that every kickstart begins
// with (the leading magic word differs between versions, the 0x4EF9
// opcode at offset 2 does not).
func ValidateKickstart(rom []byte) error {
	if len(rom) == 0 {
		return ErrMissingKickstart
	}
	if len(rom) != kickSize256 && len(rom) != kickSize512 {
		return fmt.Errorf("unsupported kickstart size: %d bytes", len(rom))
	}
	if rom[2] != 0x4E || rom[3] != 0xF9 {
		return fmt.Errorf("kickstart header not recognized: % X", rom[0:4])
	}
	return nil
}
