package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emami/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the Amiga emulator. The
// file the frontend loads is the Kickstart ROM; floppies are inserted
// through the emulator API.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emami",
		ConsoleName:     "Commodore Amiga",
		Extensions:      []string{".rom", ".bin"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     320.0 / 256.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Fire", ID: 4, DefaultKey: "J", DefaultPad: "A"},
		},
		Players:       2,
		RDBName:       "Commodore - Amiga",
		ThumbnailRepo: "Commodore_-_Amiga",
		DataDirName:   "emami",
		ConsoleID:     2,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new emulator instance with the given
// kickstart image and region.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(rom, region)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DetectRegion returns the default region. Kickstart images carry no
// region marker, so detection always falls back to PAL.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DefaultRegion(), false
}
