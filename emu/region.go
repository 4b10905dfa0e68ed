package emu

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// RegionTiming holds timing constants for a specific region. The CPU
// clock is twice the chipset color clock; bus slots are allocated in
// color-clock units.
type RegionTiming struct {
	CPUClockHz int // MC68000 clock frequency
	Scanlines  int // Total scanlines per frame
	FPS        int // Frames per second
	LineCCKs   int // Color clocks per scanline
}

// PAL timing: 7.09379 MHz CPU, 312 scanlines, 50 Hz, 227 CCKs/line.
var PALTiming = RegionTiming{
	CPUClockHz: 7093790,
	Scanlines:  312,
	FPS:        50,
	LineCCKs:   227,
}

// NTSC timing: 7.15909 MHz CPU, 262 scanlines, 60 Hz. The real NTSC
// chipset alternates 227/228 CCK lines; the fixed 227 here keeps line
// arithmetic exact at the cost of a ~0.2% frame-rate skew.
var NTSCTiming = RegionTiming{
	CPUClockHz: 7159090,
	Scanlines:  262,
	FPS:        60,
	LineCCKs:   227,
}

// GetTimingForRegion returns the appropriate timing constants.
func GetTimingForRegion(r Region) RegionTiming {
	if r == RegionNTSC {
		return NTSCTiming
	}
	return PALTiming
}

// DefaultRegion returns the default region (PAL, as for most of the
// machines this chipset shipped in).
func DefaultRegion() Region {
	return RegionPAL
}
