package emu

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/go-chip-m68k"
)

// Core identity used by the frontends.
const (
	Name    = "emami"
	Version = "0.1.0"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

// Emulator assembles the machine: the 68000 core, the memory map, the
// bus dispatcher and the chipset with its CIA pair and drives.
type Emulator struct {
	m68k    *m68k.CPU
	mem     *MemoryMap
	chipset *Chipset
	bus     *AmigaBus

	region            Region
	timing            RegionTiming
	scanlines         int
	cyclesPerScanline int

	// lastIPL tracks the interrupt level most recently forwarded to
	// the CPU, so only rising levels re-request.
	lastIPL int

	audioBuffer []int16
}

// NewEmulator creates and initializes the machine around a kickstart
// image. A missing or malformed image fails construction; nothing is
// discovered later during emulation.
func NewEmulator(kick []byte, region Region) (Emulator, error) {
	timing := GetTimingForRegion(region)

	mem, err := NewMemoryMap(kick)
	if err != nil {
		return Emulator{}, err
	}

	chipset := NewChipset(mem, timing)
	bus := NewAmigaBus(mem, chipset)
	cpu := m68k.New(bus)

	return Emulator{
		m68k:              cpu,
		mem:               mem,
		chipset:           chipset,
		bus:               bus,
		region:            region,
		timing:            timing,
		scanlines:         timing.Scanlines,
		cyclesPerScanline: timing.LineCCKs * cpuCyclesPerCCK,
		audioBuffer:       make([]int16, 0, 2048),
	}, nil
}

// RunFrame executes one frame of emulation. The CPU runs in
// per-scanline budgets; arbitration delays banked by the bus are fed
// back into the CPU's cycle count so chip time and CPU time stay in
// lock-step.
func (e *Emulator) RunFrame() {
	e.audioBuffer = e.audioBuffer[:0]

	for i := 0; i < e.scanlines; i++ {
		budget := e.cyclesPerScanline
		for budget > 0 {
			consumed := e.m68k.StepCycles(budget)
			if consumed == 0 {
				// CPU halted (double bus fault); chip time still
				// has to pass.
				e.bus.AdvanceIdle(budget)
				budget = 0
				break
			}
			budget -= consumed
			if stall := e.bus.TakeStallCycles(); stall > 0 {
				e.m68k.AddCycles(uint64(stall))
				budget -= stall
			}
			e.forwardInterrupts()
		}
		e.bus.syncTo(e.m68k.Cycles())
		e.forwardInterrupts()
	}

	e.fillAudio()
}

// forwardInterrupts publishes the chipset's interrupt level to the
// CPU. Only a rising level issues a new request; the level drops on
// its own once the handler clears the source through INTREQ.
func (e *Emulator) forwardInterrupts() {
	level := e.bus.InterruptLevel()
	if level > e.lastIPL && level > 0 {
		e.m68k.RequestInterrupt(uint8(level), nil)
	}
	e.lastIPL = level
}

// InsertDisk places media in the numbered drive. Media is an opaque
// track provider; image decoding happens outside the core.
func (e *Emulator) InsertDisk(drive int, image DiskImage) bool {
	return e.chipset.InsertDisk(drive, image)
}

// SetActivityObserver registers a drive activity observer.
func (e *Emulator) SetActivityObserver(o ActivityObserver) {
	e.chipset.SetActivityObserver(o)
}

// Scan returns a read-only snapshot of the raster position.
func (e *Emulator) Scan() ScanStatus {
	return e.chipset.Scan()
}

// SetInput unpacks a button bitmask and sets controller state for the
// given player. Only the fire button reaches the CIA; directional
// input lives in chipset registers this core does not model.
func (e *Emulator) SetInput(player int, buttons uint32) {
	fire := buttons&(1<<4) != 0
	e.chipset.SetFireButton(player, fire)
}

// GetRegion returns the emulator's region setting.
func (e *Emulator) GetRegion() Region {
	return e.region
}

// GetTiming returns FPS and scanline count for the current region.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// SetRegion updates the emulator's region configuration.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
	e.timing = GetTimingForRegion(region)
	e.scanlines = e.timing.Scanlines
	e.cyclesPerScanline = e.timing.LineCCKs * cpuCyclesPerCCK
	e.chipset.lineLength = e.timing.LineCCKs
	e.chipset.frameLines = e.timing.Scanlines
	e.chipset.fb.init(e.timing.Scanlines)
}

// ChipRAMByte reads a single byte of chip RAM.
func (e *Emulator) ChipRAMByte(addr uint32) byte {
	return e.mem.chipRAM[addr&(chipRAMSize-1)]
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	// No core options yet.
	_ = key
	_ = value
}

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. Only chip RAM is exposed.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur >= chipRAMSize {
			return count
		}
		buf[i] = e.mem.chipRAM[cur]
		count++
	}
	return count
}

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: chipRAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	if regionType == emucore.MemorySystemRAM {
		return e.mem.ChipRAM()
	}
	return nil
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	if regionType == emucore.MemorySystemRAM {
		e.mem.SetChipRAM(data)
	}
}
