package emu

// DMACON bits. Bits 14/13 (BBUSY/BZERO) are read-only status.
const (
	dmaAud0     = 1 << 0
	dmaAud1     = 1 << 1
	dmaAud2     = 1 << 2
	dmaAud3     = 1 << 3
	dmaDisk     = 1 << 4
	dmaSprite   = 1 << 5
	dmaBlitter  = 1 << 6
	dmaCopper   = 1 << 7
	dmaBitplane = 1 << 8
	dmaMaster   = 1 << 9
	dmaBlitPri  = 1 << 10
)

// cpuCyclesPerCCK is the number of CPU clock cycles per chipset color
// clock. All chip bus slots are allocated in color-clock units.
const cpuCyclesPerCCK = 2

// eClockDivider relates the CIA E clock to the CPU clock.
const eClockDivider = 10

// Changes summarizes one advancement of the chipset: how many
// horizontal and vertical syncs were crossed and the interrupt level
// at completion.
type Changes struct {
	HSyncs         int
	VSyncs         int
	InterruptLevel int
}

// Chipset owns all chip-internal clocked state: the raster counters,
// the interrupt controller, DMA control, the disk DMA engine and the
// CIA pair. It advances only through RunFor, in slices that never skip
// a line boundary, so edge events (syncs, DMA completion, CIA timer
// underflow) are observed at the correct time.
type Chipset struct {
	mem *MemoryMap

	CIAA *CIA
	CIAB *CIA

	// Interrupt controller state. intLevel is always a pure function
	// of intena/intreq; see updateInterrupts.
	intena   uint16
	intreq   uint16
	intLevel int

	dmacon uint16

	// Raster position. x counts color clocks within the line, subCycle
	// the CPU cycle within the current color clock.
	x          int
	y          int
	subCycle   int
	lineLength int
	frameLines int
	frameCount int

	// Display and data-fetch window bounds.
	diwstrt uint16
	diwstop uint16
	ddfstrt uint16
	ddfstop uint16

	bplpt [6]uint32
	sprpt [8]uint32
	spr   [8]sprite
	color [32]uint16

	eClockAccum int

	disk   diskDMA
	drives [driveCount]Drive

	ciaAInput uint8

	observer ActivityObserver
	fb       frameBuffer
}

// sprite holds the register-visible part of one sprite channel. The
// rendering side of sprites is not modeled; the registers still accept
// writes so software probing them behaves.
type sprite struct {
	pos  uint16
	ctl  uint16
	data uint16
	datb uint16
}

// NewChipset creates the chipset for the given memory map and region
// timing and wires up the CIA pair: CIA A drives INT2 (PORTS) and the
// memory overlay, CIA B drives INT6 (EXTER) and the drive control
// lines.
func NewChipset(mem *MemoryMap, timing RegionTiming) *Chipset {
	c := &Chipset{
		mem:        mem,
		lineLength: timing.LineCCKs,
		frameLines: timing.Scanlines,
		ciaAInput:  0xFF,
	}
	c.CIAA = NewCIA(func() { c.RaiseInterrupt(IntPorts) })
	c.CIAB = NewCIA(func() { c.RaiseInterrupt(IntExter) })

	c.CIAA.portAIn = func() uint8 { return c.ciaAInput }
	c.CIAA.onPortAWrite = func(v uint8) { c.mem.SetOverlay(v&1 != 0) }
	c.CIAB.onPortBWrite = c.writeDriveControl

	c.fb.init(timing.Scanlines)
	for i := range c.drives {
		c.drives[i].id = i
	}
	return c
}

// RunFor advances all chip-internal state by the given number of CPU
// clock cycles and reports the syncs crossed plus the interrupt level
// at completion. Advancing by d1 then d2 is equivalent to advancing by
// d1+d2 in one call.
func (c *Chipset) RunFor(cycles int) Changes {
	var ch Changes
	for cycles > 0 {
		// Never step past the end of the current line; hsync-edge
		// state (disk DMA slots, CIA B TOD, vertical advance) must be
		// applied at the boundary.
		remaining := (c.lineLength-c.x)*cpuCyclesPerCCK - c.subCycle
		slice := cycles
		if slice > remaining {
			slice = remaining
		}
		c.advance(slice, &ch)
		cycles -= slice
	}
	ch.InterruptLevel = c.intLevel
	return ch
}

// advance moves the raster by up to one line worth of CPU cycles and
// feeds the CIA E clock.
func (c *Chipset) advance(cpuCycles int, ch *Changes) {
	c.eClockAccum += cpuCycles
	if ticks := c.eClockAccum / eClockDivider; ticks > 0 {
		c.eClockAccum -= ticks * eClockDivider
		c.CIAA.Advance(ticks)
		c.CIAB.Advance(ticks)
	}

	pos := c.x*cpuCyclesPerCCK + c.subCycle + cpuCycles
	c.x = pos / cpuCyclesPerCCK
	c.subCycle = pos % cpuCyclesPerCCK
	if c.x >= c.lineLength {
		c.x = 0
		ch.HSyncs++
		c.endOfLine(ch)
	}
}

// endOfLine applies everything that happens on the horizontal sync
// edge.
func (c *Chipset) endOfLine(ch *Changes) {
	c.CIAB.TickTOD()
	c.serviceDiskDMA()
	c.fb.fillLine(c.y, c.color[0])

	c.y++
	if c.y >= c.frameLines {
		c.y = 0
		c.frameCount++
		ch.VSyncs++
		c.CIAA.TickTOD()
		c.RaiseInterrupt(IntVertB)
	}
}

// TimeUntilCPUSlot returns the number of CPU cycles from now until the
// processor may begin an access to contended chip memory. The CPU is
// granted odd color-clock slots; while the bitplane fetch window is
// live the chipset owns every slot and the CPU waits for the window to
// end. The result depends only on the raster position and DMA
// configuration, never on what the processor wants to do.
func (c *Chipset) TimeUntilCPUSlot() int {
	pos := c.x*cpuCyclesPerCCK + c.subCycle

	target := pos
	if c.bitplaneFetchActive() {
		start := c.fetchStart() * cpuCyclesPerCCK
		end := (c.fetchStop() + 1) * cpuCyclesPerCCK
		if pos >= start && pos < end {
			target = end
		}
	}

	// CPU slots begin on odd color clocks: positions congruent to
	// cpuCyclesPerCCK modulo one slot period.
	const slotPeriod = 2 * cpuCyclesPerCCK
	target += (cpuCyclesPerCCK - target%slotPeriod + slotPeriod) % slotPeriod
	return target - pos
}

// bitplaneFetchActive reports whether bitplane DMA owns the bus on the
// current line.
func (c *Chipset) bitplaneFetchActive() bool {
	const mask = dmaMaster | dmaBitplane
	if c.dmacon&mask != mask {
		return false
	}
	vstart := int(c.diwstrt >> 8)
	vstop := int(c.diwstop >> 8)
	// VSTOP bit 8 is the complement of bit 7, extending the reach
	// below the 256-line boundary.
	if vstop&0x80 == 0 {
		vstop |= 0x100
	}
	return c.y >= vstart && c.y < vstop
}

func (c *Chipset) fetchStart() int {
	return int(c.ddfstrt & 0xFC)
}

func (c *Chipset) fetchStop() int {
	stop := int(c.ddfstop&0xFC) + 7
	if stop >= c.lineLength {
		stop = c.lineLength - 1
	}
	return stop
}

// ScanStatus is a read-only snapshot of the raster position. Safe to
// hand to an observer on another thread; it shares no live state.
type ScanStatus struct {
	X     int
	Y     int
	Frame int
}

// Scan returns the current raster position snapshot.
func (c *Chipset) Scan() ScanStatus {
	return ScanStatus{X: c.x, Y: c.y, Frame: c.frameCount}
}

// SetFireButton sets the joystick fire button level seen on CIA A port
// A (bit 6 = port 1, bit 7 = port 2, active low).
func (c *Chipset) SetFireButton(port int, pressed bool) {
	bit := uint8(1) << (6 + uint(port&1))
	if pressed {
		c.ciaAInput &^= bit
	} else {
		c.ciaAInput |= bit
	}
}

// SetActivityObserver registers an observer for drive activity. Pass
// nil to clear.
func (c *Chipset) SetActivityObserver(o ActivityObserver) {
	c.observer = o
}
