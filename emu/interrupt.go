package emu

// Interrupt request/enable bit positions (INTENA/INTREQ).
const (
	IntTBE    = 0  // serial transmit buffer empty
	IntDskBlk = 1  // disk block finished
	IntSoft   = 2  // software interrupt
	IntPorts  = 3  // CIA A / external INT2
	IntCopper = 4  // copper
	IntVertB  = 5  // start of vertical blank
	IntBlit   = 6  // blitter finished
	IntAud0   = 7  // audio channel 0
	IntAud1   = 8  // audio channel 1
	IntAud2   = 9  // audio channel 2
	IntAud3   = 10 // audio channel 3
	IntRBF    = 11 // serial receive buffer full
	IntDskSyn = 12 // disk sync pattern matched
	IntExter  = 13 // CIA B / external INT6
)

// intenaMaster is the master interrupt enable bit in INTENA.
const intenaMaster = 1 << 14

// setClr is the write-mode select bit shared by INTENA, INTREQ and
// DMACON: when set the remaining bits are ORed in, when clear they are
// cleared.
const setClr = 1 << 15

// interruptLevels maps each request bit to the 68000 interrupt level it
// drives when enabled.
var interruptLevels = [14]int{
	IntTBE:    1,
	IntDskBlk: 1,
	IntSoft:   1,
	IntPorts:  2,
	IntCopper: 3,
	IntVertB:  3,
	IntBlit:   3,
	IntAud0:   4,
	IntAud1:   4,
	IntAud2:   4,
	IntAud3:   4,
	IntRBF:    5,
	IntDskSyn: 5,
	IntExter:  6,
}

// applySetClear applies the top-bit-selects-mode write convention used
// by INTENA, INTREQ and DMACON.
func applySetClear(current, v uint16) uint16 {
	if v&setClr != 0 {
		return current | v&^setClr
	}
	return current &^ v
}

// RaiseInterrupt sets a single request bit. Peripherals only ever set
// bits; clears come solely from processor INTREQ writes.
func (c *Chipset) RaiseInterrupt(bit int) {
	c.intreq |= 1 << bit
	c.updateInterrupts()
}

// InterruptLevel returns the current derived interrupt level.
func (c *Chipset) InterruptLevel() int {
	return c.intLevel
}

// updateInterrupts recomputes the derived level. It must be called
// after every INTENA/INTREQ mutation; the level is never cached stale.
// The level is 0 iff no enabled request is pending or the master enable
// is clear.
func (c *Chipset) updateInterrupts() {
	c.intLevel = 0
	if c.intena&intenaMaster == 0 {
		return
	}
	active := c.intena & c.intreq & 0x3FFF
	for bit := 0; active != 0; bit++ {
		if active&1 != 0 && interruptLevels[bit] > c.intLevel {
			c.intLevel = interruptLevels[bit]
		}
		active >>= 1
	}
}

// writeINTENA handles a processor write to the enable register.
func (c *Chipset) writeINTENA(v uint16) {
	c.intena = applySetClear(c.intena, v)
	c.updateInterrupts()
}

// writeINTREQ handles a processor write to the request register. This
// is the only path that can clear pending requests.
func (c *Chipset) writeINTREQ(v uint16) {
	c.intreq = applySetClear(c.intreq, v)
	c.updateInterrupts()
}
