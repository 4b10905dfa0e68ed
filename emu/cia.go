package emu

// CIA register indices (A3-A0 of the register select).
const (
	ciaPRA = iota
	ciaPRB
	ciaDDRA
	ciaDDRB
	ciaTALO
	ciaTAHI
	ciaTBLO
	ciaTBHI
	ciaTODLO
	ciaTODMID
	ciaTODHI
	ciaUnused
	ciaSDR
	ciaICR
	ciaCRA
	ciaCRB
)

// Control register bits shared by CRA/CRB.
const (
	ciaCRStart   = 0x01
	ciaCROneShot = 0x08
	ciaCRLoad    = 0x10
)

// ICR bits.
const (
	ciaICRTimerA = 0x01
	ciaICRTimerB = 0x02
	ciaICRAlarm  = 0x04
	ciaICRFlag   = 0x80 // set/clear select on write, IR flag on read
)

// ciaTimer is one 16-bit interval timer counting E-clock ticks.
type ciaTimer struct {
	latch   uint16
	counter uint16
	control uint8
}

// CIA is an 8520 complex interface adapter: two I/O ports, two interval
// timers, a 24-bit event counter and an interrupt control register. The
// dispatcher reaches it only through Read/Write by register index; its
// internals matter to the bus layer solely as a source of INT2/INT6.
type CIA struct {
	pra, prb   uint8
	ddra, ddrb uint8

	timerA ciaTimer
	timerB ciaTimer

	tod      uint32 // 24-bit event counter
	todAlarm uint32
	todLatch uint32
	todHeld  bool

	sdr uint8

	icrData uint8
	icrMask uint8

	// raiseIRQ is invoked on the rising edge of the IR flag. For CIA A
	// it raises INTREQ bit 3 (PORTS), for CIA B bit 13 (EXTER).
	raiseIRQ func()

	// Port hooks. portAIn/portBIn supply the level on input-configured
	// pins (pulled high when nothing drives them); the write hooks see
	// the effective pin state after each port or direction write.
	portAIn      func() uint8
	portBIn      func() uint8
	onPortAWrite func(uint8)
	onPortBWrite func(uint8)
}

// NewCIA creates a CIA whose IR output feeds raiseIRQ.
func NewCIA(raiseIRQ func()) *CIA {
	return &CIA{raiseIRQ: raiseIRQ}
}

// portLevel combines driven output bits with pulled-up or externally
// driven input bits.
func portLevel(data, ddr uint8, in func() uint8) uint8 {
	ext := uint8(0xFF)
	if in != nil {
		ext = in()
	}
	return data&ddr | ext&^ddr
}

// Read returns the value of the selected register. Only the low four
// bits of reg select; the bus wires A8-A11 here.
func (c *CIA) Read(reg int) uint8 {
	switch reg & 0xF {
	case ciaPRA:
		return portLevel(c.pra, c.ddra, c.portAIn)
	case ciaPRB:
		return portLevel(c.prb, c.ddrb, c.portBIn)
	case ciaDDRA:
		return c.ddra
	case ciaDDRB:
		return c.ddrb
	case ciaTALO:
		return uint8(c.timerA.counter)
	case ciaTAHI:
		return uint8(c.timerA.counter >> 8)
	case ciaTBLO:
		return uint8(c.timerB.counter)
	case ciaTBHI:
		return uint8(c.timerB.counter >> 8)
	case ciaTODLO:
		// Reading the high byte latches the counter; reading the low
		// byte releases the latch.
		v := c.tod
		if c.todHeld {
			v = c.todLatch
			c.todHeld = false
		}
		return uint8(v)
	case ciaTODMID:
		v := c.tod
		if c.todHeld {
			v = c.todLatch
		}
		return uint8(v >> 8)
	case ciaTODHI:
		c.todLatch = c.tod
		c.todHeld = true
		return uint8(c.tod >> 16)
	case ciaSDR:
		return c.sdr
	case ciaICR:
		v := c.icrData
		if c.icrData&c.icrMask != 0 {
			v |= ciaICRFlag
		}
		c.icrData = 0
		return v
	case ciaCRA:
		return c.timerA.control
	case ciaCRB:
		return c.timerB.control
	}
	return 0xFF
}

// Write stores to the selected register.
func (c *CIA) Write(reg int, v uint8) {
	switch reg & 0xF {
	case ciaPRA:
		c.pra = v
		if c.onPortAWrite != nil {
			c.onPortAWrite(portLevel(c.pra, c.ddra, c.portAIn))
		}
	case ciaPRB:
		c.prb = v
		if c.onPortBWrite != nil {
			c.onPortBWrite(portLevel(c.prb, c.ddrb, c.portBIn))
		}
	case ciaDDRA:
		c.ddra = v
		if c.onPortAWrite != nil {
			c.onPortAWrite(portLevel(c.pra, c.ddra, c.portAIn))
		}
	case ciaDDRB:
		c.ddrb = v
		if c.onPortBWrite != nil {
			c.onPortBWrite(portLevel(c.prb, c.ddrb, c.portBIn))
		}
	case ciaTALO:
		c.timerA.latch = c.timerA.latch&0xFF00 | uint16(v)
	case ciaTAHI:
		c.timerA.latch = c.timerA.latch&0x00FF | uint16(v)<<8
		// Writing the high latch byte while stopped loads the counter.
		if c.timerA.control&ciaCRStart == 0 {
			c.timerA.counter = c.timerA.latch
		}
	case ciaTBLO:
		c.timerB.latch = c.timerB.latch&0xFF00 | uint16(v)
	case ciaTBHI:
		c.timerB.latch = c.timerB.latch&0x00FF | uint16(v)<<8
		if c.timerB.control&ciaCRStart == 0 {
			c.timerB.counter = c.timerB.latch
		}
	case ciaTODLO:
		// CRB bit 7 redirects event counter writes to the alarm.
		if c.timerB.control&0x80 != 0 {
			c.todAlarm = c.todAlarm&0xFFFF00 | uint32(v)
		} else {
			c.tod = c.tod&0xFFFF00 | uint32(v)
		}
	case ciaTODMID:
		if c.timerB.control&0x80 != 0 {
			c.todAlarm = c.todAlarm&0xFF00FF | uint32(v)<<8
		} else {
			c.tod = c.tod&0xFF00FF | uint32(v)<<8
		}
	case ciaTODHI:
		if c.timerB.control&0x80 != 0 {
			c.todAlarm = c.todAlarm&0x00FFFF | uint32(v)<<16
		} else {
			c.tod = c.tod&0x00FFFF | uint32(v)<<16
		}
	case ciaSDR:
		c.sdr = v
	case ciaICR:
		// Same top-bit set/clear convention as the chipset registers,
		// applied to the interrupt mask.
		if v&ciaICRFlag != 0 {
			c.icrMask |= v &^ ciaICRFlag
		} else {
			c.icrMask &^= v
		}
		c.checkIRQ()
	case ciaCRA:
		c.timerA.control = v
		if v&ciaCRLoad != 0 {
			c.timerA.counter = c.timerA.latch
			c.timerA.control &^= ciaCRLoad
		}
	case ciaCRB:
		c.timerB.control = v
		if v&ciaCRLoad != 0 {
			c.timerB.counter = c.timerB.latch
			c.timerB.control &^= ciaCRLoad
		}
	}
}

// Advance runs the interval timers for the given number of E-clock
// ticks. The chipset calls this from its own advancement loop so CIA
// state stays in lock-step with elapsed bus time.
func (c *CIA) Advance(ticks int) {
	c.advanceTimer(&c.timerA, ciaICRTimerA, ticks)
	c.advanceTimer(&c.timerB, ciaICRTimerB, ticks)
}

func (c *CIA) advanceTimer(t *ciaTimer, icrBit uint8, ticks int) {
	if t.control&ciaCRStart == 0 {
		return
	}
	for ticks > 0 {
		if int(t.counter) >= ticks {
			t.counter -= uint16(ticks)
			return
		}
		ticks -= int(t.counter) + 1
		t.counter = t.latch
		c.icrData |= icrBit
		if t.control&ciaCROneShot != 0 {
			t.control &^= ciaCRStart
			c.checkIRQ()
			return
		}
	}
	c.checkIRQ()
}

// TickTOD advances the 24-bit event counter by one. CIA A is fed from
// vertical sync, CIA B from horizontal sync. Counting continues while
// the read latch is held.
func (c *CIA) TickTOD() {
	c.tod = (c.tod + 1) & 0xFFFFFF
	if c.tod == c.todAlarm {
		c.icrData |= ciaICRAlarm
	}
	c.checkIRQ()
}

// checkIRQ propagates the IR flag to the interrupt controller.
func (c *CIA) checkIRQ() {
	if c.icrData&c.icrMask != 0 && c.raiseIRQ != nil {
		c.raiseIRQ()
	}
}
