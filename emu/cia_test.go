package emu

import "testing"

func TestCIA_TimerUnderflow(t *testing.T) {
	fired := 0
	c := NewCIA(func() { fired++ })

	c.Write(ciaICR, ciaICRFlag|ciaICRTimerA)
	c.Write(ciaTALO, 4)
	c.Write(ciaTAHI, 0) // loads the counter while stopped
	c.Write(ciaCRA, ciaCRStart)

	c.Advance(4)
	if fired != 0 {
		t.Fatal("timer should not fire before underflow")
	}
	c.Advance(1)
	if fired != 1 {
		t.Fatalf("expected one IRQ after underflow, got %d", fired)
	}

	// ICR read reports the source plus the IR flag, then clears.
	if v := c.Read(ciaICR); v != ciaICRFlag|ciaICRTimerA {
		t.Errorf("expected ICR %02X, got %02X", ciaICRFlag|ciaICRTimerA, v)
	}
	if v := c.Read(ciaICR); v != 0 {
		t.Errorf("ICR should clear on read, got %02X", v)
	}

	// Continuous mode reloads from the latch and keeps firing.
	c.Advance(5)
	if fired != 2 {
		t.Errorf("expected continuous reload to fire again, got %d", fired)
	}
}

func TestCIA_TimerOneShot(t *testing.T) {
	fired := 0
	c := NewCIA(func() { fired++ })

	c.Write(ciaICR, ciaICRFlag|ciaICRTimerA)
	c.Write(ciaTALO, 2)
	c.Write(ciaTAHI, 0)
	c.Write(ciaCRA, ciaCRStart|ciaCROneShot)

	c.Advance(10)
	if fired != 1 {
		t.Fatalf("one-shot should fire exactly once, got %d", fired)
	}
	if c.timerA.control&ciaCRStart != 0 {
		t.Error("one-shot underflow should clear the start bit")
	}
	c.Advance(10)
	if fired != 1 {
		t.Error("stopped timer must not fire again")
	}
}

func TestCIA_ICRMaskConvention(t *testing.T) {
	fired := 0
	c := NewCIA(func() { fired++ })

	// Set then clear through the top-bit convention.
	c.Write(ciaICR, ciaICRFlag|ciaICRTimerA|ciaICRTimerB)
	c.Write(ciaICR, ciaICRTimerA)
	if c.icrMask != ciaICRTimerB {
		t.Fatalf("expected mask %02X, got %02X", ciaICRTimerB, c.icrMask)
	}

	// A masked source latches in the data register without an IRQ or
	// the IR flag.
	c.Write(ciaTALO, 1)
	c.Write(ciaTAHI, 0)
	c.Write(ciaCRA, ciaCRStart)
	c.Advance(4)
	if fired != 0 {
		t.Error("masked source must not raise an IRQ")
	}
	if v := c.Read(ciaICR); v != ciaICRTimerA {
		t.Errorf("expected latched data %02X without IR flag, got %02X", ciaICRTimerA, v)
	}
}

func TestCIA_ControlLoadStrobe(t *testing.T) {
	c := NewCIA(nil)

	c.Write(ciaTALO, 0x34)
	c.Write(ciaCRA, ciaCRStart) // running; latch writes no longer load
	c.Write(ciaTALO, 0x77)
	c.Write(ciaCRA, ciaCRStart|ciaCRLoad)

	if c.timerA.counter&0xFF != 0x77 {
		t.Errorf("load strobe should copy the latch, counter %04X", c.timerA.counter)
	}
	if c.timerA.control&ciaCRLoad != 0 {
		t.Error("load strobe bit must not persist in the control register")
	}
}

func TestCIA_TODLatch(t *testing.T) {
	c := NewCIA(nil)
	c.tod = 0x0000FF

	// Reading the high byte latches the full counter.
	if v := c.Read(ciaTODHI); v != 0x00 {
		t.Fatalf("TODHI: got %02X", v)
	}
	c.TickTOD() // counter rolls to 0x000100 under the latch

	if v := c.Read(ciaTODMID); v != 0x00 {
		t.Errorf("latched TODMID should be 0x00, got %02X", v)
	}
	if v := c.Read(ciaTODLO); v != 0xFF {
		t.Errorf("latched TODLO should be 0xFF, got %02X", v)
	}

	// The low-byte read released the latch: reads follow the live
	// counter again.
	if v := c.Read(ciaTODMID); v != 0x01 {
		t.Errorf("live TODMID should be 0x01, got %02X", v)
	}
}

func TestCIA_TODAlarm(t *testing.T) {
	fired := 0
	c := NewCIA(func() { fired++ })

	c.Write(ciaICR, ciaICRFlag|ciaICRAlarm)

	// CRB bit 7 redirects the counter registers to the alarm.
	c.Write(ciaCRB, 0x80)
	c.Write(ciaTODHI, 0x00)
	c.Write(ciaTODMID, 0x00)
	c.Write(ciaTODLO, 0x02)
	c.Write(ciaCRB, 0x00)

	if c.todAlarm != 2 {
		t.Fatalf("expected alarm 2, got %06X", c.todAlarm)
	}
	if c.tod != 0 {
		t.Fatalf("alarm write must not move the counter, tod %06X", c.tod)
	}

	c.TickTOD()
	if fired != 0 {
		t.Error("no alarm before the counter matches")
	}
	c.TickTOD()
	if fired != 1 {
		t.Errorf("expected alarm IRQ on match, got %d", fired)
	}
}

func TestCIA_TODCountsWhileHeld(t *testing.T) {
	c := NewCIA(nil)
	c.tod = 5

	c.Read(ciaTODHI) // latch
	c.TickTOD()
	c.TickTOD()
	c.Read(ciaTODLO) // release
	if c.tod != 7 {
		t.Errorf("counter should keep counting under the latch, tod %d", c.tod)
	}
}

func TestCIA_PortDirection(t *testing.T) {
	ext := uint8(0xF0)
	c := NewCIA(nil)
	c.portAIn = func() uint8 { return ext }

	// Output bits read back the data register, input bits the pins.
	c.Write(ciaDDRA, 0x0F)
	c.Write(ciaPRA, 0x05)
	if v := c.Read(ciaPRA); v != 0xF5 {
		t.Errorf("expected port level 0xF5, got %02X", v)
	}

	ext = 0x30
	if v := c.Read(ciaPRA); v != 0x35 {
		t.Errorf("expected port level 0x35, got %02X", v)
	}
}

func TestCIA_PortWriteHookSeesPinState(t *testing.T) {
	var seen []uint8
	c := NewCIA(nil)
	c.onPortAWrite = func(v uint8) { seen = append(seen, v) }

	// With all pins as inputs the write changes nothing visible.
	c.Write(ciaPRA, 0x00)
	// Driving bit 0 low becomes visible once the direction flips.
	c.Write(ciaDDRA, 0x01)

	if len(seen) != 2 {
		t.Fatalf("expected 2 hook calls, got %d", len(seen))
	}
	if seen[0] != 0xFF {
		t.Errorf("input-only write should present pulled-up pins, got %02X", seen[0])
	}
	if seen[1] != 0xFE {
		t.Errorf("direction change should expose the driven level, got %02X", seen[1])
	}
}
