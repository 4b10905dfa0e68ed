package emu

import "testing"

func TestApplySetClear(t *testing.T) {
	v := applySetClear(0, setClr|0x0006)
	if v != 0x0006 {
		t.Errorf("set write: expected 0x0006, got %04X", v)
	}
	v = applySetClear(v, 0x0002)
	if v != 0x0004 {
		t.Errorf("clear write: expected 0x0004, got %04X", v)
	}
	// The mode bit itself never lands in the register.
	v = applySetClear(0, setClr)
	if v&setClr != 0 {
		t.Errorf("mode bit leaked into register: %04X", v)
	}
}

func TestInterruptLevelTable(t *testing.T) {
	c := makeTestChipset(t)

	for bit, want := range interruptLevels {
		c.intena = intenaMaster | 1<<bit
		c.intreq = 1 << bit
		c.updateInterrupts()
		if c.InterruptLevel() != want {
			t.Errorf("bit %d: expected level %d, got %d", bit, want, c.InterruptLevel())
		}
	}
}

func TestInterruptLevelIsPureFunction(t *testing.T) {
	c := makeTestChipset(t)

	// Only the single overlapping enabled+requested bit counts.
	c.writeINTENA(setClr | intenaMaster | 0x0006)
	c.writeINTREQ(setClr | 0x0004)
	if c.InterruptLevel() != 1 {
		t.Errorf("expected level 1 (SOFT), got %d", c.InterruptLevel())
	}

	// Clearing the request drops the level with no residue.
	c.writeINTREQ(0x0004)
	if c.InterruptLevel() != 0 {
		t.Errorf("expected level 0 after clear, got %d", c.InterruptLevel())
	}

	// Re-raising the same bit brings the same level back.
	c.writeINTREQ(setClr | 0x0004)
	if c.InterruptLevel() != 1 {
		t.Errorf("expected level 1 again, got %d", c.InterruptLevel())
	}
}

func TestInterruptMasterEnable(t *testing.T) {
	c := makeTestChipset(t)

	c.writeINTENA(setClr | 1<<IntExter)
	c.writeINTREQ(setClr | 1<<IntExter)
	if c.InterruptLevel() != 0 {
		t.Errorf("master disabled: expected level 0, got %d", c.InterruptLevel())
	}

	c.writeINTENA(setClr | intenaMaster)
	if c.InterruptLevel() != 6 {
		t.Errorf("master enabled: expected level 6, got %d", c.InterruptLevel())
	}

	c.writeINTENA(intenaMaster)
	if c.InterruptLevel() != 0 {
		t.Errorf("master cleared: expected level 0, got %d", c.InterruptLevel())
	}
}

func TestInterruptHighestLevelWins(t *testing.T) {
	c := makeTestChipset(t)

	c.writeINTENA(setClr | intenaMaster | 1<<IntSoft | 1<<IntPorts | 1<<IntRBF)
	c.writeINTREQ(setClr | 1<<IntSoft | 1<<IntPorts | 1<<IntRBF)
	if c.InterruptLevel() != 5 {
		t.Errorf("expected highest pending level 5, got %d", c.InterruptLevel())
	}

	c.writeINTREQ(1 << IntRBF)
	if c.InterruptLevel() != 2 {
		t.Errorf("expected level 2 after dropping RBF, got %d", c.InterruptLevel())
	}
}

func TestRaiseInterruptSetOnly(t *testing.T) {
	c := makeTestChipset(t)

	// Peripheral raises never clear other pending bits.
	c.writeINTREQ(setClr | 1<<IntDskBlk)
	c.RaiseInterrupt(IntPorts)
	if c.intreq != 1<<IntDskBlk|1<<IntPorts {
		t.Errorf("expected both bits pending, got %04X", c.intreq)
	}
}

func TestInterruptRegisterReadback(t *testing.T) {
	c := makeTestChipset(t)

	c.writeINTENA(setClr | intenaMaster | 1<<IntVertB)
	c.writeINTREQ(setClr | 1<<IntVertB | 1<<IntSoft)

	r := BusRequest{Operation: OpRead | OpSelectWord, Address: chipRegBase + regINTENAR}
	c.Perform(&r)
	if r.Value != intenaMaster|1<<IntVertB {
		t.Errorf("INTENAR: got %04X", r.Value)
	}

	r = BusRequest{Operation: OpRead | OpSelectWord, Address: chipRegBase + regINTREQR}
	c.Perform(&r)
	if r.Value != 1<<IntVertB|1<<IntSoft {
		t.Errorf("INTREQR: got %04X", r.Value)
	}
}
