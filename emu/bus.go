package emu

import (
	"log"

	"github.com/user-none/go-chip-m68k"
)

// CIA decode window. Per the hardware manual the select lines are
// wired straight to the chip enables:
//
//	CIA A drives the low byte when address bit 12 is clear
//	CIA B drives the high byte when address bit 13 is clear
//
// so a word access can hit zero, one or both CIAs, and any lane
// nothing drives floats high.
const (
	ciaWindowMask = 0xE00000
	ciaWindowBase = 0xA00000
	ciaASelect    = 0x1000
	ciaBSelect    = 0x2000
)

// contendedTop bounds the DMA-contended address range: chip RAM and
// its mirrors, where the chipset's engines outrank the processor.
const contendedTop = 0x200000

// romShadowBase is the start of the expansion ROM area this machine
// does not populate; unmapped accesses there are routine and stay out
// of the log.
const romShadowBase = 0xF00000

// AmigaBus is the bus dispatcher: the single entry point for every
// processor bus request. It owns the routing decision, the DMA slot
// arbitration handshake with the chipset, and the interrupt level the
// processor sees. It also adapts the m68k core's Bus callbacks onto
// bus requests, banking arbitration delays as stall cycles for the
// frame loop to feed back.
type AmigaBus struct {
	mem     *MemoryMap
	chipset *Chipset

	// chipTime is the absolute CPU-cycle position the chipset has
	// been advanced to. It only moves forward.
	chipTime uint64

	stall    int
	vpa      bool
	intLevel int
}

// NewAmigaBus creates the dispatcher over a memory map and chipset.
func NewAmigaBus(mem *MemoryMap, chipset *Chipset) *AmigaBus {
	return &AmigaBus{mem: mem, chipset: chipset}
}

// PerformBusRequest services one bus request and returns the extra
// delay, in CPU cycles, the access cost beyond its nominal duration.
// Read data is filled into the request.
//
// The ordering here is load-bearing: chip state is advanced before the
// access is serviced so that register reads observe all time up to and
// including this access.
func (b *AmigaBus) PerformBusRequest(req *BusRequest) int {
	// Fresh addresses into contended memory wait for a free slot.
	delay := 0
	if req.Operation&OpNewAddress != 0 && req.Address&addressMask < contendedTop {
		delay = b.chipset.TimeUntilCPUSlot()
	}

	// Chip state stays in lock-step with elapsed processor time even
	// for accesses that never touch contended memory.
	changes := b.chipset.RunFor(req.Duration + delay)
	b.chipTime += uint64(req.Duration + delay)
	b.intLevel = changes.InterruptLevel

	if req.Operation&OpReset != 0 {
		b.mem.Reset()
		log.Printf("bus: reset asserted; memory map reinitialized")
	}

	// Autovectored interrupt acknowledge: flag the peripheral-space
	// access and skip routing.
	if req.Operation&OpInterruptAcknowledge != 0 {
		b.vpa = true
		return delay
	}

	if req.Operation&(OpNewAddress|OpSameAddress) == 0 {
		return delay
	}

	addr := req.Address & addressMask

	// VPA asserts for any CIA-window address so the CPU autovectors.
	b.vpa = addr&ciaWindowMask == ciaWindowBase

	if r := b.mem.lookup(addr); r.contents != nil {
		b.mem.perform(r, req)
		return delay
	}

	if req.Operation&(OpSelectByte|OpSelectWord) == 0 {
		return delay
	}

	switch {
	case addr&ciaWindowMask == ciaWindowBase:
		b.performCIA(req)
	case addr >= chipRegBase && addr <= chipRegLast:
		b.chipset.Perform(req)
	default:
		// Open bus: reads float high, writes vanish. Not a fault.
		if req.IsRead() {
			req.SetValue16(0xFFFF)
			if addr < romShadowBase {
				log.Printf("bus: unmapped read from %06X", addr)
			}
		} else if addr < romShadowBase {
			log.Printf("bus: unmapped write of %04X to %06X", req.Value, addr)
		}
	}
	return delay
}

// performCIA routes an access in the CIA window to zero, one or both
// CIAs by lane.
func (b *AmigaBus) performCIA(req *BusRequest) {
	reg := int(req.Address >> 8)

	if req.IsRead() {
		result := uint16(0xFFFF)
		if req.Address&ciaASelect == 0 {
			result &= 0xFF00 | uint16(b.chipset.CIAA.Read(reg))
		}
		if req.Address&ciaBSelect == 0 {
			result &= 0x00FF | uint16(b.chipset.CIAB.Read(reg))<<8
		}
		req.SetValue16(result)
		return
	}

	if req.Address&ciaASelect == 0 {
		b.chipset.CIAA.Write(reg, req.Value8Low())
	}
	if req.Address&ciaBSelect == 0 {
		b.chipset.CIAB.Write(reg, req.Value8High())
	}
}

// InterruptLevel returns the interrupt level published by the most
// recent chipset advancement.
func (b *AmigaBus) InterruptLevel() int {
	return b.intLevel
}

// PeripheralAddress reports whether the last dispatched access hit the
// 6800-style peripheral (CIA/autovector) space.
func (b *AmigaBus) PeripheralAddress() bool {
	return b.vpa
}

// TakeStallCycles returns and clears the arbitration delay accumulated
// by CPU accesses since the last call. The frame loop feeds this back
// into the CPU's own cycle count.
func (b *AmigaBus) TakeStallCycles() int {
	n := b.stall
	b.stall = 0
	return n
}

// AdvanceIdle ages chip state by cycles the CPU will never claim,
// e.g. while halted after a double bus fault.
func (b *AmigaBus) AdvanceIdle(cycles int) {
	changes := b.chipset.RunFor(cycles)
	b.chipTime += uint64(cycles)
	b.intLevel = changes.InterruptLevel
}

// syncTo advances the chipset to the given absolute CPU cycle so that
// internal CPU cycles (no bus access) still age chip state.
func (b *AmigaBus) syncTo(cycle uint64) {
	if cycle > b.chipTime {
		changes := b.chipset.RunFor(int(cycle - b.chipTime))
		b.chipTime = cycle
		b.intLevel = changes.InterruptLevel
	}
}

// dispatch builds and performs one width-limited request, banking any
// arbitration delay as stall cycles.
func (b *AmigaBus) dispatch(op uint16, addr uint32, value uint16) uint16 {
	req := BusRequest{
		Operation: op,
		Address:   addr,
		Value:     value,
		Duration:  defaultAccessCycles,
	}
	b.stall += b.PerformBusRequest(&req)
	return req.Value
}

// Read implements m68k.Bus.
func (b *AmigaBus) Read(s m68k.Size, addr uint32) uint32 {
	return b.ReadCycle(0, s, addr)
}

// ReadCycle implements m68k.CycleBus. Long accesses are two word bus
// cycles, high word first, exactly as the 16-bit bus performs them.
func (b *AmigaBus) ReadCycle(cycle uint64, s m68k.Size, addr uint32) uint32 {
	b.syncTo(cycle)

	switch s {
	case m68k.Byte:
		req := BusRequest{
			Operation: OpRead | OpNewAddress | OpSelectByte,
			Address:   addr,
			Duration:  defaultAccessCycles,
		}
		b.stall += b.PerformBusRequest(&req)
		return uint32(req.LaneByte())
	case m68k.Word:
		return uint32(b.dispatch(OpRead|OpNewAddress|OpSelectWord, addr, 0))
	case m68k.Long:
		hi := b.dispatch(OpRead|OpNewAddress|OpSelectWord, addr, 0)
		lo := b.dispatch(OpRead|OpNewAddress|OpSelectWord, addr+2, 0)
		return uint32(hi)<<16 | uint32(lo)
	}
	return 0
}

// Write implements m68k.Bus.
func (b *AmigaBus) Write(s m68k.Size, addr uint32, value uint32) {
	b.WriteCycle(0, s, addr, value)
}

// WriteCycle implements m68k.CycleBus.
func (b *AmigaBus) WriteCycle(cycle uint64, s m68k.Size, addr uint32, value uint32) {
	b.syncTo(cycle)

	switch s {
	case m68k.Byte:
		req := BusRequest{
			Operation: OpNewAddress | OpSelectByte,
			Address:   addr,
			Duration:  defaultAccessCycles,
		}
		req.SetValue8(uint8(value))
		b.stall += b.PerformBusRequest(&req)
	case m68k.Word:
		b.dispatch(OpNewAddress|OpSelectWord, addr, uint16(value))
	case m68k.Long:
		b.dispatch(OpNewAddress|OpSelectWord, addr, uint16(value>>16))
		b.dispatch(OpNewAddress|OpSelectWord, addr+2, uint16(value))
	}
}

// Reset implements m68k.Bus: the CPU's RESET instruction reinitializes
// the memory map, nothing else.
func (b *AmigaBus) Reset() {
	b.mem.Reset()
}
