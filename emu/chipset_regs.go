package emu

import "log"

// Chipset register window bounds on the 68000 bus.
const (
	chipRegBase = 0xDFF000
	chipRegLast = 0xDFF1BE
)

// Register offsets within the chipset window.
const (
	regDMACONR = 0x002
	regVPOSR   = 0x004
	regVHPOSR  = 0x006
	regINTENAR = 0x01C
	regINTREQR = 0x01E
	regDSKPTH  = 0x020
	regDSKPTL  = 0x022
	regDSKLEN  = 0x024
	regDIWSTRT = 0x08E
	regDIWSTOP = 0x090
	regDDFSTRT = 0x092
	regDDFSTOP = 0x094
	regDMACON  = 0x096
	regINTENA  = 0x09A
	regINTREQ  = 0x09C
	regBPLPT   = 0x0E0 // 0x0E0-0x0F6: BPL1PTH..BPL6PTL
	regSPRPT   = 0x120 // 0x120-0x13E: SPR0PTH..SPR7PTL
	regSPRBASE = 0x140 // 0x140-0x17E: SPRxPOS/CTL/DATA/DATB
	regCOLOR   = 0x180 // 0x180-0x1BE: COLOR00..COLOR31
)

// Perform services one access to the chipset register window. The
// caller guarantees the request is a data access inside the window;
// the chipset is responsible for its own register decode. All chipset
// registers are 16 bits wide and are either read-only or write-only;
// reads of write-only registers float the bus.
func (c *Chipset) Perform(req *BusRequest) {
	reg := int(req.Address) & 0x1FE

	if req.IsRead() {
		switch reg {
		case regDMACONR:
			req.SetValue16(c.dmacon)
		case regVPOSR:
			req.SetValue16(uint16(c.y >> 8))
		case regVHPOSR:
			req.SetValue16(uint16(c.y&0xFF)<<8 | uint16(c.x&0xFF))
		case regINTENAR:
			req.SetValue16(c.intena)
		case regINTREQR:
			req.SetValue16(c.intreq)
		default:
			req.SetValue16(0xFFFF)
			log.Printf("chipset: read of unhandled register %03X", reg)
		}
		return
	}

	v := req.Value
	switch {
	case reg == regDSKPTH:
		c.disk.pt = c.disk.pt&0x0000FFFF | uint32(v&0x0007)<<16
	case reg == regDSKPTL:
		c.disk.pt = c.disk.pt&0xFFFF0000 | uint32(v&0xFFFE)
	case reg == regDSKLEN:
		c.writeDSKLEN(v)
	case reg == regDIWSTRT:
		c.diwstrt = v
	case reg == regDIWSTOP:
		c.diwstop = v
	case reg == regDDFSTRT:
		c.ddfstrt = v
	case reg == regDDFSTOP:
		c.ddfstop = v
	case reg == regDMACON:
		// BBUSY/BZERO are not writable.
		c.dmacon = applySetClear(c.dmacon, v) &^ 0x6000
	case reg == regINTENA:
		c.writeINTENA(v)
	case reg == regINTREQ:
		c.writeINTREQ(v)
	case reg >= regBPLPT && reg < regBPLPT+0x18:
		c.writePointer(c.bplpt[:], reg-regBPLPT, v)
	case reg >= regSPRPT && reg < regSPRPT+0x20:
		c.writePointer(c.sprpt[:], reg-regSPRPT, v)
	case reg >= regSPRBASE && reg < regSPRBASE+0x40:
		c.writeSprite(reg-regSPRBASE, v)
	case reg >= regCOLOR && reg < regCOLOR+0x40:
		c.color[(reg-regCOLOR)>>1] = v & 0x0FFF
	default:
		log.Printf("chipset: write of %04X to unhandled register %03X", v, reg)
	}
}

// writePointer updates one half of a chip RAM pointer register pair
// (xxxPTH at even pair offsets, xxxPTL at odd).
func (c *Chipset) writePointer(ptrs []uint32, offset int, v uint16) {
	idx := offset >> 2
	if offset&2 == 0 {
		ptrs[idx] = ptrs[idx]&0x0000FFFF | uint32(v&0x0007)<<16
	} else {
		ptrs[idx] = ptrs[idx]&0xFFFF0000 | uint32(v&0xFFFE)
	}
}

// writeSprite stores sprite position/control/image registers. Sprite
// rendering is not modeled; the values are only held for readback-free
// register state.
func (c *Chipset) writeSprite(offset int, v uint16) {
	s := &c.spr[offset>>3]
	switch offset & 0x6 {
	case 0x0:
		s.pos = v
	case 0x2:
		s.ctl = v
	case 0x4:
		s.data = v
	case 0x6:
		s.datb = v
	}
}
