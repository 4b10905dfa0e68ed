package emu

import (
	"encoding/binary"
	"errors"
)

const (
	chipsetSerializeVersion = 1
	// ChipsetSerializeSize is the total bytes needed for the chipset,
	// excluding the CIAs (serialized separately).
	// version(1) + intena/intreq/dmacon(6) +
	// x(2)+y(2)+subCycle(1)+frameCount(4) +
	// diwstrt/diwstop/ddfstrt/ddfstop(8) +
	// bplpt(24) + sprpt(32) + spr(64) + color(64) +
	// eClockAccum(1) + ciaAInput(1) +
	// disk pt(4)+remaining(4)+armCount(1)+active(1)+writeMode(1)+trackPos(4) +
	// drives 2x track(1)+side(1)+motor(1)+sel(1)
	ChipsetSerializeSize = 233
)

// Serialize writes chipset state to buf. buf must be at least
// ChipsetSerializeSize bytes. Drive media is not part of the state;
// the same media must be inserted before restoring.
func (c *Chipset) Serialize(buf []byte) error {
	if len(buf) < ChipsetSerializeSize {
		return errors.New("chipset serialize buffer too small")
	}

	buf[0] = chipsetSerializeVersion
	binary.LittleEndian.PutUint16(buf[1:3], c.intena)
	binary.LittleEndian.PutUint16(buf[3:5], c.intreq)
	binary.LittleEndian.PutUint16(buf[5:7], c.dmacon)

	binary.LittleEndian.PutUint16(buf[7:9], uint16(c.x))
	binary.LittleEndian.PutUint16(buf[9:11], uint16(c.y))
	buf[11] = uint8(c.subCycle)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(c.frameCount))

	binary.LittleEndian.PutUint16(buf[16:18], c.diwstrt)
	binary.LittleEndian.PutUint16(buf[18:20], c.diwstop)
	binary.LittleEndian.PutUint16(buf[20:22], c.ddfstrt)
	binary.LittleEndian.PutUint16(buf[22:24], c.ddfstop)

	offset := 24
	for _, p := range c.bplpt {
		binary.LittleEndian.PutUint32(buf[offset:offset+4], p)
		offset += 4
	}
	for _, p := range c.sprpt {
		binary.LittleEndian.PutUint32(buf[offset:offset+4], p)
		offset += 4
	}
	for _, s := range c.spr {
		binary.LittleEndian.PutUint16(buf[offset:offset+2], s.pos)
		binary.LittleEndian.PutUint16(buf[offset+2:offset+4], s.ctl)
		binary.LittleEndian.PutUint16(buf[offset+4:offset+6], s.data)
		binary.LittleEndian.PutUint16(buf[offset+6:offset+8], s.datb)
		offset += 8
	}
	for _, v := range c.color {
		binary.LittleEndian.PutUint16(buf[offset:offset+2], v)
		offset += 2
	}

	buf[offset] = uint8(c.eClockAccum)
	buf[offset+1] = c.ciaAInput
	offset += 2

	binary.LittleEndian.PutUint32(buf[offset:offset+4], c.disk.pt)
	binary.LittleEndian.PutUint32(buf[offset+4:offset+8], uint32(c.disk.remaining))
	buf[offset+8] = uint8(c.disk.armCount)
	buf[offset+9] = boolByte(c.disk.active)
	buf[offset+10] = boolByte(c.disk.writeMode)
	binary.LittleEndian.PutUint32(buf[offset+11:offset+15], uint32(c.disk.trackPos))
	offset += 15

	for i := range c.drives {
		d := &c.drives[i]
		buf[offset] = uint8(d.track)
		buf[offset+1] = uint8(d.side)
		buf[offset+2] = boolByte(d.motor)
		buf[offset+3] = boolByte(d.sel)
		offset += 4
	}
	return nil
}

// Deserialize restores chipset state from buf. The derived interrupt
// level is recomputed from the restored enable/request masks.
func (c *Chipset) Deserialize(buf []byte) error {
	if len(buf) < ChipsetSerializeSize {
		return errors.New("chipset deserialize buffer too small")
	}
	if buf[0] != chipsetSerializeVersion {
		return errors.New("unsupported chipset state version")
	}

	c.intena = binary.LittleEndian.Uint16(buf[1:3])
	c.intreq = binary.LittleEndian.Uint16(buf[3:5])
	c.dmacon = binary.LittleEndian.Uint16(buf[5:7])

	c.x = int(binary.LittleEndian.Uint16(buf[7:9]))
	c.y = int(binary.LittleEndian.Uint16(buf[9:11]))
	c.subCycle = int(buf[11])
	c.frameCount = int(binary.LittleEndian.Uint32(buf[12:16]))

	c.diwstrt = binary.LittleEndian.Uint16(buf[16:18])
	c.diwstop = binary.LittleEndian.Uint16(buf[18:20])
	c.ddfstrt = binary.LittleEndian.Uint16(buf[20:22])
	c.ddfstop = binary.LittleEndian.Uint16(buf[22:24])

	offset := 24
	for i := range c.bplpt {
		c.bplpt[i] = binary.LittleEndian.Uint32(buf[offset : offset+4])
		offset += 4
	}
	for i := range c.sprpt {
		c.sprpt[i] = binary.LittleEndian.Uint32(buf[offset : offset+4])
		offset += 4
	}
	for i := range c.spr {
		c.spr[i].pos = binary.LittleEndian.Uint16(buf[offset : offset+2])
		c.spr[i].ctl = binary.LittleEndian.Uint16(buf[offset+2 : offset+4])
		c.spr[i].data = binary.LittleEndian.Uint16(buf[offset+4 : offset+6])
		c.spr[i].datb = binary.LittleEndian.Uint16(buf[offset+6 : offset+8])
		offset += 8
	}
	for i := range c.color {
		c.color[i] = binary.LittleEndian.Uint16(buf[offset : offset+2])
		offset += 2
	}

	c.eClockAccum = int(buf[offset])
	c.ciaAInput = buf[offset+1]
	offset += 2

	c.disk.pt = binary.LittleEndian.Uint32(buf[offset : offset+4])
	c.disk.remaining = int(binary.LittleEndian.Uint32(buf[offset+4 : offset+8]))
	c.disk.armCount = int(buf[offset+8])
	c.disk.active = buf[offset+9] != 0
	c.disk.writeMode = buf[offset+10] != 0
	c.disk.trackPos = int(binary.LittleEndian.Uint32(buf[offset+11 : offset+15]))
	offset += 15

	for i := range c.drives {
		d := &c.drives[i]
		d.track = int(buf[offset])
		d.side = int(buf[offset+1])
		d.motor = buf[offset+2] != 0
		d.sel = buf[offset+3] != 0
		offset += 4
	}

	c.updateInterrupts()
	return nil
}
