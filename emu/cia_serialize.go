package emu

import (
	"encoding/binary"
	"errors"
)

const (
	ciaSerializeVersion = 1
	// CIASerializeSize is the total bytes needed for one CIA.
	// version(1) + pra/prb/ddra/ddrb(4) +
	// timerA latch(2)+counter(2)+control(1) + timerB same(5) +
	// tod(4) + todAlarm(4) + todLatch(4) + todHeld(1) +
	// sdr(1) + icrData(1) + icrMask(1)
	CIASerializeSize = 31
)

// Serialize writes CIA state to buf. buf must be at least
// CIASerializeSize bytes.
func (c *CIA) Serialize(buf []byte) error {
	if len(buf) < CIASerializeSize {
		return errors.New("CIA serialize buffer too small")
	}

	buf[0] = ciaSerializeVersion
	buf[1] = c.pra
	buf[2] = c.prb
	buf[3] = c.ddra
	buf[4] = c.ddrb

	binary.LittleEndian.PutUint16(buf[5:7], c.timerA.latch)
	binary.LittleEndian.PutUint16(buf[7:9], c.timerA.counter)
	buf[9] = c.timerA.control
	binary.LittleEndian.PutUint16(buf[10:12], c.timerB.latch)
	binary.LittleEndian.PutUint16(buf[12:14], c.timerB.counter)
	buf[14] = c.timerB.control

	binary.LittleEndian.PutUint32(buf[15:19], c.tod)
	binary.LittleEndian.PutUint32(buf[19:23], c.todAlarm)
	binary.LittleEndian.PutUint32(buf[23:27], c.todLatch)
	buf[27] = boolByte(c.todHeld)

	buf[28] = c.sdr
	buf[29] = c.icrData
	buf[30] = c.icrMask
	return nil
}

// Deserialize restores CIA state from buf.
func (c *CIA) Deserialize(buf []byte) error {
	if len(buf) < CIASerializeSize {
		return errors.New("CIA deserialize buffer too small")
	}
	if buf[0] != ciaSerializeVersion {
		return errors.New("unsupported CIA state version")
	}

	c.pra = buf[1]
	c.prb = buf[2]
	c.ddra = buf[3]
	c.ddrb = buf[4]

	c.timerA.latch = binary.LittleEndian.Uint16(buf[5:7])
	c.timerA.counter = binary.LittleEndian.Uint16(buf[7:9])
	c.timerA.control = buf[9]
	c.timerB.latch = binary.LittleEndian.Uint16(buf[10:12])
	c.timerB.counter = binary.LittleEndian.Uint16(buf[12:14])
	c.timerB.control = buf[14]

	c.tod = binary.LittleEndian.Uint32(buf[15:19])
	c.todAlarm = binary.LittleEndian.Uint32(buf[19:23])
	c.todLatch = binary.LittleEndian.Uint32(buf[23:27])
	c.todHeld = buf[27] != 0

	c.sdr = buf[28]
	c.icrData = buf[29]
	c.icrMask = buf[30]
	return nil
}
