package emu

import "log"

const (
	driveCount = 2
	maxTrack   = 79

	// diskWordsPerLine is how many disk DMA word slots exist per
	// scanline.
	diskWordsPerLine = 3
)

// DiskImage is an opaque track provider. Format decoding happens
// outside this core; the chipset only pulls raw track bytes through it.
type DiskImage interface {
	// ReadTrack returns the raw bytes for one side of one cylinder.
	// A nil or empty result reads as no flux (all-ones words).
	ReadTrack(track, side int) []byte
}

// ActivityObserver receives drive activity notifications. Registration
// is pass-through from the machine; the timing core never depends on
// an observer being present.
type ActivityObserver interface {
	DriveMotor(drive int, running bool)
}

// Drive is one floppy mechanism. It is driven entirely through CIA B
// port B control lines; the head position and motor latch are the only
// state the bus layer sees.
type Drive struct {
	id    int
	image DiskImage
	track int
	side  int
	motor bool
	sel   bool
}

// Insert loads media into the drive. Returns false if the drive
// already has media spinning.
func (d *Drive) Insert(image DiskImage) bool {
	if d.motor && d.image != nil {
		return false
	}
	d.image = image
	return true
}

// CIA B port B drive control lines, all active low.
const (
	drvStep  = 0x01
	drvDir   = 0x02
	drvSide  = 0x04
	drvSel0  = 0x08
	drvMotor = 0x80
)

// writeDriveControl decodes a CIA B port B write. The motor line is
// latched per drive on the falling edge of its select line; step edges
// move the head of every selected drive.
func (c *Chipset) writeDriveControl(v uint8) {
	for i := range c.drives {
		d := &c.drives[i]
		sel := v&(drvSel0<<uint(i)) == 0
		if sel && !d.sel {
			motor := v&drvMotor == 0
			if motor != d.motor {
				d.motor = motor
				if c.observer != nil {
					c.observer.DriveMotor(d.id, motor)
				}
			}
		}
		if sel {
			d.side = 0
			if v&drvSide == 0 {
				d.side = 1
			}
			if v&drvStep == 0 {
				if v&drvDir == 0 {
					if d.track < maxTrack {
						d.track++
					}
				} else if d.track > 0 {
					d.track--
				}
			}
		}
		d.sel = sel
	}
}

// selectedDrive returns the drive the disk DMA engine reads from: the
// first selected drive with its motor running.
func (c *Chipset) selectedDrive() *Drive {
	for i := range c.drives {
		if c.drives[i].sel && c.drives[i].motor {
			return &c.drives[i]
		}
	}
	return nil
}

// InsertDisk places media in the numbered drive.
func (c *Chipset) InsertDisk(drive int, image DiskImage) bool {
	if drive < 0 || drive >= driveCount {
		return false
	}
	return c.drives[drive].Insert(image)
}

// diskDMA is the disk transfer engine: a chip RAM pointer, a word
// count and the double-write arming latch for DSKLEN.
type diskDMA struct {
	pt        uint32
	remaining int
	armCount  int
	active    bool
	writeMode bool
	trackPos  int
}

// writeDSKLEN handles the DSKLEN arming convention: two consecutive
// writes with bit 15 set start the transfer; any write with bit 15
// clear disarms and stops it.
func (c *Chipset) writeDSKLEN(v uint16) {
	if v&0x8000 == 0 {
		c.disk.armCount = 0
		c.disk.active = false
		return
	}
	c.disk.armCount++
	if c.disk.armCount < 2 {
		return
	}
	c.disk.armCount = 0
	c.disk.remaining = int(v & 0x3FFF)
	c.disk.writeMode = v&0x4000 != 0
	c.disk.trackPos = 0
	c.disk.active = c.disk.remaining > 0
	if !c.disk.active {
		// A zero-length transfer completes immediately.
		c.RaiseInterrupt(IntDskBlk)
	}
	if c.disk.writeMode {
		log.Printf("disk: write DMA requested; media is read-only here")
	}
}

// serviceDiskDMA runs once per scanline and moves up to the per-line
// slot allocation of words between the selected drive and chip RAM.
// Completion raises DSKBLK; the processor clears it through INTREQ.
func (c *Chipset) serviceDiskDMA() {
	const mask = dmaMaster | dmaDisk
	if !c.disk.active || c.dmacon&mask != mask {
		return
	}

	drive := c.selectedDrive()
	var data []byte
	if drive != nil && drive.image != nil {
		data = drive.image.ReadTrack(drive.track, drive.side)
	}

	for i := 0; i < diskWordsPerLine && c.disk.remaining > 0; i++ {
		word := uint16(0xFFFF)
		if len(data) > 0 {
			hi := data[c.disk.trackPos%len(data)]
			lo := data[(c.disk.trackPos+1)%len(data)]
			word = uint16(hi)<<8 | uint16(lo)
			c.disk.trackPos += 2
		}
		if !c.disk.writeMode {
			c.mem.WriteChipWord(c.disk.pt, word)
		}
		c.disk.pt += 2
		c.disk.remaining--
	}

	if c.disk.remaining == 0 {
		c.disk.active = false
		c.RaiseInterrupt(IntDskBlk)
	}
}
