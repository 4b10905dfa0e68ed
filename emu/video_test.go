package emu

import "testing"

func TestFrameBuffer_FillLine(t *testing.T) {
	var fb frameBuffer
	fb.init(312)

	if fb.height != 268 {
		t.Fatalf("expected 268 visible lines for PAL, got %d", fb.height)
	}

	// Line 44 is the first visible raster line, mapped to row 0.
	fb.fillLine(firstVisibleLine, 0x0F00)
	px := fb.img.Pix
	if px[0] != 0xFF || px[1] != 0x00 || px[2] != 0x00 || px[3] != 0xFF {
		t.Errorf("expected opaque red pixel, got % X", px[0:4])
	}

	// 12-bit components expand by nibble duplication.
	fb.fillLine(firstVisibleLine+1, 0x0A5C)
	row := fb.img.Stride
	if px[row] != 0xAA || px[row+1] != 0x55 || px[row+2] != 0xCC {
		t.Errorf("expected AA/55/CC, got % X", px[row:row+3])
	}

	// Blanked lines are out of range and ignored.
	fb.fillLine(0, 0x0FFF)
	fb.fillLine(312, 0x0FFF)
}

func TestFrameBuffer_BackgroundColorReachesOutput(t *testing.T) {
	c := makeTestChipset(t)

	w := BusRequest{Operation: OpSelectWord, Address: chipRegBase + regCOLOR, Value: 0x0123}
	c.Perform(&w)

	// Run past the first visible line so it gets painted.
	c.RunFor((firstVisibleLine + 1) * 227 * cpuCyclesPerCCK)

	px := c.fb.img.Pix
	if px[0] != 0x11 || px[1] != 0x22 || px[2] != 0x33 {
		t.Errorf("expected COLOR00 background 11/22/33, got % X", px[0:3])
	}
}
