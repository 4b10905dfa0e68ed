package emu

import "image"

const (
	ScreenWidth         = 320
	DefaultScreenHeight = 256
	MaxScreenHeight     = 288
)

// firstVisibleLine is the raster line where the standard display
// window opens ($2C); lines above it are vertical blank.
const firstVisibleLine = 44

// frameBuffer is the machine's display output. The pixel pipeline
// (bitplanes, sprites, copper effects) is not modeled; each scanline
// is filled with the register-visible background color so frontends
// get a correctly-paced, correctly-sized frame.
type frameBuffer struct {
	img    *image.RGBA
	height int
}

func (f *frameBuffer) init(scanlines int) {
	f.height = scanlines - firstVisibleLine
	if f.height > MaxScreenHeight {
		f.height = MaxScreenHeight
	}
	f.img = image.NewRGBA(image.Rect(0, 0, ScreenWidth, MaxScreenHeight))
}

// fillLine paints one raster line with a 12-bit chipset color.
func (f *frameBuffer) fillLine(y int, color uint16) {
	row := y - firstVisibleLine
	if row < 0 || row >= f.height {
		return
	}
	r := uint8((color >> 8 & 0xF) * 0x11)
	g := uint8((color >> 4 & 0xF) * 0x11)
	b := uint8((color & 0xF) * 0x11)

	base := row * f.img.Stride
	line := f.img.Pix[base : base+ScreenWidth*4]
	for i := 0; i < len(line); i += 4 {
		line[i] = r
		line[i+1] = g
		line[i+2] = b
		line[i+3] = 0xFF
	}
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.chipset.fb.img.Pix
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return e.chipset.fb.img.Stride
}

// GetActiveHeight returns the current active display height.
func (e *Emulator) GetActiveHeight() int {
	return e.chipset.fb.height
}
