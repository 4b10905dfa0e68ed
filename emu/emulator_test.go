package emu

import "testing"

func TestNewEmulator_RequiresKickstart(t *testing.T) {
	if _, err := NewEmulator(nil, RegionPAL); err != ErrMissingKickstart {
		t.Errorf("expected ErrMissingKickstart, got %v", err)
	}
}

func TestEmulator_Timing(t *testing.T) {
	e := makeTestEmulator(t)

	timing := e.GetTiming()
	if timing.FPS != 50 || timing.Scanlines != 312 {
		t.Errorf("PAL timing wrong: %+v", timing)
	}

	e.SetRegion(RegionNTSC)
	timing = e.GetTiming()
	if timing.FPS != 60 || timing.Scanlines != 262 {
		t.Errorf("NTSC timing wrong: %+v", timing)
	}
	if e.chipset.frameLines != 262 {
		t.Error("region change must reconfigure the chipset frame")
	}
}

func TestEmulator_RunFrame(t *testing.T) {
	e := makeTestEmulator(t)

	e.RunFrame()

	// One frame of chip time has passed regardless of what the CPU
	// found to execute in the test image.
	if s := e.Scan(); s.Frame < 1 {
		t.Errorf("chipset should cross at least one frame, at %+v", s)
	}

	// One frame of stereo silence at the PAL rate.
	want := 2 * (sampleRate / 50)
	if got := len(e.GetAudioSamples()); got != want {
		t.Errorf("expected %d audio samples, got %d", want, got)
	}

	// Audio is per-frame, not cumulative.
	e.RunFrame()
	if got := len(e.GetAudioSamples()); got != want {
		t.Errorf("audio buffer should reset each frame, got %d", got)
	}
}

func TestEmulator_MemoryInspection(t *testing.T) {
	e := makeTestEmulator(t)
	e.mem.WriteChipWord(0x500, 0xA1B2)

	buf := make([]byte, 4)
	if n := e.ReadMemory(0x500, buf); n != 4 {
		t.Fatalf("expected 4 bytes read, got %d", n)
	}
	if buf[0] != 0xA1 || buf[1] != 0xB2 {
		t.Errorf("unexpected memory contents % X", buf)
	}

	// Reads clamp at the end of chip RAM.
	if n := e.ReadMemory(chipRAMSize-2, buf); n != 2 {
		t.Errorf("expected clamped read of 2 bytes, got %d", n)
	}

	if b := e.ChipRAMByte(0x501); b != 0xB2 {
		t.Errorf("ChipRAMByte: expected 0xB2, got %02X", b)
	}
}

func TestEmulator_MemoryRegions(t *testing.T) {
	e := makeTestEmulator(t)

	regions := e.MemoryMap()
	if len(regions) != 1 || regions[0].Size != chipRAMSize {
		t.Fatalf("unexpected memory map %+v", regions)
	}

	e.mem.WriteChipWord(0x10, 0x1234)
	data := e.ReadRegion(regions[0].Type)
	if len(data) != chipRAMSize || data[0x10] != 0x12 {
		t.Error("ReadRegion should return chip RAM contents")
	}

	data[0x10] = 0x56
	e.WriteRegion(regions[0].Type, data)
	if e.mem.chipRAM[0x10] != 0x56 {
		t.Error("WriteRegion should load chip RAM contents")
	}
}

func TestEmulator_InputReachesCIA(t *testing.T) {
	e := makeTestEmulator(t)

	e.SetInput(0, 1<<4)
	if v := e.chipset.CIAA.Read(ciaPRA); v&0x40 != 0 {
		t.Errorf("fire should pull CIA A PRA bit 6 low, read %02X", v)
	}
	e.SetInput(1, 1<<4)
	if v := e.chipset.CIAA.Read(ciaPRA); v&0x80 != 0 {
		t.Errorf("player 2 fire should pull PRA bit 7 low, read %02X", v)
	}
	e.SetInput(0, 0)
	if v := e.chipset.CIAA.Read(ciaPRA); v&0x40 == 0 {
		t.Error("releasing fire should float PRA bit 6 high")
	}
}
