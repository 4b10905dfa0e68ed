package emu

import "testing"

func TestValidateKickstart(t *testing.T) {
	if err := ValidateKickstart(nil); err != ErrMissingKickstart {
		t.Errorf("nil image: expected ErrMissingKickstart, got %v", err)
	}
	if err := ValidateKickstart([]byte{}); err != ErrMissingKickstart {
		t.Errorf("empty image: expected ErrMissingKickstart, got %v", err)
	}

	if err := ValidateKickstart(make([]byte, 1000)); err == nil {
		t.Error("odd-sized image should be rejected")
	}

	// Right size, wrong header.
	if err := ValidateKickstart(make([]byte, kickSize256)); err == nil {
		t.Error("image without the reset JMP should be rejected")
	}

	if err := ValidateKickstart(makeTestKick()); err != nil {
		t.Errorf("valid 256KB image rejected: %v", err)
	}

	big := make([]byte, kickSize512)
	big[2] = 0x4E
	big[3] = 0xF9
	if err := ValidateKickstart(big); err != nil {
		t.Errorf("valid 512KB image rejected: %v", err)
	}
}
