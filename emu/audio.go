package emu

const sampleRate = 48000

// fillAudio appends one frame of stereo PCM. Paula's sample playback
// and filtering are not modeled; silence at the correct rate keeps the
// frontend's audio-driven timing fed.
func (e *Emulator) fillAudio() {
	samples := sampleRate / e.timing.FPS
	for i := 0; i < samples; i++ {
		e.audioBuffer = append(e.audioBuffer, 0, 0)
	}
}

// GetAudioSamples returns accumulated audio samples as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}
