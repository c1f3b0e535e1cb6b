package audio

import "testing"

func TestPcmFrame(t *testing.T) {
	t.Run("Little Endian Samples", func(t *testing.T) {
		data := make([]byte, pcmFrameBytes)
		data[0] = 0x01
		data[1] = 0x02 // 0x0201
		data[2] = 0xFF
		data[3] = 0xFF // -1

		samples := pcmFrame(data)
		if len(samples) != frameSize*channels {
			t.Fatalf("expected %d samples, got %d", frameSize*channels, len(samples))
		}
		if samples[0] != 0x0201 {
			t.Errorf("sample 0 = %#x, want 0x0201", samples[0])
		}
		if samples[1] != -1 {
			t.Errorf("sample 1 = %d, want -1", samples[1])
		}
	})

	t.Run("Short Read Padded With Silence", func(t *testing.T) {
		samples := pcmFrame([]byte{0x34, 0x12})
		if len(samples) != frameSize*channels {
			t.Fatalf("expected a full frame, got %d samples", len(samples))
		}
		if samples[0] != 0x1234 {
			t.Errorf("sample 0 = %#x, want 0x1234", samples[0])
		}
		for i := 1; i < len(samples); i++ {
			if samples[i] != 0 {
				t.Fatalf("padding sample %d = %d, want silence", i, samples[i])
			}
		}
	})
}
