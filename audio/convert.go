package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"layeh.com/gopus"
)

const (
	sampleRate    = 48000
	channels      = 2
	frameSize     = 960 // 20 ms at 48 kHz
	opusBitrate   = 128000
	pcmFrameBytes = frameSize * channels * 2
)

// Mp3ToOpusFrames decodes MP3 audio into 20 ms Opus frames sized for a
// Discord voice connection. The returned channel closes when the audio is
// fully encoded or the context is cancelled.
func Mp3ToOpusFrames(
	ctx context.Context,
	mp3 []byte,
) (<-chan []byte, error) {
	pcm, err := decodeMp3PCM(ctx, mp3)
	if err != nil {
		return nil, err
	}

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}

	frames := make(chan []byte)
	go func() {
		defer close(frames)
		for {
			select {
			case <-ctx.Done():
				return
			case pcmData, ok := <-pcm:
				if !ok {
					return
				}
				opusData, err := encoder.Encode(
					pcmFrame(pcmData),
					frameSize,
					opusBitrate,
				)
				if err != nil {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case frames <- opusData:
				}
			}
		}
	}()

	return frames, nil
}

func decodeMp3PCM(
	ctx context.Context,
	mp3 []byte,
) (<-chan []byte, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprint(sampleRate),
		"-ac", fmt.Sprint(channels),
		"-")
	cmd.Stdin = bytes.NewReader(mp3)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open ffmpeg stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	pcm := make(chan []byte)
	go func() {
		defer close(pcm)
		defer cmd.Wait()
		for {
			buffer := make([]byte, pcmFrameBytes)
			n, err := io.ReadFull(stdout, buffer)
			if n == 0 {
				return
			}
			select {
			case <-ctx.Done():
				return
			case pcm <- buffer[:n]:
			}
			if err != nil {
				return
			}
		}
	}()

	return pcm, nil
}

// pcmFrame reinterprets little-endian sample bytes as int16, padding short
// final reads with silence so every Opus frame is exactly 20 ms.
func pcmFrame(pcmData []byte) []int16 {
	samples := make([]int16, len(pcmData)/2)
	for i := 0; i+1 < len(pcmData); i += 2 {
		samples[i/2] = int16(pcmData[i]) | int16(pcmData[i+1])<<8
	}
	if len(samples) < frameSize*channels {
		samples = append(
			samples,
			make([]int16, frameSize*channels-len(samples))...)
	}
	return samples
}
