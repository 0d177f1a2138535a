package codec

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/cwbudde/regionfx/dsp/signal"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
	unsigned8Offset     = 128
)

// WAV is the native PCM WAV bridge.
type WAV struct{}

// Decode reads an integer PCM WAV file, averages its channels to mono and
// scales the signed codes by 2^(bits-1). Other audio formats fail with
// ErrDecode.
func (WAV) Decode(ctx context.Context, path string) (signal.Signal, error) {
	if err := ctx.Err(); err != nil {
		return signal.Signal{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return signal.Signal{}, fmt.Errorf("wav decode: %w: %w", err, ErrDecode)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return signal.Signal{}, fmt.Errorf("wav decode: %s is not a valid wav file: %w", path, ErrDecode)
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return signal.Signal{}, fmt.Errorf("wav decode: %s: unsupported audio format %d: %w", path, dec.WavAudioFormat, ErrDecode)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return signal.Signal{}, fmt.Errorf("wav decode: %w: %w", err, ErrDecode)
	}
	if buf == nil || buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return signal.Signal{}, fmt.Errorf("wav decode: %s has no audio format: %w", path, ErrDecode)
	}

	bits := int(dec.BitDepth)
	if bits <= 0 {
		bits = buf.SourceBitDepth
	}
	if bits < 8 || bits > 32 {
		return signal.Signal{}, fmt.Errorf("wav decode: unsupported bit depth %d: %w", bits, ErrDecode)
	}

	data := buf.Data
	if bits == 8 {
		data = shiftCodes(data, -unsigned8Offset)
	}
	samples := downmix(data, buf.Format.NumChannels, math.Exp2(float64(bits-1)))
	return signal.Signal{SampleRate: buf.Format.SampleRate, Samples: samples}, nil
}

// shiftCodes returns a copy of data with delta added to every code.
// 8-bit WAV stores unsigned codes centred on 128.
func shiftCodes(data []int, delta int) []int {
	out := make([]int, len(data))
	for i, v := range data {
		out[i] = v + delta
	}
	return out
}

// downmix averages interleaved integer frames into normalized mono samples.
func downmix(data []int, channels int, fullScale float64) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		out[i] = sum / float64(channels) / fullScale
	}
	return out
}

// Encode writes signed pcm codes as a mono PCM WAV file at bitDepth. 8-bit
// output is offset to the unsigned range.
func (WAV) Encode(ctx context.Context, path string, sampleRate int, pcm []int, bitDepth int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wav encode: sample rate must be > 0: %d: %w", sampleRate, ErrEncode)
	}
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("wav encode: unsupported bit depth %d: %w", bitDepth, ErrEncode)
	}
	return replaceFile(ctx, path, func(tmp string) error {
		return writeWAV(tmp, sampleRate, pcm, bitDepth)
	})
}

func writeWAV(path string, sampleRate int, pcm []int, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav encode: %w: %w", err, ErrEncode)
	}

	if bitDepth == 8 {
		pcm = shiftCodes(pcm, unsigned8Offset)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           pcm,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("wav encode: %w: %w", err, ErrEncode)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("wav encode: %w: %w", err, ErrEncode)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wav encode: %w: %w", err, ErrEncode)
	}
	return nil
}
