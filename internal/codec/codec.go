// Package codec moves audio between files and in-memory signals.
//
// The native bridge reads and writes PCM WAV directly. Other formats are
// converted through ffmpeg into a temporary WAV. Every write lands in a
// temporary file next to the destination and is renamed into place while a
// lock on the destination is held, so a failed encode never disturbs a
// previously written output.
package codec

import (
	"context"
	"errors"

	"github.com/cwbudde/regionfx/dsp/signal"
)

var (
	// ErrDecode reports an unreadable or corrupt input file.
	ErrDecode = errors.New("decode failed")
	// ErrEncode reports a failure to produce the output file.
	ErrEncode = errors.New("encode failed")
)

// Bridge decodes files to mono signals and encodes fixed-point PCM back to
// files.
type Bridge interface {
	Decode(ctx context.Context, path string) (signal.Signal, error)
	Encode(ctx context.Context, path string, sampleRate int, pcm []int, bitDepth int) error
}
