package codec

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cwbudde/regionfx/dsp/signal"
)

var commandContext = exec.CommandContext

// FFmpeg bridges compressed formats through ffmpeg. WAV paths bypass the
// external tool.
type FFmpeg struct {
	// Binary is the ffmpeg executable; empty means "ffmpeg" on PATH.
	Binary string
	// WorkDir holds intermediate WAV files; empty means os.TempDir().
	WorkDir string
	Logger  *slog.Logger

	native WAV
}

// NewFFmpeg returns an ffmpeg bridge.
func NewFFmpeg(binary, workDir string, logger *slog.Logger) *FFmpeg {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FFmpeg{Binary: binary, WorkDir: workDir, Logger: logger}
}

func isWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

func (b *FFmpeg) binary() string {
	if s := strings.TrimSpace(b.Binary); s != "" {
		return s
	}
	return "ffmpeg"
}

func (b *FFmpeg) workDir() string {
	if b.WorkDir != "" {
		return b.WorkDir
	}
	return os.TempDir()
}

func (b *FFmpeg) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Decode converts path to 16-bit PCM WAV with ffmpeg and decodes that.
func (b *FFmpeg) Decode(ctx context.Context, path string) (signal.Signal, error) {
	if isWAV(path) {
		return b.native.Decode(ctx, path)
	}
	if _, err := os.Stat(path); err != nil {
		return signal.Signal{}, fmt.Errorf("ffmpeg decode: %w: %w", err, ErrDecode)
	}
	if err := os.MkdirAll(b.workDir(), 0o755); err != nil {
		return signal.Signal{}, fmt.Errorf("ffmpeg decode: work dir: %w: %w", err, ErrDecode)
	}

	tmp := tempPath(b.workDir(), ".wav")
	defer os.Remove(tmp)

	if err := b.run(ctx, decodeArgs(path, tmp)); err != nil {
		return signal.Signal{}, fmt.Errorf("ffmpeg decode: %w: %w", err, ErrDecode)
	}
	return b.native.Decode(ctx, tmp)
}

// Encode writes pcm to a temporary WAV and transcodes it to path, whose
// extension selects the output format.
func (b *FFmpeg) Encode(ctx context.Context, path string, sampleRate int, pcm []int, bitDepth int) error {
	if isWAV(path) {
		return b.native.Encode(ctx, path, sampleRate, pcm, bitDepth)
	}
	if err := os.MkdirAll(b.workDir(), 0o755); err != nil {
		return fmt.Errorf("ffmpeg encode: work dir: %w: %w", err, ErrEncode)
	}

	wavTmp := tempPath(b.workDir(), ".wav")
	defer os.Remove(wavTmp)
	if err := b.native.Encode(ctx, wavTmp, sampleRate, pcm, bitDepth); err != nil {
		return err
	}

	return replaceFile(ctx, path, func(tmp string) error {
		if err := b.run(ctx, encodeArgs(wavTmp, tmp)); err != nil {
			return fmt.Errorf("ffmpeg encode: %w: %w", err, ErrEncode)
		}
		return nil
	})
}

func (b *FFmpeg) run(ctx context.Context, args []string) error {
	b.logger().Debug("running ffmpeg", "binary", b.binary(), "args", strings.Join(args, " "))
	cmd := commandContext(ctx, b.binary(), args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func decodeArgs(src, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-sn",
		"-dn",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func encodeArgs(src, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		dest,
	}
}
