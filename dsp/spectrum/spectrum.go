package spectrum

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/window"
)

const (
	// MinFFTSize is the smallest supported transform length.
	MinFFTSize = 16
	// DefaultFFTSize matches the frame length used for display spectrograms.
	DefaultFFTSize = 2048
	// FloorDB is reported for bins with zero energy.
	FloorDB = -160.0
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	magnitudeInto(out, in)
	return out
}

func magnitudeInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}

// AmplitudeToDB converts a linear amplitude to dB, clamping silence to
// FloorDB.
func AmplitudeToDB(v float64) float64 {
	if v <= 0 {
		return FloorDB
	}
	db := 20 * math.Log10(v)
	if db < FloorDB {
		return FloorDB
	}
	return db
}

// BinFrequency returns the center frequency in Hz of bin k.
func BinFrequency(k, fftSize, sampleRate int) float64 {
	return float64(k) * float64(sampleRate) / float64(fftSize)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func validate(sampleRate, fftSize int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("spectrum: sample rate must be > 0: %d: %w", sampleRate, core.ErrInvalidParameter)
	}
	if fftSize < MinFFTSize || !isPowerOfTwo(fftSize) {
		return fmt.Errorf("spectrum: fft size must be a power of two >= %d: %d: %w", MinFFTSize, fftSize, core.ErrInvalidParameter)
	}
	return nil
}

// framer transforms fixed-length frames into scaled single-sided amplitude
// spectra. It is not safe for concurrent use.
type framer struct {
	size  int
	plan  *algofft.Plan[complex128]
	win   []float64
	scale []float64
	in    []complex128
	out   []complex128
}

func newFramer(fftSize int, win window.Type) (*framer, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	coeffs := window.Generate(win, fftSize, window.WithPeriodic())
	gain := window.CoherentGain(coeffs)
	if gain <= 0 {
		return nil, fmt.Errorf("spectrum: window %s has zero gain: %w", win, core.ErrInvalidParameter)
	}

	bins := fftSize/2 + 1
	scale := make([]float64, bins)
	for k := range scale {
		s := 2 / (float64(fftSize) * gain)
		if k == 0 || k == bins-1 {
			s /= 2
		}
		scale[k] = s
	}

	return &framer{
		size:  fftSize,
		plan:  plan,
		win:   coeffs,
		scale: scale,
		in:    make([]complex128, fftSize),
		out:   make([]complex128, fftSize),
	}, nil
}

func (f *framer) bins() int { return f.size/2 + 1 }

// frame zero-pads src to the frame length and writes amplitudes into dst.
func (f *framer) frame(dst, src []float64) error {
	for i := range f.in {
		v := 0.0
		if i < len(src) {
			v = src[i] * f.win[i]
		}
		f.in[i] = complex(v, 0)
	}
	if err := f.plan.Forward(f.out, f.in); err != nil {
		return fmt.Errorf("spectrum: fft: %w", err)
	}
	magnitudeInto(dst, f.out[:f.bins()])
	vecmath.MulBlockInPlace(dst, f.scale)
	return nil
}

// Spectrum is a single-sided amplitude spectrum.
type Spectrum struct {
	SampleRate  int       `json:"sample_rate"`
	FFTSize     int       `json:"fft_size"`
	Frames      int       `json:"frames"`
	Frequencies []float64 `json:"frequencies_hz"`
	Magnitude   []float64 `json:"magnitude"`
}

// PeakFrequency returns the frequency of the strongest bin above DC.
func (s Spectrum) PeakFrequency() float64 {
	best := 0
	for k := 1; k < len(s.Magnitude); k++ {
		if best == 0 || s.Magnitude[k] > s.Magnitude[best] {
			best = k
		}
	}
	if best >= len(s.Frequencies) {
		return 0
	}
	return s.Frequencies[best]
}

// BandLevel returns the RMS amplitude of the bins within [minHz, maxHz].
func (s Spectrum) BandLevel(minHz, maxHz float64) float64 {
	var sum float64
	var n int
	for k, f := range s.Frequencies {
		if f < minHz || f > maxHz {
			continue
		}
		sum += s.Magnitude[k] * s.Magnitude[k]
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

// Analyze returns the average amplitude spectrum of samples over frames of
// fftSize overlapping by half. Input shorter than one frame is zero-padded.
func Analyze(samples []float64, sampleRate, fftSize int, win window.Type) (Spectrum, error) {
	if err := validate(sampleRate, fftSize); err != nil {
		return Spectrum{}, err
	}
	f, err := newFramer(fftSize, win)
	if err != nil {
		return Spectrum{}, err
	}

	bins := f.bins()
	sum := make([]float64, bins)
	cur := make([]float64, bins)
	hop := fftSize / 2
	frames := 0
	for start := 0; ; start += hop {
		end := min(start+fftSize, len(samples))
		if err := f.frame(cur, samples[min(start, end):end]); err != nil {
			return Spectrum{}, err
		}
		vecmath.AddBlockInPlace(sum, cur)
		frames++
		if end >= len(samples) {
			break
		}
	}
	vecmath.ScaleBlockInPlace(sum, 1/float64(frames))

	return Spectrum{
		SampleRate:  sampleRate,
		FFTSize:     fftSize,
		Frames:      frames,
		Frequencies: frequencies(0, bins, fftSize, sampleRate),
		Magnitude:   sum,
	}, nil
}

func frequencies(lo, hi, fftSize, sampleRate int) []float64 {
	out := make([]float64, hi-lo)
	for k := range out {
		out[k] = BinFrequency(lo+k, fftSize, sampleRate)
	}
	return out
}
