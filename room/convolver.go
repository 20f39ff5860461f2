package room

import (
	"fmt"

	dspconv "github.com/cwbudde/algo-dsp/dsp/conv"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voices/internal/wavio"
)

// DefaultPartSize is the partition length of the streaming convolver.
const DefaultPartSize = 128

// Convolver runs a mono signal through an impulse response with partitioned
// overlap-add convolution and mixes it with the dry signal.
type Convolver struct {
	partSize int
	irLen    int
	ola      *dspconv.StreamingOverlapAddT[float32, complex64]
	wet      float32

	in  []float32
	out []float32
}

// NewConvolver builds a convolver for ir. The mix starts fully wet.
func NewConvolver(ir []float32, partSize int) (*Convolver, error) {
	if len(ir) == 0 {
		return nil, fmt.Errorf("empty impulse response")
	}
	if partSize <= 0 {
		partSize = DefaultPartSize
	}
	ola, err := dspconv.NewStreamingOverlapAdd32(ir, partSize)
	if err != nil {
		return nil, fmt.Errorf("build convolver: %w", err)
	}
	return &Convolver{
		partSize: partSize,
		irLen:    len(ir),
		ola:      ola,
		wet:      1,
		in:       make([]float32, partSize),
		out:      make([]float32, partSize),
	}, nil
}

// SetMix sets the wet share in [0,1]; the dry share is 1-wet.
func (c *Convolver) SetMix(wet float32) {
	c.wet = min(max(wet, 0), 1)
}

// TailLength is the number of samples the response rings past the input.
func (c *Convolver) TailLength() int { return c.irLen - 1 }

// Apply convolves x followed by tail samples of silence and returns the
// mixed result of len(x)+tail samples.
func (c *Convolver) Apply(x []float32, tail int) ([]float32, error) {
	n := len(x) + max(tail, 0)
	out := make([]float32, n)
	dry := 1 - c.wet
	for pos := 0; pos < n; pos += c.partSize {
		clear(c.in)
		if pos < len(x) {
			copy(c.in, x[pos:])
		}
		if err := c.ola.ProcessBlockTo(c.out, c.in); err != nil {
			return nil, err
		}
		end := min(pos+c.partSize, n)
		for i := pos; i < end; i++ {
			out[i] = c.wet * c.out[i-pos]
			if i < len(x) {
				out[i] += dry * x[i]
			}
		}
	}
	return out, nil
}

// Reset clears the convolution history.
func (c *Convolver) Reset() {
	c.ola.Reset()
}

// LoadIR reads a mono impulse response from a WAV file and resamples it to
// sampleRate.
func LoadIR(path string, sampleRate int) ([]float32, error) {
	ir, rate, err := wavio.ReadMono(path)
	if err != nil {
		return nil, err
	}
	if len(ir) == 0 {
		return nil, fmt.Errorf("empty wav data: %s", path)
	}
	if rate != sampleRate {
		logrus.WithFields(logrus.Fields{
			"function": "room.LoadIR",
			"path":     path,
			"from":     rate,
			"to":       sampleRate,
		}).Debug("Resampling impulse response")
	}
	return wavio.Resample(ir, rate, sampleRate)
}
