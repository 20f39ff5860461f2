package room

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Config controls synthetic room impulse response generation.
type Config struct {
	SampleRate int
	DurationS  float64
	Seed       uint64
	EarlyCount int
	LateLevel  float64
	Brightness float64
	LowDecayS  float64
	HighDecayS float64
	// FadeOutS is a cosine fade over the end of the response; 0 disables it.
	FadeOutS      float64
	NormalizePeak float64
}

// DefaultConfig returns a small, fairly dry room.
func DefaultConfig(sampleRate int) Config {
	return Config{
		SampleRate:    sampleRate,
		DurationS:     1.0,
		Seed:          1,
		EarlyCount:    24,
		LateLevel:     0.06,
		Brightness:    0.8,
		LowDecayS:     1.2,
		HighDecayS:    0.2,
		FadeOutS:      0.01,
		NormalizePeak: 0.9,
	}
}

func (c *Config) Validate() error {
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate too low: %d", c.SampleRate)
	}
	if c.DurationS <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.EarlyCount < 0 {
		return fmt.Errorf("early count must be >= 0")
	}
	if c.LateLevel < 0 {
		return fmt.Errorf("late level must be >= 0")
	}
	if c.Brightness <= 0 {
		return fmt.Errorf("brightness must be > 0")
	}
	if c.LowDecayS <= 0 || c.HighDecayS <= 0 {
		return fmt.Errorf("decay seconds must be > 0")
	}
	if c.NormalizePeak <= 0 {
		return fmt.Errorf("normalize peak must be > 0")
	}
	return nil
}

// GenerateIR synthesizes a mono room response: a direct impulse, a cluster
// of early reflections in the first 50 ms and a two-band diffuse tail.
func GenerateIR(cfg Config) ([]float32, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sr := float64(cfg.SampleRate)
	n := max(int(math.Round(cfg.DurationS*sr)), 1)
	buf := make([]float64, n)
	rng := rand.New(rand.NewPCG(cfg.Seed, 0x853c49e6748fea9b))

	buf[0] = 1

	for i := 0; i < cfg.EarlyCount; i++ {
		t := 0.001 + 0.049*rng.Float64()
		idx := int(t * sr)
		if idx <= 0 || idx >= n {
			continue
		}
		amp := (0.10 + 0.35*rng.Float64()) * math.Exp(-t*20.0)
		amp *= math.Pow(0.5+0.5*rng.Float64(), 1.0/cfg.Brightness)
		if rng.IntN(2) == 0 {
			amp = -amp
		}
		buf[idx] += amp
	}

	if cfg.LateLevel > 0 {
		air := max(0.3*(cfg.Brightness-0.3), 0)
		lp, hp := 0.0, 0.0
		for i := range buf {
			t := float64(i) / sr
			lowEnv := math.Exp(-t / (0.75 * cfg.LowDecayS))
			highEnv := math.Exp(-t / (0.75 * cfg.HighDecayS))
			x := rng.NormFloat64()
			lp = 0.985*lp + 0.015*x
			hp = 0.15*x - 0.15*hp
			buf[i] += cfg.LateLevel * (lowEnv*lp + air*highEnv*hp)
		}
	}

	highpassDC(buf, 0.995)
	fadeOut(buf, cfg.FadeOutS, cfg.SampleRate)

	peak := 1e-12
	for _, v := range buf {
		peak = max(peak, math.Abs(v))
	}
	s := cfg.NormalizePeak / peak
	out := make([]float32, n)
	for i, v := range buf {
		out[i] = float32(v * s)
	}
	return out, nil
}

func highpassDC(x []float64, r float64) {
	prevIn, prevOut := 0.0, 0.0
	for i := range x {
		y := x[i] - prevIn + r*prevOut
		prevIn = x[i]
		prevOut = y
		x[i] = y
	}
}

func fadeOut(buf []float64, seconds float64, sampleRate int) {
	if seconds <= 0 || len(buf) == 0 {
		return
	}
	n := min(int(math.Round(seconds*float64(sampleRate))), len(buf))
	start := len(buf) - n
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		buf[start+i] *= 0.5 * (1.0 + math.Cos(t*math.Pi))
	}
}
