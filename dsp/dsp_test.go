package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowpassPassesDCAndAttenuatesNyquist(t *testing.T) {
	lp := NewLowpass(1000, 48000, 0.707)
	var y float32
	for i := 0; i < 4800; i++ {
		y = lp.Process(1)
	}
	if math.Abs(float64(y)-1) > 1e-3 {
		t.Fatalf("expected unity DC gain: got=%f", y)
	}

	lp.Reset()
	peak := float32(0)
	for i := 0; i < 4800; i++ {
		x := float32(1)
		if i%2 == 1 {
			x = -1
		}
		out := lp.Process(x)
		if i > 100 {
			peak = max(peak, float32(math.Abs(float64(out))))
		}
	}
	if peak > 0.01 {
		t.Fatalf("expected Nyquist to be attenuated: peak=%f", peak)
	}
}

func TestDCBlockerRemovesOffsetAndPassesTone(t *testing.T) {
	const sr = 48000
	dc := NewDCBlocker(10, sr)
	var y float32
	for i := 0; i < sr; i++ {
		y = dc.Process(0.5)
	}
	assert.InDelta(t, 0, y, 1e-4)

	dc.Reset()
	peak := 0.0
	for i := 0; i < sr/2; i++ {
		x := 0.3 + float32(math.Sin(2*math.Pi*440*float64(i)/sr))
		out := dc.Process(x)
		if i > sr/4 {
			peak = max(peak, math.Abs(float64(out)))
		}
	}
	assert.InDelta(t, 1, peak, 0.01)
}

func TestOnePoleSmoothsStep(t *testing.T) {
	p := OnePole{Coeff: 0.9}
	first := p.Process(1)
	assert.InDelta(t, 0.1, first, 1e-6)
	for i := 0; i < 200; i++ {
		p.Process(1)
	}
	assert.InDelta(t, 1, p.Process(1), 1e-4)
}

func TestDelayLineIntegerAndCubicReads(t *testing.T) {
	d := NewDelayLine(16)
	for i := 1; i <= 10; i++ {
		d.Write(float32(i))
	}
	assert.Equal(t, float32(10), d.Read(1))
	assert.Equal(t, float32(7), d.Read(4))
	// A ramp is reproduced exactly by cubic interpolation.
	assert.InDelta(t, 7.25, d.ReadCubic(3.75), 1e-5)

	d.Add(1, 5)
	assert.Equal(t, float32(15), d.Read(1))
	d.Reset()
	assert.Zero(t, d.Read(1))
}

func TestNoiseRangeAndDeterminism(t *testing.T) {
	a, b := NewNoise(42), NewNoise(42)
	var sum float64
	for i := 0; i < 10000; i++ {
		x := a.Next()
		require.Equal(t, x, b.Next())
		require.GreaterOrEqual(t, x, float32(-1))
		require.Less(t, x, float32(1))
		sum += float64(x)
	}
	assert.InDelta(t, 0, sum/10000, 0.05)
}

func TestADSRStages(t *testing.T) {
	const sr = 1000
	e := NewADSR(sr, 0.01, 0.05, 0.5, 0.1)
	require.False(t, e.Active())

	e.Gate(1)
	n := 0
	for e.Stage() == StageAttack && n < 100 {
		e.Next()
		n++
	}
	assert.InDelta(t, 10, n, 1)
	assert.Equal(t, float32(1), e.Level())
	assert.Equal(t, StageDecay, e.Stage())

	for i := 0; i < 500; i++ {
		e.Next()
	}
	assert.Equal(t, StageSustain, e.Stage())
	assert.InDelta(t, 0.5, e.Level(), 1e-3)

	e.Release()
	// 60 dB in 0.1s; the idle threshold is 80 dB down.
	for i := 0; i < 200 && e.Active(); i++ {
		e.Next()
	}
	assert.False(t, e.Active())
	assert.Zero(t, e.Level())
}

func TestADSRRetriggerStartsFromCurrentLevel(t *testing.T) {
	e := NewADSR(1000, 0.1, 0.1, 1, 0.1)
	e.Gate(1)
	for i := 0; i < 50; i++ {
		e.Next()
	}
	mid := e.Level()
	e.Gate(1)
	assert.Greater(t, e.Next(), mid)
}

func TestDecayCoeff(t *testing.T) {
	c := DecayCoeff(1, 100)
	g := float32(1)
	for i := 0; i < 100; i++ {
		g *= c
	}
	assert.InDelta(t, 1e-3, g, 2e-4)
	assert.Zero(t, DecayCoeff(0, 100))
}
