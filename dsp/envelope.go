package dsp

// EnvelopeStage is the current segment of an ADSR envelope.
type EnvelopeStage int

const (
	StageIdle EnvelopeStage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

const minEnvelopeSeconds = 0.001

// ADSR is a linear-attack, exponential decay/release envelope.
type ADSR struct {
	sampleRate float32

	attack  float32
	decay   float32
	sustain float32
	release float32

	stage EnvelopeStage
	level float32
	peak  float32

	attackStep   float32
	decayCoeff   float32
	releaseCoeff float32
}

// NewADSR creates an envelope with times in seconds and sustain in [0,1].
func NewADSR(sampleRate, attack, decay, sustain, release float32) *ADSR {
	e := &ADSR{sampleRate: sampleRate}
	e.Set(attack, decay, sustain, release)
	return e
}

// Set updates all four parameters. Running segments pick up the new rates.
func (e *ADSR) Set(attack, decay, sustain, release float32) {
	e.attack = max(attack, minEnvelopeSeconds)
	e.decay = max(decay, minEnvelopeSeconds)
	e.sustain = min(max(sustain, 0), 1)
	e.release = max(release, minEnvelopeSeconds)
	e.attackStep = 1 / (e.attack * e.sampleRate)
	e.decayCoeff = segmentCoeff(e.decay, e.sampleRate)
	e.releaseCoeff = segmentCoeff(e.release, e.sampleRate)
}

// segmentCoeff is the per-sample multiplier that falls by 60 dB in seconds.
func segmentCoeff(seconds, sampleRate float32) float32 {
	return pow10(-3 / (seconds * sampleRate))
}

// Gate starts the attack from the current level, so retriggering a sounding
// envelope does not click.
func (e *ADSR) Gate(peak float32) {
	e.peak = min(max(peak, 0), 1)
	e.stage = StageAttack
}

// Release starts the release segment.
func (e *ADSR) Release() {
	if e.stage != StageIdle {
		e.stage = StageRelease
	}
}

func (e *ADSR) Reset() {
	e.stage = StageIdle
	e.level = 0
}

func (e *ADSR) Stage() EnvelopeStage { return e.stage }
func (e *ADSR) Level() float32       { return e.level }
func (e *ADSR) Active() bool         { return e.stage != StageIdle }

// Next advances one sample.
func (e *ADSR) Next() float32 {
	switch e.stage {
	case StageAttack:
		e.level += e.attackStep * e.peak
		if e.level >= e.peak {
			e.level = e.peak
			e.stage = StageDecay
		}
	case StageDecay:
		target := e.sustain * e.peak
		e.level = target + (e.level-target)*e.decayCoeff
		if e.level-target < 1e-4 {
			e.level = target
			e.stage = StageSustain
		}
	case StageSustain:
		e.level = e.sustain * e.peak
	case StageRelease:
		e.level *= e.releaseCoeff
		if e.level < 1e-4 {
			e.level = 0
			e.stage = StageIdle
		}
	}
	return e.level
}
