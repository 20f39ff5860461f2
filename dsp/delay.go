package dsp

// DelayLine implements a circular buffer for delay
type DelayLine struct {
	buffer   []float32
	writePos int
}

// NewDelayLine creates a new delay line holding size samples.
func NewDelayLine(size int) *DelayLine {
	if size < 4 {
		size = 4
	}
	return &DelayLine{buffer: make([]float32, size)}
}

// Len is the longest delay the line can hold.
func (d *DelayLine) Len() int { return len(d.buffer) }

// Write writes a sample to the delay line
func (d *DelayLine) Write(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads a sample from the delay line at the given delay (in samples).
// A delay of 1 is the most recently written sample.
func (d *DelayLine) Read(delay int) float32 {
	n := len(d.buffer)
	readPos := (d.writePos - delay) % n
	if readPos < 0 {
		readPos += n
	}
	return d.buffer[readPos]
}

// ReadCubic reads with fractional delay using third-order Lagrange
// interpolation. delay must be at least 2.
func (d *DelayLine) ReadCubic(delay float32) float32 {
	intDelay := int(delay)
	frac := delay - float32(intDelay)
	var pts [4]float32
	for i := range pts {
		pts[i] = d.Read(intDelay - 1 + i)
	}
	return lagrange3(pts, frac)
}

// Add mixes x into the sample at the given delay.
func (d *DelayLine) Add(delay int, x float32) {
	n := len(d.buffer)
	pos := (d.writePos - delay) % n
	if pos < 0 {
		pos += n
	}
	d.buffer[pos] += x
}

// Reset clears the delay line
func (d *DelayLine) Reset() {
	clear(d.buffer)
	d.writePos = 0
}

// lagrange3 interpolates between p[1] and p[2] at frac in [0,1).
func lagrange3(p [4]float32, frac float32) float32 {
	c0 := p[1]
	c1 := p[2] - p[0]/3.0 - p[1]/2.0 - p[3]/6.0
	c2 := p[0]/2.0 - p[1] + p[2]/2.0
	c3 := p[1]/2.0 - p[2]/2.0 + (p[3]-p[0])/6.0
	return c0 + frac*(c1+frac*(c2+frac*c3))
}
