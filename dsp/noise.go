package dsp

// Noise is a xorshift32 white-noise source.
type Noise struct {
	state uint32
}

func NewNoise(seed uint32) *Noise {
	n := &Noise{}
	n.Seed(seed)
	return n
}

// Seed resets the generator. Zero is replaced by a fixed non-zero seed.
func (n *Noise) Seed(seed uint32) {
	if seed == 0 {
		seed = 0x6d2b79f5
	}
	n.state = seed
}

// Next returns a uniform sample in [-1, 1).
func (n *Noise) Next() float32 {
	x := n.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	n.state = x
	return float32(x>>8)/(1<<23) - 1
}
