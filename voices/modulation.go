package voices

// MaxRandDeviation is the largest relative pitch deviation at rand depth 1.
const MaxRandDeviation = 0.1

// xorshift32 is the per-manager generator for random detune. A zero state
// would lock the generator, so seeding maps zero to a fixed constant.
type xorshift32 uint32

func newXorshift32(seed uint32) xorshift32 {
	if seed == 0 {
		seed = 0x9e3779b9
	}
	return xorshift32(seed)
}

func (x *xorshift32) next() uint32 {
	s := uint32(*x)
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	*x = xorshift32(s)
	return s
}

// bipolar returns a uniform value in [-1, 1).
func (x *xorshift32) bipolar() float32 {
	return float32(x.next()>>8)/(1<<23) - 1
}

// randomRatio draws a fresh frequency ratio for one trigger.
func randomRatio(rng *xorshift32, depth float32) float32 {
	if depth == 0 {
		return 1
	}
	return 1 + depth*MaxRandDeviation*rng.bipolar()
}

// subVolume is the volume of sub voice k (1-based) out of count.
func subVolume(depth float32, k, count int) float32 {
	return depth * float32(k) / float32(count)
}

// unisonSize is the cluster size for an n-voice pool: the largest odd
// number not exceeding n-1, and 1 for tiny pools.
func unisonSize(n int) int {
	if n <= 2 {
		return 1
	}
	s := n - 1
	if s%2 == 0 {
		s--
	}
	return s
}

// unisonRatio is the detune ratio for a cluster rank in -k..k.
func unisonRatio(rank int, detune float32) float32 {
	return ratioFromSemitones(float32(rank) * detune)
}
