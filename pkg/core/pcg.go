package core

// seedScramble is an odd multiplier (2^32 / golden ratio) that spreads
// neighboring pixel indices across the full 32-bit state space.
const seedScramble uint32 = 0x9e3779b9

// PCGSampler is a small deterministic PCG-hash random stream. Each pixel owns
// one stream per frame, seeded from the pixel index and the frame seed, so a
// path's sample sequence is reproducible regardless of which worker runs it.
type PCGSampler struct {
	state uint32
}

// NewPCGSampler creates a sampler for the given pixel index and frame seed
func NewPCGSampler(pixelIndex, frameSeed uint32) *PCGSampler {
	return &PCGSampler{state: (pixelIndex ^ frameSeed) * seedScramble}
}

// NextUint32 advances the state and returns the next 32-bit output word
func (s *PCGSampler) NextUint32() uint32 {
	s.state = s.state*747796405 + 2891336453
	word := ((s.state >> ((s.state >> 28) + 4)) ^ s.state) * 277803737
	return (word >> 22) ^ word
}

// Get1D returns the next random float64 in [0, 1)
func (s *PCGSampler) Get1D() float64 {
	return float64(s.NextUint32()) / float64(0xffffffff)
}

// Get2D returns the next two random float64 values in [0, 1)
func (s *PCGSampler) Get2D() Vec2 {
	return NewVec2(s.Get1D(), s.Get1D())
}
