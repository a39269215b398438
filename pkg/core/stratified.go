package core

// OASampler draws stratified sample vectors from an orthogonal array built on
// base-strata digit arithmetic. One sampler instance serves one pixel: call
// BeginSample with the pixel's sample index before each path, then each Get1D
// consumes one dimension of the array point. Once the configured dimension
// count is exhausted the sampler falls back to its plain PCG stream, so deep
// paths never run out of random numbers.
//
// A single parameterized implementation replaces per-(strength,dimension)
// specializations: the sample index is expanded into `strength` base-`strata`
// digits, and dimension j picks its stratum from the polynomial
// d0 + d1*j + d2*j^2 + ... evaluated mod strata. Strata should be prime for
// the joint stratification guarantee to hold across dimension pairs.
type OASampler struct {
	strength   int
	dimensions int
	strata     uint32
	total      uint32 // strata^strength sample positions
	seed       uint32

	sampleIndex uint32
	dimension   int
	fallback    *PCGSampler
}

// NewOASampler creates a stratified sampler with the given orthogonal-array
// parameters. seed decorrelates the permutations between pixels and frames.
func NewOASampler(strength, dimensions int, strata uint32, seed uint32) *OASampler {
	total := uint32(1)
	for i := 0; i < strength; i++ {
		total *= strata
	}
	return &OASampler{
		strength:   strength,
		dimensions: dimensions,
		strata:     strata,
		total:      total,
		seed:       seed,
		fallback:   NewPCGSampler(seed, 0x5f356495),
	}
}

// BeginSample positions the sampler at the given sample index and rewinds the
// dimension counter. Indices beyond strata^strength wrap around.
func (s *OASampler) BeginSample(index uint32) {
	s.sampleIndex = index % s.total
	s.dimension = 0
	s.fallback = NewPCGSampler(s.seed, index*seedScramble)
}

// Get1D returns the next dimension of the current array point in [0, 1)
func (s *OASampler) Get1D() float64 {
	if s.dimension >= s.dimensions {
		return s.fallback.Get1D()
	}
	d := uint32(s.dimension)
	s.dimension++
	return s.sample(s.sampleIndex, d)
}

// Get2D returns the next two dimensions of the current array point
func (s *OASampler) Get2D() Vec2 {
	return NewVec2(s.Get1D(), s.Get1D())
}

// sample evaluates dimension j of array point i
func (s *OASampler) sample(i, j uint32) float64 {
	// Shuffle the point order so structured runs of indices do not map onto
	// structured strata.
	i = permute(i, s.total, s.seed*0x51633e2d)

	// Base-strata digit expansion of the point index, evaluated as a
	// polynomial at j: stratum = sum_k digit_k * j^k (mod strata).
	stratum := uint32(0)
	power := uint32(1)
	for k := 0; k < s.strength; k++ {
		digit := i % s.strata
		i /= s.strata
		stratum = (stratum + digit*power) % s.strata
		power = (power * (j % s.strata)) % s.strata
	}

	// Per-dimension scramble of the stratum assignment plus jitter within
	// the stratum.
	stratum = permute(stratum, s.strata, s.seed*0x68bc21eb+(j+1)*0x02e5be93)
	jitter := hashToFloat(s.sampleIndex, s.seed^(j+1)*0x967a889b)
	return (float64(stratum) + jitter) / float64(s.strata)
}

// permute returns the position of index i in a pseudorandom permutation of
// [0, length) keyed by pattern. It is a bijective cycle-walking hash: the mix
// below is invertible over the power-of-two mask, and out-of-range outputs
// are fed back through until they land inside the domain.
func permute(index, length, pattern uint32) uint32 {
	if length <= 1 {
		return 0
	}
	mask := length - 1
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16

	i := index
	for {
		i ^= pattern
		i *= 0xe170893d
		i ^= pattern >> 16
		i ^= (i & mask) >> 4
		i ^= pattern >> 8
		i *= 0x0929eb3f
		i ^= pattern >> 23
		i ^= (i & mask) >> 1
		i *= 1 | pattern>>27
		i *= 0x6935fa69
		i ^= (i & mask) >> 11
		i *= 0x74dcb303
		i ^= (i & mask) >> 2
		i *= 0x9e501cc3
		i ^= (i & mask) >> 2
		i *= 0xc860a3df
		i &= mask
		i ^= i >> 5
		if i < length {
			return (i + pattern) % length
		}
	}
}

// hashToFloat hashes index and pattern to a float64 in [0, 1)
func hashToFloat(index, pattern uint32) float64 {
	i := index
	i ^= pattern
	i ^= i >> 17
	i ^= i >> 10
	i *= 0xb36534e5
	i ^= i >> 12
	i ^= i >> 21
	i *= 0x93fc4795
	i ^= 0xdf6e307f
	i ^= i >> 17
	i *= 1 | pattern>>18
	return float64(i) / 4294967808.0
}
