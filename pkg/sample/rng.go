package sample

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	mrand "math/rand/v2"

	"github.com/aquilax/go-perlin"
)

// Sampler yields uniform samples in [0, 1). Grid seeding consumes exactly one
// sample per cell in row-major order.
type Sampler interface {
	Float64() (float64, error)
}

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *mrand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: mrand.New(mrand.NewPCG(uint64(seed), 0))}
}

// Float64 returns the next sample. It never fails.
func (r *RNG) Float64() (float64, error) {
	return r.r.Float64(), nil
}

// EntropySampler draws samples from an entropy reader, crypto/rand by default.
type EntropySampler struct {
	r   io.Reader
	buf [8]byte
}

// NewEntropySampler wraps r. A nil reader selects crypto/rand.Reader.
func NewEntropySampler(r io.Reader) *EntropySampler {
	if r == nil {
		r = rand.Reader
	}
	return &EntropySampler{r: r}
}

// Float64 reads 8 bytes and keeps the top 53 bits as the mantissa.
func (e *EntropySampler) Float64() (float64, error) {
	if _, err := io.ReadFull(e.r, e.buf[:]); err != nil {
		return 0, fmt.Errorf("read entropy: %w", err)
	}
	return float64(binary.LittleEndian.Uint64(e.buf[:])>>11) / (1 << 53), nil
}

// NoiseSampler walks a 2D Perlin noise field in row-major order, producing
// spatially correlated samples for blob-like fills.
type NoiseSampler struct {
	noise *perlin.Perlin
	width int
	scale float64
	i     int
}

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
)

// NewNoiseSampler builds a sampler for a field of the given row width. Scale
// controls the feature size in cells; values <= 0 default to 8.
func NewNoiseSampler(seed int64, width int, scale float64) *NoiseSampler {
	if width <= 0 {
		width = 1
	}
	if scale <= 0 {
		scale = 8
	}
	return &NoiseSampler{
		noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed),
		width: width,
		scale: scale,
	}
}

// Float64 maps the noise value at the next coordinate from [-1, 1] onto [0, 1).
func (n *NoiseSampler) Float64() (float64, error) {
	row, col := n.i/n.width, n.i%n.width
	n.i++
	v := n.noise.Noise2D(float64(col)/n.scale, float64(row)/n.scale)
	v = (v + 1) / 2
	if v < 0 {
		v = 0
	}
	if v >= 1 {
		v = math.Nextafter(1, 0)
	}
	return v, nil
}
