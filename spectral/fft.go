// Package spectral implements a radix-2 Cooley-Tukey FFT over square
// power-of-two grids, operating in place on separate real and imaginary
// buffers.
package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrNotPowerOfTwo is returned when a transform is requested for a grid side
// that is not a power of two.
var ErrNotPowerOfTwo = errors.New("spectral: size is not a power of two")

// FFT is a 2D transform for an N×N row-major complex field. Twiddle and
// bit-reversal tables are computed once at construction.
//
// An FFT owns column scratch buffers and is not safe for concurrent use.
type FFT struct {
	n     int
	log2n int

	rev []int     // bit-reversal permutation
	cos []float64 // cos(2πk/N), k < N/2
	sin []float64 // sin(2πk/N), k < N/2

	// Column scratch, reused for every column pass
	colRe []float64
	colIm []float64
}

// NewFFT creates a transform for an n×n grid.
func NewFFT(n int) (*FFT, error) {
	if n < 1 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}

	log2n := bits.TrailingZeros(uint(n))
	f := &FFT{
		n:     n,
		log2n: log2n,
		rev:   make([]int, n),
		cos:   make([]float64, n/2),
		sin:   make([]float64, n/2),
		colRe: make([]float64, n),
		colIm: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		f.rev[i] = reverseBits(i, log2n)
	}
	for k := 0; k < n/2; k++ {
		theta := 2 * math.Pi * float64(k) / float64(n)
		f.cos[k] = math.Cos(theta)
		f.sin[k] = math.Sin(theta)
	}

	return f, nil
}

// MustNewFFT is like NewFFT but panics on error.
func MustNewFFT(n int) *FFT {
	f, err := NewFFT(n)
	if err != nil {
		panic(err)
	}
	return f
}

// Size returns the grid side length N.
func (f *FFT) Size() int {
	return f.n
}

// Forward transforms the field in place (unnormalized, e^{-i} kernel).
func (f *FFT) Forward(re, im []float64) {
	f.transform2D(re, im, false)
}

// Inverse transforms the field in place. Each 1D pass divides by N, so
// Inverse(Forward(x)) reproduces x.
func (f *FFT) Inverse(re, im []float64) {
	f.transform2D(re, im, true)
}

// transform2D applies the 1D transform to every row, then every column.
func (f *FFT) transform2D(re, im []float64, inverse bool) {
	n := f.n
	if len(re) != n*n || len(im) != n*n {
		panic(fmt.Sprintf("spectral: buffer length %d/%d, want %d", len(re), len(im), n*n))
	}

	// Rows are contiguous and transform without copying
	for y := 0; y < n; y++ {
		row := y * n
		f.transform1D(re[row:row+n], im[row:row+n], inverse)
	}

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			f.colRe[y] = re[y*n+x]
			f.colIm[y] = im[y*n+x]
		}
		f.transform1D(f.colRe, f.colIm, inverse)
		for y := 0; y < n; y++ {
			re[y*n+x] = f.colRe[y]
			im[y*n+x] = f.colIm[y]
		}
	}
}

// transform1D is an iterative decimation-in-time radix-2 FFT.
func (f *FFT) transform1D(re, im []float64, inverse bool) {
	n := f.n

	for i, j := range f.rev {
		if j > i {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	// Forward uses e^{-iθ}; inverse conjugates the twiddles
	sign := -1.0
	if inverse {
		sign = 1.0
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		stride := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				wr := f.cos[k*stride]
				wi := sign * f.sin[k*stride]

				a := start + k
				b := a + half

				tr := re[b]*wr - im[b]*wi
				ti := re[b]*wi + im[b]*wr

				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
			}
		}
	}

	if inverse {
		inv := 1 / float64(n)
		for i := 0; i < n; i++ {
			re[i] *= inv
			im[i] *= inv
		}
	}
}

func reverseBits(v, width int) int {
	if width == 0 {
		return 0
	}
	return int(bits.Reverse(uint(v)) >> (bits.UintSize - width))
}
