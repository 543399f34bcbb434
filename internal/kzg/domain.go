package kzg

import (
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/b-wagn/jack-go/internal/utils"
)

// Domain is a multiplicative subgroup of the scalar field of size
// Cardinality, a power of two. It supports the forward/inverse FFT,
// vanishing-polynomial evaluation, and all-Lagrange-coefficient evaluation
// that the vector commitment and the FK technique are built on. A
// commitment key needs two: the message-length domain and, for the FK
// technique's circulant embedding, a second domain of twice the size.
type Domain struct {
	Cardinality    uint64
	CardinalityInv fr.Element

	// Generator of the multiplicative subgroup (not the field's primitive
	// root).
	Generator    fr.Element
	GeneratorInv fr.Element

	// Roots[i] = Generator^i, for i = 0..Cardinality-1.
	Roots []fr.Element

	// PreComputedInverses[i] = 1/Roots[i] = GeneratorInv^i. Doubles as the
	// twiddle-factor table for the inverse FFT.
	PreComputedInverses []fr.Element
}

// rootOfUnityBLS12381 has order 2^32 in the BLS12-381 scalar field.
const rootOfUnityBLS12381 = "10238227357739495823651030575849232062558860180284477541189508159991286009131"

const maxOrderRoot uint64 = 32

// DomainFits reports whether NewDomain(m) can build a domain of at least m
// elements without panicking, i.e. whether the smallest power of two >= m
// has a root of unity in the BLS12-381 scalar field. Callers that accept an
// externally controlled size (a message length, a serialized domain
// descriptor) must check this before calling NewDomain and fail gracefully
// instead of panicking.
func DomainFits(m uint64) bool {
	x := ecc.NextPowerOfTwo(m)
	return uint64(bits.TrailingZeros64(x)) <= maxOrderRoot
}

// NewDomain builds the smallest power-of-two domain with cardinality >= m.
// Panics if m requires a root of unity of order greater than 2^32, which
// does not exist in the BLS12-381 scalar field; callers taking m from an
// untrusted or merely large-valued source should check DomainFits(m) first.
func NewDomain(m uint64) *Domain {
	d := &Domain{}
	x := ecc.NextPowerOfTwo(m)
	d.Cardinality = x

	var rootOfUnity fr.Element
	rootOfUnity.SetString(rootOfUnityBLS12381)

	logx := uint64(bits.TrailingZeros64(x))
	if logx > maxOrderRoot {
		panic("kzg: requested domain size has no root of unity in the scalar field")
	}

	expo := uint64(1) << (maxOrderRoot - logx)
	d.Generator.Exp(rootOfUnity, big.NewInt(int64(expo)))
	d.GeneratorInv.Inverse(&d.Generator)
	d.CardinalityInv.SetUint64(x).Inverse(&d.CardinalityInv)

	d.Roots = make([]fr.Element, x)
	current := fr.One()
	for i := uint64(0); i < x; i++ {
		d.Roots[i] = current
		current.Mul(&current, &d.Generator)
	}

	d.PreComputedInverses = make([]fr.Element, x)
	for i := uint64(0); i < x; i++ {
		d.PreComputedInverses[i].Inverse(&d.Roots[i])
	}

	return d
}

// Size returns the domain's cardinality.
func (d *Domain) Size() uint64 {
	return d.Cardinality
}

// Element returns the i-th element of the domain, Generator^i.
func (d *Domain) Element(i uint64) fr.Element {
	return d.Roots[i%d.Cardinality]
}

// FindInDomain returns the index of z in the domain, or -1 if z is not an
// element of it. Checks the vanishing polynomial first, then searches
// linearly; the linear search only ever runs in the negligible-probability
// event that z does land in the domain.
func (d *Domain) FindInDomain(z fr.Element) int {
	if !d.VanishingPolyEval(z).IsZero() {
		return -1
	}
	for i := uint64(0); i < d.Cardinality; i++ {
		if d.Roots[i].Equal(&z) {
			return int(i)
		}
	}
	return -1
}

// VanishingPolyEval evaluates Z_D(X) = X^|D| - 1 at z.
func (d *Domain) VanishingPolyEval(z fr.Element) fr.Element {
	var t fr.Element
	t.Exp(z, big.NewInt(int64(d.Cardinality)))
	one := fr.One()
	t.Sub(&t, &one)
	return t
}

// EvaluateAllLagrangeCoefficients evaluates every Lagrange basis polynomial
// of the domain at tau, returning [L_0(tau), ..., L_{N-1}(tau)].
func (d *Domain) EvaluateAllLagrangeCoefficients(tau fr.Element) []fr.Element {
	size := d.Cardinality
	one := fr.One()

	var tSize fr.Element
	tSize.Exp(tau, big.NewInt(int64(size)))

	if tSize.IsOne() {
		u := make([]fr.Element, size)
		omegaI := one
		for i := uint64(0); i < size; i++ {
			if omegaI.Equal(&tau) {
				u[i] = one
			}
			omegaI.Mul(&omegaI, &d.Generator)
		}
		return u
	}

	var l fr.Element
	l.Sub(&tSize, &one)
	l.Mul(&l, &d.CardinalityInv)

	r := fr.One()
	u := make([]fr.Element, size)
	ls := make([]fr.Element, size)
	for i := uint64(0); i < size; i++ {
		u[i].Sub(&tau, &r)
		ls[i] = l
		l.Mul(&l, &d.Generator)
		r.Mul(&r, &d.Generator)
	}

	u = fr.BatchInvert(u)
	for i := uint64(0); i < size; i++ {
		u[i].Mul(&u[i], &ls[i])
	}
	return u
}

// FFT evaluates the polynomial given by coeffs (length must equal
// d.Cardinality) at every domain element, converting coefficient form to
// evaluation form.
func (d *Domain) FFT(coeffs []fr.Element) []fr.Element {
	return d.fft(coeffs, false)
}

// IFFT converts evaluations over the domain back to coefficient form.
func (d *Domain) IFFT(evals []fr.Element) []fr.Element {
	return d.fft(evals, true)
}

// fft is an iterative, in-place (on a copy) radix-2 Cooley-Tukey transform.
// vals is bit-reversed once up front; each butterfly stage afterwards reads
// twiddle factors straight out of Roots (forward) or PreComputedInverses
// (inverse), which already hold every power of the relevant generator.
func (d *Domain) fft(vals []fr.Element, inverse bool) []fr.Element {
	n := uint64(len(vals))
	if n != d.Cardinality {
		panic("kzg: FFT input length must equal domain cardinality")
	}
	out := make([]fr.Element, n)
	copy(out, vals)
	if n <= 1 {
		return out
	}
	utils.BitReverse(out)

	twiddles := d.Roots
	if inverse {
		twiddles = d.PreComputedInverses
	}

	for size := uint64(2); size <= n; size <<= 1 {
		halfSize := size / 2
		stride := n / size
		for start := uint64(0); start < n; start += size {
			for k := uint64(0); k < halfSize; k++ {
				w := twiddles[k*stride]
				var t fr.Element
				t.Mul(&w, &out[start+k+halfSize])
				u := out[start+k]
				out[start+k].Add(&u, &t)
				out[start+k+halfSize].Sub(&u, &t)
			}
		}
	}

	if inverse {
		for i := range out {
			out[i].Mul(&out[i], &d.CardinalityInv)
		}
	}
	return out
}
