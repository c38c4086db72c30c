// Package bch implements a binary BCH code over GF(2^m), used by TrustMark
// to protect the 100-bit watermark frame against bit-flips introduced by
// lossy image transformations.
//
// The code is parameterized by a number of correctable bit-flips t and a
// primitive polynomial poly. TrustMark always uses poly = 137 (0x89), which
// gives m = 7 and a codeword length n = 2^7 - 1 = 127.
//
// Ported from trustmark's Python/Rust bchecc implementation; table layout,
// variable names, and the three-branch root finder intentionally mirror the
// reference implementation so the two can be diffed against each other.
package bch

// PrimitivePoly is the primitive polynomial TrustMark uses for all BCH
// versions: 137 (0x89), giving m = 7 and n = 127.
const PrimitivePoly = 137

// Polynomial is the BCH error-locator/generator polynomial representation:
// degree plus a zero-padded coefficient array.
type Polynomial struct {
	Deg uint32
	C   []uint32
}

func newPolynomial(deg uint32, size int) Polynomial {
	return Polynomial{Deg: deg, C: make([]uint32, size)}
}

func (p Polynomial) clone() Polynomial {
	c := make([]uint32, len(p.C))
	copy(c, p.C)
	return Polynomial{Deg: p.Deg, C: c}
}

// Params holds the immutable tables built once per (t, poly) pair. It is
// safe to share read-only across concurrent callers; per-call scratch state
// lives in Work.
type Params struct {
	M, T, N        uint32
	EccBytes       uint32
	EccBits        uint32
	Exponents      []uint32
	Logarithms     []uint32
	CyclicTab      []uint32
	ElpPre         []uint32
}

// eccMaxWords bounds the encode register size: ceil(31*64, 32) words, large
// enough for any (t, poly=137) pairing TrustMark uses.
const eccMaxWords = (31*64 + 31) / 32

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}

// Init builds the GF(2^m) tables and the BCH generator polynomial for a
// given number of correctable bit-flips t and primitive polynomial poly.
//
// Init panics on invalid (t, poly) pairs: these are programmer errors (a
// corrupted or non-primitive polynomial), not recoverable at runtime.
func Init(t, poly uint32) *Params {
	m := ilog2(poly)

	p := &Params{M: m, T: t}
	p.N = (1 << m) - 1

	p.EccBytes = ceilDiv(m*t, 8)

	x := uint32(1)
	k := uint32(1) << ilog2(poly)
	if k != uint32(1)<<p.M {
		panic("bch: k should equal 2^m")
	}

	p.Exponents = make([]uint32, p.N+1)
	p.Logarithms = make([]uint32, p.N+1)
	p.ElpPre = make([]uint32, p.M+1)

	for i := uint32(0); i < p.N; i++ {
		p.Exponents[i] = x
		p.Logarithms[x] = i
		if i != 0 && x == 1 {
			panic("bch: LFSR cycled back to 1 before covering the full field")
		}
		x *= 2
		if x&k != 0 {
			x ^= poly
		}
	}
	p.Logarithms[0] = 0
	p.Exponents[p.N] = 1

	g := newPolynomial(0, int(m*t+1))
	roots := make([]uint32, p.N+1)
	genpoly := make([]uint32, ceilDiv(m*t+1, 32))

	for i := uint32(0); i < t; i++ {
		r := 2*i + 1
		for j := uint32(0); j < m; j++ {
			roots[r] = 1
			r = (2 * r) % p.N
		}
	}

	g.C[0] = 1
	for i := uint32(0); i < p.N; i++ {
		if roots[i] == 0 {
			continue
		}
		r := p.Exponents[i]
		g.C[g.Deg+1] = 1
		for j := g.Deg; j >= 1; j-- {
			g.C[j] = p.gMul(g.C[j], r) ^ g.C[j-1]
		}
		g.C[0] = p.gMul(g.C[0], r)
		g.Deg++
	}

	n := g.Deg + 1
	i := 0
	for n > 0 {
		nbits := n
		if nbits > 32 {
			nbits = 32
		}
		var word uint32
		for j := uint32(0); j < nbits; j++ {
			if g.C[n-1-j] != 0 {
				word |= 1 << (31 - j)
			}
		}
		genpoly[i] = word
		i++
		n -= nbits
	}
	p.EccBits = g.Deg

	p.buildCyclic(genpoly)

	var sum, aexp uint32
	for i := uint32(0); i < m; i++ {
		for j := uint32(0); j < m; j++ {
			sum ^= p.gPow(i * (1 << j))
		}
		if sum != 0 {
			aexp = p.Exponents[i]
			break
		}
	}

	x = 0
	var precomp [31]bool
	remaining := m
	for x <= p.N && remaining != 0 {
		y := p.gSqrt(x) ^ x
		for iter := 0; iter < 2; iter++ {
			r := p.Logarithms[y]
			if y != 0 && r < m && !precomp[r] {
				p.ElpPre[r] = x
				precomp[r] = true
				remaining--
				break
			}
			y ^= aexp
		}
		x++
	}

	return p
}

// buildCyclic constructs the 4*256*l-word table used to XOR in m*t-bit
// shifts a byte at a time during streaming encode, where
// l = ceil(m*t, 32).
func (p *Params) buildCyclic(g []uint32) {
	l := ceilDiv(p.M*p.T, 32)
	plen := ceilDiv(p.EccBits+1, 32)
	ecclen := ceilDiv(p.EccBits, 32)

	p.CyclicTab = make([]uint32, 4*256*l)

	for i := uint32(0); i < 256; i++ {
		for b := uint32(0); b < 4; b++ {
			offset := (b*256 + i) * l
			data := i << (8 * b)

			for data != 0 {
				d := ilog2(data)
				data ^= g[0] >> (31 - d)
				for j := uint32(0); j < ecclen; j++ {
					var hi uint32
					if d < 31 {
						hi = g[j] << (d + 1)
					}
					var lo uint32
					if j+1 < plen {
						lo = g[j+1] >> (31 - d)
					}
					p.CyclicTab[j+offset] ^= hi | lo
				}
			}
		}
	}
}

// ilog2 returns floor(log2(x)), mirroring Rust's u32::ilog2. x must be
// nonzero.
func ilog2(x uint32) uint32 {
	var n uint32
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

func (p *Params) gMul(a, b uint32) uint32 {
	if a > 0 && b > 0 {
		res := (p.Logarithms[a] + p.Logarithms[b]) % p.N
		return p.Exponents[res]
	}
	return 0
}

func (p *Params) gPow(i uint32) uint32 {
	return p.Exponents[p.modn(i)]
}

func (p *Params) modn(v uint32) uint32 {
	for v >= p.N {
		v -= p.N
		v = (v & p.N) + (v >> p.M)
	}
	return v
}

func (p *Params) gSqrt(a uint32) uint32 {
	if a != 0 {
		return p.Exponents[(2*p.Logarithms[a])%p.N]
	}
	return 0
}

func (p *Params) gLog(a uint32) uint32 {
	return p.Logarithms[a]
}

func (p *Params) gMod(v uint32) uint32 {
	if v < p.N {
		return v
	}
	return v - p.N
}

func (p *Params) gDiv(a, b uint32) uint32 {
	if a != 0 {
		return p.Exponents[p.gMod(p.Logarithms[a]+p.N-p.Logarithms[b])]
	}
	return 0
}
