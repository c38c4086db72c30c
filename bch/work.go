package bch

// Work holds the per-call scratch state for a BCH encode/decode operation.
// It must never be shared across concurrent callers: Encode and Decode both
// mutate it. Callers should obtain a fresh Work per call via Params.NewWork.
type Work struct {
	// EccBuf holds the streaming-encode register, reused as the basis for
	// syndrome computation during Decode.
	EccBuf []uint32
	// Errloc holds the bit positions of corrected errors after a successful
	// Decode call.
	Errloc []uint32
}

// NewWork allocates a fresh scratch buffer set for this Params.
func (p *Params) NewWork() *Work {
	return &Work{
		EccBuf: make([]uint32, eccMaxWords),
		Errloc: make([]uint32, p.T),
	}
}

// Correction describes the outcome of a Decode call.
type Correction struct {
	// N is the number of bit-flips corrected. Valid only when Failed is
	// false.
	N uint32
	// Failed indicates the received word had more errors than this Params'
	// t can correct; no bit of data or recvECC has been flipped, and the
	// uncorrected contents must not be used as a payload.
	Failed bool
}

// Encode computes the systematic ECC bytes for data, using the streaming
// cyclic-table method. The final encode register is retained in
// w.EccBuf for reuse by a subsequent Decode call against the same data.
func (p *Params) Encode(w *Work, data []byte) []byte {
	l := ceilDiv(p.M*p.T, 32) - 1

	r := make([]uint32, eccMaxWords)

	tab0idx := uint32(0)
	tab1idx := tab0idx + 256*(l+1)
	tab2idx := tab1idx + 256*(l+1)
	tab3idx := tab2idx + 256*(l+1)

	mlen := len(data) / 4
	offset := 0
	for mlen > 0 {
		word := uint32(data[offset])<<24 | uint32(data[offset+1])<<16 | uint32(data[offset+2])<<8 | uint32(data[offset+3])
		word ^= r[0]
		p0 := tab0idx + (l+1)*(word&0xff)
		p1 := tab1idx + (l+1)*((word>>8)&0xff)
		p2 := tab2idx + (l+1)*((word>>16)&0xff)
		p3 := tab3idx + (l+1)*((word>>24)&0xff)

		for i := uint32(0); i < l; i++ {
			r[i] = r[i+1] ^ p.CyclicTab[p0+i] ^ p.CyclicTab[p1+i] ^ p.CyclicTab[p2+i] ^ p.CyclicTab[p3+i]
		}
		r[l] = p.CyclicTab[p0+l] ^ p.CyclicTab[p1+l] ^ p.CyclicTab[p2+l] ^ p.CyclicTab[p3+l]

		mlen--
		offset += 4
	}

	tail := data[offset:]
	ecc := r
	posn := 0
	for posn < len(tail) {
		tmp := tail[posn]
		posn++
		pidx := (l + 1) * (((ecc[0] >> 24) ^ uint32(tmp)) & 0xff)
		for i := uint32(0); i < l; i++ {
			ecc[i] = ((ecc[i] << 8) | (ecc[i+1] >> 24)) ^ p.CyclicTab[pidx]
			pidx++
		}
		ecc[l] = (ecc[l] << 8) ^ p.CyclicTab[pidx]
	}

	copy(w.EccBuf, ecc)

	eccout := make([]byte, 0, len(ecc)*4)
	for _, e := range ecc {
		eccout = append(eccout, byte(e>>24), byte(e>>16), byte(e>>8), byte(e))
	}
	return eccout[:p.EccBytes]
}

// Decode recomputes the ECC over data, XORs it against the received ECC
// recvECC, and if they differ, runs the Berlekamp-Massey recurrence and
// root finder to locate and correct up to T bit-flips in data||recvECC
// (mutated in place). Returns the number of corrections applied, or a
// failed Correction if the received word has more errors than T can fix.
func (p *Params) Decode(w *Work, data []byte, recvECC []byte) Correction {
	p.Encode(w, data)

	w.Errloc = w.Errloc[:0]

	ecclen := len(recvECC)
	mlen := ecclen / 4
	var eccbuf []uint32
	offset := 0
	for mlen > 0 {
		word := uint32(recvECC[offset])<<24 | uint32(recvECC[offset+1])<<16 | uint32(recvECC[offset+2])<<8 | uint32(recvECC[offset+3])
		eccbuf = append(eccbuf, word)
		offset += 4
		mlen--
	}

	leftover := recvECC[offset:]
	if len(leftover) > 0 {
		padded := make([]byte, 4)
		copy(padded, leftover)
		word := uint32(padded[0])<<24 | uint32(padded[1])<<16 | uint32(padded[2])<<8 | uint32(padded[3])
		eccbuf = append(eccbuf, word)
	}

	eccwords := ceilDiv(p.M*p.T, 32)

	var sum uint32
	for i := uint32(0); i < eccwords; i++ {
		w.EccBuf[i] ^= eccbuf[i]
		sum |= w.EccBuf[i]
	}
	if sum == 0 {
		return Correction{N: 0}
	}

	t := p.T
	syn := make([]uint32, 2*t)

	s := int32(p.EccBits)
	m := s & 31

	synbuf := make([]uint32, len(w.EccBuf))
	copy(synbuf, w.EccBuf)
	if m != 0 {
		synbuf[s/32] &= ^(uint32(1)<<(32-uint32(m)) - 1)
	}

	synptr := 0
	for s > 0 || synptr == 0 {
		poly := synbuf[synptr]
		synptr++
		s -= 32
		for poly != 0 {
			i := ilog2(poly)
			for j := uint32(0); j < 2*t; j += 2 {
				syn[j] ^= p.gPow((j + 1) * uint32(int32(i)+s))
			}
			poly ^= 1 << i
		}
	}

	for i := uint32(0); i < t; i++ {
		syn[2*i+1] = p.gSqrt(syn[i])
	}

	n := p.N
	var pp int32 = -1
	var pd uint32 = 1

	pelp := newPolynomial(0, int(2*t+1))
	pelp.C[0] = 1
	elp := newPolynomial(0, int(2*t+1))
	elp.C[0] = 1

	d := syn[0]

	for i := uint32(0); i < t; i++ {
		if elp.Deg > t {
			break
		}
		if d != 0 {
			k := uint32(int32(2*i) - pp)
			elpCopy := elp.clone()
			tmp := p.gLog(d) + n - p.gLog(pd)
			for j := uint32(0); j < pelp.Deg+1; j++ {
				if pelp.C[j] != 0 {
					l := p.gLog(pelp.C[j])
					elp.C[j+k] ^= p.gPow(tmp + l)
				}
			}

			tmp2 := pelp.Deg + k
			if tmp2 > elp.Deg {
				elp.Deg = tmp2
				pelp = elpCopy.clone()
				pd = d
				pp = int32(2 * i)
			}
		}
		if i < t-1 {
			d = syn[2*i+2]
			for j := uint32(1); j < elp.Deg+1; j++ {
				d ^= p.gMul(elp.C[j], syn[2*i+2-j])
			}
		}
	}

	if elp.Deg > t {
		return Correction{Failed: true}
	}
	nroots := p.getRoots(uint32(len(data)), elp, w)
	if nroots == failedRoots || nroots < elp.Deg {
		return Correction{Failed: true}
	}

	datalen := uint32(len(data))
	nbits := datalen*8 + p.EccBits

	for i := uint32(0); i < nroots; i++ {
		if w.Errloc[i] >= nbits {
			return Correction{Failed: true}
		}
		w.Errloc[i] = nbits - 1 - w.Errloc[i]
		w.Errloc[i] = (w.Errloc[i] &^ 7) | (7 - (w.Errloc[i] & 7))
	}

	for _, bitflip := range w.Errloc {
		byteIdx := bitflip / 8
		bit := byte(1) << (bitflip & 7)
		if int(bitflip) < (len(data)+len(recvECC))*8 {
			if int(byteIdx) < len(data) {
				data[byteIdx] ^= bit
			} else {
				recvECC[int(byteIdx)-len(data)] ^= bit
			}
		}
	}

	return Correction{N: nroots}
}

// failedRoots is the sentinel returned by getRoots when the error locator
// polynomial has more roots than code positions can supply — the received
// word is uncorrectable.
const failedRoots = ^uint32(0)

// getRoots finds the roots of the error locator polynomial poly over a
// received word of k data bytes, storing bit positions in w.Errloc.
// Dispatches on deg(poly): 1 is solved directly, 2 via the precomputed
// elp_pre quadratic-solving table, and >2 by exhaustive search over the
// code's final k*8+ecc_bits positions.
func (p *Params) getRoots(k uint32, poly Polynomial, w *Work) uint32 {
	var roots []uint32

	if poly.Deg > 2 {
		k = k*8 + p.EccBits

		rep := make([]int32, 2*p.T)
		d := poly.Deg
		l := p.N - p.gLog(poly.C[poly.Deg])
		for i := uint32(0); i < d; i++ {
			if poly.C[i] != 0 {
				rep[i] = int32(p.gMod(p.gLog(poly.C[i]) + l))
			} else {
				rep[i] = -1
			}
		}
		rep[poly.Deg] = 0
		syn0 := p.gDiv(poly.C[0], poly.C[poly.Deg])

		for i := p.N - k + 1; i <= p.N; i++ {
			syn := syn0
			for j := uint32(1); j < poly.Deg+1; j++ {
				m := rep[j]
				if m >= 0 {
					syn ^= p.gPow(uint32(m) + j*i)
				}
			}
			if syn == 0 {
				roots = append(roots, p.N-i)
				if uint32(len(roots)) == poly.Deg {
					break
				}
			}
		}
		if uint32(len(roots)) < poly.Deg {
			w.Errloc = w.Errloc[:0]
			return failedRoots
		}
	}

	if poly.Deg == 1 && poly.C[0] != 0 {
		roots = append(roots, p.gMod(p.N-p.Logarithms[poly.C[0]]+p.Logarithms[poly.C[1]]))
	}

	if poly.Deg == 2 {
		if poly.C[0] != 0 && poly.C[1] != 0 {
			l0 := p.Logarithms[poly.C[0]]
			l1 := p.Logarithms[poly.C[1]]
			l2 := p.Logarithms[poly.C[2]]

			u := p.gPow(l0 + l2 + 2*(p.N-l1))
			var r uint32
			v := u
			for v != 0 {
				i := ilog2(v)
				r ^= p.ElpPre[i]
				v ^= 1 << i
			}
			if p.gSqrt(r)^r == u {
				roots = append(roots, p.modn(2*p.N-l1-p.Logarithms[r]+l2))
				roots = append(roots, p.modn(2*p.N-l1-p.Logarithms[r^1]+l2))
			}
		}
	}

	w.Errloc = roots
	return uint32(len(roots))
}
