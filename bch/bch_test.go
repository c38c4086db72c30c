package bch

import (
	"reflect"
	"testing"
)

// TestInit checks the GF(2^7) tables built for t=5, poly=137 against the
// literal values from the reference implementation.
func TestInit(t *testing.T) {
	p := Init(5, 137)

	if p.M != 7 {
		t.Fatalf("M = %d, want 7", p.M)
	}
	if p.T != 5 {
		t.Fatalf("T = %d, want 5", p.T)
	}
	if p.N != 127 {
		t.Fatalf("N = %d, want 127", p.N)
	}
	if p.EccBytes != 5 {
		t.Fatalf("EccBytes = %d, want 5", p.EccBytes)
	}
	if p.EccBits != 35 {
		t.Fatalf("EccBits = %d, want 35", p.EccBits)
	}

	wantExp := []uint32{1, 2, 4, 8, 16, 32, 64, 9, 18, 36}
	if got := p.Exponents[:10]; !reflect.DeepEqual(got, wantExp) {
		t.Fatalf("Exponents[:10] = %v, want %v", got, wantExp)
	}

	wantLog := []uint32{0, 0, 1, 31, 2, 62, 32, 103, 3, 7}
	if got := p.Logarithms[:10]; !reflect.DeepEqual(got, wantLog) {
		t.Fatalf("Logarithms[:10] = %v, want %v", got, wantLog)
	}

	wantElpPre := []uint32{0, 16, 18, 102, 22, 40, 110, 0}
	if !reflect.DeepEqual(p.ElpPre, wantElpPre) {
		t.Fatalf("ElpPre = %v, want %v", p.ElpPre, wantElpPre)
	}

	wantCyclicHead := []uint32{0, 0, 2498495642, 3758096384, 3174305199}
	if got := p.CyclicTab[:5]; !reflect.DeepEqual(got, wantCyclicHead) {
		t.Fatalf("CyclicTab[:5] = %v, want %v", got, wantCyclicHead)
	}

	wantCyclicTail := []uint32{0, 1839291269, 3758096384}
	tail := p.CyclicTab[len(p.CyclicTab)-3:]
	if !reflect.DeepEqual(tail, wantCyclicTail) {
		t.Fatalf("CyclicTab tail = %v, want %v", tail, wantCyclicTail)
	}
}

func TestEncodeZeros(t *testing.T) {
	p := Init(8, 137)
	w := p.NewWork()
	ecc := p.Encode(w, []byte{0, 0, 0, 0, 0, 0, 0, 0})
	want := []byte{0, 0, 0, 0, 0, 0, 0}
	if !reflect.DeepEqual(ecc, want) {
		t.Fatalf("ecc = %v, want %v", ecc, want)
	}
}

func TestEncodeData(t *testing.T) {
	p := Init(4, 137)
	w := p.NewWork()
	ecc := p.Encode(w, []byte{0x85, 0x14, 0xE4, 0xF9, 0x0B, 0xAC, 0xA5, 0x97, 0x00})
	want := []byte{0x73, 0x20, 0x0A, 0x00}
	if !reflect.DeepEqual(ecc, want) {
		t.Fatalf("ecc = %v, want %v", ecc, want)
	}
}

// TestDecodeNoErrors checks that a clean codeword decodes with zero
// corrections and leaves data untouched.
func TestDecodeNoErrors(t *testing.T) {
	p := Init(4, 137)
	data := []byte{0x85, 0x14, 0xE4, 0xF9, 0x0B, 0xAC, 0xA5, 0x97, 0x00}
	w := p.NewWork()
	ecc := p.Encode(w, data)

	w2 := p.NewWork()
	dataCopy := append([]byte(nil), data...)
	corr := p.Decode(w2, dataCopy, ecc)
	if corr.Failed || corr.N != 0 {
		t.Fatalf("Decode = %+v, want zero corrections", corr)
	}
	if !reflect.DeepEqual(dataCopy, data) {
		t.Fatalf("data mutated on clean decode: %v", dataCopy)
	}
}

// TestDecodeCorrectsSingleBitFlip flips a single bit of the received data
// and checks that Decode repairs it.
func TestDecodeCorrectsSingleBitFlip(t *testing.T) {
	p := Init(4, 137)
	data := []byte{0x85, 0x14, 0xE4, 0xF9, 0x0B, 0xAC, 0xA5, 0x97, 0x00}
	w := p.NewWork()
	ecc := p.Encode(w, data)

	corrupted := append([]byte(nil), data...)
	corrupted[0] ^= 0x01

	w2 := p.NewWork()
	corr := p.Decode(w2, corrupted, ecc)
	if corr.Failed || corr.N != 1 {
		t.Fatalf("Decode = %+v, want exactly 1 correction", corr)
	}
	if !reflect.DeepEqual(corrupted, data) {
		t.Fatalf("corrected data = %v, want %v", corrupted, data)
	}
}

// TestDecodeUncorrectable flips more bits than t=4 can repair and checks
// that Decode reports failure rather than returning a wrong payload.
func TestDecodeUncorrectable(t *testing.T) {
	p := Init(4, 137)
	data := []byte{0x85, 0x14, 0xE4, 0xF9, 0x0B, 0xAC, 0xA5, 0x97, 0x00}
	w := p.NewWork()
	ecc := p.Encode(w, data)

	corrupted := append([]byte(nil), data...)
	for i := range corrupted {
		corrupted[i] = ^corrupted[i]
	}

	w2 := p.NewWork()
	corr := p.Decode(w2, corrupted, ecc)
	if !corr.Failed {
		t.Fatalf("Decode = %+v, want Failed", corr)
	}
}
