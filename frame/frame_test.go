package frame

import (
	"strings"
	"testing"
)

func TestApplyECCAndSchemaRoundTrip(t *testing.T) {
	payload := strings.Repeat("1", int(Bch4.DataBits()))
	f, err := ApplyECCAndSchema(payload, Bch4)
	if err != nil {
		t.Fatalf("ApplyECCAndSchema: %v", err)
	}
	if len(f.String()) != 100 {
		t.Fatalf("frame length = %d, want 100", len(f.String()))
	}

	got, version, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if version != Bch4 {
		t.Fatalf("version = %v, want %v", version, Bch4)
	}
	if got != payload {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestApplyECCAndSchemaShortPayload(t *testing.T) {
	payload := "101010"
	f, err := ApplyECCAndSchema(payload, Bch5)
	if err != nil {
		t.Fatalf("ApplyECCAndSchema: %v", err)
	}

	got, version, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if version != Bch5 {
		t.Fatalf("version = %v, want %v", version, Bch5)
	}
	want := payload + strings.Repeat("0", int(Bch5.DataBits())-len(payload))
	if got != want {
		t.Fatalf("payload = %q, want %q", got, want)
	}
}

func TestApplyECCAndSchemaInvalidChar(t *testing.T) {
	_, err := ApplyECCAndSchema("10120", Bch4)
	if err != ErrInvalidChar {
		t.Fatalf("err = %v, want ErrInvalidChar", err)
	}
}

func TestApplyECCAndSchemaTooLong(t *testing.T) {
	_, err := ApplyECCAndSchema(strings.Repeat("1", int(Bch3.DataBits())+1), Bch3)
	if err != ErrInvalidDataLength {
		t.Fatalf("err = %v, want ErrInvalidDataLength", err)
	}
}

func TestDecodeSingleBitFlip(t *testing.T) {
	payload := strings.Repeat("1", int(Bch4.DataBits()))
	f, err := ApplyECCAndSchema(payload, Bch4)
	if err != nil {
		t.Fatalf("ApplyECCAndSchema: %v", err)
	}

	corrupted := f
	corrupted[3] = flip(corrupted[3])

	got, version, err := Decode(corrupted)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if version != Bch4 {
		t.Fatalf("version = %v, want %v", version, Bch4)
	}
	if got != payload {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

// TestDecodeSingleBitflipAndCorruptedVersion flips a payload bit and the
// version tag together; Decode must fall back to probing every other
// version and still recover the original payload.
func TestDecodeSingleBitflipAndCorruptedVersion(t *testing.T) {
	payload := strings.Repeat("1", int(Bch4.DataBits()))
	f, err := ApplyECCAndSchema(payload, Bch4)
	if err != nil {
		t.Fatalf("ApplyECCAndSchema: %v", err)
	}

	corrupted := f
	corrupted[3] = flip(corrupted[3])
	corrupted[96] = flip(corrupted[96])

	got, version, err := Decode(corrupted)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if version != Bch4 {
		t.Fatalf("version = %v, want %v", version, Bch4)
	}
	if got != payload {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestDecodeFullyCorrupted(t *testing.T) {
	var f Frame
	for i := range f {
		f[i] = '1'
	}
	if _, _, err := Decode(f); err != ErrCorruptWatermark {
		t.Fatalf("err = %v, want ErrCorruptWatermark", err)
	}
}

func TestDecodeInvalidChar(t *testing.T) {
	var f Frame
	copy(f[:], strings.Repeat("0", 100))
	f[50] = '2'
	if _, _, err := Decode(f); err != ErrInvalidChar {
		t.Fatalf("err = %v, want ErrInvalidChar", err)
	}
}

func TestVersionRoundTrip(t *testing.T) {
	for _, v := range []Version{BchSuper, Bch5, Bch4, Bch3} {
		s := v.String()
		got, err := ParseVersion(s)
		if err != nil {
			t.Fatalf("ParseVersion(%q): %v", s, err)
		}
		if got != v {
			t.Fatalf("ParseVersion(%q) = %v, want %v", s, got, v)
		}
		if v.DataBits()+v.EccBits()+versionBits != 100 {
			t.Fatalf("%v: bits don't sum to 100", v)
		}
	}
}

func flip(c byte) byte {
	if c == '0' {
		return '1'
	}
	return '0'
}
