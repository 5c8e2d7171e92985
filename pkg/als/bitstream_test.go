package als

import "testing"

func TestBitWriterPutBits(t *testing.T) {
	bw := newBitWriter(16)
	bw.putBits(0b101, 3)
	bw.putBits(0b1, 1)
	bw.alignToByte()
	got := bw.bytes()
	want := byte(0b1011_0000)
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %08b, want %08b", got, want)
	}
}

func TestBitWriterSpanningWords(t *testing.T) {
	bw := newBitWriter(16)
	for i := 0; i < 40; i++ {
		bw.putBits(1, 1)
	}
	bw.alignToByte()
	if bw.bitPosition() != 40 {
		t.Fatalf("bitPosition = %d, want 40", bw.bitPosition())
	}
	for i, b := range bw.bytes() {
		if b != 0xFF {
			t.Fatalf("byte %d = %08b, want all ones", i, b)
		}
	}
}

func TestBitWriterPatch32(t *testing.T) {
	bw := newBitWriter(16)
	off := bw.bytePosition()
	bw.put32(0)
	bw.putBits(0xAB, 8)
	bw.alignToByte()
	bw.patch32(off, 0xDEADBEEF)
	got := bw.bytes()
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0xAB}
	for i, b := range want {
		if got[i] != b {
			t.Fatalf("byte %d = %02X, want %02X", i, got[i], b)
		}
	}
}

func TestRiceCountMatchesWrittenBits(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 5, -5, 1000, -1000} {
		for k := uint(0); k < 8; k++ {
			bw := newBitWriter(16)
			bw.putSRice(v, k)
			bw.alignToByte()
			gotBits := len(bw.bytes()) * 8
			wantBits := riceCount(v, k)
			// alignToByte pads up to the next byte, so gotBits may exceed
			// wantBits by up to 7 bits of padding.
			if gotBits < wantBits || gotBits-wantBits >= 8 {
				t.Fatalf("v=%d k=%d: wrote %d bits, riceCount says %d", v, k, gotBits, wantBits)
			}
		}
	}
}

func TestGolombWriteQuotientLargeValue(t *testing.T) {
	bw := newBitWriter(64)
	// A value whose quotient exceeds 31 in unary exercises the chunked
	// overflow path.
	bw.putURice(1<<20, 0)
	bw.alignToByte()
	if len(bw.bytes()) == 0 {
		t.Fatal("expected non-empty output for large unary quotient")
	}
}

func TestBitWriterReset(t *testing.T) {
	bw := newBitWriter(16)
	bw.putBits(0xFF, 8)
	bw.alignToByte()
	if len(bw.bytes()) == 0 {
		t.Fatal("expected bytes before reset")
	}
	bw.reset()
	if len(bw.bytes()) != 0 {
		t.Fatalf("expected empty buffer after reset, got %d bytes", len(bw.bytes()))
	}
}
