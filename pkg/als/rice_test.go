package als

import "testing"

func TestRiceParamEstimateIncreasesWithMagnitude(t *testing.T) {
	small := []int32{1, -1, 2, -2, 1, 0}
	large := []int32{1000, -1000, 2000, -1500, 1800, -900}
	ks := riceParamEstimate(small, 31)
	kl := riceParamEstimate(large, 31)
	if kl <= ks {
		t.Fatalf("expected larger k for larger magnitudes: small=%d large=%d", ks, kl)
	}
}

func TestRiceParamExactBeatsOrMatchesEstimate(t *testing.T) {
	residual := []int32{5, -3, 8, -1, 0, 12, -9, 4}
	estK := riceParamEstimate(residual, 15)
	estBits := riceBlockBits(residual, estK)
	_, exactBits := riceParamExact(residual, 15)
	if exactBits > estBits {
		t.Fatalf("exact search (%d bits) worse than estimate (%d bits)", exactBits, estBits)
	}
}

func TestSearchSBPartNeverWorseThanSingleBlock(t *testing.T) {
	residual := make([]int32, 64)
	for i := range residual {
		if i < 32 {
			residual[i] = 1
		} else {
			residual[i] = 500
		}
	}
	_, wholeBits := riceParamExact(residual, 31)
	_, partBits := searchSBPart(residual, 31, 2, true)
	if partBits > wholeBits+4 { // +4 allows the one extra partition header
		t.Fatalf("partitioned search (%d) worse than single block (%d)", partBits, wholeBits)
	}
}

func TestWriteRicePartitionsRoundBits(t *testing.T) {
	residual := []int32{1, 2, 3, 4}
	parts := []ricePartition{{k: 1, start: 0, n: 4}}
	bw := newBitWriter(16)
	writeRicePartitions(bw, residual, parts)
	bw.alignToByte()
	if len(bw.bytes()) == 0 {
		t.Fatal("expected non-empty output")
	}
}
