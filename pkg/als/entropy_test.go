package als

import "testing"

func TestSearchEntropyRiceOnlyWhenBGMCDisabled(t *testing.T) {
	cfg := &Config{Resolution: Res16Bit, BGMC: false}
	stage := &EncodingStage{ParamAlgorithm: paramRiceExact}
	residual := []int32{1, -2, 3, -4, 5, -6, 7, -8}
	choice := searchEntropy(residual, cfg, stage)
	if choice.useBGMC {
		t.Fatal("BGMC should never be selected when disabled in Config")
	}
}

func TestSearchEntropyMayPickBGMCWhenCheaper(t *testing.T) {
	cfg := &Config{Resolution: Res16Bit, BGMC: true}
	stage := &EncodingStage{ParamAlgorithm: paramBGMCExact}
	residual := make([]int32, 128)
	for i := range residual {
		residual[i] = int32(i % 3)
	}
	choice := searchEntropy(residual, cfg, stage)
	if choice.bits <= 0 {
		t.Fatalf("expected positive bit cost, got %d", choice.bits)
	}
}

func TestWriteEntropyRiceRoundTripsFlag(t *testing.T) {
	residual := []int32{1, 2, 3, 4}
	choice := entropyChoice{useBGMC: false, parts: []ricePartition{{k: 1, start: 0, n: 4}}, bits: 20}
	cfg := &Config{Resolution: Res16Bit}
	bw := newBitWriter(16)
	writeEntropy(bw, residual, choice, cfg)
	bw.alignToByte()
	if bw.bytes()[0]>>7 != 0 {
		t.Fatal("expected useBGMC flag bit to be 0 for Rice choice")
	}
}
