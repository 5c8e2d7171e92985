package als

import "testing"

func TestWriteBlockConstantBlockIsCompact(t *testing.T) {
	cfg := &Config{Resolution: Res16Bit}
	res := &blockResult{constant: true, constantVal: 123}
	bw := newBitWriter(16)
	writeBlock(bw, res, cfg, false)
	bw.alignToByte()
	// flag + js_block + 5 reserved + 16 value bits = 23 bits, rounds up to 3 bytes.
	if len(bw.bytes()) > 3 {
		t.Fatalf("constant block took %d bytes, expected at most 3", len(bw.bytes()))
	}
}

func TestWriteFrameBackPatchesRAUnitSize(t *testing.T) {
	cfg := &Config{Resolution: Res16Bit}
	fw := newFrameWriter(64)
	tree := &blockNode{start: 0, length: 8, leaf: true}
	blocks := []*blockResult{{constant: true, constantVal: 5, length: 8}}
	pairs := []framePairWrite{{mode: stereoIndependent, tree: tree, firstBlocks: blocks}}

	frame := fw.writeFrame(cfg, true, pairs)
	if len(frame) < 4 {
		t.Fatalf("frame too short to hold ra_unit_size: %d bytes", len(frame))
	}
	size := uint32(frame[0])<<24 | uint32(frame[1])<<16 | uint32(frame[2])<<8 | uint32(frame[3])
	if int(size) != len(frame)-4 {
		t.Fatalf("ra_unit_size = %d, want %d (back-patched in place, not appended)", size, len(frame)-4)
	}
}

func TestWriteParcorCoeffRawTableStaysInRange(t *testing.T) {
	for _, q := range []int{-64, -10, 0, 10, 63} {
		bw := newBitWriter(4)
		writeParcorCoeff(bw, q, 0, CoefTableRaw)
		bw.alignToByte()
		if bw.bitPosition() < 7 {
			t.Fatalf("raw parcor coeff for %d wrote too few bits: %d", q, bw.bitPosition())
		}
	}
}
