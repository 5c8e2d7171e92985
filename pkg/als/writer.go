package als

// clipInt clamps v to [lo,hi].
func clipInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ceilLog2 returns the smallest b such that 1<<b >= n, n >= 1.
func ceilLog2(n int) uint {
	var b uint
	for (1 << b) < n {
		b++
	}
	return b
}

// writeBlock emits one channel's coded block in this package's own field
// order: a block-type bit (1 = constant); for a constant block, js_block,
// 5 reserved bits and the value; otherwise the shift_lsbs flag (plus 4
// bits of shift-1), the order field when AdaptOrder is on, the PARCOR
// coefficients, the LTP flag (plus an 11-bit lag and 8 bits per gain), and
// the entropy-coded residual from writeEntropy. This is not the standard's
// block layout: field order and widths differ, and non-constant blocks
// carry no js_block bit. jsBlock is this channel's per-block joint-stereo flag (whether this
// block is coded as the pair's difference signal).
func writeBlock(bw *bitWriter, res *blockResult, cfg *Config, jsBlock bool) {
	bw.putBits(b2u(res.constant), 1)
	if res.constant {
		bw.putBits(b2u(jsBlock), 1)
		bw.putBits(0, 5) // reserved
		bw.putBits(uint32(res.constantVal), uint(cfg.Resolution.bitsPerSample()))
		return
	}

	shiftFlag := res.lsbShift > 0
	bw.putBits(b2u(shiftFlag), 1)
	if shiftFlag {
		bw.putBits(uint32(res.lsbShift-1), 4)
	}

	order := 0
	if res.shortTerm != nil {
		order = res.shortTerm.order
	}
	if cfg.AdaptOrder {
		width := ceilLog2(clipInt(res.length/8-1, 2, cfg.MaxOrder+1))
		bw.putBits(uint32(order), width)
	}
	for i, q := range res.shortTerm.parcor {
		writeParcorCoeff(bw, q, i, cfg.CoefTable)
	}

	bw.putBits(b2u(res.useLTP), 1)
	if res.useLTP {
		bw.putBits(uint32(res.longTerm.lag), 11)
		for _, g := range res.longTerm.gains {
			bw.putBits(uint32(uint8(int8(g))), 8)
		}
	}

	writeEntropy(bw, res.residual, res.entropy, cfg)
}

// writeParcorCoeff emits one quantized PARCOR coefficient. Below index 20
// the parameter/offset come from the coefficient table selector; indices
// 20-126 always use Rice parameter 2 with an offset alternating by parity;
// indices 127 and above use parameter 1 with no offset (spec §4.4 step
// 3/§4.6, alsenc.c:1244-1267). CoefTableRaw instead writes every
// coefficient as a raw signed 7-bit value with a +64 bias.
func writeParcorCoeff(bw *bitWriter, q, index int, table CoefTable) {
	if table == CoefTableRaw {
		bw.putBits(uint32(q+64), 7)
		return
	}
	k, offset := parcorRiceParam(index, table)
	bw.putSRice(int32(q-offset), k)
}

// parcorRiceParam returns the Rice parameter and offset for coefficient
// index under the selected coefficient table (spec §4.4 step 3/§4.6,
// alsenc.c:1244-1267's three index bands).
func parcorRiceParam(index int, table CoefTable) (k uint, offset int) {
	switch {
	case index < 20:
		return parcorCoefTableParam(index, table)
	case index < 127:
		return 2, index & 1
	default:
		return 1, 0
	}
}

// parcorCoefTableParam returns the fine-grained (index<20) Rice
// parameter/offset for the selected coefficient table. The standard fixes
// a per-index table here (als_data.h coef_table) not present in the
// retrieval pack; a representative parameter per table selector is used
// instead, varying only by table as before (documented in DESIGN.md) —
// the index-band structure surrounding it now matches the standard.
func parcorCoefTableParam(index int, table CoefTable) (uint, int) {
	switch table {
	case CoefTable0:
		return 4, 0
	case CoefTable1:
		return 3, 0
	default:
		return 2, 0
	}
}

// frameWriter assembles one ALS frame's bitstream: the bs_info tree for
// each channel/pair followed by every block's payload, honoring the
// random-access unit size field's corrected back-patch placement (spec
// §4.6, §9).
type frameWriter struct {
	bw *bitWriter
}

func newFrameWriter(sizeHint int) *frameWriter {
	return &frameWriter{bw: newBitWriter(sizeHint)}
}

// writeFrame writes the full frame: optionally a reserved 32-bit
// ra_unit_size slot (back-patched in place once the frame's total size is
// known, per spec §9's explicit correction of the reference encoder's
// append-at-end bug), then each channel/pair's bs_info tree and blocks.
func (fw *frameWriter) writeFrame(cfg *Config, raUnit bool, pairs []framePairWrite) []byte {
	fw.bw.reset()
	var sizeOffset int
	if raUnit {
		sizeOffset = fw.bw.bytePosition()
		fw.bw.put32(0)
	}

	for _, p := range pairs {
		writeJointStereoFlag(fw.bw, p.mode, cfg)
		p.tree.bsInfoBits(fw.bw)
		firstIsDiff := p.mode == stereoJointFirstIsDiff
		secondIsDiff := p.mode == stereoJointSecondIsDiff
		for _, b := range p.firstBlocks {
			writeBlock(fw.bw, b, cfg, firstIsDiff)
		}
		if p.hasSecond {
			for _, b := range p.secondBlocks {
				writeBlock(fw.bw, b, cfg, secondIsDiff)
			}
		}
	}

	fw.bw.alignToByte()
	if raUnit {
		total := uint32(fw.bw.bytePosition() - sizeOffset - 4)
		fw.bw.patch32(sizeOffset, total)
	}
	return fw.bw.bytes()
}

// framePairWrite bundles one channel pair's chosen stereo mode, shared
// partition tree, and per-channel block results for writeFrame.
type framePairWrite struct {
	mode         jointStereoMode
	hasSecond    bool
	tree         *blockNode
	firstBlocks  []*blockResult
	secondBlocks []*blockResult
}

// writeJointStereoFlag emits the per-pair stereo mode bit(s) ahead of the
// bs_info tree, when joint-stereo coding is enabled for the stream (spec
// §4.2).
func writeJointStereoFlag(bw *bitWriter, mode jointStereoMode, cfg *Config) {
	if !cfg.JointStereo {
		return
	}
	bw.putBits(b2u(mode != stereoIndependent), 1)
	if mode != stereoIndependent {
		bw.putBits(b2u(mode == stereoJointFirstIsDiff), 1)
	}
}
