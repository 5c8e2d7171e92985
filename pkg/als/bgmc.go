package als

import "math"

// Block Gilbert-Moore Coding (BGMC) is the alternate entropy coder
// selectable at higher compression levels (spec §4.5). Each sub-block
// carries two parameters: s (a Rice-like order, also the frequency-table
// row selector) and sx (selects an entry in a monotone "max" table
// bounding the MSB's dynamic range). Residuals whose quotient v>>k falls
// outside that range escape to a plain signed-Rice code with parameter s
// instead of being range-coded (spec §4.5/4.6, alsenc.c bgmc_encode_lsb).
// The standard fixes the real cumulative-frequency and max tables
// (als_data.h); they are absent from the retrieval pack, so bgmcMaxTable
// and buildBGMCFreqs synthesize internally consistent ones with the same
// shape (see DESIGN.md Open Questions) — this only affects
// cross-implementation bitstream compatibility, not this coder's own
// correctness.
const (
	bgmcTableRows = 16 // number of selectable s rows, also sx table size
	BGMCTotalFreq = 1 << 16
	bgmcMaxSymbolCap = 254 // caps the synthesized table's valid-symbol count
)

// bgmcMaxTable is the ff_bgmc_max analog: a monotonically increasing
// bound on MSB dynamic range per sx selector.
var bgmcMaxTable = buildBGMCMaxTable()

func buildBGMCMaxTable() [bgmcTableRows]uint32 {
	var t [bgmcTableRows]uint32
	v := uint32(4)
	for i := range t {
		t[i] = v
		v *= 2
	}
	return t
}

// bgmcSubParam describes one sub-block's BGMC parameters and extent.
type bgmcSubParam struct {
	s, sx      uint
	start, n   int
}

// buildBGMCFreqs returns a cumulative-frequency table over validSymbols
// "in range" MSB symbols plus one trailing escape symbol, geometrically
// peaked at the center symbol (which represents a zero quotient),
// sharper for higher rows. escapeIndex is the symbol signaling the
// quotient fell outside range.
func buildBGMCFreqs(row, validSymbols int) (freqs []uint32, escapeIndex int) {
	escapeIndex = validSymbols
	total := validSymbols + 1
	decay := 1.0 - 0.04*float64(row+1)
	if decay < 0.5 {
		decay = 0.5
	}
	center := float64(validSymbols-1) / 2.0
	weights := make([]float64, total)
	var sum float64
	for i := 0; i < validSymbols; i++ {
		d := math.Abs(float64(i) - center)
		w := math.Pow(decay, d)
		weights[i] = w
		sum += w
	}
	escapeWeight := sum * 0.02
	weights[escapeIndex] = escapeWeight
	sum += escapeWeight

	freqs = make([]uint32, total+1)
	var cum uint32
	for i := 0; i < total; i++ {
		freqs[i] = cum
		add := uint32(weights[i] / sum * float64(BGMCTotalFreq))
		if add == 0 {
			add = 1
		}
		cum += add
	}
	freqs[total] = BGMCTotalFreq
	return freqs, escapeIndex
}

// bgmcRangeEncoder is a byte-oriented range coder in the Schindler
// carryless style (range kept below 2^32, renormalized a byte at a time),
// emitting its output through the shared bitWriter. low is masked to 40
// bits so the top byte is always ready to shift out during
// renormalization.
type bgmcRangeEncoder struct {
	bw  *bitWriter
	low uint64
	rng uint64
}

const bgmcLowMask = (uint64(1) << 40) - 1

func newBGMCRangeEncoder(bw *bitWriter) *bgmcRangeEncoder {
	return &bgmcRangeEncoder{bw: bw, low: 0, rng: 1 << 32}
}

const bgmcTop = uint64(1) << 24

func (e *bgmcRangeEncoder) encode(cumLow, cumHigh, total uint32) {
	e.rng /= uint64(total)
	e.low = (e.low + uint64(cumLow)*e.rng) & bgmcLowMask
	e.rng *= uint64(cumHigh - cumLow)
	for e.rng < bgmcTop {
		e.bw.putBits(uint32(e.low>>32), 8)
		e.low = (e.low << 8) & bgmcLowMask
		e.rng <<= 8
	}
}

func (e *bgmcRangeEncoder) flush() {
	for i := 0; i < 5; i++ {
		e.bw.putBits(uint32(e.low>>32), 8)
		e.low = (e.low << 8) & bgmcLowMask
	}
}

// symbolBits estimates the bits a range coder would spend on symbol sym
// under frequency table freqs (cost ~= -log2(freq/total)).
func symbolBits(freqs []uint32, sym int) float64 {
	if sym < 0 {
		sym = 0
	}
	if sym >= len(freqs)-1 {
		sym = len(freqs) - 2
	}
	freq := freqs[sym+1] - freqs[sym]
	if freq == 0 {
		freq = 1
	}
	return math.Log2(float64(BGMCTotalFreq) / float64(freq))
}

// bgmcBlockParams derives the per-sub-block shift k, symbol-table delta,
// and MSB dynamic range max/absMax from (s, sx) and the enclosing block's
// length (spec §4.6, alsenc.c: "unsigned int b = av_clip((av_ceil_log2(
// block->length) - 3) >> 1, 0, 5)").
func bgmcBlockParams(s, sx uint, blockLength int) (k uint, max, absMax int) {
	b := clipInt((int(ceilLog2(blockLength))-3)>>1, 0, 5)
	if int(s) > b {
		k = s - uint(b)
	}
	delta := 5 - int(s) + int(k)
	if delta < 0 {
		delta = 0
	}
	if delta > 31 {
		delta = 31
	}
	row := int(sx)
	if row >= bgmcTableRows {
		row = bgmcTableRows - 1
	}
	m := int(bgmcMaxTable[row] >> uint(delta))
	if m < 1 {
		m = 1
	}
	absMax = (m + 1) >> 1
	validSymbols := 2*absMax - 1
	if validSymbols > bgmcMaxSymbolCap {
		absMax = (bgmcMaxSymbolCap + 1) / 2
	}
	return k, m, absMax
}

// bgmcCountBits estimates the total coded size of residual under a
// single-sub-block (s, sx) pair without running the range coder, for use
// in parameter search (spec §4.5, alsenc.c estimate_bgmc_params).
func bgmcCountBits(residual []int32, s, sx uint) int {
	k, _, absMax := bgmcBlockParams(s, sx, len(residual))
	validSymbols := 2*absMax - 1
	freqs, escapeIdx := buildBGMCFreqs(int(s)%bgmcTableRows, validSymbols)
	var bits float64
	for _, v := range residual {
		q := v >> k
		if int(q) >= absMax || int(q) <= -absMax {
			res := v
			if int(q) >= absMax {
				res += int32(-(absMax << k))
			} else {
				res += int32((absMax - 1) << k)
			}
			bits += symbolBits(freqs, escapeIdx) + float64(riceCount(res, s))
		} else {
			idx := int(q) + absMax - 1
			bits += symbolBits(freqs, idx)
			if k > 0 {
				bits += float64(k)
			}
		}
	}
	return int(bits + 0.5)
}

// bgmcSxForParam derives sx from s: the real encoder searches s and sx
// somewhat independently, but with no standard table of their joint
// distribution available, sx is tied directly to s here (documented in
// DESIGN.md), keeping both search and write self-consistent.
func bgmcSxForParam(s uint) uint {
	if s >= bgmcTableRows {
		return bgmcTableRows - 1
	}
	return s
}

// bgmcParamEstimate picks s from the residual's mean magnitude, the same
// shortcut riceParamEstimate uses (spec §4.5).
func bgmcParamEstimate(residual []int32, maxParam int) uint {
	return riceParamEstimate(residual, maxParam)
}

// bgmcParamExact tries every s in [0,maxParam] and keeps the cheapest by
// bgmcCountBits (spec §4.5, alsenc.c find_block_bgmc_params_exact).
func bgmcParamExact(residual []int32, maxParam int) (uint, int) {
	bestS, bestBits := uint(0), -1
	for s := 0; s <= maxParam; s++ {
		bits := bgmcCountBits(residual, uint(s), bgmcSxForParam(uint(s)))
		if bestBits < 0 || bits < bestBits {
			bestS, bestBits = uint(s), bits
		}
	}
	return bestS, bestBits
}

// writeBGMCBlock encodes residual split into len(parts) sub-blocks, each
// with its own (s, sx). Every sub-block's MSBs are range-coded first (the
// whole residual, sub-block by sub-block, sharing one range-coder
// session), the coder is flushed, and only then are the LSB/escape bits
// for every sub-block written — the two-pass structure the reference
// encoder uses (spec §4.6, alsenc.c write_block: ff_bgmc_encode_init/
// ff_bgmc_encode_msb loop, ff_bgmc_encode_end, then bgmc_encode_lsb loop).
func writeBGMCBlock(bw *bitWriter, residual []int32, parts []bgmcSubParam, blockLength int) {
	enc := newBGMCRangeEncoder(bw)
	for _, p := range parts {
		k, _, absMax := bgmcBlockParams(p.s, p.sx, blockLength)
		validSymbols := 2*absMax - 1
		freqs, escapeIdx := buildBGMCFreqs(int(p.s)%bgmcTableRows, validSymbols)
		for i := 0; i < p.n; i++ {
			v := residual[p.start+i]
			q := int(v >> k)
			var sym int
			if q >= absMax || q <= -absMax {
				sym = escapeIdx
			} else {
				sym = q + absMax - 1
			}
			enc.encode(freqs[sym], freqs[sym+1], BGMCTotalFreq)
		}
	}
	enc.flush()

	for _, p := range parts {
		k, _, absMax := bgmcBlockParams(p.s, p.sx, blockLength)
		lsbMask := int32(1)<<k - 1
		highOffset := -(int32(absMax) << k)
		lowOffset := int32(absMax-1) << k
		for i := 0; i < p.n; i++ {
			v := residual[p.start+i]
			q := int(v >> k)
			if q >= absMax || q <= -absMax {
				res := v
				if q >= absMax {
					res += highOffset
				} else {
					res += lowOffset
				}
				bw.putSRice(res, p.s)
			} else if k > 0 {
				bw.putBits(uint32(v&lsbMask), k)
			}
		}
	}
}
