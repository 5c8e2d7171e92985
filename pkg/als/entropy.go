package als

// entropyChoice is the result of running the configured entropy coder
// search over one block's residual: which coder, its sub-block
// parameters, and the coded bit count it achieved, used to pick the
// cheapest option. block.go's adaptive-order search scores orders with a
// Rice estimate instead.
type entropyChoice struct {
	useBGMC   bool
	parts     []ricePartition // Rice sub-block partitioning; nil for BGMC
	bgmcParts []bgmcSubParam  // BGMC sub-block parameters; nil for Rice
	bits      int
}

// subBlocks returns how many entropy coding sub-blocks this choice uses.
func (c entropyChoice) subBlocks() int {
	if c.useBGMC {
		return len(c.bgmcParts)
	}
	return len(c.parts)
}

// searchEntropy runs the entropy-coder search configured by stage over
// residual, returning whichever of Rice and BGMC (when enabled) is
// selected, and its bit cost (spec §4.5).
func searchEntropy(residual []int32, cfg *Config, stage *EncodingStage) entropyChoice {
	maxParam := cfg.maxRiceParam()

	riceDepth := 0
	if stage.SBPart {
		riceDepth = 2
	}
	riceParts, riceBits := searchSBPart(residual, maxParam, riceDepth, stage.ParamAlgorithm == paramRiceExact)
	best := entropyChoice{useBGMC: false, parts: riceParts, bits: riceBits}

	if cfg.BGMC && (stage.ParamAlgorithm == paramBGMCEstimate || stage.ParamAlgorithm == paramBGMCExact) {
		var s uint
		var bits int
		if stage.ParamAlgorithm == paramBGMCExact {
			s, bits = bgmcParamExact(residual, maxParam)
		} else {
			s = bgmcParamEstimate(residual, maxParam)
			bits = bgmcCountBits(residual, s, bgmcSxForParam(s))
		}
		if bits < best.bits {
			bgmcParts := []bgmcSubParam{{s: s, sx: bgmcSxForParam(s), start: 0, n: len(residual)}}
			best = entropyChoice{useBGMC: true, bgmcParts: bgmcParts, bits: bits}
		}
	}
	return best
}

// writeEntropy emits residual using the coder and parameters chosen by a
// prior searchEntropy call. The sub_blocks selector is present only when
// the stream enables sub-block partitioning or BGMC; the first
// sub-block's parameter(s) are written directly, and every subsequent
// sub-block's parameter(s) are delta-coded against the previous one
// (spec §4.6, alsenc.c write_block ec_sub/s[k],sx[k] fields).
func writeEntropy(bw *bitWriter, residual []int32, choice entropyChoice, cfg *Config) {
	bw.putBits(b2u(choice.useBGMC), 1)

	n := choice.subBlocks()
	if n == 0 {
		n = 1
	}
	if cfg.SBPart || cfg.BGMC {
		if cfg.SBPart && cfg.BGMC {
			bw.putBits(uint32(log2Floor(n)), 2)
		} else {
			bw.putBits(b2u(n > 1), 1)
		}
	}

	wide := cfg.Resolution.bitsPerSample() > 16
	if choice.useBGMC {
		width := uint(8)
		if wide {
			width = 9
		}
		s0 := (uint32(choice.bgmcParts[0].s) << 4) | uint32(choice.bgmcParts[0].sx)
		bw.putBits(s0, width)
		prev := s0
		for i := 1; i < len(choice.bgmcParts); i++ {
			cur := (uint32(choice.bgmcParts[i].s) << 4) | uint32(choice.bgmcParts[i].sx)
			bw.putSRice(int32(cur)-int32(prev), 2)
			prev = cur
		}
		writeBGMCBlock(bw, residual, choice.bgmcParts, len(residual))
		return
	}

	width := uint(4)
	if wide {
		width = 5
	}
	bw.putBits(uint32(choice.parts[0].k), width)
	for i := 1; i < len(choice.parts); i++ {
		bw.putSRice(int32(choice.parts[i].k)-int32(choice.parts[i-1].k), 0)
	}
	writeRicePartitions(bw, residual, choice.parts)
}

// log2Floor returns floor(log2(n)) for n >= 1, matching alsenc.c's
// av_log2 used to encode a power-of-two sub-block count.
func log2Floor(n int) uint {
	var b uint
	for n > 1 {
		n >>= 1
		b++
	}
	return b
}
