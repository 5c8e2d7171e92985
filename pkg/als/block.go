package als

// blockResult captures everything needed to both score and later write
// one coded block: which special case applies (constant / LSB-shifted /
// full predictive), its predictors, and its final entropy choice (spec
// §4.4).
type blockResult struct {
	start, length int

	constant     bool
	constantVal  int32
	lsbShift     uint
	shortTerm    *shortTermPredictor
	longTerm     *longTermPredictor
	useLTP       bool
	entropy      entropyChoice
	residual     []int32
	bits         int
}

// testConstant reports whether every sample in block is identical,
// letting the writer skip prediction and entropy coding entirely (spec
// §4.4 step 1, alsenc.c test_const_value).
func testConstant(block []int32) (bool, int32) {
	if len(block) == 0 {
		return false, 0
	}
	v := block[0]
	for _, s := range block[1:] {
		if s != v {
			return false, 0
		}
	}
	return true, v
}

// testZeroLSBs finds the number of low-order bits shared as zero by
// every sample in block, letting the predictor and entropy coder work on
// a right-shifted (denser) signal (spec §4.4 step 2, alsenc.c
// test_zero_lsb).
func testZeroLSBs(block []int32) uint {
	var mask int32
	for _, s := range block {
		mask |= s
	}
	if mask == 0 {
		return 0
	}
	shift := uint(0)
	for mask&1 == 0 {
		mask >>= 1
		shift++
	}
	return shift
}

// shiftBlock right-shifts every sample in block by n bits (used after
// testZeroLSBs picks a nonzero shift).
func shiftBlock(block []int32, n uint) []int32 {
	out := make([]int32, len(block))
	for i, v := range block {
		out[i] = v >> n
	}
	return out
}

// blockSearch runs the full per-block encoding search: constant test,
// LSB-shift test, short-term order search, optional long-term prediction,
// and entropy coder selection, returning the cheapest combination found
// (spec §4.4 steps 1-7).
func blockSearch(lane *channelLane, start, length int, cfg *Config, stage *EncodingStage) *blockResult {
	block := lane.buf[lane.historyLen+start : lane.historyLen+start+length]
	res := &blockResult{start: start, length: length}

	if stage.CheckConstant {
		if ok, v := testConstant(block); ok {
			res.constant = true
			res.constantVal = v
			res.bits = cfg.Resolution.bitsPerSample() + 7 // flag + js_block + 5 reserved + value
			return res
		}
	}

	work := block
	if stage.CheckLSBs {
		if shift := testZeroLSBs(block); shift > 0 {
			res.lsbShift = shift
			work = shiftBlock(block, shift)
		}
	}

	at := func(n int) int32 {
		if n >= 0 && n < len(work) {
			return work[n]
		}
		return lane.buf[lane.historyLen+start+n] >> res.lsbShift
	}
	history := lane.buf[:lane.historyLen+start]

	cost := func(p *shortTermPredictor) int {
		r := p.residual(at, 0, length)
		return riceBlockBits(r, riceParamEstimate(r, cfg.maxRiceParam()))
	}

	maxOrder := stage.MaxOrder
	if maxOrder > length {
		maxOrder = length
	}
	var predictor *shortTermPredictor
	if stage.AdaptOrder {
		predictor = searchAdaptOrder(history, work, maxOrder, cfg.SampleRate, stage.AdaptSearchValley, cost)
	} else {
		predictor = fitPredictor(history, work, maxOrder, cfg.SampleRate)
	}
	res.shortTerm = predictor
	residual := predictor.residual(at, 0, length)

	if cfg.LongTermPrediction && length > LTPGainCount {
		minLag := LTPGainCount
		maxLag := LTPMaxLag
		if maxLag > start+lane.historyLen-LTPGainCount {
			maxLag = start + lane.historyLen - LTPGainCount
		}
		if maxLag > minLag {
			ltpAt := func(n int) int32 {
				if n < 0 {
					return lane.buf[lane.historyLen+start+n] >> res.lsbShift
				}
				return residual[n]
			}
			ltp := fitLTP(ltpAt, 0, length, minLag, maxLag, stage.LTPCholesky)
			ltpResidual := ltp.residual(ltpAt, 0, length)
			if gainEnergy(ltp.gains) > 0 {
				baseBits := riceBlockBits(residual, riceParamEstimate(residual, cfg.maxRiceParam()))
				ltpBits := riceBlockBits(ltpResidual, riceParamEstimate(ltpResidual, cfg.maxRiceParam()))
				if ltpBits < baseBits {
					res.longTerm = ltp
					res.useLTP = true
					residual = ltpResidual
				}
			}
		}
	}

	res.residual = residual
	res.entropy = searchEntropy(residual, cfg, stage)
	res.bits = res.entropy.bits + 6
	return res
}
