package als

// lpcShift is the fixed-point scale applied to integer LPC coefficients
// (spec §4.4 step 4); prediction and residual reconstruction both use it.
const lpcShift = 20

// shortTermPredictor holds one block's quantized PARCOR coefficients and
// their integer LPC expansion, ready to generate a residual signal.
type shortTermPredictor struct {
	parcor []int   // quantized PARCOR, order N
	lpc    []int32 // fixed-point LPC coefficients, scaled by 1<<lpcShift
	order  int
}

// fitPredictor runs windowed autocorrelation + Levinson-Durbin + PARCOR
// quantization + PARCOR-to-LPC over history||block, returning a predictor
// of the requested order (spec §4.4 step 3: "the working signal plus
// history", windowed with a sine-rect or Hann-rect taper selected by
// sampleRate). history may be empty for the stream's first block.
func fitPredictor(history, block []int32, order, sampleRate int) *shortTermPredictor {
	if order == 0 {
		return &shortTermPredictor{order: 0}
	}
	r := windowedAutocorrelation(history, block, order, sampleRate)
	parcorF, _ := levinsonDurbin(r, order)
	quant := quantizeParcorCoeffs(parcorF)
	lpc, overflow := parcorToLPC(quant, lpcShift)
	if overflow {
		// Lower the order one step at a time and keep the highest order
		// whose fixed-point expansion fits; there is no switch to a preset
		// first-order predictor.
		for order > 0 {
			order--
			quant = quant[:order]
			lpc, overflow = parcorToLPC(quant, lpcShift)
			if !overflow {
				break
			}
		}
	}
	return &shortTermPredictor{parcor: quant, lpc: lpc, order: order}
}

// predictSample forms the integer prediction for sample at frame-relative
// index n using the order preceding samples accessible via at().
func (p *shortTermPredictor) predictSample(at func(int) int32, n int) int32 {
	if p.order == 0 {
		return 0
	}
	var acc int64
	for j := 0; j < p.order; j++ {
		acc += int64(p.lpc[j]) * int64(at(n-1-j))
	}
	return int32(acc >> lpcShift)
}

// residual computes the prediction-error signal for block[0:len(block)],
// given access (via at) to the full history+block lane.
func (p *shortTermPredictor) residual(at func(int) int32, blockStart, length int) []int32 {
	res := make([]int32, length)
	for i := 0; i < length; i++ {
		n := blockStart + i
		res[i] = at(n) - p.predictSample(at, n)
	}
	return res
}

// reconstruct inverts residual, used by tests to confirm lossless
// round-tripping of the integer predictor.
func (p *shortTermPredictor) reconstruct(at func(int) int32, set func(int, int32), blockStart, length int, res []int32) {
	for i := 0; i < length; i++ {
		n := blockStart + i
		v := res[i] + p.predictSample(at, n)
		set(n, v)
	}
}

// searchAdaptOrder tries every order in [0,maxOrder], scoring each with
// cost, and returns the predictor and order achieving the lowest score.
// When valleyDetect is set, the search stops once more than
// max(2, maxOrder/6) consecutive orders fail to improve on the best cost
// found so far, instead of enumerating every order, matching the reference encoder's
// valley-following heuristic at high compression levels (spec §4.4 step
// 6, alsenc.c find_block_adapt_order).
func searchAdaptOrder(history, block []int32, maxOrder, sampleRate int, valleyDetect bool, cost func(*shortTermPredictor) int) *shortTermPredictor {
	best := fitPredictor(history, block, 0, sampleRate)
	bestCost := cost(best)
	rising := 0
	limit := maxOrder / 6
	if limit < 2 {
		limit = 2
	}
	for order := 1; order <= maxOrder; order++ {
		p := fitPredictor(history, block, order, sampleRate)
		c := cost(p)
		if c < bestCost {
			best, bestCost = p, c
			rising = 0
		} else if valleyDetect {
			rising++
			if rising > limit {
				break
			}
		}
	}
	return best
}
