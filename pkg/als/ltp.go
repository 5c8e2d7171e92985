package als

import (
	"gonum.org/v1/gonum/mat"
)

// ltpGainShift is the fixed-point scale applied to LTP gain coefficients
// written into the bitstream (spec §4.4 step 7).
const ltpGainShift = 6

// longTermPredictor holds one block's pitch lag and LTPGainCount gain
// taps, applied on top of the short-term residual.
type longTermPredictor struct {
	lag   int
	gains [LTPGainCount]int32 // fixed-point, scaled by 1<<ltpGainShift
}

// searchLag finds the lag in [minLag,maxLag] maximizing normalized
// cross-correlation of residual against its own history (lags whose
// correlation is zero or negative are never chosen), the same greedy
// search the reference encoder runs before solving for gains (spec §4.4
// step 7, alsenc.c find_best_autocorr analog).
func searchLag(at func(int) int32, blockStart, length, minLag, maxLag int) int {
	bestLag := minLag
	var bestScore float64
	for lag := minLag; lag <= maxLag; lag++ {
		var cross, energy float64
		for i := 0; i < length; i++ {
			n := blockStart + i
			x := float64(at(n))
			y := float64(at(n - lag))
			cross += x * y
			energy += y * y
		}
		if energy == 0 || cross <= 0 {
			continue
		}
		score := cross * cross / energy
		if score > bestScore {
			bestScore = score
			bestLag = lag
		}
	}
	return bestLag
}

// fixedGains returns a fixed five-tap LTP gain template, independent of
// signal content; fitLTP uses it when useCholesky is off or the Cholesky
// solve fails. The taps are this package's own, in 1<<ltpGainShift units;
// they are not the reference encoder's fixed taps.
func fixedGains() [LTPGainCount]int32 {
	// The center tap dominates; the taps sum to 48, a gain of 0.75 in the
	// 1<<ltpGainShift fixed-point domain.
	return [LTPGainCount]int32{-4, 8, 40, 8, -4}
}

// choleskyGains solves the LTPGainCount-tap normal equations
// (R g = p) for the least-squares gains predicting block[i] from
// at(blockStart+i-lag-2 .. +2), using gonum's Cholesky solve on the
// symmetric positive semi-definite autocorrelation matrix, matching the
// reference encoder's get_ltp_coeffs_cholesky (spec §4.4 step 7).
func choleskyGains(at func(int) int32, blockStart, length, lag int) ([LTPGainCount]int32, bool) {
	const taps = LTPGainCount
	offset := taps / 2

	tapSignal := func(i, t int) float64 {
		return float64(at(blockStart + i - lag + t - offset))
	}

	r := mat.NewSymDense(taps, nil)
	p := make([]float64, taps)
	for a := 0; a < taps; a++ {
		for b := a; b < taps; b++ {
			var sum float64
			for i := 0; i < length; i++ {
				sum += tapSignal(i, a) * tapSignal(i, b)
			}
			r.SetSym(a, b, sum)
		}
		var sum float64
		for i := 0; i < length; i++ {
			sum += tapSignal(i, a) * float64(at(blockStart+i))
		}
		p[a] = sum
	}

	// A small diagonal load keeps the factorization defined when the
	// matrix is only semi-definite (for example on a silent block).
	var trace float64
	for a := 0; a < taps; a++ {
		trace += r.At(a, a)
	}
	load := 1e-9*trace + 1e-12
	for a := 0; a < taps; a++ {
		r.SetSym(a, a, r.At(a, a)+load)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(r); !ok {
		return [LTPGainCount]int32{}, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, mat.NewVecDense(taps, p)); err != nil {
		return [LTPGainCount]int32{}, false
	}
	var gains [LTPGainCount]int32
	scale := float64(int64(1) << ltpGainShift)
	for i := 0; i < taps; i++ {
		g := x.AtVec(i) * scale
		if g > 127 {
			g = 127
		}
		if g < -128 {
			g = -128
		}
		gains[i] = int32(g)
	}
	return gains, true
}

// fitLTP builds a longTermPredictor for one block, choosing gains by
// Cholesky solve when useCholesky is set (compression level 2) or the
// fixed template otherwise.
func fitLTP(at func(int) int32, blockStart, length, minLag, maxLag int, useCholesky bool) *longTermPredictor {
	lag := searchLag(at, blockStart, length, minLag, maxLag)
	var gains [LTPGainCount]int32
	if useCholesky {
		var ok bool
		gains, ok = choleskyGains(at, blockStart, length, lag)
		if !ok {
			gains = fixedGains()
		}
	} else {
		gains = fixedGains()
	}
	return &longTermPredictor{lag: lag, gains: gains}
}

// predictSample forms the LTP contribution for residual sample n, reading
// the lagged taps via at. In blockSearch, at yields the block's short-term
// residual for n >= 0 and the lane's (LSB-shifted) samples before the
// block; no short-term residual is formed for those earlier samples.
func (l *longTermPredictor) predictSample(at func(int) int32, n int) int32 {
	const offset = LTPGainCount / 2
	var acc int64
	for t := 0; t < LTPGainCount; t++ {
		acc += int64(l.gains[t]) * int64(at(n-l.lag+t-offset))
	}
	return int32(acc >> ltpGainShift)
}

// residual applies the LTP filter on top of the short-term residual,
// producing the final residual signal entropy-coded for the block.
func (l *longTermPredictor) residual(at func(int) int32, blockStart, length int) []int32 {
	out := make([]int32, length)
	for i := 0; i < length; i++ {
		n := blockStart + i
		out[i] = at(n) - l.predictSample(at, n)
	}
	return out
}

// gainEnergy returns the sum of the squared gain taps; block.go's
// keep/drop decision only considers LTP when it is nonzero (spec §4.4
// step 7 "check_ltp").
func gainEnergy(gains [LTPGainCount]int32) int64 {
	var sum int64
	for _, g := range gains {
		sum += int64(g) * int64(g)
	}
	return sum
}
