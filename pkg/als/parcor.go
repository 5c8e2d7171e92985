package als

import "math"

// windowTaperFraction is the spec's window parameter (4.0): each taper
// spans 1/(2*windowTaperFraction) of the windowed extent, so the two
// tapers together cover a quarter of it, matching the sine-rect/Hann-rect
// shape described in spec §4.4 step 3.
const windowTaperFraction = 4.0

// applyAnalysisWindow windows signal in place with the spec's composite
// window: a sine taper (sampleRate <= 48000) or a Hann taper (higher
// rates) over the first and last 1/(2*windowTaperFraction) of the
// signal, rectangular (weight 1) in between (spec §4.4 step 3, "sine-rect
// window" / "Hann-rect window").
func applyAnalysisWindow(signal []float64, sampleRate int) {
	n := len(signal)
	taper := int(float64(n) / (2 * windowTaperFraction))
	if taper <= 0 || 2*taper >= n {
		return
	}
	sine := sampleRate <= 48000
	for i := 0; i < taper; i++ {
		var w float64
		t := (float64(i) + 0.5) / float64(taper)
		if sine {
			w = math.Sin(t * math.Pi / 2)
		} else {
			w = 0.5 - 0.5*math.Cos(t*math.Pi)
		}
		signal[i] *= w
		signal[n-1-i] *= w
	}
}

// autocorrelate computes the autocorrelation of signal (already windowed
// by the caller) for lags 0..maxLag inclusive, the input to
// Levinson-Durbin (spec §4.4 step 3, alsenc.c compute_autocorr_norm).
func autocorrelate(signal []float64, maxLag int) []float64 {
	n := len(signal)
	r := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		var sum float64
		for i := lag; i < n; i++ {
			sum += signal[i] * signal[i-lag]
		}
		r[lag] = sum
	}
	return r
}

// windowedAutocorrelation windows history||block with the spec's
// sine-rect/Hann-rect analysis window (selected by sampleRate) and
// returns its autocorrelation for lags 0..maxLag (spec §4.4 step 3: "the
// working signal plus history").
func windowedAutocorrelation(history, block []int32, maxLag, sampleRate int) []float64 {
	full := make([]float64, len(history)+len(block))
	for i, v := range history {
		full[i] = float64(v)
	}
	for i, v := range block {
		full[len(history)+i] = float64(v)
	}
	applyAnalysisWindow(full, sampleRate)
	return autocorrelate(full, maxLag)
}

// levinsonDurbin runs the Levinson-Durbin recursion on autocorrelation
// coefficients r[0:order+1] and returns the PARCOR (reflection)
// coefficients for orders 1..order, parcor[k-1] being the k-th order
// coefficient, plus the final prediction error energy (spec §4.4 step 3).
func levinsonDurbin(r []float64, order int) (parcor []float64, errEnergy float64) {
	parcor = make([]float64, order)
	a := make([]float64, order+1)
	aPrev := make([]float64, order+1)
	errEnergy = r[0]
	if errEnergy == 0 {
		return parcor, 0
	}
	for k := 1; k <= order; k++ {
		acc := r[k]
		for j := 1; j < k; j++ {
			acc -= a[j] * r[k-j]
		}
		var kk float64
		if errEnergy != 0 {
			kk = acc / errEnergy
		}
		parcor[k-1] = kk
		copy(aPrev, a)
		a[k] = kk
		for j := 1; j < k; j++ {
			a[j] = aPrev[j] - kk*aPrev[k-j]
		}
		errEnergy *= 1 - kk*kk
		if errEnergy < 0 {
			errEnergy = 0
		}
	}
	return parcor, errEnergy
}

// parcorScaledValues is the synthesized companding inverse table: entry
// i (i = q+64) holds 2^15 times the pre-companding PARCOR magnitude that
// reconstructs from quantized index 0/1 coefficient q, evaluated at the
// quantization bin center. The real standard fixes this table's exact
// values (als_data.h, not present in the retrieval pack); this table is
// built instead to exactly invert quantizeParcorCoeff's own companding
// bin centers, which is all the encoder itself needs for a self-
// consistent round trip (see DESIGN.md Open Questions).
var parcorScaledValues = buildParcorScaledValues()

func buildParcorScaledValues() [128]float64 {
	var tbl [128]float64
	for i := 0; i < 128; i++ {
		q := i - 64
		companded := (float64(q) + 0.5) / 64.0
		p := (companded+1)*(companded+1)/2 - 1
		tbl[i] = p * 32768
	}
	return tbl
}

// quantizeParcorCoeff maps a PARCOR coefficient to a signed 7-bit code in
// [-64,63]. Indices 0 and 1 are companded (sign-dependent sqrt mapping)
// before linear quantization; every other index quantizes linearly (spec
// §4.4 step 4, alsenc.c quantize_single_parcor_coeff).
func quantizeParcorCoeff(c float64, index int) int {
	p := c
	if index < 2 {
		sign := 1.0
		if index == 1 {
			sign = -1.0
		}
		p = math.Sqrt(2.0*(sign*c+1.0)) - 1.0
	}
	v := int(math.Floor(64.0 * p))
	if v > 63 {
		v = 63
	}
	if v < -64 {
		v = -64
	}
	return v
}

// dequantizeParcorCoeff inverts quantizeParcorCoeff for the given
// coefficient index, returning the reconstructed floating-point PARCOR
// value used to build the integer LPC coefficients (spec §4.4 step 4,
// alsenc.c quantize_single_parcor_coeff's r_parcor rescale).
func dequantizeParcorCoeff(v int, index int) float64 {
	if index < 2 {
		sign := 1.0
		if index == 1 {
			sign = -1.0
		}
		return sign * parcorScaledValues[v+64] / 32768.0
	}
	return (float64(v) + 0.5) / 64.0
}

// quantizeParcorCoeffs quantizes a full PARCOR set in coefficient order.
func quantizeParcorCoeffs(parcor []float64) []int {
	out := make([]int, len(parcor))
	for i, c := range parcor {
		out[i] = quantizeParcorCoeff(c, i)
	}
	return out
}

// parcorToLPC converts quantized PARCOR coefficients to integer LPC
// prediction coefficients. The step-up recursion runs in float64 on the
// dequantized values (index-aware per dequantizeParcorCoeff), in the same
// sign convention as levinsonDurbin: a[j] -= k*a[i-1-j], with the
// prediction added by predictSample. The results are then scaled by
// 1<<shift, matching the bitstream's fixed-point LPC representation;
// overflow is reported when a scaled coefficient falls outside the 32-bit
// range, which makes fitPredictor fall back to a lower order.
func parcorToLPC(quantized []int, shift uint) (lpc []int32, overflow bool) {
	order := len(quantized)
	cor := make([]float64, order)
	for i, q := range quantized {
		cor[i] = dequantizeParcorCoeff(q, i)
	}
	cof := make([]float64, order)
	tmp := make([]float64, order)
	for i := 0; i < order; i++ {
		cof[i] = cor[i]
		for j := 0; j < i; j++ {
			tmp[j] = cof[j] - cor[i]*cof[i-1-j]
		}
		copy(cof[:i], tmp[:i])
	}
	lpc = make([]int32, order)
	scale := float64(int64(1) << shift)
	for i, c := range cof {
		f := c * scale
		if f > math.MaxInt32 || f < math.MinInt32 {
			overflow = true
			continue
		}
		lpc[i] = int32(math.Round(f))
	}
	return lpc, overflow
}
