package als

import (
	"math"
	"testing"
)

func periodicSignal(n, period int, amp float64) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(amp * math.Sin(2*math.Pi*float64(i)/float64(period)))
	}
	return out
}

func TestSearchLagFindsKnownPeriod(t *testing.T) {
	const period = 40
	signal := periodicSignal(400, period, 1000)
	at := func(n int) int32 {
		if n < 0 {
			return 0
		}
		return signal[n]
	}
	lag := searchLag(at, 200, 64, 10, 100)
	// A periodic signal correlates at the true period and its multiples;
	// accept any near match to one of them.
	mod := lag % period
	if mod > 2 && period-mod > 2 {
		t.Fatalf("searchLag found lag %d, expected near a multiple of %d", lag, period)
	}
}

func TestFixedGainsAreStable(t *testing.T) {
	g := fixedGains()
	if gainEnergy(g) <= 0 {
		t.Fatal("fixed gain template has zero energy")
	}
}

func TestCholeskyGainsOnSilence(t *testing.T) {
	signal := make([]int32, 256)
	at := func(n int) int32 {
		if n < 0 || n >= len(signal) {
			return 0
		}
		return signal[n]
	}
	_, ok := choleskyGains(at, 128, 64, 40)
	if !ok {
		t.Fatal("cholesky solve should still succeed (degenerately) on silence")
	}
}

func TestLTPResidualReducesEnergyOnPeriodicSignal(t *testing.T) {
	const period = 32
	full := periodicSignal(600, period, 2000)
	at := func(n int) int32 {
		if n < 0 || n >= len(full) {
			return 0
		}
		return full[n]
	}
	blockStart, length := 300, 128
	ltp := fitLTP(at, blockStart, length, 10, 200, false)
	res := ltp.residual(at, blockStart, length)

	var sumSignal, sumRes int64
	for i := 0; i < length; i++ {
		sumSignal += int64(abs32(full[blockStart+i]))
		sumRes += int64(abs32(res[i]))
	}
	if sumRes > sumSignal {
		t.Fatalf("LTP residual grew energy: signal=%d residual=%d", sumSignal, sumRes)
	}
}
