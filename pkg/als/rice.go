package als

// riceParamEstimate derives a Rice parameter directly from the mean
// absolute residual magnitude, the O(1) estimate the reference encoder
// uses at low compression levels instead of searching (spec §4.5,
// alsenc.c estimate_rice_param).
func riceParamEstimate(residual []int32, maxParam int) uint {
	if len(residual) == 0 {
		return 0
	}
	var sum int64
	for _, v := range residual {
		sum += int64(abs32(v))
	}
	mean := sum / int64(len(residual))
	k := uint(0)
	for (int64(1) << k) < mean && int(k) < maxParam {
		k++
	}
	return k
}

// riceParamExact tries every k in [0,maxParam] and returns the one
// minimizing the exact coded bit count (spec §4.5, alsenc.c
// find_block_rice_params_exact).
func riceParamExact(residual []int32, maxParam int) (uint, int) {
	bestK, bestBits := uint(0), -1
	for k := 0; k <= maxParam; k++ {
		bits := riceBlockBits(residual, uint(k))
		if bestBits < 0 || bits < bestBits {
			bestK, bestBits = uint(k), bits
		}
	}
	return bestK, bestBits
}

// riceBlockBits sums riceCount over a residual slice.
func riceBlockBits(residual []int32, k uint) int {
	total := 0
	for _, v := range residual {
		total += riceCount(v, k)
	}
	return total
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ricePartition describes one sub-block's Rice parameter when SBPart
// splits a block's residual into up to 2^depth equal sub-blocks, each
// carrying its own k (spec §4.5 "sub-block partitioning").
type ricePartition struct {
	k     uint
	start int
	n     int
}

// searchSBPart tries sub-block partition depths 0..maxDepth (1, 2, 4, ...
// equal pieces) and returns the partitioning with the lowest total coded
// size, each sub-block's k chosen by riceParamExact when exact is set and
// by riceParamEstimate otherwise (spec §4.5, alsenc.c
// subblock_ec_count_exact).
func searchSBPart(residual []int32, maxParam, maxDepth int, exact bool) ([]ricePartition, int) {
	bestParts, bestBits := []ricePartition{}, -1
	n := len(residual)
	for depth := 0; depth <= maxDepth; depth++ {
		parts := 1 << depth
		if parts > n {
			break
		}
		size := n / parts
		if size == 0 {
			break
		}
		var parsed []ricePartition
		total := 4 * parts // parameter field overhead, 4 bits per sub-block rice param by convention
		for i := 0; i < parts; i++ {
			start := i * size
			length := size
			if i == parts-1 {
				length = n - start
			}
			seg := residual[start : start+length]
			var k uint
			var bits int
			if exact {
				k, bits = riceParamExact(seg, maxParam)
			} else {
				k = riceParamEstimate(seg, maxParam)
				bits = riceBlockBits(seg, k)
			}
			parsed = append(parsed, ricePartition{k: k, start: start, n: length})
			total += bits
		}
		if bestBits < 0 || total < bestBits {
			bestParts, bestBits = parsed, total
		}
	}
	return bestParts, bestBits
}

// writeRicePartitions emits each sub-block's coded residuals under its
// own k. The sub-block parameters themselves (s[0] direct, s[i>0] delta
// coded) are written by writeEntropy before this is called (spec §4.6).
func writeRicePartitions(bw *bitWriter, residual []int32, parts []ricePartition) {
	for _, p := range parts {
		for i := 0; i < p.n; i++ {
			bw.putSRice(residual[p.start+i], p.k)
		}
	}
}
