package als

// jointStereoChoice is the outcome of comparing independent coding of a
// channel pair against joint (difference-signal) coding for one common
// block partition (spec §4.2/4.3, alsenc.c select_difference_coding_mode).
type jointStereoChoice struct {
	mode        jointStereoMode
	firstBlocks []*blockResult
	secondBlocks []*blockResult
	bits        int
}

// blockSum adds up the bits of a slice of per-block results.
func blockSum(blocks []*blockResult) int {
	total := 0
	for _, b := range blocks {
		total += b.bits
	}
	return total
}

// searchJointStereo runs blockSearch independently over a channel pair's
// own signals, then again with the second (or first) channel replaced by
// the precomputed difference signal, and keeps whichever total is
// cheaper. bounds gives the common block partition shared by both
// channels in a pair, required because ALS only allows joint coding when
// both channels use identical partitioning (spec §4.3).
func searchJointStereo(pair channelPair, firstLane, secondLane *channelLane, bounds [][2]int, cfg *Config, stage *EncodingStage) jointStereoChoice {
	runAll := func(lane *channelLane) []*blockResult {
		out := make([]*blockResult, len(bounds))
		for i, b := range bounds {
			out[i] = blockSearch(lane, b[0], b[1], cfg, stage)
		}
		return out
	}

	indepFirst := runAll(firstLane)
	indepSecond := runAll(secondLane)
	best := jointStereoChoice{
		mode:         stereoIndependent,
		firstBlocks:  indepFirst,
		secondBlocks: indepSecond,
		bits:         blockSum(indepFirst) + blockSum(indepSecond),
	}

	if !cfg.JointStereo || pair.diff == nil {
		return best
	}

	diffBlocks := runAll(pair.diff.lane)

	// second = diff, first stays independent
	candB := jointStereoChoice{
		mode:         stereoJointSecondIsDiff,
		firstBlocks:  indepFirst,
		secondBlocks: diffBlocks,
		bits:         blockSum(indepFirst) + blockSum(diffBlocks),
	}
	if candB.bits < best.bits {
		best = candB
	}

	// first = diff, second stays independent
	candA := jointStereoChoice{
		mode:         stereoJointFirstIsDiff,
		firstBlocks:  diffBlocks,
		secondBlocks: indepSecond,
		bits:         blockSum(diffBlocks) + blockSum(indepSecond),
	}
	if candA.bits < best.bits {
		best = candA
	}

	return best
}
