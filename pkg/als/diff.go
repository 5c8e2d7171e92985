package als

// difSignal holds the derived difference channel for one stereo pair:
// diff[n] = second[n] - first[n] (the channel-pair's second channel minus
// its first), computed over history+frame so the predictor sees
// continuous history even when a pair switches between independent and
// joint coding across frames (spec §4.2, alsenc.c gen_dif_signal: "*d =
// *c2 - *c1").
type difSignal struct {
	lane *channelLane
}

// genDifSignal builds the difference lane for a channel pair (first,
// second), second-first, using the same history depth as the source
// lanes.
func genDifSignal(first, second *channelLane) *difSignal {
	d := &channelLane{
		buf:        make([]int32, len(first.buf)),
		historyLen: first.historyLen,
	}
	for i := range d.buf {
		d.buf[i] = second.buf[i] - first.buf[i]
	}
	return &difSignal{lane: d}
}

// jointStereoMode records, per channel pair, which signal pairing was
// selected for a frame: independent L/R, or one channel plus the
// difference signal in place of the other (spec §4.2/4.3).
type jointStereoMode int

const (
	stereoIndependent jointStereoMode = iota
	stereoJointSecondIsDiff                // second channel replaced by second-first
	stereoJointFirstIsDiff                  // first channel replaced by second-first
)

// channelPair groups two channels considered together for joint-stereo
// coding, with the lanes each candidate block-partitioning pass needs:
// the original two lanes plus the shared difference lane.
type channelPair struct {
	first, second int // channel indices into Encoder.lanes
	diff          *difSignal
}
