package als

// channelLane holds one channel's signed-integer working signal: a block
// of history samples (length historyLen) followed by the current frame.
// cur() returns a slice positioned so index 0 is the first sample of the
// current frame and negative indices reach into history, matching the
// pointer arithmetic the reference encoder uses on raw sample arrays.
type channelLane struct {
	buf        []int32 // historyLen + frameLength samples
	historyLen int
}

func newChannelLane(historyLen, frameLength int) *channelLane {
	return &channelLane{
		buf:        make([]int32, historyLen+frameLength),
		historyLen: historyLen,
	}
}

// cur returns the slice of the current frame; cur()[-k] for k<=historyLen
// is not directly expressible in Go, so callers use full() and an offset
// instead when history access is needed.
func (l *channelLane) cur() []int32 {
	return l.buf[l.historyLen:]
}

// full returns the entire backing buffer (history + frame); index
// l.historyLen is the first sample of the current frame.
func (l *channelLane) full() []int32 {
	return l.buf
}

// at returns the sample at frame-relative index n (n may be negative to
// reach into history).
func (l *channelLane) at(n int) int32 {
	return l.buf[l.historyLen+n]
}

// advance shifts the last frameLength samples (now history for the next
// frame) into the front of the buffer, carrying at most historyLen of
// them, then loads next into the now-empty current-frame region.
func (l *channelLane) advance(frameLength int, next []int32) {
	total := len(l.buf)
	copy(l.buf[:total-frameLength], l.buf[frameLength:])
	n := copy(l.cur(), next)
	for i := l.historyLen + n; i < total; i++ {
		l.buf[i] = 0
	}
}

// stager deinterleaves and sign-normalizes PCM frames into per-channel
// lanes, carrying max(P, LTPMaxLag) samples of history across frames
// (spec §4.1).
type stager struct {
	cfg     *Config
	lanes   []*channelLane
	history int
}

func newStager(cfg *Config) *stager {
	history := cfg.MaxOrder
	if LTPMaxLag > history {
		history = LTPMaxLag
	}
	s := &stager{cfg: cfg, history: history}
	s.lanes = make([]*channelLane, cfg.Channels)
	for c := range s.lanes {
		s.lanes[c] = newChannelLane(history, cfg.FrameLength)
	}
	return s
}

// normalizeSample converts a raw container sample (already widened to
// int32) into the signed raw-sample range: 8-bit input is treated as
// unsigned and re-centered by subtracting 128; wider containers hold the
// sample in their top bits and are arithmetically right-shifted by
// containerWidth minus the sample width (no shift when they are equal).
func normalizeSample(raw int32, res Resolution, containerWidth int) int32 {
	if res == Res8Bit {
		return raw - 128
	}
	shift := containerWidth - res.bitsPerSample()
	if shift > 0 {
		return raw >> uint(shift)
	}
	return raw
}

// deinterleave splits an interleaved PCM frame (containerWidth-bit samples,
// cfg.Channels channels, frameSize samples per channel) into per-channel
// lanes, sign-normalizing as it goes, and advances history.
func (s *stager) deinterleave(interleaved []int32, frameSize, containerWidth int) {
	ch := s.cfg.Channels
	frame := make([][]int32, ch)
	for c := 0; c < ch; c++ {
		frame[c] = make([]int32, frameSize)
	}
	for i := 0; i < frameSize; i++ {
		for c := 0; c < ch; c++ {
			raw := interleaved[i*ch+c]
			frame[c][i] = normalizeSample(raw, s.cfg.Resolution, containerWidth)
		}
	}
	for c := 0; c < ch; c++ {
		s.lanes[c].advance(s.cfg.FrameLength, frame[c])
	}
}
