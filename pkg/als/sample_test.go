package als

import "testing"

func TestNormalizeSample8Bit(t *testing.T) {
	if got := normalizeSample(0, Res8Bit, 8); got != -128 {
		t.Fatalf("normalizeSample(0) = %d, want -128", got)
	}
	if got := normalizeSample(255, Res8Bit, 8); got != 127 {
		t.Fatalf("normalizeSample(255) = %d, want 127", got)
	}
}

func TestNormalizeSample16BitNoShift(t *testing.T) {
	if got := normalizeSample(1234, Res16Bit, 16); got != 1234 {
		t.Fatalf("normalizeSample(1234) = %d, want 1234", got)
	}
}

func TestChannelLaneAdvanceCarriesHistory(t *testing.T) {
	lane := newChannelLane(4, 4)
	lane.advance(4, []int32{1, 2, 3, 4})
	lane.advance(4, []int32{5, 6, 7, 8})
	if lane.at(-1) != 4 {
		t.Fatalf("at(-1) = %d, want 4 (last sample of previous frame)", lane.at(-1))
	}
	if lane.at(0) != 5 {
		t.Fatalf("at(0) = %d, want 5", lane.at(0))
	}
}

func TestStagerDeinterleaveStereo(t *testing.T) {
	cfg := &Config{Channels: 2, Resolution: Res16Bit, FrameLength: 4}
	s := newStager(cfg)
	interleaved := []int32{10, 20, 11, 21, 12, 22, 13, 23}
	s.deinterleave(interleaved, 4, 16)
	if s.lanes[0].at(0) != 10 || s.lanes[1].at(0) != 20 {
		t.Fatalf("first sample mismatch: left=%d right=%d", s.lanes[0].at(0), s.lanes[1].at(0))
	}
	if s.lanes[0].at(3) != 13 || s.lanes[1].at(3) != 23 {
		t.Fatalf("last sample mismatch: left=%d right=%d", s.lanes[0].at(3), s.lanes[1].at(3))
	}
}
