package als

import "testing"

func TestGenDifSignal(t *testing.T) {
	first := newChannelLane(2, 4)
	second := newChannelLane(2, 4)
	first.advance(4, []int32{10, 20, 30, 40})
	second.advance(4, []int32{1, 2, 3, 4})
	d := genDifSignal(first, second)
	for i, want := range []int32{-9, -18, -27, -36} {
		if got := d.lane.at(i); got != want {
			t.Fatalf("diff[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestGenDifSignalPreservesHistoryLength(t *testing.T) {
	a := newChannelLane(8, 16)
	b := newChannelLane(8, 16)
	d := genDifSignal(a, b)
	if d.lane.historyLen != 8 {
		t.Fatalf("historyLen = %d, want 8", d.lane.historyLen)
	}
	if len(d.lane.buf) != len(a.buf) {
		t.Fatalf("buf length = %d, want %d", len(d.lane.buf), len(a.buf))
	}
}
