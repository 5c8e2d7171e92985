package als

import "testing"

func TestConfigValidate(t *testing.T) {
	base := Config{SampleRate: 44100, Channels: 2, Resolution: Res16Bit, FrameLength: 2048}

	t.Run("valid", func(t *testing.T) {
		c := base
		if err := c.validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero channels rejected", func(t *testing.T) {
		c := base
		c.Channels = 0
		if err := c.validate(); !IsKind(err, KindConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})

	t.Run("floating point rejected", func(t *testing.T) {
		c := base
		c.Floating = true
		if err := c.validate(); !IsKind(err, KindConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})

	t.Run("mc coding rejected", func(t *testing.T) {
		c := base
		c.MCCoding = true
		if err := c.validate(); !IsKind(err, KindConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})

	t.Run("frame length out of range", func(t *testing.T) {
		c := base
		c.FrameLength = 1
		if err := c.validate(); !IsKind(err, KindConfiguration) {
			t.Fatalf("expected configuration error, got %v", err)
		}
	})
}

func TestMaxRiceParam(t *testing.T) {
	c := Config{Resolution: Res16Bit}
	if got := c.maxRiceParam(); got != 15 {
		t.Fatalf("16-bit max rice param = %d, want 15", got)
	}
	c.Resolution = Res24Bit
	if got := c.maxRiceParam(); got != 31 {
		t.Fatalf("24-bit max rice param = %d, want 31", got)
	}
}

func TestApplyLevelPresets(t *testing.T) {
	t.Run("level0 disables joint stereo and ltp", func(t *testing.T) {
		c := Config{SampleRate: 44100, Channels: 2, Resolution: Res16Bit, FrameLength: 2048}
		c.ApplyLevel(Level0)
		if c.JointStereo || c.LongTermPrediction || c.BGMC {
			t.Fatalf("level0 should disable joint stereo, ltp, bgmc: %+v", c)
		}
	})

	t.Run("level2 enables full feature set", func(t *testing.T) {
		c := Config{SampleRate: 44100, Channels: 2, Resolution: Res16Bit, FrameLength: 2048}
		c.ApplyLevel(Level2)
		if !c.JointStereo || !c.LongTermPrediction || !c.BGMC || !c.AdaptOrder {
			t.Fatalf("level2 should enable all search features: %+v", c)
		}
		if c.BlockSwitching != MaxBlockSwitchDepth {
			t.Fatalf("level2 block switching = %d, want %d", c.BlockSwitching, MaxBlockSwitchDepth)
		}
	})
}
