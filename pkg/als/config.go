package als

import "fmt"

// Resolution identifies the raw sample width, per ALSSpecificConfig.
type Resolution int

const (
	Res8Bit  Resolution = 0
	Res16Bit Resolution = 1
	Res24Bit Resolution = 2
	Res32Bit Resolution = 3
)

// bitsPerSample returns the raw sample width in bits for a resolution.
func (r Resolution) bitsPerSample() int {
	return (int(r) + 1) * 8
}

// RAFlag selects where random-access unit sizes are recorded.
type RAFlag int

const (
	// RAFlagNone records no unit sizes.
	RAFlagNone RAFlag = 0
	// RAFlagHeader is written to the header; the encoder records no unit
	// sizes for it.
	RAFlagHeader RAFlag = 1
	// RAFlagFrames records each unit's size in a 32-bit slot at the start
	// of its random-access frame.
	RAFlagFrames RAFlag = 2
)

// CoefTable selects the Rice parameter table used for PARCOR coefficients
// with index < 20. Table 3 switches to raw 7-bit+64-bias coding instead.
type CoefTable int

const (
	CoefTable0 CoefTable = 0
	CoefTable1 CoefTable = 1
	CoefTable2 CoefTable = 2
	CoefTableRaw CoefTable = 3
)

// Level selects one of the three predefined compression presets described
// in spec §6. NewEncoder applies the preset to the fields ApplyLevel
// assigns, replacing any values the caller set for them.
type Level int

const (
	Level0 Level = iota
	Level1
	Level2
)

const (
	// MaxBlockSwitchDepth is the deepest block-partitioning tree (5 levels,
	// 32 leaves).
	MaxBlockSwitchDepth = 5
	// MaxBlocksPerChannel is 2^MaxBlockSwitchDepth.
	MaxBlocksPerChannel = 1 << MaxBlockSwitchDepth
	// MaxOrderLimit is the largest prediction order the format allows.
	MaxOrderLimit = 1023
	// LTPMaxLag is the largest long-term-predictor lag in samples.
	LTPMaxLag = 2048
	// LTPGainCount is the number of taps in an LTP filter.
	LTPGainCount = 5
)

// Config is the immutable per-stream configuration. It is validated once
// in NewEncoder and never mutated afterward.
type Config struct {
	SampleRate int
	Channels   int
	Resolution Resolution

	FrameLength int // N, samples per channel per frame, 2..65536
	RADistance  int // frames between random-access points, 0 disables
	RAFlag      RAFlag

	BlockSwitching int // D, 0..5
	MaxOrder       int // P, 0..1023
	AdaptOrder     bool

	LongTermPrediction bool
	BGMC               bool
	SBPart             bool
	JointStereo        bool
	MCCoding           bool // always false; recognized, not implemented
	CoefTable          CoefTable

	CRCEnabled bool
	MSBFirst   bool
	Floating   bool // always false; recognized, not implemented

	// BitSwitchFullSearch selects the full-search block-merge strategy
	// instead of bottom-up; the level's stage may also select it.
	BitSwitchFullSearch bool

	stage EncodingStage
}

// maxRiceParam is 31 when resolution > 1 (24/32-bit), else 15.
func (c *Config) maxRiceParam() int {
	if c.Resolution > Res16Bit {
		return 31
	}
	return 15
}

func (c *Config) validate() error {
	if c.Channels < 1 {
		return newError(KindConfiguration, fmt.Sprintf("channels must be >= 1, got %d", c.Channels))
	}
	if c.SampleRate <= 0 {
		return newError(KindConfiguration, fmt.Sprintf("invalid sample rate %d", c.SampleRate))
	}
	if c.Resolution < Res8Bit || c.Resolution > Res32Bit {
		return newError(KindConfiguration, fmt.Sprintf("unsupported resolution %d", c.Resolution))
	}
	if c.FrameLength < 2 || c.FrameLength > 65536 {
		return newError(KindConfiguration, fmt.Sprintf("frame length %d out of range [2,65536]", c.FrameLength))
	}
	if c.RADistance < 0 || c.RADistance > 7 {
		return newError(KindConfiguration, fmt.Sprintf("ra_distance %d out of range [0,7]", c.RADistance))
	}
	if c.BlockSwitching < 0 || c.BlockSwitching > MaxBlockSwitchDepth {
		return newError(KindConfiguration, fmt.Sprintf("block_switching %d out of range [0,%d]", c.BlockSwitching, MaxBlockSwitchDepth))
	}
	if c.MaxOrder < 0 || c.MaxOrder > MaxOrderLimit {
		return newError(KindConfiguration, fmt.Sprintf("max_order %d out of range [0,%d]", c.MaxOrder, MaxOrderLimit))
	}
	if c.Floating {
		return newError(KindConfiguration, "floating-point sample coding is not implemented")
	}
	if c.MCCoding {
		return newError(KindConfiguration, "multi-channel correlation coding is not implemented")
	}
	return nil
}

// EncodingStage groups the algorithm choices that control the per-block
// search: constant/LSB tests, adaptive order search, entropy coder
// selection, and the block-merge strategy. Each compression level defines
// a single stage, and the encoder uses it for every phase (joint-stereo
// probing, block-switching probing and the final pass); separate stages
// per phase are not modeled.
type EncodingStage struct {
	CheckConstant bool
	CheckLSBs     bool
	AdaptOrder    bool
	MaxOrder      int
	SBPart        bool

	ECSubAlgorithm   ecSubAlgorithm
	ParamAlgorithm   paramAlgorithm
	CountAlgorithm   countAlgorithm
	AdaptSearchValley bool // valley-detect vs full order enumeration
	AdaptCountExact   bool
	LTPCholesky       bool
	MergeFullSearch   bool
}

type ecSubAlgorithm int

const (
	ecSubRiceEstimate ecSubAlgorithm = iota
	ecSubRiceExact
	ecSubBGMCExact
)

type paramAlgorithm int

const (
	paramRiceEstimate paramAlgorithm = iota
	paramRiceExact
	paramBGMCEstimate
	paramBGMCExact
)

type countAlgorithm int

const (
	countEstimate countAlgorithm = iota
	countExact
)

// ApplyLevel fills in the algorithmic Config fields from a named
// compression level, following spec §6. The fields assigned below are
// always overwritten; every other field (stream geometry, sample format,
// random-access settings, CoefTable, BitSwitchFullSearch) keeps its value.
func (c *Config) ApplyLevel(level Level) {
	switch level {
	case Level0:
		c.JointStereo = false
		c.BlockSwitching = 0
		c.LongTermPrediction = false
		c.BGMC = false
		c.CRCEnabled = false
		c.MaxOrder = 4
		c.AdaptOrder = false
		c.SBPart = false
		c.stage = EncodingStage{
			CheckConstant:  true,
			CheckLSBs:      true,
			MaxOrder:       4,
			ParamAlgorithm: paramRiceEstimate,
			CountAlgorithm: countEstimate,
		}
	case Level1:
		c.JointStereo = true
		c.SBPart = true
		c.CRCEnabled = true
		c.MaxOrder = 10
		c.AdaptOrder = false
		c.BlockSwitching = 0
		c.LongTermPrediction = false
		c.BGMC = false
		c.stage = EncodingStage{
			CheckConstant:  true,
			CheckLSBs:      true,
			MaxOrder:       10,
			SBPart:         true,
			ParamAlgorithm: paramRiceExact,
			CountAlgorithm: countExact,
		}
	case Level2:
		c.JointStereo = true
		c.SBPart = true
		c.CRCEnabled = true
		c.AdaptOrder = true
		c.LongTermPrediction = true
		c.BGMC = true
		c.BlockSwitching = MaxBlockSwitchDepth
		c.MaxOrder = 32
		c.stage = EncodingStage{
			CheckConstant:     true,
			CheckLSBs:         true,
			AdaptOrder:        true,
			MaxOrder:          32,
			SBPart:            true,
			ECSubAlgorithm:    ecSubBGMCExact,
			ParamAlgorithm:    paramBGMCExact,
			CountAlgorithm:    countExact,
			AdaptSearchValley: true,
			AdaptCountExact:   true,
			LTPCholesky:       true,
			MergeFullSearch:   true,
		}
	}
}
