package als

import (
	"io"

	"github.com/pkg/errors"
)

// Encoder turns successive PCM frames into MPEG-4 ALS frames, following
// the pipeline in spec §4: stage samples, form joint-stereo pairs,
// partition each into blocks, predict, entropy-code, and write. Create
// one with NewEncoder, feed it frames with EncodeFrame, and finish with
// Close.
type Encoder struct {
	cfg    Config
	stager *stager
	fw     *frameWriter
	crc    *crcAccumulator

	pairs      []channelPair
	solo       []int // channel indices not part of any pair
	sampleN    int64
	frameIndex int

	header       []byte
	headerWriter io.WriterAt
}

// NewEncoder applies the compression level to a copy of cfg, validates
// it, and prepares internal staging buffers. The level replaces every
// field ApplyLevel assigns (joint stereo, block switching, prediction
// order, LTP, BGMC, sub-block partitioning, CRC), whatever the caller set
// for them; the other fields keep the caller's values. w, if non-nil,
// receives the ALSSpecificConfig header immediately (with a zero sample
// count and a placeholder CRC) and again, with both filled in, when Close
// is called, letting callers write directly to a seekable output (spec
// §6, §9).
func NewEncoder(cfg Config, level Level, w io.WriterAt) (*Encoder, error) {
	full := cfg
	full.ApplyLevel(level)
	// ApplyLevel leaves stream geometry, sample format, random-access
	// settings and CoefTable as the caller set them.
	if err := full.validate(); err != nil {
		return nil, err
	}

	e := &Encoder{
		cfg:          full,
		stager:       newStager(&full),
		fw:           newFrameWriter(full.FrameLength * full.Channels * 4),
		crc:          newCRCAccumulator(),
		headerWriter: w,
	}
	e.pairChannels()

	if w != nil {
		header := WriteALSSpecificConfig(&full, 0, 0)
		if _, err := w.WriteAt(header, 0); err != nil {
			return nil, wrapError(KindHeader, "writing initial header", err)
		}
		e.header = header
	}
	return e, nil
}

// pairChannels groups channels into adjacent stereo pairs the way the
// reference encoder does by default (0-1, 2-3, ...), leaving a trailing
// unpaired channel solo (spec §4.2, alsenc.c gen_js_infos).
func (e *Encoder) pairChannels() {
	ch := e.cfg.Channels
	for c := 0; c+1 < ch; c += 2 {
		e.pairs = append(e.pairs, channelPair{first: c, second: c + 1})
	}
	if ch%2 == 1 {
		e.solo = append(e.solo, ch-1)
	}
}

// EncodeFrame stages one interleaved PCM frame (frameSize samples per
// channel, containerWidth-bit container samples) and writes the
// resulting coded ALS frame to w. frameSize may be less than
// cfg.FrameLength only for the final, partial frame.
func (e *Encoder) EncodeFrame(w io.Writer, interleaved []int32, frameSize, containerWidth int) error {
	e.stager.deinterleave(interleaved, frameSize, e.containerWidthOrDefault(containerWidth))
	e.accumulateCRC(interleaved, frameSize)

	raUnit := e.cfg.RADistance > 0 && e.frameIndex%e.cfg.RADistance == 0
	fullSearch := e.cfg.stage.MergeFullSearch || e.cfg.BitSwitchFullSearch

	var pairWrites []framePairWrite
	for _, p := range e.pairs {
		firstLane := e.stager.lanes[p.first]
		secondLane := e.stager.lanes[p.second]
		var diff *difSignal
		if e.cfg.JointStereo {
			diff = genDifSignal(firstLane, secondLane)
		}
		pc := channelPair{first: p.first, second: p.second, diff: diff}

		cost := func(start, length int) int {
			return blockSearch(firstLane, start, length, &e.cfg, &e.cfg.stage).bits +
				blockSearch(secondLane, start, length, &e.cfg, &e.cfg.stage).bits
		}
		tree, bounds := setBlocks(frameSize, e.cfg.BlockSwitching, fullSearch, cost)

		choice := searchJointStereo(pc, firstLane, secondLane, bounds, &e.cfg, &e.cfg.stage)
		pairWrites = append(pairWrites, framePairWrite{
			mode:         choice.mode,
			hasSecond:    true,
			tree:         tree,
			firstBlocks:  choice.firstBlocks,
			secondBlocks: choice.secondBlocks,
		})
	}
	for _, c := range e.solo {
		lane := e.stager.lanes[c]
		cost := func(start, length int) int {
			return blockSearch(lane, start, length, &e.cfg, &e.cfg.stage).bits
		}
		tree, bounds := setBlocks(frameSize, e.cfg.BlockSwitching, fullSearch, cost)
		blocks := make([]*blockResult, len(bounds))
		for i, b := range bounds {
			blocks[i] = blockSearch(lane, b[0], b[1], &e.cfg, &e.cfg.stage)
		}
		pairWrites = append(pairWrites, framePairWrite{
			mode:        stereoIndependent,
			hasSecond:   false,
			tree:        tree,
			firstBlocks: blocks,
		})
	}

	frame := e.fw.writeFrame(&e.cfg, raUnit && e.cfg.RAFlag == RAFlagFrames, pairWrites)
	if _, err := w.Write(frame); err != nil {
		return wrapError(KindBitstream, "writing frame", err)
	}

	e.sampleN += int64(frameSize)
	e.frameIndex++
	return nil
}

func (e *Encoder) containerWidthOrDefault(containerWidth int) int {
	if containerWidth == 0 {
		return e.cfg.Resolution.bitsPerSample()
	}
	return containerWidth
}

// accumulateCRC folds the frame's raw, un-normalized samples into the
// running header CRC (spec §4.7).
func (e *Encoder) accumulateCRC(interleaved []int32, frameSize int) {
	if !e.cfg.CRCEnabled {
		return
	}
	n := frameSize * e.cfg.Channels
	for i := 0; i < n && i < len(interleaved); i++ {
		e.crc.writeSample(interleaved[i], e.cfg.Resolution)
	}
}

// Close finalizes the stream: if a header writer was supplied at
// construction, the header written by NewEncoder is rewritten in place
// with the number of samples per channel encoded and the CRC accumulated
// over every encoded sample.
func (e *Encoder) Close() error {
	if e.headerWriter == nil || e.header == nil {
		return nil
	}
	final := WriteALSSpecificConfig(&e.cfg, e.sampleN, e.crc.value())
	if _, err := e.headerWriter.WriteAt(final, 0); err != nil {
		return wrapError(KindHeader, "rewriting header", err)
	}
	return nil
}

// SampleCount returns the total number of samples-per-channel encoded so
// far, the value a final header rewrite would need if sample_count could
// not be known up front.
func (e *Encoder) SampleCount() int64 { return e.sampleN }

// ErrShortFrame is returned by callers driving EncodeFrame when a
// non-final frame is shorter than Config.FrameLength.
var ErrShortFrame = errors.New("als: frame shorter than configured frame length")
