package als

const alsMagic = 0x414C5300 // "ALS\0", per ISO/IEC 14496-3 subpart 11

// WriteALSSpecificConfig emits the ALSSpecificConfig structure that
// precedes every ALS stream: format magic, sample rate, channel/sample
// geometry, frame length, random-access parameters, and every algorithm
// flag a decoder needs to parse the frames that follow (spec §4.7,
// alsenc.c write_specific_config). crc is the placeholder value to write;
// callers needing the real value call RewriteHeaderCRC once encoding
// finishes.
func WriteALSSpecificConfig(cfg *Config, sampleCount int64, crc uint32) []byte {
	bw := newBitWriter(64)

	bw.put32(alsMagic)
	bw.put32(uint32(cfg.SampleRate))
	bw.put32(uint32(sampleCount))
	bw.putBits(uint32(cfg.Channels-1), 16)
	bw.putBits(uint32(cfg.Resolution), 2)
	bw.putBits(b2u(cfg.Floating), 1)
	bw.putBits(0, 1) // msb_first reserved bit, always 0 (LSB-first samples)
	bw.putBits(uint32(cfg.FrameLength-1), 16)
	bw.putBits(uint32(cfg.RADistance), 3)
	bw.putBits(uint32(cfg.RAFlag), 2)
	bw.putBits(b2u(cfg.AdaptOrder), 1)
	bw.putBits(uint32(cfg.CoefTable), 2)
	bw.putBits(b2u(cfg.LongTermPrediction), 1)
	bw.putBits(uint32(cfg.MaxOrder), 10)
	bw.putBits(uint32(cfg.BlockSwitching), 3)
	bw.putBits(b2u(cfg.BGMC), 1)
	bw.putBits(b2u(cfg.SBPart), 1)
	bw.putBits(b2u(cfg.JointStereo), 1)
	bw.putBits(b2u(cfg.MCCoding), 1)
	bw.putBits(0, 1) // chan_config, always 0 (no channel reassignment, Non-goal)
	bw.putBits(0, 1) // chan_sort, always 0 (Non-goal)
	bw.putBits(b2u(cfg.CRCEnabled), 1)
	bw.putBits(b2u(false), 1) // rlslms, always 0 (Non-goal)
	bw.putBits(0, 6)          // reserved, pads the header to a byte boundary
	bw.put32(crc)

	bw.alignToByte()
	return bw.bytes()
}

// WriteAudioSpecificConfig wraps an ALSSpecificConfig payload in the
// MPEG-4 AudioSpecificConfig envelope (object type 36 for ALS), the form
// a decoder expects to find at the start of an .mp4/.m4a ALS track (spec
// §4.7).
func WriteAudioSpecificConfig(cfg *Config, sampleCount int64, crc uint32) []byte {
	const objectTypeALS = 36
	bw := newBitWriter(16)
	bw.putBits(31, 5)               // audioObjectType escape
	bw.putBits(objectTypeALS-32, 6) // audioObjectTypeExt
	bw.putBits(0xF, 4)              // samplingFrequencyIndex escape value
	bw.put32(uint32(cfg.SampleRate))
	bw.putBits(uint32(cfg.Channels), 4)
	bw.alignToByte()
	return append(bw.bytes(), WriteALSSpecificConfig(cfg, sampleCount, crc)...)
}

// crcFieldOffset is the byte offset of the crc field within the payload
// returned by WriteALSSpecificConfig: every field before it totals 168
// bits (magic, sample_rate, sample_count, channels, resolution, floating,
// reserved, frame_length, ra_distance, ra_flag, adapt_order, coef_table,
// ltp, max_order, block_switching, bgmc, sb_part, joint_stereo,
// mc_coding, chan_config, chan_sort, crc_enabled, rlslms, and 6 bits of
// padding reserved specifically to land the crc field on a byte boundary
// so RewriteHeaderCRC can patch it without a bit-level rewrite (spec
// §4.7 "CRC" property, §9).
const crcFieldOffset = 168 / 8

// RewriteHeaderCRC patches the already-written ALSSpecificConfig bytes in
// place with the final CRC computed over every raw sample written during
// encoding.
func RewriteHeaderCRC(header []byte, crc uint32) error {
	if len(header) < crcFieldOffset+4 {
		return newError(KindHeader, "header too short to hold crc field")
	}
	header[crcFieldOffset] = byte(crc >> 24)
	header[crcFieldOffset+1] = byte(crc >> 16)
	header[crcFieldOffset+2] = byte(crc >> 8)
	header[crcFieldOffset+3] = byte(crc)
	return nil
}
