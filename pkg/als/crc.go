package als

import "hash/crc32"

// crcAccumulator folds raw samples (in stream byte order) into a running
// IEEE CRC-32, matching the value written into ALSSpecificConfig.crc on
// close (spec §4.7, §8 "CRC" property). Resolution-2 (24-bit) samples are
// byte-reduced to 3 bytes per spec.
type crcAccumulator struct {
	table *crc32.Table
	sum   uint32
}

func newCRCAccumulator() *crcAccumulator {
	return &crcAccumulator{table: crc32.IEEETable}
}

// writeSample folds one raw little-endian sample of the given resolution.
func (c *crcAccumulator) writeSample(v int32, res Resolution) {
	var buf [4]byte
	switch res {
	case Res8Bit:
		buf[0] = byte(v)
		c.sum = crc32.Update(c.sum, c.table, buf[:1])
	case Res16Bit:
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		c.sum = crc32.Update(c.sum, c.table, buf[:2])
	case Res24Bit:
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		c.sum = crc32.Update(c.sum, c.table, buf[:3])
	case Res32Bit:
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		c.sum = crc32.Update(c.sum, c.table, buf[:4])
	}
}

// value returns the accumulated IEEE CRC-32 as written to the bitstream.
// Go's crc32.Update folds in the standard algorithm's initial/final
// complement on every call (mirroring zlib's streaming crc32()), so the
// running sum is already the correct checksum with no extra inversion.
func (c *crcAccumulator) value() uint32 {
	return c.sum
}
