package als

import (
	"bytes"
	"testing"
)

// fakeWriterAt is a minimal io.WriterAt backed by an in-memory buffer,
// used to exercise Encoder's header back-patch on Close without touching
// a real file.
type fakeWriterAt struct {
	buf []byte
}

func (f *fakeWriterAt) WriteAt(p []byte, off int64) (int, error) {
	end := int(off) + len(p)
	if end > len(f.buf) {
		grown := make([]byte, end)
		copy(grown, f.buf)
		f.buf = grown
	}
	copy(f.buf[off:end], p)
	return len(p), nil
}

func TestNewEncoderRejectsInvalidConfig(t *testing.T) {
	cfg := Config{Channels: 0}
	if _, err := NewEncoder(cfg, Level0, nil); !IsKind(err, KindConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestNewEncoderWritesInitialHeader(t *testing.T) {
	cfg := Config{SampleRate: 44100, Channels: 2, Resolution: Res16Bit, FrameLength: 256}
	w := &fakeWriterAt{}
	enc, err := NewEncoder(cfg, Level0, w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.buf) == 0 {
		t.Fatal("expected header to be written immediately")
	}
	if w.buf[0] != 0x41 {
		t.Fatalf("header magic mismatch: %02X", w.buf[0])
	}
	_ = enc
}

func TestEncodeFrameEncodesStereoSilence(t *testing.T) {
	cfg := Config{SampleRate: 44100, Channels: 2, Resolution: Res16Bit, FrameLength: 32}
	w := &fakeWriterAt{}
	enc, err := NewEncoder(cfg, Level1, w)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	var out bytes.Buffer
	silence := make([]int32, 32*2)
	if err := enc.EncodeFrame(&out, silence, 32, 16); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected non-empty coded frame")
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.SampleCount() != 32 {
		t.Fatalf("SampleCount = %d, want 32", enc.SampleCount())
	}
}

func TestEncodeFrameMonoLevel2(t *testing.T) {
	cfg := Config{SampleRate: 48000, Channels: 1, Resolution: Res16Bit, FrameLength: 64}
	w := &fakeWriterAt{}
	enc, err := NewEncoder(cfg, Level2, w)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	var out bytes.Buffer
	frame := sineFrame(64, 5000)
	if err := enc.EncodeFrame(&out, frame, 64, 16); err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("expected non-empty coded frame")
	}
}
