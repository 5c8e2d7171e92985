package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-audio/wav"

	"github.com/go-als/als/pkg/als"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: %s <input.wav> <output.als> [level]\n", os.Args[0])
		os.Exit(1)
	}
	inFile := os.Args[1]
	outFile := os.Args[2]
	level := als.Level2
	if len(os.Args) > 3 {
		n, err := strconv.Atoi(os.Args[3])
		if err != nil || n < 0 || n > 2 {
			log.Fatalf("level must be 0, 1, or 2, got %q", os.Args[3])
		}
		level = als.Level(n)
	}

	if filepath.Ext(inFile) != ".wav" {
		log.Fatalf("Input file %q must be a WAV file.\n", inFile)
	}

	inputData, err := os.ReadFile(inFile)
	if err != nil {
		log.Fatalf("Error loading audio file: %v\n", err)
	}

	wavReader := bytes.NewReader(inputData)
	wavDecoder := wav.NewDecoder(wavReader)
	wavBuffer, err := wavDecoder.FullPCMBuffer()
	if err != nil {
		log.Fatalf("Error decoding WAV file: %v", err)
	}
	wavDecoder.ReadInfo()

	resolution, err := resolutionFromBits(int(wavDecoder.BitDepth))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	out, err := os.Create(outFile)
	if err != nil {
		log.Fatalf("Could not create %q.\n", outFile)
	}
	defer out.Close()

	cfg := als.Config{
		SampleRate: int(wavBuffer.Format.SampleRate),
		Channels:   wavBuffer.Format.NumChannels,
		Resolution: resolution,
		FrameLength: 2048,
		RADistance:  1,
		RAFlag:      als.RAFlagFrames,
		CRCEnabled:  true,
	}

	enc, err := als.NewEncoder(cfg, level, out)
	if err != nil {
		log.Fatalf("Error creating encoder: %v", err)
	}

	samples := wavBuffer.Data
	channels := wavBuffer.Format.NumChannels
	frameLen := cfg.FrameLength
	total := len(samples) / channels
	for offset := 0; offset < total; offset += frameLen {
		n := frameLen
		if offset+n > total {
			n = total - offset
		}
		chunk := make([]int32, n*channels)
		for i := range chunk {
			chunk[i] = int32(samples[offset*channels+i])
		}
		if err := enc.EncodeFrame(out, chunk, n, int(wavDecoder.BitDepth)); err != nil {
			log.Fatalf("Error encoding frame at sample %d: %v", offset, err)
		}
	}

	if err := enc.Close(); err != nil {
		log.Fatalf("Error finalizing stream: %v", err)
	}
}

func resolutionFromBits(bits int) (als.Resolution, error) {
	switch bits {
	case 8:
		return als.Res8Bit, nil
	case 16:
		return als.Res16Bit, nil
	case 24:
		return als.Res24Bit, nil
	case 32:
		return als.Res32Bit, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bits)
	}
}
