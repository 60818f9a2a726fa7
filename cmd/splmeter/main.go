// Command splmeter runs the SPL pipeline over a WAV file and prints the
// smoothed level as it evolves.
//
// Usage:
//
//	splmeter [flags] file.wav
//
// PCM samples are mixed down to mono and mapped onto unsigned ADC codes at
// the file's native bit depth, so the converter full scale follows the
// recording rather than the reference hardware.
//
// Examples:
//
//	splmeter recording.wav
//	splmeter -weighting c -calibration 0 recording.wav
//	splmeter -block 1024 -every 16 recording.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-spl/dsp/weighting"
	"github.com/cwbudde/algo-spl/measure/spl"
)

func main() {
	block := flag.Int("block", 256, "processing block size in samples")
	weightName := flag.String("weighting", "a", "weighting curve (a, b, c, z)")
	sensitivity := flag.Float64("sensitivity", -38, "microphone sensitivity in dBV/Pa")
	calibration := flag.Float64("calibration", -30, "calibration offset in dB")
	alpha := flag.Float64("alpha", 0.1, "EMA smoothing factor in (0,1]")
	every := flag.Int("every", 8, "print the smoothed level every N blocks (0 = final only)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: splmeter [flags] file.wav\n\n")
		fmt.Fprintf(os.Stderr, "Measures frequency-weighted SPL over a WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *block, *weightName, *sensitivity, *calibration, *alpha, *every); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, block int, weightName string, sensitivity, calibration, alpha float64, every int) error {
	weightType, err := parseWeighting(weightName)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if bitDepth <= 1 || bitDepth > 32 {
		return fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	fullScale := float64(uint64(1) << bitDepth)
	midpoint := uint32(uint64(1) << (bitDepth - 1))

	meter, err := spl.NewMeter(
		spl.WithSampleRate(float64(format.SampleRate)),
		spl.WithBlockSize(block),
		spl.WithADCFullScale(fullScale),
		spl.WithMicSensitivity(sensitivity),
		spl.WithCalibrationOffset(calibration),
		spl.WithSmoothing(alpha),
		spl.WithWeighting(weightType),
	)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d Hz, %d channels, %d-bit, %s-weighted, block %d\n",
		path, format.SampleRate, format.NumChannels, bitDepth, weightType, block)

	pcm := &audio.IntBuffer{
		Format: format,
		Data:   make([]int, block*format.NumChannels),
	}

	codes := make([]uint32, block)
	blocks := 0

	for {
		n, err := decoder.PCMBuffer(pcm)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read PCM data: %w", err)
		}

		frames := n / format.NumChannels
		if frames < block {
			// Trailing partial block is dropped; the pipeline requires
			// full buffers.
			break
		}

		mixToCodes(codes, pcm.Data, format.NumChannels, midpoint)

		if err := meter.Process(codes); err != nil {
			return err
		}

		blocks++
		if every > 0 && blocks%every == 0 {
			seconds := float64(blocks*block) / float64(format.SampleRate)
			fmt.Printf("%8.2f s  %6.1f dB\n", seconds, meter.Smoothed())
		}
	}

	if blocks == 0 {
		return fmt.Errorf("file shorter than one block (%d samples)", block)
	}

	fmt.Printf("final: %.1f dB over %d blocks\n", meter.Smoothed(), blocks)

	return nil
}

// mixToCodes averages interleaved channels into mono and re-centers signed
// PCM onto unsigned codes around the converter midpoint.
func mixToCodes(dst []uint32, data []int, channels int, midpoint uint32) {
	for i := range dst {
		sum := 0
		for ch := range channels {
			sum += data[i*channels+ch]
		}

		v := int64(sum/channels) + int64(midpoint)
		if v < 0 {
			v = 0
		}

		if hi := int64(midpoint)*2 - 1; v > hi {
			v = hi
		}

		dst[i] = uint32(v)
	}
}

func parseWeighting(name string) (weighting.Type, error) {
	switch strings.ToLower(name) {
	case "a":
		return weighting.TypeA, nil
	case "b":
		return weighting.TypeB, nil
	case "c":
		return weighting.TypeC, nil
	case "z":
		return weighting.TypeZ, nil
	default:
		return 0, fmt.Errorf("unknown weighting %q", name)
	}
}
