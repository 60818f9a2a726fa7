// Command splinfo prints the coefficient tables an SPL meter derives from
// its configuration.
//
// Usage:
//
//	splinfo [flags]
//
// Examples:
//
//	splinfo
//	splinfo -size 512 -rate 48000
//	splinfo -weighting c -bins
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-spl/dsp/weighting"
	"github.com/cwbudde/algo-spl/dsp/window"
)

func main() {
	size := flag.Int("size", 256, "FFT/block size in samples")
	rate := flag.Float64("rate", 16000, "sample rate in Hz")
	weightName := flag.String("weighting", "a", "weighting curve (a, b, c, z)")
	windowName := flag.String("window", "hann", "analysis window (rectangular, hann, hamming, blackman, flattop)")
	bins := flag.Bool("bins", false, "dump the per-bin weighting table")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: splinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints the window and weighting tables for an SPL meter configuration.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	weightType, err := parseWeighting(*weightName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	windowType, err := parseWindow(*windowName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	table, err := weighting.PowerTable(weightType, *size, *rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	coeffs := window.Generate(windowType, *size)

	printSummary(os.Stdout, *size, *rate, weightType, windowType, coeffs)

	if *bins {
		printBins(os.Stdout, table, *size, *rate, weightType)
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

func parseWindow(name string) (window.Type, error) {
	switch strings.ToLower(name) {
	case "rectangular":
		return window.TypeRectangular, nil
	case "hann":
		return window.TypeHann, nil
	case "hamming":
		return window.TypeHamming, nil
	case "blackman":
		return window.TypeBlackman, nil
	case "flattop":
		return window.TypeFlatTop, nil
	default:
		return 0, fmt.Errorf("unknown window %q", name)
	}
}

func printSummary(out *os.File, size int, rate float64, wt weighting.Type, win window.Type, coeffs []float64) {
	cg, _ := window.CoherentGain(coeffs)
	pg, _ := window.PowerGain(coeffs)
	enbw, _ := window.EquivalentNoiseBandwidth(coeffs)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "block size\t%d samples\n", size)
	fmt.Fprintf(w, "sample rate\t%.0f Hz\n", rate)
	fmt.Fprintf(w, "bin width\t%.3f Hz\n", rate/float64(size))
	fmt.Fprintf(w, "bins\t%d (1..%d accumulated)\n", size/2, size/2-1)
	fmt.Fprintf(w, "weighting\t%s\n", wt)
	fmt.Fprintf(w, "window\t%s\n", win)
	fmt.Fprintf(w, "coherent gain\t%.4f\n", cg)
	fmt.Fprintf(w, "power gain\t%.4f\n", pg)
	fmt.Fprintf(w, "ENBW\t%.4f bins\n", enbw)
	w.Flush()
}

func printBins(out *os.File, table []float64, size int, rate float64, wt weighting.Type) {
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "bin\tfreq (Hz)\t%s (dB)\tpower factor\t\n", wt)

	for i, v := range table {
		freq := float64(i) * rate / float64(size)
		fmt.Fprintf(w, "%d\t%.1f\t%.2f\t%.6f\t\n", i, freq, weighting.MagnitudeDB(wt, freq), v)
	}

	w.Flush()
}
