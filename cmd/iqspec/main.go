// Command iqspec runs offline spectral analyses over raw interleaved float32
// I/Q captures such as the .raw files gqrx records.
//
// Usage:
//
//	iqspec <command> [flags] <input_file> [samples_per_block]
//
// Examples:
//
//	iqspec power gqrx_20250404_084805_1419390700_1800000_fc_sun.raw
//	iqspec power --output-type both capture.raw 4096
//	iqspec spectrogram --window blackman capture.raw 1024
//	iqspec integrated -w 0 --summary capture.raw 2048
//	iqspec calibrate --t-cal 290 --p-cal 2.1 --p-sky 1.0
//	iqspec info -o yaml capture.raw 4096
//	iqspec generate --rate 2400000 --tone 100000:0.5 --noise 0.05 --object test
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	a := newApp(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := a.execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
