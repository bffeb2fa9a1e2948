// Command genmock generates the three sparse matrix CSVs a receiver would
// export, for local runs and test fixtures. Values are deterministic for a
// given seed.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data -satellites 8 -rows 60 -seed 42
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "output directory for the matrix CSVs")
	satellites := flag.Int("satellites", 8, "number of satellite columns")
	rows := flag.Int("rows", 60, "number of timestamp rows (15s cadence)")
	start := flag.String("start", "2024-04-26 15:00:00", "first row timestamp")
	seed := flag.Int64("seed", 42, "random seed")
	sparsity := flag.Float64("sparsity", 0.2, "fraction of cells left empty per matrix")
	flag.Parse()

	startTS, err := time.ParseInLocation(domain.TimeLayout, *start, time.UTC)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	sats := satelliteIDs(*satellites)
	times := make([]time.Time, *rows)
	for i := range times {
		times[i] = startTS.Add(time.Duration(i) * 15 * time.Second)
	}

	files := []struct {
		name string
		gen  func(row, col int) float64
	}{
		{"SN560_Lat_last15min.csv", func(row, col int) float64 {
			return 13.7 + float64(col)*0.5 + rng.Float64()*0.3
		}},
		{"SN560_Lon_last15min.csv", func(row, col int) float64 {
			return 100.5 + float64(col)*0.4 + rng.Float64()*0.3
		}},
		{"SN560_S4C_last15min.csv", func(row, col int) float64 {
			// Mostly quiet, occasionally above the 0.4 alert threshold.
			v := rng.Float64() * 0.35
			if rng.Float64() < 0.1 {
				v += 0.3
			}
			return v
		}},
	}

	for _, f := range files {
		path := filepath.Join(*outDir, f.name)
		if err := writeMatrix(path, times, sats, *sparsity, rng, f.gen); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
		log.Printf("wrote %s (%d rows x %d satellites)", path, len(times), len(sats))
	}
	return nil
}

func satelliteIDs(n int) []string {
	sats := make([]string, n)
	for i := range sats {
		sats[i] = fmt.Sprintf("G%02d", i+1)
	}
	return sats
}

func writeMatrix(path string, times []time.Time, sats []string, sparsity float64, rng *rand.Rand, gen func(row, col int) float64) error {
	var b strings.Builder
	b.WriteString("," + strings.Join(sats, ",") + "\n")
	for i, ts := range times {
		b.WriteString(ts.Format(domain.TimeLayout))
		for j := range sats {
			b.WriteString(",")
			if rng.Float64() < sparsity {
				continue
			}
			b.WriteString(strconv.FormatFloat(gen(i, j), 'f', 6, 64))
		}
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
