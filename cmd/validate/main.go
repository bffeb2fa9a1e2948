// Command validate loads a data directory's three matrix CSVs and reports how
// well they line up: alignment of timestamp indices and satellite columns,
// the active satellite set, and merge coverage. The pipeline itself is
// deliberately permissive about misaligned matrices; this tool makes the
// condition visible.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
//
// Exits non-zero when the matrices are misaligned or fail to load.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Jaylaelike/s4c-trajectory-api-services/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	dataDir := flag.String("data-dir", "data", "directory containing the matrix CSVs")
	latFile := flag.String("lat-file", "SN560_Lat_last15min.csv", "latitude matrix file name")
	lonFile := flag.String("lon-file", "SN560_Lon_last15min.csv", "longitude matrix file name")
	s4cFile := flag.String("s4c-file", "SN560_S4C_last15min.csv", "s4c matrix file name")
	flag.Parse()

	batch, err := loadBatch(*dataDir, *latFile, *lonFile, *s4cFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Println("=== Matrix Alignment Check ===")
	fmt.Printf("timestamps:        %d\n", len(batch.Lat.Times))
	fmt.Printf("columns:           %d\n", len(batch.Lat.Satellites))
	fmt.Printf("active satellites: %d %v\n", len(batch.ActiveSatellites()), batch.ActiveSatellites())

	merged := domain.Merge(batch)
	fmt.Printf("merged records:    %d\n", len(merged))
	fmt.Printf("coverage:          %s\n", domain.Coverage(batch, len(merged)))

	rep := batch.AlignmentReport()
	if rep.Aligned() {
		fmt.Println("alignment:         OK")
		return 0
	}

	fmt.Println("alignment:         MISMATCH")
	if len(rep.LonMissingColumns) > 0 {
		fmt.Printf("  lon missing columns: %v\n", rep.LonMissingColumns)
	}
	if len(rep.S4CMissingColumns) > 0 {
		fmt.Printf("  s4c missing columns: %v\n", rep.S4CMissingColumns)
	}
	if rep.LonMissingRows > 0 {
		fmt.Printf("  lon missing rows:    %d\n", rep.LonMissingRows)
	}
	if rep.S4CMissingRows > 0 {
		fmt.Printf("  s4c missing rows:    %d\n", rep.S4CMissingRows)
	}
	return 1
}

func loadBatch(dir, latFile, lonFile, s4cFile string) (domain.MatrixBatch, error) {
	lat, err := os.Open(filepath.Join(dir, latFile))
	if err != nil {
		return domain.MatrixBatch{}, err
	}
	defer lat.Close()

	lon, err := os.Open(filepath.Join(dir, lonFile))
	if err != nil {
		return domain.MatrixBatch{}, err
	}
	defer lon.Close()

	s4c, err := os.Open(filepath.Join(dir, s4cFile))
	if err != nil {
		return domain.MatrixBatch{}, err
	}
	defer s4c.Close()

	return domain.LoadBatch(lat, lon, s4c)
}
