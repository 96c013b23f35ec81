package datasets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// writeCSV writes a CSV file with the given header and rows to path.
func writeCSV(t *testing.T, path, header string, rows []string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(header + "\n"); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	for _, r := range rows {
		if _, err := f.WriteString(r + "\n"); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
}

// dataValue is the deterministic signal value used by the test corpus.
func dataValue(c, t int) float64 {
	return float64(t*100 + c)
}

// eventValue is the deterministic label value used by the test corpus.
func eventValue(c, t int) int32 {
	return int32((t + c) % 2)
}

func writeDataCSV(t *testing.T, path string, samples int) {
	t.Helper()
	rows := make([]string, samples)
	for ts := 0; ts < samples; ts++ {
		fields := make([]string, 1+NumEEGChannels)
		fields[0] = fmt.Sprintf("row%d", ts)
		for c := 0; c < NumEEGChannels; c++ {
			fields[1+c] = fmt.Sprintf("%g", dataValue(c, ts))
		}
		rows[ts] = strings.Join(fields, ",")
	}
	writeCSV(t, path, DataHeader, rows)
}

func writeEventsCSV(t *testing.T, path string, samples int) {
	t.Helper()
	rows := make([]string, samples)
	for ts := 0; ts < samples; ts++ {
		fields := make([]string, 1+NumEventChannels)
		fields[0] = fmt.Sprintf("row%d", ts)
		for c := 0; c < NumEventChannels; c++ {
			fields[1+c] = fmt.Sprintf("%d", eventValue(c, ts))
		}
		rows[ts] = strings.Join(fields, ",")
	}
	writeCSV(t, path, EventsHeader, rows)
}

// writeSeries writes the data and events CSV pair for one series.
func writeSeries(t *testing.T, dir string, subject, number, samples int) {
	t.Helper()
	stem := filepath.Join(dir, fmt.Sprintf("subj%d_series%d", subject, number))
	writeDataCSV(t, stem+"_data.csv", samples)
	writeEventsCSV(t, stem+"_events.csv", samples)
}

func TestCompileFillsStoreAndWritesCaches(t *testing.T) {
	tmp := t.TempDir()
	writeSeries(t, tmp, 1, 1, 8)
	writeSeries(t, tmp, 1, 2, 5)

	csvFiles, err := recursiveList(tmp, ".csv")
	if err != nil {
		t.Fatalf("recursiveList error: %v", err)
	}
	if len(csvFiles) != 4 {
		t.Fatalf("expected 4 csv files, got %d", len(csvFiles))
	}

	store := NewStore()
	comp := NewCompiler(zerolog.Nop())
	if err := comp.Compile(store, csvFiles, nil, nil); err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d series, want 2", store.Len())
	}

	// Every source file gets a cache next to it.
	for _, path := range csvFiles {
		if _, err := os.Stat(CachePath(path)); err != nil {
			t.Fatalf("missing cache for %s: %v", path, err)
		}
	}

	sr := store.Ordered()[0]
	if sr.ID != (SeriesID{Subject: 1, Number: 1}) {
		t.Fatalf("first series is %v", sr.ID)
	}
	if sr.Data.Channels != NumEEGChannels || sr.Data.Samples != 8 {
		t.Fatalf("data shaped [%d,%d], want [%d,8]", sr.Data.Channels, sr.Data.Samples, NumEEGChannels)
	}
	if got := sr.Data.At(3, 5); got != dataValue(3, 5) {
		t.Fatalf("data[3][5] = %v, want %v", got, dataValue(3, 5))
	}
	if sr.Labels == nil || sr.Labels.Samples != 8 {
		t.Fatalf("labels missing or misshapen: %+v", sr.Labels)
	}
	if got := sr.Labels.At(2, 7); got != eventValue(2, 7) {
		t.Fatalf("labels[2][7] = %v, want %v", got, eventValue(2, 7))
	}
}

func TestLoadCachedMatchesCompile(t *testing.T) {
	tmp := t.TempDir()
	writeSeries(t, tmp, 2, 3, 9)

	csvFiles, _ := recursiveList(tmp, ".csv")
	compiled := NewStore()
	comp := NewCompiler(zerolog.Nop())
	if err := comp.Compile(compiled, csvFiles, nil, nil); err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	binFiles, err := recursiveList(tmp, ".csv.bin")
	if err != nil {
		t.Fatalf("recursiveList error: %v", err)
	}
	if len(binFiles) != 2 {
		t.Fatalf("expected 2 bin files, got %d", len(binFiles))
	}

	cached := NewStore()
	if err := comp.LoadCached(cached, binFiles, nil, nil); err != nil {
		t.Fatalf("LoadCached error: %v", err)
	}

	a := compiled.Ordered()[0]
	b := cached.Ordered()[0]
	if a.ID != b.ID {
		t.Fatalf("series ids differ: %v vs %v", a.ID, b.ID)
	}
	if !a.Data.Equal(b.Data) {
		t.Fatalf("cached data differs from compiled data")
	}
	if !a.Labels.Equal(b.Labels) {
		t.Fatalf("cached labels differ from compiled labels")
	}
}

func TestCompileSchemaErrorLeavesOtherCachesIntact(t *testing.T) {
	tmp := t.TempDir()
	writeSeries(t, tmp, 1, 1, 4)

	// A data file with a wrong header, sorted after subj1's files.
	badPath := filepath.Join(tmp, "subj2_series1_data.csv")
	writeCSV(t, badPath, "id,Bogus1,Bogus2", []string{"row0,1,2"})

	csvFiles, _ := recursiveList(tmp, ".csv")
	store := NewStore()
	comp := NewCompiler(zerolog.Nop())
	err := comp.Compile(store, csvFiles, nil, nil)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("Compile = %v, want ErrSchema", err)
	}

	// The caches written before the failure stay valid.
	good := filepath.Join(tmp, "subj1_series1_data.csv")
	if _, err := ReadFloatCache(CachePath(good)); err != nil {
		t.Fatalf("good series cache corrupted: %v", err)
	}
	// No cache for the failed file.
	if _, err := os.Stat(CachePath(badPath)); !os.IsNotExist(err) {
		t.Fatalf("cache unexpectedly written for failed file")
	}
}

func TestCompileMalformedRow(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "subj1_series1_data.csv")
	// Second row is missing a field.
	rows := []string{
		"row0," + strings.TrimSuffix(strings.Repeat("1,", NumEEGChannels), ","),
		"row1,1,2,3",
	}
	writeCSV(t, path, DataHeader, rows)

	store := NewStore()
	comp := NewCompiler(zerolog.Nop())
	if err := comp.Compile(store, []string{path}, nil, nil); !errors.Is(err, ErrMalformedRow) {
		t.Fatalf("Compile = %v, want ErrMalformedRow", err)
	}
}

func TestCompileFiltersSkipFilesEntirely(t *testing.T) {
	tmp := t.TempDir()
	writeSeries(t, tmp, 1, 1, 4)

	// This file would fail schema validation, but the subject filter must
	// skip it before it is ever opened.
	writeCSV(t, filepath.Join(tmp, "subj9_series1_data.csv"), "id,Bogus", []string{"row0,1"})

	csvFiles, _ := recursiveList(tmp, ".csv")
	store := NewStore()
	comp := NewCompiler(zerolog.Nop())
	if err := comp.Compile(store, csvFiles, []int{1}, nil); err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d series, want 1", store.Len())
	}
}

func TestCompileEventsWithoutData(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "subj1_series1_events.csv")
	writeEventsCSV(t, path, 3)

	store := NewStore()
	comp := NewCompiler(zerolog.Nop())
	if err := comp.Compile(store, []string{path}, nil, nil); err == nil {
		t.Fatalf("expected error for events file without data file")
	}
}
