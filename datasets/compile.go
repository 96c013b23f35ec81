package datasets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Compiler parses raw CSV series files into validated in-memory arrays,
// persists each one through the binary cache codec, and registers the
// resulting series in a Store. Processing is sequential; the first failing
// file aborts the run, leaving caches already written for other series
// intact.
type Compiler struct {
	Log zerolog.Logger
}

// NewCompiler returns a compiler that logs per-file progress to log. Pass
// zerolog.Nop() to silence it.
func NewCompiler(log zerolog.Logger) *Compiler {
	return &Compiler{Log: log}
}

type pendingSeries struct {
	data   *FloatArray
	labels *IntArray
}

// Compile parses every CSV file that passes the subject/series filters,
// writes its binary cache next to it, and fills store with the resulting
// series. Non-matching files are skipped before opening them.
func (c *Compiler) Compile(store *Store, csvFiles []string, subjects, numbers []int) error {
	pending := make(map[SeriesID]*pendingSeries)
	for i, path := range csvFiles {
		id, kind, err := ParseSeriesPath(path)
		if err != nil {
			return err
		}
		if !matchesFilter(id, subjects, numbers) {
			continue
		}
		p := pending[id]
		if p == nil {
			p = &pendingSeries{}
			pending[id] = p
		}
		switch kind {
		case KindData:
			arr, err := parseDataCSV(path)
			if err != nil {
				return err
			}
			if err := WriteFloatCache(CachePath(path), arr); err != nil {
				return err
			}
			p.data = arr
		case KindEvents:
			arr, err := parseEventsCSV(path)
			if err != nil {
				return err
			}
			if err := WriteIntCache(CachePath(path), arr); err != nil {
				return err
			}
			p.labels = arr
		}
		c.Log.Info().
			Str("file", filepath.Base(path)).
			Int("processed", i+1).
			Int("total", len(csvFiles)).
			Msg("compiled")
	}
	return registerPending(store, pending)
}

// LoadCached decodes every binary cache file that passes the subject/series
// filters and fills store with the resulting series.
func (c *Compiler) LoadCached(store *Store, binFiles []string, subjects, numbers []int) error {
	pending := make(map[SeriesID]*pendingSeries)
	for _, path := range binFiles {
		id, kind, err := ParseSeriesPath(path)
		if err != nil {
			return err
		}
		if !matchesFilter(id, subjects, numbers) {
			continue
		}
		p := pending[id]
		if p == nil {
			p = &pendingSeries{}
			pending[id] = p
		}
		switch kind {
		case KindData:
			if p.data, err = ReadFloatCache(path); err != nil {
				return err
			}
		case KindEvents:
			if p.labels, err = ReadIntCache(path); err != nil {
				return err
			}
		}
	}
	return registerPending(store, pending)
}

// registerPending moves fully assembled series into the store. A series may
// legitimately have no events half (the test split), but events without a
// data half mean the corpus layout is broken.
func registerPending(store *Store, pending map[SeriesID]*pendingSeries) error {
	for id, p := range pending {
		if p.data == nil {
			return fmt.Errorf("%s: events file present but no data file", id)
		}
		if err := store.Put(&Series{ID: id, Data: p.data, Labels: p.labels}); err != nil {
			return err
		}
	}
	return nil
}

// parseDataCSV parses one *_data.csv file into a [NumEEGChannels][T] array.
// The header line must match DataHeader exactly.
func parseDataCSV(path string) (*FloatArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	if strings.Join(header, ",") != DataHeader {
		return nil, fmt.Errorf("%s: data header mismatch: %w", path, ErrSchema)
	}
	r.FieldsPerRecord = 1 + NumEEGChannels

	chans := make([][]float64, NumEEGChannels)
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%s: %v: %w", path, err, ErrMalformedRow)
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row++
		// First field is the row id; the rest are channel values.
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: parse %q: %w", path, row, field, err)
			}
			chans[i] = append(chans[i], v)
		}
	}

	a := NewFloatArray(NumEEGChannels, row)
	for c := range chans {
		copy(a.Channel(c), chans[c])
	}
	return a, nil
}

// parseEventsCSV parses one *_events.csv file into a [NumEventChannels][T]
// array. The header line must match EventsHeader exactly.
func parseEventsCSV(path string) (*IntArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	if strings.Join(header, ",") != EventsHeader {
		return nil, fmt.Errorf("%s: events header mismatch: %w", path, ErrSchema)
	}
	r.FieldsPerRecord = 1 + NumEventChannels

	chans := make([][]int32, NumEventChannels)
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, fmt.Errorf("%s: %v: %w", path, err, ErrMalformedRow)
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row++
		for i, field := range rec[1:] {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: parse %q: %w", path, row, field, err)
			}
			chans[i] = append(chans[i], int32(v))
		}
	}

	a := NewIntArray(NumEventChannels, row)
	for c := range chans {
		copy(a.Channel(c), chans[c])
	}
	return a, nil
}
