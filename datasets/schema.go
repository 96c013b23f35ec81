package datasets

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Channel counts for the two corpus file kinds.
const (
	NumEEGChannels   = 32
	NumEventChannels = 6
)

// DataHeader is the exact header line of a *_data.csv file: a row id column
// followed by the 32 EEG electrode channels.
const DataHeader = "id,Fp1,Fp2,F7,F3,Fz,F4,F8,FC5,FC1,FC2,FC6,T7,C3,Cz,C4,T8,TP9,CP5,CP1,CP2,CP6," +
	"TP10,P7,P3,Pz,P4,P8,PO9,O1,Oz,O2,PO10"

// EventsHeader is the exact header line of a *_events.csv file: a row id
// column followed by the 6 binary event labels.
const EventsHeader = "id,HandStart,FirstDigitTouch,BothStartLoadPhase,LiftOff,Replace,BothReleased"

// Corpus filename tokens: subj<N>_series<M>_data.csv / subj<N>_series<M>_events.csv,
// with binary caches adding a .bin suffix.
const (
	subjectPrefix = "subj"
	seriesMarker  = "_series"

	dataSuffix   = "_data.csv"
	eventsSuffix = "_events.csv"
	cacheSuffix  = ".bin"
)

// FileKind distinguishes the two halves of a series on disk.
type FileKind int

const (
	// KindData is a signal file with NumEEGChannels float channels.
	KindData FileKind = iota
	// KindEvents is a label file with NumEventChannels integer channels.
	KindEvents
)

func (k FileKind) String() string {
	if k == KindEvents {
		return "events"
	}
	return "data"
}

// SeriesID identifies one recording session within a split.
type SeriesID struct {
	Subject int // 1-12
	Number  int // 1-10
}

func (id SeriesID) String() string {
	return fmt.Sprintf("subj%d_series%d", id.Subject, id.Number)
}

// Less orders series ids by subject, then series number. This is the
// canonical ordering used for flat-index layout; it must be identical for
// the CSV and binary-cache loading paths.
func (id SeriesID) Less(other SeriesID) bool {
	if id.Subject != other.Subject {
		return id.Subject < other.Subject
	}
	return id.Number < other.Number
}

// ParseSeriesPath extracts the series id and file kind from a corpus
// filename like subj4_series7_data.csv. A trailing .bin cache suffix is
// accepted and ignored.
func ParseSeriesPath(path string) (SeriesID, FileKind, error) {
	name := strings.TrimSuffix(filepath.Base(path), cacheSuffix)

	var kind FileKind
	switch {
	case strings.HasSuffix(name, dataSuffix):
		kind = KindData
	case strings.HasSuffix(name, eventsSuffix):
		kind = KindEvents
	default:
		return SeriesID{}, 0, fmt.Errorf("%s: not a %s or %s file", path, dataSuffix, eventsSuffix)
	}

	if !strings.HasPrefix(name, subjectPrefix) {
		return SeriesID{}, 0, fmt.Errorf("%s: missing %q prefix", path, subjectPrefix)
	}
	rest := name[len(subjectPrefix):]
	cut := strings.IndexByte(rest, '_')
	if cut < 0 {
		return SeriesID{}, 0, fmt.Errorf("%s: missing subject separator", path)
	}
	subject, err := strconv.Atoi(rest[:cut])
	if err != nil {
		return SeriesID{}, 0, fmt.Errorf("%s: bad subject number: %w", path, err)
	}

	mark := strings.Index(name, seriesMarker)
	if mark < 0 {
		return SeriesID{}, 0, fmt.Errorf("%s: missing %q marker", path, seriesMarker)
	}
	rest = name[mark+len(seriesMarker):]
	cut = strings.IndexByte(rest, '_')
	if cut < 0 {
		return SeriesID{}, 0, fmt.Errorf("%s: missing series separator", path)
	}
	number, err := strconv.Atoi(rest[:cut])
	if err != nil {
		return SeriesID{}, 0, fmt.Errorf("%s: bad series number: %w", path, err)
	}

	return SeriesID{Subject: subject, Number: number}, kind, nil
}

// CachePath returns the binary cache path for a source CSV path
// (subj1_series2_data.csv -> subj1_series2_data.csv.bin).
func CachePath(csvPath string) string {
	return csvPath + cacheSuffix
}
