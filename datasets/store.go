package datasets

import (
	"fmt"
	"sort"
)

// Series holds one recording session: the EEG signal shaped
// [NumEEGChannels][T] and, for the train split, the aligned event labels
// shaped [NumEventChannels][T]. Labels is nil for the test split.
type Series struct {
	ID     SeriesID
	Data   *FloatArray
	Labels *IntArray
}

// Store keeps parsed series in memory keyed by series id. Series are
// registered once during compilation or cache loading and are immutable
// afterwards.
type Store struct {
	byID map[SeriesID]*Series
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[SeriesID]*Series)}
}

// Put registers one series. Registering an id twice is an error; the CSV
// and cache loading paths must never silently overwrite each other.
func (s *Store) Put(sr *Series) error {
	if _, ok := s.byID[sr.ID]; ok {
		return fmt.Errorf("%s: %w", sr.ID, ErrDuplicateSeries)
	}
	if sr.Labels != nil && sr.Labels.Samples != sr.Data.Samples {
		return fmt.Errorf("%s: data has %d samples but events has %d", sr.ID, sr.Data.Samples, sr.Labels.Samples)
	}
	s.byID[sr.ID] = sr
	return nil
}

// Len returns the number of registered series.
func (s *Store) Len() int {
	return len(s.byID)
}

// Ordered returns all series sorted by (subject, series number). This
// ordering determines flat-index layout and is stable across runs and
// across the CSV and binary-cache loading paths.
func (s *Store) Ordered() []*Series {
	out := make([]*Series, 0, len(s.byID))
	for _, sr := range s.byID {
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// Filter returns the ordered subset of series whose subject and series
// number appear in the given inclusion lists. A nil list means no
// restriction on that field.
func (s *Store) Filter(subjects, numbers []int) []*Series {
	all := s.Ordered()
	out := make([]*Series, 0, len(all))
	for _, sr := range all {
		if matchesFilter(sr.ID, subjects, numbers) {
			out = append(out, sr)
		}
	}
	return out
}

// matchesFilter reports whether id passes the optional subject and series
// inclusion lists.
func matchesFilter(id SeriesID, subjects, numbers []int) bool {
	return containsInt(subjects, id.Subject) && containsInt(numbers, id.Number)
}

// containsInt reports whether v is in list; a nil list includes everything.
func containsInt(list []int, v int) bool {
	if list == nil {
		return true
	}
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
