package datasets

import (
	"fmt"
	"sort"
)

// WindowIndex maps a single flat index in [0, Total()) to a (series
// position, time offset) pair across the concatenation of every included
// series' windows. It stores only a cumulative window-count array, not a
// full enumeration.
//
// With a window length W, series i of length T_i contributes
// max(0, T_i-W+1) windows. With no window (W <= 0) the index degenerates to
// direct series addressing: index i is series i's whole array.
type WindowIndex struct {
	window int
	cum    []int // cum[i] = windows contributed by series [0, i)
}

// NewWindowIndex builds the index from the ordered series lengths. A series
// shorter than the window simply contributes zero windows.
func NewWindowIndex(lengths []int, window int) *WindowIndex {
	cum := make([]int, len(lengths)+1)
	for i, t := range lengths {
		n := 1
		if window > 0 {
			n = t - window + 1
			if n < 0 {
				n = 0
			}
		}
		cum[i+1] = cum[i] + n
	}
	return &WindowIndex{window: window, cum: cum}
}

// Window returns the configured window length, 0 when unset.
func (ix *WindowIndex) Window() int {
	return ix.window
}

// Total returns the flattened window count (or the series count when no
// window is set).
func (ix *WindowIndex) Total() int {
	return ix.cum[len(ix.cum)-1]
}

// Lookup resolves a flat index to the owning series position and the window
// offset within that series. The cumulative array is sorted, so this is a
// binary search over the prefix sums.
func (ix *WindowIndex) Lookup(index int) (series, offset int, err error) {
	if index < 0 || index >= ix.Total() {
		return 0, 0, fmt.Errorf("index %d outside [0, %d): %w", index, ix.Total(), ErrRange)
	}
	// First series whose cumulative count exceeds index. Zero-window series
	// are never selected: for them cum[i+1] == cum[i] <= index.
	series = sort.Search(len(ix.cum)-1, func(i int) bool { return ix.cum[i+1] > index })
	return series, index - ix.cum[series], nil
}
