package datasets

import (
	"errors"
	"testing"
)

func TestWindowIndexNoWindow(t *testing.T) {
	ix := NewWindowIndex([]int{2000, 100, 7}, 0)
	if got := ix.Total(); got != 3 {
		t.Fatalf("expected total 3 with no window, got %d", got)
	}
	for i := 0; i < 3; i++ {
		si, ofs, err := ix.Lookup(i)
		if err != nil {
			t.Fatalf("Lookup(%d) error: %v", i, err)
		}
		if si != i || ofs != 0 {
			t.Fatalf("Lookup(%d) = (%d, %d), want (%d, 0)", i, si, ofs, i)
		}
	}
}

func TestWindowIndexSingleSeriesCount(t *testing.T) {
	// One series of length 2000 with W=1024 flattens to 2000-1024+1 windows.
	ix := NewWindowIndex([]int{2000}, 1024)
	if got := ix.Total(); got != 977 {
		t.Fatalf("expected 977 windows, got %d", got)
	}
}

func TestWindowIndexShortSeriesContributesZero(t *testing.T) {
	// The middle series is shorter than the window and must contribute
	// zero windows, not an error.
	ix := NewWindowIndex([]int{20, 5, 30}, 10)
	want := (20 - 10 + 1) + 0 + (30 - 10 + 1)
	if got := ix.Total(); got != want {
		t.Fatalf("expected %d windows, got %d", want, got)
	}
	for g := 0; g < ix.Total(); g++ {
		si, _, err := ix.Lookup(g)
		if err != nil {
			t.Fatalf("Lookup(%d) error: %v", g, err)
		}
		if si == 1 {
			t.Fatalf("Lookup(%d) resolved to the zero-window series", g)
		}
	}
}

func TestWindowIndexLookupBijection(t *testing.T) {
	lengths := []int{12, 3, 25, 10}
	window := 10
	ix := NewWindowIndex(lengths, window)

	seen := make(map[[2]int]bool)
	for g := 0; g < ix.Total(); g++ {
		si, ofs, err := ix.Lookup(g)
		if err != nil {
			t.Fatalf("Lookup(%d) error: %v", g, err)
		}
		if ofs < 0 || ofs > lengths[si]-window {
			t.Fatalf("Lookup(%d) offset %d outside [0, %d]", g, ofs, lengths[si]-window)
		}
		pair := [2]int{si, ofs}
		if seen[pair] {
			t.Fatalf("Lookup(%d) duplicates pair (%d, %d)", g, si, ofs)
		}
		seen[pair] = true
	}

	// Every valid (series, offset) pair must be covered.
	for si, length := range lengths {
		for ofs := 0; ofs <= length-window; ofs++ {
			if !seen[[2]int{si, ofs}] {
				t.Fatalf("pair (%d, %d) never produced by any flat index", si, ofs)
			}
		}
	}
}

func TestWindowIndexRangeErrors(t *testing.T) {
	ix := NewWindowIndex([]int{50}, 10)
	for _, g := range []int{-1, ix.Total(), ix.Total() + 5} {
		if _, _, err := ix.Lookup(g); !errors.Is(err, ErrRange) {
			t.Fatalf("Lookup(%d) = %v, want ErrRange", g, err)
		}
	}
}
