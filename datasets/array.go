package datasets

import "fmt"

// FloatArray is a 2D float64 array laid out row-major as
// [channels][samples]. It is the in-memory form of one series' EEG signal.
type FloatArray struct {
	Channels int
	Samples  int
	Data     []float64
}

// NewFloatArray allocates a zeroed channels-by-samples array.
func NewFloatArray(channels, samples int) *FloatArray {
	return &FloatArray{
		Channels: channels,
		Samples:  samples,
		Data:     make([]float64, channels*samples),
	}
}

// At returns the value of channel c at time step t.
func (a *FloatArray) At(c, t int) float64 {
	return a.Data[c*a.Samples+t]
}

// Set assigns the value of channel c at time step t.
func (a *FloatArray) Set(c, t int, v float64) {
	a.Data[c*a.Samples+t] = v
}

// Channel returns the contiguous slice of samples for channel c. The slice
// aliases the array's backing buffer.
func (a *FloatArray) Channel(c int) []float64 {
	return a.Data[c*a.Samples : (c+1)*a.Samples]
}

// Window copies the time steps [offset, offset+width) of every channel into
// a new channels-by-width array.
func (a *FloatArray) Window(offset, width int) (*FloatArray, error) {
	if offset < 0 || width <= 0 || offset+width > a.Samples {
		return nil, fmt.Errorf("window [%d, %d) outside [0, %d): %w", offset, offset+width, a.Samples, ErrRange)
	}
	w := NewFloatArray(a.Channels, width)
	for c := 0; c < a.Channels; c++ {
		copy(w.Channel(c), a.Channel(c)[offset:offset+width])
	}
	return w, nil
}

// Equal reports whether both arrays have the same shape and identical
// values. Comparison is exact (bit equality), not approximate.
func (a *FloatArray) Equal(b *FloatArray) bool {
	if a.Channels != b.Channels || a.Samples != b.Samples {
		return false
	}
	for i, v := range a.Data {
		if b.Data[i] != v {
			return false
		}
	}
	return true
}

// IntArray is a 2D int32 array laid out row-major as [channels][samples].
// It is the in-memory form of one series' binary event labels.
type IntArray struct {
	Channels int
	Samples  int
	Data     []int32
}

// NewIntArray allocates a zeroed channels-by-samples array.
func NewIntArray(channels, samples int) *IntArray {
	return &IntArray{
		Channels: channels,
		Samples:  samples,
		Data:     make([]int32, channels*samples),
	}
}

// At returns the value of channel c at time step t.
func (a *IntArray) At(c, t int) int32 {
	return a.Data[c*a.Samples+t]
}

// Set assigns the value of channel c at time step t.
func (a *IntArray) Set(c, t int, v int32) {
	a.Data[c*a.Samples+t] = v
}

// Channel returns the contiguous slice of samples for channel c. The slice
// aliases the array's backing buffer.
func (a *IntArray) Channel(c int) []int32 {
	return a.Data[c*a.Samples : (c+1)*a.Samples]
}

// Window copies the time steps [offset, offset+width) of every channel into
// a new channels-by-width array.
func (a *IntArray) Window(offset, width int) (*IntArray, error) {
	if offset < 0 || width <= 0 || offset+width > a.Samples {
		return nil, fmt.Errorf("window [%d, %d) outside [0, %d): %w", offset, offset+width, a.Samples, ErrRange)
	}
	w := NewIntArray(a.Channels, width)
	for c := 0; c < a.Channels; c++ {
		copy(w.Channel(c), a.Channel(c)[offset:offset+width])
	}
	return w, nil
}

// Equal reports whether both arrays have the same shape and identical values.
func (a *IntArray) Equal(b *IntArray) bool {
	if a.Channels != b.Channels || a.Samples != b.Samples {
		return false
	}
	for i, v := range a.Data {
		if b.Data[i] != v {
			return false
		}
	}
	return true
}
