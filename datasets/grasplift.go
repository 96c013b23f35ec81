package datasets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/rs/zerolog"
)

// Split selects the train or test half of the corpus. The train split
// carries per-sample event labels; the test split does not (they were
// withheld for the competition).
type Split string

const (
	Train Split = "train"
	Test  Split = "test"
)

// Options configure a GraspAndLift dataset.
type Options struct {
	// Root is the directory containing the train/ and test/ folders.
	Root string

	// Split picks the corpus half to load. Defaults to Train.
	Split Split

	// Download fetches and extracts the corpus archive when the split
	// directory is absent. When false an absent directory is an error.
	Download bool

	// Window is the number of time steps per example. Zero means each
	// series is one whole-length example.
	Window int

	// LastLabelOnly returns only the final time step's label vector per
	// window. Requires Window.
	LastLabelOnly bool

	// Subjects optionally restricts which subjects (1-12) to load.
	// Nil loads all subjects.
	Subjects []int

	// Series optionally restricts which series numbers to load per subject.
	// Nil loads all series.
	Series []int

	// BatchSize used by Yield. Defaults to 32.
	BatchSize int

	// Log receives compile and download progress. Defaults to a no-op
	// logger.
	Log *zerolog.Logger
}

// GraspAndLift is a 32-channel, 500Hz EEG dataset of subjects performing
// grasp-and-lift motor tasks, with per-sample binary labels for six events.
// There are 12 subjects with up to 10 series of trials each; the train
// split holds the first 8 series per subject, the test split the last 2
// (unlabeled).
//
// Construction parses the corpus CSV files once and compiles them into
// binary caches next to the sources; later constructions decode the caches
// instead. The whole filtered corpus is held in memory and is immutable, so
// concurrent At calls are safe without locking.
type GraspAndLift struct {
	opts   Options
	series []*Series
	index  *WindowIndex
	pos    int // Yield cursor
}

// New loads the corpus per opts, compiling CSV files into binary caches on
// first use.
func New(opts Options) (*GraspAndLift, error) {
	if opts.LastLabelOnly && opts.Window <= 0 {
		return nil, fmt.Errorf("LastLabelOnly requires Window: %w", ErrBadConfig)
	}
	if opts.Window < 0 {
		return nil, fmt.Errorf("negative window %d: %w", opts.Window, ErrBadConfig)
	}
	if opts.Split == "" {
		opts.Split = Train
	}
	if opts.Split != Train && opts.Split != Test {
		return nil, fmt.Errorf("unknown split %q: %w", opts.Split, ErrBadConfig)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}

	dir := filepath.Join(opts.Root, string(opts.Split))
	if _, err := os.Stat(dir); err != nil {
		if !opts.Download {
			return nil, fmt.Errorf("%s: %w", dir, ErrMissingData)
		}
		if err := os.MkdirAll(opts.Root, 0o755); err != nil {
			return nil, err
		}
		if err := DownloadArchive(opts.Root, log); err != nil {
			return nil, err
		}
	}

	csvFiles, err := recursiveList(dir, ".csv")
	if err != nil {
		return nil, err
	}
	binFiles, err := recursiveList(dir, ".csv"+cacheSuffix)
	if err != nil {
		return nil, err
	}

	store := NewStore()
	comp := NewCompiler(log)
	// Presence-only cache policy: a full set of .csv.bin files is taken as
	// valid; anything less recompiles every matched file.
	if len(binFiles) < len(csvFiles) {
		log.Info().
			Int("bin", len(binFiles)).
			Int("csv", len(csvFiles)).
			Msg("binary cache incomplete, compiling")
		if err := comp.Compile(store, csvFiles, opts.Subjects, opts.Series); err != nil {
			return nil, err
		}
	} else {
		if err := comp.LoadCached(store, binFiles, opts.Subjects, opts.Series); err != nil {
			return nil, err
		}
	}

	included := store.Filter(opts.Subjects, opts.Series)
	lengths := make([]int, len(included))
	for i, sr := range included {
		lengths[i] = sr.Data.Samples
	}

	return &GraspAndLift{
		opts:   opts,
		series: included,
		index:  NewWindowIndex(lengths, opts.Window),
	}, nil
}

// Len returns the flattened window count, or the series count when no
// window is configured.
func (g *GraspAndLift) Len() int {
	return g.index.Total()
}

// Window returns the configured window length, 0 when unset.
func (g *GraspAndLift) Window() int {
	return g.opts.Window
}

// Series returns the included series in canonical order. The returned
// slice and its arrays must not be mutated.
func (g *GraspAndLift) Series() []*Series {
	return g.series
}

// At returns the example at the flat index: a [NumEEGChannels][Window] data
// slice and the aligned [NumEventChannels][Window] label slice (a single
// time step with LastLabelOnly). Without a window the full series arrays
// are returned directly. Labels are nil for splits without event files.
func (g *GraspAndLift) At(index int) (*FloatArray, *IntArray, error) {
	si, offset, err := g.index.Lookup(index)
	if err != nil {
		return nil, nil, err
	}
	sr := g.series[si]
	if g.opts.Window <= 0 {
		return sr.Data, sr.Labels, nil
	}

	x, err := sr.Data.Window(offset, g.opts.Window)
	if err != nil {
		return nil, nil, err
	}
	var y *IntArray
	if sr.Labels != nil {
		if g.opts.LastLabelOnly {
			y, err = sr.Labels.Window(offset+g.opts.Window-1, 1)
		} else {
			y, err = sr.Labels.Window(offset, g.opts.Window)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return x, y, nil
}

// Tensors assembles the examples at the given flat indices into gomlx
// tensors: inputs shaped [batch, channels, window] and labels shaped
// [batch, channels, window] ([batch, channels] with LastLabelOnly). The
// labels tensor is nil for splits without event files. All requested
// examples must share a shape, which always holds when a window is set.
func (g *GraspAndLift) Tensors(indices []int) (*tensors.Tensor, *tensors.Tensor, error) {
	if len(indices) == 0 {
		return nil, nil, fmt.Errorf("empty index batch")
	}
	inputs := make([][][]float32, len(indices))
	var labels3 [][][]float32
	var labels2 [][]float32

	for bi, index := range indices {
		x, y, err := g.At(index)
		if err != nil {
			return nil, nil, err
		}
		if bi > 0 && (x.Channels != len(inputs[0]) || x.Samples != len(inputs[0][0])) {
			return nil, nil, fmt.Errorf("example %d has shape [%d,%d], batch needs [%d,%d]",
				index, x.Channels, x.Samples, len(inputs[0]), len(inputs[0][0]))
		}
		inputs[bi] = toFloat32Rows(x)
		if y == nil {
			continue
		}
		if g.opts.LastLabelOnly {
			row := make([]float32, y.Channels)
			for c := 0; c < y.Channels; c++ {
				row[c] = float32(y.At(c, 0))
			}
			labels2 = append(labels2, row)
		} else {
			labels3 = append(labels3, toFloat32IntRows(y))
		}
	}

	in := tensors.FromAnyValue(inputs)
	switch {
	case labels2 != nil:
		return in, tensors.FromAnyValue(labels2), nil
	case labels3 != nil:
		return in, tensors.FromAnyValue(labels3), nil
	default:
		return in, nil, nil
	}
}

// Name implements the gomlx train.Dataset interface.
func (g *GraspAndLift) Name() string {
	return "GraspAndLiftEEGDetection"
}

// Yield returns the next BatchSize examples as gomlx tensors, advancing a
// sequential cursor. It returns io.EOF once the dataset is exhausted;
// Restart rewinds it.
func (g *GraspAndLift) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if g.pos >= g.Len() {
		return nil, nil, nil, io.EOF
	}
	end := g.pos + g.opts.BatchSize
	if end > g.Len() {
		end = g.Len()
	}
	indices := make([]int, 0, end-g.pos)
	for i := g.pos; i < end; i++ {
		indices = append(indices, i)
	}
	g.pos = end

	in, lab, err := g.Tensors(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs = []*tensors.Tensor{in}
	if lab != nil {
		labels = []*tensors.Tensor{lab}
	}
	return nil, inputs, labels, nil
}

// Restart resets the Yield cursor for a new epoch.
func (g *GraspAndLift) Restart() error {
	g.pos = 0
	return nil
}

func toFloat32Rows(a *FloatArray) [][]float32 {
	rows := make([][]float32, a.Channels)
	for c := 0; c < a.Channels; c++ {
		src := a.Channel(c)
		row := make([]float32, len(src))
		for i, v := range src {
			row[i] = float32(v)
		}
		rows[c] = row
	}
	return rows
}

func toFloat32IntRows(a *IntArray) [][]float32 {
	rows := make([][]float32, a.Channels)
	for c := 0; c < a.Channels; c++ {
		src := a.Channel(c)
		row := make([]float32, len(src))
		for i, v := range src {
			row[i] = float32(v)
		}
		rows[c] = row
	}
	return rows
}
