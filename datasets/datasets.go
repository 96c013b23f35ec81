// Package datasets loads the Kaggle grasp-and-lift EEG detection corpus
// from CSV files, compiles it into a fast binary cache, and exposes it
// through a random-access indexed interface with optional fixed-width
// sliding-window sampling.
//
// The corpus layout is a root directory with train/ and test/ folders of
// subj<N>_series<M>_data.csv and subj<N>_series<M>_events.csv files. The
// first construction parses the CSVs (validating them against the fixed
// channel schema) and writes a .csv.bin cache next to each file; later
// constructions decode the caches instead of re-parsing text.
//
// Examples are addressed by a single flat index. With a window length W,
// series i of length T_i contributes max(0, T_i-W+1) overlapping windows
// and the flat index ranges over their concatenation in canonical series
// order (subject, then series number). Without a window, each series is
// one whole-length example.
//
// Everything is loaded eagerly and held immutably in memory, so concurrent
// reads need no locking. The GraspAndLift type additionally satisfies the
// gomlx train.Dataset interface (Name/Yield/Restart) for feeding training
// loops directly.
package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// Dataset is the by-index access contract consumers of this package rely
// on: a length and indexed retrieval of (signal window, label window)
// pairs. GraspAndLift implements it.
type Dataset interface {
	Len() int
	At(index int) (*FloatArray, *IntArray, error)

	// Tensors assembles a batch of examples as gomlx tensors.
	Tensors(indices []int) (*tensors.Tensor, *tensors.Tensor, error)

	// Yield and Restart implement gomlx's train.Dataset interface for
	// sequential epoch iteration.
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
	Restart() error
}
