// Command glift compiles the grasp-and-lift EEG corpus into its binary
// cache and prints dataset statistics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Noofbiz/graspLift/datasets"
	"github.com/Noofbiz/graspLift/internal/config"
	"github.com/Noofbiz/graspLift/internal/logx"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		root       = flag.String("root", "", "Corpus root directory (overrides config)")
		split      = flag.String("split", "", "Split to load: train or test (overrides config)")
		window     = flag.Int("window", -1, "Window length in samples, 0 = whole series (overrides config)")
		subjects   = flag.String("subjects", "", "Comma-separated subject numbers to include")
		series     = flag.String("series", "", "Comma-separated series numbers to include")
		download   = flag.Bool("download", false, "Download the corpus archive if absent")
		recompile  = flag.Bool("recompile", false, "Delete existing binary caches and recompile from CSV")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logger := logx.NewLogger(*verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if *root != "" {
		cfg.Root = *root
	}
	if *split != "" {
		cfg.Split = *split
	}
	if *window >= 0 {
		cfg.Window = *window
	}
	if *download {
		cfg.Download = true
	}
	if *subjects != "" {
		if cfg.Subjects, err = parseIntList(*subjects); err != nil {
			logger.Fatal().Err(err).Msg("parse -subjects")
		}
	}
	if *series != "" {
		if cfg.Series, err = parseIntList(*series); err != nil {
			logger.Fatal().Err(err).Msg("parse -series")
		}
	}

	if *recompile {
		splitDir := filepath.Join(cfg.Root, cfg.Split)
		removed, err := removeCaches(splitDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("remove caches")
		}
		logger.Info().Int("removed", removed).Str("dir", splitDir).Msg("cleared binary caches")
	}

	ds, err := datasets.New(datasets.Options{
		Root:          cfg.Root,
		Split:         datasets.Split(cfg.Split),
		Download:      cfg.Download,
		Window:        cfg.Window,
		LastLabelOnly: cfg.LastLabelOnly,
		Subjects:      cfg.Subjects,
		Series:        cfg.Series,
		BatchSize:     cfg.BatchSize,
		Log:           &logger,
	})
	if err != nil {
		if errors.Is(err, datasets.ErrMissingData) {
			logger.Fatal().Err(err).Msg("corpus not found (rerun with -download)")
		}
		logger.Fatal().Err(err).Msg("load dataset")
	}

	var samples, labeled int
	for _, sr := range ds.Series() {
		samples += sr.Data.Samples
		if sr.Labels != nil {
			labeled++
		}
	}
	logger.Info().
		Int("series", len(ds.Series())).
		Int("labeled_series", labeled).
		Int("total_samples", samples).
		Int("window", ds.Window()).
		Int("examples", ds.Len()).
		Msg("dataset ready")

	fmt.Printf("%d series, %d samples, %d examples (window=%d)\n",
		len(ds.Series()), samples, ds.Len(), ds.Window())
}

// parseIntList parses "1,2,3" into []int{1, 2, 3}.
func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad list entry %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// removeCaches deletes every .csv.bin file under dir.
func removeCaches(dir string) (int, error) {
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".csv.bin") {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}
