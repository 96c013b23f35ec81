// Command plotwindow renders one example window of the grasp-and-lift EEG
// corpus as a stacked line plot, one trace per channel.
package main

import (
	"flag"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/graspLift/datasets"
	"github.com/Noofbiz/graspLift/internal/logx"
)

func main() {
	var (
		root     = flag.String("root", "./data", "Corpus root directory")
		split    = flag.String("split", "train", "Split to load: train or test")
		window   = flag.Int("window", 1024, "Window length in samples")
		index    = flag.Int("index", 0, "Flat example index to render")
		channels = flag.Int("channels", datasets.NumEEGChannels, "Number of channels to draw, from the top of the montage")
		out      = flag.String("out", "window.png", "Output image path")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logger := logx.NewLogger(*verbose)

	ds, err := datasets.New(datasets.Options{
		Root:   *root,
		Split:  datasets.Split(*split),
		Window: *window,
		Log:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("load dataset")
	}

	x, y, err := ds.At(*index)
	if err != nil {
		logger.Fatal().Err(err).Int("index", *index).Msg("fetch window")
	}

	n := *channels
	if n > x.Channels {
		n = x.Channels
	}

	p := plot.New()
	p.Title.Text = "grasp-and-lift EEG window"
	p.X.Label.Text = "sample"
	p.Y.Label.Text = "channel (stacked)"

	spacing := channelSpacing(x, n)
	for c := 0; c < n; c++ {
		row := x.Channel(c)
		mean := rowMean(row)
		xys := make(plotter.XYs, len(row))
		for t, v := range row {
			xys[t] = plotter.XY{X: float64(t), Y: v - mean + float64(c)*spacing}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			logger.Fatal().Err(err).Int("channel", c).Msg("build line")
		}
		line.Width = vg.Points(0.6)
		line.Color = color.RGBA{R: 30, G: 60, B: uint8(90 + (c*5)%160), A: 255}
		p.Add(line)
	}

	if y != nil {
		logger.Info().Int("label_steps", y.Samples).Msg("window has event labels")
	}

	if err := p.Save(10*vg.Inch, 8*vg.Inch, *out); err != nil {
		logger.Fatal().Err(err).Str("out", *out).Msg("save plot")
	}
	logger.Info().Str("out", *out).Int("channels", n).Int("samples", x.Samples).Msg("wrote plot")
}

// channelSpacing returns a vertical offset large enough to keep de-meaned
// traces from overlapping: three times the largest channel deviation.
func channelSpacing(a *datasets.FloatArray, n int) float64 {
	maxDev := 0.0
	for c := 0; c < n; c++ {
		row := a.Channel(c)
		mean := rowMean(row)
		for _, v := range row {
			if d := math.Abs(v - mean); d > maxDev {
				maxDev = d
			}
		}
	}
	if maxDev == 0 {
		return 1
	}
	return 3 * maxDev
}

func rowMean(row []float64) float64 {
	if len(row) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range row {
		sum += v
	}
	return sum / float64(len(row))
}
