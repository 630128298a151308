package report

import "io"
import "path"

import "github.com/montanaflynn/stats"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import chart "github.com/wcharczuk/go-chart"

// Curves are the per-epoch series drawn on the statistics chart. The
// validation curves are left out when empty.
type Curves struct {
	TrainLoss []float64
	TrainAcc  []float64
	ValAcc    []float64
	ValTop5   []float64
}

// ErrTooShort reports a series too short to draw
var ErrTooShort = errors.New("at least two epochs are needed for a chart")

func epochs(n int) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = float64(i + 1)
	}
	return o
}

// yRange pads the value range so flat series still render
func yRange(series ...[]float64) *chart.ContinuousRange {
	var all []float64
	for _, s := range series {
		all = append(all, s...)
	}
	min, _ := stats.Min(all)
	max, _ := stats.Max(all)
	pad := (max - min) * 0.05
	if pad == 0 {
		pad = 0.1 * max
		if pad <= 0 {
			pad = 1
		}
	}
	return &chart.ContinuousRange{Min: min - pad, Max: max + pad}
}

func render(w io.Writer, title, yName string, names []string, values [][]float64) error {
	var series []chart.Series
	var drawn [][]float64
	for i, v := range values {
		if len(v) == 0 {
			continue
		}
		if len(v) < 2 {
			return ErrTooShort
		}
		series = append(series, chart.ContinuousSeries{
			Name:    names[i],
			XValues: epochs(len(v)),
			YValues: v,
			Style: chart.Style{
				Show:        true,
				StrokeColor: chart.GetAlternateColor(i),
			},
		})
		drawn = append(drawn, v)
	}
	if len(series) == 0 {
		return ErrTooShort
	}
	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "Epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      yName,
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     yRange(drawn...),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}
	return graph.Render(chart.PNG, w)
}

// PlotStats draws losses and accuracies per epoch as PNG
func PlotStats(w io.Writer, c Curves) error {
	return render(w, "Training", "Accuracy / Loss",
		[]string{"Training loss", "Training accuracy", "Validation accuracy", "Validation top-5 accuracy"},
		[][]float64{c.TrainLoss, c.TrainAcc, c.ValAcc, c.ValTop5})
}

// PlotLR draws the learning rate per epoch as PNG
func PlotLR(w io.Writer, lr []float64) error {
	return render(w, "Learning rate", "LR", []string{"LR"}, [][]float64{lr})
}

// SavePNG creates filename and lets draw fill it
func SavePNG(fs afero.Fs, filename string, draw func(io.Writer) error) error {
	if dir := path.Dir(filename); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	f, err := fs.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	if err := draw(f); err != nil {
		f.Close()
		fs.Remove(filename)
		return errors.Wrapf(err, "draw %s", filename)
	}
	return f.Close()
}
