// Package report writes the result tables and the charts of a run.
package report

import "path"

import "github.com/gocarina/gocsv"
import "github.com/pkg/errors"
import "github.com/spf13/afero"

// Table file names inside the checkpoint folder
const (
	ClassAccuracyFile = "class_accuracy.csv"
	ResultsFile       = "results.csv"
)

// ClassRow is one row of the per-class accuracy table
type ClassRow struct {
	Class    string  `csv:"class"`
	Correct  int     `csv:"correct"`
	Total    int     `csv:"total"`
	Accuracy float64 `csv:"accuracy"`
}

// ResultRow is the prediction for one validation sample
type ResultRow struct {
	Predicted string `csv:"predicted"`
	Expected  string `csv:"expected"`
}

// WriteClassAccuracy writes the per-class table to filename
func WriteClassAccuracy(fs afero.Fs, filename string, rows []ClassRow) error {
	return writeCSV(fs, filename, &rows)
}

// WriteResults writes the per-sample predictions to filename
func WriteResults(fs afero.Fs, filename string, rows []ResultRow) error {
	return writeCSV(fs, filename, &rows)
}

// ReadClassAccuracy reads a table written by WriteClassAccuracy
func ReadClassAccuracy(fs afero.Fs, filename string) (rows []ClassRow, err error) {
	f, err := fs.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	return rows, nil
}

func writeCSV(fs afero.Fs, filename string, rows interface{}) error {
	if dir := path.Dir(filename); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	f, err := fs.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	if err := gocsv.Marshal(rows, f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", filename)
	}
	return f.Close()
}
